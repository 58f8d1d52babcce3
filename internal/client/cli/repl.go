package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Groups(ctx context.Context) error
	DMs(ctx context.Context) error
	MakeGroup(ctx context.Context, name string) error
	MakeDM(ctx context.Context, uid string) error
	Leave(ctx context.Context, gid string) error
	LeaveDM(ctx context.Context, gid string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit". Command
// errors are printed and the loop continues.
//
//	Not logged in:  help, register, login, exit
//	Logged in:      help, whoami, groups, dms, mkgroup <name>, dm <uid>,
//	                leave <gid>, leavedm <gid>, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "sb %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: whoami, groups, dms, mkgroup <name>, dm <uid>, leave <gid>, leavedm <gid>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "groups":
			cmdErr = a.Groups(ctx)
		case "dms":
			cmdErr = a.DMs(ctx)

		case "mkgroup":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: mkgroup <name>")
				continue
			}
			cmdErr = a.MakeGroup(ctx, strings.Join(args, " "))
		case "dm":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: dm <uid>")
				continue
			}
			cmdErr = a.MakeDM(ctx, args[0])
		case "leave":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: leave <gid>")
				continue
			}
			cmdErr = a.Leave(ctx, args[0])
		case "leavedm":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: leavedm <gid>")
				continue
			}
			cmdErr = a.LeaveDM(ctx, args[0])

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}
