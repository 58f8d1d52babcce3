package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(context.Context) error { f.calls = append(f.calls, "whoami"); return nil }
func (f *fakeExec) Groups(context.Context) error { f.calls = append(f.calls, "groups"); return nil }
func (f *fakeExec) DMs(context.Context) error {
	f.calls = append(f.calls, "dms")
	return errors.New("boom")
}
func (f *fakeExec) MakeGroup(_ context.Context, name string) error {
	f.calls = append(f.calls, "mkgroup:"+name)
	return nil
}
func (f *fakeExec) MakeDM(_ context.Context, uid string) error {
	f.calls = append(f.calls, "dm:"+uid)
	return nil
}
func (f *fakeExec) Leave(_ context.Context, gid string) error {
	f.calls = append(f.calls, "leave:"+gid)
	return nil
}
func (f *fakeExec) LeaveDM(_ context.Context, gid string) error {
	f.calls = append(f.calls, "leavedm:"+gid)
	return nil
}

func TestRunREPL_Dispatch(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"whoami",
		"groups",
		"dms",
		"mkgroup core team",
		"dm 7",
		"leave 9",
		"leavedm 4",
		"foobar",
		"logout",
		"exit",
		"groups",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)), &out)

	assert.Equal(t, []string{"login", "whoami", "groups", "dms", "mkgroup:core team", "dm:7", "leave:9", "leavedm:4", "logout"}, exec.calls)
	assert.Contains(t, out.String(), "Available commands: register, login, exit")
	assert.Contains(t, out.String(), "mkgroup <name>")
	assert.Contains(t, out.String(), "Error: boom")
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Contains(t, out.String(), "Bye!")
	assert.Contains(t, out.String(), "sb status> ")
}

func TestRunREPL_UsageAndEOF(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("mkgroup\ndm\nleave 1 2\nleavedm\ndms")), &out)

	assert.Equal(t, []string{"dms"}, exec.calls)
	assert.Contains(t, out.String(), "Usage: mkgroup <name>")
	assert.Contains(t, out.String(), "Usage: dm <uid>")
	assert.Contains(t, out.String(), "Usage: leave <gid>")
	assert.Contains(t, out.String(), "Usage: leavedm <gid>")
}
