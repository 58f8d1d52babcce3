package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/scuttlebutt/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readPasswordHash(w io.Writer) (string, error) {
	password, err := getPassword(w)
	if err != nil {
		return "", err
	}
	return hashPassword(password), nil
}

// Register prompts for a username, an email and a password and creates the
// account. The new user id is printed; it is what login asks for.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	hash, err := a.readPasswordHash(a.out)
	if err != nil {
		return err
	}

	u, err := a.api.Signup(ctx, name, email, hash)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s with id %d\n", u.Username, u.ID)
	return nil
}

// Login prompts for a user id and password and keeps the token in memory.
func (a *App) Login(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Enter user id", a.out)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", raw)
	}
	hash, err := a.readPasswordHash(a.out)
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, id, hash); err != nil {
		return err
	}
	u, err := a.api.User(ctx, id)
	if err != nil {
		a.api.Logout()
		return err
	}

	a.userID, a.userName = u.ID, u.Username
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(context.Context) error {
	a.api.Logout()
	a.userID, a.userName = 0, ""
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	u, err := a.api.User(ctx, a.userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d %s <%s>\n", u.ID, u.Username, u.Email)
	return nil
}
