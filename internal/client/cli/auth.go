package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/typetutor/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, display name and password and creates an
// account through the session store. Rejections are printed, not returned.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Register(ctx, email, name, string(password))
	if !res.Success {
		fmt.Fprintf(a.out, "Registration failed: %s\n", res.Error)
		return nil
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", a.session.Snapshot().User.Name)
	return nil
}

// Login prompts for credentials and signs in through the session store.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Login(ctx, email, string(password))
	if !res.Success {
		fmt.Fprintf(a.out, "Login failed: %s\n", res.Error)
		return nil
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", a.session.Snapshot().User.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the session snapshot without contacting the server.
func (a *App) WhoAmI(_ context.Context) error {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", snap.User.Name, snap.User.Email)
	return nil
}
