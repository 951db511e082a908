package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Rename(ctx context.Context, name string) error
	Practice(ctx context.Context) error
	Top(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
}

// signedInOnly lists the commands refused before login.
var signedInOnly = map[string]bool{
	"logout":  true,
	"profile": true,
	"rename":  true,
	"avatar":  true,
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Not logged in: help, register, login, whoami, practice, top, exit.
// Logged in additionally: logout, profile, rename <name>, avatar <file>.
// practice is available to everyone; only signed-in runs are saved.
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tt%s> ", prefixSpace(statusFn())))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if signedInOnly[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, rename <name>, avatar <file>, practice, top, logout, exit")
			} else {
				printlnFn("Available commands: register, login, whoami, practice, top, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "profile":
			err = a.Profile(ctx)

		case "rename":
			if len(args) == 0 {
				printlnFn("Usage: rename <name>")
				continue
			}
			err = a.Rename(ctx, strings.Join(args, " "))

		case "avatar":
			if len(args) != 1 {
				printlnFn("Usage: avatar <file>")
				continue
			}
			err = a.Avatar(ctx, args[0])

		case "practice":
			err = a.Practice(ctx)

		case "top":
			err = a.Top(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
