package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
	err   error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return f.err
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Profile(ctx context.Context) error {
	f.calls = append(f.calls, "profile")
	return nil
}
func (f *fakeExec) Rename(ctx context.Context, name string) error {
	f.calls = append(f.calls, "rename")
	f.arg = name
	return nil
}
func (f *fakeExec) Practice(ctx context.Context) error {
	f.calls = append(f.calls, "practice")
	return nil
}
func (f *fakeExec) Top(ctx context.Context) error { f.calls = append(f.calls, "top"); return nil }
func (f *fakeExec) Avatar(ctx context.Context, path string) error {
	f.calls = append(f.calls, "avatar")
	f.arg = path
	return nil
}

func capturePrints(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func lines(in ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(in, "\n") + "\n"))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, lines(
		"help",
		"whoami",
		"login",
		"help",
		"profile",
		"rename Grace Hopper",
		"practice",
		"top",
		"avatar me.png",
		"logout",
		"foobar",
		"exit",
		"login",
	))

	require.Equal(t, []string{
		"whoami", "login", "profile", "rename", "practice", "top", "avatar", "logout",
	}, exec.calls)
	require.Equal(t, "me.png", exec.arg)
}

func TestRunREPL_RenameJoinsArgs(t *testing.T) {
	capturePrints(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, lines("rename Grace Hopper", "quit"))

	require.Equal(t, "Grace Hopper", exec.arg)
}

func TestRunREPL_SignedInOnlyCommandsRefused(t *testing.T) {
	out := capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, lines("profile", "logout", "rename x", "avatar a.png", "quit"))

	require.Empty(t, exec.calls)
	require.Contains(t, *out, "Please log in first.")
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	out := capturePrints(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "(Ada)" }, lines("rename", "avatar", "quit"))

	require.Empty(t, exec.calls)
	require.Contains(t, *out, "Usage: rename <name>")
	require.Contains(t, *out, "Usage: avatar <file>")
	require.Contains(t, *out, "tt (Ada)> ")
	require.Contains(t, *out, "Bye!")
}

func TestRunREPL_HandlerErrorIsPrinted(t *testing.T) {
	out := capturePrints(t)

	exec := &fakeExec{err: errors.New("stdin closed")}
	runREPL(context.Background(), exec, func() string { return "" }, lines("register", "quit"))

	require.Contains(t, *out, "Error: stdin closed")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("")))
	require.Empty(t, exec.calls)
}
