package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls    []string
	args     [][]string
	notified []error
	failOn   string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	if name == f.failOn {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool                    { return f.loggedIn }
func (f *fakeExec) Notify(_ context.Context, err error) { f.notified = append(f.notified, err) }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Open(_ context.Context, a []string) error      { return f.record("open", a) }
func (f *fakeExec) Select(_ context.Context, a []string) error    { return f.record("select", a) }
func (f *fakeExec) Transform(_ context.Context, a []string) error { return f.record("transform", a) }
func (f *fakeExec) Cancel(context.Context) error                  { return f.record("cancel", nil) }
func (f *fakeExec) Image(_ context.Context, a []string) error     { return f.record("image", a) }
func (f *fakeExec) Rename(_ context.Context, a []string) error    { return f.record("rename", a) }
func (f *fakeExec) SetStatus(_ context.Context, a []string) error { return f.record("status", a) }
func (f *fakeExec) Save(context.Context) error                    { return f.record("save", nil) }
func (f *fakeExec) Show(context.Context) error                    { return f.record("show", nil) }
func (f *fakeExec) Preview(context.Context) error                 { return f.record("preview", nil) }
func (f *fakeExec) List(context.Context) error                    { return f.record("list", nil) }
func (f *fakeExec) Versions(_ context.Context, a []string) error  { return f.record("versions", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error    { return f.record("delete", a) }
func (f *fakeExec) Duplicate(_ context.Context, a []string) error { return f.record("duplicate", a) }
func (f *fakeExec) Restore(_ context.Context, a []string) error   { return f.record("restore", a) }
func (f *fakeExec) Stats(context.Context) error                   { return f.record("stats", nil) }

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, x := range a {
			if s, ok := x.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"open v7",
		"select intro Hello world",
		"transform custom make it shorter",
		"",
		"save",
		"l",
		"versions p1",
		"stats",
		"exit",
		"show",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"login", "open", "select", "transform", "save", "list", "versions", "stats"}, exec.calls)
	assert.Equal(t, []string{"v7"}, exec.args[1])
	assert.Equal(t, []string{"intro", "Hello", "world"}, exec.args[2])
	assert.Equal(t, []string{"custom", "make", "it", "shorter"}, exec.args[3])
	assert.Empty(t, exec.notified)
}

func TestRunREPL_ErrorsAreNotified(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{loggedIn: true, failOn: "save"}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("save\nsave\nquit\n")))

	assert.Len(t, exec.notified, 2)
	assert.EqualError(t, exec.notified[0], "save failed")
}

func TestRunREPL_UnknownCommandAndHelp(t *testing.T) {
	lines := silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("help\nfoobar\n")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, helpSignedOut)
	assert.Contains(t, *lines, "Unknown command: foobar")
}
