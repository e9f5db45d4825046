package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	admin bool

	calls []string
	paths []string
	args  [][]string
	today []bool
}

func (f *fakeExec) isAdmin(context.Context) bool { return f.admin }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.admin = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.admin = false
	return nil
}
func (f *fakeExec) Open(ctx context.Context, path string, args []string) error {
	f.calls = append(f.calls, "open")
	f.paths = append(f.paths, path)
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Routes(ctx context.Context) error {
	f.calls = append(f.calls, "routes")
	return nil
}
func (f *fakeExec) Retry(ctx context.Context) error {
	f.calls = append(f.calls, "retry")
	return nil
}
func (f *fakeExec) Export(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "export")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Metrics(ctx context.Context) error {
	f.calls = append(f.calls, "metrics")
	return nil
}
func (f *fakeExec) Dismiss(ctx context.Context, today bool) error {
	f.calls = append(f.calls, "dismiss")
	f.today = append(f.today, today)
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"/events",
		"/sermons video grace",
		"open /events/e1/register",
		"retry",
		"routes",
		"dismiss today",
		"dismiss",
		"metrics",
		"export csv e1",
		"foobar",
		"logout",
		"exit",
		"/never",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"login", "open", "open", "open", "retry", "routes", "dismiss", "dismiss", "metrics", "export", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"/events", "/sermons", "/events/e1/register"}, exec.paths)
	assert.Equal(t, []string{"video", "grace"}, exec.args[1])
	assert.Equal(t, []string{"csv", "e1"}, exec.args[3])
	assert.Equal(t, []bool{true, false}, exec.today)

	text := joined(out)
	assert.Contains(t, text, "church> status > ")
	assert.Contains(t, text, "login, exit")
	assert.Contains(t, text, "export, logout, exit")
	assert.Contains(t, text, "Unknown command: foobar")
	assert.Contains(t, text, "Bye!")
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader("open\nexport\n\nquit\n")
	exec := &fakeExec{admin: true}

	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	require.Empty(t, exec.calls)
	assert.Contains(t, joined(out), "Usage: open /path")
	assert.Contains(t, joined(out), "Usage: export csv|pdf [eventID]")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("login\n")))

	assert.Empty(t, exec.calls)
}

func TestRunREPL_EOF(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("/gallery")))

	assert.Equal(t, []string{"/gallery"}, exec.paths)
}
