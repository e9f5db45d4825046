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
	isAdmin(ctx context.Context) bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Open(ctx context.Context, path string, args []string) error
	Routes(ctx context.Context) error
	Retry(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Dismiss(ctx context.Context, today bool) error
	Metrics(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ministry CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. A token starting with '/' is a
// page path. Unknown commands are reported back to the user. The loop exits
// on scanner EOF, on ctx cancellation or when the user types "exit" or
// "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Everyone:
//	  - help              — show available commands
//	  - routes            — list the pages that can be opened
//	  - /path [args]      — open a page, e.g. /events/42/register
//	  - retry             — reload the last page after an error
//	  - dismiss [today]   — close the announcement banner
//	  - metrics           — print cache and mutation counters
//	  - login             — enter the admin passcode
//	  - exit | quit       — leave the program
//
//	Admin:
//	  - export csv|pdf [eventID] — write registrations to a file
//	  - logout            — drop admin access
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("church> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if strings.HasPrefix(cmd, "/") {
			_ = a.Open(ctx, cmd, args)
			continue
		}

		switch cmd {
		case "help":
			if a.isAdmin(ctx) {
				printlnFn("Available commands: /path, routes, retry, dismiss, metrics, export, logout, exit")
			} else {
				printlnFn("Available commands: /path, routes, retry, dismiss, metrics, login, exit")
			}

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open /path")
				continue
			}
			_ = a.Open(ctx, args[0], args[1:])

		case "routes":
			_ = a.Routes(ctx)

		case "retry":
			_ = a.Retry(ctx)

		case "dismiss":
			_ = a.Dismiss(ctx, len(args) > 0 && args[0] == "today")

		case "metrics":
			_ = a.Metrics(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export csv|pdf [eventID]")
				continue
			}
			_ = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
