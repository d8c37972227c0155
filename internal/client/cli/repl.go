package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Notify(ctx context.Context, err error)

	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Open(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Transform(ctx context.Context, args []string) error
	Cancel(ctx context.Context) error
	Image(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	SetStatus(ctx context.Context, args []string) error
	Save(ctx context.Context) error
	Show(ctx context.Context) error
	Preview(ctx context.Context) error

	List(ctx context.Context) error
	Versions(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Duplicate(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error

	Stats(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, open [id], select, transform, cancel, show, preview, stats, exit"
	helpSignedIn  = "Available commands: open [id], select <component> <text>, transform <tone> [prompt], cancel, " +
		"image <component> <prompt>, rename <name>, status <DRAFT|PUBLISHED|ARCHIVED>, save, show, preview, " +
		"(l)ist, versions [project], delete <id>, duplicate <id>, restore <id>, stats, logout, exit"
)

// runREPL starts the read–eval–print loop of the editor.
//
// It reads a line from the scanner, parses the first token as the command
// and dispatches to methods on a. Every error a command returns is handed to
// a.Notify, which turns it into a one-line message. The loop exits on
// scanner EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("lp %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)

		case "open":
			err = a.Open(ctx, args)
		case "select":
			err = a.Select(ctx, args)
		case "transform":
			err = a.Transform(ctx, args)
		case "cancel":
			err = a.Cancel(ctx)
		case "image":
			err = a.Image(ctx, args)
		case "rename":
			err = a.Rename(ctx, args)
		case "status":
			err = a.SetStatus(ctx, args)
		case "save":
			err = a.Save(ctx)
		case "show":
			err = a.Show(ctx)
		case "preview":
			err = a.Preview(ctx)

		case "l", "list":
			err = a.List(ctx)
		case "versions":
			err = a.Versions(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "duplicate":
			err = a.Duplicate(ctx, args)
		case "restore":
			err = a.Restore(ctx, args)

		case "stats":
			err = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			a.Notify(ctx, err)
		}
	}
}
