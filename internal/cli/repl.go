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
	Store(ctx context.Context, name, path string) error
	Retrieve(ctx context.Context, name, path string) error
}

// runREPL starts a simple read–eval–print loop for the SafeStorage shell.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                       — show available commands
//	  - register                   — create an account
//	  - login                      — authenticate
//	  - exit | quit                — leave the program
//
//	Logged in:
//	  - help                       — show available commands
//	  - store <name> <path>        — save a file as a named submission
//	  - retrieve <name> <path>     — copy a submission to a local file
//	  - logout                     — log out
//	  - exit | quit                — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own outcomes. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ss %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: store <name> <path>, retrieve <name> <path>, register, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "store":
			if len(args) != 2 {
				printlnFn("Usage: store <name> <path>")
				continue
			}
			_ = a.Store(ctx, args[0], args[1])

		case "retrieve":
			if len(args) != 2 {
				printlnFn("Usage: retrieve <name> <path>")
				continue
			}
			_ = a.Retrieve(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
