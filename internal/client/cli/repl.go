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
	Passwd(ctx context.Context) error
	Unregister(ctx context.Context) error
	Upload(ctx context.Context, paths []string) error
	List(ctx context.Context) error
	Process(id string) error
	Download(id string) error
	Delete(id string) error
	Transfers() error
}

// runREPL starts a simple read-eval-print loop for the invoicer CLI.
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
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help               — show available commands
//	  - upload <path>...   — upload one or more invoice files
//	  - (l)ist             — list files and their status
//	  - process <fileid>   — run processing on an unprocessed file
//	  - download <fileid>  — download a processed file
//	  - del <fileid>       — delete a file
//	  - transfers          — show in-flight uploads
//	  - passwd             — change the account password
//	  - unregister         — delete the account
//	  - logout             — log out
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("invoicer %s > ", statusFn()))
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
				printlnFn("Available commands: upload, (l)ist, process, download, del, transfers, passwd, unregister, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "unregister":
			_ = a.Unregister(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path> [<path>...]")
				continue
			}
			_ = a.Upload(ctx, args)

		case "l", "list":
			_ = a.List(ctx)

		case "process":
			if len(args) == 0 {
				printlnFn("Usage: process <fileid>")
				continue
			}
			_ = a.Process(args[0])

		case "download":
			if len(args) == 0 {
				printlnFn("Usage: download <fileid>")
				continue
			}
			_ = a.Download(args[0])

		case "del", "delete":
			if len(args) == 0 {
				printlnFn("Usage: del <fileid>")
				continue
			}
			_ = a.Delete(args[0])

		case "transfers":
			_ = a.Transfers()

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
