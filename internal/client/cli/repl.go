package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/triptales/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, status string) error
	Show(ctx context.Context, id string) error
	Approve(ctx context.Context, id, note string) error
	Reject(ctx context.Context, id, note string) error
}

// runREPL starts a simple read–eval–print loop for the moderation CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	help                    show available commands
//	login                   authenticate (prompts for email and password)
//	list [status]           newest itineraries, optionally by review status
//	pending                 shorthand for "list pending"
//	show <id>               one itinerary with its proof verdict
//	approve <id> [note...]  approve an itinerary (admin)
//	reject <id> [note...]   reject an itinerary (admin)
//	logout                  forget the session token
//	exit | quit             leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tt> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist [status], pending, show <id>, approve <id> [note], reject <id> [note], logout, exit")
			} else {
				printlnFn("Available commands: login, (l)ist [status], pending, show <id>, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "l", "list":
			_ = a.List(ctx, firstArg(args))

		case "pending":
			_ = a.List(ctx, common.StatusPending)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "approve", "reject":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id> [note]", cmd))
				continue
			}
			note := strings.Join(args[1:], " ")
			if cmd == "approve" {
				_ = a.Approve(ctx, args[0], note)
			} else {
				_ = a.Reject(ctx, args[0], note)
			}

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
