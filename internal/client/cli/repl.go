package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpLoggedIn  = "Available commands: list <collection> [orderBy] [asc|desc], show <collection> <id>, delete <collection> <id>, logout, help, exit"
)

// runREPL reads commands line by line and dispatches them to a. The loop
// ends on EOF or on "exit"/"quit". Handler errors are printed and the loop
// goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		fmt.Printf("folio %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "l", "list", "show", "delete", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			switch cmd {
			case "l", "list":
				cmdErr = a.List(ctx, args)
			case "show":
				cmdErr = a.Show(ctx, args)
			case "delete":
				cmdErr = a.Delete(ctx, args)
			case "logout":
				cmdErr = a.Logout(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
