package cli

import (
	"bufio"
	"context"
	"strconv"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	Fetch(ctx context.Context) error
	List(ctx context.Context, limit int) error
	Filter(ctx context.Context, text string) error
	Sort(ctx context.Context, column string, desc bool) error
	Show(ctx context.Context, login string) error
	Status(ctx context.Context) error
	Reload(ctx context.Context) error
}

const helpText = "Available commands: fetch, (l)ist [n], filter [text], sort <column> [desc], show <login>, status, reload, exit"

// runREPL reads commands from scanner until EOF, "exit" or "quit".
// Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, out *Terminal, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		out.Printf("uf> ")
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
			out.Println(helpText)

		case "fetch":
			err = a.Fetch(ctx)

		case "l", "list":
			limit := 0
			if len(args) > 0 {
				n, convErr := strconv.Atoi(args[0])
				if convErr != nil || n < 0 {
					out.Println("Usage: list [n]")
					continue
				}
				limit = n
			}
			err = a.List(ctx, limit)

		case "filter":
			err = a.Filter(ctx, strings.Join(args, " "))

		case "sort":
			if len(args) == 0 {
				out.Println("Usage: sort <column> [desc]")
				continue
			}
			desc := false
			if last := args[len(args)-1]; len(args) > 1 && (last == "desc" || last == "asc") {
				desc = last == "desc"
				args = args[:len(args)-1]
			}
			err = a.Sort(ctx, strings.Join(args, " "), desc)

		case "show":
			if len(args) == 0 {
				out.Println("Usage: show <login>")
				continue
			}
			err = a.Show(ctx, args[0])

		case "status":
			err = a.Status(ctx)

		case "reload":
			err = a.Reload(ctx)

		case "exit", "quit":
			out.Println("Bye!")
			return

		default:
			out.Println("Unknown command:", cmd)
		}

		if err != nil {
			out.Println("Error:", err)
		}
	}
}
