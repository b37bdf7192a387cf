package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Backlog(ctx context.Context, args []string) error
	ReorderBacklog(ctx context.Context, args []string) error
	Board(ctx context.Context, args []string) error
	RemoveSlot(ctx context.Context, args []string) error
	MoveSlot(ctx context.Context, args []string) error
	AdjustSlot(ctx context.Context, args []string) error
	AutoFill(ctx context.Context, args []string) error
	Settle(ctx context.Context, args []string) error
	Approve(ctx context.Context, args []string) error
	People(ctx context.Context, args []string) error
	AddPerson(ctx context.Context, args []string) error
	DeletePerson(ctx context.Context, args []string) error
	AddItem(ctx context.Context, args []string) error
	Items(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Totals(ctx context.Context, args []string) error
	Reconcile(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  backlog                                 list pending work in priority order
  reorder <item-id> <index>               move a backlog item to index
  board                                   show the ten board positions
  remove <slot-id>                        take a slot off the board, item goes to the back
  move <from> <to>                        move a board slot to another position
  adjust <slot-id> <amount>               change the amount a slot will pay
  fill                                    fill empty positions from the backlog
  settle <slot-id>                        pay a single slot
  approve                                 pay every slot on the board at once
  people                                  list people
  addperson <role> <name...>              register a person
  delperson <person-id> [--force]         delete a person with all their work and history
  additem <person-id> <total> <desc...>   add a work item to the backlog
  items                                   list all work items
  history                                 list settled payments
  totals                                  paid amounts per person
  reconcile                               check work items against the ledger
  exit | quit                             leave the program`

// runREPL starts a simple read–eval–print loop for the payrun CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and passes the remaining tokens to the matching method on 'a'.
// Errors returned by a command are printed and the loop goes on. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("payrun %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "backlog":
			err = a.Backlog(ctx, args)

		case "reorder":
			err = a.ReorderBacklog(ctx, args)

		case "b", "board":
			err = a.Board(ctx, args)

		case "remove":
			err = a.RemoveSlot(ctx, args)

		case "move":
			err = a.MoveSlot(ctx, args)

		case "adjust":
			err = a.AdjustSlot(ctx, args)

		case "fill":
			err = a.AutoFill(ctx, args)

		case "settle":
			err = a.Settle(ctx, args)

		case "approve":
			err = a.Approve(ctx, args)

		case "people":
			err = a.People(ctx, args)

		case "addperson":
			err = a.AddPerson(ctx, args)

		case "delperson":
			err = a.DeletePerson(ctx, args)

		case "additem":
			err = a.AddItem(ctx, args)

		case "items":
			err = a.Items(ctx, args)

		case "history":
			err = a.History(ctx, args)

		case "totals":
			err = a.Totals(ctx, args)

		case "reconcile":
			err = a.Reconcile(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
