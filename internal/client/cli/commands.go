package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

// ErrNoTerminal is returned by delperson when confirmation cannot be asked.
var ErrNoTerminal = errors.New("stdin is not a terminal; pass --force to delete without confirmation")

func usage(u string) error {
	return fmt.Errorf("usage: %s", u)
}

func parseInts(args []string, u string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, usage(u)
		}
		out = append(out, n)
	}
	return out, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *App) printBacklog(items []*models.BacklogItem) {
	if len(items) == 0 {
		a.printf("Backlog is empty")
		return
	}
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(i), it.ID, it.PersonName, it.PersonRole, it.Description,
			money(it.Total), money(it.Paid), money(it.Remaining()), yesNo(it.Slotted),
		})
	}
	fmt.Fprintln(a.out, renderTable(
		[]string{"#", "Item", "Person", "Role", "Description", "Total", "Paid", "Remaining", "On board"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
}

func (a *App) printBoard(board []models.BoardPosition) {
	rows := make([][]string, 0, len(board))
	occupied := 0
	total := models.Zero
	for _, p := range board {
		if p.Empty() {
			rows = append(rows, []string{strconv.Itoa(p.Position), "-", "", "", "", ""})
			continue
		}
		occupied++
		total = total.Add(p.Slot.Amount)
		rows = append(rows, []string{
			strconv.Itoa(p.Position), p.Slot.ID, p.Slot.WorkItemID, p.Slot.PersonName, p.Slot.Description, money(p.Slot.Amount),
		})
	}
	fmt.Fprintln(a.out, renderTable(
		[]string{"Pos", "Slot", "Item", "Person", "Description", "Amount"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	a.printf("Occupied %d/%d, total %s", occupied, models.BoardCapacity, money(total))
}

func (a *App) printEntries(entries []*models.HistoryEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format(time.DateTime), e.PersonName, e.WorkItemID, e.Description, money(e.Amount),
		})
	}
	fmt.Fprintln(a.out, renderTable(
		[]string{"When", "Person", "Item", "Description", "Amount"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
}

func (a *App) Backlog(ctx context.Context, _ []string) error {
	items, err := a.client.ListBacklog(ctx)
	if err != nil {
		return err
	}
	a.printBacklog(items)
	return nil
}

func (a *App) ReorderBacklog(ctx context.Context, args []string) error {
	const u = "reorder <item-id> <index>"
	if len(args) != 2 {
		return usage(u)
	}
	idx, err := parseInts(args[1:], u)
	if err != nil {
		return err
	}

	items, err := a.client.ReorderBacklog(ctx, args[0], idx[0])
	if err != nil {
		return err
	}
	a.printBacklog(items)
	return nil
}

func (a *App) Board(ctx context.Context, _ []string) error {
	board, err := a.client.ListSlots(ctx)
	if err != nil {
		return err
	}
	a.printBoard(board)
	return nil
}

func (a *App) RemoveSlot(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <slot-id>")
	}
	if err := a.client.RemoveSlot(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Slot %s removed, its item went to the back of the backlog", args[0])
	return nil
}

func (a *App) MoveSlot(ctx context.Context, args []string) error {
	const u = "move <from> <to>"
	if len(args) != 2 {
		return usage(u)
	}
	pos, err := parseInts(args, u)
	if err != nil {
		return err
	}

	board, err := a.client.ReorderSlots(ctx, pos[0], pos[1])
	if err != nil {
		return err
	}
	a.printBoard(board)
	return nil
}

func (a *App) AdjustSlot(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("adjust <slot-id> <amount>")
	}
	amount, err := models.ParseMoney(args[1])
	if err != nil {
		return fmt.Errorf("bad amount %q: %w", args[1], err)
	}

	slot, err := a.client.AdjustSlotAmount(ctx, args[0], amount)
	if err != nil {
		return err
	}
	a.printf("Slot %s will pay %s", slot.ID, money(slot.Amount))
	return nil
}

func (a *App) AutoFill(ctx context.Context, _ []string) error {
	n, err := a.client.RunAutoFill(ctx)
	if err != nil {
		return err
	}
	a.printf("Filled %d slot(s)", n)
	return nil
}

func (a *App) Settle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("settle <slot-id>")
	}
	e, err := a.client.SettleSlot(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("Paid %s to %s for %s", money(e.Amount), e.PersonName, e.Description)
	return nil
}

func (a *App) Approve(ctx context.Context, _ []string) error {
	run, err := a.client.ApproveBoard(ctx)
	if err != nil {
		return err
	}
	a.printEntries(run.Entries)
	a.printf("Run %s: %d payment(s), total %s", run.ID, len(run.Entries), money(run.Total))
	return nil
}

func (a *App) People(ctx context.Context, _ []string) error {
	people, err := a.client.ListPeople(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(people))
	for _, p := range people {
		rows = append(rows, []string{p.ID, p.Name, p.Role, p.CreatedAt.Local().Format(time.DateOnly)})
	}
	fmt.Fprintln(a.out, renderTable([]string{"ID", "Name", "Role", "Since"}, rows, nil))
	return nil
}

func (a *App) AddPerson(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("addperson <role> <name...>")
	}
	p, err := a.client.CreatePerson(ctx, strings.Join(args[1:], " "), args[0])
	if err != nil {
		return err
	}
	a.printf("Added %s (%s) with id %s", p.Name, p.Role, p.ID)
	return nil
}

// DeletePerson removes a person after the user retypes the id. Without a
// terminal to ask on, only --force lets it through.
func (a *App) DeletePerson(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 || (len(args) == 2 && args[1] != "--force") {
		return usage("delperson <person-id> [--force]")
	}
	id, force := args[0], len(args) == 2

	if !force {
		if !isTerminal(int(os.Stdin.Fd())) {
			return ErrNoTerminal
		}
		answer, err := GetSimpleText(a.scanner,
			fmt.Sprintf("This deletes %s with all of their work items, slots and payment history.\nType the id again to confirm", id), a.out)
		if err != nil {
			return err
		}
		if answer != id {
			a.printf("Aborted")
			return nil
		}
	}

	if err := a.client.DeletePerson(ctx, id); err != nil {
		return err
	}
	a.printf("Deleted %s", id)
	return nil
}

func (a *App) AddItem(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("additem <person-id> <total> <description...>")
	}
	total, err := models.ParseMoney(args[1])
	if err != nil {
		return fmt.Errorf("bad total %q: %w", args[1], err)
	}

	w, err := a.client.CreateWorkItem(ctx, args[0], strings.Join(args[2:], " "), total)
	if err != nil {
		return err
	}
	a.printf("Added work item %s for %s, priority %d", w.ID, money(w.Total), w.Priority)
	return nil
}

func (a *App) Items(ctx context.Context, _ []string) error {
	items, err := a.client.ListWorkItems(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, w := range items {
		rows = append(rows, []string{
			w.ID, w.PersonID, w.Description, money(w.Total), money(w.Paid), yesNo(w.Completed), strconv.Itoa(w.Priority),
		})
	}
	fmt.Fprintln(a.out, renderTable(
		[]string{"ID", "Person", "Description", "Total", "Paid", "Done", "Priority"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight},
	))
	return nil
}

func (a *App) History(ctx context.Context, _ []string) error {
	entries, err := a.client.ListHistory(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("No payments yet")
		return nil
	}
	a.printEntries(entries)
	return nil
}

func (a *App) Totals(ctx context.Context, _ []string) error {
	totals, err := a.client.PersonTotals(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{t.PersonID, t.Name, t.Role, strconv.Itoa(t.Entries), money(t.Paid)})
	}
	fmt.Fprintln(a.out, renderTable(
		[]string{"Person", "Name", "Role", "Payments", "Paid"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
	return nil
}

func (a *App) Reconcile(ctx context.Context, _ []string) error {
	misses, err := a.client.Reconcile(ctx)
	if err != nil {
		return err
	}
	if len(misses) == 0 {
		a.printf("Ledger is consistent")
		return nil
	}
	rows := make([][]string, 0, len(misses))
	for _, m := range misses {
		rows = append(rows, []string{m.WorkItemID, money(m.Paid), money(m.Ledger)})
	}
	fmt.Fprintln(a.out, renderTable([]string{"Item", "Paid", "Ledger"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
	a.printf("%d mismatch(es) found", len(misses))
	return nil
}
