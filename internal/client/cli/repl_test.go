package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) Backlog(_ context.Context, a []string) error { return f.record("backlog", a) }
func (f *fakeExec) ReorderBacklog(_ context.Context, a []string) error {
	return f.record("reorder", a)
}
func (f *fakeExec) Board(_ context.Context, a []string) error { return f.record("board", a) }
func (f *fakeExec) RemoveSlot(_ context.Context, a []string) error { return f.record("remove", a) }
func (f *fakeExec) MoveSlot(_ context.Context, a []string) error { return f.record("move", a) }
func (f *fakeExec) AdjustSlot(_ context.Context, a []string) error { return f.record("adjust", a) }
func (f *fakeExec) AutoFill(_ context.Context, a []string) error { return f.record("fill", a) }
func (f *fakeExec) Settle(_ context.Context, a []string) error { return f.record("settle", a) }
func (f *fakeExec) Approve(_ context.Context, a []string) error { return f.record("approve", a) }
func (f *fakeExec) People(_ context.Context, a []string) error { return f.record("people", a) }
func (f *fakeExec) AddPerson(_ context.Context, a []string) error { return f.record("addperson", a) }
func (f *fakeExec) DeletePerson(_ context.Context, a []string) error {
	return f.record("delperson", a)
}
func (f *fakeExec) AddItem(_ context.Context, a []string) error { return f.record("additem", a) }
func (f *fakeExec) Items(_ context.Context, a []string) error { return f.record("items", a) }
func (f *fakeExec) History(_ context.Context, a []string) error { return f.record("history", a) }
func (f *fakeExec) Totals(_ context.Context, a []string) error { return f.record("totals", a) }
func (f *fakeExec) Reconcile(_ context.Context, a []string) error { return f.record("reconcile", a) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"backlog",
		"reorder w-1 2",
		"board",
		"",
		"remove s-1",
		"move 3 0",
		"adjust s-1 12.50",
		"fill",
		"settle s-2",
		"approve",
		"people",
		"addperson dev Ann Lee",
		"delperson p-1 --force",
		"additem p-1 100 fix the roof",
		"items",
		"history",
		"totals",
		"reconcile",
		"exit",
		"board",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{
		"backlog", "reorder", "board", "remove", "move", "adjust", "fill", "settle", "approve",
		"people", "addperson", "delperson", "additem", "items", "history", "totals", "reconcile",
	}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls mismatch:\n got %v\nwant %v", exec.calls, want)
	}
	if got := strings.Join(exec.args[1], " "); got != "w-1 2" {
		t.Fatalf("reorder args: %q", got)
	}
	if got := strings.Join(exec.args[10], " "); got != "dev Ann Lee" {
		t.Fatalf("addperson args: %q", got)
	}
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("board is empty")}
	sc := bufio.NewScanner(strings.NewReader("approve\nfoobar\nboard\n"))

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 2 {
		t.Fatalf("expected both commands to run, got %v", exec.calls)
	}
	joined := strings.Join(*out, "")
	if !strings.Contains(joined, "Error: board is empty") {
		t.Fatalf("error not reported: %q", joined)
	}
	if !strings.Contains(joined, "Unknown command: foobar") {
		t.Fatalf("unknown command not reported: %q", joined)
	}
}

func TestRunREPL_QuitStopsReading(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	sc := bufio.NewScanner(strings.NewReader("quit\nboard\n"))

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
