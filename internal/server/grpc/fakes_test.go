package grpc

import (
	"context"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

type fakeScheduler struct {
	backlog []*models.BacklogItem
	board   []models.BoardPosition
	slot    *models.BoardSlot
	entry   *models.HistoryEntry
	run     *models.Run
	filled  int
	err     error

	gotID     string
	gotIndex  int
	gotFrom   int
	gotTo     int
	gotAmount models.Money
}

func (f *fakeScheduler) ListBacklog(context.Context) ([]*models.BacklogItem, error) {
	return f.backlog, f.err
}
func (f *fakeScheduler) ReorderBacklog(_ context.Context, id string, idx int) ([]*models.BacklogItem, error) {
	f.gotID, f.gotIndex = id, idx
	return f.backlog, f.err
}
func (f *fakeScheduler) ListSlots(context.Context) ([]models.BoardPosition, error) {
	return f.board, f.err
}
func (f *fakeScheduler) RemoveSlot(_ context.Context, id string) error {
	f.gotID = id
	return f.err
}
func (f *fakeScheduler) ReorderSlots(_ context.Context, from, to int) ([]models.BoardPosition, error) {
	f.gotFrom, f.gotTo = from, to
	return f.board, f.err
}
func (f *fakeScheduler) AdjustSlotAmount(_ context.Context, id string, amount models.Money) (*models.BoardSlot, error) {
	f.gotID, f.gotAmount = id, amount
	return f.slot, f.err
}
func (f *fakeScheduler) RunAutoFill(context.Context) (int, error) {
	return f.filled, f.err
}
func (f *fakeScheduler) SettleSlot(_ context.Context, id string) (*models.HistoryEntry, error) {
	f.gotID = id
	return f.entry, f.err
}
func (f *fakeScheduler) ApproveBoard(context.Context) (*models.Run, error) {
	return f.run, f.err
}

type fakeRegistry struct {
	person  *models.Person
	people  []*models.Person
	item    *models.WorkItem
	items   []*models.WorkItem
	err     error
	deleted []string

	gotTotal models.Money
}

func (f *fakeRegistry) CreatePerson(_ context.Context, name, role string) (*models.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Person{ID: "p-1", Name: name, Role: role}, nil
}
func (f *fakeRegistry) ListPeople(context.Context) ([]*models.Person, error) {
	return f.people, f.err
}
func (f *fakeRegistry) DeletePerson(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}
func (f *fakeRegistry) CreateWorkItem(_ context.Context, personID, desc string, total models.Money) (*models.WorkItem, error) {
	f.gotTotal = total
	if f.err != nil {
		return nil, f.err
	}
	return &models.WorkItem{ID: "w-1", PersonID: personID, Description: desc, Total: total, Paid: models.Zero}, nil
}
func (f *fakeRegistry) ListWorkItems(context.Context) ([]*models.WorkItem, error) {
	return f.items, f.err
}

type fakeLedger struct {
	entries    []*models.HistoryEntry
	totals     []*models.PersonTotal
	mismatches []models.Mismatch
	err        error
}

func (f *fakeLedger) ListHistory(context.Context) ([]*models.HistoryEntry, error) {
	return f.entries, f.err
}
func (f *fakeLedger) PersonTotals(context.Context) ([]*models.PersonTotal, error) {
	return f.totals, f.err
}
func (f *fakeLedger) Reconcile(context.Context) ([]models.Mismatch, error) {
	return f.mismatches, f.err
}
