package client

import (
	"context"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

type Client interface {
	Close() error

	ListBacklog(ctx context.Context) ([]*models.BacklogItem, error)
	ReorderBacklog(ctx context.Context, itemID string, newIndex int) ([]*models.BacklogItem, error)
	ListSlots(ctx context.Context) ([]models.BoardPosition, error)
	RemoveSlot(ctx context.Context, slotID string) error
	ReorderSlots(ctx context.Context, from, to int) ([]models.BoardPosition, error)
	AdjustSlotAmount(ctx context.Context, slotID string, amount models.Money) (*models.BoardSlot, error)
	RunAutoFill(ctx context.Context) (int, error)
	SettleSlot(ctx context.Context, slotID string) (*models.HistoryEntry, error)
	ApproveBoard(ctx context.Context) (*models.Run, error)

	CreatePerson(ctx context.Context, name, role string) (*models.Person, error)
	ListPeople(ctx context.Context) ([]*models.Person, error)
	DeletePerson(ctx context.Context, personID string) error
	CreateWorkItem(ctx context.Context, personID, description string, total models.Money) (*models.WorkItem, error)
	ListWorkItems(ctx context.Context) ([]*models.WorkItem, error)

	ListHistory(ctx context.Context) ([]*models.HistoryEntry, error)
	PersonTotals(ctx context.Context) ([]*models.PersonTotal, error)
	Reconcile(ctx context.Context) ([]models.Mismatch, error)
}
