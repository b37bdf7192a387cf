package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/payrun/internal/common"
	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/logging"
	"github.com/dmitrijs2005/payrun/internal/server/models"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/repomanager"
)

// RegistryService manages people and the intake of new work items.
type RegistryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	writer      *sync.Mutex
	logger      logging.Logger
}

func NewRegistryService(db *sql.DB, m repomanager.RepositoryManager, writer *sync.Mutex, logger logging.Logger) *RegistryService {
	return &RegistryService{db: db, repomanager: m, writer: writer, logger: logger.With("module", "registry")}
}

func (s *RegistryService) CreatePerson(ctx context.Context, name, role string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create person: name is required: %w", common.ErrInvalidArgument)
	}

	p, err := s.repomanager.People(s.db).Create(ctx, &models.Person{Name: name, Role: strings.TrimSpace(role)})
	if err != nil {
		return nil, classify("create person", err)
	}

	s.logger.Info(ctx, "person created", "person_id", p.ID)
	return p, nil
}

func (s *RegistryService) ListPeople(ctx context.Context) ([]*models.Person, error) {
	people, err := s.repomanager.People(s.db).List(ctx)
	if err != nil {
		return nil, classify("list people", err)
	}
	return people, nil
}

// DeletePerson removes a person together with their work items, slots and
// history. It is irreversible; confirming it is the caller's job.
func (s *RegistryService) DeletePerson(ctx context.Context, id string) error {
	err := serialised(ctx, s.db, s.writer, "delete person", func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.People(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Warn(ctx, "person deleted with all work and history", "person_id", id)
	return nil
}

// CreateWorkItem registers work owed to a person and queues it at the back of
// the backlog. A zero total is complete from the start and is never queued.
func (s *RegistryService) CreateWorkItem(ctx context.Context, personID, description string, total models.Money) (*models.WorkItem, error) {
	if total.IsNegative() {
		return nil, fmt.Errorf("create work item: negative total %s: %w", total, common.ErrInvalidArgument)
	}
	if err := models.ValidateMoney(total); err != nil {
		return nil, fmt.Errorf("create work item: %w", err)
	}

	var item *models.WorkItem
	err := serialised(ctx, s.db, s.writer, "create work item", func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.People(tx).Get(ctx, personID); err != nil {
			return err
		}

		max, err := s.repomanager.WorkItems(tx).MaxPendingPriority(ctx)
		if err != nil {
			return err
		}

		item, err = s.repomanager.WorkItems(tx).Create(ctx, &models.WorkItem{
			PersonID:    personID,
			Description: strings.TrimSpace(description),
			Total:       total,
			Paid:        models.Zero,
			Completed:   total.IsZero(),
			Priority:    max + 1,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "work item created", "work_item_id", item.ID, "person_id", personID, "priority", item.Priority)
	return item, nil
}

// ListWorkItems returns every work item, completed ones included.
func (s *RegistryService) ListWorkItems(ctx context.Context) ([]*models.WorkItem, error) {
	items, err := s.repomanager.WorkItems(s.db).List(ctx)
	if err != nil {
		return nil, classify("list work items", err)
	}
	return items, nil
}
