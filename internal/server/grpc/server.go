package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/payrun/internal/logging"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

// Scheduler is the board and settlement API served over gRPC.
type Scheduler interface {
	ListBacklog(ctx context.Context) ([]*models.BacklogItem, error)
	ReorderBacklog(ctx context.Context, itemID string, newIndex int) ([]*models.BacklogItem, error)
	ListSlots(ctx context.Context) ([]models.BoardPosition, error)
	RemoveSlot(ctx context.Context, slotID string) error
	ReorderSlots(ctx context.Context, from, to int) ([]models.BoardPosition, error)
	AdjustSlotAmount(ctx context.Context, slotID string, amount models.Money) (*models.BoardSlot, error)
	RunAutoFill(ctx context.Context) (int, error)
	SettleSlot(ctx context.Context, slotID string) (*models.HistoryEntry, error)
	ApproveBoard(ctx context.Context) (*models.Run, error)
}

// Registry is the person and work intake API served over gRPC.
type Registry interface {
	CreatePerson(ctx context.Context, name, role string) (*models.Person, error)
	ListPeople(ctx context.Context) ([]*models.Person, error)
	DeletePerson(ctx context.Context, id string) error
	CreateWorkItem(ctx context.Context, personID, description string, total models.Money) (*models.WorkItem, error)
	ListWorkItems(ctx context.Context) ([]*models.WorkItem, error)
}

// Ledger is the read-side history API served over gRPC.
type Ledger interface {
	ListHistory(ctx context.Context) ([]*models.HistoryEntry, error)
	PersonTotals(ctx context.Context) ([]*models.PersonTotal, error)
	Reconcile(ctx context.Context) ([]models.Mismatch, error)
}

type GRPCServer struct {
	address   string
	scheduler Scheduler
	registry  Registry
	ledger    Ledger
	logger    logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, sc Scheduler, rs Registry, ls Ledger) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		scheduler: sc,
		registry:  rs,
		ledger:    ls,
	}
}

// NewServer returns a grpc.Server with the payrun service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.loggingInterceptor))
	srv.RegisterService(&ServiceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
