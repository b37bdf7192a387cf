package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/payrun/internal/rpcx"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
}

// NewPayrunClient connects to endpointURL. Extra dial options are appended
// after the defaults.
func NewPayrunClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.timeoutInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

// timeoutInterceptor bounds calls whose context carries no deadline.
func (s *GRPCClient) timeoutInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if _, ok := ctx.Deadline(); !ok && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.Unavailable:
		// the server reports storage faults as Unavailable too
		return fmt.Errorf("%w: %w", ErrUnavailable, rpcx.FromStatus(err))
	default:
		return rpcx.FromStatus(err)
	}
}

func (s *GRPCClient) invoke(ctx context.Context, method string, in, out proto.Message) error {
	return s.mapError(s.conn.Invoke(ctx, rpcx.FullMethod(method), in, out))
}

func request(m map[string]any) (*structpb.Struct, error) {
	req, err := rpcx.Encode(m)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return req, nil
}

func decoded[T any](v T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return v, nil
}

func (s *GRPCClient) ListBacklog(ctx context.Context) ([]*models.BacklogItem, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodListBacklog, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "items", rpcx.DecodeBacklogItem))
}

func (s *GRPCClient) ReorderBacklog(ctx context.Context, itemID string, newIndex int) ([]*models.BacklogItem, error) {
	req, err := request(map[string]any{"work_item_id": itemID, "index": newIndex})
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodReorderBacklog, req, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "items", rpcx.DecodeBacklogItem))
}

func (s *GRPCClient) ListSlots(ctx context.Context) ([]models.BoardPosition, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodListSlots, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "positions", rpcx.DecodePosition))
}

func (s *GRPCClient) RemoveSlot(ctx context.Context, slotID string) error {
	return s.invoke(ctx, rpcx.MethodRemoveSlot, wrapperspb.String(slotID), &emptypb.Empty{})
}

func (s *GRPCClient) ReorderSlots(ctx context.Context, from, to int) ([]models.BoardPosition, error) {
	req, err := request(map[string]any{"from": from, "to": to})
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodReorderSlots, req, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "positions", rpcx.DecodePosition))
}

func (s *GRPCClient) AdjustSlotAmount(ctx context.Context, slotID string, amount models.Money) (*models.BoardSlot, error) {
	req, err := request(map[string]any{"slot_id": slotID, "amount": amount.String()})
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodAdjustSlotAmount, req, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.DecodeSlot(out))
}

func (s *GRPCClient) RunAutoFill(ctx context.Context) (int, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodRunAutoFill, &emptypb.Empty{}, out); err != nil {
		return 0, err
	}
	f := rpcx.NewFields(out)
	return decoded(f.Int("filled"), f.Err)
}

func (s *GRPCClient) SettleSlot(ctx context.Context, slotID string) (*models.HistoryEntry, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodSettleSlot, wrapperspb.String(slotID), out); err != nil {
		return nil, err
	}
	return decoded(rpcx.DecodeHistoryEntry(out))
}

func (s *GRPCClient) ApproveBoard(ctx context.Context) (*models.Run, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodApproveBoard, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.DecodeRun(out))
}

func (s *GRPCClient) CreatePerson(ctx context.Context, name, role string) (*models.Person, error) {
	req, err := request(map[string]any{"name": name, "role": role})
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodCreatePerson, req, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.DecodePerson(out))
}

func (s *GRPCClient) ListPeople(ctx context.Context) ([]*models.Person, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodListPeople, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "people", rpcx.DecodePerson))
}

// DeletePerson always sends confirm=true; asking the user is up to the caller.
func (s *GRPCClient) DeletePerson(ctx context.Context, personID string) error {
	req, err := request(map[string]any{"person_id": personID, "confirm": true})
	if err != nil {
		return err
	}
	return s.invoke(ctx, rpcx.MethodDeletePerson, req, &emptypb.Empty{})
}

func (s *GRPCClient) CreateWorkItem(ctx context.Context, personID, description string, total models.Money) (*models.WorkItem, error) {
	req, err := request(map[string]any{
		"person_id":   personID,
		"description": description,
		"total":       total.String(),
	})
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodCreateWorkItem, req, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.DecodeWorkItem(out))
}

func (s *GRPCClient) ListWorkItems(ctx context.Context) ([]*models.WorkItem, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodListWorkItems, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "items", rpcx.DecodeWorkItem))
}

func (s *GRPCClient) ListHistory(ctx context.Context) ([]*models.HistoryEntry, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodListHistory, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "entries", rpcx.DecodeHistoryEntry))
}

func (s *GRPCClient) PersonTotals(ctx context.Context) ([]*models.PersonTotal, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodPersonTotals, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "totals", rpcx.DecodePersonTotal))
}

func (s *GRPCClient) Reconcile(ctx context.Context) ([]models.Mismatch, error) {
	out := &structpb.Struct{}
	if err := s.invoke(ctx, rpcx.MethodReconcile, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decoded(rpcx.Decode(out, "mismatches", rpcx.DecodeMismatch))
}
