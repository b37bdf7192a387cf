package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/payrun/internal/rpcx"
)

func invalid(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func encoded(s *structpb.Struct, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return s, nil
}

func required(name, v string) error {
	if v == "" {
		return status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return nil
}

func (s *GRPCServer) ListBacklog(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	items, err := s.scheduler.ListBacklog(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("items", items, rpcx.EncodeBacklogItem))
}

func (s *GRPCServer) ReorderBacklog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpcx.NewFields(req)
	id, index := f.String("work_item_id"), f.Int("index")
	if f.Err != nil {
		return nil, invalid(f.Err)
	}
	if err := required("work_item_id", id); err != nil {
		return nil, err
	}

	items, err := s.scheduler.ReorderBacklog(ctx, id, index)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("items", items, rpcx.EncodeBacklogItem))
}

func (s *GRPCServer) ListSlots(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	board, err := s.scheduler.ListSlots(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("positions", board, rpcx.EncodePosition))
}

func (s *GRPCServer) RemoveSlot(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := required("slot id", req.GetValue()); err != nil {
		return nil, err
	}
	if err := s.scheduler.RemoveSlot(ctx, req.GetValue()); err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ReorderSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpcx.NewFields(req)
	from, to := f.Int("from"), f.Int("to")
	if f.Err != nil {
		return nil, invalid(f.Err)
	}

	board, err := s.scheduler.ReorderSlots(ctx, from, to)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("positions", board, rpcx.EncodePosition))
}

func (s *GRPCServer) AdjustSlotAmount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpcx.NewFields(req)
	id, amount := f.String("slot_id"), f.Money("amount")
	if f.Err != nil {
		return nil, invalid(f.Err)
	}
	if err := required("slot_id", id); err != nil {
		return nil, err
	}

	slot, err := s.scheduler.AdjustSlotAmount(ctx, id, amount)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.Encode(rpcx.EncodeSlot(slot)))
}

func (s *GRPCServer) RunAutoFill(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	n, err := s.scheduler.RunAutoFill(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.Encode(map[string]any{"filled": n}))
}

func (s *GRPCServer) SettleSlot(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if err := required("slot id", req.GetValue()); err != nil {
		return nil, err
	}
	entry, err := s.scheduler.SettleSlot(ctx, req.GetValue())
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.Encode(rpcx.EncodeHistoryEntry(entry)))
}

func (s *GRPCServer) ApproveBoard(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	run, err := s.scheduler.ApproveBoard(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.Encode(rpcx.EncodeRun(run)))
}

func (s *GRPCServer) CreatePerson(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpcx.NewFields(req)
	name, role := f.String("name"), f.String("role")
	if f.Err != nil {
		return nil, invalid(f.Err)
	}

	p, err := s.registry.CreatePerson(ctx, name, role)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.Encode(rpcx.EncodePerson(p)))
}

func (s *GRPCServer) ListPeople(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	people, err := s.registry.ListPeople(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("people", people, rpcx.EncodePerson))
}

// DeletePerson cascades to all of the person's work and history, so the
// caller must send confirm=true.
func (s *GRPCServer) DeletePerson(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	f := rpcx.NewFields(req)
	id, confirm := f.String("person_id"), f.Bool("confirm")
	if f.Err != nil {
		return nil, invalid(f.Err)
	}
	if err := required("person_id", id); err != nil {
		return nil, err
	}
	if !confirm {
		return nil, status.Error(codes.InvalidArgument, "deleting a person removes all their work and history; set confirm")
	}

	if err := s.registry.DeletePerson(ctx, id); err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) CreateWorkItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpcx.NewFields(req)
	personID, desc, total := f.String("person_id"), f.String("description"), f.Money("total")
	if f.Err != nil {
		return nil, invalid(f.Err)
	}
	if err := required("person_id", personID); err != nil {
		return nil, err
	}

	w, err := s.registry.CreateWorkItem(ctx, personID, desc, total)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.Encode(rpcx.EncodeWorkItem(w)))
}

func (s *GRPCServer) ListWorkItems(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	items, err := s.registry.ListWorkItems(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("items", items, rpcx.EncodeWorkItem))
}

func (s *GRPCServer) ListHistory(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	entries, err := s.ledger.ListHistory(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("entries", entries, rpcx.EncodeHistoryEntry))
}

func (s *GRPCServer) PersonTotals(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	totals, err := s.ledger.PersonTotals(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("totals", totals, rpcx.EncodePersonTotal))
}

func (s *GRPCServer) Reconcile(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	mismatches, err := s.ledger.Reconcile(ctx)
	if err != nil {
		return nil, rpcx.ToStatus(err)
	}
	return encoded(rpcx.List("mismatches", mismatches, rpcx.EncodeMismatch))
}
