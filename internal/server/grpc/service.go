package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/payrun/internal/rpcx"
)

// PayrunServiceServer is the server API of rpcx.ServiceName. Messages are
// protobuf well-known types; their fields are described by the rpcx codecs.
type PayrunServiceServer interface {
	ListBacklog(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ReorderBacklog(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSlots(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	RemoveSlot(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ReorderSlots(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdjustSlotAmount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RunAutoFill(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SettleSlot(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ApproveBoard(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CreatePerson(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPeople(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	DeletePerson(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	CreateWorkItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListWorkItems(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListHistory(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	PersonTotals(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Reconcile(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func newEmpty() *emptypb.Empty { return &emptypb.Empty{} }
func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newString() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }

func unary[Req, Resp proto.Message](name string, newReq func() Req, call func(PayrunServiceServer, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PayrunServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rpcx.FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(PayrunServiceServer), ctx, req.(Req))
			})
		},
	}
}

// ServiceDesc describes rpcx.ServiceName for grpc.Server.RegisterService.
// The contract lives in internal/proto; Metadata is relative to that root.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: rpcx.ServiceName,
	HandlerType: (*PayrunServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(rpcx.MethodListBacklog, newEmpty, PayrunServiceServer.ListBacklog),
		unary(rpcx.MethodReorderBacklog, newStruct, PayrunServiceServer.ReorderBacklog),
		unary(rpcx.MethodListSlots, newEmpty, PayrunServiceServer.ListSlots),
		unary(rpcx.MethodRemoveSlot, newString, PayrunServiceServer.RemoveSlot),
		unary(rpcx.MethodReorderSlots, newStruct, PayrunServiceServer.ReorderSlots),
		unary(rpcx.MethodAdjustSlotAmount, newStruct, PayrunServiceServer.AdjustSlotAmount),
		unary(rpcx.MethodRunAutoFill, newEmpty, PayrunServiceServer.RunAutoFill),
		unary(rpcx.MethodSettleSlot, newString, PayrunServiceServer.SettleSlot),
		unary(rpcx.MethodApproveBoard, newEmpty, PayrunServiceServer.ApproveBoard),
		unary(rpcx.MethodCreatePerson, newStruct, PayrunServiceServer.CreatePerson),
		unary(rpcx.MethodListPeople, newEmpty, PayrunServiceServer.ListPeople),
		unary(rpcx.MethodDeletePerson, newStruct, PayrunServiceServer.DeletePerson),
		unary(rpcx.MethodCreateWorkItem, newStruct, PayrunServiceServer.CreateWorkItem),
		unary(rpcx.MethodListWorkItems, newEmpty, PayrunServiceServer.ListWorkItems),
		unary(rpcx.MethodListHistory, newEmpty, PayrunServiceServer.ListHistory),
		unary(rpcx.MethodPersonTotals, newEmpty, PayrunServiceServer.PersonTotals),
		unary(rpcx.MethodReconcile, newEmpty, PayrunServiceServer.Reconcile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payrun/v1/payrun.proto",
}
