// Package rpcx holds what the gRPC server and client share: the service and
// method names, the protobuf Struct encoding of ledger models and the mapping
// between domain errors and status codes.
package rpcx

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "payrun.v1.PayrunService"

// Method names of ServiceName.
const (
	MethodListBacklog      = "ListBacklog"
	MethodReorderBacklog   = "ReorderBacklog"
	MethodListSlots        = "ListSlots"
	MethodRemoveSlot       = "RemoveSlot"
	MethodReorderSlots     = "ReorderSlots"
	MethodAdjustSlotAmount = "AdjustSlotAmount"
	MethodRunAutoFill      = "RunAutoFill"
	MethodSettleSlot       = "SettleSlot"
	MethodApproveBoard     = "ApproveBoard"
	MethodCreatePerson     = "CreatePerson"
	MethodListPeople       = "ListPeople"
	MethodDeletePerson     = "DeletePerson"
	MethodCreateWorkItem   = "CreateWorkItem"
	MethodListWorkItems    = "ListWorkItems"
	MethodListHistory      = "ListHistory"
	MethodPersonTotals     = "PersonTotals"
	MethodReconcile        = "Reconcile"
)

// FullMethod returns the path a client invokes, e.g.
// "/payrun.v1.PayrunService/ListSlots".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
