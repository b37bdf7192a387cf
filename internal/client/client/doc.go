// Package client talks to the payrun server.
//
// # Overview
//
// The Client interface mirrors the server API: backlog and board
// operations, settlement, person and work intake, and the ledger views.
// GRPCClient implements it over a single *grpc.ClientConn, sending and
// receiving the protobuf well-known messages described in package rpcx.
//
// # Error Handling
//
// Status errors are turned back into domain errors with rpcx.FromStatus,
// so callers can match common.ErrorNotFound, common.ErrEmptyBoard and the
// other sentinels with errors.Is. A server that cannot be reached, or a
// call that runs out of time, yields ErrUnavailable. A response that does
// not decode yields ErrBadResponse.
//
// Every call honours the context and is bounded by the per-call timeout
// given to NewPayrunClient.
package client
