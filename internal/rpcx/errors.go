package rpcx

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/payrun/internal/common"
)

var codeOf = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrEmptyBoard, codes.FailedPrecondition},
	{common.ErrConflict, codes.Aborted},
	{common.ErrInvalidArgument, codes.InvalidArgument},
	{common.ErrStorage, codes.Unavailable},
}

// ToStatus converts a service error into a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, c := range codeOf {
		if errors.Is(err, c.err) {
			return status.Error(c.code, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// FromStatus turns a status error received by a client back into an error
// that matches the domain sentinel with errors.Is.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, c := range codeOf {
		if st.Code() == c.code {
			return fmt.Errorf("%s: %w", st.Message(), c.err)
		}
	}
	return err
}
