package execsvc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/essential-contributions/zk-benchmarks/guest"
)

var kindCodes = map[guest.Kind]codes.Code{
	guest.KindMalformed:    codes.InvalidArgument,
	guest.KindVerification: codes.FailedPrecondition,
	guest.KindOpcode:       codes.Unimplemented,
	guest.KindCommit:       codes.Internal,
}

// toStatus converts a guest failure into a status error. The structured
// fields travel as a Struct detail so the client can rebuild *guest.Error.
func toStatus(err error) error {
	var ge *guest.Error
	if !errors.As(err, &ge) {
		switch {
		case errors.Is(err, context.Canceled):
			return status.Error(codes.Canceled, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return status.Error(codes.DeadlineExceeded, err.Error())
		default:
			return status.Error(codes.Internal, err.Error())
		}
	}
	code, ok := kindCodes[ge.Kind]
	if !ok {
		code = codes.Unknown
	}
	fields := map[string]interface{}{
		"kind":  string(ge.Kind),
		"rule":  ge.RuleID,
		"index": float64(ge.Index),
	}
	if ge.Cause != nil {
		fields["cause"] = ge.Cause.Error()
	}
	st := status.New(code, ge.Message)
	detail, derr := structpb.NewStruct(fields)
	if derr != nil {
		return st.Err()
	}
	if withDetail, derr := st.WithDetails(detail); derr == nil {
		st = withDetail
	}
	return st.Err()
}

// fromStatus rebuilds the guest error carried by err. Errors without a guest
// detail are returned as they are, except for context cancellation.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		s, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		f := s.GetFields()
		ge := &guest.Error{
			Kind:    guest.Kind(f["kind"].GetStringValue()),
			RuleID:  f["rule"].GetStringValue(),
			Message: st.Message(),
			Index:   int(f["index"].GetNumberValue()),
		}
		if cause := f["cause"].GetStringValue(); cause != "" {
			ge.Cause = errors.New(cause)
		}
		return ge
	}
	switch st.Code() {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return err
}
