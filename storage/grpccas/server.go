package grpccas

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/essential-contributions/zk-benchmarks/cidutil"
	"github.com/essential-contributions/zk-benchmarks/storage"
)

// Server exposes a storage.CAS as the artifact store service.
type Server struct {
	UnimplementedArtifactStoreServer
	CAS storage.CAS
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "no store configured")
	}
	data := in.GetValue()
	id, err := s.CAS.Put(ctx, data)
	if err != nil {
		return nil, toStatus(err)
	}
	// Hold the backend to the CID contract before answering.
	if !cidutil.Matches(id, data) {
		return nil, toStatus(storage.ErrCIDMismatch)
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "no store configured")
	}
	id, err := cidutil.Parse(in.GetValue())
	if err != nil {
		return nil, toStatus(storage.ErrInvalidCID)
	}
	b, err := s.CAS.Get(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	if !cidutil.Matches(id, b) {
		return nil, toStatus(storage.ErrCIDMismatch)
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "no store configured")
	}
	id, err := cidutil.Parse(in.GetValue())
	if err != nil {
		return nil, toStatus(storage.ErrInvalidCID)
	}
	ok, err := s.CAS.Has(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(ok), nil
}
