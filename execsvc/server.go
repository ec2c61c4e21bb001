package execsvc

import (
	"context"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/essential-contributions/zk-benchmarks/guest"
	"github.com/essential-contributions/zk-benchmarks/logging"
	"github.com/essential-contributions/zk-benchmarks/zkvm"
)

// Server executes guest inputs for remote callers. The zero value uses the
// Native backend and the base logger.
type Server struct {
	UnimplementedExecutorServer

	// Backend proves each request. Defaults to zkvm.Native.
	Backend zkvm.Backend
	Log     logging.Logger
}

func (s *Server) backend() zkvm.Backend {
	if s.Backend == nil {
		return zkvm.Native{}
	}
	return s.Backend
}

func (s *Server) log() logging.Logger {
	if s.Log == nil {
		return logging.Base()
	}
	return s.Log
}

func (s *Server) Execute(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	input := in.GetValue()
	fields := logging.Fields{"bytes": len(input)}
	if len(input) > 0 {
		fields["op"] = guest.Op(input[0]).String()
	}
	log := s.log().WithFields(fields)

	start := time.Now()
	proof, err := s.backend().Prove(ctx, input)
	if err != nil {
		log.WithError(err).Warn("execution failed")
		return nil, toStatus(err)
	}
	log.With("elapsed", time.Since(start)).Debug("executed")
	return wrapperspb.Bytes(proof.PublicValues), nil
}

func (s *Server) VerifyingKey(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	vk := s.backend().VerifyingKey()
	return wrapperspb.Bytes(vk[:]), nil
}
