// Package execsvc runs the guest program behind a gRPC service so that a
// benchmark host can drive a remote executor or prover box.
//
// The service is described with protobuf well-known types only:
//
//	service Executor {
//	  rpc Execute(google.protobuf.BytesValue) returns (google.protobuf.BytesValue);
//	  rpc VerifyingKey(google.protobuf.Empty) returns (google.protobuf.BytesValue);
//	}
//
// Execute takes an encoded guest input and returns the committed public
// values. Guest failures come back as status errors carrying a
// google.protobuf.Struct detail with the error kind, rule and entry index.
package execsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "zkbench.execsvc.v1.Executor"

const (
	methodExecute      = "/" + ServiceName + "/Execute"
	methodVerifyingKey = "/" + ServiceName + "/VerifyingKey"
)

type ExecutorServer interface {
	Execute(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	VerifyingKey(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
}

type UnimplementedExecutorServer struct{}

func (UnimplementedExecutorServer) Execute(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Execute not implemented")
}
func (UnimplementedExecutorServer) VerifyingKey(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyingKey not implemented")
}

func RegisterExecutorServer(s grpc.ServiceRegistrar, srv ExecutorServer) {
	s.RegisterService(&Executor_ServiceDesc, srv)
}

type ExecutorClient interface {
	Execute(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	VerifyingKey(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type executorClient struct{ cc grpc.ClientConnInterface }

func NewExecutorClient(cc grpc.ClientConnInterface) ExecutorClient { return &executorClient{cc: cc} }

func (c *executorClient) Execute(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, methodExecute, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *executorClient) VerifyingKey(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, methodVerifyingKey, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Executor_Execute_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutorServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodExecute}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutorServer).Execute(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Executor_VerifyingKey_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutorServer).VerifyingKey(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodVerifyingKey}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutorServer).VerifyingKey(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var Executor_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExecutorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Execute", Handler: _Executor_Execute_Handler},
		{MethodName: "VerifyingKey", Handler: _Executor_VerifyingKey_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "zkbench/execsvc/v1/executor.proto",
}
