// Package codec carries engine calls over gRPC so generation and collapse can
// run in a separate process from the HTTP server.
package codec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc
// ServiceName is the fully qualified gRPC service name.
const ServiceName = "decisionfield.v1.Engine"

const (
	generateMethod = "/" + ServiceName + "/Generate"
	collapseMethod = "/" + ServiceName + "/Collapse"
)

// EngineServer is the server side of decisionfield.v1.Engine. Messages are
// google.protobuf.Struct so no generated code is needed.
type EngineServer interface {
	Generate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Collapse(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterEngineServer registers srv on s.
func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&engineServiceDesc, srv)
}

var engineServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: generateHandler},
		{MethodName: "Collapse", Handler: collapseHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "decisionfield/v1/engine.proto",
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).Generate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServer).Generate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func collapseHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).Collapse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: collapseMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServer).Collapse(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc

// #region client-stub
// EngineClient is the client side of decisionfield.v1.Engine.
type EngineClient interface {
	Generate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Collapse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type engineClient struct {
	cc grpc.ClientConnInterface
}

// NewEngineClient returns a stub bound to cc.
func NewEngineClient(cc grpc.ClientConnInterface) EngineClient {
	return &engineClient{cc: cc}
}

func (c *engineClient) Generate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, generateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineClient) Collapse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, collapseMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// #endregion client-stub
