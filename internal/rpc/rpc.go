// Package rpc describes the leadcommander.v1.LeadService gRPC service.
//
// The service has no .proto of its own: requests and responses are the
// well-known Struct, ListValue and Empty messages, carrying the same JSON
// documents as the HTTP API. This package holds what protoc would otherwise
// generate: the service descriptor, the server interface and a client stub.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "leadcommander.v1.LeadService"

// Full method names.
const (
	MethodGetLeads    = "/" + ServiceName + "/GetLeads"
	MethodFilterLeads = "/" + ServiceName + "/FilterLeads"
	MethodBuildGraph  = "/" + ServiceName + "/BuildGraph"
	MethodHealth      = "/" + ServiceName + "/Health"
)

// LeadServiceServer is implemented by the lead server.
type LeadServiceServer interface {
	// GetLeads returns the configured source's leads as a list of objects.
	GetLeads(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// FilterLeads takes {leads?, filters?} and returns the filtered view.
	FilterLeads(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// BuildGraph takes {leads, relationships?} and returns the graph.
	BuildGraph(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Health(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc is the grpc.ServiceDesc for LeadService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LeadServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetLeads", newEmpty, func(s LeadServiceServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.GetLeads(ctx, in)
		}),
		unary("FilterLeads", newStruct, func(s LeadServiceServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.FilterLeads(ctx, in)
		}),
		unary("BuildGraph", newStruct, func(s LeadServiceServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.BuildGraph(ctx, in)
		}),
		unary("Health", newEmpty, func(s LeadServiceServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.Health(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "leadcommander/v1/leads.proto",
}

// RegisterLeadServiceServer registers srv on s.
func RegisterLeadServiceServer(s grpc.ServiceRegistrar, srv LeadServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func newEmpty() *emptypb.Empty    { return new(emptypb.Empty) }
func newStruct() *structpb.Struct { return new(structpb.Struct) }

// unary builds a method handler that decodes the request, runs it through
// the interceptor chain and dispatches to call.
func unary[Req proto.Message](
	name string,
	newReq func() Req,
	call func(LeadServiceServer, context.Context, Req) (proto.Message, error),
) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(LeadServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(Req))
			})
		},
	}
}

// LeadServiceClient is the client API for LeadService.
type LeadServiceClient interface {
	GetLeads(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	FilterLeads(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	BuildGraph(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Health(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type leadServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLeadServiceClient returns a client stub over cc.
func NewLeadServiceClient(cc grpc.ClientConnInterface) LeadServiceClient {
	return &leadServiceClient{cc: cc}
}

func (c *leadServiceClient) GetLeads(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, MethodGetLeads, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *leadServiceClient) FilterLeads(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodFilterLeads, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *leadServiceClient) BuildGraph(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodBuildGraph, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *leadServiceClient) Health(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodHealth, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
