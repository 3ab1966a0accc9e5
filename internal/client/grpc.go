package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/rpc"
	"github.com/alfredjeanlab/leadcommander/internal/session"
)

// GRPCClient implements LeadClient over LeadService.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client rpc.LeadServiceClient
}

var _ LeadClient = (*GRPCClient)(nil)

// NewGRPCClient connects to the gRPC server at addr. A non-empty token is
// sent as bearer authorization metadata on every call.
func NewGRPCClient(addr, token string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(bearerInterceptor(token)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{
		conn:   conn,
		client: rpc.NewLeadServiceClient(conn),
	}, nil
}

func bearerInterceptor(token string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if token != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) GetLeads(ctx context.Context) ([]model.Lead, error) {
	resp, err := c.client.GetLeads(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	var leads []model.Lead
	if err := rpc.FromMessage(resp, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *GRPCClient) Filter(ctx context.Context, req *FilterRequest) (*session.View, error) {
	in, err := rpc.ToStruct(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.FilterLeads(ctx, in)
	if err != nil {
		return nil, err
	}
	var v session.View
	if err := rpc.FromMessage(resp, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *GRPCClient) BuildGraph(ctx context.Context, req *GraphRequest) (*model.Graph, error) {
	in, err := rpc.ToStruct(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.BuildGraph(ctx, in)
	if err != nil {
		return nil, err
	}
	var g model.Graph
	if err := rpc.FromMessage(resp, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// RunPipeline is not part of LeadService.
func (c *GRPCClient) RunPipeline(_ context.Context, _ string, _ []model.Lead) ([]model.Lead, error) {
	return nil, ErrUnsupported
}

func (c *GRPCClient) Health(ctx context.Context) (string, error) {
	resp, err := c.client.Health(ctx, &emptypb.Empty{})
	if err != nil {
		return "", err
	}
	return healthStatus(resp), nil
}

func healthStatus(s *structpb.Struct) string {
	if v, ok := s.GetFields()["status"]; ok {
		return v.GetStringValue()
	}
	return ""
}
