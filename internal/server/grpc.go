package server

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/rpc"
	"github.com/alfredjeanlab/leadcommander/internal/session"
)

// healthMethod is exempt from token checks.
const healthMethod = rpc.MethodHealth

var _ rpc.LeadServiceServer = (*LeadServer)(nil)

// NewGRPCServer creates a gRPC server with the standard interceptor chain
// and registers LeadService on it.
func NewGRPCServer(s *LeadServer, authToken string) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
			AuthInterceptor(authToken),
		),
	)
	rpc.RegisterLeadServiceServer(srv, s)
	return srv
}

// GetLeads implements rpc.LeadServiceServer.
func (s *LeadServer) GetLeads(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	leads, err := s.fetchLeads(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	out, err := rpc.ToList(leads)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// FilterLeads implements rpc.LeadServiceServer.
func (s *LeadServer) FilterLeads(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req filterRequest
	if err := rpc.FromMessage(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	v, err := s.runFilter(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(v)
}

// BuildGraph implements rpc.LeadServiceServer.
func (s *LeadServer) BuildGraph(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req graphRequest
	if err := rpc.FromMessage(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, formatValidationError(err))
	}
	g, err := s.buildGraph(ctx, "", req.Leads, req.Relationships)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(g)
}

// Health implements rpc.LeadServiceServer.
func (s *LeadServer) Health(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"status":   "ok",
		"sessions": s.Sessions.Len(),
	})
}

func toStruct(v any) (*structpb.Struct, error) {
	out, err := rpc.ToStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// grpcError maps an operation error to a gRPC status, mirroring
// writeServiceError.
func grpcError(err error) error {
	var (
		ie  inputError
		ire *model.InvalidRecordError
		ve  *model.ValidationError
		se  *sourceError
	)
	switch {
	case errors.As(err, &ie):
		return status.Error(codes.InvalidArgument, ie.Error())
	case errors.Is(err, session.ErrNotFound):
		return status.Error(codes.NotFound, "session not found")
	case errors.As(err, &ire), errors.As(err, &ve):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &se):
		return status.Error(codes.Unavailable, se.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
