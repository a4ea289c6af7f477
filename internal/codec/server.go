package codec

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/decision-field/internal/engine"
)

// Backend is the engine a Server exposes.
type Backend interface {
	Generate(ctx context.Context, description string, intuitionWeight float64) ([]engine.Outcome, error)
	Collapse(ctx context.Context, outcomes []engine.Outcome, dataWeight float64) (engine.Result, error)
}

// Server adapts a Backend to EngineServer.
type Server struct {
	backend Backend
	logger  *slog.Logger
}

// NewServer wraps backend for registration with RegisterEngineServer.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{backend: backend, logger: logger.With("component", "codec")}
}

// #region generate
// Generate implements EngineServer.
func (s *Server) Generate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := in.GetFields()
	description := f["description"].GetStringValue()
	iw := 0.5
	if v, ok := f["intuition_weight"]; ok {
		iw = v.GetNumberValue()
	}

	outcomes, err := s.backend.Generate(ctx, description, iw)
	if err != nil {
		return nil, s.toStatus(ctx, "generate", err)
	}
	out, err := generateResponse(outcomes)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode outcomes: %v", err)
	}
	return out, nil
}

// #endregion generate

// #region collapse
// Collapse implements EngineServer.
func (s *Server) Collapse(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := in.GetFields()
	outcomes, err := outcomesFromList(f["outcomes"].GetListValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode outcomes: %v", err)
	}

	res, err := s.backend.Collapse(ctx, outcomes, f["data_weight"].GetNumberValue())
	if err != nil {
		return nil, s.toStatus(ctx, "collapse", err)
	}
	out, err := collapseResponse(res)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}

// #endregion collapse

func (s *Server) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, engine.ErrNoOutcomes):
		return status.Error(codes.InvalidArgument, engine.ErrNoOutcomes.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	s.logger.ErrorContext(ctx, op+" failed", "error", err)
	return status.Errorf(codes.Internal, "%s: %v", op, err)
}
