package adaptergrpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lighthousebot/domain"
)

const (
	ServiceName = "coms.GameService"

	joinMethod         = "/" + ServiceName + "/Join"
	initialStateMethod = "/" + ServiceName + "/InitialState"
	turnMethod         = "/" + ServiceName + "/Turn"
)

// gameServiceServer はサービスに登録する実装の型です。
type gameServiceServer interface {
	Join(ctx context.Context, in *NewPlayer) (*PlayerID, error)
	InitialState(ctx context.Context, in *NewPlayerInitialState) (*PlayerReady, error)
	Turn(ctx context.Context, in *NewTurn) (*NewAction, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*gameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Join", Handler: joinHandler},
		{MethodName: "InitialState", Handler: initialStateHandler},
		{MethodName: "Turn", Handler: turnHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "game.proto",
}

// gameService はワイヤメッセージとドメインの型を変換して domain.GameHandler に渡します。
type gameService struct {
	handler domain.GameHandler
	logger  *slog.Logger
}

var _ gameServiceServer = (*gameService)(nil)

func (s *gameService) Join(ctx context.Context, in *NewPlayer) (*PlayerID, error) {
	if err := s.handler.Join(ctx, in.toDomain()); err != nil {
		return nil, toStatus(err)
	}
	return &PlayerID{}, nil
}

func (s *gameService) InitialState(ctx context.Context, in *NewPlayerInitialState) (*PlayerReady, error) {
	state := in.toDomain()
	s.logger.DebugContext(ctx, "initial state received",
		"playerID", state.PlayerID,
		"playerCount", state.PlayerCount,
		"position", state.Position,
		"mapRows", len(state.Map),
		"lighthouses", len(state.Lighthouses),
	)
	ready, err := s.handler.InitialState(ctx, state)
	if err != nil {
		return nil, toStatus(err)
	}
	return &PlayerReady{Ready: ready}, nil
}

func (s *gameService) Turn(ctx context.Context, in *NewTurn) (*NewAction, error) {
	turn, err := in.toDomain()
	if err != nil {
		s.logger.WarnContext(ctx, "rejecting turn", "err", err)
		return nil, toStatus(err)
	}
	s.logger.DebugContext(ctx, "turn received", "turn", turn)
	action, err := s.handler.Turn(ctx, turn)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.DebugContext(ctx, "action sent", "action", action)
	return newActionFrom(action), nil
}

// toStatus はドメインのエラーをgRPCのステータスに変換します。
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrMalformedTurn):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotJoined):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrSessionClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func joinHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NewPlayer)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(gameServiceServer).Join(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: joinMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(gameServiceServer).Join(ctx, req.(*NewPlayer))
	}
	return interceptor(ctx, in, info, handler)
}

func initialStateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NewPlayerInitialState)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(gameServiceServer).InitialState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: initialStateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(gameServiceServer).InitialState(ctx, req.(*NewPlayerInitialState))
	}
	return interceptor(ctx, in, info, handler)
}

func turnHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NewTurn)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(gameServiceServer).Turn(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: turnMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(gameServiceServer).Turn(ctx, req.(*NewTurn))
	}
	return interceptor(ctx, in, info, handler)
}
