package adaptergrpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"

	"lighthousebot/domain"
)

var (
	// ErrBind は待ち受けアドレスをbindできなかった場合に返されるエラーです。
	ErrBind = errors.New("failed to bind listen address")
	// ErrInvalidServerConfig はサーバー設定が不正な場合に返されるエラーです。
	ErrInvalidServerConfig = errors.New("invalid server config")
)

const defaultShutdownGrace = 10 * time.Second

type ServerConfig struct {
	Addr          string
	Workers       int
	ShutdownGrace time.Duration
	Logger        *slog.Logger
}

// Server はボット側のゲームサービスを公開するgRPCエンドポイントです。
type Server struct {
	cfg      ServerConfig
	listener net.Listener
}

var _ domain.Endpoint = (*Server)(nil)

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: empty listen address", ErrInvalidServerConfig)
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidServerConfig, cfg.Workers)
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = defaultShutdownGrace
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{cfg: cfg}, nil
}

// WithListener はbind済みのリスナーを使わせます。テストで bufconn を差し込むために使います。
func (s *Server) WithListener(lis net.Listener) *Server {
	s.listener = lis
	return s
}

// Serve はhandlerを登録して待ち受けを開始し、ctxがキャンセルされるまでブロックします。
// キャンセル後は処理中の呼び出しを ShutdownGrace まで待ってから強制停止します。
func (s *Server) Serve(ctx context.Context, handler domain.GameHandler) error {
	lis := s.listener
	if lis == nil {
		var err error
		lis, err = net.Listen("tcp", s.cfg.Addr)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBind, s.cfg.Addr, err)
		}
	}

	gs := s.newGRPCServer(handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- gs.Serve(lis)
	}()
	s.cfg.Logger.InfoContext(ctx, "listening", "addr", lis.Addr().String(), "workers", s.cfg.Workers)

	select {
	case err := <-errCh:
		return fmt.Errorf("grpc serve: %w", err)
	case <-ctx.Done():
	}

	s.cfg.Logger.InfoContext(ctx, "shutdown initiated")
	s.shutdown(gs)
	if err := <-errCh; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	s.cfg.Logger.Info("server shutdown complete")
	return nil
}

func (s *Server) newGRPCServer(handler domain.GameHandler) *grpc.Server {
	logger := s.cfg.Logger
	gs := grpc.NewServer(
		grpc.ForceServerCodec(Codec{}),
		grpc.NumStreamWorkers(uint32(s.cfg.Workers)),
		grpc.ChainUnaryInterceptor(
			loggingInterceptor(logger),
			recoveryInterceptor(logger),
			limitInterceptor(semaphore.NewWeighted(int64(s.cfg.Workers))),
		),
	)
	gs.RegisterService(&serviceDesc, &gameService{handler: handler, logger: logger})
	return gs
}

func (s *Server) shutdown(gs *grpc.Server) {
	done := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(s.cfg.ShutdownGrace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		s.cfg.Logger.Warn("graceful shutdown timed out, forcing stop", "grace", s.cfg.ShutdownGrace)
		gs.Stop()
		<-done
	}
}
