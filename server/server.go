package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Server はデバッグ用のHTTPサーバーです。
type Server struct {
	HTTP   *http.Server
	logger *slog.Logger
}

func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		HTTP: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Addr() string { return s.HTTP.Addr }

// Run は ctx がキャンセルされるまで待ち受け、その後グレースフルに停止します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("debug server listen %s: %w", s.HTTP.Addr, err)
	}
	return s.RunListener(ctx, lis)
}

func (s *Server) RunListener(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.HTTP.Serve(lis)
	}()
	s.logger.InfoContext(ctx, "debug server listening", "addr", lis.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("debug server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.HTTP.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", "err", err)
		if err := s.HTTP.Close(); err != nil {
			s.logger.Error("forced close failed", "err", err)
		}
	}
	<-errCh
	s.logger.Info("debug server shutdown complete")
	return nil
}
