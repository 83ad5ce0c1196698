package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nazedev/botpanel/internal/api"
	"github.com/rs/zerolog/log"
)

var ErrInvalidListenAddr = errors.New("gateway: invalid listen addr")

// ServiceConfig configures the dashboard gateway process.
type ServiceConfig struct {
	GatewayID       string
	ListenAddr      string
	BackendURL      string
	CORSOrigins     []string
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		GatewayID:       "gateway.local",
		ListenAddr:      ":3000",
		BackendURL:      "http://localhost:8000",
		CORSOrigins:     []string{"http://localhost:3000"},
		UpstreamTimeout: defaultUpstreamTimeout,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Service runs the gateway as a standalone process.
type Service struct {
	cfg     ServiceConfig
	gateway *Gateway
}

func NewService() (*Service, error) {
	return NewServiceWithConfig(DefaultServiceConfig())
}

func NewServiceWithConfig(cfg ServiceConfig) (*Service, error) {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	upstream, err := NewUpstream(cfg.BackendURL, cfg.UpstreamTimeout)
	if err != nil {
		return nil, err
	}
	g := Appear(cfg.GatewayID, cfg.ListenAddr, cfg.CORSOrigins, upstream)
	g.RegisterRoutes()
	return &Service{cfg: cfg, gateway: g}, nil
}

func (s *Service) Gateway() *Gateway {
	return s.gateway
}

// Run blocks until SIGINT/SIGTERM.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.RunContext(ctx)
}

func (s *Service) RunContext(ctx context.Context) error {
	addr := strings.TrimSpace(s.cfg.ListenAddr)
	if addr == "" {
		return ErrInvalidListenAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Service) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.gateway.HTTPRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	addr := ln.Addr().String()
	log.Info().
		Str("gateway", s.cfg.GatewayID).
		Str("addr", addr).
		Str("dashboard", "http://"+addr+"/").
		Str("health", "http://"+addr+api.PathHealth).
		Str("backend", s.gateway.BackendURL()).
		Msg("dashboard gateway listening")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	log.Info().Str("gateway", s.cfg.GatewayID).Msg("dashboard gateway shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
