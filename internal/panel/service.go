package panel

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
	"github.com/nazedev/botpanel/internal/session"
	"github.com/rs/zerolog/log"
)

var ErrInvalidListenAddr = errors.New("panel: invalid listen addr")

// ServiceConfig configures the panel backend process.
type ServiceConfig struct {
	PanelID         string
	ListenAddr      string
	CORSOrigins     []string
	PairingDelay    time.Duration
	ShutdownTimeout time.Duration
	Profile         session.Profile
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PanelID:         "panel.local",
		ListenAddr:      ":8000",
		CORSOrigins:     []string{"http://localhost:3000"},
		PairingDelay:    session.DefaultPairingDelay,
		ShutdownTimeout: 5 * time.Second,
		Profile:         session.DefaultProfile(),
	}
}

// Service runs the panel backend as a standalone process.
type Service struct {
	cfg   ServiceConfig
	store *session.Store
	panel *Panel
}

func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

func NewServiceWithConfig(cfg ServiceConfig) *Service {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	store := session.New(session.Options{
		Profile:      cfg.Profile,
		PairingDelay: cfg.PairingDelay,
		Observer:     pairingObserver{node: cfg.PanelID},
	})
	p := Appear(cfg.PanelID, cfg.ListenAddr, cfg.CORSOrigins, store)
	p.RegisterRoutes()
	return &Service{cfg: cfg, store: store, panel: p}
}

// Store exposes the session for an in-process bot integration.
func (s *Service) Store() *session.Store {
	return s.store
}

func (s *Service) Panel() *Panel {
	return s.panel
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
	defer s.store.Close()

	srv := &http.Server{
		Handler:           s.panel.HTTPRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	addr := ln.Addr().String()
	log.Info().
		Str("panel", s.cfg.PanelID).
		Str("addr", addr).
		Str("api", "http://"+addr+"/api").
		Str("health", "http://"+addr+api.PathHealth).
		Msg("panel backend listening")

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
	log.Info().Str("panel", s.cfg.PanelID).Msg("panel backend shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
