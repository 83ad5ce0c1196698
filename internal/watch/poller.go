package watch

import (
	"context"
	"time"

	"github.com/nazedev/botpanel/internal/api"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultCodeLifetime = 30 * time.Second
)

// View is one rendered poll result.
type View struct {
	Status    api.StatusResponse
	FetchedAt time.Time
	// Remaining is the cosmetic pairing-code countdown; zero when no code.
	Remaining time.Duration
}

func (v View) PairingCode() string {
	if v.Status.PairingCode == nil {
		return ""
	}
	return *v.Status.PairingCode
}

type Renderer interface {
	Render(View)
	Disconnected(error)
}

// StatusSource is the part of Client the poller needs.
type StatusSource interface {
	Status(ctx context.Context) (api.StatusResponse, error)
}

type PollerConfig struct {
	Interval     time.Duration
	CodeLifetime time.Duration
}

func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:     DefaultPollInterval,
		CodeLifetime: DefaultCodeLifetime,
	}
}

// Poller fetches status once per interval. A failed fetch is reported and
// the next tick simply tries again.
type Poller struct {
	cfg      PollerConfig
	source   StatusSource
	renderer Renderer
	now      func() time.Time

	code       string
	codeSeenAt time.Time
}

func NewPoller(source StatusSource, renderer Renderer, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.CodeLifetime <= 0 {
		cfg.CodeLifetime = DefaultCodeLifetime
	}
	return &Poller{
		cfg:      cfg,
		source:   source,
		renderer: renderer,
		now:      time.Now,
	}
}

// Run polls until ctx is done. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one fetch and render.
func (p *Poller) Poll(ctx context.Context) {
	status, err := p.source.Status(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.renderer.Disconnected(err)
		return
	}
	now := p.now()
	p.renderer.Render(View{
		Status:    status,
		FetchedAt: now,
		Remaining: p.countdown(status, now),
	})
}

func (p *Poller) countdown(status api.StatusResponse, now time.Time) time.Duration {
	code := ""
	if status.PairingCode != nil {
		code = *status.PairingCode
	}
	if code == "" {
		p.code = ""
		p.codeSeenAt = time.Time{}
		return 0
	}
	if code != p.code {
		p.code = code
		p.codeSeenAt = now
	}
	remaining := p.cfg.CodeLifetime - now.Sub(p.codeSeenAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
