package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nazedev/botpanel/internal/config"
	"github.com/nazedev/botpanel/internal/gateway"
)

type fileConfig struct {
	ID              string   `toml:"id"`
	Addr            string   `toml:"addr"`
	BackendURL      string   `toml:"backend_url"`
	CorsOrigins     []string `toml:"cors_origins"`
	UpstreamTimeout string   `toml:"upstream_timeout"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
}

// loadServiceConfig overlays path onto the defaults, then PORT, BACKEND_URL
// and CORS_ORIGINS. A missing file keeps the defaults.
func loadServiceConfig(path string) (gateway.ServiceConfig, error) {
	cfg := gateway.DefaultServiceConfig()

	if strings.TrimSpace(path) != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return gateway.ServiceConfig{}, fmt.Errorf("load gateway config: %w", err)
		default:
			if err := overlay(&cfg, raw, meta); err != nil {
				return gateway.ServiceConfig{}, err
			}
		}
	}

	if addr, ok := config.ListenAddrFromEnv(); ok {
		cfg.ListenAddr = addr
	}
	if backend, ok := config.BackendURLFromEnv(); ok {
		cfg.BackendURL = backend
	}
	if origins, ok := config.CORSOriginsFromEnv(); ok {
		cfg.CORSOrigins = origins
	}
	return cfg, nil
}

func overlay(cfg *gateway.ServiceConfig, raw fileConfig, meta toml.MetaData) error {
	if meta.IsDefined("id") {
		if id := strings.TrimSpace(raw.ID); id != "" {
			cfg.GatewayID = id
		}
	}
	if meta.IsDefined("addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("backend_url") {
		cfg.BackendURL = strings.TrimSpace(raw.BackendURL)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("upstream_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.UpstreamTimeout))
		if err != nil {
			return fmt.Errorf("parse upstream_timeout: %w", err)
		}
		cfg.UpstreamTimeout = d
	}
	if meta.IsDefined("shutdown_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ShutdownTimeout))
		if err != nil {
			return fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
