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
	"github.com/nazedev/botpanel/internal/panel"
)

// panelctl config.toml key mapping to panel runtime settings.
type fileConfig struct {
	ID              string      `toml:"id"`
	Addr            string      `toml:"addr"`
	CorsOrigins     []string    `toml:"cors_origins"`
	PairingDelay    string      `toml:"pairing_delay"`
	ShutdownTimeout string      `toml:"shutdown_timeout"`
	Profile         fileProfile `toml:"profile"`
}

type fileProfile struct {
	BotName     string            `toml:"botname"`
	PackName    string            `toml:"packname"`
	Author      string            `toml:"author"`
	Owners      []string          `toml:"owners"`
	MultiBot    fileMultiBot      `toml:"multi_bot"`
	WebSettings map[string]string `toml:"web_settings"`
}

type fileMultiBot struct {
	Enabled bool     `toml:"enabled"`
	Bots    []string `toml:"bots"`
}

// loadServiceConfig overlays path onto the defaults. A missing file keeps
// the defaults; env overrides apply last.
func loadServiceConfig(path string) (panel.ServiceConfig, error) {
	cfg := panel.DefaultServiceConfig()

	if strings.TrimSpace(path) != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return panel.ServiceConfig{}, err
		}
	}

	if addr, ok := config.ListenAddrFromEnv(); ok {
		cfg.ListenAddr = addr
	}
	if origins, ok := config.CORSOriginsFromEnv(); ok {
		cfg.CORSOrigins = origins
	}
	return cfg, nil
}

func overlayFile(cfg *panel.ServiceConfig, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load panel config: %w", err)
	}

	if meta.IsDefined("id") {
		if id := strings.TrimSpace(raw.ID); id != "" {
			cfg.PanelID = id
		}
	}
	if meta.IsDefined("addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("pairing_delay") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PairingDelay))
		if err != nil {
			return fmt.Errorf("parse pairing_delay: %w", err)
		}
		cfg.PairingDelay = d
	}
	if meta.IsDefined("shutdown_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ShutdownTimeout))
		if err != nil {
			return fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	if meta.IsDefined("profile", "botname") {
		cfg.Profile.BotName = raw.Profile.BotName
	}
	if meta.IsDefined("profile", "packname") {
		cfg.Profile.PackName = raw.Profile.PackName
	}
	if meta.IsDefined("profile", "author") {
		cfg.Profile.Author = raw.Profile.Author
	}
	if meta.IsDefined("profile", "owners") {
		owners := normalizeOwners(raw.Profile.Owners)
		if len(owners) == 0 {
			return fmt.Errorf("load panel config: profile.owners must not be empty")
		}
		cfg.Profile.Owners = owners
	}
	if meta.IsDefined("profile", "multi_bot", "enabled") {
		cfg.Profile.MultiBot.Enabled = raw.Profile.MultiBot.Enabled
	}
	if meta.IsDefined("profile", "multi_bot", "bots") {
		cfg.Profile.MultiBot.Bots = append([]string{}, raw.Profile.MultiBot.Bots...)
	}
	if meta.IsDefined("profile", "web_settings") {
		settings := make(map[string]string, len(raw.Profile.WebSettings))
		for k, v := range raw.Profile.WebSettings {
			settings[k] = v
		}
		cfg.Profile.WebSettings = settings
	}
	return nil
}

func normalizeOwners(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		if v := strings.TrimSpace(raw); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
