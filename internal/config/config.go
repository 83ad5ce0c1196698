package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// PanelConfig is the panelctl config.toml schema.
type PanelConfig struct {
	ID              string        `toml:"id"`
	Addr            string        `toml:"addr"`
	CorsOrigins     []string      `toml:"cors_origins"`
	PairingDelay    string        `toml:"pairing_delay"`
	ShutdownTimeout string        `toml:"shutdown_timeout"`
	Profile         ProfileConfig `toml:"profile"`
}

type ProfileConfig struct {
	BotName     string            `toml:"botname"`
	PackName    string            `toml:"packname"`
	Author      string            `toml:"author"`
	Owners      []string          `toml:"owners"`
	MultiBot    MultiBotConfig    `toml:"multi_bot"`
	WebSettings map[string]string `toml:"web_settings"`
}

type MultiBotConfig struct {
	Enabled bool     `toml:"enabled"`
	Bots    []string `toml:"bots"`
}

// GatewayConfig is the gatewayctl config.toml schema.
type GatewayConfig struct {
	ID              string   `toml:"id"`
	Addr            string   `toml:"addr"`
	BackendURL      string   `toml:"backend_url"`
	CorsOrigins     []string `toml:"cors_origins"`
	UpstreamTimeout string   `toml:"upstream_timeout"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
}

func LoadPanelConfig(path string) (PanelConfig, error) {
	var cfg PanelConfig
	if err := loadToml(path, &cfg); err != nil {
		return PanelConfig{}, err
	}
	if cfg.ID == "" {
		cfg.ID = "panel.local"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if err := ValidatePanelConfig(cfg); err != nil {
		return PanelConfig{}, err
	}
	return cfg, nil
}

func LoadGatewayConfig(path string) (GatewayConfig, error) {
	var cfg GatewayConfig
	if err := loadToml(path, &cfg); err != nil {
		return GatewayConfig{}, err
	}
	if cfg.ID == "" {
		cfg.ID = "gateway.local"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = "http://localhost:8000"
	}
	if err := ValidateGatewayConfig(cfg); err != nil {
		return GatewayConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidatePanelConfig(cfg PanelConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("panel config missing id")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("panel config missing addr")
	}
	if err := validateDuration("pairing_delay", cfg.PairingDelay); err != nil {
		return err
	}
	if err := validateDuration("shutdown_timeout", cfg.ShutdownTimeout); err != nil {
		return err
	}
	for i, owner := range cfg.Profile.Owners {
		if strings.TrimSpace(owner) == "" {
			return fmt.Errorf("profile.owners[%d] is blank", i)
		}
	}
	return nil
}

func ValidateGatewayConfig(cfg GatewayConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("gateway config missing id")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("gateway config missing addr")
	}
	if strings.TrimSpace(cfg.BackendURL) == "" {
		return fmt.Errorf("gateway config missing backend_url")
	}
	if err := validateDuration("upstream_timeout", cfg.UpstreamTimeout); err != nil {
		return err
	}
	return validateDuration("shutdown_timeout", cfg.ShutdownTimeout)
}

// ParseDuration accepts "" as unset.
func ParseDuration(raw string) (time.Duration, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, err
	}
	return d, true, nil
}

func validateDuration(key, raw string) error {
	d, set, err := ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s invalid: %w", key, err)
	}
	if set && d < 0 {
		return fmt.Errorf("%s must not be negative", key)
	}
	return nil
}
