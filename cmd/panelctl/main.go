package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nazedev/botpanel/internal/config"
	"github.com/nazedev/botpanel/internal/logging"
	"github.com/nazedev/botpanel/internal/observability"
	"github.com/nazedev/botpanel/internal/panel"
)

func main() {
	configPath := flag.String("config", "cmd/panelctl/config.toml", "panel config file (optional)")
	envPath := flag.String("env", ".env", "dotenv file loaded before env overrides (optional)")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "panelctl: %v\n", err)
		os.Exit(1)
	}
	logging.ConfigureRuntime()
	logger := observability.InitLogger("panelctl")

	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "panelctl: %v\n", err)
		os.Exit(1)
	}
	logger.Info().
		Str("config", *configPath).
		Bool("config_found", fileExists(*configPath)).
		Str("addr", cfg.ListenAddr).
		Msg("starting panel backend")

	svc := panel.NewServiceWithConfig(cfg)
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "panelctl: %v\n", err)
		os.Exit(1)
	}
}
