package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nazedev/botpanel/internal/config"
	"github.com/nazedev/botpanel/internal/gateway"
	"github.com/nazedev/botpanel/internal/logging"
	"github.com/nazedev/botpanel/internal/observability"
)

func main() {
	configPath := flag.String("config", "cmd/gatewayctl/config.toml", "gateway config file (optional)")
	envPath := flag.String("env", ".env", "dotenv file loaded before env overrides (optional)")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "gatewayctl: %v\n", err)
		os.Exit(1)
	}
	logging.ConfigureRuntime()
	logger := observability.InitLogger("gatewayctl")

	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gatewayctl: %v\n", err)
		os.Exit(1)
	}
	logger.Info().
		Str("config", *configPath).
		Bool("config_found", fileExists(*configPath)).
		Str("addr", cfg.ListenAddr).
		Str("backend", cfg.BackendURL).
		Msg("starting dashboard gateway")

	svc, err := gateway.NewServiceWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gatewayctl: %v\n", err)
		os.Exit(1)
	}
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "gatewayctl: %v\n", err)
		os.Exit(1)
	}
}
