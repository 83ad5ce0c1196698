package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nazedev/botpanel/internal/logging"
	"github.com/nazedev/botpanel/internal/observability"
	"github.com/nazedev/botpanel/internal/watch"
	"github.com/rs/zerolog"
)

func main() {
	baseURL := flag.String("url", "http://localhost:3000", "gateway or panel base url")
	interval := flag.Duration("interval", watch.DefaultPollInterval, "status poll interval")
	pair := flag.String("pair", "", "request a pairing code for this phone number")
	clearFirst := flag.Bool("clear", false, "clear the session before watching")
	owners := flag.String("owners", "", "comma separated owner list to set")
	logOnly := flag.Bool("log", false, "render status as log lines instead of a card")
	flag.Parse()

	logging.ConfigureRuntime()
	logger := observability.InitLogger("panelwatch")

	client, err := watch.NewClient(*baseURL, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "panelwatch: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runActions(ctx, client, logger, *clearFirst, *owners, *pair); err != nil {
		logger.Error().Err(err).Msg("action failed")
		os.Exit(1)
	}

	var renderer watch.Renderer = cardRenderer{out: os.Stdout}
	if *logOnly {
		renderer = logRenderer{logger: logger}
	}
	poller := watch.NewPoller(client, renderer, watch.PollerConfig{Interval: *interval})
	logger.Info().Str("url", client.BaseURL()).Dur("interval", *interval).Msg("watching")
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("watch stopped")
		os.Exit(1)
	}
}

func runActions(ctx context.Context, client *watch.Client, logger zerolog.Logger, clearFirst bool, owners, phone string) error {
	if clearFirst {
		res, err := client.ClearSession(ctx)
		if err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		logger.Info().Str("message", res.Message).Msg("session cleared")
	}
	if list := splitOwners(owners); len(list) > 0 {
		res, err := client.UpdateOwners(ctx, list)
		if err != nil {
			return fmt.Errorf("update owners: %w", err)
		}
		logger.Info().Strs("owners", res.Owners).Msg("owners updated")
	}
	if strings.TrimSpace(phone) != "" {
		digits, err := watch.ValidatePhone(phone)
		if err != nil {
			return err
		}
		res, err := client.Pair(ctx, digits)
		if err != nil {
			return fmt.Errorf("pair: %w", err)
		}
		logger.Info().Str("phone", res.Phone).Str("message", res.Message).Msg("pairing requested")
	}
	return nil
}

func splitOwners(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type logRenderer struct {
	logger zerolog.Logger
}

func (r logRenderer) Render(v watch.View) {
	ev := r.logger.Info().
		Str("connection", v.Status.ConnectionStatus).
		Str("status", v.Status.Status)
	if v.Status.PhoneNumber != nil {
		ev = ev.Str("phone", "+"+*v.Status.PhoneNumber)
	}
	if code := v.PairingCode(); code != "" {
		ev = ev.Str("pairing_code", code).Dur("expires_in", v.Remaining.Truncate(time.Second))
	}
	ev.Msg("status")
}

func (r logRenderer) Disconnected(err error) {
	r.logger.Warn().Err(err).Msg("cannot reach panel")
}
