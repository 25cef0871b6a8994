package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"memescout/internal/alerts"
	"memescout/internal/commentary"
	"memescout/internal/config"
	"memescout/internal/geckoterminal"
	"memescout/internal/screener"
	"memescout/internal/solana"
	"memescout/internal/statestore"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	if dir := filepath.Dir(cfg.StatePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.WithError(err).Fatal("Failed to create state directory")
		}
	}
	store, err := statestore.Open(cfg.StatePath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open state store")
	}

	feed := geckoterminal.NewClient(cfg.Feed.BaseURL, cfg.Feed.RPS, logger)

	var authority screener.AuthorityLookup
	for _, network := range cfg.Networks {
		if network == "solana" {
			authority = solana.NewClient(cfg.Solana.RPCURL, cfg.Solana.RPS, logger)
			break
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var annotator screener.Annotator = commentary.Noop{}
	if cfg.Gemini.APIKey != "" {
		os.Setenv("GEMINI_API_KEY", cfg.Gemini.APIKey)
		gemini, err := commentary.NewGemini(ctx, cfg.Gemini.Model, logger)
		if err != nil {
			logger.WithError(err).Warn("Gemini unavailable, alerts ship without commentary")
		} else {
			annotator = gemini
		}
	}

	scr := screener.New(cfg, feed, authority, store, buildSender(cfg, logger), annotator, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.HealthPort), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
		}
	}()

	runOnce := func() {
		if err := scr.Run(ctx); err != nil {
			logger.WithError(err).Error("Screening run failed")
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ScanCron, runOnce); err != nil {
		logger.WithError(err).WithField("schedule", cfg.ScanCron).Fatal("Invalid scan schedule")
	}

	logger.WithFields(logrus.Fields{
		"networks": cfg.Networks,
		"modes":    cfg.Modes(),
		"schedule": cfg.ScanCron,
		"port":     cfg.HealthPort,
	}).Info("memescout started")

	runOnce()
	scheduler.Start()

	<-ctx.Done()
	logger.Info("Shutting down")

	<-scheduler.Stop().Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}
}

// buildSender wires the configured delivery channels. Credentials were
// already validated at config load.
func buildSender(cfg *config.Config, logger *logrus.Logger) alerts.Sender {
	var senders []alerts.Sender
	for _, mode := range cfg.Modes() {
		switch mode {
		case "telegram":
			senders = append(senders, alerts.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger))
		case "discord":
			senders = append(senders, alerts.NewDiscordSender(cfg.Discord.WebhookURL, logger))
		default:
			senders = append(senders, alerts.NewLogSender(logger))
		}
	}
	if len(senders) == 1 {
		return senders[0]
	}
	return alerts.NewMultiSender(senders...)
}
