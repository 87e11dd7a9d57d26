package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/programme-lv/grievance/conf"
	"github.com/programme-lv/grievance/grievance"
	"github.com/programme-lv/grievance/http"
	"github.com/programme-lv/grievance/logger"
	"github.com/programme-lv/grievance/publish"
)

func main() {
	configPath := flag.String("config", os.Getenv("GRIEVANCE_CONFIG"), "path to a TOML config file")
	flag.Parse()

	cfg, err := conf.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	log, err := logger.New(os.Stdout, level, cfg.Log.Format)
	if err != nil {
		slog.Error("failed to create logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender, err := publish.FromConfig(ctx, cfg.Publish, os.Stdout)
	if err != nil {
		log.Error("failed to create sender", "error", err)
		os.Exit(1)
	}

	workflow := grievance.NewWorkflow(sender)
	httpServer := http.NewHttpServer(http.Options{
		Workflow:       workflow,
		Sessions:       grievance.NewSessions(workflow.Now),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		LogLevel:       level,
		LogJSON:        strings.EqualFold(cfg.Log.Format, "json"),
		StatsInterval:  cfg.StatsInterval(),
		SessionIdle:    cfg.SessionIdle(),
		Logger:         log,
	})

	log.Info("publishing grievances", "transport", cfg.Publish.Transport)
	if err := httpServer.Start(ctx, cfg.HTTP.Address); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
