// formcoach server: ingests pose frames, detects and scores reps, and
// delivers spoken plus websocket feedback.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/formcoach/go-formcoach/internal/config"
	"github.com/formcoach/go-formcoach/internal/log"
	"github.com/formcoach/go-formcoach/pkg/coach"
)

func main() {
	logLevel := flag.String("log-level", "", "override log level: debug, info, warn, error")
	addr := flag.String("addr", "", "override listen address")
	sourceKind := flag.String("source", "", "override pose source: websocket, file")
	sourceURL := flag.String("source-url", "", "override websocket pose source URL")
	sourcePath := flag.String("source-path", "", "override file pose source path")
	noSpeech := flag.Bool("no-speech", false, "disable speech synthesis")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Init("info")
		log.Error("loading config failed", "error", err)
		os.Exit(1)
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *sourceKind != "" {
		cfg.Source.Kind = *sourceKind
	}
	if *sourceURL != "" {
		cfg.Source.URL = *sourceURL
	}
	if *sourcePath != "" {
		cfg.Source.Path = *sourcePath
	}
	if *noSpeech {
		cfg.Speech.Enabled = false
	}

	log.Init(cfg.Log.Level)

	app := coach.New(cfg, log.L())
	if err := app.Init(); err != nil {
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Error("runtime error", "error", err)
		os.Exit(1)
	}
}
