// Package coach wires the whole coaching stack: pose source, session
// pipeline, speech output, and the web front end.
package coach

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/formcoach/go-formcoach/internal/config"
	"github.com/formcoach/go-formcoach/pkg/audioqueue"
	"github.com/formcoach/go-formcoach/pkg/form"
	"github.com/formcoach/go-formcoach/pkg/reference"
	"github.com/formcoach/go-formcoach/pkg/session"
	"github.com/formcoach/go-formcoach/pkg/source"
	"github.com/formcoach/go-formcoach/pkg/speech"
	"github.com/formcoach/go-formcoach/pkg/web"
)

// App is the assembled coaching application.
type App struct {
	cfg    config.Config
	logger *slog.Logger

	manager *session.Manager
	server  *web.Server
	src     source.Source
	synth   speech.Synthesizer
	queue   *audioqueue.Queue

	// live is the session fed by the configured pose source. API-created
	// sessions receive frames through their own sources.
	live *session.Session
}

// New creates an unstarted app from loaded configuration.
func New(cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{cfg: cfg, logger: logger}
}

// Init builds every component. No goroutines start until Run.
func (a *App) Init() error {
	engine := form.NewEngine(reference.NewMatcher(reference.NewLibrary()))
	a.manager = session.NewManager(engine, a.logger)

	var sessionOpts []session.Option
	if a.cfg.Speech.Enabled {
		a.synth = speech.NewHTTPSynthesizer(a.cfg.Speech.Endpoint,
			speech.WithVoice(a.cfg.Speech.Voice),
			speech.WithLogger(a.logger),
		)
		a.queue = audioqueue.New(audioqueue.NewExecPlayer(""),
			a.cfg.SessionConfig().DedupWindow, a.logger)
		sessionOpts = append(sessionOpts,
			session.WithSynthesizer(a.synth),
			session.WithAudioQueue(a.queue),
		)
	}

	a.server = web.NewServer(a.cfg.Server.Addr, a.manager, a.logger)
	a.server.NewSessionConfig = a.cfg.SessionConfig
	a.server.SessionOptions = sessionOpts

	switch a.cfg.Source.Kind {
	case "websocket":
		a.src = source.NewWebSocketSource(a.cfg.Source.URL, a.logger)
	case "file":
		a.src = source.NewFileSource(a.cfg.Source.Path, a.cfg.ReplayInterval(), a.logger)
	case "":
		a.src = nil // API-only mode
	default:
		return fmt.Errorf("unknown pose source %q", a.cfg.Source.Kind)
	}

	if a.src != nil {
		a.live = a.manager.Create(a.cfg.SessionConfig(), sessionOpts...)
		a.server.AttachSession(a.live)
	}
	return nil
}

// Run serves and pumps frames until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("web server: %w", err)
		}
	}()

	if a.src != nil {
		go func() {
			if err := a.src.Run(ctx); err != nil && ctx.Err() == nil {
				errCh <- fmt.Errorf("pose source: %w", err)
			}
		}()
		go func() {
			for frame := range a.src.Frames() {
				a.live.Process(frame)
			}
		}()
	}

	a.logger.Info("coaching started",
		"addr", a.cfg.Server.Addr,
		"source", a.cfg.Source.Kind,
		"speech", a.cfg.Speech.Enabled,
	)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown tears components down in dependency order.
func (a *App) Shutdown() {
	if a.src != nil {
		a.src.Close()
	}
	if a.server != nil {
		if err := a.server.Shutdown(); err != nil {
			a.logger.Warn("web server shutdown", "error", err)
		}
	}
	a.manager.Close()
	if a.synth != nil {
		a.synth.Close()
	}
	a.logger.Info("coaching stopped")
}
