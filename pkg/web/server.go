// Package web exposes the coaching core over HTTP: session management,
// exercise switching, and a websocket stream of scored reps.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/formcoach/go-formcoach/pkg/hub"
	"github.com/formcoach/go-formcoach/pkg/session"
)

// Server is the HTTP and websocket front end.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger

	sessions *session.Manager
	feedback *hub.Hub

	// NewSessionConfig supplies the config for sessions created via the
	// API. Defaults to session.DefaultConfig.
	NewSessionConfig func() session.Config

	// SessionOptions are applied to API-created sessions, typically to
	// attach speech output.
	SessionOptions []session.Option
}

// NewServer wires routes onto a fresh fiber app.
func NewServer(addr string, sessions *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:             addr,
		logger:           logger,
		sessions:         sessions,
		feedback:         hub.New(logger.With("component", "feedback-hub")),
		NewSessionConfig: session.DefaultConfig,
	}

	app := fiber.New(fiber.Config{
		AppName:               "formcoach",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlog.New())

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/exercises", s.handleListExercises)
	api.Post("/sessions", s.handleCreateSession)
	api.Get("/sessions", s.handleListSessions)
	api.Get("/sessions/:id", s.handleGetSession)
	api.Put("/sessions/:id/exercise", s.handleSetExercise)
	api.Put("/sessions/:id/active", s.handleSetActive)
	api.Delete("/sessions/:id", s.handleDeleteSession)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/feedback", websocket.New(s.handleFeedbackWS))

	s.app = app
	return s
}

// Start runs the broadcast hub and serves until Shutdown.
func (s *Server) Start() error {
	go s.feedback.Run()
	s.logger.Info("web server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// AttachSession forwards a session's scored reps to websocket
// subscribers until the session closes.
func (s *Server) AttachSession(sess *session.Session) {
	go func() {
		for evt := range sess.Events() {
			env, err := hub.NewEnvelope("rep", evt.SessionID, evt)
			if err != nil {
				s.logger.Error("encoding rep event failed", "error", err)
				continue
			}
			s.feedback.Publish(env)
		}
	}()
}

// Feedback returns the broadcast hub, for publishers outside the API.
func (s *Server) Feedback() *hub.Hub {
	return s.feedback
}

// Shutdown stops the listener and the broadcast hub.
func (s *Server) Shutdown() error {
	s.feedback.Stop()
	return s.app.Shutdown()
}

// handleFeedbackWS subscribes one websocket client to the rep stream.
func (s *Server) handleFeedbackWS(c *websocket.Conn) {
	client := hub.NewClient(s.feedback, c)
	client.Run()
}
