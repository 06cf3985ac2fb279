package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/formcoach/go-formcoach/pkg/form"
	"github.com/formcoach/go-formcoach/pkg/reference"
	"github.com/formcoach/go-formcoach/pkg/session"
)

// sessionView is the API representation of a live session.
type sessionView struct {
	ID           string             `json:"id"`
	Exercise     reference.Exercise `json:"exercise"`
	Active       bool               `json:"active"`
	Reps         int                `json:"reps"`
	LastFeedback *form.Feedback     `json:"last_feedback,omitempty"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{
		ID:           s.ID(),
		Exercise:     s.Exercise(),
		Active:       s.Active(),
		Reps:         s.Reps(),
		LastFeedback: s.LastFeedback(),
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"sessions":    len(s.sessions.List()),
		"subscribers": s.feedback.ClientCount(),
	})
}

func (s *Server) handleListExercises(c *fiber.Ctx) error {
	return c.JSON(reference.Exercises)
}

// createSessionRequest optionally names the starting exercise.
type createSessionRequest struct {
	Exercise string `json:"exercise"`
}

func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}

	cfg := s.NewSessionConfig()
	if req.Exercise != "" {
		ex := reference.Exercise(req.Exercise)
		if !s.sessions.Supports(ex) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown exercise"})
		}
		cfg.Exercise = ex
	}

	sess := s.sessions.Create(cfg, s.SessionOptions...)
	s.AttachSession(sess)

	return c.Status(fiber.StatusCreated).JSON(viewOf(sess))
}

func (s *Server) handleListSessions(c *fiber.Ctx) error {
	sessions := s.sessions.List()
	views := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, viewOf(sess))
	}
	return c.JSON(views)
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(viewOf(sess))
}

// setExerciseRequest names the exercise to switch to.
type setExerciseRequest struct {
	Exercise string `json:"exercise"`
}

func (s *Server) handleSetExercise(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req setExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}

	if err := sess.SetExercise(reference.Exercise(req.Exercise)); err != nil {
		if errors.Is(err, form.ErrUnknownExercise) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown exercise"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(viewOf(sess))
}

// setActiveRequest toggles rep detection for a session.
type setActiveRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleSetActive(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}

	if req.Active {
		sess.Enable()
	} else {
		sess.Disable()
	}
	return c.JSON(viewOf(sess))
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	if _, err := s.sessions.Get(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	s.sessions.Delete(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
