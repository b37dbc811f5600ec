package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/recommend"
	"github.com/poiesic/latif/search"
)

// ReturnType is the envelope of every JSON response.
type ReturnType struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// SessionCreated is the data of a POST /api/sessions response.
type SessionCreated struct {
	ID string `json:"id"`
}

type recommendRequest struct {
	Transcript string `json:"transcript"`
}

type feedbackRequest struct {
	VerseID    int   `json:"verseId"`
	IsRelevant *bool `json:"isRelevant"`
}

func reply(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, ReturnType{Message: message, Data: data})
}

// session resolves the :id parameter. On failure it writes the error
// response and returns a nil engine.
func (s *Server) session(c echo.Context) (*recommend.Engine, error) {
	engine, err := s.sessions.get(c.Param("id"))
	if err != nil {
		return nil, reply(c, http.StatusNotFound, err.Error(), nil)
	}
	return engine, nil
}

func (s *Server) createSession(c echo.Context) error {
	id, err := s.sessions.open(c.Request().Context())
	switch {
	case errors.Is(err, ErrTooManySessions):
		return reply(c, http.StatusTooManyRequests, err.Error(), nil)
	case err != nil:
		s.logger.Error("failed to open session", "err", err)
		return reply(c, http.StatusInternalServerError, "Could not open session. Error: "+err.Error(), nil)
	}
	s.logger.Debug("session opened", "session", id)
	return reply(c, http.StatusCreated, "", SessionCreated{ID: id})
}

func (s *Server) deleteSession(c echo.Context) error {
	id := c.Param("id")
	if err := s.sessions.close(c.Request().Context(), id); err != nil {
		return reply(c, http.StatusNotFound, err.Error(), nil)
	}
	s.logger.Debug("session closed", "session", id)
	return reply(c, http.StatusOK, "session closed", nil)
}

func (s *Server) recommend(c echo.Context) error {
	engine, err := s.session(c)
	if engine == nil {
		return err
	}

	var body recommendRequest
	if err := c.Bind(&body); err != nil {
		return reply(c, http.StatusBadRequest, "Invalid request body. Error: "+err.Error(), nil)
	}

	recs := engine.Recommend(c.Request().Context(), body.Transcript)
	return reply(c, http.StatusOK, "", recs)
}

func (s *Server) feedback(c echo.Context) error {
	engine, err := s.session(c)
	if engine == nil {
		return err
	}

	var body feedbackRequest
	if err := c.Bind(&body); err != nil {
		return reply(c, http.StatusBadRequest, "Invalid request body. Error: "+err.Error(), nil)
	}
	if body.VerseID <= 0 || body.IsRelevant == nil {
		return reply(c, http.StatusBadRequest, "verseId and isRelevant are required", nil)
	}

	engine.RecordFeedback(c.Request().Context(), body.VerseID, *body.IsRelevant)
	return reply(c, http.StatusOK, "", engine.Accuracy())
}

func (s *Server) accuracy(c echo.Context) error {
	engine, err := s.session(c)
	if engine == nil {
		return err
	}
	return reply(c, http.StatusOK, "", engine.Accuracy())
}

func (s *Server) verses(c echo.Context) error {
	filter := search.Filter{Query: c.QueryParam("q")}

	if name := c.QueryParam("theme"); name != "" {
		theme, err := core.ParseTheme(name)
		if err != nil {
			return reply(c, http.StatusBadRequest, err.Error(), nil)
		}
		filter.Theme = theme
	}
	if name := c.QueryParam("emotion"); name != "" {
		emotion, err := core.ParseEmotion(name)
		if err != nil {
			return reply(c, http.StatusBadRequest, err.Error(), nil)
		}
		filter.Emotion = emotion
	}

	return reply(c, http.StatusOK, "", s.searcher.Find(filter))
}

func (s *Server) verse(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return reply(c, http.StatusBadRequest, "invalid verse id", nil)
	}
	v, ok := s.searcher.Verse(id)
	if !ok {
		return reply(c, http.StatusNotFound, "verse not found", nil)
	}
	return reply(c, http.StatusOK, "", v)
}

func (s *Server) themes(c echo.Context) error {
	return reply(c, http.StatusOK, "", s.searcher.Themes())
}

func (s *Server) emotions(c echo.Context) error {
	return reply(c, http.StatusOK, "", s.searcher.Emotions())
}
