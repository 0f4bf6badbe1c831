package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tildaslashalef/bugsquash/internal/loggy"
	"github.com/tildaslashalef/bugsquash/internal/pipeline"
)

type analyzeRequest struct {
	Input string `json:"input"`
}

// bindInput reads the input field; a malformed body or non-string input is
// reported like a missing one
func bindInput(c *gin.Context) (string, bool) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		loggy.FromContext(c.Request.Context()).Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": pipeline.ErrInvalidInput.Error()})
		return "", false
	}
	return req.Input, true
}

func (s *Server) handleAnalyze(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}

	envelope, err := s.pipeline.HandleAnalysisRequest(c.Request.Context(), input)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope)
}

func (s *Server) handleSquash(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}

	run, err := s.pipeline.Squash(c.Request.Context(), input)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

func (s *Server) handleListHistory(c *gin.Context) {
	items, err := s.history.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleClearHistory(c *gin.Context) {
	if err := s.history.Clear(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		loggy.FromContext(c.Request.Context()).Error("Request failed", "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
