package service

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tasket/internal/middleware"
)

// CreateEvent appends a new event to the group named in the path.
func (s *Service) CreateEvent(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.New("request body is not valid JSON"))
		return
	}

	if err := s.engine.CreateEvent(c.Request.Context(), middleware.UserID(c), c.Param("group"), body); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully created new event.")
}

// UpdateEvent merges a partial update into the event at the path index.
func (s *Service) UpdateEvent(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, errors.New("event index is invalid"))
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.New("request body is not valid JSON"))
		return
	}

	if err := s.engine.UpdateEvent(c.Request.Context(), middleware.UserID(c), c.Param("group"), index, body); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully updated event.")
}

// DeleteEvent removes the event at the path index.
func (s *Service) DeleteEvent(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, errors.New("event index is invalid"))
		return
	}

	if err := s.engine.DeleteEvent(c.Request.Context(), middleware.UserID(c), c.Param("group"), index); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully deleted event.")
}
