package service

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tasket/internal/middleware"
)

// CreateAssignment appends a new assignment to the group named in the path.
func (s *Service) CreateAssignment(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.New("request body is not valid JSON"))
		return
	}

	if err := s.engine.CreateAssignment(c.Request.Context(), middleware.UserID(c), c.Param("group"), body); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully created new assignment.")
}

// UpdateAssignment merges a partial update into the assignment at the path
// index.
func (s *Service) UpdateAssignment(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, errors.New("assignment index is invalid"))
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.New("request body is not valid JSON"))
		return
	}

	if err := s.engine.UpdateAssignment(c.Request.Context(), middleware.UserID(c), c.Param("group"), index, body); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully updated assignment.")
}

// DeleteAssignment removes the assignment at the path index.
func (s *Service) DeleteAssignment(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, errors.New("assignment index is invalid"))
		return
	}

	if err := s.engine.DeleteAssignment(c.Request.Context(), middleware.UserID(c), c.Param("group"), index); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully deleted assignment.")
}
