package service

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tasket/internal/middleware"
)

// CreateGroup creates a named group. Color and type fall back to their
// defaults when omitted.
func (s *Service) CreateGroup(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.New("request body is not valid JSON"))
		return
	}

	name, _ := body["name"].(string)
	if name == "" {
		fail(c, errors.New("group name not provided"))
		return
	}
	color, _ := body["color"].(string)
	groupType, _ := body["type"].(string)

	if err := s.engine.CreateGroup(c.Request.Context(), middleware.UserID(c), name, color, groupType); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully created new group.")
}

// UpdateGroup applies attribute changes to the group named in the path. A
// "name" field in the body requests a rename to that name.
func (s *Service) UpdateGroup(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, errors.New("request body is not valid JSON"))
		return
	}

	newName, _ := body["name"].(string)

	err := s.engine.UpdateGroup(c.Request.Context(), middleware.UserID(c), c.Param("group"), body, newName)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully updated group.")
}

// DeleteGroup removes the group named in the path.
func (s *Service) DeleteGroup(c *gin.Context) {
	if err := s.engine.DeleteGroup(c.Request.Context(), middleware.UserID(c), c.Param("group")); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Successfully deleted group.")
}
