// Package service exposes the engine's operations as JSON HTTP routes
// under /tasket, matching the route contract: success responses carry a
// message, failures carry {"errors": [message]} at a 4xx/5xx status, and
// no endpoint returns partial success.
package service

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tasket/internal/auth"
	"github.com/mmynk/tasket/internal/engine"
	"github.com/mmynk/tasket/internal/middleware"
	"github.com/mmynk/tasket/internal/storage"
)

// Service holds the handler dependencies: the mutation engine and the
// token manager that turns a user id into a session credential.
type Service struct {
	engine *engine.Engine
	tokens *auth.TokenManager
}

// New creates the service over the given engine and token manager.
func New(eng *engine.Engine, tokens *auth.TokenManager) *Service {
	return &Service{engine: eng, tokens: tokens}
}

// Register mounts all /tasket routes. Sign-up and login are open; every
// other route requires a bearer credential.
func (s *Service) Register(r *gin.Engine) {
	t := r.Group("/tasket")
	t.POST("/user", s.SignUp)
	t.POST("/login", s.LogIn)

	authed := t.Group("", middleware.RequireAuth(s.tokens))
	authed.GET("/user", s.GetUser)
	authed.POST("/user/group", s.CreateGroup)
	authed.PATCH("/user/group/:group", s.UpdateGroup)
	authed.DELETE("/user/group/:group", s.DeleteGroup)
	authed.POST("/user/group/:group/event", s.CreateEvent)
	authed.PATCH("/user/group/:group/event/:index", s.UpdateEvent)
	authed.DELETE("/user/group/:group/event/:index", s.DeleteEvent)
	authed.POST("/user/group/:group/assignment", s.CreateAssignment)
	authed.PATCH("/user/group/:group/assignment/:index", s.UpdateAssignment)
	authed.DELETE("/user/group/:group/assignment/:index", s.DeleteAssignment)
}

// fail writes the single-message error envelope with a status matching the
// error kind. Only storage unavailability and failed writes are worth a
// retry by the caller; everything else is permanent for the same input.
func fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, engine.ErrUserNotFound),
		errors.Is(err, engine.ErrGroupNotFound),
		errors.Is(err, engine.ErrEventNotFound),
		errors.Is(err, engine.ErrAssignmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrEmailExists),
		errors.Is(err, engine.ErrDuplicateGroup):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrUnavailable):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"errors": []string{err.Error()}})
}

func ok(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}
