package service

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tasket/internal/middleware"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and responds with a session token.
func (s *Service) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, errors.New("email and/or password not provided"))
		return
	}

	userID, err := s.engine.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := s.tokens.Issue(userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully created new user.",
		"token":   token,
	})
}

// LogIn authenticates email/password and responds with a session token.
func (s *Service) LogIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, errors.New("email and/or password not provided"))
		return
	}

	userID, err := s.engine.LogIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := s.tokens.Issue(userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged in.",
		"token":   token,
	})
}

// GetUser responds with the caller's document, password stripped.
func (s *Service) GetUser(c *gin.Context) {
	user, err := s.engine.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
