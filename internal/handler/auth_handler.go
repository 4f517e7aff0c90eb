package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workload/internal/model"
	"workload/internal/session"
	"workload/pkg/metrics"
)

// Gateway is the slice of the identity service the HTTP layer needs.
type Gateway interface {
	CreateAccount(ctx context.Context, email, password string, role model.Role) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	EstablishSession(ctx context.Context, userID string) error
	EndSession(ctx context.Context, userID string) error
	CurrentRole(ctx context.Context, userID string) (model.Role, error)
}

type AuthHandler struct {
	gateway Gateway
	logger  *zap.Logger
}

func NewAuthHandler(gateway Gateway, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{gateway: gateway, logger: logger}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /signup: provisions an administrator account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	u, err := h.gateway.CreateAccount(c.Request.Context(), req.Email, req.Password, model.RoleAdmin)
	if err != nil {
		h.logger.Warn("Signup failed", zap.String("email", req.Email), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"role":  u.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /login: verifies the credential, establishes the
// session marker and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	u, token, err := h.gateway.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.IncrementAuthAttempt("failed")
		h.logger.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		respondError(c, err)
		return
	}

	if err := h.gateway.EstablishSession(c.Request.Context(), u.ID); err != nil {
		metrics.IncrementAuthAttempt("failed")
		h.logger.Error("Failed to establish session", zap.String("user_id", u.ID), zap.Error(err))
		respondError(c, err)
		return
	}
	metrics.IncrementAuthAttempt("success")

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user_id": u.ID,
		"role":    u.Role,
	})
}

// Logout handles POST /logout. Idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.gateway.EndSession(c.Request.Context(), sess.UserID); err != nil {
		h.logger.Error("Logout failed", zap.String("user_id", sess.UserID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me handles GET /me. The role is re-read from the user record rather
// than trusted from the request.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	role, err := h.gateway.CurrentRole(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": sess.UserID,
		"role":    role,
	})
}
