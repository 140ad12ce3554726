// Package httpapi exposes the auth flows as a JSON API over gin. It maps the
// service errors onto HTTP statuses 1:1 and never reaches into the store or
// codec directly.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avilov/authgate/internal/common"
	"github.com/avilov/authgate/internal/logging"
	"github.com/avilov/authgate/internal/server/services"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Handler carries the HTTP handlers for the auth endpoints.
type Handler struct {
	auth   *services.AuthService
	logger logging.Logger
}

func NewHandler(auth *services.AuthService, logger logging.Logger) *Handler {
	return &Handler{auth: auth, logger: logger.With("module", "httpapi")}
}

// Register handles POST /register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Message: "invalid request body"})
		return
	}

	profile, token, err := h.auth.Register(c.Request.Context(), c.ClientIP(), services.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response{
		Success: true,
		Message: "user registered successfully",
		Data:    gin.H{"user": profile, "token": token},
	})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Message: "invalid request body"})
		return
	}

	profile, token, err := h.auth.Login(c.Request.Context(), c.ClientIP(), services.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Success: true,
		Message: "login successful",
		Data:    gin.H{"user": profile, "token": token},
	})
}

// VerifyToken handles GET /verify-token. The bearer middleware has already
// verified the token and stashed its claims.
func (h *Handler) VerifyToken(c *gin.Context) {
	claims := claimsFromContext(c)
	c.JSON(http.StatusOK, response{
		Success: true,
		Message: "token is valid",
		Data:    gin.H{"user": claims},
	})
}

// Profile handles GET /profile.
func (h *Handler) Profile(c *gin.Context) {
	claims := claimsFromContext(c)

	profile, err := h.auth.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, response{Success: false, Message: "user not found"})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{Success: true, Data: gin.H{"user": profile}})
}

// writeError maps service errors onto HTTP statuses. Anything unrecognized
// is logged and reported as a generic internal error so storage details
// never reach the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "invalid input data",
			Errors:  verr.Violations,
		})
	case errors.Is(err, common.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, response{
			Success: false,
			Message: "too many attempts, try again later",
		})
	case errors.Is(err, common.ErrUsernameTaken), errors.Is(err, common.ErrEmailTaken):
		c.JSON(http.StatusConflict, response{Success: false, Message: err.Error()})
	case errors.Is(err, common.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, response{Success: false, Message: "user not found"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response{Success: false, Message: "invalid password"})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, response{Success: false, Message: "internal server error"})
	}
}
