package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/session"
)

type AdminHandler struct {
	secret   *auth.AdminSecret
	sessions *session.Manager
	logger   *slog.Logger
}

func NewAdminHandler(secret *auth.AdminSecret, sessions *session.Manager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		secret:   secret,
		sessions: sessions,
		logger:   logger,
	}
}

// Login godoc
// @Summary     Admin login
// @Description Verifies the admin password and sets the session cookie
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body     models.LoginRequest true "Admin password"
// @Success     200     {object} models.MessageResponse
// @Failure     401     {object} models.ErrorResponse
// @Router      /api/admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	_ = c.ShouldBindJSON(&req)

	if !h.secret.Matches(req.Password) {
		h.logger.Warn("admin login failed", "remote_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Incorrect password", Error: "unauthorized"})
		return
	}

	// A fresh session id on every login; the previous one, if any, is dropped.
	if old := session.TokenFromRequest(c.Request); old != "" {
		h.sessions.Destroy(old)
	}
	token, s, err := h.sessions.Create()
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Could not log in, please try again.", Error: "internal_error"})
		return
	}

	h.sessions.SetCookie(c.Writer, token)
	h.logger.Info("admin logged in", "session_expires", s.ExpiresAt)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Login successful"})
}

// Status godoc
// @Summary     Admin session status
// @Tags        admin
// @Produce     json
// @Success     200 {object} models.StatusResponse
// @Router      /api/admin/status [get]
func (h *AdminHandler) Status(c *gin.Context) {
	_, err := h.sessions.FromRequest(c.Request)
	c.JSON(http.StatusOK, models.StatusResponse{LoggedIn: err == nil})
}

// Logout godoc
// @Summary     Admin logout
// @Description Destroys the session and clears the cookie. Safe to call when logged out.
// @Tags        admin
// @Produce     json
// @Success     200 {object} models.MessageResponse
// @Router      /api/admin/logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	h.sessions.Destroy(session.TokenFromRequest(c.Request))
	h.sessions.ClearCookie(c.Writer)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}
