package handler

import (
	"net/http"

	"process-report/internal/logger"
	"process-report/internal/middleware"
	"process-report/internal/model"
	"process-report/internal/render"
	"process-report/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *service.AuthService
	html *render.HTML
}

func NewAuthHandler(auth *service.AuthService, html *render.HTML) *AuthHandler {
	return &AuthHandler{auth: auth, html: html}
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.auth.Enabled() {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "login is not enabled"})
		return
	}
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		logger.Warn("login.failed", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: err.Error()})
		return
	}
	logger.Info("login.ok", "ip", c.ClientIP())
	c.JSON(http.StatusOK, model.LoginResponse{Token: token})
}

// GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if !h.auth.Enabled() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.renderLogin(c, http.StatusOK, "")
}

// POST /login sets the token cookie and returns to the workspace.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if !h.auth.Enabled() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "Password is required.")
		return
	}
	token, err := h.auth.Login(req.Password)
	if err != nil {
		logger.Warn("login.failed", "ip", c.ClientIP())
		h.renderLogin(c, http.StatusUnauthorized, "Wrong password.")
		return
	}
	logger.Info("login.ok", "ip", c.ClientIP())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.auth.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, msg string) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.html.Login(c.Writer, render.LoginData{Error: msg}); err != nil {
		logger.Error("html.login.failed", "err", err)
	}
}
