package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fortivix/guardmarket/internal/auth/application"
	"github.com/fortivix/guardmarket/internal/auth/domain"
	"github.com/fortivix/guardmarket/pkg/logger"
)

// AuthHandler 认证 HTTP 处理器
type AuthHandler struct {
	app *application.AuthService
}

// NewAuthHandler 创建 HTTP 处理器实例
func NewAuthHandler(app *application.AuthService) *AuthHandler {
	return &AuthHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/link", h.RequestLoginLink)
		api.POST("/verify", h.VerifyLoginLink)
		api.GET("/session", h.GetSession)
		api.POST("/logout", h.Logout)
	}
}

// LinkRequest 登录链接请求
type LinkRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestLoginLink 请求登录链接
func (h *AuthHandler) RequestLoginLink(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.app.RequestLoginLink(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCooldownActive):
		resp := gin.H{"error": err.Error()}
		var cooldown *domain.CooldownError
		if errors.As(err, &cooldown) {
			resp["retry_after_seconds"] = int(cooldown.Remaining.Seconds())
		}
		c.JSON(http.StatusTooManyRequests, resp)
	case err != nil:
		logger.Error(c.Request.Context(), "Failed to send login link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"sent": true})
	}
}

// VerifyRequest 令牌校验请求
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyLoginLink 校验登录令牌并建立会话
func (h *AuthHandler) VerifyLoginLink(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.app.VerifyLoginLink(c.Request.Context(), req.Token)
	if errors.Is(err, domain.ErrTokenInvalid) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to verify login link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSession 查询当前会话
func (h *AuthHandler) GetSession(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	session, err := h.app.GetSession(c.Request.Context(), token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout 退出登录
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	if err := h.app.Logout(c.Request.Context(), token); err != nil {
		logger.Error(c.Request.Context(), "Failed to logout", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
		return "", false
	}
	return token, true
}
