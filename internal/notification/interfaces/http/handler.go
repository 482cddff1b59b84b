package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fortivix/guardmarket/internal/notification/application"
	"github.com/fortivix/guardmarket/pkg/logger"
)

// NotificationHandler 通知 HTTP 处理器
type NotificationHandler struct {
	app *application.NotificationService
}

// NewNotificationHandler 创建 HTTP 处理器实例
func NewNotificationHandler(app *application.NotificationService) *NotificationHandler {
	return &NotificationHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/notifications")
	{
		api.GET("", h.List)
	}
}

// List 按收件人分页查询通知
func (h *NotificationHandler) List(c *gin.Context) {
	recipient := c.Query("recipient")
	if recipient == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient is required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.app.List(c.Request.Context(), recipient, page, pageSize)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list notifications", "recipient", recipient, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
