package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fortivix/guardmarket/internal/onboarding/application"
	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/logger"
)

// OnboardingHandler 入职流程 HTTP 处理器
type OnboardingHandler struct {
	app *application.OnboardingService
}

// NewOnboardingHandler 创建 HTTP 处理器实例
func NewOnboardingHandler(app *application.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *OnboardingHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/onboarding")
	{
		api.GET("/state", h.ResumeState)
		api.GET("/options", h.FormOptions)
		api.GET("/verification", h.GetVerification)
		api.POST("/draft", h.SaveDraft)
		api.POST("/step", h.GoToStep)
		api.POST("/advance", h.Advance)
		api.POST("/back", h.Back)
		api.POST("/submit", h.Submit)
	}
	router.POST("/api/v1/applications", h.QuickApply)
}

// guardID 从请求头解析申请人标识
func guardID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Guard-ID")
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "guard identity required"})
		return "", false
	}
	return id, true
}

// DocumentDTO 附件传输格式，content 为 base64 编码的字节
type DocumentDTO struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Content  []byte `json:"content"`
}

func (d DocumentDTO) toDomain() domain.DocumentInput {
	return domain.DocumentInput{URL: d.URL, FileName: d.FileName, Content: d.Content}
}

// FormRequest 表单快照请求体
type FormRequest struct {
	domain.ApplicationForm
	IDFront      DocumentDTO `json:"idFront"`
	IDBack       DocumentDTO `json:"idBack"`
	Selfie       DocumentDTO `json:"selfie"`
	LicensePhoto DocumentDTO `json:"licensePhoto"`
}

func (r *FormRequest) form() *domain.ApplicationForm {
	form := r.ApplicationForm
	form.IDFront = r.IDFront.toDomain()
	form.IDBack = r.IDBack.toDomain()
	form.Selfie = r.Selfie.toDomain()
	form.LicensePhoto = r.LicensePhoto.toDomain()
	return &form
}

// ResumeState 恢复流程状态
func (h *OnboardingHandler) ResumeState(c *gin.Context) {
	id, ok := guardID(c)
	if !ok {
		return
	}

	state, err := h.app.ResumeState(c.Request.Context(), id)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to resume onboarding state", "guard_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// FormOptions 表单静态选项
func (h *OnboardingHandler) FormOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.FormOptions(c.Request.Context()))
}

// GetVerification 查询审核记录
func (h *OnboardingHandler) GetVerification(c *gin.Context) {
	id, ok := guardID(c)
	if !ok {
		return
	}

	verification, err := h.app.GetVerification(c.Request.Context(), id)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get verification", "guard_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if verification == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "verification not found"})
		return
	}
	c.JSON(http.StatusOK, verification)
}

// SaveDraftRequest 草稿保存请求
type SaveDraftRequest struct {
	Form FormRequest `json:"form" binding:"required"`
	Step int         `json:"step" binding:"required"`
}

// SaveDraft 保存草稿
func (h *OnboardingHandler) SaveDraft(c *gin.Context) {
	id, ok := guardID(c)
	if !ok {
		return
	}

	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.app.SaveDraft(c.Request.Context(), id, req.Form.form(), domain.Step(req.Step)); err != nil {
		logger.Error(c.Request.Context(), "Failed to save draft", "guard_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// StepRequest 步骤切换请求
type StepRequest struct {
	Form        *FormRequest `json:"form"`
	Step        int          `json:"step"`
	CurrentStep int          `json:"current_step"`
}

// GoToStep 直接跳转到指定步骤
func (h *OnboardingHandler) GoToStep(c *gin.Context) {
	id, ok := guardID(c)
	if !ok {
		return
	}

	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var form *domain.ApplicationForm
	if req.Form != nil {
		form = req.Form.form()
	}

	result, err := h.app.GoToStep(c.Request.Context(), id, form, domain.Step(req.Step))
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Advance 前进一步，离开当前步骤前校验
func (h *OnboardingHandler) Advance(c *gin.Context) {
	id, ok := guardID(c)
	if !ok {
		return
	}

	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Form == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "form is required"})
		return
	}

	result, err := h.app.Advance(c.Request.Context(), id, req.Form.form(), domain.Step(req.CurrentStep))
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Back 后退一步
func (h *OnboardingHandler) Back(c *gin.Context) {
	id, ok := guardID(c)
	if !ok {
		return
	}

	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var form *domain.ApplicationForm
	if req.Form != nil {
		form = req.Form.form()
	}

	result, err := h.app.Back(c.Request.Context(), id, form, domain.Step(req.CurrentStep))
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitRequest 最终提交请求
type SubmitRequest struct {
	Form FormRequest `json:"form" binding:"required"`
}

// Submit 最终提交
func (h *OnboardingHandler) Submit(c *gin.Context) {
	id, ok := guardID(c)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.app.Submit(c.Request.Context(), id, req.Form.form())
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// QuickApplyRequest 快速申请请求
type QuickApplyRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	MiddleName    string `json:"middle_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	Email         string `json:"email" binding:"required"`
}

// QuickApply 单页快速申请
func (h *OnboardingHandler) QuickApply(c *gin.Context) {
	var req QuickApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.app.QuickApply(c.Request.Context(), &domain.QuickApplication{
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		LicenseNumber: req.LicenseNumber,
		Email:         req.Email,
	})
	if err != nil {
		h.writeError(c, "", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// writeError 错误分类：字段级校验错误 422，失效附件 409，其余 500
func (h *OnboardingHandler) writeError(c *gin.Context, guardID string, err error) {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErrs})
		return
	}

	if domain.IsStaleAttachment(err) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	logger.Error(c.Request.Context(), "Onboarding request failed", "guard_id", guardID, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
