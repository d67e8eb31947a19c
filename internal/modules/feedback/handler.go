package feedback

import (
	"errors"

	"github.com/asl-dict/core/internal/pkg/pagination"
	"github.com/asl-dict/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the public feedback endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/feedback", h.createTranslation)
	r.POST("/feedback/general", h.createGeneral)
	r.GET("/feedback/stats", h.stats)
}

// RegisterAdminRoutes mounts feedback management under the admin group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/feedback", h.list)
	admin.DELETE("/feedback/:id", h.remove)
	admin.GET("/feedback/stats/detailed", h.detailed)
}

type translationFeedbackDTO struct {
	Query        string `json:"query" binding:"required,min=1,max=500"`
	Rating       string `json:"rating" binding:"required,oneof=up down"`
	FeedbackText string `json:"feedback_text" binding:"omitempty,max=2000"`
}

func (h *Handler) createTranslation(c *gin.Context) {
	var dto translationFeedbackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, "query and a rating of up or down are required")
		return
	}

	if _, err := h.svc.CreateTranslation(dto.Query, dto.Rating, dto.FeedbackText, c.ClientIP()); err != nil {
		h.logger.Error("feedback create failed", zap.Error(err))
		response.InternalError(c, "failed to record feedback")
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "feedback recorded"})
}

type generalFeedbackDTO struct {
	Category     string `json:"category" binding:"required,oneof=bug feature general ui_ux"`
	FeedbackText string `json:"feedback_text" binding:"required,min=10,max=2000"`
	Email        string `json:"email" binding:"omitempty,email,max=255"`
}

func (h *Handler) createGeneral(c *gin.Context) {
	var dto generalFeedbackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, "category and feedback_text (10-2000 characters) are required")
		return
	}

	if _, err := h.svc.CreateGeneral(dto.Category, dto.FeedbackText, dto.Email, c.ClientIP()); err != nil {
		h.logger.Error("general feedback create failed", zap.Error(err))
		response.InternalError(c, "failed to record feedback")
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "feedback recorded"})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats()
	if err != nil {
		h.logger.Error("feedback stats failed", zap.Error(err))
		response.InternalError(c, "failed to compute feedback stats")
		return
	}
	c.JSON(200, stats)
}

func (h *Handler) list(c *gin.Context) {
	rows, page, err := h.svc.List(pagination.FromContext(c), c.Query("type"))
	if err != nil {
		h.logger.Error("feedback listing failed", zap.Error(err))
		response.InternalError(c, "failed to list feedback")
		return
	}
	response.Paged(c, rows, page)
}

func (h *Handler) remove(c *gin.Context) {
	err := h.svc.Delete(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFoundMsg(c, "feedback entry not found")
		return
	}
	if err != nil {
		h.logger.Error("feedback delete failed", zap.Error(err))
		response.InternalError(c, "failed to delete feedback")
		return
	}
	response.NoContent(c)
}

func (h *Handler) detailed(c *gin.Context) {
	detailed, err := h.svc.Detailed()
	if err != nil {
		h.logger.Error("detailed feedback stats failed", zap.Error(err))
		response.InternalError(c, "failed to compute feedback stats")
		return
	}
	c.JSON(200, detailed)
}
