package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rutina-app/rutina-engine/internal/adapters/handler/http/middleware"
	"github.com/rutina-app/rutina-engine/internal/core/domain"
	"github.com/rutina-app/rutina-engine/internal/core/services"
)

type ProgressHandler struct {
	svc *services.ProgressService
}

func NewProgressHandler(svc *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		svc: svc,
	}
}

type recordProgressRequest struct {
	HabitID    string   `json:"habit_id" binding:"required"`
	Completed  *bool    `json:"completed" binding:"required"`
	Percentage *float64 `json:"percentage"`
	Notes      string   `json:"notes"`
}

type completeHabitRequest struct {
	Notes string `json:"notes"`
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	progress := router.Group("/progress")
	{
		progress.POST("", h.Record)
	}
	router.POST("/habits/:id/complete", h.Complete)
}

// Record godoc
//
//	@Summary	Register today's outcome for a habit
//	@Tags		progress
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	domain.ProgressRecord
//	@Router		/progress [post]
func (h *ProgressHandler) Record(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req recordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.RecordProgressInput{
		HabitID:    req.HabitID,
		UserID:     userID,
		Completed:  *req.Completed,
		Percentage: req.Percentage,
		Notes:      req.Notes,
	}

	record, err := h.svc.Record(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Complete marks a habit done right now, subject to the eligibility rules.
func (h *ProgressHandler) Complete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req completeHabitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	record, err := h.svc.Complete(c.Request.Context(), c.Param("id"), userID, req.Notes)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// handleError maps the domain error taxonomy onto HTTP statuses in one place
// so every handler rejects the same way.
func handleError(c *gin.Context, err error) {
	var ineligible *domain.IneligibleError
	var inconsistent *domain.ConsistencyError

	switch {
	case errors.As(err, &ineligible):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "habit is not eligible for completion",
			"reason": ineligible.Reason,
		})

	case errors.Is(err, domain.ErrDuplicateRecord):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrHabitNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrInvalidPercentage),
		errors.Is(err, domain.ErrHabitTitleEmpty),
		errors.Is(err, domain.ErrHabitTitleTooLong),
		errors.Is(err, domain.ErrHabitDescTooLong),
		errors.Is(err, domain.ErrNoScheduledDays),
		errors.Is(err, domain.ErrInvalidWeekday),
		errors.Is(err, domain.ErrInvalidTargetTime),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidGoal),
		errors.Is(err, domain.ErrInvalidGoalKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.As(err, &inconsistent):
		log.Printf("[ERROR] Consistency violation on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal consistency error"})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
