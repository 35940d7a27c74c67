package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rutina-app/rutina-engine/internal/adapters/handler/http/middleware"
	"github.com/rutina-app/rutina-engine/internal/core/services"
)

const maxChartDays = 366

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	progress := r.Group("/progress")
	{
		progress.GET("/habit/:id", h.HabitReport)
		progress.GET("/overview", h.UserOverview)
		progress.GET("/summary", h.Summary)
	}
}

// HabitReport godoc
//
//	@Summary	Habit with recent records and derived statistics
//	@Tags		stats
//	@Produce	json
//	@Success	200	{object}	domain.HabitReport
//	@Router		/progress/habit/{id} [get]
func (h *StatsHandler) HabitReport(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	report, err := h.svc.HabitReport(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *StatsHandler) UserOverview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	days := services.DefaultChartDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxChartDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 366"})
			return
		}
		days = parsed
	}

	overview, err := h.svc.UserOverview(c.Request.Context(), userID, days)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *StatsHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
