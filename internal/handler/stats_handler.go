package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hakwonlab/homework-backend/internal/response"
	"github.com/hakwonlab/homework-backend/internal/service"
)

// StatsHandler exposes the monthly completion statistics.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// yearMonth parses the required year and month query parameters.
func yearMonth(c *gin.Context) (year, month int, ok bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, false
	}
	month, err = strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}

// ClassStats godoc
// GET /api/v1/stats/classes?year=YYYY&month=M
// Per-class tallies for the month; classes without records are omitted.
func (h *StatsHandler) ClassStats(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": "year and month query parameters are required integers"})
		return
	}

	stats, err := h.statsService.MonthlyClassStats(c.Request.Context(), year, month)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// StudentStats godoc
// GET /api/v1/stats/students?year=YYYY&month=M
// Per-student tallies for the month, lowest completion rate first.
func (h *StatsHandler) StudentStats(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": "year and month query parameters are required integers"})
		return
	}

	stats, err := h.statsService.MonthlyStudentStats(c.Request.Context(), year, month)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
