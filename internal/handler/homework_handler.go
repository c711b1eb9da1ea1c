package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hakwonlab/homework-backend/internal/model"
	"github.com/hakwonlab/homework-backend/internal/response"
	"github.com/hakwonlab/homework-backend/internal/service"
	"github.com/hakwonlab/homework-backend/internal/validator"
)

// HomeworkHandler handles per-day homework status records.
type HomeworkHandler struct {
	homeworkService *service.HomeworkService
}

// NewHomeworkHandler creates a new HomeworkHandler.
func NewHomeworkHandler(homeworkService *service.HomeworkService) *HomeworkHandler {
	return &HomeworkHandler{homeworkService: homeworkService}
}

// GetRecord godoc
// GET /api/v1/students/:id/homework/:date
// Returns a single day's record, or null data when none exists.
func (h *HomeworkHandler) GetRecord(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	record, err := h.homeworkService.Get(c.Request.Context(), studentID, c.Param("date"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": record})
}

// ListRecords godoc
// GET /api/v1/students/:id/homework?start=YYYY-MM-DD&end=YYYY-MM-DD
// Lists a student's records newest first, optionally bounded inclusively.
func (h *HomeworkHandler) ListRecords(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	records, err := h.homeworkService.List(c.Request.Context(), studentID,
		c.Query("start"), c.Query("end"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"records": records})
}

// SaveRecord godoc
// PUT /api/v1/students/:id/homework/:date
// Upserts the day's status. Saving twice for the same day updates the
// existing record in place and returns the same id.
func (h *HomeworkHandler) SaveRecord(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveHomeworkRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id, err := h.homeworkService.Save(c.Request.Context(), studentID, c.Param("date"),
		req.Status, req.Note)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// ListByClassAndDate godoc
// GET /api/v1/classes/:id/homework/:date
// Lists one date's records for every student of a class.
func (h *HomeworkHandler) ListByClassAndDate(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	records, err := h.homeworkService.ListByClassAndDate(c.Request.Context(), classID, c.Param("date"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"records": records})
}
