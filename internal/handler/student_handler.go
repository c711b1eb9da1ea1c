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

// StudentHandler handles student management (CRUD).
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListByClass godoc
// GET /api/v1/classes/:id/students
// Lists a class's students ordered by name. An unknown class yields an
// empty list, not an error.
func (h *StudentHandler) ListByClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	students, err := h.studentService.ListByClass(c.Request.Context(), classID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// CreateStudent godoc
// POST /api/v1/students
// Creates a new student in an existing class.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student := &model.Student{
		ClassID:     req.ClassID,
		Name:        req.Name,
		Grade:       req.Grade,
		Phone:       req.Phone,
		ParentPhone: req.ParentPhone,
		Note:        req.Note,
	}

	id, err := h.studentService.Create(c.Request.Context(), student)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": id})
}

// UpdateStudent godoc
// PUT /api/v1/students/:id
// Updates an existing student.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student := &model.Student{
		ID:          id,
		ClassID:     req.ClassID,
		Name:        req.Name,
		Grade:       req.Grade,
		Phone:       req.Phone,
		ParentPhone: req.ParentPhone,
		Note:        req.Note,
	}

	if err := h.studentService.Update(c.Request.Context(), student); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// DeleteStudent godoc
// DELETE /api/v1/students/:id
// Deletes a student; their homework records cascade.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "student deleted"})
}
