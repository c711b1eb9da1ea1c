package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakwonlab/homework-backend/internal/response"
	"github.com/hakwonlab/homework-backend/internal/service"
	"github.com/hakwonlab/homework-backend/internal/store"
)

// failFromError maps service and store errors onto the API error codes.
// NotFound and NotInitialized are raised to the caller, never swallowed;
// anything unrecognized is an internal error.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, store.ErrNotInitialized):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable)
	case errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidMonth):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": err.Error()})
	case errors.Is(err, service.ErrInvalidDate):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
