package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeError(c, err)
	return w.Code
}

func TestWriteErrorStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(t, service.ErrNotFound))
	assert.Equal(t, http.StatusForbidden, statusFor(t, service.ErrForbidden))
	assert.Equal(t, http.StatusInternalServerError, statusFor(t, errors.New("boom")))

	// Business-rule violations are client errors, not conflicts
	assert.Equal(t, http.StatusBadRequest, statusFor(t, service.ErrInsufficientStock))
	assert.Equal(t, http.StatusBadRequest, statusFor(t, service.ErrAlreadyExists))
	assert.Equal(t, http.StatusBadRequest, statusFor(t, service.ErrInvalidTransition))
}

func TestWriteErrorValidationCarriesFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, &service.ValidationError{Fields: []response.FieldError{
		{Field: "email", Message: "invalid email format"},
	}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"email"`)
}
