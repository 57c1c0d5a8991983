package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"not found maps directly", "NOT_FOUND", ErrCodeNotFound},
		{"duplicate warehouse code", "DUPLICATE_CODE", ErrCodeAlreadyExists},
		{"invoice locked conflicts", "INVOICE_LOCKED", ErrCodeConflict},
		{"validation codes map to invalid input", "INVALID_COST_VALUE", ErrCodeInvalidInput},
		{"invalid quantity", "INVALID_QUANTITY", ErrCodeInvalidInput},
		{"already normalized passes through", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown domain code is a business rule", "SOMETHING_ODD", ErrCodeBusinessRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.code))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeAlreadyExists))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeBusinessRule))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeInvalidInput))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("NO_SUCH_CODE"))
}
