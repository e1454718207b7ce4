package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		retryable  bool
	}{
		{"validation", apperr.New(apperr.Validation, "terminal_id inválido"), http.StatusUnprocessableEntity, "validation", false},
		{"not found", apperr.New(apperr.NotFound, "Terminal no encontrado"), http.StatusNotFound, "not_found", false},
		{"occupied", apperr.New(apperr.Occupied, "El terminal está ocupado por otro cajero"), http.StatusConflict, "occupied", false},
		{"busy", apperr.New(apperr.Busy, "Reintente"), http.StatusConflict, "busy", true},
		{"conflict", apperr.New(apperr.Conflict, "Reintente"), http.StatusConflict, "conflict", true},
		{"unauthorized", apperr.New(apperr.Unauthorized, "Credenciales inválidas"), http.StatusUnauthorized, "unauthorized", false},
		{"fault", apperr.New(apperr.Fault, "Error de base de datos"), http.StatusInternalServerError, "fault", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := FromError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, body.Code)
			assert.Equal(t, tc.retryable, body.Retryable)
			assert.NotEmpty(t, body.Detail)
		})
	}
}

func TestFromErrorHidesInternals(t *testing.T) {
	status, body := FromError(errors.New("pq: relation audit_records does not exist"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error interno del servidor", body.Detail)
	assert.NotContains(t, body.Detail, "audit_records")
}

func TestNewValidation(t *testing.T) {
	v := NewValidation(map[string]string{"opening_amount": "min"})
	assert.Equal(t, "validation", v.Code)
	assert.Equal(t, "Error de validación", v.Detail)
	assert.Equal(t, "min", v.Fields["opening_amount"])
}
