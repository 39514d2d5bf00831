package apiErrors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{
			name:    "erro de domínio passa sem alteração",
			err:     fmt.Errorf("contexto: %w", InvalidInput("transição inválida")),
			code:    CodeInvalidInput,
			message: "transição inválida",
		},
		{
			name:    "sem linhas vira NOT_FOUND",
			err:     fmt.Errorf("buscar: %w", sql.ErrNoRows),
			code:    CodeNotFound,
			message: "Registro não encontrado",
		},
		{
			name:    "violação de unicidade vira CONFLICT",
			err:     &pq.Error{Code: "23505", Message: "duplicate key"},
			code:    CodeConflict,
			message: "Registro duplicado",
		},
		{
			name:    "outro erro do postgres vira INTERNAL_ERROR",
			err:     &pq.Error{Code: "40001", Message: "serialization failure"},
			code:    CodeInternal,
			message: internalMessage,
		},
		{
			name:    "erro desconhecido vira INTERNAL_ERROR",
			err:     errors.New("boom"),
			code:    CodeInternal,
			message: internalMessage,
		},
		{
			name:    "nil vira INTERNAL_ERROR",
			err:     nil,
			code:    CodeInternal,
			message: internalMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromError(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidation))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(CodeAuthentication))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(CodeAuthorization))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(CodeRateLimit))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CodeConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CodeInvalidInput))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("QUALQUER"))
}

func TestWriteAppError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteAppError(rec, errors.New("senha do banco vazou na mensagem"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, CodeInternal, body.Code)
	assert.Equal(t, internalMessage, body.Error)
}

func TestWriteError_WithField(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, CodeValidation, "Motivo obrigatório", "reason")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Motivo obrigatório","code":"VALIDATION_ERROR","field":"reason"}`, rec.Body.String())
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(fmt.Errorf("x: %w", Conflict("dup")), CodeConflict))
	assert.False(t, IsCode(errors.New("x"), CodeConflict))
}
