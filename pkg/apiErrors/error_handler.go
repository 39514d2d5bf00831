package apiErrors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro expostos ao cliente
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeRateLimit      = "RATE_LIMIT_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInternal       = "INTERNAL_ERROR"
)

// pgUniqueViolation é o código do Postgres para violação de unicidade
const pgUniqueViolation = "23505"

var httpStatusMap = map[string]int{
	CodeValidation:     http.StatusBadRequest,
	CodeAuthentication: http.StatusUnauthorized,
	CodeAuthorization:  http.StatusForbidden,
	CodeRateLimit:      http.StatusTooManyRequests,
	CodeNotFound:       http.StatusNotFound,
	CodeConflict:       http.StatusConflict,
	CodeInvalidInput:   http.StatusUnprocessableEntity,
	CodeInternal:       http.StatusInternalServerError,
}

const internalMessage = "Erro interno do servidor"

// AppError é um erro de domínio com código conhecido
type AppError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Validation(field, message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Field: field}
}

func Authentication(message string) *AppError {
	return New(CodeAuthentication, message)
}

func Authorization(message string) *AppError {
	return New(CodeAuthorization, message)
}

func RateLimit(message string) *AppError {
	return New(CodeRateLimit, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func Internal(err error) *AppError {
	return Wrap(err, CodeInternal, internalMessage)
}

// HTTPStatus retorna o status HTTP associado ao código
func HTTPStatus(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// IsCode verifica se err carrega o código informado
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// FromError normaliza qualquer erro para um AppError.
// Erros de driver conhecidos são mapeados e o resto vira INTERNAL_ERROR.
func FromError(err error) *AppError {
	if err == nil {
		return Internal(errors.New("erro desconhecido"))
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(err, CodeNotFound, "Registro não encontrado")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return Wrap(err, CodeConflict, "Registro duplicado")
	}

	return Internal(err)
}

// APIError é o corpo padronizado de falha
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(code))
	json.NewEncoder(w).Encode(APIError{
		Success: false,
		Error:   message,
		Code:    code,
		Field:   field,
	})
}

// WriteAppError escreve um erro qualquer já normalizado
func WriteAppError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	message := appErr.Message
	if appErr.Code == CodeInternal {
		message = internalMessage
	}
	WriteError(w, appErr.Code, message, appErr.Field)
}
