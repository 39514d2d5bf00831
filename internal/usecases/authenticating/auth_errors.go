package authenticating

import (
	"errors"

	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
)

// Tipos de erros de autenticação personalizados
var (
	// Erros de autenticação
	ErrInvalidCredentials    = errors.New("credenciais inválidas")
	ErrUserDisabled          = errors.New("usuário desativado")
	ErrUserNotFound          = errors.New("usuário não encontrado")
	ErrInvalidToken          = errors.New("token inválido")
	ErrInsufficientPrivilege = errors.New("privilégios insuficientes")
	ErrUserAlreadyExists     = errors.New("usuário já existe")

	// Erros relacionados a senha
	ErrWeakPassword = errors.New("senha fraca")
)

// IsCredentialsError verifica se o erro está relacionado a credenciais inválidas
func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserDisabled)
}

func invalidCredentials() *apiErrors.AppError {
	return apiErrors.Wrap(ErrInvalidCredentials, apiErrors.CodeAuthentication, "E-mail ou senha inválidos")
}

func userNotFound() *apiErrors.AppError {
	return apiErrors.Wrap(ErrUserNotFound, apiErrors.CodeNotFound, "Usuário não encontrado")
}

func emailTaken() *apiErrors.AppError {
	return apiErrors.Wrap(ErrUserAlreadyExists, apiErrors.CodeConflict, "E-mail já cadastrado")
}

func insufficientPrivilege(message string) *apiErrors.AppError {
	return apiErrors.Wrap(ErrInsufficientPrivilege, apiErrors.CodeAuthorization, message)
}

func weakPassword(err error) *apiErrors.AppError {
	return &apiErrors.AppError{
		Code:    apiErrors.CodeValidation,
		Message: "password: " + err.Error(),
		Field:   "password",
		Err:     errors.Join(ErrWeakPassword, err),
	}
}
