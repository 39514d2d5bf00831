package proposing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
)

var (
	ErrProposalNotFound    = errors.New("proposta não encontrada")
	ErrClientNotFound      = errors.New("cliente não encontrado")
	ErrInvalidStatus       = errors.New("status inválido")
	ErrInvalidTransition   = errors.New("transição de status não permitida")
	ErrReasonRequired      = errors.New("motivo obrigatório")
	ErrProposalNotEditable = errors.New("proposta não pode ser editada no status atual")
	ErrDeleteBlocked       = errors.New("proposta não pode ser arquivada no status atual")
	ErrNotOwner            = errors.New("proposta pertence a outro usuário")
	ErrInvalidAmount       = errors.New("valor inválido")
)

func notFoundError() *apiErrors.AppError {
	return apiErrors.Wrap(ErrProposalNotFound, apiErrors.CodeNotFound, "Proposta não encontrada")
}

func notOwnerError() *apiErrors.AppError {
	return apiErrors.Wrap(ErrNotOwner, apiErrors.CodeAuthorization, "Você só pode alterar suas próprias propostas")
}

func invalidTransitionError(from, to domain.ProposalStatus) *apiErrors.AppError {
	return apiErrors.Wrap(
		ErrInvalidTransition,
		apiErrors.CodeInvalidInput,
		fmt.Sprintf("Não é possível mudar o status de %s para %s", from, to),
	)
}

func fieldError(err error, field, message string) *apiErrors.AppError {
	return &apiErrors.AppError{
		Code:    apiErrors.CodeValidation,
		Message: message,
		Field:   field,
		Err:     err,
	}
}
