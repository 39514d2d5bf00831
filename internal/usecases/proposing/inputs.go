package proposing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/utils"
)

const defaultCurrency = "BRL"

type ItemInput struct {
	Description  string          `json:"description" validate:"required,max=500"`
	Quantity     int             `json:"quantity" validate:"gte=1"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	CustomFields map[string]any  `json:"customFields,omitempty"`
}

type CreateInput struct {
	Title             string          `json:"title" validate:"required,max=200"`
	ClientID          string          `json:"clientId" validate:"required"`
	OperatorID        *string         `json:"operatorId,omitempty"`
	FunnelID          *string         `json:"funnelId,omitempty"`
	FunnelStageID     *string         `json:"funnelStageId,omitempty"`
	Currency          string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	DiscountPercent   decimal.Decimal `json:"discountPercent"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
	ValidUntil        string          `json:"validUntil,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes             *string         `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Items             []ItemInput     `json:"items" validate:"dive"`
}

// UpdateInput usa ponteiros: campo nil não é alterado.
// Items nil mantém os itens atuais; lista vazia remove todos.
type UpdateInput struct {
	ProposalID        string           `json:"id" validate:"required"`
	Title             *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	OperatorID        *string          `json:"operatorId,omitempty"`
	FunnelID          *string          `json:"funnelId,omitempty"`
	FunnelStageID     *string          `json:"funnelStageId,omitempty"`
	Currency          *string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	DiscountAmount    *decimal.Decimal `json:"discountAmount,omitempty"`
	DiscountPercent   *decimal.Decimal `json:"discountPercent,omitempty"`
	CommissionPercent *decimal.Decimal `json:"commissionPercent,omitempty"`
	ValidUntil        *string          `json:"validUntil,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes             *string          `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Items             []ItemInput      `json:"items,omitempty" validate:"omitempty,dive"`
}

// onlyValidity indica se a alteração toca apenas a validade
func (in UpdateInput) onlyValidity() bool {
	return in.Title == nil &&
		in.OperatorID == nil &&
		in.FunnelID == nil &&
		in.FunnelStageID == nil &&
		in.Currency == nil &&
		in.DiscountAmount == nil &&
		in.DiscountPercent == nil &&
		in.CommissionPercent == nil &&
		in.Notes == nil &&
		in.Items == nil
}

type ChangeStatusInput struct {
	ProposalID string                `json:"id" validate:"required"`
	Status     domain.ProposalStatus `json:"status" validate:"required"`
	Reason     *string               `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type DeleteInput struct {
	ProposalID string `json:"id" validate:"required"`
	Hard       bool   `json:"hard"`
}

type GetInput struct {
	ProposalID string `json:"id" validate:"required"`
}

type ListInput struct {
	ClientID string   `json:"clientId,omitempty"`
	Statuses []string `json:"status,omitempty"`
	Limit    uint64   `json:"limit,omitempty" validate:"lte=200"`
	Offset   uint64   `json:"offset,omitempty"`
}

type StatusChangeResult struct {
	Proposal *domain.Proposal `json:"proposal"`
	Booking  *domain.Booking  `json:"booking,omitempty"`
}

var hundred = decimal.NewFromInt(100)

func checkPercent(field string, value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return fieldError(ErrInvalidAmount, field, fmt.Sprintf("%s: deve estar entre 0 e 100", field))
	}
	return nil
}

func checkAmount(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return fieldError(ErrInvalidAmount, field, fmt.Sprintf("%s: não pode ser negativo", field))
	}
	return nil
}

func checkItems(items []ItemInput) error {
	for i, item := range items {
		if err := checkAmount(fmt.Sprintf("items[%d].unitPrice", i), item.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func buildItems(proposalID string, inputs []ItemInput) []domain.ProposalItem {
	items := make([]domain.ProposalItem, 0, len(inputs))
	for i, in := range inputs {
		item := domain.NewProposalItem(utils.NewID(), proposalID, strings.TrimSpace(in.Description), in.Quantity, in.UnitPrice, in.CustomFields)
		item.Position = i
		items = append(items, item)
	}
	return items
}

func parseValidUntil(value string) (*time.Time, error) {
	date, err := utils.ParseDate(value)
	if err != nil {
		return nil, fieldError(err, "validUntil", "validUntil: data inválida, use o formato 2006-01-02")
	}
	return date, nil
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
