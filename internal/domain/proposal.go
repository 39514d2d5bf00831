package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProposalStatus string

const (
	ProposalStatusDraft           ProposalStatus = "DRAFT"
	ProposalStatusSent            ProposalStatus = "SENT"
	ProposalStatusApproved        ProposalStatus = "APPROVED"
	ProposalStatusContract        ProposalStatus = "CONTRACT"
	ProposalStatusRejected        ProposalStatus = "REJECTED"
	ProposalStatusExpired         ProposalStatus = "EXPIRED"
	ProposalStatusAwaitingPayment ProposalStatus = "AWAITING_PAYMENT"
	ProposalStatusActiveBooking   ProposalStatus = "ACTIVE_BOOKING"
	ProposalStatusCancelled       ProposalStatus = "CANCELLED"
)

// proposalTransitions é a única tabela de transições permitidas.
// CANCELLED é terminal.
var proposalTransitions = map[ProposalStatus][]ProposalStatus{
	ProposalStatusDraft:           {ProposalStatusSent, ProposalStatusCancelled},
	ProposalStatusSent:            {ProposalStatusApproved, ProposalStatusRejected, ProposalStatusExpired, ProposalStatusCancelled},
	ProposalStatusApproved:        {ProposalStatusContract},
	ProposalStatusContract:        {ProposalStatusAwaitingPayment, ProposalStatusCancelled},
	ProposalStatusRejected:        {ProposalStatusDraft, ProposalStatusCancelled},
	ProposalStatusExpired:         {ProposalStatusDraft},
	ProposalStatusAwaitingPayment: {ProposalStatusActiveBooking, ProposalStatusCancelled},
	ProposalStatusActiveBooking:   {ProposalStatusCancelled},
	ProposalStatusCancelled:       {},
}

// ActiveProposalStatuses são os status que mantêm o cliente em negociação
var ActiveProposalStatuses = []ProposalStatus{
	ProposalStatusSent,
	ProposalStatusApproved,
	ProposalStatusContract,
	ProposalStatusAwaitingPayment,
}

func AllProposalStatuses() []ProposalStatus {
	return []ProposalStatus{
		ProposalStatusDraft,
		ProposalStatusSent,
		ProposalStatusApproved,
		ProposalStatusContract,
		ProposalStatusRejected,
		ProposalStatusExpired,
		ProposalStatusAwaitingPayment,
		ProposalStatusActiveBooking,
		ProposalStatusCancelled,
	}
}

func (s ProposalStatus) IsValid() bool {
	_, ok := proposalTransitions[s]
	return ok
}

func (s ProposalStatus) AllowedTransitions() []ProposalStatus {
	allowed := proposalTransitions[s]
	out := make([]ProposalStatus, len(allowed))
	copy(out, allowed)
	return out
}

func (s ProposalStatus) CanTransitionTo(to ProposalStatus) bool {
	for _, allowed := range proposalTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// RequiresReason indica se a entrada neste status exige um motivo
func (s ProposalStatus) RequiresReason() bool {
	return s == ProposalStatusRejected || s == ProposalStatusCancelled
}

// IsFullyEditable indica se todos os campos da proposta podem ser alterados
func (s ProposalStatus) IsFullyEditable() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusRejected, ProposalStatusExpired:
		return true
	}
	return false
}

// AllowsValidityEditOnly indica o status em que apenas a validade pode mudar
func (s ProposalStatus) AllowsValidityEditOnly() bool {
	return s == ProposalStatusAwaitingPayment
}

// BlocksSoftDelete indica os status em que a proposta não pode ser arquivada
func (s ProposalStatus) BlocksSoftDelete() bool {
	return s == ProposalStatusActiveBooking || s == ProposalStatusAwaitingPayment
}

type Proposal struct {
	ID                string          `json:"id"`
	AgencyID          string          `json:"agencyId"`
	ProposalNumber    string          `json:"proposalNumber"`
	Title             string          `json:"title"`
	Status            ProposalStatus  `json:"status"`
	ClientID          string          `json:"clientId"`
	OperatorID        *string         `json:"operatorId,omitempty"`
	UserID            string          `json:"userId"`
	FunnelID          *string         `json:"funnelId,omitempty"`
	FunnelStageID     *string         `json:"funnelStageId,omitempty"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	DiscountPercent   decimal.Decimal `json:"discountPercent"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	CommissionAmount  decimal.Decimal `json:"commissionAmount"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
	Currency          string          `json:"currency"`
	ValidUntil        *time.Time      `json:"validUntil,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	SentAt            *time.Time      `json:"sentAt,omitempty"`
	DecidedAt         *time.Time      `json:"decidedAt,omitempty"`
	DeletedAt         *time.Time      `json:"deletedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	Items             []ProposalItem  `json:"items,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// Recalculate recompõe subtotal, desconto, total e comissão a partir dos itens.
// Percentuais maiores que zero têm precedência sobre valores absolutos.
func (p *Proposal) Recalculate() {
	subtotal := decimal.Zero
	for _, item := range p.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	p.Subtotal = subtotal

	if p.DiscountPercent.IsPositive() {
		p.DiscountAmount = subtotal.Mul(p.DiscountPercent).Div(hundred).Round(2)
	}
	if p.DiscountAmount.GreaterThan(subtotal) {
		p.DiscountAmount = subtotal
	}
	p.TotalAmount = subtotal.Sub(p.DiscountAmount)

	if p.CommissionPercent.IsPositive() {
		p.CommissionAmount = p.TotalAmount.Mul(p.CommissionPercent).Div(hundred).Round(2)
	}
}

type ProposalItem struct {
	ID           string          `json:"id"`
	ProposalID   string          `json:"proposalId"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CustomFields map[string]any  `json:"customFields,omitempty"`
	Position     int             `json:"position"`
}

// NewProposalItem cria um item garantindo quantity × unitPrice = subtotal
func NewProposalItem(id, proposalID, description string, quantity int, unitPrice decimal.Decimal, customFields map[string]any) ProposalItem {
	return ProposalItem{
		ID:           id,
		ProposalID:   proposalID,
		Description:  description,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Subtotal:     unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CustomFields: customFields,
	}
}

type ProposalStatusHistory struct {
	ID         string          `json:"id"`
	ProposalID string          `json:"proposalId"`
	FromStatus *ProposalStatus `json:"fromStatus,omitempty"`
	ToStatus   ProposalStatus  `json:"toStatus"`
	ChangedBy  string          `json:"changedBy"`
	Reason     *string         `json:"reason,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type ProposalFilter struct {
	AgencyID string
	UserID   string
	ClientID string
	Statuses []ProposalStatus
	Limit    uint64
	Offset   uint64
}
