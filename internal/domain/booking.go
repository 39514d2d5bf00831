package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type BookingStatus string

const (
	BookingStatusPendingDocuments BookingStatus = "pending_documents"
	BookingStatusConfirmed        BookingStatus = "confirmed"
	BookingStatusInProgress       BookingStatus = "in_progress"
	BookingStatusCompleted        BookingStatus = "completed"
	BookingStatusCancelled        BookingStatus = "cancelled"
)

type Booking struct {
	ID            string          `json:"id"`
	AgencyID      string          `json:"agencyId"`
	ProposalID    string          `json:"proposalId"`
	BookingNumber string          `json:"bookingNumber"`
	Status        BookingStatus   `json:"status"`
	ClientID      string          `json:"clientId"`
	UserID        string          `json:"userId"`
	FunnelStageID *string         `json:"funnelStageId,omitempty"`
	Metadata      BookingMetadata `json:"metadata"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BookingMetadata guarda dados da proposta para listagem sem joins
type BookingMetadata struct {
	ProposalNumber string          `json:"proposalNumber"`
	ClientName     string          `json:"clientName"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Currency       string          `json:"currency"`
}

func (m BookingMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *BookingMetadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = BookingMetadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("tipo não suportado para metadata da reserva: %T", src)
	}
}

// FormatBookingNumber monta "RES-YYYYMM-XXXXXX"
func FormatBookingNumber(reference time.Time, code string) string {
	return fmt.Sprintf("RES-%04d%02d-%s", reference.Year(), int(reference.Month()), code)
}
