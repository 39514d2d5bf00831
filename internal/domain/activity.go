package domain

import "time"

type ActivityType string

const (
	ActivityProposalCreated       ActivityType = "proposal_created"
	ActivityProposalUpdated       ActivityType = "proposal_updated"
	ActivityProposalStatusChanged ActivityType = "proposal_status_changed"
	ActivityProposalDeleted       ActivityType = "proposal_deleted"
	ActivityBookingCreated        ActivityType = "booking_created"
	ActivityUserCreated           ActivityType = "user_created"
	ActivityUserUpdated           ActivityType = "user_updated"
	ActivityUserSignedIn          ActivityType = "user_signed_in"
)

type ActivityLog struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	AgencyID    string         `json:"agencyId"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
