package domain

type Funnel struct {
	ID       string        `json:"id"`
	AgencyID string        `json:"agencyId"`
	Name     string        `json:"name"`
	Stages   []FunnelStage `json:"stages,omitempty"`
}

type FunnelStage struct {
	ID         string `json:"id"`
	FunnelID   string `json:"funnelId"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
	IsPostSale bool   `json:"isPostSale"`
}
