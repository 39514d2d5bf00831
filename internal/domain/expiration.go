package domain

// ExpirationSummary resume uma execução da varredura de propostas vencidas
type ExpirationSummary struct {
	Total   int                 `json:"total"`
	Expired int                 `json:"expired"`
	Skipped int                 `json:"skipped"`
	Errors  int                 `json:"errors"`
	Details []ExpirationFailure `json:"details"`
}

type ExpirationFailure struct {
	ProposalID     string `json:"proposalId"`
	ProposalNumber string `json:"proposalNumber"`
	Error          string `json:"error"`
}
