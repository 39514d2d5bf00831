package domain

import "time"

// JornadaStage é a etapa macro do cliente, independente da etapa do funil
type JornadaStage string

const (
	JornadaNovoLead       JornadaStage = "novo_lead"
	JornadaEmQualificacao JornadaStage = "em_qualificacao"
	JornadaEmNegociacao   JornadaStage = "em_negociacao"
	JornadaReservaAtiva   JornadaStage = "reserva_ativa"
	JornadaPosVenda       JornadaStage = "pos_venda"
	JornadaInativo        JornadaStage = "inativo"
)

type Client struct {
	ID           string       `json:"id"`
	AgencyID     string       `json:"agencyId"`
	Name         string       `json:"name"`
	Email        *string      `json:"email,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	JornadaStage JornadaStage `json:"jornadaStage"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
