package repository

//go:generate mockgen -source=funnel.go -destination=mocks/funnel_mock.go -package=mocks

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const (
	funnelsTable      = "funnels"
	funnelStagesTable = "funnel_stages"
)

type FunnelRepository interface {
	GetPostSaleStage(ctx context.Context, agencyID, funnelID string) (*domain.FunnelStage, error)
}

type funnelRepository struct {
	db postgres.Queryer
}

func NewFunnelRepository(db postgres.Queryer) FunnelRepository {
	return &funnelRepository{db: db}
}

// GetPostSaleStage retorna a etapa marcada como pós-venda.
// Sem etapa marcada, usa a última etapa do funil pela posição.
func (r *funnelRepository) GetPostSaleStage(ctx context.Context, agencyID, funnelID string) (*domain.FunnelStage, error) {
	query, args, err := squirrel.
		Select("s.id", "s.funnel_id", "s.name", "s.position", "s.is_post_sale").
		From(funnelStagesTable + " s").
		Join(funnelsTable + " f ON f.id = s.funnel_id").
		Where(squirrel.Eq{"f.id": funnelID, "f.agency_id": agencyID}).
		OrderBy("s.is_post_sale DESC", "s.position DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir consulta de etapa pós-venda")
	}

	var stage domain.FunnelStage
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&stage.ID,
		&stage.FunnelID,
		&stage.Name,
		&stage.Position,
		&stage.IsPostSale,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar etapa pós-venda")
	}

	return &stage, nil
}
