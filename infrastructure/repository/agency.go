package repository

//go:generate mockgen -source=agency.go -destination=mocks/agency_mock.go -package=mocks

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const agenciesTable = "agencies"

type AgencyRepository interface {
	Create(ctx context.Context, agency *domain.Agency) error
}

type agencyRepository struct {
	db postgres.Queryer
}

func NewAgencyRepository(db postgres.Queryer) AgencyRepository {
	return &agencyRepository{db: db}
}

func (r *agencyRepository) Create(ctx context.Context, agency *domain.Agency) error {
	query, args, err := squirrel.
		Insert(agenciesTable).
		Columns("id", "name").
		Values(agency.ID, agency.Name).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir inserção de agência")
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&agency.CreatedAt); err != nil {
		return errors.Wrap(err, "erro ao criar agência")
	}

	return nil
}
