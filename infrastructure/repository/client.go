package repository

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const clientsTable = "clients"

type ClientRepository interface {
	GetByID(ctx context.Context, agencyID, id string) (*domain.Client, error)
	UpdateJornadaStage(ctx context.Context, agencyID, id string, stage domain.JornadaStage) error
}

type clientRepository struct {
	db postgres.Queryer
}

func NewClientRepository(db postgres.Queryer) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) GetByID(ctx context.Context, agencyID, id string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select("id", "agency_id", "name", "email", "phone", "jornada_stage", "created_at", "updated_at").
		From(clientsTable).
		Where(squirrel.Eq{"id": id, "agency_id": agencyID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir consulta de cliente")
	}

	var client domain.Client
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&client.ID,
		&client.AgencyID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.JornadaStage,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar cliente")
	}

	return &client, nil
}

func (r *clientRepository) UpdateJornadaStage(ctx context.Context, agencyID, id string, stage domain.JornadaStage) error {
	query, args, err := squirrel.
		Update(clientsTable).
		Set("jornada_stage", stage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "agency_id": agencyID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir atualização de jornada")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "erro ao atualizar jornada do cliente")
	}

	return expectAffected(result, "cliente")
}
