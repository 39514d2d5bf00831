package repository

//go:generate mockgen -source=booking.go -destination=mocks/booking_mock.go -package=mocks

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const bookingsTable = "bookings"

var bookingColumns = []string{
	"id", "agency_id", "proposal_id", "booking_number", "status", "client_id", "user_id",
	"funnel_stage_id", "metadata", "created_at", "updated_at",
}

type BookingRepository interface {
	GetByProposalID(ctx context.Context, proposalID string) (*domain.Booking, error)
	// Create retorna false quando já existe reserva para a proposta
	Create(ctx context.Context, booking *domain.Booking) (bool, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*domain.Booking, error)
	DeleteByProposal(ctx context.Context, proposalID string) error
}

type bookingRepository struct {
	db postgres.Queryer
}

func NewBookingRepository(db postgres.Queryer) BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row scanner) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.AgencyID,
		&b.ProposalID,
		&b.BookingNumber,
		&b.Status,
		&b.ClientID,
		&b.UserID,
		&b.FunnelStageID,
		&b.Metadata,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) GetByProposalID(ctx context.Context, proposalID string) (*domain.Booking, error) {
	query, args, err := squirrel.
		Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"proposal_id": proposalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir consulta de reserva")
	}

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar reserva da proposta")
	}

	return booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) (bool, error) {
	query, args, err := squirrel.
		Insert(bookingsTable).
		Columns("id", "agency_id", "proposal_id", "booking_number", "status", "client_id", "user_id", "funnel_stage_id", "metadata").
		Values(b.ID, b.AgencyID, b.ProposalID, b.BookingNumber, b.Status, b.ClientID, b.UserID, b.FunnelStageID, b.Metadata).
		Suffix("ON CONFLICT (proposal_id) DO NOTHING RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "erro ao construir inserção de reserva")
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "erro ao inserir reserva")
	}

	return true, nil
}

func (r *bookingRepository) ListByAgency(ctx context.Context, agencyID string) ([]*domain.Booking, error) {
	query, args, err := squirrel.
		Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"agency_id": agencyID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir listagem de reservas")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar reservas")
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao ler reserva")
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração de reservas")
	}

	return bookings, nil
}

func (r *bookingRepository) DeleteByProposal(ctx context.Context, proposalID string) error {
	query, args, err := squirrel.
		Delete(bookingsTable).
		Where(squirrel.Eq{"proposal_id": proposalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir exclusão de reservas")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao excluir reservas da proposta")
	}

	return nil
}
