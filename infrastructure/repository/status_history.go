package repository

//go:generate mockgen -source=status_history.go -destination=mocks/status_history_mock.go -package=mocks

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const statusHistoryTable = "proposal_status_history"

// StatusHistoryRepository só acrescenta linhas; o histórico nunca é alterado
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *domain.ProposalStatusHistory) error
	ListByProposal(ctx context.Context, proposalID string) ([]domain.ProposalStatusHistory, error)
	DeleteByProposal(ctx context.Context, proposalID string) error
}

type statusHistoryRepository struct {
	db postgres.Queryer
}

func NewStatusHistoryRepository(db postgres.Queryer) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

func (r *statusHistoryRepository) Append(ctx context.Context, entry *domain.ProposalStatusHistory) error {
	query, args, err := squirrel.
		Insert(statusHistoryTable).
		Columns("id", "proposal_id", "from_status", "to_status", "changed_by", "reason", "created_at").
		Values(entry.ID, entry.ProposalID, entry.FromStatus, entry.ToStatus, entry.ChangedBy, entry.Reason, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir inserção de histórico")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao registrar histórico de status")
	}

	return nil
}

func (r *statusHistoryRepository) ListByProposal(ctx context.Context, proposalID string) ([]domain.ProposalStatusHistory, error) {
	query, args, err := squirrel.
		Select("id", "proposal_id", "from_status", "to_status", "changed_by", "reason", "created_at").
		From(statusHistoryTable).
		Where(squirrel.Eq{"proposal_id": proposalID}).
		OrderBy("created_at ASC", "seq ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir consulta de histórico")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar histórico de status")
	}
	defer rows.Close()

	history := make([]domain.ProposalStatusHistory, 0)
	for rows.Next() {
		var entry domain.ProposalStatusHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.ProposalID,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.ChangedBy,
			&entry.Reason,
			&entry.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "erro ao ler histórico de status")
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração do histórico")
	}

	return history, nil
}

// DeleteByProposal só é usado na exclusão definitiva da proposta
func (r *statusHistoryRepository) DeleteByProposal(ctx context.Context, proposalID string) error {
	query, args, err := squirrel.
		Delete(statusHistoryTable).
		Where(squirrel.Eq{"proposal_id": proposalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir exclusão de histórico")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao excluir histórico da proposta")
	}

	return nil
}
