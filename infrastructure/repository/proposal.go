package repository

//go:generate mockgen -source=proposal.go -destination=mocks/proposal_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const proposalsTable = "proposals"

var proposalColumns = []string{
	"id", "agency_id", "proposal_number", "title", "status", "client_id", "operator_id", "user_id",
	"funnel_id", "funnel_stage_id", "subtotal", "discount_amount", "discount_percent", "total_amount",
	"commission_amount", "commission_percent", "currency", "valid_until", "notes", "sent_at",
	"decided_at", "deleted_at", "created_at", "updated_at",
}

type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) error
	GetByID(ctx context.Context, agencyID, id string) (*domain.Proposal, error)
	LockByID(ctx context.Context, agencyID, id string) (*domain.Proposal, error)
	List(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error)
	Update(ctx context.Context, proposal *domain.Proposal) error
	UpdateStatus(ctx context.Context, proposal *domain.Proposal) error
	NextSequence(ctx context.Context, agencyID, prefix string) (int, error)
	ListExpirable(ctx context.Context, cutoff time.Time) ([]*domain.Proposal, error)
	CountActiveByClient(ctx context.Context, agencyID, clientID, excludeProposalID string) (int, error)
	SoftDelete(ctx context.Context, agencyID, id string, deletedAt time.Time) error
	Delete(ctx context.Context, agencyID, id string) error
}

type proposalRepository struct {
	db postgres.Queryer
}

func NewProposalRepository(db postgres.Queryer) ProposalRepository {
	return &proposalRepository{db: db}
}

func scanProposal(row scanner) (*domain.Proposal, error) {
	var p domain.Proposal
	err := row.Scan(
		&p.ID,
		&p.AgencyID,
		&p.ProposalNumber,
		&p.Title,
		&p.Status,
		&p.ClientID,
		&p.OperatorID,
		&p.UserID,
		&p.FunnelID,
		&p.FunnelStageID,
		&p.Subtotal,
		&p.DiscountAmount,
		&p.DiscountPercent,
		&p.TotalAmount,
		&p.CommissionAmount,
		&p.CommissionPercent,
		&p.Currency,
		&p.ValidUntil,
		&p.Notes,
		&p.SentAt,
		&p.DecidedAt,
		&p.DeletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepository) Create(ctx context.Context, p *domain.Proposal) error {
	query, args, err := squirrel.
		Insert(proposalsTable).
		Columns(
			"id", "agency_id", "proposal_number", "title", "status", "client_id", "operator_id", "user_id",
			"funnel_id", "funnel_stage_id", "subtotal", "discount_amount", "discount_percent", "total_amount",
			"commission_amount", "commission_percent", "currency", "valid_until", "notes",
		).
		Values(
			p.ID, p.AgencyID, p.ProposalNumber, p.Title, p.Status, p.ClientID, p.OperatorID, p.UserID,
			p.FunnelID, p.FunnelStageID, p.Subtotal, p.DiscountAmount, p.DiscountPercent, p.TotalAmount,
			p.CommissionAmount, p.CommissionPercent, p.Currency, p.ValidUntil, p.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir inserção de proposta")
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return errors.Wrap(err, "erro ao inserir proposta")
	}

	return nil
}

func (r *proposalRepository) selectByID(agencyID, id string) squirrel.SelectBuilder {
	return squirrel.
		Select(proposalColumns...).
		From(proposalsTable).
		Where(squirrel.Eq{"id": id, "agency_id": agencyID, "deleted_at": nil}).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *proposalRepository) getOne(ctx context.Context, builder squirrel.SelectBuilder) (*domain.Proposal, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir consulta de proposta")
	}

	proposal, err := scanProposal(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar proposta")
	}

	return proposal, nil
}

func (r *proposalRepository) GetByID(ctx context.Context, agencyID, id string) (*domain.Proposal, error) {
	return r.getOne(ctx, r.selectByID(agencyID, id))
}

// LockByID bloqueia a linha até o fim da transação
func (r *proposalRepository) LockByID(ctx context.Context, agencyID, id string) (*domain.Proposal, error) {
	return r.getOne(ctx, r.selectByID(agencyID, id).Suffix("FOR UPDATE"))
}

func (r *proposalRepository) List(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error) {
	builder := squirrel.
		Select(proposalColumns...).
		From(proposalsTable).
		Where(squirrel.Eq{"agency_id": filter.AgencyID, "deleted_at": nil}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.UserID != "" {
		builder = builder.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.ClientID != "" {
		builder = builder.Where(squirrel.Eq{"client_id": filter.ClientID})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statusValues(filter.Statuses)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	return r.list(ctx, builder)
}

func (r *proposalRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.Proposal, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir listagem de propostas")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar propostas")
	}
	defer rows.Close()

	proposals := make([]*domain.Proposal, 0)
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao ler proposta")
		}
		proposals = append(proposals, proposal)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração de propostas")
	}

	return proposals, nil
}

func (r *proposalRepository) Update(ctx context.Context, p *domain.Proposal) error {
	query, args, err := squirrel.
		Update(proposalsTable).
		Set("title", p.Title).
		Set("operator_id", p.OperatorID).
		Set("funnel_id", p.FunnelID).
		Set("funnel_stage_id", p.FunnelStageID).
		Set("subtotal", p.Subtotal).
		Set("discount_amount", p.DiscountAmount).
		Set("discount_percent", p.DiscountPercent).
		Set("total_amount", p.TotalAmount).
		Set("commission_amount", p.CommissionAmount).
		Set("commission_percent", p.CommissionPercent).
		Set("currency", p.Currency).
		Set("valid_until", p.ValidUntil).
		Set("notes", p.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID, "agency_id": p.AgencyID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir atualização de proposta")
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		return errors.Wrap(err, "erro ao atualizar proposta")
	}

	return nil
}

func (r *proposalRepository) UpdateStatus(ctx context.Context, p *domain.Proposal) error {
	query, args, err := squirrel.
		Update(proposalsTable).
		Set("status", p.Status).
		Set("sent_at", p.SentAt).
		Set("decided_at", p.DecidedAt).
		Set("funnel_stage_id", p.FunnelStageID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID, "agency_id": p.AgencyID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir atualização de status")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "erro ao atualizar status da proposta")
	}

	return expectAffected(result, "proposta")
}

// NextSequence retorna a próxima sequência do mês, considerando também propostas arquivadas
func (r *proposalRepository) NextSequence(ctx context.Context, agencyID, prefix string) (int, error) {
	query, args, err := squirrel.
		Select("proposal_number").
		From(proposalsTable).
		Where(squirrel.Eq{"agency_id": agencyID}).
		Where(squirrel.Like{"proposal_number": prefix + "%"}).
		// Sequências acima de 9999 têm mais dígitos; comparar só o texto colocaria 10000 antes de 9999
		OrderBy("LENGTH(proposal_number) DESC", "proposal_number DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao construir consulta de sequência")
	}

	var last string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&last)
	if err == sql.ErrNoRows {
		return 1, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "erro ao consultar última proposta do mês")
	}

	sequence, err := domain.ParseProposalSequence(last)
	if err != nil {
		return 0, err
	}

	return sequence + 1, nil
}

func (r *proposalRepository) ListExpirable(ctx context.Context, cutoff time.Time) ([]*domain.Proposal, error) {
	builder := squirrel.
		Select(proposalColumns...).
		From(proposalsTable).
		Where(squirrel.Eq{"status": domain.ProposalStatusSent, "deleted_at": nil}).
		Where(squirrel.LtOrEq{"valid_until": cutoff}).
		OrderBy("valid_until ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, builder)
}

func (r *proposalRepository) CountActiveByClient(ctx context.Context, agencyID, clientID, excludeProposalID string) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(proposalsTable).
		Where(squirrel.Eq{
			"agency_id":  agencyID,
			"client_id":  clientID,
			"deleted_at": nil,
			"status":     statusValues(domain.ActiveProposalStatuses),
		}).
		Where(squirrel.NotEq{"id": excludeProposalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao construir contagem de propostas ativas")
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "erro ao contar propostas ativas do cliente")
	}

	return count, nil
}

func (r *proposalRepository) SoftDelete(ctx context.Context, agencyID, id string, deletedAt time.Time) error {
	query, args, err := squirrel.
		Update(proposalsTable).
		Set("deleted_at", deletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "agency_id": agencyID, "deleted_at": nil}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir arquivamento de proposta")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "erro ao arquivar proposta")
	}

	return expectAffected(result, "proposta")
}

func (r *proposalRepository) Delete(ctx context.Context, agencyID, id string) error {
	query, args, err := squirrel.
		Delete(proposalsTable).
		Where(squirrel.Eq{"id": id, "agency_id": agencyID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir exclusão de proposta")
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "erro ao excluir proposta")
	}

	return expectAffected(result, "proposta")
}

func statusValues(statuses []domain.ProposalStatus) []string {
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}
	return values
}

func expectAffected(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "erro ao verificar linhas afetadas de %s", entity)
	}
	if affected == 0 {
		return errors.Wrapf(sql.ErrNoRows, "registro de %s não encontrado", entity)
	}
	return nil
}
