package repository

//go:generate mockgen -source=proposal_item.go -destination=mocks/proposal_item_mock.go -package=mocks

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const proposalItemsTable = "proposal_items"

type ProposalItemRepository interface {
	ReplaceForProposal(ctx context.Context, proposalID string, items []domain.ProposalItem) error
	ListByProposal(ctx context.Context, proposalID string) ([]domain.ProposalItem, error)
	DeleteByProposal(ctx context.Context, proposalID string) error
}

type proposalItemRepository struct {
	db postgres.Queryer
}

func NewProposalItemRepository(db postgres.Queryer) ProposalItemRepository {
	return &proposalItemRepository{db: db}
}

// ReplaceForProposal apaga os itens atuais e grava a nova lista
func (r *proposalItemRepository) ReplaceForProposal(ctx context.Context, proposalID string, items []domain.ProposalItem) error {
	if err := r.DeleteByProposal(ctx, proposalID); err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	builder := squirrel.
		Insert(proposalItemsTable).
		Columns("id", "proposal_id", "description", "quantity", "unit_price", "subtotal", "custom_fields", "position").
		PlaceholderFormat(squirrel.Dollar)

	for i, item := range items {
		customFields, err := json.Marshal(item.CustomFields)
		if err != nil {
			return errors.Wrapf(err, "erro ao serializar campos do item %d", i)
		}
		builder = builder.Values(item.ID, proposalID, item.Description, item.Quantity, item.UnitPrice, item.Subtotal, customFields, i)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir inserção de itens")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao inserir itens da proposta")
	}

	return nil
}

func (r *proposalItemRepository) ListByProposal(ctx context.Context, proposalID string) ([]domain.ProposalItem, error) {
	query, args, err := squirrel.
		Select("id", "proposal_id", "description", "quantity", "unit_price", "subtotal", "custom_fields", "position").
		From(proposalItemsTable).
		Where(squirrel.Eq{"proposal_id": proposalID}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir consulta de itens")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar itens da proposta")
	}
	defer rows.Close()

	items := make([]domain.ProposalItem, 0)
	for rows.Next() {
		var (
			item         domain.ProposalItem
			customFields []byte
		)
		if err := rows.Scan(
			&item.ID,
			&item.ProposalID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&customFields,
			&item.Position,
		); err != nil {
			return nil, errors.Wrap(err, "erro ao ler item da proposta")
		}

		if len(customFields) > 0 {
			if err := json.Unmarshal(customFields, &item.CustomFields); err != nil {
				return nil, errors.Wrapf(err, "campos personalizados inválidos no item %s", item.ID)
			}
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração de itens")
	}

	return items, nil
}

func (r *proposalItemRepository) DeleteByProposal(ctx context.Context, proposalID string) error {
	query, args, err := squirrel.
		Delete(proposalItemsTable).
		Where(squirrel.Eq{"proposal_id": proposalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir exclusão de itens")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao excluir itens da proposta")
	}

	return nil
}
