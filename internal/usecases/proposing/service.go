package proposing

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/infrastructure/repository"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/internal/usecases/booking"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
	"github.com/vfg2006/agency-crm-api/pkg/utils"
)

type ProposalService interface {
	Create(ctx context.Context, in CreateInput, actor domain.Actor) (*domain.Proposal, error)
	Update(ctx context.Context, in UpdateInput, actor domain.Actor) (*domain.Proposal, error)
	Get(ctx context.Context, proposalID string, actor domain.Actor) (*domain.Proposal, error)
	List(ctx context.Context, in ListInput, actor domain.Actor) ([]*domain.Proposal, error)
	History(ctx context.Context, proposalID string, actor domain.Actor) ([]domain.ProposalStatusHistory, error)
	ChangeStatus(ctx context.Context, in ChangeStatusInput, actor domain.Actor) (*StatusChangeResult, error)
	Delete(ctx context.Context, in DeleteInput, actor domain.Actor) error
	ExpireOverdue(ctx context.Context, reference time.Time) (*domain.ExpirationSummary, error)
}

type Service struct {
	uow      repository.UnitOfWork
	repos    repository.Repositories
	bookings booking.Booker
	now      func() time.Time
}

// NewService recebe repos para leituras fora de transação e uow para as escritas
func NewService(uow repository.UnitOfWork, repos repository.Repositories, bookings booking.Booker) *Service {
	return &Service{
		uow:      uow,
		repos:    repos,
		bookings: bookings,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput, actor domain.Actor) (*domain.Proposal, error) {
	if err := checkAmount("discountAmount", in.DiscountAmount); err != nil {
		return nil, err
	}
	if err := checkPercent("discountPercent", in.DiscountPercent); err != nil {
		return nil, err
	}
	if err := checkPercent("commissionPercent", in.CommissionPercent); err != nil {
		return nil, err
	}
	if err := checkItems(in.Items); err != nil {
		return nil, err
	}

	validUntil, err := parseValidUntil(in.ValidUntil)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	var created *domain.Proposal
	err = s.uow.RunInTransaction(ctx, func(repos repository.Repositories) error {
		client, err := repos.Clients.GetByID(ctx, actor.AgencyID, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return apiErrors.Wrap(ErrClientNotFound, apiErrors.CodeNotFound, "Cliente não encontrado")
		}

		now := s.now()
		sequence, err := repos.Proposals.NextSequence(ctx, actor.AgencyID, domain.ProposalNumberPrefix(now))
		if err != nil {
			return err
		}

		proposal := &domain.Proposal{
			ID:                utils.NewID(),
			AgencyID:          actor.AgencyID,
			ProposalNumber:    domain.FormatProposalNumber(now, sequence),
			Title:             strings.TrimSpace(in.Title),
			Status:            domain.ProposalStatusDraft,
			ClientID:          client.ID,
			OperatorID:        in.OperatorID,
			UserID:            actor.UserID,
			FunnelID:          in.FunnelID,
			FunnelStageID:     in.FunnelStageID,
			DiscountAmount:    in.DiscountAmount,
			DiscountPercent:   in.DiscountPercent,
			CommissionPercent: in.CommissionPercent,
			Currency:          currency,
			ValidUntil:        validUntil,
			Notes:             in.Notes,
		}
		proposal.Items = buildItems(proposal.ID, in.Items)
		proposal.Recalculate()

		if err := repos.Proposals.Create(ctx, proposal); err != nil {
			return err
		}

		if len(proposal.Items) > 0 {
			if err := repos.ProposalItems.ReplaceForProposal(ctx, proposal.ID, proposal.Items); err != nil {
				return err
			}
		}

		if err := repos.StatusHistory.Append(ctx, &domain.ProposalStatusHistory{
			ID:         utils.NewID(),
			ProposalID: proposal.ID,
			ToStatus:   domain.ProposalStatusDraft,
			ChangedBy:  actor.UserID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		switch client.JornadaStage {
		case domain.JornadaNovoLead, domain.JornadaEmQualificacao, domain.JornadaInativo:
			if err := repos.Clients.UpdateJornadaStage(ctx, actor.AgencyID, client.ID, domain.JornadaEmNegociacao); err != nil {
				return err
			}
		}

		created = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"proposal_id":     created.ID,
		"proposal_number": created.ProposalNumber,
		"agency_id":       created.AgencyID,
	}).Info("Proposta criada")

	return created, nil
}

func (s *Service) Update(ctx context.Context, in UpdateInput, actor domain.Actor) (*domain.Proposal, error) {
	if err := checkItems(in.Items); err != nil {
		return nil, err
	}
	if in.DiscountAmount != nil {
		if err := checkAmount("discountAmount", *in.DiscountAmount); err != nil {
			return nil, err
		}
	}
	if in.DiscountPercent != nil {
		if err := checkPercent("discountPercent", *in.DiscountPercent); err != nil {
			return nil, err
		}
	}
	if in.CommissionPercent != nil {
		if err := checkPercent("commissionPercent", *in.CommissionPercent); err != nil {
			return nil, err
		}
	}

	var validUntil *time.Time
	if in.ValidUntil != nil {
		parsed, err := parseValidUntil(*in.ValidUntil)
		if err != nil {
			return nil, err
		}
		validUntil = parsed
	}

	var updated *domain.Proposal
	err := s.uow.RunInTransaction(ctx, func(repos repository.Repositories) error {
		proposal, err := repos.Proposals.LockByID(ctx, actor.AgencyID, in.ProposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return notFoundError()
		}
		if !actor.CanManage(proposal.UserID) {
			return notOwnerError()
		}

		switch {
		case proposal.Status.IsFullyEditable():
			applyFullUpdate(proposal, in)
		case proposal.Status.AllowsValidityEditOnly():
			if !in.onlyValidity() {
				return apiErrors.Wrap(ErrProposalNotEditable, apiErrors.CodeInvalidInput,
					"Propostas aguardando pagamento só permitem alterar a validade")
			}
		default:
			return apiErrors.Wrap(ErrProposalNotEditable, apiErrors.CodeInvalidInput,
				"Proposta não pode ser editada no status "+string(proposal.Status))
		}

		if in.ValidUntil != nil {
			proposal.ValidUntil = validUntil
		}

		if in.Items != nil {
			proposal.Items = buildItems(proposal.ID, in.Items)
			if err := repos.ProposalItems.ReplaceForProposal(ctx, proposal.ID, proposal.Items); err != nil {
				return err
			}
		} else {
			items, err := repos.ProposalItems.ListByProposal(ctx, proposal.ID)
			if err != nil {
				return err
			}
			proposal.Items = items
		}

		if proposal.Status.IsFullyEditable() {
			proposal.Recalculate()
		}

		if err := repos.Proposals.Update(ctx, proposal); err != nil {
			return err
		}

		updated = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func applyFullUpdate(proposal *domain.Proposal, in UpdateInput) {
	if in.Title != nil {
		proposal.Title = strings.TrimSpace(*in.Title)
	}
	if in.OperatorID != nil {
		proposal.OperatorID = emptyToNil(in.OperatorID)
	}
	if in.FunnelID != nil {
		proposal.FunnelID = emptyToNil(in.FunnelID)
	}
	if in.FunnelStageID != nil {
		proposal.FunnelStageID = emptyToNil(in.FunnelStageID)
	}
	if in.Currency != nil {
		proposal.Currency = strings.ToUpper(*in.Currency)
	}
	if in.DiscountAmount != nil {
		proposal.DiscountAmount = *in.DiscountAmount
		if in.DiscountPercent == nil {
			proposal.DiscountPercent = decimal.Zero
		}
	}
	if in.DiscountPercent != nil {
		proposal.DiscountPercent = *in.DiscountPercent
	}
	if in.CommissionPercent != nil {
		proposal.CommissionPercent = *in.CommissionPercent
	}
	if in.Notes != nil {
		proposal.Notes = emptyToNil(in.Notes)
	}
}

func emptyToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}

func (s *Service) Get(ctx context.Context, proposalID string, actor domain.Actor) (*domain.Proposal, error) {
	proposal, err := s.repos.Proposals.GetByID(ctx, actor.AgencyID, proposalID)
	if err != nil {
		return nil, err
	}
	// Agente não enxerga propostas de outros usuários
	if proposal == nil || !actor.CanManage(proposal.UserID) {
		return nil, notFoundError()
	}

	items, err := s.repos.ProposalItems.ListByProposal(ctx, proposal.ID)
	if err != nil {
		return nil, err
	}
	proposal.Items = items

	return proposal, nil
}

func (s *Service) List(ctx context.Context, in ListInput, actor domain.Actor) ([]*domain.Proposal, error) {
	filter := domain.ProposalFilter{
		AgencyID: actor.AgencyID,
		ClientID: in.ClientID,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}

	if !actor.Role.HasPermission(domain.PermissionProposalManageAll) {
		filter.UserID = actor.UserID
	}

	for _, raw := range in.Statuses {
		status := domain.ProposalStatus(strings.ToUpper(strings.TrimSpace(raw)))
		if !status.IsValid() {
			return nil, fieldError(ErrInvalidStatus, "status", "status: valor desconhecido "+raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return s.repos.Proposals.List(ctx, filter)
}

func (s *Service) History(ctx context.Context, proposalID string, actor domain.Actor) ([]domain.ProposalStatusHistory, error) {
	proposal, err := s.repos.Proposals.GetByID(ctx, actor.AgencyID, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil || !actor.CanManage(proposal.UserID) {
		return nil, notFoundError()
	}

	return s.repos.StatusHistory.ListByProposal(ctx, proposal.ID)
}

func (s *Service) Delete(ctx context.Context, in DeleteInput, actor domain.Actor) error {
	if in.Hard && !actor.Role.HasPermission(domain.PermissionProposalHardDelete) {
		return apiErrors.Authorization("Você não tem permissão para excluir propostas definitivamente")
	}

	err := s.uow.RunInTransaction(ctx, func(repos repository.Repositories) error {
		proposal, err := repos.Proposals.LockByID(ctx, actor.AgencyID, in.ProposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return notFoundError()
		}
		if !actor.CanManage(proposal.UserID) {
			return notOwnerError()
		}

		if in.Hard {
			if err := repos.Bookings.DeleteByProposal(ctx, proposal.ID); err != nil {
				return err
			}
			if err := repos.StatusHistory.DeleteByProposal(ctx, proposal.ID); err != nil {
				return err
			}
			if err := repos.ProposalItems.DeleteByProposal(ctx, proposal.ID); err != nil {
				return err
			}
			return repos.Proposals.Delete(ctx, actor.AgencyID, proposal.ID)
		}

		if proposal.Status.BlocksSoftDelete() {
			return apiErrors.Wrap(ErrDeleteBlocked, apiErrors.CodeConflict,
				"Propostas com reserva ativa ou aguardando pagamento não podem ser arquivadas")
		}

		return repos.Proposals.SoftDelete(ctx, actor.AgencyID, proposal.ID, s.now())
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"proposal_id": in.ProposalID,
		"hard":        in.Hard,
		"user_id":     actor.UserID,
	}).Info("Proposta excluída")

	return nil
}
