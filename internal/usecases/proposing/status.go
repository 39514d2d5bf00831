package proposing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/infrastructure/repository"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/utils"
)

const automaticReversionReason = "Retorno automático para rascunho após rejeição"

// ChangeStatus aplica uma transição e seus efeitos colaterais em uma única transação.
// A linha da proposta fica bloqueada desde a leitura até o commit.
func (s *Service) ChangeStatus(ctx context.Context, in ChangeStatusInput, actor domain.Actor) (*StatusChangeResult, error) {
	if !in.Status.IsValid() {
		return nil, fieldError(ErrInvalidStatus, "status", "status: valor desconhecido "+string(in.Status))
	}

	var result *StatusChangeResult
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

		booking, err := s.transition(ctx, repos, proposal, in.Status, normalizeReason(in.Reason), actor)
		if err != nil {
			return err
		}

		result = &StatusChangeResult{Proposal: proposal, Booking: booking}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// transition valida e grava a mudança de status. Retorna a reserva quando o destino é ACTIVE_BOOKING.
func (s *Service) transition(
	ctx context.Context,
	repos repository.Repositories,
	proposal *domain.Proposal,
	to domain.ProposalStatus,
	reason *string,
	actor domain.Actor,
) (*domain.Booking, error) {
	from := proposal.Status
	if !from.CanTransitionTo(to) {
		return nil, invalidTransitionError(from, to)
	}
	if to.RequiresReason() && reason == nil {
		return nil, fieldError(ErrReasonRequired, "reason", "reason: informe o motivo para "+string(to))
	}

	now := s.now()

	proposal.Status = to
	switch to {
	case domain.ProposalStatusSent:
		if proposal.SentAt == nil {
			proposal.SentAt = &now
		}
	case domain.ProposalStatusApproved, domain.ProposalStatusRejected:
		proposal.DecidedAt = &now
	}

	if err := appendHistory(ctx, repos, proposal.ID, from, to, actor.UserID, reason, now); err != nil {
		return nil, err
	}

	if to == domain.ProposalStatusRejected {
		// A rejeição devolve a proposta para rascunho na mesma operação
		proposal.Status = domain.ProposalStatusDraft
		reversion := automaticReversionReason
		if err := appendHistory(ctx, repos, proposal.ID, domain.ProposalStatusRejected, domain.ProposalStatusDraft,
			domain.SystemActorID, &reversion, now.Add(time.Microsecond)); err != nil {
			return nil, err
		}
	}

	var booking *domain.Booking
	if to == domain.ProposalStatusActiveBooking {
		created, _, err := s.bookings.CreateFromProposal(ctx, repos, proposal, actor)
		if err != nil {
			return nil, err
		}
		booking = created
		if booking != nil && booking.FunnelStageID != nil {
			proposal.FunnelStageID = booking.FunnelStageID
		}
	}

	if err := repos.Proposals.UpdateStatus(ctx, proposal); err != nil {
		return nil, err
	}

	if err := s.updateClientJornada(ctx, repos, proposal, to); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"proposal_id": proposal.ID,
		"from":        from,
		"to":          to,
		"final":       proposal.Status,
		"changed_by":  actor.UserID,
	}).Info("Status da proposta alterado")

	return booking, nil
}

func (s *Service) updateClientJornada(ctx context.Context, repos repository.Repositories, proposal *domain.Proposal, to domain.ProposalStatus) error {
	switch to {
	case domain.ProposalStatusActiveBooking:
		return repos.Clients.UpdateJornadaStage(ctx, proposal.AgencyID, proposal.ClientID, domain.JornadaReservaAtiva)

	case domain.ProposalStatusRejected, domain.ProposalStatusExpired:
		active, err := repos.Proposals.CountActiveByClient(ctx, proposal.AgencyID, proposal.ClientID, proposal.ID)
		if err != nil {
			return err
		}
		if active == 0 {
			return repos.Clients.UpdateJornadaStage(ctx, proposal.AgencyID, proposal.ClientID, domain.JornadaEmQualificacao)
		}
	}

	return nil
}

func appendHistory(
	ctx context.Context,
	repos repository.Repositories,
	proposalID string,
	from, to domain.ProposalStatus,
	changedBy string,
	reason *string,
	at time.Time,
) error {
	fromStatus := from
	return repos.StatusHistory.Append(ctx, &domain.ProposalStatusHistory{
		ID:         utils.NewID(),
		ProposalID: proposalID,
		FromStatus: &fromStatus,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Reason:     reason,
		CreatedAt:  at,
	})
}
