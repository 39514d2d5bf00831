package proposing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/infrastructure/repository"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/utils"
)

// ExpireOverdue expira propostas SENT com validade até o fim do dia de referência.
// Cada proposta roda na própria transação; falhas individuais entram no resumo.
func (s *Service) ExpireOverdue(ctx context.Context, reference time.Time) (*domain.ExpirationSummary, error) {
	cutoff := utils.EndOfDay(reference)

	candidates, err := s.repos.Proposals.ListExpirable(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	summary := &domain.ExpirationSummary{
		Total:   len(candidates),
		Details: make([]domain.ExpirationFailure, 0),
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		expired, err := s.expireOne(ctx, candidate, cutoff)
		switch {
		case err != nil:
			summary.Errors++
			summary.Details = append(summary.Details, domain.ExpirationFailure{
				ProposalID:     candidate.ID,
				ProposalNumber: candidate.ProposalNumber,
				Error:          err.Error(),
			})
			logrus.WithError(err).WithField("proposal_id", candidate.ID).Error("Erro ao expirar proposta")
		case expired:
			summary.Expired++
		default:
			summary.Skipped++
		}
	}

	logrus.WithFields(logrus.Fields{
		"total":   summary.Total,
		"expired": summary.Expired,
		"skipped": summary.Skipped,
		"errors":  summary.Errors,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Varredura de propostas vencidas concluída")

	return summary, nil
}

func (s *Service) expireOne(ctx context.Context, candidate *domain.Proposal, cutoff time.Time) (bool, error) {
	expired := false

	err := s.uow.RunInTransaction(ctx, func(repos repository.Repositories) error {
		proposal, err := repos.Proposals.LockByID(ctx, candidate.AgencyID, candidate.ID)
		if err != nil {
			return err
		}

		// Pode ter mudado entre a listagem e o bloqueio
		if proposal == nil ||
			proposal.Status != domain.ProposalStatusSent ||
			proposal.ValidUntil == nil ||
			proposal.ValidUntil.After(cutoff) {
			return nil
		}

		actor := domain.SystemActor
		actor.AgencyID = proposal.AgencyID

		if _, err := s.transition(ctx, repos, proposal, domain.ProposalStatusExpired, nil, actor); err != nil {
			return err
		}

		expired = true
		return nil
	})

	return expired, err
}
