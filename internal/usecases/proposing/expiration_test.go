package proposing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_ExpireOverdue(t *testing.T) {
	yesterday := fixedNow.Add(-24 * time.Hour)
	endOfToday := time.Date(2026, 10, 18, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	sent := func(id string) *domain.Proposal {
		return &domain.Proposal{
			ID:             id,
			AgencyID:       "agency-1",
			ClientID:       "client-" + id,
			UserID:         "agent-1",
			ProposalNumber: "2026/10/" + id,
			Status:         domain.ProposalStatusSent,
			ValidUntil:     &yesterday,
		}
	}

	t.Run("Expira, ignora e registra falhas de forma independente", func(t *testing.T) {
		f := newFixture(t)

		f.proposals.EXPECT().ListExpirable(gomock.Any(), endOfToday).
			Return([]*domain.Proposal{sent("0001"), sent("0002"), sent("0003")}, nil)

		// 0001 expira normalmente
		f.proposals.EXPECT().LockByID(gomock.Any(), "agency-1", "0001").Return(sent("0001"), nil)
		f.history.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, entry *domain.ProposalStatusHistory) error {
				assert.Equal(t, domain.ProposalStatusExpired, entry.ToStatus)
				assert.Equal(t, domain.SystemActorID, entry.ChangedBy)
				return nil
			})
		f.proposals.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, p *domain.Proposal) error {
				assert.Equal(t, domain.ProposalStatusExpired, p.Status)
				return nil
			})
		f.proposals.EXPECT().CountActiveByClient(gomock.Any(), "agency-1", "client-0001", "0001").Return(0, nil)
		f.clients.EXPECT().UpdateJornadaStage(gomock.Any(), "agency-1", "client-0001", domain.JornadaEmQualificacao).Return(nil)

		// 0002 foi aprovada entre a listagem e o bloqueio
		approved := sent("0002")
		approved.Status = domain.ProposalStatusApproved
		f.proposals.EXPECT().LockByID(gomock.Any(), "agency-1", "0002").Return(approved, nil)

		// 0003 falha no banco
		f.proposals.EXPECT().LockByID(gomock.Any(), "agency-1", "0003").Return(nil, errors.New("deadlock detectado"))

		summary, err := f.service.ExpireOverdue(context.Background(), fixedNow)

		require.NoError(t, err)
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 1, summary.Expired)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, 1, summary.Errors)
		require.Len(t, summary.Details, 1)
		assert.Equal(t, "0003", summary.Details[0].ProposalID)
		assert.Equal(t, "2026/10/0003", summary.Details[0].ProposalNumber)
		assert.Contains(t, summary.Details[0].Error, "deadlock")
	})

	t.Run("Referência fora de UTC usa o dia civil local", func(t *testing.T) {
		f := newFixture(t)
		saoPaulo := time.FixedZone("BRT", -3*60*60)
		reference := time.Date(2026, 10, 18, 22, 30, 0, 0, saoPaulo)
		tomorrow := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

		validTomorrow := sent("0001")
		validTomorrow.ValidUntil = &tomorrow

		f.proposals.EXPECT().ListExpirable(gomock.Any(), endOfToday).
			Return([]*domain.Proposal{validTomorrow}, nil)
		f.proposals.EXPECT().LockByID(gomock.Any(), "agency-1", "0001").Return(validTomorrow, nil)

		summary, err := f.service.ExpireOverdue(context.Background(), reference)

		require.NoError(t, err)
		assert.Equal(t, 0, summary.Expired)
		assert.Equal(t, 1, summary.Skipped)
	})

	t.Run("Segunda execução não altera nada", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.proposals.EXPECT().ListExpirable(gomock.Any(), endOfToday).
				Return([]*domain.Proposal{sent("0001")}, nil),
			f.proposals.EXPECT().ListExpirable(gomock.Any(), endOfToday).
				Return([]*domain.Proposal{}, nil),
		)
		f.proposals.EXPECT().LockByID(gomock.Any(), "agency-1", "0001").Return(sent("0001"), nil).Times(1)
		f.history.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		f.proposals.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		f.proposals.EXPECT().CountActiveByClient(gomock.Any(), "agency-1", "client-0001", "0001").Return(0, nil)
		f.clients.EXPECT().UpdateJornadaStage(gomock.Any(), "agency-1", "client-0001", domain.JornadaEmQualificacao).Return(nil)

		first, err := f.service.ExpireOverdue(context.Background(), fixedNow)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Expired)

		second, err := f.service.ExpireOverdue(context.Background(), fixedNow)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Total)
		assert.Equal(t, 0, second.Expired)
	})

	t.Run("Sem propostas vencidas é no-op", func(t *testing.T) {
		f := newFixture(t)
		f.proposals.EXPECT().ListExpirable(gomock.Any(), endOfToday).Return([]*domain.Proposal{}, nil)

		summary, err := f.service.ExpireOverdue(context.Background(), fixedNow)

		require.NoError(t, err)
		assert.Equal(t, 0, summary.Total)
		assert.NotNil(t, summary.Details)
	})

	t.Run("Erro na listagem interrompe a varredura", func(t *testing.T) {
		f := newFixture(t)
		f.proposals.EXPECT().ListExpirable(gomock.Any(), gomock.Any()).Return(nil, errors.New("conexão recusada"))

		summary, err := f.service.ExpireOverdue(context.Background(), fixedNow)

		assert.Error(t, err)
		assert.Nil(t, summary)
	})

	t.Run("Contexto cancelado devolve resumo parcial", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f.proposals.EXPECT().ListExpirable(gomock.Any(), gomock.Any()).Return([]*domain.Proposal{sent("0001")}, nil)

		summary, err := f.service.ExpireOverdue(ctx, fixedNow)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, summary.Expired)
	})
}
