package booking

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/infrastructure/repository"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/utils"
)

const bookingCodeSize = 6

type Booker interface {
	// CreateFromProposal deve rodar dentro da transação que levou a proposta a ACTIVE_BOOKING.
	// Retorna created=false quando a proposta já tinha reserva.
	CreateFromProposal(ctx context.Context, repos repository.Repositories, proposal *domain.Proposal, actor domain.Actor) (*domain.Booking, bool, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*domain.Booking, error)
}

type Service struct {
	bookingRepo repository.BookingRepository
	now         func() time.Time
	newCode     func() (string, error)
}

func NewService(bookingRepo repository.BookingRepository) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		now:         time.Now,
		newCode: func() (string, error) {
			return utils.GenerateCode(bookingCodeSize)
		},
	}
}

func (s *Service) ListByAgency(ctx context.Context, agencyID string) ([]*domain.Booking, error) {
	return s.bookingRepo.ListByAgency(ctx, agencyID)
}

func (s *Service) CreateFromProposal(ctx context.Context, repos repository.Repositories, proposal *domain.Proposal, actor domain.Actor) (*domain.Booking, bool, error) {
	existing, err := repos.Bookings.GetByProposalID(ctx, proposal.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		logrus.WithFields(logrus.Fields{
			"proposal_id": proposal.ID,
			"booking_id":  existing.ID,
		}).Info("Proposta já possui reserva, mantendo a existente")
		return existing, false, nil
	}

	code, err := s.newCode()
	if err != nil {
		return nil, false, errors.Wrap(err, "erro ao gerar código da reserva")
	}

	clientName := ""
	client, err := repos.Clients.GetByID(ctx, proposal.AgencyID, proposal.ClientID)
	if err != nil {
		return nil, false, err
	}
	if client != nil {
		clientName = client.Name
	}

	booking := &domain.Booking{
		ID:            utils.NewID(),
		AgencyID:      proposal.AgencyID,
		ProposalID:    proposal.ID,
		BookingNumber: domain.FormatBookingNumber(s.now(), code),
		Status:        domain.BookingStatusPendingDocuments,
		ClientID:      proposal.ClientID,
		UserID:        proposal.UserID,
		Metadata: domain.BookingMetadata{
			ProposalNumber: proposal.ProposalNumber,
			ClientName:     clientName,
			TotalAmount:    proposal.TotalAmount,
			Currency:       proposal.Currency,
		},
	}

	if proposal.FunnelID != nil {
		stage, err := repos.Funnels.GetPostSaleStage(ctx, proposal.AgencyID, *proposal.FunnelID)
		if err != nil {
			return nil, false, err
		}
		if stage != nil {
			booking.FunnelStageID = &stage.ID
		}
	}

	created, err := repos.Bookings.Create(ctx, booking)
	if err != nil {
		return nil, false, err
	}

	if !created {
		// Outra transação criou a reserva entre a leitura e a inserção
		existing, err := repos.Bookings.GetByProposalID(ctx, proposal.ID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	logrus.WithFields(logrus.Fields{
		"proposal_id":    proposal.ID,
		"booking_number": booking.BookingNumber,
		"actor":          actor.UserID,
	}).Info("Reserva criada a partir da proposta")

	return booking, true, nil
}
