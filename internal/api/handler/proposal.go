package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/internal/usecases/proposing"
	"github.com/vfg2006/agency-crm-api/pkg/action"
)

type DeleteProposalResponse struct {
	ID   string `json:"id"`
	Hard bool   `json:"hard"`
}

func CreateProposal(service proposing.ProposalService, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[proposing.CreateInput, *domain.Proposal]{
		Name:        "proposal.create",
		RequireAuth: true,
		Permission:  domain.PermissionProposalCreate,
		RateLimit:   &deps.Rules.Mutation,
		Handler: func(ctx context.Context, in proposing.CreateInput, actor *domain.Actor) (*domain.Proposal, error) {
			return service.Create(ctx, in, *actor)
		},
		Activity: func(in proposing.CreateInput, out *domain.Proposal, actor *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      actor.UserID,
				AgencyID:    actor.AgencyID,
				Type:        domain.ActivityProposalCreated,
				Description: "Proposta " + out.ProposalNumber + " criada",
				Metadata:    map[string]any{"proposalId": out.ID, "clientId": out.ClientID},
			}
		},
	})

	return serve(a, http.StatusCreated, bindBody[proposing.CreateInput](nil))
}

func UpdateProposal(service proposing.ProposalService, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[proposing.UpdateInput, *domain.Proposal]{
		Name:        "proposal.update",
		RequireAuth: true,
		Permission:  domain.PermissionProposalUpdate,
		RateLimit:   &deps.Rules.Mutation,
		Handler: func(ctx context.Context, in proposing.UpdateInput, actor *domain.Actor) (*domain.Proposal, error) {
			return service.Update(ctx, in, *actor)
		},
		Activity: func(in proposing.UpdateInput, out *domain.Proposal, actor *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      actor.UserID,
				AgencyID:    actor.AgencyID,
				Type:        domain.ActivityProposalUpdated,
				Description: "Proposta " + out.ProposalNumber + " atualizada",
				Metadata:    map[string]any{"proposalId": out.ID},
			}
		},
	})

	return serve(a, http.StatusOK, bindBody(func(in *proposing.UpdateInput, id string) {
		in.ProposalID = id
	}))
}

func ChangeProposalStatus(service proposing.ProposalService, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[proposing.ChangeStatusInput, *proposing.StatusChangeResult]{
		Name:        "proposal.change_status",
		RequireAuth: true,
		Permission:  domain.PermissionProposalChangeStatus,
		RateLimit:   &deps.Rules.Mutation,
		Handler: func(ctx context.Context, in proposing.ChangeStatusInput, actor *domain.Actor) (*proposing.StatusChangeResult, error) {
			return service.ChangeStatus(ctx, in, *actor)
		},
		Activity: func(in proposing.ChangeStatusInput, out *proposing.StatusChangeResult, actor *domain.Actor) *domain.ActivityLog {
			metadata := map[string]any{
				"proposalId": out.Proposal.ID,
				"toStatus":   in.Status,
			}
			if out.Booking != nil {
				metadata["bookingId"] = out.Booking.ID
				metadata["bookingNumber"] = out.Booking.BookingNumber
			}
			return &domain.ActivityLog{
				UserID:      actor.UserID,
				AgencyID:    actor.AgencyID,
				Type:        domain.ActivityProposalStatusChanged,
				Description: "Status da proposta " + out.Proposal.ProposalNumber + " alterado para " + string(in.Status),
				Metadata:    metadata,
			}
		},
	})

	return serve(a, http.StatusOK, bindBody(func(in *proposing.ChangeStatusInput, id string) {
		in.ProposalID = id
		in.Status = domain.ProposalStatus(strings.ToUpper(strings.TrimSpace(string(in.Status))))
	}))
}

func DeleteProposal(service proposing.ProposalService, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[proposing.DeleteInput, DeleteProposalResponse]{
		Name:        "proposal.delete",
		RequireAuth: true,
		Permission:  domain.PermissionProposalDelete,
		RateLimit:   &deps.Rules.Mutation,
		Handler: func(ctx context.Context, in proposing.DeleteInput, actor *domain.Actor) (DeleteProposalResponse, error) {
			if err := service.Delete(ctx, in, *actor); err != nil {
				return DeleteProposalResponse{}, err
			}
			return DeleteProposalResponse{ID: in.ProposalID, Hard: in.Hard}, nil
		},
		Activity: func(in proposing.DeleteInput, out DeleteProposalResponse, actor *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      actor.UserID,
				AgencyID:    actor.AgencyID,
				Type:        domain.ActivityProposalDeleted,
				Description: "Proposta excluída",
				Metadata:    map[string]any{"proposalId": out.ID, "hard": out.Hard},
			}
		},
	})

	return serve(a, http.StatusOK, func(r *http.Request) (proposing.DeleteInput, error) {
		return proposing.DeleteInput{
			ProposalID: pathParam(r, "id"),
			Hard:       r.URL.Query().Get("hard") == "true",
		}, nil
	})
}

func GetProposal(service proposing.ProposalService, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[proposing.GetInput, *domain.Proposal]{
		Name:        "proposal.get",
		RequireAuth: true,
		Permission:  domain.PermissionProposalView,
		Handler: func(ctx context.Context, in proposing.GetInput, actor *domain.Actor) (*domain.Proposal, error) {
			return service.Get(ctx, in.ProposalID, *actor)
		},
	})

	return serve(a, http.StatusOK, bindID)
}

func GetProposalHistory(service proposing.ProposalService, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[proposing.GetInput, []domain.ProposalStatusHistory]{
		Name:        "proposal.history",
		RequireAuth: true,
		Permission:  domain.PermissionProposalView,
		Handler: func(ctx context.Context, in proposing.GetInput, actor *domain.Actor) ([]domain.ProposalStatusHistory, error) {
			return service.History(ctx, in.ProposalID, *actor)
		},
	})

	return serve(a, http.StatusOK, bindID)
}

func ListProposals(service proposing.ProposalService, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[proposing.ListInput, []*domain.Proposal]{
		Name:        "proposal.list",
		RequireAuth: true,
		Permission:  domain.PermissionProposalView,
		Handler: func(ctx context.Context, in proposing.ListInput, actor *domain.Actor) ([]*domain.Proposal, error) {
			return service.List(ctx, in, *actor)
		},
	})

	return serve(a, http.StatusOK, func(r *http.Request) (proposing.ListInput, error) {
		query := r.URL.Query()

		// status aceita tanto ?status=SENT&status=APPROVED quanto ?status=SENT,APPROVED
		var statuses []string
		for _, raw := range query["status"] {
			for _, status := range strings.Split(raw, ",") {
				if status = strings.TrimSpace(status); status != "" {
					statuses = append(statuses, status)
				}
			}
		}

		limit, err := queryUint(r, "limit")
		if err != nil {
			return proposing.ListInput{}, err
		}
		offset, err := queryUint(r, "offset")
		if err != nil {
			return proposing.ListInput{}, err
		}

		return proposing.ListInput{
			ClientID: query.Get("clientId"),
			Statuses: statuses,
			Limit:    limit,
			Offset:   offset,
		}, nil
	})
}

func bindID(r *http.Request) (proposing.GetInput, error) {
	return proposing.GetInput{ProposalID: pathParam(r, "id")}, nil
}
