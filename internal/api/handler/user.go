package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-crm-api/pkg/action"
)

func ListUsers(service authenticating.Authenticator, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[struct{}, []*domain.User]{
		Name:        "user.list",
		RequireAuth: true,
		Permission:  domain.PermissionUserView,
		Handler: func(ctx context.Context, _ struct{}, actor *domain.Actor) ([]*domain.User, error) {
			return service.ListUsers(ctx, *actor)
		},
	})

	return serve(a, http.StatusOK, func(*http.Request) (struct{}, error) {
		return struct{}{}, nil
	})
}

func CreateUser(service authenticating.Authenticator, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[authenticating.CreateUserInput, *domain.User]{
		Name:        "user.create",
		RequireAuth: true,
		Permission:  domain.PermissionUserManage,
		RateLimit:   &deps.Rules.Mutation,
		Handler: func(ctx context.Context, in authenticating.CreateUserInput, actor *domain.Actor) (*domain.User, error) {
			return service.CreateUser(ctx, in, *actor)
		},
		Activity: func(in authenticating.CreateUserInput, out *domain.User, actor *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      actor.UserID,
				AgencyID:    actor.AgencyID,
				Type:        domain.ActivityUserCreated,
				Description: "Usuário " + out.Email + " criado",
				Metadata:    map[string]any{"targetUserId": out.ID, "role": out.Role},
			}
		},
	})

	return serve(a, http.StatusCreated, bindBody[authenticating.CreateUserInput](nil))
}

// UpdateUser aceita o próprio usuário ou, com user:manage, qualquer usuário da agência
func UpdateUser(service authenticating.Authenticator, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[authenticating.UpdateUserInput, *domain.User]{
		Name:        "user.update",
		RequireAuth: true,
		RateLimit:   &deps.Rules.Mutation,
		Handler: func(ctx context.Context, in authenticating.UpdateUserInput, actor *domain.Actor) (*domain.User, error) {
			return service.UpdateUser(ctx, in, *actor)
		},
		Activity: func(in authenticating.UpdateUserInput, out *domain.User, actor *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      actor.UserID,
				AgencyID:    actor.AgencyID,
				Type:        domain.ActivityUserUpdated,
				Description: "Usuário " + out.Email + " atualizado",
				Metadata:    map[string]any{"targetUserId": out.ID},
			}
		},
	})

	return serve(a, http.StatusOK, bindBody(func(in *authenticating.UpdateUserInput, id string) {
		in.UserID = id
	}))
}
