package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-crm-api/pkg/action"
)

type GeneratePasswordResponse struct {
	Password string `json:"password"`
}

// O limite de login e cadastro é por e-mail, já que ainda não existe ator
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func Login(service authenticating.Authenticator, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[authenticating.LoginInput, *authenticating.Session]{
		Name:      "auth.login",
		RateLimit: &deps.Rules.SignIn,
		RateLimitKey: func(in authenticating.LoginInput, _ *domain.Actor) string {
			return emailKey(in.Email)
		},
		Handler: func(ctx context.Context, in authenticating.LoginInput, _ *domain.Actor) (*authenticating.Session, error) {
			return service.Login(ctx, in)
		},
		Activity: func(in authenticating.LoginInput, out *authenticating.Session, _ *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      out.User.ID,
				AgencyID:    out.User.AgencyID,
				Type:        domain.ActivityUserSignedIn,
				Description: "Login realizado",
			}
		},
	})

	return serve(a, http.StatusOK, bindBody[authenticating.LoginInput](nil))
}

func Register(service authenticating.Authenticator, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[authenticating.RegisterInput, *authenticating.Session]{
		Name:      "auth.register",
		RateLimit: &deps.Rules.SignUp,
		RateLimitKey: func(in authenticating.RegisterInput, _ *domain.Actor) string {
			return emailKey(in.Email)
		},
		Handler: func(ctx context.Context, in authenticating.RegisterInput, _ *domain.Actor) (*authenticating.Session, error) {
			return service.Register(ctx, in)
		},
		Activity: func(in authenticating.RegisterInput, out *authenticating.Session, _ *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      out.User.ID,
				AgencyID:    out.User.AgencyID,
				Type:        domain.ActivityUserCreated,
				Description: "Agência " + strings.TrimSpace(in.AgencyName) + " registrada",
			}
		},
	})

	return serve(a, http.StatusCreated, bindBody[authenticating.RegisterInput](nil))
}

// GetMe retorna as informações do usuário logado
func GetMe(service authenticating.Authenticator, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[struct{}, *domain.User]{
		Name:        "auth.me",
		RequireAuth: true,
		Handler: func(ctx context.Context, _ struct{}, actor *domain.Actor) (*domain.User, error) {
			return service.GetProfile(ctx, *actor)
		},
	})

	return serve(a, http.StatusOK, func(*http.Request) (struct{}, error) {
		return struct{}{}, nil
	})
}

// ChangePassword permite que o usuário altere a própria senha
func ChangePassword(service authenticating.Authenticator, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[authenticating.ChangePasswordInput, struct{}]{
		Name:        "auth.change_password",
		RequireAuth: true,
		RateLimit:   &deps.Rules.SignIn,
		Handler: func(ctx context.Context, in authenticating.ChangePasswordInput, actor *domain.Actor) (struct{}, error) {
			return struct{}{}, service.ChangePassword(ctx, in, *actor)
		},
		Activity: func(in authenticating.ChangePasswordInput, _ struct{}, actor *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      actor.UserID,
				AgencyID:    actor.AgencyID,
				Type:        domain.ActivityUserUpdated,
				Description: "Senha alterada",
			}
		},
	})

	return serve(a, http.StatusOK, bindBody[authenticating.ChangePasswordInput](nil))
}

type resetPasswordInput struct {
	UserID string `json:"id" validate:"required"`
}

// GeneratePassword gera uma nova senha para outro usuário da agência
func GeneratePassword(service authenticating.Authenticator, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[resetPasswordInput, GeneratePasswordResponse]{
		Name:        "user.reset_password",
		RequireAuth: true,
		Permission:  domain.PermissionUserManage,
		RateLimit:   &deps.Rules.Mutation,
		Handler: func(ctx context.Context, in resetPasswordInput, actor *domain.Actor) (GeneratePasswordResponse, error) {
			password, err := service.ResetPassword(ctx, in.UserID, *actor)
			if err != nil {
				return GeneratePasswordResponse{}, err
			}
			return GeneratePasswordResponse{Password: password}, nil
		},
		Activity: func(in resetPasswordInput, _ GeneratePasswordResponse, actor *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{
				UserID:      actor.UserID,
				AgencyID:    actor.AgencyID,
				Type:        domain.ActivityUserUpdated,
				Description: "Senha redefinida",
				Metadata:    map[string]any{"targetUserId": in.UserID},
			}
		},
	})

	return serve(a, http.StatusOK, func(r *http.Request) (resetPasswordInput, error) {
		return resetPasswordInput{UserID: pathParam(r, "id")}, nil
	})
}
