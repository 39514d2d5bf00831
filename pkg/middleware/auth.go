package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
	"github.com/vfg2006/agency-crm-api/pkg/log"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

// Rotas sem JWT. O gatilho de jobs usa o próprio segredo.
var publicPaths = map[string]bool{
	"/healthcheck":              true,
	"/v1/login":                 true,
	"/v1/register":              true,
	"/v1/jobs/expire-proposals": true,
}

type TokenValidator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
}

func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.CodeAuthentication, "Cabeçalho Authorization é obrigatório", "")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.CodeAuthentication, "Token Bearer é obrigatório", "")
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.CodeAuthentication, "Token inválido ou expirado", "")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			ctx = log.WithActor(ctx, claims.UserID, claims.AgencyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retorna as claims guardadas pelo AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}

// WithClaims é usado por testes e rotas internas para simular um usuário autenticado
func WithClaims(ctx context.Context, claims *domain.Claims) context.Context {
	return context.WithValue(ctx, ContextKeyUser, claims)
}

// ContextActors resolve o ator da requisição a partir das claims do contexto
type ContextActors struct{}

func (ContextActors) ResolveActor(ctx context.Context) (*domain.Actor, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, nil
	}
	actor := claims.Actor()
	return &actor, nil
}
