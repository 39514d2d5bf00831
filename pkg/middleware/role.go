package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
)

// RequirePermission restringe a rota aos papéis que têm a permissão na tabela de papéis
func RequirePermission(permission domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				logrus.Warning("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.CodeAuthentication, "Usuário não autenticado", "")
				return
			}

			if !claims.UserRole.HasPermission(permission) {
				logrus.WithFields(logrus.Fields{
					"user_id":    claims.UserID,
					"role":       claims.UserRole,
					"permission": permission,
				}).Warning("Acesso negado")
				apiErrors.WriteError(w, apiErrors.CodeAuthorization, "Você não tem permissão para acessar este recurso", "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
