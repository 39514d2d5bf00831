package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/log"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}

type fakeValidator struct {
	claims *domain.Claims
	err    error
}

func (f fakeValidator) ValidateToken(string) (*domain.Claims, error) {
	return f.claims, f.err
}

func okHandler(t *testing.T, validate func(r *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if validate != nil {
			validate(r)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	agentClaims := &domain.Claims{UserID: "agent-1", AgencyID: "agency-1", UserRole: domain.RoleAgent}

	tests := []struct {
		name       string
		path       string
		header     string
		validator  fakeValidator
		wantStatus int
		validate   func(r *http.Request)
	}{
		{
			name:       "Rota pública passa sem token",
			path:       "/v1/login",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Gatilho de jobs não exige JWT",
			path:       "/v1/jobs/expire-proposals",
			header:     "Bearer segredo-do-cron",
			validator:  fakeValidator{err: errors.New("não é jwt")},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Sem cabeçalho retorna 401",
			path:       "/v1/proposals",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Cabeçalho sem Bearer retorna 401",
			path:       "/v1/proposals",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Token inválido retorna 401",
			path:       "/v1/proposals",
			header:     "Bearer abc",
			validator:  fakeValidator{err: errors.New("expirado")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Token válido guarda as claims e o ator",
			path:       "/v1/proposals",
			header:     "Bearer abc",
			validator:  fakeValidator{claims: agentClaims},
			wantStatus: http.StatusOK,
			validate: func(r *http.Request) {
				claims, ok := ClaimsFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "agent-1", claims.UserID)

				actor, err := ContextActors{}.ResolveActor(r.Context())
				assert.NoError(t, err)
				assert.Equal(t, domain.Actor{UserID: "agent-1", AgencyID: "agency-1", Role: domain.RoleAgent}, *actor)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.validator)(okHandler(t, tt.validate)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		claims     *domain.Claims
		wantStatus int
	}{
		{name: "Sem claims", wantStatus: http.StatusUnauthorized},
		{name: "Agente sem user:manage", claims: &domain.Claims{UserRole: domain.RoleAgent}, wantStatus: http.StatusForbidden},
		{name: "Admin com user:manage", claims: &domain.Claims{UserRole: domain.RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()

			RequirePermission(domain.PermissionUserManage)(okHandler(t, nil)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestContextActors_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	actor, err := ContextActors{}.ResolveActor(req.Context())

	require.NoError(t, err)
	assert.Nil(t, actor)
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:3000"})(okHandler(t, nil))

	t.Run("Origem permitida recebe cabeçalhos", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/proposals", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Origem desconhecida não recebe cabeçalhos", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/proposals", nil)
		req.Header.Set("Origin", "https://malicioso.example")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight responde sem chamar o próximo handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/proposals", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestLogPanicMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("falha inesperada")
	})
	rec := httptest.NewRecorder()

	LoggingMiddleware()(LogPanicMiddleware()(panicking)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/proposals", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
