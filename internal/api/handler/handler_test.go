package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-crm-api/internal/api/handler/router"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/internal/scheduler"
	"github.com/vfg2006/agency-crm-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-crm-api/internal/usecases/proposing"
	"github.com/vfg2006/agency-crm-api/pkg/action"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
	"github.com/vfg2006/agency-crm-api/pkg/log"
	"github.com/vfg2006/agency-crm-api/pkg/middleware"
	"github.com/vfg2006/agency-crm-api/pkg/ratelimit"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}

type fakeProposals struct {
	proposing.ProposalService

	createIn  proposing.CreateInput
	statusIn  proposing.ChangeStatusInput
	listIn    proposing.ListInput
	deleteIn  proposing.DeleteInput
	proposal  *domain.Proposal
	statusOut *proposing.StatusChangeResult
	err       error
}

func (f *fakeProposals) Create(ctx context.Context, in proposing.CreateInput, actor domain.Actor) (*domain.Proposal, error) {
	f.createIn = in
	return f.proposal, f.err
}

func (f *fakeProposals) Get(ctx context.Context, proposalID string, actor domain.Actor) (*domain.Proposal, error) {
	return f.proposal, f.err
}

func (f *fakeProposals) List(ctx context.Context, in proposing.ListInput, actor domain.Actor) ([]*domain.Proposal, error) {
	f.listIn = in
	return []*domain.Proposal{f.proposal}, f.err
}

func (f *fakeProposals) ChangeStatus(ctx context.Context, in proposing.ChangeStatusInput, actor domain.Actor) (*proposing.StatusChangeResult, error) {
	f.statusIn = in
	return f.statusOut, f.err
}

func (f *fakeProposals) Delete(ctx context.Context, in proposing.DeleteInput, actor domain.Actor) error {
	f.deleteIn = in
	return f.err
}

type fakeAuth struct {
	authenticating.Authenticator

	session *authenticating.Session
	err     error
}

func (f *fakeAuth) Login(ctx context.Context, in authenticating.LoginInput) (*authenticating.Session, error) {
	return f.session, f.err
}

type recordedActivity struct {
	entries []*domain.ActivityLog
}

func (r *recordedActivity) Create(ctx context.Context, entry *domain.ActivityLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

type fakeJob struct {
	summary *domain.ExpirationSummary
	err     error
	calls   int
}

func (f *fakeJob) Run(ctx context.Context) (*domain.ExpirationSummary, error) {
	f.calls++
	return f.summary, f.err
}

func (f *fakeJob) GetStatus() scheduler.ExpirationStatus {
	return scheduler.ExpirationStatus{Enabled: true, CronSchedule: "0 3 * * *"}
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

var agentClaims = &domain.Claims{UserID: "agent-1", AgencyID: "agency-1", UserName: "Ana", UserRole: domain.RoleAgent}

func testDeps(activity *recordedActivity) action.Dependencies {
	rules := ratelimit.DefaultRules()
	rules.Mutation = ratelimit.Rule{Prefix: "mutation", Attempts: 2, Window: time.Minute}

	return action.Dependencies{
		Actors:   middleware.ContextActors{},
		Limiter:  ratelimit.NewMemoryLimiter(),
		Activity: activity,
		Rules:    rules,
	}
}

func do(t *testing.T, h http.Handler, method, path, body string, claims *domain.Claims) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Field   string         `json:"field"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestProposalRoutes(t *testing.T) {
	proposal := &domain.Proposal{
		ID:             "p-1",
		AgencyID:       "agency-1",
		ProposalNumber: "2026/10/0001",
		Title:          "Lua de mel",
		Status:         domain.ProposalStatusDraft,
		UserID:         "agent-1",
		TotalAmount:    decimal.RequireFromString("1500.50"),
	}

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		claims   *domain.Claims
		setup    func(f *fakeProposals)
		validate func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "Criação retorna 201 e registra atividade",
			method: http.MethodPost,
			path:   "/v1/proposals",
			body:   `{"title":"Lua de mel","clientId":"c-1","items":[{"description":"Hotel","quantity":2,"unitPrice":"750.25"}]}`,
			claims: agentClaims,
			setup:  func(f *fakeProposals) { f.proposal = proposal },
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusCreated, rec.Code)
				body := decode(t, rec)
				assert.True(t, body.Success)
				assert.Equal(t, "2026/10/0001", body.Data["proposalNumber"])
				assert.Equal(t, "1500.5", body.Data["totalAmount"])

				require.Len(t, f.createIn.Items, 1)
				assert.True(t, decimal.RequireFromString("750.25").Equal(f.createIn.Items[0].UnitPrice))

				require.Len(t, activity.entries, 1)
				assert.Equal(t, domain.ActivityProposalCreated, activity.entries[0].Type)
				assert.Equal(t, "agent-1", activity.entries[0].UserID)
			},
		},
		{
			name:   "Campo obrigatório ausente retorna 400 com o campo",
			method: http.MethodPost,
			path:   "/v1/proposals",
			body:   `{"clientId":"c-1"}`,
			claims: agentClaims,
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				body := decode(t, rec)
				assert.Equal(t, apiErrors.CodeValidation, body.Code)
				assert.Equal(t, "title", body.Field)
				assert.Empty(t, activity.entries)
			},
		},
		{
			name:   "JSON malformado retorna 400",
			method: http.MethodPost,
			path:   "/v1/proposals",
			body:   `{"title":`,
			claims: agentClaims,
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, apiErrors.CodeValidation, decode(t, rec).Code)
			},
		},
		{
			name:   "Sem usuário retorna 401",
			method: http.MethodPost,
			path:   "/v1/proposals",
			body:   `{"title":"X","clientId":"c-1"}`,
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				assert.Equal(t, apiErrors.CodeAuthentication, decode(t, rec).Code)
			},
		},
		{
			name:   "Proposta inexistente retorna 404",
			method: http.MethodGet,
			path:   "/v1/proposals/p-9",
			claims: agentClaims,
			setup: func(f *fakeProposals) {
				f.err = apiErrors.Wrap(proposing.ErrProposalNotFound, apiErrors.CodeNotFound, "Proposta não encontrada")
			},
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusNotFound, rec.Code)
				assert.Equal(t, "Proposta não encontrada", decode(t, rec).Error)
			},
		},
		{
			name:   "Erro inesperado vira 500 sem vazar detalhes",
			method: http.MethodGet,
			path:   "/v1/proposals/p-1",
			claims: agentClaims,
			setup:  func(f *fakeProposals) { f.err = errors.New("pq: senha do banco expirada") },
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusInternalServerError, rec.Code)
				body := decode(t, rec)
				assert.Equal(t, apiErrors.CodeInternal, body.Code)
				assert.NotContains(t, body.Error, "senha")
			},
		},
		{
			name:   "Troca de status normaliza o status e usa o id da URL",
			method: http.MethodPost,
			path:   "/v1/proposals/p-1/status",
			body:   `{"status":" active_booking "}`,
			claims: agentClaims,
			setup: func(f *fakeProposals) {
				booked := *proposal
				booked.Status = domain.ProposalStatusActiveBooking
				f.statusOut = &proposing.StatusChangeResult{
					Proposal: &booked,
					Booking:  &domain.Booking{ID: "b-1", BookingNumber: "RES-202610-ABC123"},
				}
			},
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, "p-1", f.statusIn.ProposalID)
				assert.Equal(t, domain.ProposalStatusActiveBooking, f.statusIn.Status)

				require.Len(t, activity.entries, 1)
				assert.Equal(t, "RES-202610-ABC123", activity.entries[0].Metadata["bookingNumber"])
			},
		},
		{
			name:   "Listagem aceita status separados por vírgula",
			method: http.MethodGet,
			path:   "/v1/proposals?status=SENT,approved&status=DRAFT&limit=10",
			claims: agentClaims,
			setup:  func(f *fakeProposals) { f.proposal = proposal },
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, []string{"SENT", "approved", "DRAFT"}, f.listIn.Statuses)
				assert.Equal(t, uint64(10), f.listIn.Limit)
			},
		},
		{
			name:   "Limite acima do máximo é rejeitado",
			method: http.MethodGet,
			path:   "/v1/proposals?limit=500",
			claims: agentClaims,
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, "limit", decode(t, rec).Field)
			},
		},
		{
			name:   "Exclusão definitiva pela query",
			method: http.MethodDelete,
			path:   "/v1/proposals/p-1?hard=true",
			claims: &domain.Claims{UserID: "admin-1", AgencyID: "agency-1", UserRole: domain.RoleAdmin},
			validate: func(t *testing.T, f *fakeProposals, activity *recordedActivity, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, proposing.DeleteInput{ProposalID: "p-1", Hard: true}, f.deleteIn)
				assert.Equal(t, true, decode(t, rec).Data["hard"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeProposals{}
			if tt.setup != nil {
				tt.setup(f)
			}
			activity := &recordedActivity{}
			rt := router.New(router.WithRoutes(Proposals(f, testDeps(activity))...))

			rec := do(t, rt, tt.method, tt.path, tt.body, tt.claims)
			tt.validate(t, f, activity, rec)
		})
	}
}

func TestProposalRoutes_MutationRateLimit(t *testing.T) {
	f := &fakeProposals{proposal: &domain.Proposal{ID: "p-1", ProposalNumber: "2026/10/0001"}}
	rt := router.New(router.WithRoutes(Proposals(f, testDeps(&recordedActivity{}))...))
	body := `{"title":"X","clientId":"c-1"}`

	assert.Equal(t, http.StatusCreated, do(t, rt, http.MethodPost, "/v1/proposals", body, agentClaims).Code)
	assert.Equal(t, http.StatusCreated, do(t, rt, http.MethodPost, "/v1/proposals", body, agentClaims).Code)

	rec := do(t, rt, http.MethodPost, "/v1/proposals", body, agentClaims)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, apiErrors.CodeRateLimit, decode(t, rec).Code)

	// Outro usuário tem o próprio contador
	other := &domain.Claims{UserID: "agent-2", AgencyID: "agency-1", UserRole: domain.RoleAgent}
	assert.Equal(t, http.StatusCreated, do(t, rt, http.MethodPost, "/v1/proposals", body, other).Code)
}

func TestLogin(t *testing.T) {
	session := &authenticating.Session{
		Token: "jwt",
		User:  &domain.User{ID: "u-1", AgencyID: "agency-1", Email: "ana@agencia.com"},
	}

	t.Run("Sucesso registra atividade do usuário", func(t *testing.T) {
		activity := &recordedActivity{}
		rt := router.New(router.WithRoutes(Authentication(&fakeAuth{session: session}, testDeps(activity))...))

		rec := do(t, rt, http.MethodPost, "/v1/login", `{"email":"ana@agencia.com","password":"Senha@123"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "jwt", decode(t, rec).Data["token"])
		require.Len(t, activity.entries, 1)
		assert.Equal(t, domain.ActivityUserSignedIn, activity.entries[0].Type)
	})

	t.Run("Limite de tentativas por e-mail", func(t *testing.T) {
		deps := testDeps(&recordedActivity{})
		deps.Rules.SignIn = ratelimit.Rule{Prefix: "signin", Attempts: 1, Window: time.Minute}
		failing := &fakeAuth{err: apiErrors.Wrap(authenticating.ErrInvalidCredentials, apiErrors.CodeAuthentication, "E-mail ou senha inválidos")}
		rt := router.New(router.WithRoutes(Authentication(failing, deps)...))

		rec := do(t, rt, http.MethodPost, "/v1/login", `{"email":"ana@agencia.com","password":"x"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = do(t, rt, http.MethodPost, "/v1/login", `{"email":"ANA@agencia.com","password":"x"}`, nil)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestJobRoutes(t *testing.T) {
	const secret = "segredo-do-cron"

	tests := []struct {
		name     string
		secret   string
		header   string
		job      *fakeJob
		validate func(t *testing.T, job *fakeJob, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "Executa e devolve o resumo",
			secret: secret,
			header: "Bearer " + secret,
			job: &fakeJob{summary: &domain.ExpirationSummary{
				Total:   3,
				Expired: 2,
				Errors:  1,
				Details: []domain.ExpirationFailure{{ProposalID: "p-3", ProposalNumber: "2026/10/0003", Error: "deadlock"}},
			}},
			validate: func(t *testing.T, job *fakeJob, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `{
					"success": true,
					"results": {"total": 3, "expired": 2, "errors": 1},
					"details": [{"proposalId": "p-3", "proposalNumber": "2026/10/0003", "error": "deadlock"}]
				}`, rec.Body.String())
			},
		},
		{
			name:   "Segredo errado retorna 401",
			secret: secret,
			header: "Bearer outro",
			job:    &fakeJob{},
			validate: func(t *testing.T, job *fakeJob, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				assert.Equal(t, 0, job.calls)
			},
		},
		{
			name:   "Segredo não configurado bloqueia o gatilho",
			secret: "",
			header: "Bearer ",
			job:    &fakeJob{},
			validate: func(t *testing.T, job *fakeJob, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				assert.Equal(t, 0, job.calls)
			},
		},
		{
			name:   "Execução em andamento retorna 409",
			secret: secret,
			header: "Bearer " + secret,
			job:    &fakeJob{err: scheduler.ErrExpirationRunning},
			validate: func(t *testing.T, job *fakeJob, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusConflict, rec.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := router.New(router.WithRoutes(Jobs(tt.job, tt.secret)...))

			req := httptest.NewRequest(http.MethodPost, "/v1/jobs/expire-proposals", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, req)

			tt.validate(t, tt.job, rec)
		})
	}

	t.Run("Status exige system:jobs", func(t *testing.T) {
		rt := router.New(router.WithRoutes(Jobs(&fakeJob{}, secret)...))

		rec := do(t, rt, http.MethodGet, "/v1/jobs/status", "", agentClaims)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		developer := &domain.Claims{UserID: "dev-1", UserRole: domain.RoleDeveloper}
		rec = do(t, rt, http.MethodGet, "/v1/jobs/status", "", developer)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0 3 * * *", decode(t, rec).Data["cronSchedule"])
	})
}

func TestHealthcheck(t *testing.T) {
	rt := router.New(router.WithRoutes(Healthcheck(fakePinger{})...))
	assert.Equal(t, http.StatusOK, do(t, rt, http.MethodGet, "/healthcheck", "", nil).Code)

	rt = router.New(router.WithRoutes(Healthcheck(fakePinger{err: errors.New("timeout")})...))
	assert.Equal(t, http.StatusServiceUnavailable, do(t, rt, http.MethodGet, "/healthcheck", "", nil).Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	rt := router.New(router.WithRoutes(Healthcheck(nil)...))

	rec := do(t, rt, http.MethodGet, "/v1/nada", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.CodeNotFound, decode(t, rec).Code)
}
