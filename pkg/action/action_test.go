package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
	"github.com/vfg2006/agency-crm-api/pkg/ratelimit"
)

type stubActors struct {
	actor *domain.Actor
	err   error
	calls int
}

func (s *stubActors) ResolveActor(context.Context) (*domain.Actor, error) {
	s.calls++
	return s.actor, s.err
}

type stubLimiter struct {
	allowed     bool
	err         error
	identifiers []string
}

func (s *stubLimiter) Check(_ context.Context, rule ratelimit.Rule, identifier string) (bool, error) {
	s.identifiers = append(s.identifiers, rule.Key(identifier))
	return s.allowed, s.err
}

type stubActivity struct {
	entries []*domain.ActivityLog
	err     error
}

func (s *stubActivity) Create(_ context.Context, entry *domain.ActivityLog) error {
	s.entries = append(s.entries, entry)
	return s.err
}

type itemInput struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type createInput struct {
	Title string      `json:"title" validate:"required"`
	Items []itemInput `json:"items" validate:"dive"`
}

var testRule = ratelimit.Rule{Prefix: "mutation", Attempts: 3, Window: time.Minute}

func agentActor() *domain.Actor {
	return &domain.Actor{UserID: "user-1", AgencyID: "agency-1", Role: domain.RoleAgent}
}

func newTestAction(deps Dependencies, handler Handler[createInput, string]) *Action[createInput, string] {
	return New(deps, Definition[createInput, string]{
		Name:        "proposal.create",
		RequireAuth: true,
		Permission:  domain.PermissionProposalCreate,
		RateLimit:   &testRule,
		Activity: func(in createInput, out string, actor *domain.Actor) *domain.ActivityLog {
			return &domain.ActivityLog{UserID: actor.UserID, AgencyID: actor.AgencyID, Type: domain.ActivityProposalCreated, Description: out}
		},
		Handler: handler,
	})
}

func okHandler(_ context.Context, in createInput, _ *domain.Actor) (string, error) {
	return "criada: " + in.Title, nil
}

func TestAction_Run(t *testing.T) {
	validInput := createInput{Title: "Lua de mel", Items: []itemInput{{Quantity: 1}}}

	tests := []struct {
		name     string
		input    createInput
		actors   *stubActors
		limiter  *stubLimiter
		activity *stubActivity
		handler  Handler[createInput, string]
		validate func(t *testing.T, result Result[string], actors *stubActors, limiter *stubLimiter, activity *stubActivity)
	}{
		{
			name:     "sucesso registra atividade",
			input:    validInput,
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler:  okHandler,
			validate: func(t *testing.T, result Result[string], _ *stubActors, limiter *stubLimiter, activity *stubActivity) {
				assert.True(t, result.Success)
				assert.Equal(t, "criada: Lua de mel", result.Data)
				assert.Equal(t, []string{"mutation:user-1"}, limiter.identifiers)
				require.Len(t, activity.entries, 1)
				assert.Equal(t, domain.ActivityProposalCreated, activity.entries[0].Type)
			},
		},
		{
			name:     "validação falha antes de autenticar e informa o campo",
			input:    createInput{Title: "X", Items: []itemInput{{Quantity: 2}, {Quantity: 0}}},
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler:  okHandler,
			validate: func(t *testing.T, result Result[string], actors *stubActors, limiter *stubLimiter, _ *stubActivity) {
				assert.False(t, result.Success)
				assert.Equal(t, apiErrors.CodeValidation, result.Code)
				assert.Equal(t, "items[1].quantity", result.Field)
				assert.Equal(t, 0, actors.calls)
				assert.Empty(t, limiter.identifiers)
			},
		},
		{
			name:     "sem usuário retorna AUTHENTICATION_ERROR",
			input:    validInput,
			actors:   &stubActors{},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler:  okHandler,
			validate: func(t *testing.T, result Result[string], _ *stubActors, limiter *stubLimiter, _ *stubActivity) {
				assert.Equal(t, apiErrors.CodeAuthentication, result.Code)
				assert.Empty(t, limiter.identifiers)
			},
		},
		{
			name:     "erro ao resolver usuário também é AUTHENTICATION_ERROR",
			input:    validInput,
			actors:   &stubActors{err: errors.New("token expirado")},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler:  okHandler,
			validate: func(t *testing.T, result Result[string], _ *stubActors, _ *stubLimiter, _ *stubActivity) {
				assert.Equal(t, apiErrors.CodeAuthentication, result.Code)
			},
		},
		{
			name:     "papel sem permissão retorna AUTHORIZATION_ERROR antes do rate limit",
			input:    validInput,
			actors:   &stubActors{actor: &domain.Actor{UserID: "u", Role: domain.Role("GUEST")}},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler:  okHandler,
			validate: func(t *testing.T, result Result[string], _ *stubActors, limiter *stubLimiter, _ *stubActivity) {
				assert.Equal(t, apiErrors.CodeAuthorization, result.Code)
				assert.Empty(t, limiter.identifiers)
			},
		},
		{
			name:     "limite excedido retorna RATE_LIMIT_ERROR e não executa",
			input:    validInput,
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{allowed: false},
			activity: &stubActivity{},
			handler: func(context.Context, createInput, *domain.Actor) (string, error) {
				t.Fatal("handler não deveria executar")
				return "", nil
			},
			validate: func(t *testing.T, result Result[string], _ *stubActors, _ *stubLimiter, activity *stubActivity) {
				assert.Equal(t, apiErrors.CodeRateLimit, result.Code)
				assert.Empty(t, activity.entries)
			},
		},
		{
			name:     "falha do backend de rate limit não bloqueia",
			input:    validInput,
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{err: errors.New("redis fora do ar")},
			activity: &stubActivity{},
			handler:  okHandler,
			validate: func(t *testing.T, result Result[string], _ *stubActors, _ *stubLimiter, _ *stubActivity) {
				assert.True(t, result.Success)
			},
		},
		{
			name:     "erro de domínio passa com código e campo",
			input:    validInput,
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler: func(context.Context, createInput, *domain.Actor) (string, error) {
				return "", apiErrors.Validation("reason", "Motivo obrigatório")
			},
			validate: func(t *testing.T, result Result[string], _ *stubActors, _ *stubLimiter, activity *stubActivity) {
				assert.Equal(t, apiErrors.CodeValidation, result.Code)
				assert.Equal(t, "reason", result.Field)
				assert.Equal(t, "Motivo obrigatório", result.Error)
				assert.Empty(t, activity.entries)
			},
		},
		{
			name:     "violação de unicidade vira CONFLICT",
			input:    validInput,
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler: func(context.Context, createInput, *domain.Actor) (string, error) {
				return "", &pq.Error{Code: "23505"}
			},
			validate: func(t *testing.T, result Result[string], _ *stubActors, _ *stubLimiter, _ *stubActivity) {
				assert.Equal(t, apiErrors.CodeConflict, result.Code)
			},
		},
		{
			name:     "erro desconhecido vira INTERNAL_ERROR com mensagem genérica",
			input:    validInput,
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler: func(context.Context, createInput, *domain.Actor) (string, error) {
				return "", errors.New("dial tcp 10.0.0.1:5432: connection refused")
			},
			validate: func(t *testing.T, result Result[string], _ *stubActors, _ *stubLimiter, _ *stubActivity) {
				assert.Equal(t, apiErrors.CodeInternal, result.Code)
				assert.Equal(t, "Erro interno do servidor", result.Error)
			},
		},
		{
			name:     "panic no handler vira INTERNAL_ERROR",
			input:    validInput,
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{},
			handler: func(context.Context, createInput, *domain.Actor) (string, error) {
				var m map[string]int
				m["x"] = 1
				return "", nil
			},
			validate: func(t *testing.T, result Result[string], _ *stubActors, _ *stubLimiter, _ *stubActivity) {
				assert.False(t, result.Success)
				assert.Equal(t, apiErrors.CodeInternal, result.Code)
			},
		},
		{
			name:     "falha ao registrar atividade não altera o sucesso",
			input:    validInput,
			actors:   &stubActors{actor: agentActor()},
			limiter:  &stubLimiter{allowed: true},
			activity: &stubActivity{err: errors.New("tabela bloqueada")},
			handler:  okHandler,
			validate: func(t *testing.T, result Result[string], _ *stubActors, _ *stubLimiter, activity *stubActivity) {
				assert.True(t, result.Success)
				assert.Len(t, activity.entries, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Dependencies{
				Actors:   tt.actors,
				Limiter:  tt.limiter,
				Activity: tt.activity,
			}

			result := newTestAction(deps, tt.handler).Run(context.Background(), tt.input)

			tt.validate(t, result, tt.actors, tt.limiter, tt.activity)
		})
	}
}

func TestAction_CustomRateLimitKeyWithoutAuth(t *testing.T) {
	type loginInput struct {
		Email string `json:"email" validate:"required,email"`
	}

	limiter := &stubLimiter{allowed: true}
	signIn := ratelimit.DefaultRules().SignIn

	act := New(Dependencies{Limiter: limiter}, Definition[loginInput, bool]{
		Name:      "auth.signin",
		RateLimit: &signIn,
		RateLimitKey: func(in loginInput, _ *domain.Actor) string {
			return in.Email
		},
		Handler: func(context.Context, loginInput, *domain.Actor) (bool, error) {
			return true, nil
		},
	})

	result := act.Run(context.Background(), loginInput{Email: "ana@agencia.com"})
	assert.True(t, result.Success)
	assert.Equal(t, []string{"signin:ana@agencia.com"}, limiter.identifiers)

	result = act.Run(context.Background(), loginInput{Email: "nao-e-email"})
	assert.Equal(t, apiErrors.CodeValidation, result.Code)
	assert.Equal(t, "email", result.Field)
}

func TestAction_RealLimiterBlocksAfterAttempts(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter()
	deps := Dependencies{Actors: &stubActors{actor: agentActor()}, Limiter: limiter}
	act := newTestAction(deps, okHandler)

	input := createInput{Title: "Europa"}
	for i := 0; i < testRule.Attempts; i++ {
		require.True(t, act.Run(context.Background(), input).Success)
	}

	result := act.Run(context.Background(), input)
	assert.Equal(t, apiErrors.CodeRateLimit, result.Code)
}
