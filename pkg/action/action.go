// Package action compõe a política comum das mutações da API:
// validar, autenticar, autorizar, limitar, executar e registrar atividade.
package action

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
	"github.com/vfg2006/agency-crm-api/pkg/log"
	"github.com/vfg2006/agency-crm-api/pkg/ratelimit"
)

// ActorResolver obtém o usuário autenticado da requisição.
// Retorna nil, nil quando não há usuário.
type ActorResolver interface {
	ResolveActor(ctx context.Context) (*domain.Actor, error)
}

// ActivityRecorder persiste o log de atividades
type ActivityRecorder interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
}

type Dependencies struct {
	Validator *validator.Validate
	Actors    ActorResolver
	Limiter   ratelimit.Limiter
	Activity  ActivityRecorder
	Rules     ratelimit.Rules
}

type Handler[In any, Out any] func(ctx context.Context, in In, actor *domain.Actor) (Out, error)

type Definition[In any, Out any] struct {
	Name        string
	RequireAuth bool
	Permission  domain.Permission
	RateLimit   *ratelimit.Rule
	// RateLimitKey escolhe o identificador do limite; o padrão é o id do ator
	RateLimitKey func(in In, actor *domain.Actor) string
	Activity     func(in In, out Out, actor *domain.Actor) *domain.ActivityLog
	Handler      Handler[In, Out]
}

type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

type Action[In any, Out any] struct {
	deps Dependencies
	def  Definition[In, Out]
}

func New[In any, Out any](deps Dependencies, def Definition[In, Out]) *Action[In, Out] {
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	return &Action[In, Out]{deps: deps, def: def}
}

func (a *Action[In, Out]) Name() string {
	return a.def.Name
}

// Run executa o pipeline completo. Nunca propaga panic nem erro cru.
func (a *Action[In, Out]) Run(ctx context.Context, in In) (result Result[Out]) {
	logger := log.ForContext(ctx).WithField("action", a.def.Name)

	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			stack = stack[:runtime.Stack(stack, false)]
			logger.WithFields(log.Fields{
				"panic_error": r,
				"stack_trace": string(stack),
			}).Error("Panic durante execução da ação")
			result = failure[Out](apiErrors.Internal(fmt.Errorf("panic: %v", r)))
		}
	}()

	if err := a.validateInput(in); err != nil {
		return failure[Out](err)
	}

	actor, err := a.authenticate(ctx)
	if err != nil {
		return failure[Out](err)
	}

	if err := a.authorize(actor); err != nil {
		logger.WithField("user_id", actorID(actor)).Warn("Acesso negado à ação")
		return failure[Out](err)
	}

	if err := a.checkRateLimit(ctx, in, actor); err != nil {
		return failure[Out](err)
	}

	out, err := a.def.Handler(ctx, in, actor)
	if err != nil {
		appErr := apiErrors.FromError(err)
		if appErr.Code == apiErrors.CodeInternal {
			logger.WithError(err).Error("Erro inesperado na ação")
		}
		return failure[Out](appErr)
	}

	a.recordActivity(ctx, in, out, actor)

	return Result[Out]{Success: true, Data: out}
}

func (a *Action[In, Out]) validateInput(in In) error {
	return validateStruct(a.deps.Validator, in)
}

func (a *Action[In, Out]) authenticate(ctx context.Context) (*domain.Actor, error) {
	if a.deps.Actors == nil {
		if a.def.RequireAuth {
			return nil, apiErrors.Authentication("Usuário não autenticado")
		}
		return nil, nil
	}

	actor, err := a.deps.Actors.ResolveActor(ctx)
	if err != nil || actor == nil {
		if a.def.RequireAuth {
			return nil, apiErrors.Authentication("Usuário não autenticado")
		}
		return nil, nil
	}

	return actor, nil
}

func (a *Action[In, Out]) authorize(actor *domain.Actor) error {
	if a.def.Permission == "" {
		return nil
	}

	if actor == nil {
		return apiErrors.Authentication("Usuário não autenticado")
	}

	if !actor.Role.HasPermission(a.def.Permission) {
		return apiErrors.Authorization("Você não tem permissão para executar esta ação")
	}

	return nil
}

func (a *Action[In, Out]) checkRateLimit(ctx context.Context, in In, actor *domain.Actor) error {
	if a.def.RateLimit == nil || a.deps.Limiter == nil {
		return nil
	}

	identifier := ""
	if a.def.RateLimitKey != nil {
		identifier = a.def.RateLimitKey(in, actor)
	} else if actor != nil {
		identifier = actor.UserID
	}
	if identifier == "" {
		identifier = "anonymous"
	}

	allowed, err := a.deps.Limiter.Check(ctx, *a.def.RateLimit, identifier)
	if err != nil {
		// Falha do backend não bloqueia a requisição
		log.ForContext(ctx).WithError(err).Warn("Rate limit indisponível, seguindo sem limite")
		return nil
	}

	if !allowed {
		return apiErrors.RateLimit("Muitas tentativas. Aguarde alguns instantes e tente novamente")
	}

	return nil
}

func (a *Action[In, Out]) recordActivity(ctx context.Context, in In, out Out, actor *domain.Actor) {
	if a.def.Activity == nil || a.deps.Activity == nil {
		return
	}

	entry := a.def.Activity(in, out, actor)
	if entry == nil {
		return
	}

	if err := a.deps.Activity.Create(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":        a.def.Name,
			"activity_type": entry.Type,
		}).Warn("Erro ao registrar atividade")
	}
}

func failure[T any](err error) Result[T] {
	appErr := apiErrors.FromError(err)

	message := appErr.Message
	if appErr.Code == apiErrors.CodeInternal {
		message = "Erro interno do servidor"
	}

	return Result[T]{
		Success: false,
		Error:   message,
		Code:    appErr.Code,
		Field:   appErr.Field,
	}
}

func actorID(actor *domain.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.UserID
}
