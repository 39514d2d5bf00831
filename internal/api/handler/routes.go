package handler

import (
	"net/http"

	"github.com/vfg2006/agency-crm-api/internal/api/handler/router"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-crm-api/internal/usecases/booking"
	"github.com/vfg2006/agency-crm-api/internal/usecases/proposing"
	"github.com/vfg2006/agency-crm-api/pkg/action"
	"github.com/vfg2006/agency-crm-api/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Authentication(service authenticating.Authenticator, deps action.Dependencies) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service, deps),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: Register(service, deps),
		},
		{
			Path:    "/v1/me",
			Method:  http.MethodGet,
			Handler: GetMe(service, deps),
		},
		{
			Path:    "/v1/me/password",
			Method:  http.MethodPut,
			Handler: ChangePassword(service, deps),
		},
		{
			Path:    "/v1/users/:id/generate-password",
			Method:  http.MethodPost,
			Handler: GeneratePassword(service, deps),
		},
	}
}

func User(service authenticating.Authenticator, deps action.Dependencies) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/users",
			Method:  http.MethodGet,
			Handler: ListUsers(service, deps),
		},
		{
			Path:    "/v1/users",
			Method:  http.MethodPost,
			Handler: CreateUser(service, deps),
		},
		{
			Path:    "/v1/users/:id",
			Method:  http.MethodPut,
			Handler: UpdateUser(service, deps),
		},
	}
}

func Proposals(service proposing.ProposalService, deps action.Dependencies) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/proposals",
			Method:  http.MethodPost,
			Handler: CreateProposal(service, deps),
		},
		{
			Path:    "/v1/proposals",
			Method:  http.MethodGet,
			Handler: ListProposals(service, deps),
		},
		{
			Path:    "/v1/proposals/:id",
			Method:  http.MethodGet,
			Handler: GetProposal(service, deps),
		},
		{
			Path:    "/v1/proposals/:id",
			Method:  http.MethodPut,
			Handler: UpdateProposal(service, deps),
		},
		{
			Path:    "/v1/proposals/:id",
			Method:  http.MethodDelete,
			Handler: DeleteProposal(service, deps),
		},
		{
			Path:    "/v1/proposals/:id/status",
			Method:  http.MethodPost,
			Handler: ChangeProposalStatus(service, deps),
		},
		{
			Path:    "/v1/proposals/:id/history",
			Method:  http.MethodGet,
			Handler: GetProposalHistory(service, deps),
		},
	}
}

func Bookings(service booking.Booker, deps action.Dependencies) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/bookings",
			Method:  http.MethodGet,
			Handler: ListBookings(service, deps),
		},
	}
}

func Jobs(job ExpirationJob, cronSecret string) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/jobs/expire-proposals",
			Method:  http.MethodPost,
			Handler: ExpireProposals(job, cronSecret),
		},
		{
			Path:        "/v1/jobs/status",
			Method:      http.MethodGet,
			Handler:     GetJobStatus(job),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequirePermission(domain.PermissionSystemJobs)},
		},
	}
}
