package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/internal/scheduler"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
)

// ExpirationJob é a parte do agendador usada pelos gatilhos HTTP
type ExpirationJob interface {
	Run(ctx context.Context) (*domain.ExpirationSummary, error)
	GetStatus() scheduler.ExpirationStatus
}

type JobResults struct {
	Total   int `json:"total"`
	Expired int `json:"expired"`
	Errors  int `json:"errors"`
}

type ExpireProposalsResponse struct {
	Success bool                       `json:"success"`
	Results JobResults                 `json:"results"`
	Details []domain.ExpirationFailure `json:"details"`
}

type JobStatusResponse struct {
	Success bool                       `json:"success"`
	Data    scheduler.ExpirationStatus `json:"data"`
}

// ExpireProposals roda a varredura sob demanda. Autenticado por Bearer com o CRON_SECRET.
func ExpireProposals(job ExpirationJob, cronSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !validCronSecret(r.Header.Get("Authorization"), cronSecret) {
			logrus.WithField("remote_addr", r.RemoteAddr).Warn("Gatilho de expiração com segredo inválido")
			apiErrors.WriteError(w, apiErrors.CodeAuthentication, "Não autorizado", "")
			return
		}

		summary, err := job.Run(r.Context())
		switch {
		case errors.Is(err, scheduler.ErrExpirationRunning), errors.Is(err, scheduler.ErrExpirationLocked):
			apiErrors.WriteError(w, apiErrors.CodeConflict, "Expiração de propostas já em andamento", "")
			return
		case err != nil && summary == nil:
			logrus.WithError(err).Error("Erro no gatilho de expiração de propostas")
			apiErrors.WriteAppError(w, err)
			return
		}

		response := ExpireProposalsResponse{
			Success: err == nil,
			Results: JobResults{Total: summary.Total, Expired: summary.Expired, Errors: summary.Errors},
			Details: summary.Details,
		}
		if response.Details == nil {
			response.Details = []domain.ExpirationFailure{}
		}

		status := http.StatusOK
		if err != nil {
			// Resumo parcial quando a requisição foi cancelada no meio
			status = http.StatusInternalServerError
		}

		writeJSON(w, status, response)
	}
}

func GetJobStatus(job ExpirationJob) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, JobStatusResponse{Success: true, Data: job.GetStatus()})
	}
}

// Segredo vazio bloqueia o gatilho
func validCronSecret(header, secret string) bool {
	if secret == "" {
		return false
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
