package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/internal/api/handler"
	"github.com/vfg2006/agency-crm-api/internal/api/handler/router"
	"github.com/vfg2006/agency-crm-api/internal/config"
	"github.com/vfg2006/agency-crm-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-crm-api/internal/usecases/booking"
	"github.com/vfg2006/agency-crm-api/internal/usecases/proposing"
	"github.com/vfg2006/agency-crm-api/pkg/action"
	"github.com/vfg2006/agency-crm-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Services agrupa o que as rotas precisam
type Services struct {
	Authenticator authenticating.Authenticator
	Proposals     proposing.ProposalService
	Bookings      booking.Booker
	ExpirationJob handler.ExpirationJob
	Database      handler.Pinger
	Actions       action.Dependencies
}

type Server struct {
	httpServer *http.Server
}

func New(cfg *config.Config, services Services) (*Server, error) {
	if services.Actions.Actors == nil {
		services.Actions.Actors = middleware.ContextActors{}
	}
	deps := services.Actions

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.Database)...),
		router.WithRoutes(handler.Authentication(services.Authenticator, deps)...),
		router.WithRoutes(handler.User(services.Authenticator, deps)...),
		router.WithRoutes(handler.Proposals(services.Proposals, deps)...),
		router.WithRoutes(handler.Bookings(services.Bookings, deps)...),
		router.WithRoutes(handler.Jobs(services.ExpirationJob, cfg.Cron.Secret)...),
	)

	logrus.WithField("routes", len(rt.Routes())).Debug("Rotas registradas")

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa para testes
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}
