package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/internal/config"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const ProposalExpirationLockKey = "lock:proposal-expiration"

var (
	ErrExpirationRunning = errors.New("expiração de propostas já em andamento")
	ErrExpirationLocked  = errors.New("expiração de propostas em andamento em outra instância")
)

// Expirer executa uma varredura de propostas vencidas
type Expirer interface {
	ExpireOverdue(ctx context.Context, reference time.Time) (*domain.ExpirationSummary, error)
}

// Locker obtém um lock compartilhado entre instâncias.
// ok=false indica que outra instância já segura o lock.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

type ProposalExpirationConfig struct {
	CronSchedule string
	Enabled      bool
	LockTTL      time.Duration
}

// ExpirationStatus é o estado exposto em /v1/jobs/status
type ExpirationStatus struct {
	Enabled         bool                      `json:"enabled"`
	CronSchedule    string                    `json:"cronSchedule"`
	Running         bool                      `json:"running"`
	LastStartedAt   *time.Time                `json:"lastStartedAt,omitempty"`
	LastCompletedAt *time.Time                `json:"lastCompletedAt,omitempty"`
	LastSummary     *domain.ExpirationSummary `json:"lastSummary,omitempty"`
	LastError       string                    `json:"lastError,omitempty"`
}

// ProposalExpirationService agenda a expiração diária de propostas
type ProposalExpirationService struct {
	scheduler *gocron.Scheduler
	config    ProposalExpirationConfig
	expirer   Expirer
	locker    Locker
	now       func() time.Time

	syncMutex       sync.Mutex
	syncRunning     bool
	lastStartedAt   *time.Time
	lastCompletedAt *time.Time
	lastSummary     *domain.ExpirationSummary
	lastError       string
}

// NewProposalExpirationService cria o serviço; locker pode ser nil quando há uma única instância
func NewProposalExpirationService(expirer Expirer, locker Locker, appConfig *config.Config) *ProposalExpirationService {
	expirationConfig := ProposalExpirationConfig{
		CronSchedule: appConfig.ProposalExpiration.CronSchedule,
		Enabled:      appConfig.ProposalExpiration.Enabled,
		LockTTL:      appConfig.ProposalExpiration.LockTTL,
	}
	if expirationConfig.LockTTL <= 0 {
		expirationConfig.LockTTL = 5 * time.Minute
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  expirationConfig.CronSchedule,
		"enabled":        expirationConfig.Enabled,
		"lock_ttl":       expirationConfig.LockTTL.String(),
		"distributed_lk": locker != nil,
	}).Info("Configuração do agendador de expiração de propostas carregada")

	return &ProposalExpirationService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    expirationConfig,
		expirer:   expirer,
		locker:    locker,
		now:       time.Now,
	}
}

// Start inicia o agendador
func (s *ProposalExpirationService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Expiração automática de propostas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de expiração de propostas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.Run(ctx); err != nil && !errors.Is(err, ErrExpirationRunning) && !errors.Is(err, ErrExpirationLocked) {
			logrus.WithError(err).Error("Erro na expiração agendada de propostas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar expiração de propostas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *ProposalExpirationService) Stop() {
	if s.scheduler.IsRunning() {
		logrus.Info("Parando agendador de expiração de propostas")
		s.scheduler.Stop()
	}
}

// Run executa uma varredura agora. Usado pelo cron e pelo gatilho HTTP.
func (s *ProposalExpirationService) Run(ctx context.Context) (*domain.ExpirationSummary, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Expiração de propostas já em andamento, ignorando")
		return nil, ErrExpirationRunning
	}
	s.syncRunning = true
	startedAt := s.now()
	s.lastStartedAt = &startedAt
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, ProposalExpirationLockKey, s.config.LockTTL)
		if err != nil {
			s.finish(nil, err)
			return nil, fmt.Errorf("erro ao obter lock da expiração de propostas: %w", err)
		}
		if !ok {
			logrus.Info("Expiração de propostas em execução em outra instância, ignorando")
			return nil, ErrExpirationLocked
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				logrus.WithError(err).Warn("Erro ao liberar lock da expiração de propostas")
			}
		}()
	}

	logrus.Info("Iniciando expiração de propostas vencidas")

	summary, err := s.expirer.ExpireOverdue(ctx, startedAt)
	s.finish(summary, err)
	if err != nil {
		return summary, err
	}

	logrus.WithFields(logrus.Fields{
		"duration": s.now().Sub(startedAt).String(),
		"total":    summary.Total,
		"expired":  summary.Expired,
		"errors":   summary.Errors,
	}).Info("Expiração de propostas concluída")

	return summary, nil
}

func (s *ProposalExpirationService) finish(summary *domain.ExpirationSummary, err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	completedAt := s.now()
	s.lastCompletedAt = &completedAt
	if summary != nil {
		s.lastSummary = summary
	}
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
}

// GetStatus retorna o status atual do agendador
func (s *ProposalExpirationService) GetStatus() ExpirationStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return ExpirationStatus{
		Enabled:         s.config.Enabled,
		CronSchedule:    s.config.CronSchedule,
		Running:         s.syncRunning,
		LastStartedAt:   s.lastStartedAt,
		LastCompletedAt: s.lastCompletedAt,
		LastSummary:     s.lastSummary,
		LastError:       s.lastError,
	}
}
