package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/redisdb"
	"github.com/vfg2006/agency-crm-api/infrastructure/repository"
	"github.com/vfg2006/agency-crm-api/internal/api"
	"github.com/vfg2006/agency-crm-api/internal/config"
	"github.com/vfg2006/agency-crm-api/internal/scheduler"
	"github.com/vfg2006/agency-crm-api/internal/usecases/authenticating"
	"github.com/vfg2006/agency-crm-api/internal/usecases/booking"
	"github.com/vfg2006/agency-crm-api/internal/usecases/proposing"
	"github.com/vfg2006/agency-crm-api/pkg/action"
	"github.com/vfg2006/agency-crm-api/pkg/ratelimit"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisdb.NewClient(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
		}
		defer redisClient.Close()
	}

	repos := repository.NewRepositories(pgConn)
	uow := repository.NewUnitOfWork(pgConn)

	authenticator := authenticating.NewService(uow, repos.Users, cfg)
	bookingService := booking.NewService(repos.Bookings)
	proposalService := proposing.NewService(uow, repos, bookingService)

	limiter := newLimiter(ctx, cfg, redisClient)

	// Lock distribuído só quando há Redis; com uma instância basta o guard do processo
	var locker scheduler.Locker
	if redisClient != nil {
		locker = redisdb.NewLocker(redisClient)
	}

	expirationService := scheduler.NewProposalExpirationService(proposalService, locker, cfg)
	if err := expirationService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de expiração de propostas")
	} else {
		logrus.Info("Agendador de expiração de propostas iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Proposals:     proposalService,
		Bookings:      bookingService,
		ExpirationJob: expirationService,
		Database:      pgConn,
		Actions: action.Dependencies{
			Limiter:  limiter,
			Activity: repos.ActivityLogs,
			Rules:    rateLimitRules(cfg.RateLimit),
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

func newLimiter(ctx context.Context, cfg *config.Config, redisClient *redis.Client) ratelimit.Limiter {
	if cfg.RateLimit.Backend == "redis" && redisClient != nil {
		logrus.Info("Rate limit compartilhado via Redis")
		return ratelimit.NewRedisLimiter(redisClient)
	}

	limiter := ratelimit.NewMemoryLimiter()
	if err := limiter.StartCleanup(ctx, cfg.RateLimit.CleanupInterval); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar limpeza do rate limit")
	}

	logrus.Info("Rate limit em memória")
	return limiter
}

func rateLimitRules(cfg config.RateLimit) ratelimit.Rules {
	rules := ratelimit.DefaultRules()

	if cfg.SignInAttempts > 0 {
		rules.SignIn.Attempts, rules.SignIn.Window = cfg.SignInAttempts, cfg.SignInWindow
	}
	if cfg.SignUpAttempts > 0 {
		rules.SignUp.Attempts, rules.SignUp.Window = cfg.SignUpAttempts, cfg.SignUpWindow
	}
	if cfg.MutationAttempts > 0 {
		rules.Mutation.Attempts, rules.Mutation.Window = cfg.MutationAttempts, cfg.MutationWindow
	}

	return rules
}
