package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App                App                `mapstructure:",squash"`
	Server             Server             `mapstructure:",squash"`
	Database           Database           `mapstructure:",squash"`
	Auth               Auth               `mapstructure:",squash"`
	RateLimit          RateLimit          `mapstructure:",squash"`
	Redis              Redis              `mapstructure:",squash"`
	ProposalExpiration ProposalExpiration `mapstructure:",squash"`
	Cron               Cron               `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

type Auth struct {
	Secret   string        `mapstructure:"auth_secret"`
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
}

// RateLimit define o backend do limitador e as regras de cada ação.
// Backend aceita "memory" (por processo) ou "redis" (compartilhado entre instâncias).
type RateLimit struct {
	Backend          string        `mapstructure:"rate_limit_backend"`
	CleanupInterval  time.Duration `mapstructure:"rate_limit_cleanup_interval"`
	SignInAttempts   int           `mapstructure:"rate_limit_signin_attempts"`
	SignInWindow     time.Duration `mapstructure:"rate_limit_signin_window"`
	SignUpAttempts   int           `mapstructure:"rate_limit_signup_attempts"`
	SignUpWindow     time.Duration `mapstructure:"rate_limit_signup_window"`
	MutationAttempts int           `mapstructure:"rate_limit_mutation_attempts"`
	MutationWindow   time.Duration `mapstructure:"rate_limit_mutation_window"`
}

type Redis struct {
	Enabled  bool   `mapstructure:"redis_enabled"`
	Address  string `mapstructure:"redis_address"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type ProposalExpiration struct {
	CronSchedule string        `mapstructure:"proposal_expiration_cron"`
	Enabled      bool          `mapstructure:"proposal_expiration_enabled"`
	LockTTL      time.Duration `mapstructure:"proposal_expiration_lock_ttl"`
}

// Cron guarda o segredo compartilhado usado pelo gatilho HTTP dos jobs
type Cron struct {
	Secret string `mapstructure:"cron_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/agency_crm?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("RATE_LIMIT_BACKEND", "memory")
	viper.SetDefault("RATE_LIMIT_CLEANUP_INTERVAL", "60s")
	viper.SetDefault("RATE_LIMIT_SIGNIN_ATTEMPTS", 5)
	viper.SetDefault("RATE_LIMIT_SIGNIN_WINDOW", "10m")
	viper.SetDefault("RATE_LIMIT_SIGNUP_ATTEMPTS", 3)
	viper.SetDefault("RATE_LIMIT_SIGNUP_WINDOW", "1h")
	viper.SetDefault("RATE_LIMIT_MUTATION_ATTEMPTS", 30)
	viper.SetDefault("RATE_LIMIT_MUTATION_WINDOW", "1m")

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDRESS", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("PROPOSAL_EXPIRATION_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("PROPOSAL_EXPIRATION_ENABLED", true)
	viper.SetDefault("PROPOSAL_EXPIRATION_LOCK_TTL", "5m")

	viper.SetDefault("CRON_SECRET", "")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func (c *Config) validate() error {
	switch c.RateLimit.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("rate limit com backend redis exige REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("backend de rate limit desconhecido: %q", c.RateLimit.Backend)
	}

	if c.Cron.Secret == "" {
		logrus.Warn("CRON_SECRET não configurado: o gatilho HTTP de expiração de propostas ficará bloqueado")
	}

	return nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
