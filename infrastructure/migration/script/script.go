package main

import (
	"context"
	"database/sql"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/config"
)

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de migração...")
}

func main() {
	withSeed := flag.Bool("seed", false, "cria agência, usuário DEVELOPER, cliente e funil de desenvolvimento")
	agencyName := flag.String("agency", "Agência Dev", "nome da agência do seed")
	email := flag.String("email", "dev@agencia.local", "e-mail do usuário DEVELOPER do seed")
	password := flag.String("password", "Dev@12345", "senha do usuário DEVELOPER do seed")
	flag.Parse()

	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logrus.Info("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	startTime := time.Now()

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := createSchema(ctx, tx); err != nil {
			return err
		}

		if !*withSeed {
			return nil
		}

		return seed(ctx, tx, seedInput{
			AgencyName: *agencyName,
			Email:      *email,
			Password:   *password,
		})
	})
	if err != nil {
		logrus.WithError(err).Fatal("Migração revertida")
	}

	logrus.Infof("Migração concluída em %v!", time.Since(startTime))
}
