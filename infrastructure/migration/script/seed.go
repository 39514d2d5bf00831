package main

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/infrastructure/repository"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type seedInput struct {
	AgencyName string
	Email      string
	Password   string
}

type stageSeed struct {
	Name       string
	IsPostSale bool
}

var defaultStages = []stageSeed{
	{"Novo contato", false},
	{"Cotação", false},
	{"Proposta enviada", false},
	{"Negociação", false},
	{"Pós-venda", true},
}

// seed cria uma agência de desenvolvimento com usuário DEVELOPER, um cliente e um funil
func seed(ctx context.Context, tx *sql.Tx, in seedInput) error {
	repos := repository.NewRepositories(tx)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return errors.Wrap(err, "erro ao verificar usuário de desenvolvimento")
	}
	if existing != nil {
		logrus.WithField("email", email).Info("Usuário de desenvolvimento já existe, seed ignorado")
		return nil
	}

	agency := &domain.Agency{ID: utils.NewID(), Name: in.AgencyName}
	if err := repos.Agencies.Create(ctx, agency); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "erro ao gerar hash da senha")
	}

	user := &domain.User{
		ID:           utils.NewID(),
		AgencyID:     agency.ID,
		Name:         "Desenvolvedor",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleDeveloper,
		Active:       true,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		return err
	}

	if err := insertClient(ctx, tx, agency.ID); err != nil {
		return err
	}

	if err := insertFunnel(ctx, tx, agency.ID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"agencia": agency.ID,
		"usuario": user.ID,
	}).Info("Seed de desenvolvimento concluído")

	return nil
}

func insertClient(ctx context.Context, tx *sql.Tx, agencyID string) error {
	query, args, err := squirrel.
		Insert("clients").
		Columns("id", "agency_id", "name", "email", "jornada_stage").
		Values(utils.NewID(), agencyID, "Cliente Exemplo", "cliente@exemplo.com", domain.JornadaNovoLead).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir inserção de cliente")
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao inserir cliente")
	}

	return nil
}

func insertFunnel(ctx context.Context, tx *sql.Tx, agencyID string) error {
	funnel := domain.Funnel{ID: utils.NewID(), AgencyID: agencyID, Name: "Funil de vendas"}
	for i, stage := range defaultStages {
		funnel.Stages = append(funnel.Stages, domain.FunnelStage{
			ID:         utils.NewID(),
			FunnelID:   funnel.ID,
			Name:       stage.Name,
			Position:   i,
			IsPostSale: stage.IsPostSale,
		})
	}

	query, args, err := squirrel.
		Insert("funnels").
		Columns("id", "agency_id", "name").
		Values(funnel.ID, funnel.AgencyID, funnel.Name).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir inserção de funil")
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao inserir funil")
	}

	insert := squirrel.
		Insert("funnel_stages").
		Columns("id", "funnel_id", "name", "position", "is_post_sale").
		PlaceholderFormat(squirrel.Dollar)

	for _, stage := range funnel.Stages {
		insert = insert.Values(stage.ID, stage.FunnelID, stage.Name, stage.Position, stage.IsPostSale)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir inserção de etapas")
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao inserir etapas do funil")
	}

	logrus.Infof("Funil criado com %d etapas", len(funnel.Stages))
	return nil
}
