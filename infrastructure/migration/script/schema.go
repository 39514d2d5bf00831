package main

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type statement struct {
	Name  string
	Query string
}

var schema = []statement{
	{"agencies", `
		CREATE TABLE IF NOT EXISTS agencies (
			id         VARCHAR(64) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(64) PRIMARY KEY,
			agency_id     VARCHAR(64) NOT NULL REFERENCES agencies(id),
			name          VARCHAR(255) NOT NULL,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role          VARCHAR(20) NOT NULL DEFAULT 'AGENT',
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			deleted_at    TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"clients", `
		CREATE TABLE IF NOT EXISTS clients (
			id            VARCHAR(64) PRIMARY KEY,
			agency_id     VARCHAR(64) NOT NULL REFERENCES agencies(id),
			name          VARCHAR(255) NOT NULL,
			email         VARCHAR(255),
			phone         VARCHAR(50),
			jornada_stage VARCHAR(30) NOT NULL DEFAULT 'novo_lead',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"funnels", `
		CREATE TABLE IF NOT EXISTS funnels (
			id         VARCHAR(64) PRIMARY KEY,
			agency_id  VARCHAR(64) NOT NULL REFERENCES agencies(id),
			name       VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"funnel_stages", `
		CREATE TABLE IF NOT EXISTS funnel_stages (
			id           VARCHAR(64) PRIMARY KEY,
			funnel_id    VARCHAR(64) NOT NULL REFERENCES funnels(id) ON DELETE CASCADE,
			name         VARCHAR(255) NOT NULL,
			position     INTEGER NOT NULL,
			is_post_sale BOOLEAN NOT NULL DEFAULT FALSE
		)`},
	{"proposals", `
		CREATE TABLE IF NOT EXISTS proposals (
			id                 VARCHAR(64) PRIMARY KEY,
			agency_id          VARCHAR(64) NOT NULL REFERENCES agencies(id),
			proposal_number    VARCHAR(20) NOT NULL,
			title              VARCHAR(255) NOT NULL,
			status             VARCHAR(30) NOT NULL DEFAULT 'DRAFT',
			client_id          VARCHAR(64) NOT NULL REFERENCES clients(id),
			operator_id        VARCHAR(64),
			user_id            VARCHAR(64) NOT NULL REFERENCES users(id),
			funnel_id          VARCHAR(64) REFERENCES funnels(id),
			funnel_stage_id    VARCHAR(64) REFERENCES funnel_stages(id),
			subtotal           NUMERIC(14,2) NOT NULL DEFAULT 0,
			discount_amount    NUMERIC(14,2) NOT NULL DEFAULT 0,
			discount_percent   NUMERIC(5,2) NOT NULL DEFAULT 0,
			total_amount       NUMERIC(14,2) NOT NULL DEFAULT 0,
			commission_amount  NUMERIC(14,2) NOT NULL DEFAULT 0,
			commission_percent NUMERIC(5,2) NOT NULL DEFAULT 0,
			currency           VARCHAR(3) NOT NULL DEFAULT 'BRL',
			valid_until        TIMESTAMPTZ,
			notes              TEXT,
			sent_at            TIMESTAMPTZ,
			decided_at         TIMESTAMPTZ,
			deleted_at         TIMESTAMPTZ,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT proposals_agency_number_unique UNIQUE (agency_id, proposal_number)
		)`},
	{"proposals_status_valid_until_idx", `
		CREATE INDEX IF NOT EXISTS proposals_status_valid_until_idx
			ON proposals (status, valid_until)
			WHERE deleted_at IS NULL`},
	{"proposal_items", `
		CREATE TABLE IF NOT EXISTS proposal_items (
			id            VARCHAR(64) PRIMARY KEY,
			proposal_id   VARCHAR(64) NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
			description   VARCHAR(500) NOT NULL,
			quantity      INTEGER NOT NULL DEFAULT 1,
			unit_price    NUMERIC(14,2) NOT NULL DEFAULT 0,
			subtotal      NUMERIC(14,2) NOT NULL DEFAULT 0,
			custom_fields JSONB,
			position      INTEGER NOT NULL DEFAULT 0
		)`},
	{"proposal_status_history", `
		CREATE TABLE IF NOT EXISTS proposal_status_history (
			id          VARCHAR(64) PRIMARY KEY,
			proposal_id VARCHAR(64) NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
			from_status VARCHAR(30),
			to_status   VARCHAR(30) NOT NULL,
			changed_by  VARCHAR(64) NOT NULL,
			reason      TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"bookings", `
		CREATE TABLE IF NOT EXISTS bookings (
			id              VARCHAR(64) PRIMARY KEY,
			agency_id       VARCHAR(64) NOT NULL REFERENCES agencies(id),
			proposal_id     VARCHAR(64) NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
			booking_number  VARCHAR(20) NOT NULL,
			status          VARCHAR(30) NOT NULL DEFAULT 'pending_documents',
			client_id       VARCHAR(64) NOT NULL REFERENCES clients(id),
			user_id         VARCHAR(64) NOT NULL REFERENCES users(id),
			funnel_stage_id VARCHAR(64) REFERENCES funnel_stages(id),
			metadata        JSONB,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT bookings_proposal_unique UNIQUE (proposal_id)
		)`},
	{"activity_logs", `
		CREATE TABLE IF NOT EXISTS activity_logs (
			id          VARCHAR(64) PRIMARY KEY,
			user_id     VARCHAR(64) NOT NULL,
			agency_id   VARCHAR(64) NOT NULL,
			type        VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			metadata    JSONB,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"activity_logs_agency_idx", `
		CREATE INDEX IF NOT EXISTS activity_logs_agency_idx
			ON activity_logs (agency_id, created_at DESC)`},
}

// column adicionada depois da criação da tabela em bases já existentes
type column struct {
	Table      string
	Name       string
	Definition string
}

var columns = []column{
	// desempate de ordem no histórico quando dois registros têm o mesmo created_at
	{"proposal_status_history", "seq", "BIGSERIAL"},
}

func createSchema(ctx context.Context, tx *sql.Tx) error {
	for _, st := range schema {
		logrus.WithField("objeto", st.Name).Debug("Aplicando DDL")

		if _, err := tx.ExecContext(ctx, st.Query); err != nil {
			return errors.Wrapf(err, "erro ao criar %s", st.Name)
		}
	}

	for _, c := range columns {
		if err := ensureColumn(ctx, tx, c); err != nil {
			return err
		}
	}

	logrus.WithField("objetos", len(schema)).Info("Esquema aplicado")
	return nil
}

func ensureColumn(ctx context.Context, tx *sql.Tx, c column) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = $1
			AND column_name = $2
		)`, c.Table, c.Name).Scan(&exists)
	if err != nil {
		return errors.Wrapf(err, "erro ao verificar coluna %s.%s", c.Table, c.Name)
	}

	if exists {
		logrus.Infof("Coluna %s já existe na tabela %s", c.Name, c.Table)
		return nil
	}

	if _, err := tx.ExecContext(ctx, "ALTER TABLE "+c.Table+" ADD COLUMN "+c.Name+" "+c.Definition); err != nil {
		return errors.Wrapf(err, "erro ao adicionar coluna %s.%s", c.Table, c.Name)
	}

	logrus.Infof("Coluna %s adicionada na tabela %s", c.Name, c.Table)
	return nil
}
