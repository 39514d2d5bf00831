package repository

//go:generate mockgen -source=activity_log.go -destination=mocks/activity_log_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vfg2006/agency-crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/agency-crm-api/internal/domain"
)

const activityLogsTable = "activity_logs"

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
}

type activityLogRepository struct {
	db postgres.Queryer
}

func NewActivityLogRepository(db postgres.Queryer) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return errors.Wrap(err, "erro ao serializar metadata da atividade")
	}

	query, args, err := squirrel.
		Insert(activityLogsTable).
		Columns("id", "user_id", "agency_id", "type", "description", "metadata", "created_at").
		Values(entry.ID, entry.UserID, entry.AgencyID, entry.Type, entry.Description, metadata, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir inserção de atividade")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao registrar atividade")
	}

	return nil
}
