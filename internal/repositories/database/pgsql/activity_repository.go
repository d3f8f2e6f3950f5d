package pgsql

import (
	"context"
	"fmt"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/beanline/coffee_backoffice/internal/models"
	"github.com/beanline/coffee_backoffice/internal/utils/mapping"
	"github.com/beanline/coffee_backoffice/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxActivityLogRepository struct {
	db querier
}

func newPgxActivityLogRepository(db querier) *PgxActivityLogRepository {
	return &PgxActivityLogRepository{db: db}
}

var _ portsrepo.ActivityLogRepositoryFacade = (*PgxActivityLogRepository)(nil)

const activityColumns = `activity_id, actor_id, action, entity_type, entity_id, details, created_at`

func (r *PgxActivityLogRepository) AppendActivityLog(ctx context.Context, entry domain.ActivityLog) error {
	m, err := mapping.ToModelActivityLog(entry)
	if err != nil {
		return err
	}
	query := `INSERT INTO activity_logs (` + activityColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	if _, err := r.db.Exec(ctx, query, m.ActivityID, m.ActorID, m.Action, m.EntityType, m.EntityID, m.Details, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}

// ListActivityLogs retrieves a page of audit entries, newest first.
func (r *PgxActivityLogRepository) ListActivityLogs(ctx context.Context, limit int, nextToken *string) ([]domain.ActivityLog, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	fetchLimit := limit + 1

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query := `
			SELECT ` + activityColumns + `
			FROM activity_logs
			WHERE (created_at, activity_id) < ($1, $2)
			ORDER BY created_at DESC, activity_id DESC
			LIMIT $3;
		`
		rows, err = r.db.Query(ctx, query, cursor.CreatedAt, cursor.ID, fetchLimit)
	} else {
		query := `
			SELECT ` + activityColumns + `
			FROM activity_logs
			ORDER BY created_at DESC, activity_id DESC
			LIMIT $1;
		`
		rows, err = r.db.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query activity logs", err)
	}
	defer rows.Close()

	logs := make([]domain.ActivityLog, 0, fetchLimit)
	for rows.Next() {
		var m models.ActivityLog
		if err := rows.Scan(&m.ActivityID, &m.ActorID, &m.Action, &m.EntityType, &m.EntityID, &m.Details, &m.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		d, err := mapping.ToDomainActivityLog(m)
		if err != nil {
			return nil, nil, err
		}
		logs = append(logs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating activity logs: %w", err)
	}

	page, token := pagination.Page(logs, limit, func(l domain.ActivityLog) pagination.Cursor {
		return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ActivityID}
	})
	return page, token, nil
}
