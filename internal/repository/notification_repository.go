package repository

import (
	"context"
	"encoding/json"

	"jobboard/internal/database"
	"jobboard/internal/domain/notification"

	"github.com/google/uuid"
)

// NotificationRepository is append-only.
type NotificationRepository interface {
	Insert(ctx context.Context, n notification.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error)
}

type PostgresNotificationRepository struct {
	db database.Querier
}

func NewPostgresNotificationRepository(db database.Querier) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Insert(ctx context.Context, n notification.Notification) error {
	var metadata []byte
	if len(n.Metadata) > 0 {
		b, err := json.Marshal(n.Metadata)
		if err != nil {
			return err
		}
		metadata = b
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, metadata, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, metadata, n.IsRead, n.CreatedAt,
	)
	return err
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, title, message, metadata, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		userID, ClampLimit(limit, 50, 200),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		var metadata []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &metadata, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
