package models

import "time"

// ActivityLog is a row of activity_logs. Details is stored as JSONB.
type ActivityLog struct {
	ActivityID string    `db:"activity_id"`
	ActorID    string    `db:"actor_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Details    []byte    `db:"details"`
	CreatedAt  time.Time `db:"created_at"`
}
