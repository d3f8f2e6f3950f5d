package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/models"
)

// ToModelActivityLog converts a domain ActivityLog to a model row, encoding details as JSON.
func ToModelActivityLog(d domain.ActivityLog) (models.ActivityLog, error) {
	details := d.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return models.ActivityLog{}, fmt.Errorf("encode activity details: %w", err)
	}
	return models.ActivityLog{
		ActivityID: d.ActivityID,
		ActorID:    d.ActorID,
		Action:     d.Action,
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Details:    raw,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// ToDomainActivityLog converts a model row to a domain ActivityLog.
func ToDomainActivityLog(m models.ActivityLog) (domain.ActivityLog, error) {
	d := domain.ActivityLog{
		ActivityID: m.ActivityID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		CreatedAt:  m.CreatedAt,
	}
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &d.Details); err != nil {
			return domain.ActivityLog{}, fmt.Errorf("decode activity details: %w", err)
		}
	}
	return d, nil
}
