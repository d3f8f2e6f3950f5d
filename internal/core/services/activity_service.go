package services

import (
	"context"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/google/uuid"
)

// newActivityLog builds an audit entry. Writers append it inside the unit of
// work of the change it describes.
func newActivityLog(actorID, action, entityType, entityID string, details map[string]any, now time.Time) domain.ActivityLog {
	return domain.ActivityLog{
		ActivityID: uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  now,
	}
}

type activityService struct {
	BaseService
	activityRepo portsrepo.ActivityLogRepositoryFacade
}

func NewActivityService(repo portsrepo.ActivityLogRepositoryFacade) portssvc.ActivitySvcFacade {
	return &activityService{BaseService: newBaseService(), activityRepo: repo}
}

var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

// ListActivityLogs retrieves a page of audit entries, newest first.
func (s *activityService) ListActivityLogs(ctx context.Context, params dto.ListActivityLogsParams) (*dto.ListActivityLogsResponse, error) {
	logs, nextToken, err := s.activityRepo.ListActivityLogs(ctx, params.Limit, params.NextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list activity logs")
		return nil, err
	}
	return &dto.ListActivityLogsResponse{ActivityLogs: logs, NextToken: nextToken}, nil
}
