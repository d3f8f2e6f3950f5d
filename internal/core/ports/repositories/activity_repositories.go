package repositories

import (
	"context"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
)

// ActivityLogRepositoryFacade appends and lists audit entries.
type ActivityLogRepositoryFacade interface {
	AppendActivityLog(ctx context.Context, entry domain.ActivityLog) error
	ListActivityLogs(ctx context.Context, limit int, nextToken *string) ([]domain.ActivityLog, *string, error)
}

// DashboardReader computes the back-office rollups.
type DashboardReader interface {
	GetDashboardSummary(ctx context.Context, topProducts int, recentOrders int) (*domain.DashboardSummary, error)
}
