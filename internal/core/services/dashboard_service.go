package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
)

const (
	dashboardTopProducts  = 5
	dashboardRecentOrders = 5
)

type dashboardService struct {
	BaseService
	dashboardRepo portsrepo.DashboardReader
	ttl           time.Duration
}

func NewDashboardService(repo portsrepo.DashboardReader, ttl time.Duration, base BaseService) portssvc.DashboardSvcFacade {
	return &dashboardService{BaseService: base, dashboardRepo: repo, ttl: ttl}
}

var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

// GetSummary serves the cached summary when present and recomputes it otherwise.
// Cache failures fall through to the database.
func (s *dashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	if s.DashboardCache != nil && s.ttl > 0 {
		cached, ok, err := s.DashboardCache.Get(ctx, dashboardCacheKey)
		if err != nil {
			s.LogWarn(ctx, err, "Failed to read dashboard cache")
		} else if ok {
			s.LogDebug(ctx, "Dashboard served from cache")
			return cached, nil
		}
	}

	summary, err := s.dashboardRepo.GetDashboardSummary(ctx, dashboardTopProducts, dashboardRecentOrders)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute dashboard summary")
		return nil, err
	}

	if s.DashboardCache != nil && s.ttl > 0 {
		if err := s.DashboardCache.Set(ctx, dashboardCacheKey, summary, s.ttl); err != nil {
			s.LogWarn(ctx, err, "Failed to cache dashboard summary", slog.Duration("ttl", s.ttl))
		}
	}
	return summary, nil
}
