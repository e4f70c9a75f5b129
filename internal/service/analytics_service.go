package service

import (
	"context"
	"time"

	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/apperror"

	"github.com/shopspring/decimal"
)

const topProductsLimit = 5

type AnalyticsService interface {
	Summary(ctx context.Context, from, to time.Time) (*model.AnalyticsSummary, error)
}

type analyticsService struct {
	repo     repository.AnalyticsRepository
	lowStock decimal.Decimal
}

func NewAnalyticsService(repo repository.AnalyticsRepository, lowStockThreshold int64) AnalyticsService {
	return &analyticsService{repo: repo, lowStock: decimal.NewFromInt(lowStockThreshold)}
}

// Summary aggregates sales between from and to, both inclusive.
func (s *analyticsService) Summary(ctx context.Context, from, to time.Time) (*model.AnalyticsSummary, error) {
	if to.Before(from) {
		return nil, apperror.InvalidArgument("'to' must not be before 'from'")
	}

	revenue, count, items, err := s.repo.SalesTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, from, to, topProductsLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.EntityCounts(ctx, s.lowStock)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []model.ProductRanking{}
	}

	return &model.AnalyticsSummary{
		From:        from,
		To:          to,
		Revenue:     revenue,
		SalesCount:  count,
		ItemsSold:   items,
		Counts:      counts,
		TopProducts: top,
	}, nil
}
