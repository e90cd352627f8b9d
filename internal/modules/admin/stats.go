package admin

import (
	"context"

	"artfolio/internal/domain"
)

type artworkCounter interface {
	Counts(ctx context.Context) (total, flagged int64, err error)
}

type orderTotaler interface {
	Totals(ctx context.Context) (int64, float64, error)
}

type commissionCounter interface {
	CountByStatus(ctx context.Context) (map[domain.CommissionStatus]int64, error)
}

// RepositoryStats reads platform counters straight from the repositories.
type RepositoryStats struct {
	Artworks    artworkCounter
	Orders      orderTotaler
	Commissions commissionCounter
}

func (r RepositoryStats) ArtworkCounts(ctx context.Context) (int64, int64, error) {
	return r.Artworks.Counts(ctx)
}

func (r RepositoryStats) OrderTotals(ctx context.Context) (int64, float64, error) {
	return r.Orders.Totals(ctx)
}

func (r RepositoryStats) CommissionsByStatus(ctx context.Context) (map[domain.CommissionStatus]int64, error) {
	return r.Commissions.CountByStatus(ctx)
}
