package admin

import (
	"context"
	"time"

	"artfolio/internal/domain"
	"artfolio/internal/modules/artwork"
	"artfolio/internal/modules/commission"
	"artfolio/internal/pkg/utils"
	"artfolio/internal/repository"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, f repository.UserFilter, limit, offset int) ([]domain.User, int64, error)
	SetBanned(ctx context.Context, id int64, banned bool) (*domain.User, error)
	CountByRole(ctx context.Context) (map[domain.UserRole]int64, error)
	CountBanned(ctx context.Context) (int64, error)
}

// ArtworkModerator is satisfied by the catalog service so that deletes keep
// cleaning up stored images.
type ArtworkModerator interface {
	ListForModeration(ctx context.Context, flagged *bool, page utils.Pagination) (*artwork.ListResult, error)
	SetFlagged(ctx context.Context, id int64, flagged bool) (*domain.Artwork, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type OrderLister interface {
	ListAll(ctx context.Context, page utils.Pagination) ([]domain.Order, int64, error)
}

type CommissionLister interface {
	ListAll(ctx context.Context, actor domain.Actor, status string, page utils.Pagination) (*commission.ListResult, error)
}

// StatsSource aggregates the counters behind GET /admin/stats.
type StatsSource interface {
	ArtworkCounts(ctx context.Context) (total, flagged int64, err error)
	OrderTotals(ctx context.Context) (count int64, volume float64, err error)
	CommissionsByStatus(ctx context.Context) (map[domain.CommissionStatus]int64, error)
}

type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
