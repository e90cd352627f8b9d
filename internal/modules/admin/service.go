package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artfolio/internal/domain"
	"artfolio/internal/modules/artwork"
	"artfolio/internal/modules/commission"
	"artfolio/internal/pkg/utils"
	"artfolio/internal/repository"

	"github.com/sirupsen/logrus"
)

const statsCacheKey = "admin:stats"

type Deps struct {
	Users       UserRepository
	Artworks    ArtworkModerator
	Orders      OrderLister
	Commissions CommissionLister
	Stats       StatsSource
	Cache       StatsCache
	StatsTTL    time.Duration
}

type Service struct {
	users       UserRepository
	artworks    ArtworkModerator
	orders      OrderLister
	commissions CommissionLister
	stats       StatsSource
	cache       StatsCache
	statsTTL    time.Duration
}

func NewService(d Deps) *Service {
	return &Service{
		users:       d.Users,
		artworks:    d.Artworks,
		orders:      d.Orders,
		commissions: d.Commissions,
		stats:       d.Stats,
		cache:       d.Cache,
		statsTTL:    d.StatsTTL,
	}
}

// -------------------- Statistics --------------------

// GetStatistics serves from the cache when one is configured and the ttl is
// positive. Cache errors fall through to the database.
func (s *Service) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	if s.cacheEnabled() {
		var cached StatisticsResponse
		hit, err := s.cache.Get(ctx, statsCacheKey, &cached)
		if err != nil {
			logrus.WithError(err).Warn("stats cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	banned, err := s.users.CountBanned(ctx)
	if err != nil {
		return nil, fmt.Errorf("count banned users: %w", err)
	}
	totalArtworks, flagged, err := s.stats.ArtworkCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count artworks: %w", err)
	}
	orderCount, volume, err := s.stats.OrderTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum orders: %w", err)
	}
	byStatus, err := s.stats.CommissionsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count commissions: %w", err)
	}

	out := &StatisticsResponse{
		Users:       UserStats{Banned: banned, ByRole: byRole},
		Artworks:    ArtworkStats{Total: totalArtworks, Flagged: flagged},
		Orders:      OrderStats{Count: orderCount, Volume: volume},
		Commissions: CommissionStats{ByStatus: byStatus},
	}
	for _, n := range byRole {
		out.Users.Total += n
	}
	for _, n := range byStatus {
		out.Commissions.Total += n
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, statsCacheKey, out, s.statsTTL); err != nil {
			logrus.WithError(err).Warn("stats cache write failed")
		}
	}
	return out, nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.statsTTL > 0
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		logrus.WithError(err).Warn("stats cache invalidation failed")
	}
}

// -------------------- Users moderation --------------------

func (s *Service) ListUsers(ctx context.Context, filter UserListFilter, page utils.Pagination) ([]domain.User, int64, error) {
	f := repository.UserFilter{Banned: filter.Banned, Query: strings.TrimSpace(filter.Query)}
	if filter.Role != "" {
		role := domain.UserRole(strings.ToLower(filter.Role))
		if !role.Valid() {
			return nil, 0, ErrInvalidRole
		}
		f.Role = role
	}

	items, total, err := s.users.List(ctx, f, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return items, total, nil
}

// SetBanned writes the ban flag explicitly. Admins cannot ban themselves or
// other admins; unbanning has no such restriction.
func (s *Service) SetBanned(ctx context.Context, actor domain.Actor, userID int64, banned bool) (*domain.User, error) {
	target, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if banned && (target.ID == actor.ID || target.IsAdmin()) {
		return nil, ErrCannotBan
	}

	u, err := s.users.SetBanned(ctx, userID, banned)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set banned: %w", err)
	}
	s.invalidateStats(ctx)

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"admin_id": actor.ID,
		"banned":   banned,
	}).Info("user ban state changed")
	return u, nil
}

// -------------------- Artworks moderation --------------------

func (s *Service) ListArtworks(ctx context.Context, flagged *bool, page utils.Pagination) (*artwork.ListResult, error) {
	return s.artworks.ListForModeration(ctx, flagged, page)
}

func (s *Service) SetArtworkFlagged(ctx context.Context, actor domain.Actor, id int64, flagged bool) (*domain.Artwork, error) {
	a, err := s.artworks.SetFlagged(ctx, id, flagged)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	logrus.WithFields(logrus.Fields{
		"artwork_id": id,
		"admin_id":   actor.ID,
		"flagged":    flagged,
	}).Info("artwork flag changed")
	return a, nil
}

func (s *Service) DeleteArtwork(ctx context.Context, actor domain.Actor, id int64) error {
	if err := s.artworks.Delete(ctx, actor, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// -------------------- Ledgers --------------------

func (s *Service) ListOrders(ctx context.Context, page utils.Pagination) ([]domain.Order, int64, error) {
	return s.orders.ListAll(ctx, page)
}

func (s *Service) ListCommissions(ctx context.Context, actor domain.Actor, status string, page utils.Pagination) (*commission.ListResult, error) {
	return s.commissions.ListAll(ctx, actor, status, page)
}
