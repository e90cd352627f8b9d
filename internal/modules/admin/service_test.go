package admin

import (
	"context"
	"testing"
	"time"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/utils"
	"artfolio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ==================== MOCKS ==================== */

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilter, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, f, limit, offset)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) SetBanned(ctx context.Context, id int64, banned bool) (*domain.User, error) {
	args := m.Called(ctx, id, banned)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context) (map[domain.UserRole]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.UserRole]int64), args.Error(1)
}

func (m *MockUserRepository) CountBanned(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockStats struct {
	mock.Mock
}

func (m *MockStats) ArtworkCounts(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockStats) OrderTotals(ctx context.Context) (int64, float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(float64), args.Error(2)
}

func (m *MockStats) CommissionsByStatus(ctx context.Context) (map[domain.CommissionStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.CommissionStatus]int64), args.Error(1)
}

// memoryCache is a StatsCache that stores the last value by pointer.
type memoryCache struct {
	values  map[string]*StatisticsResponse
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]*StatisticsResponse{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	*dest.(*StatisticsResponse) = *v
	return true, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.values[key] = value.(*StatisticsResponse)
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	c.deletes++
	return nil
}

func expectStats(users *MockUserRepository, stats *MockStats) {
	users.On("CountByRole", mock.Anything).Return(map[domain.UserRole]int64{
		domain.RoleVisitor: 3, domain.RoleArtist: 2, domain.RoleAdmin: 1,
	}, nil)
	users.On("CountBanned", mock.Anything).Return(int64(1), nil)
	stats.On("ArtworkCounts", mock.Anything).Return(int64(7), int64(2), nil)
	stats.On("OrderTotals", mock.Anything).Return(int64(4), 350.5, nil)
	stats.On("CommissionsByStatus", mock.Anything).Return(map[domain.CommissionStatus]int64{
		domain.CommissionPending: 2, domain.CommissionCompleted: 1,
	}, nil)
}

var admin = domain.Actor{ID: 1, Role: domain.RoleAdmin}

/* ==================== TESTS ==================== */

func TestGetStatistics_Aggregates(t *testing.T) {
	users := new(MockUserRepository)
	stats := new(MockStats)
	expectStats(users, stats)
	svc := NewService(Deps{Users: users, Stats: stats})

	out, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), out.Users.Total)
	assert.Equal(t, int64(1), out.Users.Banned)
	assert.Equal(t, int64(2), out.Users.ByRole[domain.RoleArtist])
	assert.Equal(t, ArtworkStats{Total: 7, Flagged: 2}, out.Artworks)
	assert.Equal(t, OrderStats{Count: 4, Volume: 350.5}, out.Orders)
	assert.Equal(t, int64(3), out.Commissions.Total)
}

func TestGetStatistics_CachedUntilModeration(t *testing.T) {
	users := new(MockUserRepository)
	stats := new(MockStats)
	expectStats(users, stats)
	cache := newMemoryCache()
	svc := NewService(Deps{Users: users, Stats: stats, Cache: cache, StatsTTL: time.Minute})
	ctx := context.Background()

	_, err := svc.GetStatistics(ctx)
	require.NoError(t, err)
	_, err = svc.GetStatistics(ctx)
	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "CountByRole", 1)

	target := &domain.User{ID: 9, Role: domain.RoleVisitor}
	users.On("GetByID", mock.Anything, int64(9)).Return(target, nil)
	users.On("SetBanned", mock.Anything, int64(9), true).Return(&domain.User{ID: 9, Banned: true}, nil)
	_, err = svc.SetBanned(ctx, admin, 9, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.deletes)

	_, err = svc.GetStatistics(ctx)
	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "CountByRole", 2)
}

func TestGetStatistics_ZeroTTLSkipsCache(t *testing.T) {
	users := new(MockUserRepository)
	stats := new(MockStats)
	expectStats(users, stats)
	cache := newMemoryCache()
	svc := NewService(Deps{Users: users, Stats: stats, Cache: cache})

	for i := 0; i < 2; i++ {
		_, err := svc.GetStatistics(context.Background())
		require.NoError(t, err)
	}
	users.AssertNumberOfCalls(t, "CountByRole", 2)
	assert.Empty(t, cache.values)
}

func TestSetBanned_Rules(t *testing.T) {
	cases := []struct {
		name    string
		target  *domain.User
		repoErr error
		banned  bool
		wantErr error
	}{
		{name: "self", target: &domain.User{ID: 1, Role: domain.RoleAdmin}, banned: true, wantErr: ErrCannotBan},
		{name: "other admin", target: &domain.User{ID: 2, Role: domain.RoleAdmin}, banned: true, wantErr: ErrCannotBan},
		{name: "missing", repoErr: repository.ErrNotFound, banned: true, wantErr: ErrUserNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(MockUserRepository)
			svc := NewService(Deps{Users: users})
			if tc.target != nil {
				users.On("GetByID", mock.Anything, mock.Anything).Return(tc.target, nil)
			} else {
				users.On("GetByID", mock.Anything, mock.Anything).Return(nil, tc.repoErr)
			}

			_, err := svc.SetBanned(context.Background(), admin, 2, tc.banned)
			assert.ErrorIs(t, err, tc.wantErr)
			users.AssertNotCalled(t, "SetBanned", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSetBanned_IsExplicitState(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(Deps{Users: users})
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleArtist}, nil)
	users.On("SetBanned", mock.Anything, int64(5), true).Return(&domain.User{ID: 5, Banned: true}, nil)

	for i := 0; i < 2; i++ {
		u, err := svc.SetBanned(context.Background(), admin, 5, true)
		require.NoError(t, err)
		assert.True(t, u.Banned)
	}
	users.AssertNumberOfCalls(t, "SetBanned", 2)
}

func TestListUsers_Filters(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(Deps{Users: users})
	banned := true

	users.On("List", mock.Anything, repository.UserFilter{Role: domain.RoleArtist, Banned: &banned, Query: "ann"}, 10, 10).
		Return([]domain.User{{ID: 3}}, int64(11), nil)

	items, total, err := svc.ListUsers(context.Background(),
		UserListFilter{Role: "Artist", Banned: &banned, Query: " ann "}, utils.NewPagination(2, 10))
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(11), total)

	_, _, err = svc.ListUsers(context.Background(), UserListFilter{Role: "owner"}, utils.NewPagination(1, 10))
	assert.ErrorIs(t, err, ErrInvalidRole)
}
