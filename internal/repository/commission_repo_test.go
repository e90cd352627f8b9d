package repository

import (
	"context"
	"testing"

	"artfolio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionRepository_CompareAndSet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewCommissionRepository(db)

	artist := createUser(t, users, "artist", domain.RoleArtist)
	visitor := createUser(t, users, "visitor", domain.RoleVisitor)

	c := &domain.Commission{RequesterID: visitor.ID, ArtistID: artist.ID, Brief: "a portrait of my cat", Status: domain.CommissionPending}
	require.NoError(t, repo.Create(ctx, c))
	assert.NotZero(t, c.ID)
	assert.Nil(t, c.Price)

	accepted := domain.CommissionAccepted
	price := 250.0
	updated, err := repo.Update(ctx, c.ID, domain.CommissionPending, CommissionUpdate{Status: &accepted, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionAccepted, updated.Status)
	require.NotNil(t, updated.Price)
	assert.Equal(t, 250.0, *updated.Price)

	// A writer that still believes the commission is pending loses.
	rejected := domain.CommissionRejected
	_, err = repo.Update(ctx, c.ID, domain.CommissionPending, CommissionUpdate{Status: &rejected})
	assert.ErrorIs(t, err, ErrStaleState)

	_, err = repo.Update(ctx, 999, domain.CommissionPending, CommissionUpdate{Status: &rejected})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommissionRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewCommissionRepository(db)

	artist := createUser(t, users, "artist", domain.RoleArtist)
	other := createUser(t, users, "other", domain.RoleArtist)
	visitor := createUser(t, users, "visitor", domain.RoleVisitor)

	for _, target := range []int64{artist.ID, artist.ID, other.ID} {
		require.NoError(t, repo.Create(ctx, &domain.Commission{
			RequesterID: visitor.ID, ArtistID: target, Brief: "landscape please", Status: domain.CommissionPending,
		}))
	}

	inbox, total, err := repo.List(ctx, CommissionFilter{ArtistID: artist.ID}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, inbox, 2)

	mine, _, err := repo.List(ctx, CommissionFilter{RequesterID: visitor.ID, Status: domain.CommissionPending}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[domain.CommissionPending])
	assert.EqualValues(t, 0, counts[domain.CommissionCompleted])
}
