package repository

import (
	"context"
	"fmt"
	"testing"

	"artfolio/internal/domain"

	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repository_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func createUser(t *testing.T, repo *UserRepository, username string, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createArtwork(t *testing.T, repo *ArtworkRepository, artistID int64, title string, price float64) *domain.Artwork {
	t.Helper()
	a := &domain.Artwork{
		ArtistID:  artistID,
		Title:     title,
		Price:     price,
		Category:  "painting",
		IsForSale: true,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}
