package artwork

import (
	"context"
	"io"

	"artfolio/internal/domain"
	"artfolio/internal/repository"
	"artfolio/internal/storage"
)

type ArtworkRepository interface {
	Create(ctx context.Context, a *domain.Artwork) error
	GetByID(ctx context.Context, id int64) (*domain.Artwork, error)
	List(ctx context.Context, f repository.ArtworkFilter, limit, offset int) ([]domain.Artwork, int64, error)
	Update(ctx context.Context, id int64, upd repository.ArtworkUpdate) (*domain.Artwork, error)
	SetFlagged(ctx context.Context, id int64, flagged bool) (*domain.Artwork, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, artworkID, userID int64) (bool, error)
	RemoveLike(ctx context.Context, artworkID, userID int64) (bool, error)
	ToggleLike(ctx context.Context, artworkID, userID int64) (bool, error)
	LikeSet(ctx context.Context, artworkID int64) (domain.UserSet, error)
	AddComment(ctx context.Context, c *domain.Comment) error
	ListComments(ctx context.Context, artworkID int64) ([]domain.Comment, error)
}

type UserReader interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}

type ImageStore interface {
	Save(ctx context.Context, r io.Reader, size int64) (*storage.StoredImage, error)
	Remove(ctx context.Context, key string) error
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, typ domain.NotificationType, title, body string, data map[string]any)
}
