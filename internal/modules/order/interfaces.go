package order

import (
	"context"

	"artfolio/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	ExistsForBuyer(ctx context.Context, buyerID, artworkID int64) (bool, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]domain.Order, error)
	ListSalesByArtist(ctx context.Context, artistID int64) ([]domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, int64, error)
}

type ArtworkReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Artwork, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, typ domain.NotificationType, title, body string, data map[string]any)
}
