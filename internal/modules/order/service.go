package order

import (
	"context"
	"errors"
	"fmt"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/metrics"
	"artfolio/internal/pkg/utils"
	"artfolio/internal/repository"

	"github.com/sirupsen/logrus"
)

type Service struct {
	orders          OrderRepository
	artworks        ArtworkReader
	notifier        Notifier
	allowDuplicates bool
}

// NewService builds the order ledger. allowDuplicates controls whether a
// buyer may purchase the same artwork more than once.
func NewService(orders OrderRepository, artworks ArtworkReader, notifier Notifier, allowDuplicates bool) *Service {
	return &Service{orders: orders, artworks: artworks, notifier: notifier, allowDuplicates: allowDuplicates}
}

// Create records a completed purchase. The amount is the artwork price at
// this moment and never follows later price edits.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateOrderRequest) (*domain.Order, error) {
	a, err := s.artworks.GetByID(ctx, req.ArtworkID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrArtworkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load artwork: %w", err)
	}
	if !a.Purchasable() {
		return nil, ErrNotForSale
	}
	if a.ArtistID == actor.ID {
		return nil, ErrOwnArtwork
	}

	// TODO: back the duplicate check with a unique (buyer_id, artwork_id)
	// index when duplicates are disabled; two concurrent purchases can
	// both pass this read.
	if !s.allowDuplicates {
		exists, err := s.orders.ExistsForBuyer(ctx, actor.ID, a.ID)
		if err != nil {
			return nil, fmt.Errorf("check previous purchase: %w", err)
		}
		if exists {
			return nil, ErrAlreadyPurchased
		}
	}

	o := &domain.Order{
		BuyerID:   actor.ID,
		ArtworkID: a.ID,
		Amount:    a.Price,
		Status:    domain.OrderCompleted,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	o.ArtworkTitle = a.Title
	o.ArtworkImageURL = a.ImageURL

	metrics.OrdersCreated.Inc()
	metrics.OrderVolume.Add(o.Amount)

	if s.notifier != nil {
		s.notifier.Notify(ctx, a.ArtistID, domain.NotifArtworkSold,
			"Your artwork \""+a.Title+"\" was sold", "",
			map[string]any{"order_id": o.ID, "artwork_id": a.ID, "amount": o.Amount, "buyer_id": actor.ID})
	}

	logrus.WithFields(logrus.Fields{
		"order_id":   o.ID,
		"artwork_id": a.ID,
		"buyer_id":   actor.ID,
		"amount":     o.Amount,
	}).Info("order created")
	return o, nil
}

func (s *Service) MyOrders(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	items, err := s.orders.ListByBuyer(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return items, nil
}

func (s *Service) SalesHistory(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	items, err := s.orders.ListSalesByArtist(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return items, nil
}

// ListAll is the platform-wide ledger for moderation.
func (s *Service) ListAll(ctx context.Context, page utils.Pagination) ([]domain.Order, int64, error) {
	items, total, err := s.orders.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return items, total, nil
}
