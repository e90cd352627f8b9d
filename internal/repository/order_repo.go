package repository

import (
	"context"
	"time"

	"artfolio/internal/domain"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// orderModel has no updated_at: orders are never modified.
type orderModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	BuyerID   int64     `gorm:"column:buyer_id;not null;index"`
	ArtworkID int64     `gorm:"column:artwork_id;not null;index"`
	Amount    float64   `gorm:"column:amount;not null"`
	Status    string    `gorm:"column:status;size:20;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (orderModel) TableName() string { return "orders" }

type orderRow struct {
	ID              int64
	BuyerID         int64
	ArtworkID       int64
	Amount          float64
	Status          string
	CreatedAt       time.Time
	ArtworkTitle    *string
	ArtworkImageURL *string
	BuyerUsername   *string
}

func (row orderRow) toDomain() domain.Order {
	o := domain.Order{
		ID:        row.ID,
		BuyerID:   row.BuyerID,
		ArtworkID: row.ArtworkID,
		Amount:    row.Amount,
		Status:    domain.OrderStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}
	if row.ArtworkTitle != nil {
		o.ArtworkTitle = *row.ArtworkTitle
	}
	if row.ArtworkImageURL != nil {
		o.ArtworkImageURL = *row.ArtworkImageURL
	}
	if row.BuyerUsername != nil {
		o.BuyerUsername = *row.BuyerUsername
	}
	return o
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	m := orderModel{
		BuyerID:   o.BuyerID,
		ArtworkID: o.ArtworkID,
		Amount:    o.Amount,
		Status:    string(o.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	o.ID = m.ID
	o.CreatedAt = m.CreatedAt
	return nil
}

func (r *OrderRepository) ExistsForBuyer(ctx context.Context, buyerID, artworkID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&orderModel{}).
		Where("buyer_id = ? AND artwork_id = ?", buyerID, artworkID).
		Count(&n).Error
	return n > 0, err
}

func (r *OrderRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id, o.buyer_id, o.artwork_id, o.amount, o.status, o.created_at, " +
			"a.title AS artwork_title, a.image_url AS artwork_image_url, u.username AS buyer_username").
		Joins("LEFT JOIN artworks a ON a.id = o.artwork_id").
		Joins("LEFT JOIN users u ON u.id = o.buyer_id")
}

func scanOrders(q *gorm.DB) ([]domain.Order, error) {
	var rows []orderRow
	if err := q.Order("o.created_at DESC, o.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	return scanOrders(r.baseQuery(ctx).Where("o.buyer_id = ?", buyerID))
}

// ListSalesByArtist joins orders to the artworks the artist currently owns.
func (r *OrderRepository) ListSalesByArtist(ctx context.Context, artistID int64) ([]domain.Order, error) {
	return scanOrders(r.baseQuery(ctx).Where("a.artist_id = ?", artistID))
}

func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]domain.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&orderModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items, err := scanOrders(r.baseQuery(ctx).Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Totals returns the number of orders and their summed amount.
func (r *OrderRepository) Totals(ctx context.Context) (int64, float64, error) {
	var row struct {
		Count  int64
		Volume float64
	}
	err := r.db.WithContext(ctx).Model(&orderModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS volume").
		Scan(&row).Error
	return row.Count, row.Volume, err
}
