package repository

import (
	"context"
	"time"

	"artfolio/internal/domain"

	"gorm.io/gorm"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

type commissionModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	RequesterID int64      `gorm:"column:requester_id;not null;index"`
	ArtistID    int64      `gorm:"column:artist_id;not null;index"`
	Brief       string     `gorm:"column:brief;type:text;not null"`
	Status      string     `gorm:"column:status;size:20;not null;index"`
	Price       *float64   `gorm:"column:price"`
	Deadline    *time.Time `gorm:"column:deadline"`
	Notes       string     `gorm:"column:notes;type:text"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (commissionModel) TableName() string { return "commissions" }

func toDomainCommission(m commissionModel) *domain.Commission {
	return &domain.Commission{
		ID:          m.ID,
		RequesterID: m.RequesterID,
		ArtistID:    m.ArtistID,
		Brief:       m.Brief,
		Status:      domain.CommissionStatus(m.Status),
		Price:       m.Price,
		Deadline:    m.Deadline,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *CommissionRepository) Create(ctx context.Context, c *domain.Commission) error {
	m := commissionModel{
		RequesterID: c.RequesterID,
		ArtistID:    c.ArtistID,
		Brief:       c.Brief,
		Status:      string(c.Status),
		Price:       c.Price,
		Deadline:    c.Deadline,
		Notes:       c.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*c = *toDomainCommission(m)
	return nil
}

func (r *CommissionRepository) GetByID(ctx context.Context, id int64) (*domain.Commission, error) {
	var m commissionModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainCommission(m), nil
}

type CommissionFilter struct {
	ArtistID    int64
	RequesterID int64
	Status      domain.CommissionStatus
}

func (r *CommissionRepository) List(ctx context.Context, f CommissionFilter, limit, offset int) ([]domain.Commission, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&commissionModel{})
		if f.ArtistID > 0 {
			q = q.Where("artist_id = ?", f.ArtistID)
		}
		if f.RequesterID > 0 {
			q = q.Where("requester_id = ?", f.RequesterID)
		}
		if f.Status != "" {
			q = q.Where("status = ?", string(f.Status))
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []commissionModel
	q := scoped().Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Commission, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainCommission(m))
	}
	return out, total, nil
}

type CommissionUpdate struct {
	Status *domain.CommissionStatus
	Price  *float64
	Notes  *string
}

// Update applies upd only if the stored status still equals expected.
// ErrStaleState means another writer changed the status in between.
func (r *CommissionRepository) Update(ctx context.Context, id int64, expected domain.CommissionStatus, upd CommissionUpdate) (*domain.Commission, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Status != nil {
		updates["status"] = string(*upd.Status)
	}
	if upd.Price != nil {
		updates["price"] = *upd.Price
	}
	if upd.Notes != nil {
		updates["notes"] = *upd.Notes
	}

	res := r.db.WithContext(ctx).Model(&commissionModel{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStaleState
	}
	return r.GetByID(ctx, id)
}

func (r *CommissionRepository) CountByStatus(ctx context.Context) (map[domain.CommissionStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&commissionModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := map[domain.CommissionStatus]int64{
		domain.CommissionPending:   0,
		domain.CommissionAccepted:  0,
		domain.CommissionCompleted: 0,
		domain.CommissionRejected:  0,
	}
	for _, row := range rows {
		out[domain.CommissionStatus(row.Status)] = row.Count
	}
	return out, nil
}
