package commission

import (
	"time"

	"artfolio/internal/domain"
)

type CreateCommissionRequest struct {
	ArtistID int64      `json:"artist_id" binding:"required,gt=0"`
	Brief    string     `json:"brief" binding:"required,max=5000"`
	Deadline *time.Time `json:"deadline"`
}

type UpdateCommissionRequest struct {
	Status *string  `json:"status" binding:"omitempty,oneof=pending accepted completed rejected"`
	Price  *float64 `json:"price" binding:"omitempty,gte=0"`
	Notes  *string  `json:"notes" binding:"omitempty,max=5000"`
}

type ListResult struct {
	Items []domain.Commission
	Total int64
	Page  int
	Limit int
}
