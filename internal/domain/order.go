package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

// Order is immutable once written. Amount is the artwork price at purchase
// time and does not follow later price edits.
type Order struct {
	ID        int64       `json:"id"`
	BuyerID   int64       `json:"buyer_id"`
	ArtworkID int64       `json:"artwork_id"`
	Amount    float64     `json:"amount"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`

	ArtworkTitle    string `json:"artwork_title,omitempty"`
	ArtworkImageURL string `json:"artwork_image_url,omitempty"`
	BuyerUsername   string `json:"buyer_username,omitempty"`
}
