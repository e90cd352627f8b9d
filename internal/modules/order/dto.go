package order

type CreateOrderRequest struct {
	ArtworkID int64 `json:"artwork_id" binding:"required,gt=0"`
}
