package order

import "errors"

var (
	ErrArtworkNotFound  = errors.New("artwork not found")
	ErrNotForSale       = errors.New("artwork is not for sale")
	ErrOwnArtwork       = errors.New("cannot buy your own artwork")
	ErrAlreadyPurchased = errors.New("artwork already purchased")
)
