package artwork

import "errors"

var (
	ErrArtworkNotFound = errors.New("artwork not found")
	ErrForbidden       = errors.New("not allowed to modify this artwork")
	ErrNotAnArtist     = errors.New("only artists can publish artworks")
	ErrInvalidComment  = errors.New("comment must be 1-1000 characters")
	ErrInvalidSort     = errors.New("unknown sort order")
	ErrImageRequired   = errors.New("image is required")
	ErrNothingToUpdate = errors.New("no fields to update")
)
