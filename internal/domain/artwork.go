package domain

import "time"

type Artwork struct {
	ID           int64     `json:"id"`
	ArtistID     int64     `json:"artist_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	ImageURL     string    `json:"image_url"`
	ImageKey     string    `json:"-"`
	Flagged      bool      `json:"flagged"`
	IsForSale    bool      `json:"is_for_sale"`
	Likes        UserSet   `json:"likes"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	Comments     []Comment `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Artist *User `json:"artist,omitempty"`
}

// VisibleTo hides flagged artworks from everyone but the owner and admins.
func (a *Artwork) VisibleTo(viewer Actor) bool {
	return !a.Flagged || viewer.CanManage(a.ArtistID)
}

// Purchasable reports whether the artwork can be bought right now.
func (a *Artwork) Purchasable() bool {
	return a.IsForSale && !a.Flagged
}

type Comment struct {
	ID        int64     `json:"id"`
	ArtworkID int64     `json:"artwork_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ArtworkSort string

const (
	SortNewest    ArtworkSort = "newest"
	SortOldest    ArtworkSort = "oldest"
	SortPriceAsc  ArtworkSort = "price_asc"
	SortPriceDesc ArtworkSort = "price_desc"
	SortPopular   ArtworkSort = "popular"
)

func (s ArtworkSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortPopular:
		return true
	}
	return false
}
