package artwork

import (
	"io"

	"artfolio/internal/domain"
)

// CreateArtworkForm is the multipart form; the image file travels in "image".
type CreateArtworkForm struct {
	Title       string  `form:"title" binding:"required,max=200"`
	Description string  `form:"description" binding:"max=5000"`
	Price       float64 `form:"price" binding:"gte=0"`
	Category    string  `form:"category" binding:"max=64"`
	Tags        string  `form:"tags"`
	IsForSale   *bool   `form:"is_for_sale"`
}

// CreateArtworkRequest is the JSON alternative for images hosted elsewhere.
type CreateArtworkRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=5000"`
	Price       float64  `json:"price" binding:"gte=0"`
	Category    string   `json:"category" binding:"max=64"`
	Tags        []string `json:"tags" binding:"max=20"`
	IsForSale   *bool    `json:"is_for_sale"`
	ImageURL    string   `json:"image_url" binding:"required,url"`
}

type UpdateArtworkRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=5000"`
	Price       *float64  `json:"price" binding:"omitempty,gte=0"`
	Category    *string   `json:"category" binding:"omitempty,max=64"`
	Tags        *[]string `json:"tags" binding:"omitempty,max=20"`
	IsForSale   *bool     `json:"is_for_sale"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ListQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	ArtistID int64  `form:"artist_id"`
	ForSale  *bool  `form:"for_sale"`
	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// CreateInput is what the service needs regardless of request encoding.
type CreateInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Tags        []string
	IsForSale   bool
	ImageURL    string
	Image       *ImageUpload
}

type ImageUpload struct {
	Reader io.Reader
	Size   int64
}

type LikeOp string

const (
	LikeToggle LikeOp = "toggle"
	LikeAdd    LikeOp = "like"
	LikeRemove LikeOp = "unlike"
)

type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type ListResult struct {
	Items []domain.Artwork
	Total int64
	Page  int
	Limit int
}
