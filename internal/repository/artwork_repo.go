package repository

import (
	"context"
	"strings"
	"time"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/utils"

	"gorm.io/gorm"
)

type ArtworkRepository struct {
	db *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) *ArtworkRepository {
	return &ArtworkRepository{db: db}
}

type artworkModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	ArtistID    int64     `gorm:"column:artist_id;not null;index"`
	Title       string    `gorm:"column:title;size:200;not null"`
	Description string    `gorm:"column:description;type:text"`
	Price       float64   `gorm:"column:price;not null"`
	Category    string    `gorm:"column:category;size:64;index"`
	Tags        string    `gorm:"column:tags;type:text"`
	ImageURL    string    `gorm:"column:image_url"`
	ImageKey    string    `gorm:"column:image_key;size:255"` // empty for external image urls
	Flagged     bool      `gorm:"column:flagged;not null;default:false;index"`
	IsForSale   bool      `gorm:"column:is_for_sale;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (artworkModel) TableName() string { return "artworks" }

// artworkLikeModel is the like set: the composite key makes a second like
// by the same user impossible.
type artworkLikeModel struct {
	ArtworkID int64     `gorm:"column:artwork_id;primaryKey;autoIncrement:false"`
	UserID    int64     `gorm:"column:user_id;primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (artworkLikeModel) TableName() string { return "artwork_likes" }

type commentModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ArtworkID int64     `gorm:"column:artwork_id;not null;index"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Text      string    `gorm:"column:text;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (commentModel) TableName() string { return "artwork_comments" }

func toDomainArtwork(m artworkModel) *domain.Artwork {
	return &domain.Artwork{
		ID:          m.ID,
		ArtistID:    m.ArtistID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		Tags:        utils.StringToTags(m.Tags),
		ImageURL:    m.ImageURL,
		ImageKey:    m.ImageKey,
		Flagged:     m.Flagged,
		IsForSale:   m.IsForSale,
		Likes:       domain.NewUserSet(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toArtworkModel(a *domain.Artwork) artworkModel {
	return artworkModel{
		ID:          a.ID,
		ArtistID:    a.ArtistID,
		Title:       strings.TrimSpace(a.Title),
		Description: a.Description,
		Price:       a.Price,
		Category:    strings.ToLower(strings.TrimSpace(a.Category)),
		Tags:        utils.TagsToString(utils.NormalizeTags(a.Tags)),
		ImageURL:    a.ImageURL,
		ImageKey:    a.ImageKey,
		Flagged:     a.Flagged,
		IsForSale:   a.IsForSale,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (r *ArtworkRepository) Create(ctx context.Context, a *domain.Artwork) error {
	m := toArtworkModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*a = *toDomainArtwork(m)
	return nil
}

// GetByID loads the artwork together with its like set and comments.
func (r *ArtworkRepository) GetByID(ctx context.Context, id int64) (*domain.Artwork, error) {
	var m artworkModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	a := toDomainArtwork(m)

	likes, err := r.LikeSet(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := r.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Likes = likes
	a.LikeCount = likes.Len()
	a.Comments = comments
	a.CommentCount = len(comments)
	return a, nil
}

type ArtworkFilter struct {
	Category string
	Search   string
	ArtistID int64
	ForSale  *bool
	// Flagged restricts to flagged or unflagged artworks; nil means both.
	Flagged *bool
	Sort    domain.ArtworkSort
}

func (r *ArtworkRepository) List(ctx context.Context, f ArtworkFilter, limit, offset int) ([]domain.Artwork, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&artworkModel{})
		if c := strings.ToLower(strings.TrimSpace(f.Category)); c != "" {
			q = q.Where("category = ?", c)
		}
		if f.ArtistID > 0 {
			q = q.Where("artist_id = ?", f.ArtistID)
		}
		if f.ForSale != nil {
			q = q.Where("is_for_sale = ?", *f.ForSale)
		}
		if f.Flagged != nil {
			q = q.Where("flagged = ?", *f.Flagged)
		}
		if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
			like := containsPattern(s)
			q = q.Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR tags LIKE ? ESCAPE '\\'", like, like, like)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []artworkModel
	err := scoped().
		Order(artworkOrder(f.Sort)).
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Artwork, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainArtwork(m))
		ids = append(ids, m.ID)
	}
	if err := r.hydrateCounts(ctx, ids, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func artworkOrder(sort domain.ArtworkSort) string {
	switch sort {
	case domain.SortOldest:
		return "created_at ASC, id ASC"
	case domain.SortPriceAsc:
		return "price ASC, id ASC"
	case domain.SortPriceDesc:
		return "price DESC, id DESC"
	case domain.SortPopular:
		return "(SELECT COUNT(*) FROM artwork_likes l WHERE l.artwork_id = artworks.id) DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// hydrateCounts fills likes and comment counts for a page of artworks with
// two queries instead of one per row.
func (r *ArtworkRepository) hydrateCounts(ctx context.Context, ids []int64, items []domain.Artwork) error {
	if len(ids) == 0 {
		return nil
	}

	var likes []artworkLikeModel
	if err := r.db.WithContext(ctx).Where("artwork_id IN ?", ids).Find(&likes).Error; err != nil {
		return err
	}
	sets := make(map[int64]domain.UserSet, len(ids))
	for _, l := range likes {
		if sets[l.ArtworkID] == nil {
			sets[l.ArtworkID] = domain.NewUserSet()
		}
		sets[l.ArtworkID].Add(l.UserID)
	}

	var counts []struct {
		ArtworkID int64
		N         int
	}
	err := r.db.WithContext(ctx).Model(&commentModel{}).
		Select("artwork_id, COUNT(*) AS n").
		Where("artwork_id IN ?", ids).
		Group("artwork_id").
		Scan(&counts).Error
	if err != nil {
		return err
	}
	commentCounts := make(map[int64]int, len(counts))
	for _, c := range counts {
		commentCounts[c.ArtworkID] = c.N
	}

	for i := range items {
		if s, ok := sets[items[i].ID]; ok {
			items[i].Likes = s
		}
		items[i].LikeCount = items[i].Likes.Len()
		items[i].CommentCount = commentCounts[items[i].ID]
	}
	return nil
}

type ArtworkUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Tags        *[]string
	IsForSale   *bool
	ImageURL    *string
}

func (u ArtworkUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil && u.Category == nil &&
		u.Tags == nil && u.IsForSale == nil && u.ImageURL == nil
}

func (r *ArtworkRepository) Update(ctx context.Context, id int64, upd ArtworkUpdate) (*domain.Artwork, error) {
	updates := map[string]any{}
	if upd.Title != nil {
		updates["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Price != nil {
		updates["price"] = *upd.Price
	}
	if upd.Category != nil {
		updates["category"] = strings.ToLower(strings.TrimSpace(*upd.Category))
	}
	if upd.Tags != nil {
		updates["tags"] = utils.TagsToString(utils.NormalizeTags(*upd.Tags))
	}
	if upd.IsForSale != nil {
		updates["is_for_sale"] = *upd.IsForSale
	}
	if upd.ImageURL != nil {
		updates["image_url"] = *upd.ImageURL
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := r.db.WithContext(ctx).Model(&artworkModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *ArtworkRepository) SetFlagged(ctx context.Context, id int64, flagged bool) (*domain.Artwork, error) {
	err := r.db.WithContext(ctx).Model(&artworkModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"flagged": flagged, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the artwork with its likes and comments. Orders and
// commissions referencing it are kept.
func (r *ArtworkRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artwork_id = ?", id).Delete(&artworkLikeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artwork_id = ?", id).Delete(&commentModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&artworkModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddLike inserts the like and reports whether it was new.
func (r *ArtworkRepository) AddLike(ctx context.Context, artworkID, userID int64) (bool, error) {
	like := artworkLikeModel{ArtworkID: artworkID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveLike deletes the like and reports whether one existed.
func (r *ArtworkRepository) RemoveLike(ctx context.Context, artworkID, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("artwork_id = ? AND user_id = ?", artworkID, userID).
		Delete(&artworkLikeModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ToggleLike flips the caller's membership in the like set and returns the
// resulting state. Each step is a single statement, so concurrent toggles
// can never produce a duplicate.
func (r *ArtworkRepository) ToggleLike(ctx context.Context, artworkID, userID int64) (bool, error) {
	removed, err := r.RemoveLike(ctx, artworkID, userID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	// A unique violation here means an identical request won the race;
	// either way the user now likes the artwork.
	if _, err := r.AddLike(ctx, artworkID, userID); err != nil {
		return false, err
	}
	return true, nil
}

func (r *ArtworkRepository) LikeSet(ctx context.Context, artworkID int64) (domain.UserSet, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&artworkLikeModel{}).
		Where("artwork_id = ?", artworkID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return domain.NewUserSet(ids...), nil
}

func (r *ArtworkRepository) AddComment(ctx context.Context, c *domain.Comment) error {
	m := commentModel{
		ArtworkID: c.ArtworkID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	return nil
}

// ListComments returns comments oldest first.
func (r *ArtworkRepository) ListComments(ctx context.Context, artworkID int64) ([]domain.Comment, error) {
	var rows []struct {
		ID        int64
		ArtworkID int64
		UserID    int64
		Username  *string
		Text      string
		CreatedAt time.Time
	}
	err := r.db.WithContext(ctx).
		Table("artwork_comments AS c").
		Select("c.id, c.artwork_id, c.user_id, u.username, c.text, c.created_at").
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Where("c.artwork_id = ?", artworkID).
		Order("c.created_at ASC, c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		c := domain.Comment{
			ID:        row.ID,
			ArtworkID: row.ArtworkID,
			UserID:    row.UserID,
			Text:      row.Text,
			CreatedAt: row.CreatedAt,
		}
		if row.Username != nil {
			c.Username = *row.Username
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ArtworkRepository) Counts(ctx context.Context) (total, flagged int64, err error) {
	if err = r.db.WithContext(ctx).Model(&artworkModel{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&artworkModel{}).Where("flagged = ?", true).Count(&flagged).Error
	return total, flagged, err
}
