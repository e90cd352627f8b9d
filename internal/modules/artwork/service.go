package artwork

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/metrics"
	"artfolio/internal/pkg/utils"
	"artfolio/internal/repository"

	"github.com/sirupsen/logrus"
)

const maxCommentLength = 1000

type Service struct {
	artworks ArtworkRepository
	users    UserReader
	images   ImageStore
	notifier Notifier
}

func NewService(artworks ArtworkRepository, users UserReader, images ImageStore, notifier Notifier) *Service {
	return &Service{artworks: artworks, users: users, images: images, notifier: notifier}
}

// List returns the public catalog. Flagged artworks never appear here.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	hidden := false
	return s.list(ctx, q, &hidden)
}

// ListForModeration includes flagged artworks; flagged narrows the result
// when set.
func (s *Service) ListForModeration(ctx context.Context, flagged *bool, page utils.Pagination) (*ListResult, error) {
	return s.list(ctx, ListQuery{Page: page.Page, Limit: page.Limit}, flagged)
}

func (s *Service) list(ctx context.Context, q ListQuery, flagged *bool) (*ListResult, error) {
	sort := domain.SortNewest
	if q.Sort != "" {
		sort = domain.ArtworkSort(strings.ToLower(q.Sort))
		if !sort.Valid() {
			return nil, ErrInvalidSort
		}
	}
	page := utils.NewPagination(q.Page, q.Limit)

	items, total, err := s.artworks.List(ctx, repository.ArtworkFilter{
		Category: q.Category,
		Search:   q.Search,
		ArtistID: q.ArtistID,
		ForSale:  q.ForSale,
		Flagged:  flagged,
		Sort:     sort,
	}, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}

	s.attachArtists(ctx, items)
	return &ListResult{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// Get returns the artwork if viewer may see it. Flagged artworks look
// missing to everyone but the owner and admins.
func (s *Service) Get(ctx context.Context, viewer domain.Actor, id int64) (*domain.Artwork, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.VisibleTo(viewer) {
		return nil, ErrArtworkNotFound
	}

	one := []domain.Artwork{*a}
	s.attachArtists(ctx, one)
	return &one[0], nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (*domain.Artwork, error) {
	if actor.Role != domain.RoleArtist {
		return nil, ErrNotAnArtist
	}

	imageURL, imageKey := strings.TrimSpace(in.ImageURL), ""
	if in.Image != nil {
		stored, err := s.images.Save(ctx, in.Image.Reader, in.Image.Size)
		if err != nil {
			return nil, err
		}
		imageURL, imageKey = stored.URL, stored.Key
	}
	if imageURL == "" {
		return nil, ErrImageRequired
	}

	a := &domain.Artwork{
		ArtistID:    actor.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Tags:        utils.NormalizeTags(in.Tags),
		ImageURL:    imageURL,
		ImageKey:    imageKey,
		IsForSale:   in.IsForSale,
	}
	if err := s.artworks.Create(ctx, a); err != nil {
		s.removeImage(ctx, imageKey)
		return nil, fmt.Errorf("create artwork: %w", err)
	}

	logrus.WithFields(logrus.Fields{"artwork_id": a.ID, "artist_id": actor.ID}).Info("artwork published")
	return a, nil
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, req UpdateArtworkRequest) (*domain.Artwork, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(a.ArtistID) {
		return nil, ErrForbidden
	}

	upd := repository.ArtworkUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Tags:        req.Tags,
		IsForSale:   req.IsForSale,
	}
	if upd.Empty() {
		return nil, ErrNothingToUpdate
	}

	updated, err := s.artworks.Update(ctx, id, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrArtworkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update artwork: %w", err)
	}
	return updated, nil
}

// Delete removes the artwork with its likes and comments, then its stored
// image. Orders keep their snapshot.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	a, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(a.ArtistID) {
		return ErrForbidden
	}

	if err := s.artworks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrArtworkNotFound
		}
		return fmt.Errorf("delete artwork: %w", err)
	}
	s.removeImage(ctx, a.ImageKey)

	logrus.WithFields(logrus.Fields{"artwork_id": id, "actor_id": actor.ID}).Info("artwork deleted")
	return nil
}

// SetFlagged sets moderation state explicitly, so repeating it is harmless.
func (s *Service) SetFlagged(ctx context.Context, id int64, flagged bool) (*domain.Artwork, error) {
	a, err := s.artworks.SetFlagged(ctx, id, flagged)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrArtworkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("flag artwork: %w", err)
	}
	return a, nil
}

// Like applies op for the actor and returns the resulting state.
func (s *Service) Like(ctx context.Context, actor domain.Actor, id int64, op LikeOp) (*LikeResult, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.VisibleTo(actor) {
		return nil, ErrArtworkNotFound
	}

	var liked, changed bool
	switch op {
	case LikeAdd:
		changed, err = s.artworks.AddLike(ctx, id, actor.ID)
		liked = true
	case LikeRemove:
		changed, err = s.artworks.RemoveLike(ctx, id, actor.ID)
		liked = false
	default:
		liked, err = s.artworks.ToggleLike(ctx, id, actor.ID)
		changed = true
	}
	if err != nil {
		return nil, fmt.Errorf("update like: %w", err)
	}
	if changed {
		label := "unlike"
		if liked {
			label = "like"
		}
		metrics.LikeChanges.WithLabelValues(label).Inc()
	}

	set, err := s.artworks.LikeSet(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	return &LikeResult{Liked: set.Has(actor.ID), LikeCount: set.Len()}, nil
}

// AddComment appends a comment and returns the full ordered thread.
func (s *Service) AddComment(ctx context.Context, actor domain.Actor, id int64, text string) ([]domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxCommentLength {
		return nil, ErrInvalidComment
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.VisibleTo(actor) {
		return nil, ErrArtworkNotFound
	}

	c := &domain.Comment{ArtworkID: id, UserID: actor.ID, Text: text}
	if err := s.artworks.AddComment(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	if a.ArtistID != actor.ID && s.notifier != nil {
		s.notifier.Notify(ctx, a.ArtistID, domain.NotifArtworkCommented,
			"New comment on "+a.Title, text,
			map[string]any{"artwork_id": id, "comment_id": c.ID, "user_id": actor.ID})
	}

	return s.artworks.ListComments(ctx, id)
}

func (s *Service) ListComments(ctx context.Context, viewer domain.Actor, id int64) ([]domain.Comment, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.VisibleTo(viewer) {
		return nil, ErrArtworkNotFound
	}
	if a.Comments == nil {
		return []domain.Comment{}, nil
	}
	return a.Comments, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Artwork, error) {
	a, err := s.artworks.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrArtworkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load artwork: %w", err)
	}
	return a, nil
}

// attachArtists embeds public artist profiles. A lookup failure leaves the
// artworks without them rather than failing the read.
func (s *Service) attachArtists(ctx context.Context, items []domain.Artwork) {
	if s.users == nil || len(items) == 0 {
		return
	}
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, a := range items {
		if !seen[a.ArtistID] {
			seen[a.ArtistID] = true
			ids = append(ids, a.ArtistID)
		}
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		logrus.WithError(err).Warn("load artwork artists")
		return
	}
	for i := range items {
		if u, ok := users[items[i].ArtistID]; ok {
			public := u.Public()
			items[i].Artist = &public
		}
	}
}

// removeImage deletes an uploaded image by its key. Artworks created with an
// external image_url have no key and own nothing in storage.
func (s *Service) removeImage(ctx context.Context, key string) {
	if s.images == nil || key == "" {
		return
	}
	if err := s.images.Remove(ctx, key); err != nil {
		logrus.WithError(err).WithField("image_key", key).Warn("remove artwork image")
	}
}
