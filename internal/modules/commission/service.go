package commission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/metrics"
	"artfolio/internal/pkg/utils"
	"artfolio/internal/repository"

	"github.com/sirupsen/logrus"
)

type Service struct {
	commissions   CommissionRepository
	users         UserReader
	notifier      Notifier
	briefMinRunes int
	now           func() time.Time
}

// NewService builds the commission workflow. briefMin is the minimum brief
// length in characters after trimming; 0 disables the check.
func NewService(commissions CommissionRepository, users UserReader, notifier Notifier, briefMin int) *Service {
	return &Service{
		commissions:   commissions,
		users:         users,
		notifier:      notifier,
		briefMinRunes: briefMin,
		now:           time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateCommissionRequest) (*domain.Commission, error) {
	brief := strings.TrimSpace(req.Brief)
	if brief == "" || utf8.RuneCountInString(brief) < s.briefMinRunes {
		return nil, ErrBriefTooShort
	}
	if req.ArtistID == actor.ID {
		return nil, ErrSelfCommission
	}
	if req.Deadline != nil && !req.Deadline.After(s.now()) {
		return nil, ErrDeadlineInPast
	}

	artist, err := s.users.GetByID(ctx, req.ArtistID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load artist: %w", err)
	}
	if !artist.IsArtist() {
		return nil, ErrArtistNotFound
	}
	if !artist.AcceptsCommissions() {
		return nil, ErrCommissionsClosed
	}

	c := &domain.Commission{
		RequesterID: actor.ID,
		ArtistID:    artist.ID,
		Brief:       brief,
		Status:      domain.CommissionPending,
		Deadline:    req.Deadline,
	}
	if err := s.commissions.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create commission: %w", err)
	}

	s.notify(ctx, artist.ID, domain.NotifCommissionRequested, "New commission request", brief,
		map[string]any{"commission_id": c.ID, "requester_id": actor.ID})

	logrus.WithFields(logrus.Fields{"commission_id": c.ID, "artist_id": artist.ID}).Info("commission requested")
	view := c.ViewFor(actor)
	return &view, nil
}

// Inbox lists commissions addressed to the artist.
func (s *Service) Inbox(ctx context.Context, actor domain.Actor, status string, page utils.Pagination) (*ListResult, error) {
	return s.list(ctx, actor, repository.CommissionFilter{ArtistID: actor.ID}, status, page)
}

// Mine lists commissions the actor requested.
func (s *Service) Mine(ctx context.Context, actor domain.Actor, status string, page utils.Pagination) (*ListResult, error) {
	return s.list(ctx, actor, repository.CommissionFilter{RequesterID: actor.ID}, status, page)
}

// ListAll is the platform-wide view for moderation.
func (s *Service) ListAll(ctx context.Context, actor domain.Actor, status string, page utils.Pagination) (*ListResult, error) {
	return s.list(ctx, actor, repository.CommissionFilter{}, status, page)
}

func (s *Service) list(ctx context.Context, actor domain.Actor, f repository.CommissionFilter, status string, page utils.Pagination) (*ListResult, error) {
	if status != "" {
		st := domain.CommissionStatus(strings.ToLower(status))
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		f.Status = st
	}

	items, total, err := s.commissions.List(ctx, f, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	for i := range items {
		items[i] = items[i].ViewFor(actor)
	}
	return &ListResult{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Commission, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != c.RequesterID && actor.ID != c.ArtistID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	view := c.ViewFor(actor)
	return &view, nil
}

// Update lets the target artist move the status, quote a price and keep
// notes. The write only lands if the status is still the one read here.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, req UpdateCommissionRequest) (*domain.Commission, error) {
	if req.Status == nil && req.Price == nil && req.Notes == nil {
		return nil, ErrNothingToUpdate
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != current.ArtistID {
		return nil, ErrForbidden
	}

	upd := repository.CommissionUpdate{Price: req.Price, Notes: req.Notes}
	from := current.Status
	next := *current

	if req.Status != nil {
		if err := next.Transition(domain.CommissionStatus(*req.Status)); err != nil {
			return nil, ErrInvalidTransition
		}
		if next.Status != from {
			upd.Status = &next.Status
		}
	}
	if req.Price != nil && !from.PriceEditable() {
		return nil, ErrPriceLocked
	}

	updated, err := s.commissions.Update(ctx, id, from, upd)
	switch {
	case errors.Is(err, repository.ErrStaleState):
		return nil, ErrConcurrentUpdate
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrCommissionNotFound
	case err != nil:
		return nil, fmt.Errorf("update commission: %w", err)
	}

	if upd.Status != nil {
		metrics.CommissionTransitions.WithLabelValues(string(from), string(updated.Status)).Inc()
		s.notify(ctx, updated.RequesterID, domain.NotifCommissionStatusChanged,
			"Commission "+string(updated.Status), "",
			map[string]any{"commission_id": id, "from": from, "to": updated.Status})
		logrus.WithFields(logrus.Fields{
			"commission_id": id,
			"from":          from,
			"to":            updated.Status,
		}).Info("commission status changed")
	}

	view := updated.ViewFor(actor)
	return &view, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Commission, error) {
	c, err := s.commissions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCommissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load commission: %w", err)
	}
	return c, nil
}

func (s *Service) notify(ctx context.Context, userID int64, typ domain.NotificationType, title, body string, data map[string]any) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, typ, title, body, data)
	}
}
