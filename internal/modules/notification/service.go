package notification

import (
	"context"
	"errors"
	"fmt"

	"artfolio/internal/domain"
	"artfolio/internal/repository"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo      NotificationRepository
	publisher Publisher
}

func NewService(repo NotificationRepository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Notify stores a notification and pushes it to live connections. Failures
// are logged and swallowed so the calling operation never fails because of it.
func (s *Service) Notify(ctx context.Context, userID int64, typ domain.NotificationType, title, body string, data map[string]any) {
	if s == nil || userID == 0 {
		return
	}

	n := &domain.Notification{
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
		Data:   data,
	}

	log := logrus.WithFields(logrus.Fields{"user_id": userID, "type": typ})
	if err := s.repo.Create(ctx, n); err != nil {
		log.WithError(err).Error("store notification")
		return
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, *n); err != nil {
		log.WithError(err).Warn("publish notification")
	}
}

func (s *Service) List(ctx context.Context, userID int64, limit, offset int) (*ListResponse, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return &ListResponse{Notifications: items, UnreadCount: unread, Total: total}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	err := s.repo.MarkAsRead(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return n, nil
}
