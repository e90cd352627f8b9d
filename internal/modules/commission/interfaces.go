package commission

import (
	"context"

	"artfolio/internal/domain"
	"artfolio/internal/repository"
)

type CommissionRepository interface {
	Create(ctx context.Context, c *domain.Commission) error
	GetByID(ctx context.Context, id int64) (*domain.Commission, error)
	List(ctx context.Context, f repository.CommissionFilter, limit, offset int) ([]domain.Commission, int64, error)
	Update(ctx context.Context, id int64, expected domain.CommissionStatus, upd repository.CommissionUpdate) (*domain.Commission, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, typ domain.NotificationType, title, body string, data map[string]any)
}
