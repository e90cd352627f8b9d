package domain

import "time"

type NotificationType string

const (
	NotifCommissionRequested     NotificationType = "commission_requested"
	NotifCommissionStatusChanged NotificationType = "commission_status_changed"
	NotifArtworkSold             NotificationType = "artwork_sold"
	NotifArtworkCommented        NotificationType = "artwork_commented"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body,omitempty"`
	Data      map[string]any   `json:"data,omitempty"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
