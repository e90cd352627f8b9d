package notification

import "artfolio/internal/domain"

type ListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Total         int64                 `json:"total"`
}

// Event is the frame written to WebSocket clients.
type Event struct {
	Type    string               `json:"type"`
	Payload *domain.Notification `json:"payload,omitempty"`
}

func newNotificationEvent(n domain.Notification) Event {
	return Event{Type: "notification", Payload: &n}
}
