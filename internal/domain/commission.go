package domain

import (
	"errors"
	"time"
)

type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "pending"
	CommissionAccepted  CommissionStatus = "accepted"
	CommissionCompleted CommissionStatus = "completed"
	CommissionRejected  CommissionStatus = "rejected"
)

var ErrIllegalTransition = errors.New("illegal commission status transition")

// commissionTransitions lists every allowed move. States without an entry
// are terminal.
var commissionTransitions = map[CommissionStatus][]CommissionStatus{
	CommissionPending:  {CommissionAccepted, CommissionRejected},
	CommissionAccepted: {CommissionCompleted},
}

func (s CommissionStatus) Valid() bool {
	switch s {
	case CommissionPending, CommissionAccepted, CommissionCompleted, CommissionRejected:
		return true
	}
	return false
}

func (s CommissionStatus) IsTerminal() bool {
	return len(commissionTransitions[s]) == 0
}

func (s CommissionStatus) CanTransitionTo(next CommissionStatus) bool {
	for _, allowed := range commissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the states reachable in one step.
func (s CommissionStatus) NextStatuses() []CommissionStatus {
	return append([]CommissionStatus(nil), commissionTransitions[s]...)
}

// PriceEditable reports whether the artist may still quote a price.
func (s CommissionStatus) PriceEditable() bool {
	return s == CommissionPending || s == CommissionAccepted
}

type Commission struct {
	ID          int64            `json:"id"`
	RequesterID int64            `json:"requester_id"`
	ArtistID    int64            `json:"artist_id"`
	Brief       string           `json:"brief"`
	Status      CommissionStatus `json:"status"`
	Price       *float64         `json:"price,omitempty"`
	Deadline    *time.Time       `json:"deadline,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Transition moves the commission to next, or returns ErrIllegalTransition.
// Re-applying the current status is a no-op.
func (c *Commission) Transition(next CommissionStatus) error {
	if c.Status == next {
		return nil
	}
	if !c.Status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	c.Status = next
	return nil
}

// ViewFor returns a copy with the artist's private notes removed unless the
// viewer is the artist or an admin.
func (c Commission) ViewFor(viewer Actor) Commission {
	if viewer.ID != c.ArtistID && !viewer.IsAdmin() {
		c.Notes = ""
	}
	return c
}
