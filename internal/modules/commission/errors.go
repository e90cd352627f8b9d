package commission

import "errors"

var (
	ErrCommissionNotFound = errors.New("commission not found")
	ErrArtistNotFound     = errors.New("artist not found")
	ErrCommissionsClosed  = errors.New("artist is not accepting commissions")
	ErrSelfCommission     = errors.New("cannot commission yourself")
	ErrBriefTooShort      = errors.New("brief is too short")
	ErrDeadlineInPast     = errors.New("deadline must be in the future")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConcurrentUpdate   = errors.New("commission was changed concurrently")
	ErrPriceLocked        = errors.New("price can no longer be changed")
	ErrInvalidStatus      = errors.New("unknown commission status")
	ErrNothingToUpdate    = errors.New("no fields to update")
)
