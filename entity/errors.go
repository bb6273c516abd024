package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound     = errors.New("event not found")
	ErrInvalidFlight     = errors.New("no such flight")
	ErrNotInSourceFlight = errors.New("player not in flight")
	ErrAlreadyInFlight   = errors.New("player already in flight")
	ErrFlightFull        = errors.New("flight is full")
	ErrNotAuthorized     = errors.New("you can only change your own time or the time of someone you added")
	ErrStaleEvent        = errors.New("event was modified concurrently")

	// Player errors
	ErrPlayerNotFound    = errors.New("player not found")
	ErrEmailTaken        = errors.New("email already in use")
	ErrBadCredentials    = errors.New("invalid email or password")
	ErrNotRegistered     = errors.New("account has no login access")
	ErrResetTokenExpired = errors.New("reset token is invalid or expired")
	ErrPasswordMismatch  = errors.New("password and confirmation don't match")
	ErrPasswordBadLength = errors.New("password must be between 7 and 30 characters")
)
