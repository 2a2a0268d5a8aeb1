package domain

import "errors"

var (
	// ErrInvalidInput is returned when a response score is outside 1..5.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoActiveSession is returned when an attempt operation runs before a session was started.
	ErrNoActiveSession = errors.New("no active test session")
	// ErrUnknownTier indicates a tier name outside basic/standard/professional.
	ErrUnknownTier = errors.New("unknown tier")
	// ErrUnknownDimension indicates an axis code outside EI/SN/TF/JP.
	ErrUnknownDimension = errors.New("unknown dimension")
	// ErrCatalogNotFound indicates the statement catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrResultNotFound indicates no stored result has the requested ID.
	ErrResultNotFound = errors.New("result not found")
)
