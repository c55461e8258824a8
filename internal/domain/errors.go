package domain

import "errors"

var (
	// ErrNotFound is returned when a node, link or animation id is absent
	ErrNotFound = errors.New("not found")

	// ErrInvalidLink is returned for self-loops and unknown endpoints
	ErrInvalidLink = errors.New("invalid link")

	// ErrTrafficLimit is returned when a link already runs the maximum
	// number of traffic animations
	ErrTrafficLimit = errors.New("traffic animation limit reached")
)
