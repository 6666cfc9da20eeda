package session

import (
	"errors"

	planservice "animeplan/pkg/plan/service"
)

var (
	ErrClosed     = errors.New("session closed")
	ErrEmptyQuery = errors.New("search query is empty")
	ErrEmptyTitle = planservice.ErrEmptyTitle
	// ErrNotFound is returned by the registry for unknown session ids and for
	// sessions owned by another user.
	ErrNotFound = errors.New("session not found")
)
