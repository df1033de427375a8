package intake

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no intake row exists for an event id.
var ErrNotFound = errors.New("intake event not found")

type Repository interface {
	GetByEventID(ctx context.Context, eventID string) (*Record, error)
}
