package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FirstAvailableDriver returns the first active driver with no
	// currently-active transport route, or ErrUserNotFound when every
	// driver is busy. This is the placeholder dispatch policy.
	FirstAvailableDriver(ctx context.Context) (*User, error)
}
