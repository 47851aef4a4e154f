package order

import (
	"context"

	domainUser "agri-transport-monitor/internal/domain/user"
)

// DriverDispatcher selects the driver for a newly accepted order. It returns
// user.ErrUserNotFound when no driver is available; acceptance then proceeds
// with an unassigned route.
type DriverDispatcher interface {
	NextDriver(ctx context.Context) (*domainUser.User, error)
}

// FirstAvailableDispatcher assigns the longest-registered active driver with
// no currently-active route. A placeholder policy, not a fair scheduler.
type FirstAvailableDispatcher struct {
	users domainUser.Repository
}

func NewFirstAvailableDispatcher(users domainUser.Repository) *FirstAvailableDispatcher {
	return &FirstAvailableDispatcher{users: users}
}

func (d *FirstAvailableDispatcher) NextDriver(ctx context.Context) (*domainUser.User, error) {
	return d.users.FirstAvailableDriver(ctx)
}
