// Package user holds the minimal view of users this core needs: ownership
// checks for order transitions and driver selection for dispatch.
// Registration and token issuance live in an external collaborator.
package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleFarmer     Role = "farmer"
	RoleTrader     Role = "trader"
	RoleDriver     Role = "driver"
	RoleGovernment Role = "government"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID        uuid.UUID
	Username  string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}
