package shipment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrShipmentNotFound = errors.New("shipment not found")

// Repository is a read-only lookup into the external shipments table.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
}
