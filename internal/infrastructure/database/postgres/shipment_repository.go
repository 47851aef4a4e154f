package postgres

import (
	domainShipment "agri-transport-monitor/internal/domain/shipment"
	"agri-transport-monitor/internal/infrastructure/database/postgres/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShipmentRepository implements the read-only shipment.Repository lookup.
type ShipmentRepository struct {
	db *DB
}

// NewShipmentRepository creates a new shipment repository
func NewShipmentRepository(db *DB) domainShipment.Repository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainShipment.Shipment, error) {
	var dbModel models.ShipmentModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainShipment.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	return &domainShipment.Shipment{
		ID:             dbModel.ID,
		ShipmentNumber: dbModel.ShipmentNumber,
		TempMin:        dbModel.TempMin,
		TempMax:        dbModel.TempMax,
		HumidityMin:    dbModel.HumidityMin,
		HumidityMax:    dbModel.HumidityMax,
	}, nil
}
