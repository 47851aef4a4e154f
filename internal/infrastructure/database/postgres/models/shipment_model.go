package models

import (
	"github.com/google/uuid"
)

// ShipmentModel is a read-only mapping over the externally-owned shipments
// table. Only the columns the alert engine consults are mapped.
type ShipmentModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ShipmentNumber string    `gorm:"type:varchar(100);not null"`

	TempMin     *float64 `gorm:"type:double precision"`
	TempMax     *float64 `gorm:"type:double precision"`
	HumidityMin *float64 `gorm:"type:double precision"`
	HumidityMax *float64 `gorm:"type:double precision"`
}

func (ShipmentModel) TableName() string {
	return "shipments"
}
