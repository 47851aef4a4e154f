package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel represents the database model for trade orders.
type OrderModel struct {
	ID          int64     `gorm:"primary_key;autoIncrement"`
	TraderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	OfferID     int64     `gorm:"not null;index"`
	Quantity    float64   `gorm:"type:double precision;not null"`
	AgreedPrice float64   `gorm:"type:double precision;not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OfferModel represents the database model for produce offers.
type OfferModel struct {
	ID        int64     `gorm:"primary_key;autoIncrement"`
	FarmerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Product   string    `gorm:"type:varchar(255);not null"`
	Quantity  float64   `gorm:"type:double precision;not null"`
	MinPrice  float64   `gorm:"type:double precision;not null"`
	Active    bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (OfferModel) TableName() string {
	return "offers"
}

// TransportRouteModel represents the database model for transport routes.
type TransportRouteModel struct {
	ID                int64      `gorm:"primary_key;autoIncrement"`
	DriverID          *uuid.UUID `gorm:"type:uuid;index"`
	OrderID           int64      `gorm:"not null;index"`
	PickupPoint       string     `gorm:"type:varchar(255)"`
	Destination       string     `gorm:"type:varchar(255)"`
	DistanceKm        *float64   `gorm:"type:double precision"`
	VerificationToken string     `gorm:"type:varchar(255)"`
	IsActive          bool       `gorm:"not null;default:true;index"`
	StartedAt         time.Time  `gorm:"not null"`
	FinishedAt        *time.Time `gorm:"type:timestamp"`
}

func (TransportRouteModel) TableName() string {
	return "transport_routes"
}
