package postgres

import (
	domainUser "agri-transport-monitor/internal/domain/user"
	"agri-transport-monitor/internal/infrastructure/database/postgres/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements the read-only user.Repository lookup.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) FirstAvailableDriver(ctx context.Context) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("role = ? AND is_active = true", string(domainUser.RoleDriver)).
		Where("id NOT IN (?)",
			r.db.DB.Model(&models.TransportRouteModel{}).
				Select("driver_id").
				Where("is_active = true AND driver_id IS NOT NULL"),
		).
		Order("created_at ASC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find available driver: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:        m.ID,
		Username:  m.Username,
		Role:      domainUser.Role(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
