package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// IdentityRepository looks up the three disjoint identity stores.
type IdentityRepository interface {
	FindSuperAdmin(ctx context.Context, id uint) (models.SuperAdmin, error)
	FindSubAdmin(ctx context.Context, id uint) (models.SubAdmin, error)
	FindUser(ctx context.Context, id uint) (models.User, error)
}

type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository constructs the identity repository.
func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) FindSuperAdmin(ctx context.Context, id uint) (models.SuperAdmin, error) {
	var admin models.SuperAdmin
	err := r.db.WithContext(ctx).First(&admin, id).Error
	return admin, err
}

func (r *identityRepository) FindSubAdmin(ctx context.Context, id uint) (models.SubAdmin, error) {
	var admin models.SubAdmin
	err := r.db.WithContext(ctx).First(&admin, id).Error
	return admin, err
}

func (r *identityRepository) FindUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, err
}
