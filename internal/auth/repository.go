// internal/auth/repository.go
package auth

import (
	"context"
	"errors"

	"nfticket/internal/principals"

	"gorm.io/gorm"
)

type Repository interface {
	CreatePrincipal(ctx context.Context, p *principals.Principal) error
	GetPrincipalByEmail(ctx context.Context, email string) (*principals.Principal, error)
	GetPrincipalByID(ctx context.Context, id string) (*principals.Principal, error)
	UpdatePrincipalPassword(ctx context.Context, principalID string, hashedPassword string) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) CreatePrincipal(ctx context.Context, p *principals.Principal) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	return nil
}

func (r *repository) GetPrincipalByEmail(ctx context.Context, email string) (*principals.Principal, error) {
	var p principals.Principal
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetPrincipalByID(ctx context.Context, id string) (*principals.Principal, error) {
	var p principals.Principal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdatePrincipalPassword(ctx context.Context, principalID string, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&principals.Principal{}).
		Where("id = ?", principalID).
		Update("password", hashedPassword)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrPrincipalNotFound
	}

	return nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&principals.Principal{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
