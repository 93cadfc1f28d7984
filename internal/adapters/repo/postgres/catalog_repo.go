package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/cabinetry/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) List(ctx context.Context, onlyActive bool) ([]domain.CabinetType, error) {
	var list []domain.CabinetType
	q := r.db.WithContext(ctx).Model(&domain.CabinetType{})
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	if err := q.Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.CabinetType, error) {
	var t domain.CabinetType
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepo) FindByName(ctx context.Context, name string) (*domain.CabinetType, error) {
	var t domain.CabinetType
	n := strings.TrimSpace(name)
	if n == "" {
		return nil, errors.New("nombre vacío")
	}
	if err := r.db.WithContext(ctx).First(&t, "LOWER(name) = LOWER(?)", n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepo) Save(ctx context.Context, t *domain.CabinetType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete no borra tipos en uso: los gabinetes que lo referencian pasarían a Unknown.
func (r *CatalogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&domain.Cabinet{}).Where("type_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return fmt.Errorf("%w: el tipo está usado por %d gabinetes", domain.ErrInvalid, used)
		}
		res := tx.Delete(&domain.CabinetType{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
