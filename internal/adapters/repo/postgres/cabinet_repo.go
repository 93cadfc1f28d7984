package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/cabinetry/internal/domain"
)

type CabinetRepo struct{ db *gorm.DB }

func NewCabinetRepo(db *gorm.DB) *CabinetRepo { return &CabinetRepo{db: db} }

func (r *CabinetRepo) ListByWall(ctx context.Context, wallID uuid.UUID) ([]domain.Cabinet, error) {
	var list []domain.Cabinet
	if err := r.db.WithContext(ctx).Where("wall_id = ?", wallID).Order("grid_start_x asc, grid_start_y asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CabinetRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Cabinet, error) {
	var list []domain.Cabinet
	err := r.db.WithContext(ctx).
		Table("cabinets").
		Select("cabinets.*").
		Joins("INNER JOIN walls ON walls.id = cabinets.wall_id").
		Joins("INNER JOIN rooms ON rooms.id = walls.room_id").
		Where("rooms.project_id = ?", projectID).
		Order("cabinets.grid_start_x asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CabinetRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Cabinet, error) {
	var c domain.Cabinet
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CabinetRepo) Save(ctx context.Context, c *domain.Cabinet) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SaveAll guarda la pared completa en una transacción: o entran todas las zonas o ninguna.
func (r *CabinetRepo) SaveAll(ctx context.Context, wallID uuid.UUID, list []domain.Cabinet) error {
	if len(list) == 0 {
		return nil
	}
	now := time.Now()
	for i := range list {
		if list[i].ID == uuid.Nil {
			list[i].ID = uuid.New()
		}
		list[i].WallID = wallID
		if list[i].CreatedAt.IsZero() {
			list[i].CreatedAt = now
		}
		list[i].UpdatedAt = now
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range list {
			if err := tx.Save(&list[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CabinetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Cabinet{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
