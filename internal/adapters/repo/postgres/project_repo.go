package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/cabinetry/internal/domain"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	var list []domain.Project
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID trae el proyecto con sus ambientes y paredes.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Rooms.Walls", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) Save(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Omit("Rooms").Save(p).Error
}

func (r *ProjectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, st domain.ProjectStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", id).Update("status", st)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
