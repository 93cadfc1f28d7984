package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/cabinetry/internal/domain"
)

type RoomRepo struct{ db *gorm.DB }

func NewRoomRepo(db *gorm.DB) *RoomRepo { return &RoomRepo{db: db} }

func (r *RoomRepo) FindRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Preload("Walls", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepo) SaveRoom(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Omit("Walls").Save(room).Error
}

func (r *RoomRepo) FindWall(ctx context.Context, id uuid.UUID) (*domain.Wall, error) {
	var w domain.Wall
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *RoomRepo) SaveWall(ctx context.Context, w *domain.Wall) error {
	return r.db.WithContext(ctx).Save(w).Error
}
