package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("no encontrado")
	ErrInvalid  = errors.New("dato inválido")
)

type CatalogRepo interface {
	List(ctx context.Context, onlyActive bool) ([]CabinetType, error)
	FindByID(ctx context.Context, id uuid.UUID) (*CabinetType, error)
	FindByName(ctx context.Context, name string) (*CabinetType, error)
	Save(ctx context.Context, t *CabinetType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepo interface {
	List(ctx context.Context) ([]Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Save(ctx context.Context, p *Project) error
	UpdateStatus(ctx context.Context, id uuid.UUID, st ProjectStatus) error
}

type RoomRepo interface {
	FindRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	SaveRoom(ctx context.Context, r *Room) error
	FindWall(ctx context.Context, id uuid.UUID) (*Wall, error)
	SaveWall(ctx context.Context, w *Wall) error
}

type CabinetRepo interface {
	ListByWall(ctx context.Context, wallID uuid.UUID) ([]Cabinet, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Cabinet, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Cabinet, error)
	Save(ctx context.Context, c *Cabinet) error
	SaveAll(ctx context.Context, wallID uuid.UUID, list []Cabinet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CustomerRepo interface {
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}
