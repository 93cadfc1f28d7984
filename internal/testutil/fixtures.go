package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/cabinetry/internal/domain"
)

func Feet(v float64) *float64 { return &v }

// BaseType: bajo mesada de 2 a 4 pies de ancho y 3 de alto, apoyado en el piso.
func BaseType() domain.CabinetType {
	return domain.CabinetType{
		ID: uuid.New(), Name: "Base",
		MinWidth: 2, MaxWidth: Feet(4), MinHeight: 3, MaxHeight: Feet(3),
		Color: "#2563eb", Active: true,
	}
}

// WallType: alacena colgada a 4.5 pies del piso.
func WallType() domain.CabinetType {
	return domain.CabinetType{
		ID: uuid.New(), Name: "Wall",
		MinWidth: 1.5, MaxWidth: Feet(3), MinHeight: 2.5, MaxHeight: Feet(3.5), BaseOffset: 4.5,
		Color: "#f59e0b", Active: true,
	}
}

func (s *Store) AddType(t domain.CabinetType) domain.CabinetType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	s.types[t.ID] = t
	return t
}

// SeedWall crea proyecto, ambiente y pared. length nil deja la pared sin configurar.
func (s *Store) SeedWall(length *float64, roomHeight float64) (domain.Project, domain.Room, domain.Wall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p := domain.Project{ID: uuid.New(), Name: "Casa Norte", Status: domain.ProjectStatusDraft, CreatedAt: now, UpdatedAt: now}
	r := domain.Room{ID: uuid.New(), ProjectID: p.ID, Name: "Cocina", Type: "kitchen", Height: roomHeight, CreatedAt: now, UpdatedAt: now}
	w := domain.Wall{ID: uuid.New(), RoomID: r.ID, Name: "Norte", Length: length, CreatedAt: now, UpdatedAt: now}
	s.projects[p.ID] = p
	s.rooms[r.ID] = r
	s.walls[w.ID] = w
	return p, r, w
}

func (s *Store) AddCabinet(c domain.Cabinet) domain.Cabinet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	s.cabinets[c.ID] = c
	return c
}

// CabinetCount devuelve cuántos gabinetes hay en la pared.
func (s *Store) CabinetCount(wallID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.cabinets {
		if c.WallID == wallID {
			n++
		}
	}
	return n
}
