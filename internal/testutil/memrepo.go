// Package testutil tiene repositorios en memoria y helpers HTTP para los tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/cabinetry/internal/domain"
)

// Store implementa todos los repos de dominio sobre mapas protegidos por un mutex.
type Store struct {
	mu        sync.Mutex
	types     map[uuid.UUID]domain.CabinetType
	projects  map[uuid.UUID]domain.Project
	rooms     map[uuid.UUID]domain.Room
	walls     map[uuid.UUID]domain.Wall
	cabinets  map[uuid.UUID]domain.Cabinet
	customers map[uuid.UUID]domain.Customer

	// Err, si no es nil, lo devuelve toda operación de escritura.
	Err error
}

func NewStore() *Store {
	return &Store{
		types:     map[uuid.UUID]domain.CabinetType{},
		projects:  map[uuid.UUID]domain.Project{},
		rooms:     map[uuid.UUID]domain.Room{},
		walls:     map[uuid.UUID]domain.Wall{},
		cabinets:  map[uuid.UUID]domain.Cabinet{},
		customers: map[uuid.UUID]domain.Customer{},
	}
}

func (s *Store) Catalog() domain.CatalogRepo    { return catalogRepo{s} }
func (s *Store) Projects() domain.ProjectRepo   { return projectRepo{s} }
func (s *Store) Rooms() domain.RoomRepo         { return roomRepo{s} }
func (s *Store) Cabinets() domain.CabinetRepo   { return cabinetRepo{s} }
func (s *Store) Customers() domain.CustomerRepo { return customerRepo{s} }

func stamp(created *time.Time, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

type catalogRepo struct{ s *Store }

func (r catalogRepo) List(_ context.Context, onlyActive bool) ([]domain.CabinetType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.CabinetType, 0, len(r.s.types))
	for _, t := range r.s.types {
		if onlyActive && !t.Active {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r catalogRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.CabinetType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.types[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r catalogRepo) FindByName(_ context.Context, name string) (*domain.CabinetType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.types {
		if strings.EqualFold(t.Name, name) {
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r catalogRepo) Save(_ context.Context, t *domain.CabinetType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	r.s.types[t.ID] = *t
	return nil
}

func (r catalogRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.types[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.types, id)
	return nil
}

type projectRepo struct{ s *Store }

func (r projectRepo) List(_ context.Context) ([]domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r projectRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Rooms = nil
	for _, room := range r.s.rooms {
		if room.ProjectID == id {
			p.Rooms = append(p.Rooms, r.s.roomWithWalls(room))
		}
	}
	sort.Slice(p.Rooms, func(i, j int) bool { return p.Rooms[i].CreatedAt.Before(p.Rooms[j].CreatedAt) })
	return &p, nil
}

func (r projectRepo) Save(_ context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	cp := *p
	cp.Rooms = nil
	r.s.projects[p.ID] = cp
	return nil
}

func (r projectRepo) UpdateStatus(_ context.Context, id uuid.UUID, st domain.ProjectStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = st
	r.s.projects[id] = p
	return nil
}

func (s *Store) roomWithWalls(room domain.Room) domain.Room {
	room.Walls = nil
	for _, w := range s.walls {
		if w.RoomID == room.ID {
			room.Walls = append(room.Walls, w)
		}
	}
	sort.Slice(room.Walls, func(i, j int) bool { return room.Walls[i].CreatedAt.Before(room.Walls[j].CreatedAt) })
	return room
}

type roomRepo struct{ s *Store }

func (r roomRepo) FindRoom(_ context.Context, id uuid.UUID) (*domain.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	room = r.s.roomWithWalls(room)
	return &room, nil
}

func (r roomRepo) SaveRoom(_ context.Context, room *domain.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stamp(&room.CreatedAt, &room.UpdatedAt)
	cp := *room
	cp.Walls = nil
	r.s.rooms[room.ID] = cp
	return nil
}

func (r roomRepo) FindWall(_ context.Context, id uuid.UUID) (*domain.Wall, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.walls[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

func (r roomRepo) SaveWall(_ context.Context, w *domain.Wall) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stamp(&w.CreatedAt, &w.UpdatedAt)
	r.s.walls[w.ID] = *w
	return nil
}

type cabinetRepo struct{ s *Store }

func (r cabinetRepo) ListByWall(_ context.Context, wallID uuid.UUID) ([]domain.Cabinet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Cabinet
	for _, c := range r.s.cabinets {
		if c.WallID == wallID {
			out = append(out, c)
		}
	}
	sortCabinets(out)
	return out, nil
}

func (r cabinetRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]domain.Cabinet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Cabinet
	for _, c := range r.s.cabinets {
		w, ok := r.s.walls[c.WallID]
		if !ok {
			continue
		}
		if room, ok := r.s.rooms[w.RoomID]; ok && room.ProjectID == projectID {
			out = append(out, c)
		}
	}
	sortCabinets(out)
	return out, nil
}

func (r cabinetRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Cabinet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cabinets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r cabinetRepo) Save(_ context.Context, c *domain.Cabinet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	r.s.cabinets[c.ID] = *c
	return nil
}

func (r cabinetRepo) SaveAll(_ context.Context, wallID uuid.UUID, list []domain.Cabinet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for i := range list {
		c := list[i]
		c.WallID = wallID
		stamp(&c.CreatedAt, &c.UpdatedAt)
		r.s.cabinets[c.ID] = c
	}
	return nil
}

func (r cabinetRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.cabinets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.cabinets, id)
	return nil
}

func sortCabinets(list []domain.Cabinet) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].GridStartX != list[j].GridStartX {
			return list[i].GridStartX < list[j].GridStartX
		}
		return list[i].GridStartY < list[j].GridStartY
	})
}

type customerRepo struct{ s *Store }

func (r customerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r customerRepo) Save(_ context.Context, c *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.s.customers[c.ID] = *c
	return nil
}
