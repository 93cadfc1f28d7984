package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/grid"
)

type ProjectUC struct {
	Projects  domain.ProjectRepo
	Rooms     domain.RoomRepo
	Cabinets  domain.CabinetRepo
	Catalog   domain.CatalogRepo
	Customers domain.CustomerRepo
}

func (uc *ProjectUC) List(ctx context.Context) ([]domain.Project, error) {
	return uc.Projects.List(ctx)
}

func (uc *ProjectUC) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: id vacío", domain.ErrInvalid)
	}
	return uc.Projects.FindByID(ctx, id)
}

type NewProject struct {
	Name          string `json:"name" validate:"required,max=180"`
	Address       string `json:"address" validate:"max=255"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	CustomerName  string `json:"customer_name" validate:"max=140"`
}

// Create da de alta el proyecto en draft. Si viene un email reutiliza o crea el cliente.
func (uc *ProjectUC) Create(ctx context.Context, in NewProject) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de proyecto vacío", domain.ErrInvalid)
	}
	p := &domain.Project{ID: uuid.New(), Name: name, Address: in.Address, Status: domain.ProjectStatusDraft}
	if email := strings.ToLower(strings.TrimSpace(in.CustomerEmail)); email != "" && uc.Customers != nil {
		c, err := uc.Customers.FindByEmail(ctx, email)
		if errors.Is(err, domain.ErrNotFound) {
			c = &domain.Customer{ID: uuid.New(), Email: email, Name: in.CustomerName}
			err = uc.Customers.Save(ctx, c)
		}
		if err != nil {
			return nil, err
		}
		p.CustomerID = &c.ID
	}
	if err := uc.Projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProjectUC) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.ProjectStatus) (*domain.Project, error) {
	p, err := uc.Projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: no se puede pasar de %s a %s", domain.ErrInvalid, p.Status, to)
	}
	if err := uc.Projects.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	log.Info().Str("project_id", id.String()).Str("from", string(p.Status)).Str("to", string(to)).Msg("estado de proyecto")
	p.Status = to
	return p, nil
}

func (uc *ProjectUC) AddRoom(ctx context.Context, projectID uuid.UUID, r *domain.Room) error {
	if _, err := uc.Projects.FindByID(ctx, projectID); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("%w: nombre de ambiente vacío", domain.ErrInvalid)
	}
	if r.Height < 0 {
		return fmt.Errorf("%w: alto negativo", domain.ErrInvalid)
	}
	r.ID = uuid.New()
	r.ProjectID = projectID
	r.Walls = nil
	return uc.Rooms.SaveRoom(ctx, r)
}

func (uc *ProjectUC) AddWall(ctx context.Context, roomID uuid.UUID, w *domain.Wall) error {
	if _, err := uc.Rooms.FindRoom(ctx, roomID); err != nil {
		return err
	}
	if w.Length != nil && *w.Length <= 0 {
		return fmt.Errorf("%w: largo de pared inválido", domain.ErrInvalid)
	}
	w.ID = uuid.New()
	w.RoomID = roomID
	return uc.Rooms.SaveWall(ctx, w)
}

// UpdateWall cambia nombre y/o largo. Un largo nil deja la pared sin configurar.
func (uc *ProjectUC) UpdateWall(ctx context.Context, id uuid.UUID, name *string, length *float64) (*domain.Wall, error) {
	w, err := uc.Rooms.FindWall(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		w.Name = strings.TrimSpace(*name)
	}
	if length != nil {
		if *length <= 0 {
			return nil, fmt.Errorf("%w: largo de pared inválido", domain.ErrInvalid)
		}
		w.Length = length
	}
	if err := uc.Rooms.SaveWall(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (uc *ProjectUC) WallCabinets(ctx context.Context, wallID uuid.UUID) ([]domain.Cabinet, error) {
	if _, err := uc.Rooms.FindWall(ctx, wallID); err != nil {
		return nil, err
	}
	return uc.Cabinets.ListByWall(ctx, wallID)
}

type CabinetDetails struct {
	DoorMaterial       *string `json:"door_material" validate:"omitempty,max=60"`
	ConstructionMethod *string `json:"construction_method" validate:"omitempty,max=60"`
	Finish             *string `json:"finish" validate:"omitempty,max=60"`
	Notes              *string `json:"notes"`
}

// UpdateCabinetDetails cambia solo campos de negocio, nunca la geometría.
func (uc *ProjectUC) UpdateCabinetDetails(ctx context.Context, id uuid.UUID, d CabinetDetails) (*domain.Cabinet, error) {
	c, err := uc.Cabinets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.DoorMaterial != nil {
		c.DoorMaterial = *d.DoorMaterial
	}
	if d.ConstructionMethod != nil {
		c.ConstructionMethod = *d.ConstructionMethod
	}
	if d.Finish != nil {
		c.Finish = *d.Finish
	}
	if d.Notes != nil {
		c.Notes = *d.Notes
	}
	if err := uc.Cabinets.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CutListRow es una línea de la lista de corte, con medidas ya formateadas.
type CutListRow struct {
	Room               string
	Wall               string
	Cabinet            string
	Type               string
	Width              string
	Height             string
	FromFloor          string
	DoorMaterial       string
	ConstructionMethod string
	Finish             string
	Notes              string
}

// CutList arma la lista de corte de todo el proyecto, ordenada por ambiente, pared y posición.
func (uc *ProjectUC) CutList(ctx context.Context, projectID uuid.UUID) (*domain.Project, []CutListRow, error) {
	p, err := uc.Projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	cabinets, err := uc.Cabinets.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	types, err := uc.Catalog.List(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	catalog := grid.NewCatalog(types)

	type wallRef struct {
		room  domain.Room
		wall  domain.Wall
		order int
	}
	walls := map[uuid.UUID]wallRef{}
	order := 0
	for _, r := range p.Rooms {
		for _, w := range r.Walls {
			walls[w.ID] = wallRef{room: r, wall: w, order: order}
			order++
		}
	}

	sort.SliceStable(cabinets, func(i, j int) bool {
		wi, wj := walls[cabinets[i].WallID].order, walls[cabinets[j].WallID].order
		if wi != wj {
			return wi < wj
		}
		return cabinets[i].GridStartX < cabinets[j].GridStartX
	})

	rows := make([]CutListRow, 0, len(cabinets))
	for _, c := range cabinets {
		ref, ok := walls[c.WallID]
		if !ok {
			log.Warn().Str("cabinet_id", c.ID.String()).Msg("gabinete fuera del proyecto, se omite de la lista de corte")
			continue
		}
		typ, found := catalog.Lookup(c.TypeID)
		if !found {
			typ = grid.UnknownType
		}
		roomRows := grid.FeetToCells(ref.room.Height)
		rows = append(rows, CutListRow{
			Room:               ref.room.Name,
			Wall:               ref.wall.Name,
			Cabinet:            c.Name,
			Type:               typ.Name,
			Width:              grid.FormatDim(c.GridEndX - c.GridStartX + 1),
			Height:             grid.FormatDim(c.GridEndY - c.GridStartY + 1),
			FromFloor:          grid.FormatDim(max(roomRows-1-c.GridEndY, 0)),
			DoorMaterial:       c.DoorMaterial,
			ConstructionMethod: c.ConstructionMethod,
			Finish:             c.Finish,
			Notes:              c.Notes,
		})
	}
	return p, rows, nil
}
