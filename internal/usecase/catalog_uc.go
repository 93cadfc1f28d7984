package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/domain"
)

type CatalogUC struct {
	Types domain.CatalogRepo
}

func (uc *CatalogUC) List(ctx context.Context, onlyActive bool) ([]domain.CabinetType, error) {
	return uc.Types.List(ctx, onlyActive)
}

func (uc *CatalogUC) Get(ctx context.Context, id uuid.UUID) (*domain.CabinetType, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: id vacío", domain.ErrInvalid)
	}
	return uc.Types.FindByID(ctx, id)
}

func (uc *CatalogUC) Create(ctx context.Context, t *domain.CabinetType) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return err
	}
	if _, err := uc.Types.FindByName(ctx, t.Name); err == nil {
		return fmt.Errorf("%w: ya existe un tipo %q", domain.ErrInvalid, t.Name)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return uc.Types.Save(ctx, t)
}

func (uc *CatalogUC) Update(ctx context.Context, t *domain.CabinetType) error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: id vacío", domain.ErrInvalid)
	}
	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return err
	}
	cur, err := uc.Types.FindByID(ctx, t.ID)
	if err != nil {
		return err
	}
	t.CreatedAt = cur.CreatedAt
	return uc.Types.Save(ctx, t)
}

func (uc *CatalogUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: id vacío", domain.ErrInvalid)
	}
	return uc.Types.Delete(ctx, id)
}

// ImportRow es una fila leída de la planilla de catálogo, con su número de fila original.
type ImportRow struct {
	Row  int
	Type domain.CabinetType
	Err  error
}

type RowError struct {
	Row   int    `json:"row"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

type ImportReport struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

// Import hace upsert por nombre. Una fila inválida no frena al resto.
func (uc *CatalogUC) Import(ctx context.Context, rows []ImportRow) (ImportReport, error) {
	rep := ImportReport{Errors: []RowError{}}
	for _, r := range rows {
		t := r.Type
		t.Name = strings.TrimSpace(t.Name)
		if r.Err != nil {
			rep.Errors = append(rep.Errors, RowError{Row: r.Row, Name: t.Name, Error: r.Err.Error()})
			continue
		}
		if err := t.Validate(); err != nil {
			rep.Errors = append(rep.Errors, RowError{Row: r.Row, Name: t.Name, Error: err.Error()})
			continue
		}
		cur, err := uc.Types.FindByName(ctx, t.Name)
		switch {
		case err == nil:
			t.ID, t.CreatedAt = cur.ID, cur.CreatedAt
			if err := uc.Types.Save(ctx, &t); err != nil {
				return rep, err
			}
			rep.Updated++
		case errors.Is(err, domain.ErrNotFound):
			t.ID = uuid.New()
			if err := uc.Types.Save(ctx, &t); err != nil {
				return rep, err
			}
			rep.Created++
		default:
			return rep, err
		}
	}
	log.Info().Int("creados", rep.Created).Int("actualizados", rep.Updated).Int("errores", len(rep.Errors)).Msg("import de catálogo")
	return rep, nil
}

// DefaultCatalog es el catálogo inicial que carga migrate cuando la tabla está vacía.
func DefaultCatalog() []domain.CabinetType {
	f := func(v float64) *float64 { return &v }
	return []domain.CabinetType{
		{Name: "Base", MinWidth: 1, MaxWidth: f(4), MinHeight: 3, MaxHeight: f(3), BaseOffset: 0, Color: "#2563eb", Active: true},
		{Name: "Wall", MinWidth: 1, MaxWidth: f(4), MinHeight: 2.5, MaxHeight: f(3.5), BaseOffset: 4.5, Color: "#f59e0b", Active: true},
		{Name: "Tall", MinWidth: 1.5, MaxWidth: f(3), MinHeight: 7, MaxHeight: f(8), BaseOffset: 0, Color: "#16a34a", Active: true},
		{Name: "Pantry", MinWidth: 2, MaxWidth: f(3), MinHeight: 7, BaseOffset: 0, Color: "#9333ea", Active: true},
	}
}

// Seed carga DefaultCatalog si no hay ningún tipo cargado.
func (uc *CatalogUC) Seed(ctx context.Context) (int, error) {
	cur, err := uc.Types.List(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(cur) > 0 {
		return 0, nil
	}
	n := 0
	for _, t := range DefaultCatalog() {
		if err := uc.Create(ctx, &t); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
