package grid

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/domain"
)

// UnknownType reemplaza referencias al catálogo faltantes o viejas.
var UnknownType = domain.CabinetType{
	Name:   "Unknown",
	Color:  "#9ca3af",
	Active: false,
}

type Catalog map[uuid.UUID]domain.CabinetType

func NewCatalog(types []domain.CabinetType) Catalog {
	c := make(Catalog, len(types))
	for _, t := range types {
		c[t.ID] = t
	}
	return c
}

func (c Catalog) Lookup(id *uuid.UUID) (domain.CabinetType, bool) {
	if id == nil || *id == uuid.Nil {
		return domain.CabinetType{}, false
	}
	t, ok := c[*id]
	return t, ok
}

// DeriveZones proyecta los gabinetes persistidos en la grilla. Los que no tienen pared se descartan.
func DeriveZones(cabinets []domain.Cabinet, catalog Catalog) []Zone {
	zones := make([]Zone, 0, len(cabinets))
	for _, c := range cabinets {
		if c.WallID == uuid.Nil {
			log.Warn().Str("cabinet_id", c.ID.String()).Msg("cabinet sin pared, se omite")
			continue
		}
		t, ok := catalog.Lookup(c.TypeID)
		if !ok {
			ev := log.Warn().Str("cabinet_id", c.ID.String())
			if c.TypeID != nil {
				ev = ev.Str("type_id", c.TypeID.String())
			}
			ev.Msg("tipo de gabinete desconocido, usando fallback")
			t = UnknownType
		}
		zones = append(zones, Zone{
			ID:       Persisted(c.ID),
			Name:     c.Name,
			TypeID:   c.TypeID,
			Start:    Point{X: c.GridStartX, Y: c.GridStartY},
			End:      Point{X: c.GridEndX, Y: c.GridEndY},
			Color:    t.Color,
			TypeInfo: t,
			WallID:   c.WallID,
		})
	}
	return zones
}

func maxPending(zones []Zone) int {
	m := 0
	for _, z := range zones {
		if z.ID.pending > m {
			m = z.ID.pending
		}
	}
	return m
}
