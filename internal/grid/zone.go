package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/cabinetry/internal/domain"
)

const pendingPrefix = "new-"

// ZoneID es el id de un gabinete persistido o un placeholder local (new-N) aún sin guardar.
// El valor cero es inválido.
type ZoneID struct {
	cabinet uuid.UUID
	pending int
}

func Persisted(id uuid.UUID) ZoneID { return ZoneID{cabinet: id} }

func Pending(n int) ZoneID { return ZoneID{pending: n} }

func (z ZoneID) IsPending() bool { return z.pending > 0 }

func (z ZoneID) IsZero() bool { return z.pending == 0 && z.cabinet == uuid.Nil }

// CabinetID devuelve el id persistido; ok es false para placeholders.
func (z ZoneID) CabinetID() (uuid.UUID, bool) {
	if z.IsPending() || z.cabinet == uuid.Nil {
		return uuid.Nil, false
	}
	return z.cabinet, true
}

func (z ZoneID) String() string {
	if z.IsPending() {
		return pendingPrefix + strconv.Itoa(z.pending)
	}
	if z.cabinet == uuid.Nil {
		return ""
	}
	return z.cabinet.String()
}

func ParseZoneID(s string) (ZoneID, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, pendingPrefix); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return ZoneID{}, fmt.Errorf("zone id %q: placeholder inválido", s)
		}
		return Pending(n), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return ZoneID{}, fmt.Errorf("zone id %q: %w", s, err)
	}
	if id == uuid.Nil {
		return ZoneID{}, fmt.Errorf("zone id %q: uuid nulo", s)
	}
	return Persisted(id), nil
}

func (z ZoneID) MarshalText() ([]byte, error) { return []byte(z.String()), nil }

func (z *ZoneID) UnmarshalText(b []byte) error {
	id, err := ParseZoneID(string(b))
	if err != nil {
		return err
	}
	*z = id
	return nil
}

// Zone es la proyección editable de un gabinete sobre la grilla.
type Zone struct {
	ID       ZoneID             `json:"id"`
	Name     string             `json:"name"`
	TypeID   *uuid.UUID         `json:"type_id,omitempty"`
	Start    Point              `json:"start"`
	End      Point              `json:"end"`
	Color    string             `json:"color"`
	TypeInfo domain.CabinetType `json:"type_info"`
	WallID   uuid.UUID          `json:"wall_id"`
	Selected bool               `json:"is_selected"`
}

func (z Zone) Rect() Rect { return Rect{Start: z.Start, End: z.End} }

func (z Zone) Width() int  { return z.Rect().Width() }
func (z Zone) Height() int { return z.Rect().Height() }

// Cabinet convierte la zona a su forma persistida. Los campos de negocio quedan vacíos,
// el llamador los completa desde la fila guardada.
func (z Zone) Cabinet() domain.Cabinet {
	id, _ := z.ID.CabinetID()
	return domain.Cabinet{
		ID:         id,
		WallID:     z.WallID,
		TypeID:     z.TypeID,
		Name:       z.Name,
		GridStartX: z.Start.X,
		GridStartY: z.Start.Y,
		GridEndX:   z.End.X,
		GridEndY:   z.End.Y,
	}
}
