package grid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AutoPlace busca el primer hueco libre (de izquierda a derecha) para un gabinete del tipo dado,
// con el borde inferior fijado en el BaseOffset del tipo. La zona nueva queda local con un id
// placeholder y seleccionada; se persiste recién con Save.
func (e *Editor) AutoPlace(typeID uuid.UUID) (Zone, error) {
	if e.gesture.mode != ModeIdle {
		return Zone{}, ErrNotIdle
	}
	t, ok := e.catalog.Lookup(&typeID)
	if !ok {
		return Zone{}, ErrUnknownType
	}

	width := FeetToCells(t.MinWidth)
	height := FeetToCells(t.MinHeight)
	startY := e.dims.Rows - FeetToCells(t.BaseOffset) - height
	if width < 1 || height < 1 || startY < 0 || startY+height > e.dims.Rows {
		log.Warn().Str("type", t.Name).Int("start_y", startY).Int("height", height).Msg("el tipo no entra en el alto del ambiente")
		e.flagNoRoom()
		return Zone{}, ErrDoesNotFit
	}

	for x := 0; x <= e.dims.Cols-width; x++ {
		r := Rect{
			Start: Point{X: x, Y: startY},
			End:   Point{X: x + width - 1, Y: startY + height - 1},
		}
		if e.checkCollision(r, nil) {
			continue
		}
		tid := t.ID
		z := Zone{
			ID:       Pending(e.nextID),
			Name:     e.nextName(t.Name, tid),
			TypeID:   &tid,
			Start:    r.Start,
			End:      r.End,
			Color:    t.Color,
			TypeInfo: t,
			WallID:   e.wall.ID,
		}
		e.zones = append(e.zones, z)
		e.selectIndex(len(e.zones) - 1)
		e.nextID++
		return e.zones[len(e.zones)-1], nil
	}

	log.Info().Str("type", t.Name).Int("cols", e.dims.Cols).Msg("sin lugar para auto-ubicar")
	e.flagNoRoom()
	return Zone{}, ErrNoRoom
}

// flagNoRoom arma (o re-arma) el aviso temporal.
func (e *Editor) flagNoRoom() {
	e.noRoomUntil = e.now().Add(NoRoomTimeout)
}

func (e *Editor) nextName(typeName string, typeID uuid.UUID) string {
	n := 1
	for _, z := range e.zones {
		if z.TypeID != nil && *z.TypeID == typeID {
			n++
		}
	}
	return fmt.Sprintf("%s %d", typeName, n)
}
