package grid

import (
	"fmt"
	"math"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	default:
		return "idle"
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Axis identifica el handle de resize sobre el que empezó el gesto; vacío = cuerpo de la zona.
type Axis string

const (
	AxisNone       Axis = ""
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
)

func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case AxisNone, AxisHorizontal, AxisVertical:
		return Axis(s), nil
	}
	return AxisNone, fmt.Errorf("handle %q inválido", s)
}

// PointerDown es un pointerdown/touchstart sobre una zona, en coordenadas de pantalla.
type PointerDown struct {
	Zone   ZoneID
	Handle Axis
	X, Y   float64
}

type gesture struct {
	mode             Mode
	zone             ZoneID
	axis             Axis
	originX, originY float64
	baseStart        Point
	baseWidth        int
	baseHeight       int
	baseRect         Rect
}

// setMode es el único punto de transición: al salir de idle toma la captura de puntero y al
// volver a idle la libera, sin importar el camino de salida.
func (e *Editor) setMode(m Mode) {
	prev := e.gesture.mode
	if prev == m {
		return
	}
	e.gesture.mode = m
	switch {
	case prev == ModeIdle:
		if e.capture != nil {
			e.release = e.capture()
		}
	case m == ModeIdle:
		if e.release != nil {
			e.release()
			e.release = nil
		}
	}
}

// Captured indica si los listeners globales de move/up están activos.
func (e *Editor) Captured() bool { return e.gesture.mode != ModeIdle }

func (e *Editor) PointerDown(ev PointerDown) error {
	if e.gesture.mode != ModeIdle {
		return ErrNotIdle
	}
	if e.renaming != nil && *e.renaming == ev.Zone {
		return ErrRenameActive
	}
	i := e.indexOf(ev.Zone)
	if i < 0 {
		return ErrZoneNotFound
	}
	if !e.zones[i].Selected {
		e.selectIndex(i)
	}
	z := e.zones[i]
	g := gesture{
		zone:     z.ID,
		originX:  ev.X,
		originY:  ev.Y,
		baseRect: z.Rect(),
	}
	mode := ModeDragging
	if ev.Handle == AxisHorizontal || ev.Handle == AxisVertical {
		mode = ModeResizing
		g.axis = ev.Handle
		g.baseWidth = z.Width()
		g.baseHeight = z.Height()
	} else {
		g.baseStart = z.Start
	}
	e.gesture = g
	e.setMode(mode)
	return nil
}

// PointerMove recalcula la zona activa desde la línea base del gesto. Un candidato que choca
// con otra zona se descarta y la zona queda en su último estado válido.
func (e *Editor) PointerMove(x, y float64) {
	if !e.Captured() {
		return
	}
	i := e.indexOf(e.gesture.zone)
	if i < 0 {
		return
	}
	z := e.zones[i]
	dx := e.cellDelta(x - e.gesture.originX)
	dy := e.cellDelta(y - e.gesture.originY)

	cand := z
	switch {
	case e.gesture.mode == ModeResizing && e.gesture.axis == AxisHorizontal:
		lo, hi := e.widthBounds(z)
		w := clamp(e.gesture.baseWidth+dx, lo, hi)
		w = min(w, e.dims.Cols-cand.Start.X)
		if w < 1 {
			return
		}
		cand.End.X = cand.Start.X + w - 1
	case e.gesture.mode == ModeResizing && e.gesture.axis == AxisVertical:
		lo, hi := e.heightBounds(z)
		h := clamp(e.gesture.baseHeight-dy, lo, hi)
		h = min(h, cand.End.Y+1)
		if h < 1 {
			return
		}
		cand.Start.Y = cand.End.Y - h + 1
	case e.gesture.mode == ModeDragging:
		w := z.Width()
		// más ancha que la pared (se acortó después de ubicarla): no hay posición válida
		if w > e.dims.Cols {
			return
		}
		nx := clamp(e.gesture.baseStart.X+dx, 0, e.dims.Cols-w)
		cand.Start.X = nx
		cand.End.X = nx + w - 1
	}
	if cand.Rect() == z.Rect() {
		return
	}
	if e.checkCollision(cand.Rect(), &z.ID) {
		return
	}
	e.zones[i] = cand
}

// PointerUp cubre pointerup, touchend, pointercancel y mouseleave.
func (e *Editor) PointerUp() {
	if !e.Captured() {
		return
	}
	if i := e.indexOf(e.gesture.zone); i >= 0 && e.zones[i].Rect() != e.gesture.baseRect {
		e.emitUpdate(e.zones[i])
	}
	e.gesture = gesture{mode: e.gesture.mode}
	e.setMode(ModeIdle)
	if e.deferred != nil {
		req := *e.deferred
		e.deferred = nil
		e.apply(req)
	}
}

func (e *Editor) cellDelta(px float64) int {
	if e.dims.CellSize <= 0 {
		return 0
	}
	return int(math.Round(px / float64(e.dims.CellSize)))
}

func (e *Editor) widthBounds(z Zone) (int, int) {
	lo := max(FeetToCells(z.TypeInfo.MinWidth), 1)
	hi := e.dims.Cols
	if z.TypeInfo.MaxWidth != nil {
		hi = FeetToCells(*z.TypeInfo.MaxWidth)
	}
	return lo, max(hi, lo)
}

func (e *Editor) heightBounds(z Zone) (int, int) {
	lo := max(FeetToCells(z.TypeInfo.MinHeight), 1)
	hi := e.dims.Rows
	if z.TypeInfo.MaxHeight != nil {
		hi = FeetToCells(*z.TypeInfo.MaxHeight)
	}
	return lo, max(hi, lo)
}
