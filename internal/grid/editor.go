package grid

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/cabinetry/internal/domain"
)

// NoRoomTimeout es cuánto dura visible el aviso de "no hay lugar".
const NoRoomTimeout = 3 * time.Second

var (
	ErrWallNotConfigured = errors.New("la pared no tiene largo configurado")
	ErrRoomHeight        = errors.New("el ambiente no tiene alto configurado")
	ErrNoRoom            = errors.New("no hay lugar libre para el gabinete")
	ErrDoesNotFit        = errors.New("el gabinete no entra en el alto del ambiente")
	ErrUnknownType       = errors.New("tipo de gabinete desconocido")
	ErrNotIdle           = errors.New("hay una interacción en curso")
	ErrZoneNotFound      = errors.New("zona no encontrada")
	ErrNoSelection       = errors.New("no hay zona seleccionada")
	ErrRenameActive      = errors.New("la zona se está renombrando")
)

// Sink recibe las intenciones de persistencia. UpdateCabinet y DeleteCabinet no bloquean al
// editor; SaveCabinets se espera.
type Sink interface {
	SaveCabinets(ctx context.Context, zones []Zone) error
	UpdateCabinet(zone Zone)
	DeleteCabinet(id ZoneID)
}

// Capture toma los listeners globales de puntero y devuelve la función que los libera.
type Capture func() (release func())

type Config struct {
	Wall     domain.Wall
	Room     domain.Room
	Types    []domain.CabinetType
	Cabinets []domain.Cabinet
	Mobile   bool
	Sink     Sink
	Capture  Capture
	Now      func() time.Time
	// Notify recibe la vista cuando el estado cambia durante una operación que bloquea, como
	// el inicio de un guardado.
	Notify   func(View)
}

type syncRequest struct {
	cabinets []domain.Cabinet
	types    []domain.CabinetType
}

// Editor mantiene las zonas de una pared y la máquina de estados de interacción.
// No es seguro para uso concurrente; el llamador serializa los eventos.
type Editor struct {
	wall    domain.Wall
	room    domain.Room
	dims    Dimensions
	catalog Catalog
	zones   []Zone
	nextID  int

	sink    Sink
	capture Capture
	release func()
	now     func() time.Time
	notify  func(View)

	gesture  gesture
	renaming *ZoneID
	buffer   string

	noRoomUntil time.Time
	deferred    *syncRequest
	saving      bool
}

func NewEditor(cfg Config) (*Editor, error) {
	if cfg.Wall.Length == nil || *cfg.Wall.Length <= 0 {
		return nil, ErrWallNotConfigured
	}
	if cfg.Room.Height <= 0 {
		return nil, ErrRoomHeight
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	e := &Editor{
		wall:    cfg.Wall,
		room:    cfg.Room,
		dims:    NewDimensions(*cfg.Wall.Length, cfg.Room.Height, cfg.Mobile),
		sink:    cfg.Sink,
		capture: cfg.Capture,
		now:     now,
		notify:  cfg.Notify,
		nextID:  1,
	}
	e.apply(syncRequest{cabinets: cfg.Cabinets, types: cfg.Types})
	return e, nil
}

func (e *Editor) Dimensions() Dimensions { return e.dims }

func (e *Editor) WallID() uuid.UUID { return e.wall.ID }

// Sync reemplaza las zonas con la lista de gabinetes recibida. Si hay un gesto en curso el
// reemplazo se aplica al soltar el puntero.
func (e *Editor) Sync(cabinets []domain.Cabinet, types []domain.CabinetType) {
	req := syncRequest{cabinets: cabinets, types: types}
	if e.gesture.mode != ModeIdle {
		e.deferred = &req
		return
	}
	e.apply(req)
}

func (e *Editor) apply(req syncRequest) {
	var selected *ZoneID
	if i := e.selectedIndex(); i >= 0 {
		id := e.zones[i].ID
		selected = &id
	}
	e.catalog = NewCatalog(req.types)
	e.zones = DeriveZones(req.cabinets, e.catalog)
	if next := maxPending(e.zones) + 1; next > e.nextID {
		e.nextID = next
	}
	if selected != nil {
		if i := e.indexOf(*selected); i >= 0 {
			e.zones[i].Selected = true
		}
	}
	if e.renaming != nil && e.indexOf(*e.renaming) < 0 {
		e.renaming, e.buffer = nil, ""
	}
}

// Save entrega todas las zonas al sink y espera el resultado.
func (e *Editor) Save(ctx context.Context) error {
	if e.sink == nil {
		return nil
	}
	e.saving = true
	defer func() { e.saving = false }()
	if e.notify != nil {
		e.notify(e.Snapshot())
	}
	return e.sink.SaveCabinets(ctx, e.Zones())
}

func (e *Editor) Zones() []Zone {
	out := make([]Zone, len(e.zones))
	copy(out, e.zones)
	return out
}

func (e *Editor) Zone(id ZoneID) (Zone, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return Zone{}, false
	}
	return e.zones[i], true
}

func (e *Editor) NoRoomError() bool {
	return e.now().Before(e.noRoomUntil)
}

func (e *Editor) Mode() Mode { return e.gesture.mode }

// View es una foto inmutable del estado del editor, lista para serializar.
type View struct {
	WallID       uuid.UUID  `json:"wall_id"`
	WallLength   string     `json:"wall_length"`
	RoomHeight   string     `json:"room_height"`
	CellsPerFoot int        `json:"cells_per_foot"`
	Grid         Dimensions `json:"grid"`
	Zones        []Zone     `json:"zones"`
	Mode         Mode       `json:"mode"`
	ActiveZone   *ZoneID    `json:"active_zone,omitempty"`
	Renaming     *ZoneID    `json:"renaming,omitempty"`
	RenameBuffer string     `json:"rename_buffer,omitempty"`
	NoRoomError  bool       `json:"no_room_error"`
	Saving       bool       `json:"saving"`
	PendingSync  bool       `json:"pending_sync"`
}

func (e *Editor) Snapshot() View {
	v := View{
		WallID:       e.wall.ID,
		WallLength:   FormatFeet(*e.wall.Length),
		RoomHeight:   FormatFeet(e.room.Height),
		CellsPerFoot: CellsPerFoot,
		Grid:         e.dims,
		Zones:        e.Zones(),
		Mode:         e.gesture.mode,
		NoRoomError:  e.NoRoomError(),
		Saving:       e.saving,
		PendingSync:  e.deferred != nil,
	}
	if e.gesture.mode != ModeIdle {
		id := e.gesture.zone
		v.ActiveZone = &id
	}
	if e.renaming != nil {
		id := *e.renaming
		v.Renaming = &id
		v.RenameBuffer = e.buffer
	}
	return v
}

func (e *Editor) indexOf(id ZoneID) int {
	for i := range e.zones {
		if e.zones[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) selectedIndex() int {
	for i := range e.zones {
		if e.zones[i].Selected {
			return i
		}
	}
	return -1
}

func (e *Editor) checkCollision(r Rect, ignore *ZoneID) bool {
	return collides(e.zones, r, ignore)
}

func (e *Editor) emitUpdate(z Zone) {
	if e.sink != nil {
		e.sink.UpdateCabinet(z)
	}
}
