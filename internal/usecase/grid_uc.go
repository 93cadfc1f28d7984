package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/grid"
)

var ErrSessionNotFound = errors.New("sesión de grilla no encontrada")

// writeQueue es el tamaño de la cola de escrituras por sesión.
const writeQueue = 64

// PointerEvent es un evento crudo de puntero tal como llega del cliente.
type PointerEvent struct {
	Type   string  `json:"type" validate:"required,oneof=down move up cancel leave"`
	Zone   string  `json:"zone,omitempty"`
	Handle string  `json:"handle,omitempty" validate:"omitempty,oneof=horizontal vertical"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// GridSession es un editor abierto sobre una pared. Todo acceso pasa por mu.
type GridSession struct {
	ID     uuid.UUID
	WallID uuid.UUID

	mu       sync.Mutex
	editor   *grid.Editor
	lastSeen time.Time
	subs     map[int]chan grid.View
	nextSub  int

	// writes se drena en orden por una sola goroutine; flushed se cierra cuando termina.
	writes  chan func()
	flushed chan struct{}
}

type GridUC struct {
	Catalog  domain.CatalogRepo
	Rooms    domain.RoomRepo
	Cabinets domain.CabinetRepo

	// Dispatch reemplaza la cola de escrituras de la sesión. Los tests lo usan para correrlas
	// en línea.
	Dispatch func(func())
	// WriteTimeout acota cada escritura individual disparada por un gesto.
	WriteTimeout time.Duration
	Now          func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*GridSession
}

func (uc *GridUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// dispatch encola una escritura de la sesión. Se llama con s.mu tomado.
func (uc *GridUC) dispatch(s *GridSession, f func()) {
	if uc.Dispatch != nil {
		uc.Dispatch(f)
		return
	}
	if s.writes == nil {
		log.Warn().Str("session", s.ID.String()).Msg("sesión cerrada, se descarta escritura")
		return
	}
	s.writes <- f
}

func (s *GridSession) startWriter() {
	s.writes = make(chan func(), writeQueue)
	s.flushed = make(chan struct{})
	go func() {
		defer close(s.flushed)
		for job := range s.writes {
			job()
		}
	}()
}

// Open carga pared, ambiente, catálogo y gabinetes y crea una sesión de edición.
func (uc *GridUC) Open(ctx context.Context, wallID uuid.UUID, mobile bool) (uuid.UUID, grid.View, error) {
	wall, err := uc.Rooms.FindWall(ctx, wallID)
	if err != nil {
		return uuid.Nil, grid.View{}, err
	}
	room, err := uc.Rooms.FindRoom(ctx, wall.RoomID)
	if err != nil {
		return uuid.Nil, grid.View{}, fmt.Errorf("ambiente de la pared: %w", err)
	}
	types, err := uc.Catalog.List(ctx, false)
	if err != nil {
		return uuid.Nil, grid.View{}, err
	}
	cabinets, err := uc.Cabinets.ListByWall(ctx, wallID)
	if err != nil {
		return uuid.Nil, grid.View{}, err
	}

	s := &GridSession{ID: uuid.New(), WallID: wallID, lastSeen: uc.now(), subs: map[int]chan grid.View{}}
	editor, err := grid.NewEditor(grid.Config{
		Wall:     *wall,
		Room:     *room,
		Types:    types,
		Cabinets: cabinets,
		Mobile:   mobile,
		Sink:     &cabinetSink{uc: uc, session: s, wallID: wallID},
		Capture:  captureLogger(s.ID),
		Now:      uc.Now,
		Notify:   s.publish,
	})
	if err != nil {
		return uuid.Nil, grid.View{}, err
	}
	s.editor = editor
	s.startWriter()

	uc.mu.Lock()
	if uc.sessions == nil {
		uc.sessions = map[uuid.UUID]*GridSession{}
	}
	uc.sessions[s.ID] = s
	uc.mu.Unlock()

	log.Info().Str("session", s.ID.String()).Str("wall_id", wallID.String()).Int("zones", len(cabinets)).Msg("sesión de grilla abierta")
	return s.ID, editor.Snapshot(), nil
}

func captureLogger(sid uuid.UUID) grid.Capture {
	return func() func() {
		log.Debug().Str("session", sid.String()).Msg("captura de puntero tomada")
		return func() {
			log.Debug().Str("session", sid.String()).Msg("captura de puntero liberada")
		}
	}
}

func (uc *GridUC) session(id uuid.UUID) (*GridSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s, ok := uc.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// with ejecuta f con la sesión bloqueada y publica la vista resultante a los suscriptores.
func (uc *GridUC) with(id uuid.UUID, f func(e *grid.Editor) error) (grid.View, error) {
	s, err := uc.session(id)
	if err != nil {
		return grid.View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = uc.now()
	ferr := f(s.editor)
	v := s.editor.Snapshot()
	s.publish(v)
	return v, ferr
}

func (uc *GridUC) View(id uuid.UUID) (grid.View, error) {
	return uc.with(id, func(*grid.Editor) error { return nil })
}

// AutoPlace solo acepta tipos activos del catálogo.
func (uc *GridUC) AutoPlace(ctx context.Context, id, typeID uuid.UUID) (grid.View, error) {
	t, err := uc.Catalog.FindByID(ctx, typeID)
	if err != nil {
		return grid.View{}, err
	}
	if !t.Active {
		return grid.View{}, fmt.Errorf("%w: tipo %q inactivo", domain.ErrInvalid, t.Name)
	}
	return uc.with(id, func(e *grid.Editor) error {
		_, err := e.AutoPlace(typeID)
		return err
	})
}

func (uc *GridUC) Select(id uuid.UUID, zone grid.ZoneID) (grid.View, error) {
	return uc.with(id, func(e *grid.Editor) error { return e.Select(zone) })
}

func (uc *GridUC) Deselect(id uuid.UUID) (grid.View, error) {
	return uc.with(id, func(e *grid.Editor) error {
		e.ClearSelection()
		return nil
	})
}

// Rename recorre begin/edit/commit en un solo paso. Un nombre vacío no cambia nada.
func (uc *GridUC) Rename(id uuid.UUID, zone grid.ZoneID, name string) (grid.View, error) {
	return uc.with(id, func(e *grid.Editor) error {
		if err := e.BeginRename(zone); err != nil {
			return err
		}
		e.EditRename(name)
		e.CommitRename()
		return nil
	})
}

// Delete borra la zona indicada, o la seleccionada si zone es cero.
func (uc *GridUC) Delete(id uuid.UUID, zone grid.ZoneID) (grid.View, error) {
	return uc.with(id, func(e *grid.Editor) error {
		if !zone.IsZero() {
			if err := e.Select(zone); err != nil {
				return err
			}
		}
		_, err := e.DeleteSelected()
		return err
	})
}

func (uc *GridUC) Pointer(id uuid.UUID, ev PointerEvent) (grid.View, error) {
	return uc.with(id, func(e *grid.Editor) error {
		switch ev.Type {
		case "down":
			zid, err := grid.ParseZoneID(ev.Zone)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
			}
			axis, err := grid.ParseAxis(ev.Handle)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
			}
			return e.PointerDown(grid.PointerDown{Zone: zid, Handle: axis, X: ev.X, Y: ev.Y})
		case "move":
			e.PointerMove(ev.X, ev.Y)
		case "up", "cancel", "leave":
			e.PointerUp()
		default:
			return fmt.Errorf("%w: evento %q", domain.ErrInvalid, ev.Type)
		}
		return nil
	})
}

// Save persiste todas las zonas y resincroniza el editor con lo que quedó guardado.
func (uc *GridUC) Save(ctx context.Context, id uuid.UUID) (grid.View, error) {
	s, err := uc.session(id)
	if err != nil {
		return grid.View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = uc.now()

	if err := s.editor.Save(ctx); err != nil {
		log.Error().Err(err).Str("session", id.String()).Msg("guardar gabinetes")
		return s.editor.Snapshot(), err
	}
	types, err := uc.Catalog.List(ctx, false)
	if err != nil {
		return s.editor.Snapshot(), err
	}
	cabinets, err := uc.Cabinets.ListByWall(ctx, s.WallID)
	if err != nil {
		return s.editor.Snapshot(), err
	}
	s.editor.Sync(cabinets, types)
	v := s.editor.Snapshot()
	s.publish(v)
	return v, nil
}

// Elevation devuelve la vista actual para dibujar la elevación de la pared.
func (uc *GridUC) Elevation(id uuid.UUID) (grid.View, error) {
	return uc.View(id)
}

func (uc *GridUC) Close(id uuid.UUID) error {
	uc.mu.Lock()
	s, ok := uc.sessions[id]
	delete(uc.sessions, id)
	uc.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.shutdown()
	return nil
}

// Sweep cierra las sesiones sin actividad desde hace más de maxIdle.
func (uc *GridUC) Sweep(maxIdle time.Duration) int {
	cutoff := uc.now().Add(-maxIdle)
	var stale []*GridSession
	uc.mu.Lock()
	for id, s := range uc.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			stale = append(stale, s)
			delete(uc.sessions, id)
		}
	}
	uc.mu.Unlock()
	for _, s := range stale {
		s.shutdown()
	}
	if len(stale) > 0 {
		log.Info().Int("sesiones", len(stale)).Msg("sesiones de grilla vencidas")
	}
	return len(stale)
}

// Subscribe devuelve un canal con cada vista publicada y la función para cancelar.
func (uc *GridUC) Subscribe(id uuid.UUID) (<-chan grid.View, func(), error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		return nil, nil, ErrSessionNotFound
	}
	ch := make(chan grid.View, 16)
	key := s.nextSub
	s.nextSub++
	s.subs[key] = ch
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[key]; ok {
			delete(s.subs, key)
			close(c)
		}
	}
	return ch, cancel, nil
}

// publish se llama con s.mu tomado.
func (s *GridSession) publish(v grid.View) {
	for key, ch := range s.subs {
		select {
		case ch <- v:
		default:
			log.Warn().Str("session", s.ID.String()).Int("sub", key).Msg("suscriptor lento, se descarta vista")
		}
	}
}

// shutdown cierra los suscriptores y espera a que se apliquen las escrituras encoladas.
func (s *GridSession) shutdown() {
	s.mu.Lock()
	for key, ch := range s.subs {
		close(ch)
		delete(s.subs, key)
	}
	s.subs = nil
	if s.writes != nil {
		close(s.writes)
		s.writes = nil
	}
	flushed := s.flushed
	s.mu.Unlock()

	if flushed != nil {
		<-flushed
	}
}
