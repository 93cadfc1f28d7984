package grid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/cabinetry/internal/domain"
)

type recordingSink struct {
	updates []Zone
	deletes []ZoneID
	saved   [][]Zone
	saveErr error
}

func (s *recordingSink) SaveCabinets(_ context.Context, zones []Zone) error {
	s.saved = append(s.saved, zones)
	return s.saveErr
}

func (s *recordingSink) UpdateCabinet(z Zone)    { s.updates = append(s.updates, z) }
func (s *recordingSink) DeleteCabinet(id ZoneID) { s.deletes = append(s.deletes, id) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func ptr(f float64) *float64 { return &f }

func baseType() domain.CabinetType {
	return domain.CabinetType{
		ID:         uuid.New(),
		Name:       "Base",
		MinWidth:   2,
		MaxWidth:   ptr(4),
		MinHeight:  3,
		MaxHeight:  ptr(3),
		BaseOffset: 0,
		Color:      "#2563eb",
		Active:     true,
	}
}

func tallType() domain.CabinetType {
	return domain.CabinetType{
		ID:        uuid.New(),
		Name:      "Tall",
		MinWidth:  2,
		MinHeight: 3,
		MaxHeight: ptr(7),
		Color:     "#16a34a",
		Active:    true,
	}
}

type fixture struct {
	editor  *Editor
	sink    *recordingSink
	clock   *fakeClock
	wall    domain.Wall
	acquire int
	release int
}

func newFixture(t *testing.T, types []domain.CabinetType, cabinets []domain.Cabinet) *fixture {
	t.Helper()
	f := &fixture{
		sink:  &recordingSink{},
		clock: &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		wall:  domain.Wall{ID: uuid.New(), Name: "North", Length: ptr(10)},
	}
	e, err := NewEditor(Config{
		Wall:     f.wall,
		Room:     domain.Room{ID: uuid.New(), Height: 9},
		Types:    types,
		Cabinets: cabinets,
		Sink:     f.sink,
		Now:      f.clock.Now,
		Capture: func() func() {
			f.acquire++
			return func() { f.release++ }
		},
	})
	require.NoError(t, err)
	f.editor = e
	return f
}

func cabinetAt(wallID uuid.UUID, typeID uuid.UUID, name string, sx, sy, ex, ey int) domain.Cabinet {
	tid := typeID
	return domain.Cabinet{
		ID: uuid.New(), WallID: wallID, TypeID: &tid, Name: name,
		GridStartX: sx, GridStartY: sy, GridEndX: ex, GridEndY: ey,
	}
}

func assertNoOverlap(t *testing.T, zones []Zone) {
	t.Helper()
	for i := range zones {
		for j := i + 1; j < len(zones); j++ {
			assert.False(t, Overlaps(zones[i].Rect(), zones[j].Rect()),
				"zones %s and %s overlap", zones[i].ID, zones[j].ID)
		}
	}
}

func TestNewEditor_RequiresConfiguredWall(t *testing.T) {
	_, err := NewEditor(Config{Wall: domain.Wall{ID: uuid.New()}, Room: domain.Room{Height: 9}})
	assert.ErrorIs(t, err, ErrWallNotConfigured)

	_, err = NewEditor(Config{Wall: domain.Wall{ID: uuid.New(), Length: ptr(10)}})
	assert.ErrorIs(t, err, ErrRoomHeight)
}

func TestEndToEnd_TenFootWall(t *testing.T) {
	typ := baseType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)

	dims := f.editor.Dimensions()
	assert.Equal(t, 20, dims.Cols)
	assert.Equal(t, 18, dims.Rows)

	first, err := f.editor.AutoPlace(typ.ID)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 0, Y: 12}, first.Start)
	assert.Equal(t, Point{X: 3, Y: 17}, first.End)
	assert.True(t, first.ID.IsPending())
	assert.Equal(t, "new-1", first.ID.String())
	assert.True(t, first.Selected)

	second, err := f.editor.AutoPlace(typ.ID)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 4, Y: 12}, second.Start)
	assert.Equal(t, "new-2", second.ID.String())

	zones := f.editor.Zones()
	require.Len(t, zones, 2)
	assert.False(t, zones[0].Selected, "placing a new zone deselects the others")
	assert.True(t, zones[1].Selected)
	assertNoOverlap(t, zones)
	assert.Empty(t, f.sink.updates, "auto-placement is local only")
}

func TestSave_HandsAllZonesToSink(t *testing.T) {
	typ := baseType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)
	_, err := f.editor.AutoPlace(typ.ID)
	require.NoError(t, err)

	require.NoError(t, f.editor.Save(context.Background()))
	require.Len(t, f.sink.saved, 1)
	assert.Len(t, f.sink.saved[0], 1)

	f.sink.saveErr = errors.New("db down")
	assert.EqualError(t, f.editor.Save(context.Background()), "db down")
	assert.False(t, f.editor.Snapshot().Saving)
}

func TestSync_DeferredWhileDragging(t *testing.T) {
	typ := baseType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)
	c := cabinetAt(f.wall.ID, typ.ID, "Sink base", 0, 12, 3, 17)
	f.editor.Sync([]domain.Cabinet{c}, []domain.CabinetType{typ})

	id := Persisted(c.ID)
	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: id, X: 0, Y: 0}))

	moved := c
	moved.GridStartX, moved.GridEndX = 10, 13
	f.editor.Sync([]domain.Cabinet{moved}, []domain.CabinetType{typ})
	z, _ := f.editor.Zone(id)
	assert.Equal(t, 0, z.Start.X, "upstream replacement waits for the gesture to end")
	assert.True(t, f.editor.Snapshot().PendingSync)

	f.editor.PointerUp()
	z, _ = f.editor.Zone(id)
	assert.Equal(t, 10, z.Start.X)
	assert.True(t, z.Selected, "selection survives a resync")
	assert.False(t, f.editor.Snapshot().PendingSync)
}

func TestSnapshot_ReportsGestureAndFormatting(t *testing.T) {
	typ := baseType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)
	z, err := f.editor.AutoPlace(typ.ID)
	require.NoError(t, err)

	v := f.editor.Snapshot()
	assert.Equal(t, "10' 0\"", v.WallLength)
	assert.Equal(t, "9' 0\"", v.RoomHeight)
	assert.Equal(t, ModeIdle, v.Mode)
	assert.Nil(t, v.ActiveZone)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: z.ID, Handle: AxisHorizontal}))
	v = f.editor.Snapshot()
	assert.Equal(t, ModeResizing, v.Mode)
	require.NotNil(t, v.ActiveZone)
	assert.Equal(t, z.ID, *v.ActiveZone)
}

func TestSave_NotifiesSavingBeforeSink(t *testing.T) {
	typ := baseType()
	var seen []View
	e, err := NewEditor(Config{
		Wall:   domain.Wall{ID: uuid.New(), Length: ptr(10)},
		Room:   domain.Room{ID: uuid.New(), Height: 9},
		Types:  []domain.CabinetType{typ},
		Sink:   &recordingSink{},
		Notify: func(v View) { seen = append(seen, v) },
	})
	require.NoError(t, err)
	_, err = e.AutoPlace(typ.ID)
	require.NoError(t, err)

	require.NoError(t, e.Save(context.Background()))
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Saving)
	assert.Len(t, seen[0].Zones, 1)
	assert.False(t, e.Snapshot().Saving)
}
