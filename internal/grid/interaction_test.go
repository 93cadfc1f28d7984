package grid

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/cabinetry/internal/domain"
)

// A 10ft wall on desktop uses 18px cells.
const cell = 18.0

func twoBaseCabinets(t *testing.T) (*fixture, ZoneID, ZoneID) {
	t.Helper()
	typ := baseType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)
	a := cabinetAt(f.wall.ID, typ.ID, "A", 0, 12, 3, 17)
	b := cabinetAt(f.wall.ID, typ.ID, "B", 4, 12, 7, 17)
	f.editor.Sync([]domain.Cabinet{a, b}, []domain.CabinetType{typ})
	return f, Persisted(a.ID), Persisted(b.ID)
}

func TestDrag_CollisionRejected(t *testing.T) {
	f, _, b := twoBaseCabinets(t)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: b, X: 100, Y: 50}))
	f.editor.PointerMove(100-cell, 50)

	z, _ := f.editor.Zone(b)
	assert.Equal(t, 4, z.Start.X)
	assert.Equal(t, 7, z.End.X)

	f.editor.PointerUp()
	assert.Empty(t, f.sink.updates, "no net change, no update")
	assert.Equal(t, ModeIdle, f.editor.Mode())
}

func TestDrag_MovesHorizontallyOnlyAndEmitsUpdate(t *testing.T) {
	f, _, b := twoBaseCabinets(t)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: b, X: 100, Y: 50}))
	assert.Equal(t, ModeDragging, f.editor.Mode())
	f.editor.PointerMove(100+3*cell, 50+5*cell)

	z, _ := f.editor.Zone(b)
	assert.Equal(t, Point{X: 7, Y: 12}, z.Start)
	assert.Equal(t, Point{X: 10, Y: 17}, z.End)

	f.editor.PointerUp()
	require.Len(t, f.sink.updates, 1)
	assert.Equal(t, b, f.sink.updates[0].ID)
	assert.Equal(t, 7, f.sink.updates[0].Start.X)
}

func TestDrag_ClampedToGrid(t *testing.T) {
	f, _, b := twoBaseCabinets(t)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: b, X: 0, Y: 0}))
	f.editor.PointerMove(1000*cell, 0)
	z, _ := f.editor.Zone(b)
	assert.Equal(t, 16, z.Start.X, "start.x stays within [0, cols-width]")
	assert.Equal(t, 19, z.End.X)
	f.editor.PointerUp()
}

func TestDrag_RecomputesFromBaseline(t *testing.T) {
	f, _, b := twoBaseCabinets(t)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: b, X: 0, Y: 0}))
	f.editor.PointerMove(5*cell, 0)
	f.editor.PointerMove(2*cell, 0)
	z, _ := f.editor.Zone(b)
	assert.Equal(t, 6, z.Start.X)
	f.editor.PointerMove(0, 0)
	f.editor.PointerUp()
	assert.Empty(t, f.sink.updates, "returning to the baseline is not a change")
}

func TestResize_HorizontalClampsToTypeBounds(t *testing.T) {
	f, a, _ := twoBaseCabinets(t)
	// Move B out of the way so only the type bounds apply.
	f.editor.zones[1].Start.X, f.editor.zones[1].End.X = 16, 19

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: a, Handle: AxisHorizontal, X: 0, Y: 0}))
	assert.Equal(t, ModeResizing, f.editor.Mode())

	f.editor.PointerMove(50*cell, 0)
	z, _ := f.editor.Zone(a)
	assert.Equal(t, 0, z.Start.X, "resize grows from the right edge")
	assert.Equal(t, 8, z.Width(), "max width 4ft = 8 cells")

	f.editor.PointerMove(-50*cell, 0)
	z, _ = f.editor.Zone(a)
	assert.Equal(t, 4, z.Width(), "min width 2ft = 4 cells")
	f.editor.PointerUp()
	assert.Empty(t, f.sink.updates)
}

func TestResize_HorizontalStopsAtNeighbour(t *testing.T) {
	f, a, _ := twoBaseCabinets(t)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: a, Handle: AxisHorizontal}))
	f.editor.PointerMove(2*cell, 0)
	z, _ := f.editor.Zone(a)
	assert.Equal(t, 3, z.End.X, "growing into B is rejected")
	f.editor.PointerUp()
}

func TestResize_HorizontalStopsAtRightEdge(t *testing.T) {
	typ := tallType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)
	c := cabinetAt(f.wall.ID, typ.ID, "Pantry", 15, 4, 18, 17)
	f.editor.Sync([]domain.Cabinet{c}, []domain.CabinetType{typ})
	id := Persisted(c.ID)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: id, Handle: AxisHorizontal}))
	f.editor.PointerMove(10*cell, 0)
	z, _ := f.editor.Zone(id)
	assert.Equal(t, 19, z.End.X)
	f.editor.PointerUp()
	require.Len(t, f.sink.updates, 1)
}

func TestResize_VerticalAnchorsBottom(t *testing.T) {
	typ := tallType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)
	c := cabinetAt(f.wall.ID, typ.ID, "Pantry", 0, 12, 3, 17)
	f.editor.Sync([]domain.Cabinet{c}, []domain.CabinetType{typ})
	id := Persisted(c.ID)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: id, Handle: AxisVertical, X: 0, Y: 200}))
	f.editor.PointerMove(0, 200-4*cell)
	z, _ := f.editor.Zone(id)
	assert.Equal(t, 17, z.End.Y, "bottom edge stays put")
	assert.Equal(t, 8, z.Start.Y)
	assert.Equal(t, 10, z.Height())

	f.editor.PointerMove(0, 200-40*cell)
	z, _ = f.editor.Zone(id)
	assert.Equal(t, 14, z.Height(), "max height 7ft = 14 cells")

	f.editor.PointerMove(0, 200+40*cell)
	z, _ = f.editor.Zone(id)
	assert.Equal(t, 6, z.Height(), "min height 3ft = 6 cells")

	f.editor.PointerUp()
	assert.Empty(t, f.sink.updates, "ended at the baseline height")
}

func TestPointerDown_Guards(t *testing.T) {
	f, a, b := twoBaseCabinets(t)

	assert.ErrorIs(t, f.editor.PointerDown(PointerDown{Zone: Pending(99)}), ErrZoneNotFound)

	require.NoError(t, f.editor.BeginRename(a))
	assert.ErrorIs(t, f.editor.PointerDown(PointerDown{Zone: a}), ErrRenameActive)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: b}))
	assert.ErrorIs(t, f.editor.PointerDown(PointerDown{Zone: b}), ErrNotIdle)
	f.editor.PointerUp()
}

func TestPointerDown_SelectsZone(t *testing.T) {
	f, a, b := twoBaseCabinets(t)
	require.NoError(t, f.editor.Select(a))

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: b}))
	sel, ok := f.editor.Selected()
	require.True(t, ok)
	assert.Equal(t, b, sel.ID)

	assert.ErrorIs(t, f.editor.Select(a), ErrNotIdle, "selection is suppressed mid-gesture")
	f.editor.PointerUp()
}

func TestCapture_AcquiredAndReleasedWithState(t *testing.T) {
	f, a, _ := twoBaseCabinets(t)

	f.editor.PointerMove(10, 10)
	f.editor.PointerUp()
	assert.Equal(t, 0, f.acquire, "no listeners while idle")

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: a}))
	assert.Equal(t, 1, f.acquire)
	assert.True(t, f.editor.Captured())
	f.editor.PointerUp()
	assert.Equal(t, 1, f.release)
	assert.False(t, f.editor.Captured())
}

func TestPointerUp_ResetsWhenZoneVanished(t *testing.T) {
	typ := baseType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)
	z, err := f.editor.AutoPlace(typ.ID)
	require.NoError(t, err)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: z.ID}))
	f.editor.zones = nil
	f.editor.PointerMove(cell, 0)
	f.editor.PointerUp()

	assert.Equal(t, ModeIdle, f.editor.Mode())
	assert.Equal(t, 1, f.release)
	assert.Empty(t, f.sink.updates)
}

func TestRandomGestures_NeverOverlap(t *testing.T) {
	base, tall := baseType(), tallType()
	f := newFixture(t, []domain.CabinetType{base, tall}, nil)
	types := []uuid.UUID{base.ID, tall.ID}
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 2000; step++ {
		zones := f.editor.Zones()
		switch op := rng.Intn(4); {
		case op == 0 || len(zones) == 0:
			_, _ = f.editor.AutoPlace(types[rng.Intn(len(types))])
		default:
			z := zones[rng.Intn(len(zones))]
			handle := []Axis{AxisNone, AxisHorizontal, AxisVertical}[rng.Intn(3)]
			require.NoError(t, f.editor.PointerDown(PointerDown{Zone: z.ID, Handle: handle}))
			for k := 0; k < 3; k++ {
				f.editor.PointerMove(float64(rng.Intn(21)-10)*cell, float64(rng.Intn(21)-10)*cell)
				assertNoOverlap(t, f.editor.Zones())
			}
			f.editor.PointerUp()
		}
		for _, z := range f.editor.Zones() {
			require.GreaterOrEqual(t, z.Start.X, 0)
			require.Less(t, z.End.X, 20)
			require.GreaterOrEqual(t, z.Start.Y, 0)
			require.Less(t, z.End.Y, 18)
		}
		assertNoOverlap(t, f.editor.Zones())
	}
}

func TestDrag_ZoneWiderThanGridStaysPut(t *testing.T) {
	typ := tallType()
	f := newFixture(t, []domain.CabinetType{typ}, nil)
	wide := cabinetAt(f.wall.ID, typ.ID, "Wide", 0, 12, 21, 17)
	f.editor.Sync([]domain.Cabinet{wide}, []domain.CabinetType{typ})
	id := Persisted(wide.ID)

	require.NoError(t, f.editor.PointerDown(PointerDown{Zone: id, X: 50, Y: 50}))
	f.editor.PointerMove(51, 50)
	f.editor.PointerMove(50-3*cell, 50)

	z, _ := f.editor.Zone(id)
	assert.Equal(t, 0, z.Start.X, "start.x never goes negative")
	assert.Equal(t, 21, z.End.X)

	f.editor.PointerUp()
	assert.Empty(t, f.sink.updates)
	assert.Equal(t, ModeIdle, f.editor.Mode())
}
