package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/testutil"
)

func newProjectUC(store *testutil.Store) *ProjectUC {
	return &ProjectUC{
		Projects:  store.Projects(),
		Rooms:     store.Rooms(),
		Cabinets:  store.Cabinets(),
		Catalog:   store.Catalog(),
		Customers: store.Customers(),
	}
}

func TestProjectUC_CreateReusesCustomer(t *testing.T) {
	store := testutil.NewStore()
	uc := newProjectUC(store)
	ctx := context.Background()

	p1, err := uc.Create(ctx, NewProject{Name: " Cocina Pérez ", CustomerEmail: "Ana@Example.com", CustomerName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Cocina Pérez", p1.Name)
	assert.Equal(t, domain.ProjectStatusDraft, p1.Status)
	require.NotNil(t, p1.CustomerID)

	p2, err := uc.Create(ctx, NewProject{Name: "Baño Pérez", CustomerEmail: "ana@example.com"})
	require.NoError(t, err)
	require.NotNil(t, p2.CustomerID)
	assert.Equal(t, *p1.CustomerID, *p2.CustomerID)

	_, err = uc.Create(ctx, NewProject{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestProjectUC_StatusFlow(t *testing.T) {
	store := testutil.NewStore()
	uc := newProjectUC(store)
	ctx := context.Background()
	p, _, _ := store.SeedWall(testutil.Feet(10), 9)

	got, err := uc.UpdateStatus(ctx, p.ID, domain.ProjectStatusConsultation)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusConsultation, got.Status)

	_, err = uc.UpdateStatus(ctx, p.ID, domain.ProjectStatusDraft)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = uc.UpdateStatus(ctx, p.ID, domain.ProjectStatusCancelled)
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, p.ID, domain.ProjectStatusShipped)
	assert.ErrorIs(t, err, domain.ErrInvalid, "un proyecto cancelado no vuelve al flujo")

	_, err = uc.UpdateStatus(ctx, uuid.New(), domain.ProjectStatusShipped)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectUC_RoomsAndWalls(t *testing.T) {
	store := testutil.NewStore()
	uc := newProjectUC(store)
	ctx := context.Background()
	p, err := uc.Create(ctx, NewProject{Name: "Casa"})
	require.NoError(t, err)

	room := &domain.Room{Name: "Cocina", Height: 9}
	require.NoError(t, uc.AddRoom(ctx, p.ID, room))
	assert.ErrorIs(t, uc.AddRoom(ctx, uuid.New(), &domain.Room{Name: "X"}), domain.ErrNotFound)
	assert.ErrorIs(t, uc.AddRoom(ctx, p.ID, &domain.Room{Name: ""}), domain.ErrInvalid)

	wall := &domain.Wall{Name: "Norte"}
	require.NoError(t, uc.AddWall(ctx, room.ID, wall))
	assert.Nil(t, wall.Length, "una pared nueva puede quedar sin medir")
	assert.ErrorIs(t, uc.AddWall(ctx, room.ID, &domain.Wall{Length: testutil.Feet(-2)}), domain.ErrInvalid)

	_, err = uc.UpdateWall(ctx, wall.ID, nil, testutil.Feet(0))
	assert.ErrorIs(t, err, domain.ErrInvalid)
	name := "Norte (ventana)"
	w, err := uc.UpdateWall(ctx, wall.ID, &name, testutil.Feet(12.5))
	require.NoError(t, err)
	assert.Equal(t, 12.5, *w.Length)
	assert.Equal(t, "Norte (ventana)", w.Name)

	got, err := uc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Rooms, 1)
	require.Len(t, got.Rooms[0].Walls, 1)
}

func TestProjectUC_CabinetDetailsKeepGeometry(t *testing.T) {
	store := testutil.NewStore()
	uc := newProjectUC(store)
	ctx := context.Background()
	_, _, wall := store.SeedWall(testutil.Feet(10), 9)
	c := store.AddCabinet(domain.Cabinet{WallID: wall.ID, Name: "A", GridStartX: 2, GridStartY: 12, GridEndX: 5, GridEndY: 17})

	finish := "Laca mate"
	got, err := uc.UpdateCabinetDetails(ctx, c.ID, CabinetDetails{Finish: &finish})
	require.NoError(t, err)
	assert.Equal(t, "Laca mate", got.Finish)
	assert.Equal(t, 2, got.GridStartX)
	assert.Equal(t, 5, got.GridEndX)

	list, err := uc.WallCabinets(ctx, wall.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Laca mate", list[0].Finish)
}

func TestProjectUC_CutList(t *testing.T) {
	store := testutil.NewStore()
	uc := newProjectUC(store)
	ctx := context.Background()
	base := store.AddType(testutil.BaseType())
	upper := store.AddType(testutil.WallType())
	p, _, wall := store.SeedWall(testutil.Feet(10), 9)

	store.AddCabinet(domain.Cabinet{WallID: wall.ID, TypeID: &upper.ID, Name: "Alacena", GridStartX: 4, GridStartY: 4, GridEndX: 6, GridEndY: 8})
	store.AddCabinet(domain.Cabinet{WallID: wall.ID, TypeID: &base.ID, Name: "Bajo", GridStartX: 0, GridStartY: 12, GridEndX: 4, GridEndY: 17, DoorMaterial: "MDF"})
	store.AddCabinet(domain.Cabinet{WallID: wall.ID, Name: "Suelto", GridStartX: 10, GridStartY: 17, GridEndX: 10, GridEndY: 17})

	_, rows, err := uc.CutList(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, CutListRow{
		Room: "Cocina", Wall: "Norte", Cabinet: "Bajo", Type: "Base",
		Width: "2'6\"", Height: "3'", FromFloor: "0\"", DoorMaterial: "MDF",
	}, rows[0])
	assert.Equal(t, "Alacena", rows[1].Cabinet)
	assert.Equal(t, "1'6\"", rows[1].Width)
	assert.Equal(t, "2'6\"", rows[1].Height)
	assert.Equal(t, "4'6\"", rows[1].FromFloor)
	assert.Equal(t, "Unknown", rows[2].Type)
	assert.Equal(t, "6\"", rows[2].Width)
}
