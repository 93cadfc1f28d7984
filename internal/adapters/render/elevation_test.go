package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/cabinetry/internal/grid"
)

func sampleView() grid.View {
	return grid.View{
		WallLength: "10' 0\"",
		RoomHeight: "9' 0\"",
		Grid:       grid.Dimensions{Cols: 20, Rows: 18, CellSize: 18},
		Zones: []grid.Zone{
			{ID: grid.Pending(1), Name: "Base 1", Start: grid.Point{X: 0, Y: 12}, End: grid.Point{X: 3, Y: 17}, Color: "#2563eb", Selected: true},
			{ID: grid.Pending(2), Name: "Suelto", Start: grid.Point{X: 10, Y: 17}, End: grid.Point{X: 10, Y: 17}},
		},
	}
}

func TestElevation_SizeAndFill(t *testing.T) {
	img, err := Elevation(sampleView())
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, 20*18+2*Margin, b.Dx())
	assert.Equal(t, 18*18+2*Margin, b.Dy())

	// un punto interior de la primera zona toma su color (#2563eb)
	r, g, bl, _ := img.At(Margin+2*18+3, Margin+13*18+3).RGBA()
	assert.Equal(t, uint32(0x25), r>>8)
	assert.Equal(t, uint32(0x63), g>>8)
	assert.Equal(t, uint32(0xeb), bl>>8)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sampleView()))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20*18+2*Margin, cfg.Width)
}

func TestElevation_EmptyGrid(t *testing.T) {
	_, err := Elevation(grid.View{})
	assert.Error(t, err)
}
