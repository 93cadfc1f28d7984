package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/phenrril/cabinetry/internal/grid"
)

// Margin son los píxeles libres alrededor de la grilla, donde van las cotas.
const Margin = 32

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func face(size float64) (font.Face, error) {
	fontOnce.Do(func() { fontTTF, fontErr = truetype.Parse(gomono.TTF) })
	if fontErr != nil {
		return nil, fmt.Errorf("parsear fuente: %w", fontErr)
	}
	return truetype.NewFace(fontTTF, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// Elevation dibuja la vista frontal de la pared: grilla, gabinetes y cotas.
func Elevation(v grid.View) (image.Image, error) {
	cell := float64(v.Grid.CellSize)
	if cell <= 0 || v.Grid.Cols <= 0 || v.Grid.Rows <= 0 {
		return nil, fmt.Errorf("grilla vacía (%dx%d, celda %d)", v.Grid.Cols, v.Grid.Rows, v.Grid.CellSize)
	}
	w := v.Grid.Cols*v.Grid.CellSize + 2*Margin
	h := v.Grid.Rows*v.Grid.CellSize + 2*Margin

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	small, err := face(10)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(small)

	// grilla: líneas finas por celda, más marcadas cada pie
	for x := 0; x <= v.Grid.Cols; x++ {
		px := float64(Margin) + float64(x)*cell
		dc.SetLineWidth(lineWidth(x))
		dc.SetColor(lineColor(x))
		dc.DrawLine(px, Margin, px, float64(h-Margin))
		dc.Stroke()
	}
	for y := 0; y <= v.Grid.Rows; y++ {
		py := float64(Margin) + float64(y)*cell
		dc.SetLineWidth(lineWidth(y))
		dc.SetColor(lineColor(y))
		dc.DrawLine(Margin, py, float64(w-Margin), py)
		dc.Stroke()
	}

	for _, z := range v.Zones {
		drawZone(dc, z, cell)
	}

	// cotas de la pared
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(v.WallLength, float64(w)/2, Margin/2, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), Margin/2, float64(h)/2)
	dc.DrawStringAnchored(v.RoomHeight, Margin/2, float64(h)/2, 0.5, 0.5)
	dc.Pop()

	return dc.Image(), nil
}

// WritePNG codifica la elevación como PNG.
func WritePNG(out io.Writer, v grid.View) error {
	img, err := Elevation(v)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(out)
}

func drawZone(dc *gg.Context, z grid.Zone, cell float64) {
	x := float64(Margin) + float64(z.Start.X)*cell
	y := float64(Margin) + float64(z.Start.Y)*cell
	zw := float64(z.Width()) * cell
	zh := float64(z.Height()) * cell

	fill := z.Color
	if fill == "" {
		fill = grid.UnknownType.Color
	}
	dc.SetHexColor(fill)
	dc.DrawRectangle(x, y, zw, zh)
	dc.Fill()

	dc.SetColor(color.Black)
	dc.SetLineWidth(1.5)
	if z.Selected {
		dc.SetLineWidth(3)
	}
	dc.DrawRectangle(x, y, zw, zh)
	dc.Stroke()

	dc.SetColor(color.White)
	label := fmt.Sprintf("%s × %s", grid.FormatDim(z.Width()), grid.FormatDim(z.Height()))
	dc.DrawStringWrapped(z.Name, x+zw/2, y+zh/2-6, 0.5, 0.5, zw-4, 1.1, gg.AlignCenter)
	dc.DrawStringAnchored(label, x+zw/2, y+zh/2+8, 0.5, 0.5)
}

func lineWidth(i int) float64 {
	if i%grid.CellsPerFoot == 0 {
		return 1
	}
	return 0.5
}

func lineColor(i int) color.Color {
	if i%grid.CellsPerFoot == 0 {
		return color.Gray{Y: 190}
	}
	return color.Gray{Y: 230}
}
