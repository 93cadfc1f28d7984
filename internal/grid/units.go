package grid

import (
	"fmt"
	"math"
	"strings"
)

// CellsPerFoot es la resolución de la grilla: una celda = 6 pulgadas.
const CellsPerFoot = 2

func FeetToCells(feet float64) int {
	return int(math.Round(feet * CellsPerFoot))
}

func CellsToFeet(cells int) float64 {
	return float64(cells) / CellsPerFoot
}

// FormatFeet muestra pies como F' I" (siempre ambas partes).
func FormatFeet(feet float64) string {
	totalInches := int(math.Round(feet * 12))
	return fmt.Sprintf("%d' %d\"", totalInches/12, totalInches%12)
}

// FormatDim muestra celdas en forma compacta: 2'6", 2', 6".
func FormatDim(cells int) string {
	totalInches := int(math.Round(CellsToFeet(cells) * 12))
	ft, in := totalInches/12, totalInches%12
	var b strings.Builder
	if ft != 0 {
		fmt.Fprintf(&b, "%d'", ft)
	}
	if in != 0 {
		fmt.Fprintf(&b, "%d\"", in)
	}
	if b.Len() == 0 {
		return "0\""
	}
	return b.String()
}

// CellSizeTier: paredes más cortas que MaxLength (pies) usan Pixels por celda.
type CellSizeTier struct {
	MaxLength float64
	Pixels    int
}

var (
	MobileTiers = []CellSizeTier{
		{MaxLength: 10, Pixels: 24},
		{MaxLength: 25, Pixels: 20},
		{MaxLength: math.Inf(1), Pixels: 8},
	}
	DesktopTiers = []CellSizeTier{
		{MaxLength: 10, Pixels: 22},
		{MaxLength: 25, Pixels: 18},
		{MaxLength: math.Inf(1), Pixels: 15},
	}
)

// CellSizeFor recorre la tabla ordenada y devuelve el primer tramo que aplica.
func CellSizeFor(tiers []CellSizeTier, wallLength float64) int {
	for _, t := range tiers {
		if wallLength < t.MaxLength {
			return t.Pixels
		}
	}
	if len(tiers) == 0 {
		return 0
	}
	return tiers[len(tiers)-1].Pixels
}

func CalcCellSize(wallLength float64, mobile bool) int {
	if mobile {
		return CellSizeFor(MobileTiers, wallLength)
	}
	return CellSizeFor(DesktopTiers, wallLength)
}

// Dimensions es la grilla lógica derivada de la pared y el alto del ambiente.
type Dimensions struct {
	Cols     int `json:"cols"`
	Rows     int `json:"rows"`
	CellSize int `json:"cell_size"`
}

func NewDimensions(wallLength, roomHeight float64, mobile bool) Dimensions {
	return Dimensions{
		Cols:     FeetToCells(wallLength),
		Rows:     FeetToCells(roomHeight),
		CellSize: CalcCellSize(wallLength, mobile),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
