package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/usecase"
)

// CatalogColumns son los encabezados reconocidos en la primera fila. name, min_width y
// min_height son obligatorios.
var CatalogColumns = []string{"name", "min_width", "max_width", "min_height", "max_height", "base_offset", "color", "image_url", "active"}

var ErrMissingColumn = errors.New("falta una columna obligatoria")

// ReadCatalog lee la primera hoja del xlsx. Las filas con valores mal formados vuelven con Err
// para que el import las reporte sin frenar el resto.
func ReadCatalog(r io.Reader) ([]usecase.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: abrir xlsx: %v", domain.ErrInvalid, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx sin hojas", domain.ErrInvalid)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"name", "min_width", "min_height"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, req)
		}
	}

	var out []usecase.ImportRow
	for i, row := range rows[1:] {
		cell := func(name string) string {
			idx, ok := col[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if cell("name") == "" && isBlank(row) {
			continue
		}
		ir := usecase.ImportRow{Row: i + 2}
		ir.Type, ir.Err = parseType(cell)
		out = append(out, ir)
	}
	return out, nil
}

func parseType(cell func(string) string) (domain.CabinetType, error) {
	t := domain.CabinetType{
		Name:     cell("name"),
		Color:    cell("color"),
		ImageURL: cell("image_url"),
		Active:   true,
	}
	var err error
	if t.MinWidth, err = feet(cell("min_width"), "min_width"); err != nil {
		return t, err
	}
	if t.MinHeight, err = feet(cell("min_height"), "min_height"); err != nil {
		return t, err
	}
	if t.BaseOffset, err = feetOr(cell("base_offset"), "base_offset", 0); err != nil {
		return t, err
	}
	if t.MaxWidth, err = optionalFeet(cell("max_width"), "max_width"); err != nil {
		return t, err
	}
	if t.MaxHeight, err = optionalFeet(cell("max_height"), "max_height"); err != nil {
		return t, err
	}
	if v := cell("active"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "si", "sí", "yes", "x":
			t.Active = true
		case "0", "false", "no":
			t.Active = false
		default:
			return t, fmt.Errorf("active: valor %q no reconocido", v)
		}
	}
	return t, nil
}

func feet(s, name string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%s: vacío", name)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q no es un número", name, s)
	}
	return v, nil
}

func feetOr(s, name string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return feet(s, name)
}

func optionalFeet(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := feet(s, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
