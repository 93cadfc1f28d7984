package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/usecase"
)

const cutListSheet = "Cut list"

var cutListHeader = []any{"Room", "Wall", "Cabinet", "Type", "Width", "Height", "From floor", "Door material", "Construction", "Finish", "Notes"}

// WriteCutList escribe la lista de corte del proyecto en una hoja con título y encabezado.
func WriteCutList(w io.Writer, p *domain.Project, rows []usecase.CutListRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cutListSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%s) - %s", p.Name, p.Status, time.Now().Format("2006-01-02"))
	if err := f.SetCellValue(cutListSheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetSheetRow(cutListSheet, "A3", &cutListHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(cutListSheet, "A1", "K3", bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+4)
		values := []any{r.Room, r.Wall, r.Cabinet, r.Type, r.Width, r.Height, r.FromFloor, r.DoorMaterial, r.ConstructionMethod, r.Finish, r.Notes}
		if err := f.SetSheetRow(cutListSheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(cutListSheet, "A", "D", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(cutListSheet, "H", "K", 20); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
