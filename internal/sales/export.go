package sales

import (
	"fmt"

	"supermercado-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Ventas"

var exportHeader = []any{"ID Venta", "ID Usuario", "Fecha", "ID Producto", "Cantidad", "Precio Unitario", "Subtotal", "Total Venta"}

// ExportWorkbook writes one row per sale line. Sales without lines still get
// a row so their totals show up.
func ExportWorkbook(list []models.Sale) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, err
	}

	row := 2
	for _, s := range list {
		date := s.Date.Format("2006-01-02 15:04:05")
		if len(s.Lines) == 0 {
			values := []any{s.ID, s.UserID, date, nil, nil, nil, nil, s.Total}
			if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				f.Close()
				return nil, err
			}
			row++
			continue
		}
		for _, l := range s.Lines {
			values := []any{s.ID, s.UserID, date, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal(), s.Total}
			if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				f.Close()
				return nil, err
			}
			row++
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "H", 16); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
