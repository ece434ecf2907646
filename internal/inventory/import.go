package inventory

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"supermercado-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// Column order of a catalog sheet.
const (
	colName = iota
	colDescription
	colPrice
	colStock
	colCategory
)

// SheetRow is one parsed sheet line; Row is the 1-based spreadsheet row.
type SheetRow struct {
	Row   int
	Input ProductInput
}

type ImportResult struct {
	Imported int      `json:"importados"`
	Skipped  int      `json:"omitidos"`
	Errors   []string `json:"errores"`
}

// ParseProductSheet reads the first sheet of an .xlsx workbook with the
// columns nombre, descripcion, precio, stock, categoria. A header row is
// detected and skipped. Rows that cannot be parsed are reported in the
// returned messages and left out.
func ParseProductSheet(r io.Reader) ([]SheetRow, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, models.NewError(models.ErrValidation, "No se pudo leer el archivo Excel")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, models.NewError(models.ErrValidation, "El archivo Excel no tiene hojas")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, models.NewError(models.ErrValidation, "No se pudo leer la hoja %s", sheets[0])
	}
	if len(rows) == 0 {
		return nil, nil, models.NewError(models.ErrValidation, "El archivo Excel está vacío")
	}

	start := 0
	if isHeader(rows[0]) {
		start = 1
	}

	var parsed []SheetRow
	var problems []string
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}

		in, err := parseRow(row)
		if err != nil {
			problems = append(problems, fmt.Sprintf("fila %d: %v", i+1, err))
			continue
		}
		parsed = append(parsed, SheetRow{Row: i + 1, Input: in})
	}
	return parsed, problems, nil
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	return first == "NOMBRE" || strings.Contains(first, "PRODUCTO") || strings.Contains(first, "PRODUCT")
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, idx int) *string {
	v := cell(row, idx)
	if v == "" {
		return nil
	}
	return &v
}

func parseRow(row []string) (ProductInput, error) {
	in := ProductInput{
		Name:        cell(row, colName),
		Description: optionalCell(row, colDescription),
		Category:    optionalCell(row, colCategory),
	}
	if in.Name == "" {
		return in, fmt.Errorf("nombre vacío")
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, colPrice), ",", "."), 64)
	if err != nil {
		return in, fmt.Errorf("precio inválido %q", cell(row, colPrice))
	}
	in.Price = price

	if s := cell(row, colStock); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("stock inválido %q", s)
		}
		in.Stock = stock
	}
	return in, nil
}

// Import validates the parsed rows and inserts the new ones in a single
// transaction. Names already in the catalog, or repeated in the sheet, are
// skipped.
func (s *Service) Import(ctx context.Context, rows []SheetRow, parseProblems []string) (ImportResult, error) {
	res := ImportResult{Errors: append([]string{}, parseProblems...)}
	res.Skipped = len(parseProblems)

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Input.Name)
	}
	existing, err := s.store.ExistingNames(ctx, names)
	if err != nil {
		return res, err
	}

	seen := make(map[string]bool)
	var batch []models.Product
	for _, r := range rows {
		key := strings.ToLower(strings.TrimSpace(r.Input.Name))
		if existing[key] || seen[key] {
			res.Skipped++
			continue
		}

		p, err := newProduct(r.Input)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("fila %d: %v", r.Row, err))
			continue
		}
		seen[key] = true
		batch = append(batch, *p)
	}

	if err := s.store.CreateBatch(ctx, batch); err != nil {
		return res, err
	}
	res.Imported = len(batch)

	s.log.Info("catalog import finished", "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}
