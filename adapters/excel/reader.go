package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lotogrid/domain/core"
	"lotogrid/domain/draw"
	"lotogrid/domain/grid"
)

// DrawReader reads a draw history from Excel or CSV files. The official
// Caixa export ships as .xlsx with one row per contest; community mirrors
// circulate the same layout as CSV, so both are handled through the same
// row pipeline.
type DrawReader struct {
	shape    grid.Shape
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDrawReader creates a reader for the given card shape. The file type is
// derived from the extension; anything that is not .csv is treated as xlsx.
func NewDrawReader(shape grid.Shape, filePath string) *DrawReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DrawReader{shape: shape, filePath: filePath, fileType: fileType}
}

// ReadDraws loads, parses, and validates the full draw history. Every row
// must produce a valid draw; a single malformed row fails the whole read so
// a corrupted export is never silently truncated.
func (r *DrawReader) ReadDraws() ([]draw.Draw, error) {
	log.Printf("[DrawReader] reading %s draw history: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, core.IngestError("draw history file not found: " + r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, core.IngestError("draw history must have a header row and at least one data row")
	}

	return r.parseRows(rows)
}

func (r *DrawReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, core.WrapCode(err, core.CodeIngestError, "failed to open Excel file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.WrapCode(err, core.CodeIngestError, "failed to read sheet "+sheet)
	}
	log.Printf("[DrawReader] sheet %q read (%d rows)", sheet, len(rows))
	return rows, nil
}

func (r *DrawReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, core.WrapCode(err, core.CodeIngestError, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.WrapCode(err, core.CodeIngestError, "failed to read CSV file")
	}
	log.Printf("[DrawReader] CSV read (%d rows)", len(rows))
	return rows, nil
}

// columnLayout maps the header row onto the columns the parser needs.
type columnLayout struct {
	contest int
	date    int   // -1 when the export carries no date column
	balls   []int // one index per drawn number, in column order
}

// parseRows resolves the column layout from the header and converts every
// data row into a validated draw, sorted history order preserved.
func (r *DrawReader) parseRows(rows [][]string) ([]draw.Draw, error) {
	layout, err := r.resolveLayout(rows[0])
	if err != nil {
		return nil, err
	}

	draws := make([]draw.Draw, 0, len(rows)-1)
	lastContest := 0
	numbers := make([]int, r.shape.DrawSize)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		contest, err := cellInt(row, layout.contest)
		if err != nil {
			return nil, core.IngestErrorf("row %d: bad contest number: %v", i+1, err)
		}
		// Exports list contests in strictly ascending order; a repeat or
		// regression means a corrupt or re-sorted file.
		if len(draws) > 0 && contest <= lastContest {
			return nil, core.IngestErrorf("row %d: contest %d out of order after %d", i+1, contest, lastContest)
		}
		lastContest = contest

		for j, col := range layout.balls {
			n, err := cellInt(row, col)
			if err != nil {
				return nil, core.IngestErrorf("row %d contest %d: bad ball %d: %v", i+1, contest, j+1, err)
			}
			numbers[j] = n
		}

		d, err := draw.New(r.shape, contest, numbers)
		if err != nil {
			return nil, core.WrapCode(err, core.CodeIngestError,
				fmt.Sprintf("row %d contest %d", i+1, contest))
		}
		if layout.date >= 0 {
			if date, ok := cellDate(row, layout.date); ok {
				d.Date = date
			}
		}
		draws = append(draws, d)
	}

	if len(draws) == 0 {
		return nil, core.IngestError("draw history contains no data rows")
	}
	log.Printf("[DrawReader] parsed %d draws (contests %d..%d)",
		len(draws), draws[0].Contest, draws[len(draws)-1].Contest)
	return draws, nil
}

// resolveLayout finds the contest, date, and ball columns by header name,
// falling back to positional layout (contest, date, then the balls) when
// the headers are unrecognized.
func (r *DrawReader) resolveLayout(header []string) (columnLayout, error) {
	layout := columnLayout{contest: -1, date: -1}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case layout.contest < 0 && (name == "concurso" || name == "contest"):
			layout.contest = i
		case layout.date < 0 && (strings.HasPrefix(name, "data") || name == "date"):
			layout.date = i
		case strings.HasPrefix(name, "bola") || strings.HasPrefix(name, "ball") || strings.HasPrefix(name, "dezena"):
			layout.balls = append(layout.balls, i)
		}
	}

	if layout.contest < 0 || len(layout.balls) == 0 {
		// Positional fallback: contest, date, then the drawn numbers.
		if len(header) < 2+r.shape.DrawSize {
			return columnLayout{}, core.IngestErrorf(
				"unrecognized header layout: need contest, date and %d ball columns, got %d columns",
				r.shape.DrawSize, len(header))
		}
		layout = columnLayout{contest: 0, date: 1, balls: make([]int, r.shape.DrawSize)}
		for j := range layout.balls {
			layout.balls[j] = 2 + j
		}
		return layout, nil
	}

	if len(layout.balls) != r.shape.DrawSize {
		return columnLayout{}, core.IngestErrorf("found %d ball columns, shape %s needs %d",
			len(layout.balls), r.shape.Slug, r.shape.DrawSize)
	}
	return layout, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellInt(row []string, col int) (int, error) {
	if col >= len(row) {
		return 0, core.IngestError("missing cell")
	}
	return strconv.Atoi(strings.TrimSpace(row[col]))
}

// dateFormats covers the Caixa export (dd/mm/yyyy) plus ISO variants that
// show up in re-exports.
var dateFormats = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

func cellDate(row []string, col int) (time.Time, bool) {
	if col >= len(row) {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
