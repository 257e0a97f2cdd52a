package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/extract"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/tables"
)

const (
	minColWidth = 10
	maxColWidth = 60
)

// Workbook assembles the batch output: the summary sheet first, then one sheet
// per document in processing order.
type Workbook struct {
	f       *excelize.File
	runID   uuid.UUID
	taken   map[string]struct{}
	sheets  []string
	summary int // summary lines written
	rows    int // table rows written across sheets
	logger  *slog.Logger
}

func NewWorkbook(runID uuid.UUID, logger *slog.Logger) (*Workbook, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), constants.SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := f.SetCellValue(constants.SummarySheet, "A1", constants.SummaryTitle); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	_ = f.SetColWidth(constants.SummarySheet, "A", "A", 70)

	return &Workbook{
		f:      f,
		runID:  runID,
		taken:  map[string]struct{}{strings.ToLower(constants.SummarySheet): {}},
		logger: logger,
	}, nil
}

// AddSummaryLine appends one outcome line below the summary title.
func (w *Workbook) AddSummaryLine(line string) error {
	cell, _ := excelize.CoordinatesToCellName(1, w.summary+2)
	if err := w.f.SetCellValue(constants.SummarySheet, cell, line); err != nil {
		return fmt.Errorf("summary line: %w", err)
	}
	w.summary++
	return nil
}

// AddDocumentSheet writes the header fields of doc from row 1 (name in A,
// value in B), a blank row, then the table or a no-data marker. It returns the
// sheet name used.
func (w *Workbook) AddDocumentSheet(doc string, header []extract.HeaderField, table *tables.Table) (string, error) {
	name := uniqueSheetName(BaseSheetName(doc), w.taken)
	if _, err := w.f.NewSheet(name); err != nil {
		return "", fmt.Errorf("new sheet %q: %w", name, err)
	}
	w.taken[strings.ToLower(name)] = struct{}{}
	w.sheets = append(w.sheets, name)

	widths := map[int]int{}
	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if n := utf8.RuneCountInString(v); n > widths[col] {
			widths[col] = n
		}
		return w.f.SetCellValue(name, cell, v)
	}

	row := 1
	for _, hf := range header {
		if err := write(1, row, hf.Name); err != nil {
			return "", fmt.Errorf("sheet %q: %w", name, err)
		}
		if err := write(2, row, hf.Value); err != nil {
			return "", fmt.Errorf("sheet %q: %w", name, err)
		}
		row++
	}
	row++ // blank separator

	if table.Empty() {
		if err := write(1, row, constants.NoTableMarker); err != nil {
			return "", fmt.Errorf("sheet %q: %w", name, err)
		}
	} else {
		for _, r := range append([][]string{table.Header}, table.Rows...) {
			for i, v := range r {
				if err := write(i+1, row, v); err != nil {
					return "", fmt.Errorf("sheet %q: %w", name, err)
				}
			}
			row++
		}
		w.rows += len(table.Rows)
	}

	for col, n := range widths {
		colName, err := excelize.ColumnNumberToName(col)
		if err != nil {
			continue
		}
		_ = w.f.SetColWidth(name, colName, colName, float64(clamp(n+2, minColWidth, maxColWidth)))
	}
	return name, nil
}

// Sheets returns the document sheet names in the order they were added.
func (w *Workbook) Sheets() []string {
	return append([]string(nil), w.sheets...)
}

// Save writes the workbook to path, creating its directory if needed.
func (w *Workbook) Save(path string) error {
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("xlsx dir: %w", err)
	}
	_ = w.f.SetDocProps(&excelize.DocProperties{
		Title:      constants.SummaryTitle,
		Identifier: w.runID.String(),
		Creator:    "invoice-batch",
		Created:    start.UTC().Format(time.RFC3339),
	})
	w.f.SetActiveSheet(0)
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("export.xlsx.ok",
		"run_id", w.runID.String(),
		"path", path,
		"sheets", len(w.sheets),
		"rows", w.rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Close releases excelize's temporary resources.
func (w *Workbook) Close() error {
	return w.f.Close()
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
