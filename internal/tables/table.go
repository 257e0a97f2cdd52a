package tables

import (
	"strings"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
)

// Table is the unified line-item table of one document. Every row has exactly
// len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether there is nothing worth writing.
func (t *Table) Empty() bool {
	return t == nil || len(t.Header) == 0 || len(t.Rows) == 0
}

// cleanCell flattens embedded newlines and trims.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// normalizeHeader cleans header cells, replacing blanks with a placeholder.
func normalizeHeader(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c = cleanCell(c); c == "" {
			c = constants.ColumnPlaceholder
		}
		out[i] = c
	}
	return out
}

// normalizeRow cleans cells and truncates or right-pads the row to width.
func normalizeRow(cells []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(cells); i++ {
		out[i] = cleanCell(cells[i])
	}
	return out
}
