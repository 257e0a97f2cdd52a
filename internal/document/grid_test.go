package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ln(y float64, words ...word) line { return line{Y: y, Words: words} }

func w(x float64, s string) word { return word{X: x, S: s} }

func TestMergeRuns(t *testing.T) {
	in := []word{
		{X: 10, W: 5, S: "i"},
		{X: 15, W: 5, S: "P"},
		{X: 20, W: 25, S: "hone"},
		{X: 60, W: 10, S: "15"},
		{X: 80, S: " "},
		{X: 90, S: "Pro"},
	}
	got := mergeRuns(in, 1.0)
	require.Len(t, got, 3)
	assert.Equal(t, "iPhone", got[0].S)
	assert.Equal(t, 35.0, got[0].W)
	assert.Equal(t, "15", got[1].S)
	assert.Equal(t, "Pro", got[2].S)
}

func TestRenderText(t *testing.T) {
	lines := []line{
		ln(700, w(10, "Order"), w(40, "Number:"), w(90, "123-4567890")),
		ln(680, w(10, "Invoice")),
	}
	assert.Equal(t, "Order Number: 123-4567890\nInvoice", renderText(lines))
	assert.Equal(t, "", renderText(nil))
}

func TestDetectTables(t *testing.T) {
	lines := []line{
		ln(800, w(10, "Sold"), w(30, "By")),
		ln(700, w(10, "Sl."), w(50, "Description"), w(200, "Qty"), w(260, "Total")),
		ln(690, w(10, "1"), w(50, "iPhone"), w(85, "15"), w(200, "1"), w(260, "79,900")),
		ln(680, w(10, "2"), w(50, "Case"), w(261, "499")),
		ln(600, w(10, "Thank"), w(40, "you")),
	}

	tables := detectTables(lines, DefaultGridConfig())
	require.Len(t, tables, 1)
	assert.Equal(t, [][]string{
		{"Sl.", "Description", "Qty", "Total"},
		{"1", "iPhone 15", "1", "79,900"},
		{"2", "Case", "", "499"},
	}, tables[0].Rows)
}

func TestDetectTablesNeedsAlignedColumns(t *testing.T) {
	cfg := DefaultGridConfig()

	prose := []line{
		ln(700, w(10, "Billing"), w(60, "Address")),
		ln(690, w(10, "Jane"), w(45, "Doe")),
		ln(680, w(10, "Pune")),
	}
	assert.Empty(t, detectTables(prose, cfg))
	assert.Empty(t, detectTables(nil, cfg))

	// a single aligned line is not a table
	single := []line{
		ln(700, w(10, "a"), w(50, "b"), w(90, "c")),
		ln(690, w(10, "d"), w(50, "e"), w(90, "f")),
		ln(600, w(300, "x")),
		ln(590, w(10, "g"), w(50, "h"), w(90, "i")),
	}
	tables := detectTables(single, cfg)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 2)
}
