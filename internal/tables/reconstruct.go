package tables

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/common"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/document"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/profiles"
)

// PageSource yields the pages of one open document.
type PageSource interface {
	PageCount() int
	Page(ctx context.Context, n int) (document.Page, error)
}

// Reconstructor merges per-page table candidates into one table, falling back
// to line heuristics on pages that have no candidates.
type Reconstructor struct {
	headerKeywords  []string
	productKeywords []string
	rowPattern      *regexp.Regexp
	logger          *slog.Logger
}

func NewReconstructor(fb profiles.Fallback, logger *slog.Logger) *Reconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconstructor{
		headerKeywords:  fb.HeaderKeywords,
		productKeywords: fb.ProductKeywords,
		rowPattern:      fb.RowPattern,
		logger:          logger,
	}
}

// Reconstruct walks the pages in order. The header is taken once, from the
// first table (or fallback header line) found, and every later row is
// normalized to its width. A nil table means no usable data.
func (r *Reconstructor) Reconstruct(ctx context.Context, src PageSource) (*Table, error) {
	t := &Table{}
	for n := 1; n <= src.PageCount(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := src.Page(ctx, n)
		if err != nil {
			return nil, common.TableExtractionError(n, err)
		}
		if len(page.Tables) > 0 {
			r.addTables(t, page.Tables)
			continue
		}
		if page.Text != "" {
			r.addFallback(ctx, t, page)
		}
	}
	if t.Empty() {
		return nil, nil
	}
	return t, nil
}

func (r *Reconstructor) addTables(t *Table, candidates []document.Table) {
	for _, c := range candidates {
		if len(c.Rows) == 0 {
			continue
		}
		if len(t.Header) == 0 {
			t.Header = normalizeHeader(c.Rows[0])
		}
		if len(t.Header) == 0 {
			// rows without a header would have no width; a later page may still set it
			continue
		}
		// the first row of every candidate is its own header
		for _, row := range c.Rows[1:] {
			t.Rows = append(t.Rows, normalizeRow(row, len(t.Header)))
		}
	}
}

// addFallback scans one page's text for the first header-like line and
// collects the item-like lines after it.
func (r *Reconstructor) addFallback(ctx context.Context, t *Table, page document.Page) {
	lines := strings.Split(page.Text, "\n")
	for i, line := range lines {
		if !containsAny(strings.ToLower(line), r.headerKeywords) {
			continue
		}
		if len(t.Header) == 0 {
			t.Header = normalizeHeader(strings.Fields(line))
		}
		if len(t.Header) == 0 {
			return
		}
		added := 0
		for _, rowLine := range lines[i+1:] {
			if r.isItemLine(rowLine) {
				t.Rows = append(t.Rows, normalizeRow(strings.Fields(rowLine), len(t.Header)))
				added++
			}
		}
		r.logger.Debug("tables.fallback", "doc", common.DocumentFromContext(ctx), "page", page.Number, "header_line", i+1, "rows", added)
		return
	}
}

func (r *Reconstructor) isItemLine(line string) bool {
	if r.rowPattern != nil && r.rowPattern.MatchString(line) {
		return true
	}
	return containsAny(strings.ToLower(line), r.productKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
