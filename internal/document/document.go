package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/common"
)

var errNoPages = errors.New("document has no pages")

// Table is a structured table candidate. Rows are ordered top to bottom; an
// empty string marks a missing cell.
type Table struct {
	Rows [][]string
}

// Page is the text and table candidates of one page.
type Page struct {
	Number int // 1-indexed
	Text   string
	Tables []Table
}

type Config struct {
	Engine    string // constants.TextEngineNative | constants.TextEnginePdftotext
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Grid      GridConfig
}

// Opener opens invoice PDFs with a shared configuration.
type Opener struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewOpener(cfg Config, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Engine == "" {
		cfg.Engine = constants.TextEngineNative
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Grid == (GridConfig{}) {
		cfg.Grid = DefaultGridConfig()
	}
	if cfg.Grid.MinCols < 2 {
		cfg.Grid.MinCols = 2
	}
	if cfg.Grid.MinRows < 2 {
		cfg.Grid.MinRows = 2
	}
	return &Opener{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner used by the pdftotext engine.
func (o *Opener) WithRunner(r Runner) *Opener {
	cp := *o
	cp.runner = r
	return &cp
}

// Document is an open invoice PDF. Close must be called on every path.
type Document struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	pages  int

	cfg    Config
	runner Runner
	logger *slog.Logger

	layoutPages []string // pdftotext output, loaded on first use
}

// Open preflights path with pdfcpu and opens it for text extraction.
func (o *Opener) Open(ctx context.Context, path string) (doc *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.DocumentOpenError(path, err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()

	// pdfcpu parses the cross-reference table and page tree; this catches
	// truncated or encrypted files before the text reader sees them.
	n, err := api.PageCount(f, nil)
	if err != nil {
		return nil, common.DocumentOpenError(path, fmt.Errorf("preflight: %w", err))
	}
	if n == 0 {
		return nil, common.DocumentOpenError(path, errNoPages)
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, common.DocumentOpenError(path, err)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, common.DocumentOpenError(path, err)
	}

	r, err := newReader(f, info.Size())
	if err != nil {
		return nil, common.DocumentOpenError(path, err)
	}

	o.logger.Debug("document.open.ok", "path", path, "pages", r.NumPage(), "preflight_pages", n)
	return &Document{
		path:   path,
		file:   f,
		reader: r,
		pages:  r.NumPage(),
		cfg:    o.cfg,
		runner: o.runner,
		logger: o.logger,
	}, nil
}

// newReader wraps pdf.NewReader, which panics on some malformed inputs.
func newReader(f *os.File, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader: %v", rec)
		}
	}()
	return pdf.NewReader(f, size)
}

// Close releases the underlying file. It is safe to call more than once.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

func (d *Document) PageCount() int { return d.pages }

// FirstPageText returns the text of page 1.
func (d *Document) FirstPageText(ctx context.Context) (string, error) {
	if d.pages == 0 {
		return "", errNoPages
	}
	p, err := d.Page(ctx, 1)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// Page extracts text and table candidates for page n (1-indexed).
func (d *Document) Page(ctx context.Context, n int) (page Page, err error) {
	if n < 1 || n > d.pages {
		return Page{}, fmt.Errorf("page %d out of range (1-%d)", n, d.pages)
	}
	if d.file == nil {
		return Page{}, errors.New("document is closed")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", n, rec)
		}
	}()

	page.Number = n
	lines, err := d.lines(n)
	if err != nil {
		return Page{}, fmt.Errorf("page %d: %w", n, err)
	}
	page.Tables = detectTables(lines, d.cfg.Grid)

	switch d.cfg.Engine {
	case constants.TextEnginePdftotext:
		if d.layoutPages == nil {
			if d.layoutPages, err = pdfToTextPages(ctx, d.runner, d.cfg.Pdftotext, d.path); err != nil {
				return Page{}, fmt.Errorf("pdftotext: %w", err)
			}
		}
		if n <= len(d.layoutPages) {
			page.Text = d.layoutPages[n-1]
		}
	default:
		page.Text = renderText(lines)
	}
	return page, nil
}

// lines reads positioned text rows of page n, top of page first.
func (d *Document) lines(n int) ([]line, error) {
	p := d.reader.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, err
	}

	out := make([]line, 0, len(rows))
	for _, row := range rows {
		ws := make([]word, 0, len(row.Content))
		for _, t := range row.Content {
			ws = append(ws, word{X: t.X, W: t.W, S: t.S})
		}
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].X < ws[j].X })
		ws = mergeRuns(ws, d.cfg.Grid.JoinGap)
		if len(ws) == 0 {
			continue
		}
		out = append(out, line{Y: float64(row.Position), Words: ws})
	}
	// PDF y grows upwards
	sort.SliceStable(out, func(i, j int) bool { return out[i].Y > out[j].Y })
	return out, nil
}
