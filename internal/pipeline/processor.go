package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/common"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/extract"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/profiles"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/tables"
)

// Handle is an open invoice document.
type Handle interface {
	tables.PageSource
	FirstPageText(ctx context.Context) (string, error)
	Close() error
}

// OpenFunc opens the document at path. A non-nil error means no handle.
type OpenFunc func(ctx context.Context, path string) (Handle, error)

type Classifier interface {
	Classify(ctx context.Context, doc, text string) constants.Layout
}

type ProfileLookup interface {
	Lookup(layout constants.Layout) (*profiles.Profile, bool)
}

type TableBuilder interface {
	Reconstruct(ctx context.Context, src tables.PageSource) (*tables.Table, error)
}

// Sink receives per-document sheets and summary lines.
type Sink interface {
	AddDocumentSheet(doc string, header []extract.HeaderField, table *tables.Table) (string, error)
	AddSummaryLine(line string) error
}

// Processor runs the batch: classify, extract header, reconstruct table and
// write one sheet per document, one document at a time.
type Processor struct {
	Logger     *slog.Logger
	open       OpenFunc
	classifier Classifier
	profiles   ProfileLookup
	tables     TableBuilder
	sink       Sink
}

func NewProcessor(logger *slog.Logger, open OpenFunc, classifier Classifier, reg ProfileLookup, tb TableBuilder, sink Sink) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, open: open, classifier: classifier, profiles: reg, tables: tb, sink: sink}
}

// Run processes paths in order. Per-document failures become outcomes and
// never stop the batch; cancellation is honored between documents only, in
// which case the outcomes so far are returned with ctx's error.
func (p *Processor) Run(ctx context.Context, paths []string) ([]Outcome, Stats, error) {
	var (
		outcomes []Outcome
		stats    Stats
		start    = time.Now()
		runID    = common.RunIDFromContext(ctx).String()
	)
	p.Logger.Info("pipeline.start", "run_id", runID, "documents", len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			p.Logger.Warn("pipeline.canceled", "remaining", len(paths)-len(outcomes), "err", err)
			return outcomes, stats, err
		}
		out := p.ProcessFile(ctx, path)
		if err := p.sink.AddSummaryLine(out.Summary()); err != nil {
			p.Logger.Error("pipeline.summary.failed", "doc", out.Document, "err", err)
		}
		outcomes = append(outcomes, out)
		stats.add(out.Kind)
	}
	p.Logger.Info("pipeline.done",
		"run_id", runID,
		"processed", stats.Processed,
		"no_table", stats.NoTableData,
		"unrecognized", stats.Unrecognized,
		"missing", stats.Missing,
		"errors", stats.Errors,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return outcomes, stats, nil
}

// ProcessFile handles a single document. The in-flight document is finished
// even if ctx is canceled meanwhile.
func (p *Processor) ProcessFile(ctx context.Context, path string) Outcome {
	start := time.Now()
	doc := filepath.Base(path)
	ctx = common.WithDocument(context.WithoutCancel(ctx), doc)
	log := p.Logger.With("doc", doc)

	if _, err := os.Stat(path); err != nil {
		err = common.NewAppError(common.CodeMissingFile, path, fmt.Errorf("%w: %w", common.ErrMissingFile, err))
		log.Error("pipeline.document.missing", "err", err, "code", common.CodeOf(err))
		return Outcome{Kind: constants.OutcomeMissingFile, Document: doc}
	}

	res, ok := p.analyze(ctx, log, path, doc)
	if !ok {
		return Outcome{Kind: constants.OutcomeUnrecognized, Document: doc, Layout: constants.Unknown}
	}

	sheet, err := p.sink.AddDocumentSheet(doc, res.header.Fields(), res.table)
	if err != nil {
		log.Error("pipeline.document.failed", "layout", res.layout, "err", err)
		return Outcome{Kind: constants.OutcomeError, Document: doc, Layout: res.layout, Message: err.Error()}
	}

	out := Outcome{Kind: constants.OutcomeProcessed, Document: doc, Layout: res.layout, Sheet: sheet}
	rows := 0
	if res.table.Empty() {
		out.Kind = constants.OutcomeNoTableData
	} else {
		rows = len(res.table.Rows)
	}
	log.Info("pipeline.document.ok",
		"layout", res.layout,
		"sheet", sheet,
		"outcome", out.Kind,
		"header_fields", res.header.Len(),
		"rows", rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}

type analysis struct {
	layout constants.Layout
	header extract.Header
	table  *tables.Table
}

// analyze reads everything needed from the document and closes it before
// returning. ok is false when the layout is not recognized.
func (p *Processor) analyze(ctx context.Context, log *slog.Logger, path, doc string) (res analysis, ok bool) {
	h, err := p.open(ctx, path)
	if err != nil {
		log.Warn("pipeline.document.open_failed", "path", path, "err", err, "code", common.CodeOf(err))
		return res, false
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Warn("pipeline.document.close_failed", "err", err)
		}
	}()

	text, err := h.FirstPageText(ctx)
	if err != nil {
		log.Warn("pipeline.document.text_failed", "err", err)
		return res, false
	}

	res.layout = p.classifier.Classify(ctx, doc, text)
	profile, found := p.profiles.Lookup(res.layout)
	if res.layout == constants.Unknown || !found {
		log.Warn("pipeline.document.unrecognized", "err", common.ErrUnrecognizedLayout, "code", common.CodeUnrecognized)
		return res, false
	}

	res.header = extract.ExtractHeader(text, profile)
	res.table, err = p.tables.Reconstruct(ctx, h)
	if err != nil {
		log.Error("pipeline.tables.failed", "layout", res.layout, "err", err, "code", common.CodeOf(err))
		res.table = nil
	}
	return res, true
}
