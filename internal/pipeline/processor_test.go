package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/document"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/extract"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/profiles"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/tables"
)

const amazonPage = "Tax Invoice/Bill of Supply/Cash Memo\nSold By :\nAppario Retail\nOrder Number: 402-1234567\nInvoice Number : IN-1\n"

type fakeHandle struct {
	pages  []document.Page
	closed int
}

func (h *fakeHandle) PageCount() int { return len(h.pages) }

func (h *fakeHandle) Page(_ context.Context, n int) (document.Page, error) {
	return h.pages[n-1], nil
}

func (h *fakeHandle) FirstPageText(_ context.Context) (string, error) {
	if len(h.pages) == 0 {
		return "", errors.New("no pages")
	}
	return h.pages[0].Text, nil
}

func (h *fakeHandle) Close() error {
	h.closed++
	return nil
}

type fakeClassifier map[string]constants.Layout

func (c fakeClassifier) Classify(_ context.Context, doc, _ string) constants.Layout {
	if l, ok := c[doc]; ok {
		return l
	}
	return constants.Unknown
}

type fakeTables struct {
	byDoc map[*fakeHandle]*tables.Table
	err   error
}

func (f fakeTables) Reconstruct(_ context.Context, src tables.PageSource) (*tables.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byDoc[src.(*fakeHandle)], nil
}

type recordingSink struct {
	sheets  []string
	headers map[string][]extract.HeaderField
	lines   []string
	failFor string
}

func (s *recordingSink) AddDocumentSheet(doc string, header []extract.HeaderField, _ *tables.Table) (string, error) {
	if doc == s.failFor {
		return "", errors.New("sheet write failed")
	}
	if s.headers == nil {
		s.headers = map[string][]extract.HeaderField{}
	}
	s.headers[doc] = header
	s.sheets = append(s.sheets, doc)
	return doc, nil
}

func (s *recordingSink) AddSummaryLine(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

type fixture struct {
	dir     string
	handles map[string]*fakeHandle
	sink    *recordingSink
}

func newFixture(t *testing.T, files ...string) *fixture {
	t.Helper()
	fx := &fixture{dir: t.TempDir(), handles: map[string]*fakeHandle{}, sink: &recordingSink{}}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(fx.dir, f), []byte("%PDF-1.4"), 0o644))
		fx.handles[f] = &fakeHandle{pages: []document.Page{{Number: 1, Text: amazonPage}}}
	}
	return fx
}

func (fx *fixture) open(_ context.Context, path string) (Handle, error) {
	h, ok := fx.handles[filepath.Base(path)]
	if !ok {
		return nil, errors.New("cannot open")
	}
	return h, nil
}

func (fx *fixture) paths(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(fx.dir, n)
	}
	return out
}

func (fx *fixture) processor(t *testing.T, cls Classifier, tb TableBuilder) *Processor {
	t.Helper()
	reg, err := profiles.Default()
	require.NoError(t, err)
	return NewProcessor(nil, fx.open, cls, reg, tb, fx.sink)
}

func TestRunOutcomes(t *testing.T) {
	fx := newFixture(t, "phone.pdf", "award_1.pdf", "mystery.pdf", "broken.pdf")
	delete(fx.handles, "broken.pdf")

	tb := fakeTables{byDoc: map[*fakeHandle]*tables.Table{
		fx.handles["phone.pdf"]: {Header: []string{"Description", "Total"}, Rows: [][]string{{"iPhone", "79900"}}},
	}}
	cls := fakeClassifier{"phone.pdf": constants.Amazon, "award_1.pdf": constants.Amazon}
	p := fx.processor(t, cls, tb)

	outcomes, stats, err := p.Run(context.Background(), fx.paths("phone.pdf", "gone.pdf", "award_1.pdf", "mystery.pdf", "broken.pdf"))
	require.NoError(t, err)

	kinds := make([]constants.OutcomeKind, len(outcomes))
	for i, o := range outcomes {
		kinds[i] = o.Kind
	}
	assert.Equal(t, []constants.OutcomeKind{
		constants.OutcomeProcessed,
		constants.OutcomeMissingFile,
		constants.OutcomeNoTableData,
		constants.OutcomeUnrecognized,
		constants.OutcomeUnrecognized,
	}, kinds)
	assert.Equal(t, Stats{Processed: 1, NoTableData: 1, Unrecognized: 2, Missing: 1}, stats)
	assert.Equal(t, 5, stats.Total())

	assert.Equal(t, []string{
		"Processed: phone.pdf (Amazon)",
		"Error: File gone.pdf does not exist",
		"No table data found in award_1.pdf",
		"Error: Could not identify invoice type for mystery.pdf",
		"Error: Could not identify invoice type for broken.pdf",
	}, fx.sink.lines)
	assert.Equal(t, []string{"phone.pdf", "award_1.pdf"}, fx.sink.sheets)

	assert.Contains(t, fx.sink.headers["phone.pdf"], extract.HeaderField{Name: "Order Number", Value: "402-1234567"})

	for name, h := range fx.handles {
		assert.Equal(t, 1, h.closed, name)
	}
}

func TestRunTableErrorIsNoTableData(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	p := fx.processor(t, fakeClassifier{"a.pdf": constants.Flipkart}, fakeTables{err: errors.New("page 2: bad stream")})

	outcomes, stats, err := p.Run(context.Background(), fx.paths("a.pdf"))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, constants.OutcomeNoTableData, outcomes[0].Kind)
	assert.Equal(t, constants.Flipkart, outcomes[0].Layout)
	assert.Equal(t, 1, stats.NoTableData)
	assert.Equal(t, 1, fx.handles["a.pdf"].closed)
}

func TestRunSheetErrorContinues(t *testing.T) {
	fx := newFixture(t, "a.pdf", "b.pdf")
	fx.sink.failFor = "a.pdf"
	cls := fakeClassifier{"a.pdf": constants.Amazon, "b.pdf": constants.Amazon}
	p := fx.processor(t, cls, fakeTables{})

	outcomes, stats, err := p.Run(context.Background(), fx.paths("a.pdf", "b.pdf"))
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, constants.OutcomeError, outcomes[0].Kind)
	assert.Equal(t, "Error processing a.pdf: sheet write failed", outcomes[0].Summary())
	assert.Equal(t, constants.OutcomeNoTableData, outcomes[1].Kind)
	assert.Equal(t, Stats{NoTableData: 1, Errors: 1}, stats)
}

func TestRunStopsBetweenDocumentsOnCancel(t *testing.T) {
	fx := newFixture(t, "a.pdf", "b.pdf")
	p := fx.processor(t, fakeClassifier{}, fakeTables{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes, _, err := p.Run(ctx, fx.paths("a.pdf", "b.pdf"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, outcomes)
	assert.Empty(t, fx.sink.lines)
}

func TestOutcomeSummary(t *testing.T) {
	tests := []struct {
		out  Outcome
		want string
	}{
		{Outcome{Kind: constants.OutcomeProcessed, Document: "1.1.pdf", Layout: constants.Amazon}, "Processed: 1.1.pdf (Amazon)"},
		{Outcome{Kind: constants.OutcomeNoTableData, Document: "x.pdf"}, "No table data found in x.pdf"},
		{Outcome{Kind: constants.OutcomeUnrecognized, Document: "x.pdf"}, "Error: Could not identify invoice type for x.pdf"},
		{Outcome{Kind: constants.OutcomeMissingFile, Document: "x.pdf"}, "Error: File x.pdf does not exist"},
		{Outcome{Kind: constants.OutcomeError, Document: "x.pdf", Message: "boom"}, "Error processing x.pdf: boom"},
	}
	for _, tt := range tests {
		t.Run(string(tt.out.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.out.Summary())
		})
	}
}
