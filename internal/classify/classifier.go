package classify

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/profiles"
)

// rule is one vendor's ordered indicator list.
type rule struct {
	layout     constants.Layout
	indicators []*regexp.Regexp
}

// Classifier maps first-page text to a layout. Rules are evaluated in registry
// order and the first rule with any matching indicator wins, so a document
// that mentions two vendors is assigned to the higher-priority one.
type Classifier struct {
	rules  []rule
	sink   DebugSink
	logger *slog.Logger
}

func NewClassifier(reg *profiles.Registry, sink DebugSink, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Classifier{sink: sink, logger: logger}
	for _, p := range reg.Profiles() {
		c.rules = append(c.rules, rule{layout: p.Layout, indicators: p.Indicators})
	}
	return c
}

// Match returns the layout for text without side effects.
func (c *Classifier) Match(text string) (constants.Layout, string) {
	for _, r := range c.rules {
		for _, re := range r.indicators {
			if re.MatchString(text) {
				return r.layout, re.String()
			}
		}
	}
	return constants.Unknown, ""
}

// Classify returns the layout for the first-page text of doc. When nothing
// matches, the text is handed to the debug sink for triage.
func (c *Classifier) Classify(ctx context.Context, doc, text string) constants.Layout {
	layout, indicator := c.Match(text)
	if layout != constants.Unknown {
		c.logger.Debug("classify.ok", "doc", doc, "layout", layout, "indicator", indicator)
		return layout
	}

	if c.sink == nil {
		c.logger.Warn("classify.unrecognized", "doc", doc)
		return constants.Unknown
	}
	path, err := c.sink.WriteDebug(ctx, doc, text)
	if err != nil {
		c.logger.Error("classify.debug_artifact.failed", "doc", doc, "error", err)
		return constants.Unknown
	}
	c.logger.Warn("classify.unrecognized", "doc", doc, "debug_artifact", path)
	return constants.Unknown
}
