package processor

import (
	"fmt"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
)

// Outcome is the result of processing one document.
type Outcome struct {
	Kind     constants.OutcomeKind
	Document string // base file name
	Layout   constants.Layout
	Sheet    string
	Message  string
}

// Summary renders the outcome as one summary-sheet line.
func (o Outcome) Summary() string {
	switch o.Kind {
	case constants.OutcomeProcessed:
		return fmt.Sprintf("Processed: %s (%s)", o.Document, o.Layout)
	case constants.OutcomeNoTableData:
		return fmt.Sprintf("No table data found in %s", o.Document)
	case constants.OutcomeUnrecognized:
		return fmt.Sprintf("Error: Could not identify invoice type for %s", o.Document)
	case constants.OutcomeMissingFile:
		return fmt.Sprintf("Error: File %s does not exist", o.Document)
	default:
		return fmt.Sprintf("Error processing %s: %s", o.Document, o.Message)
	}
}

// Stats tallies outcomes of a batch.
type Stats struct {
	Processed    int
	NoTableData  int
	Unrecognized int
	Missing      int
	Errors       int
}

func (s *Stats) add(kind constants.OutcomeKind) {
	switch kind {
	case constants.OutcomeProcessed:
		s.Processed++
	case constants.OutcomeNoTableData:
		s.NoTableData++
	case constants.OutcomeUnrecognized:
		s.Unrecognized++
	case constants.OutcomeMissingFile:
		s.Missing++
	default:
		s.Errors++
	}
}

func (s Stats) Total() int {
	return s.Processed + s.NoTableData + s.Unrecognized + s.Missing + s.Errors
}
