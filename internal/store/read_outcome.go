package store

import "plantao/internal/models"

// ReadOutcome says where a Read got its record from.
type ReadOutcome int

const (
	OutcomeOk ReadOutcome = iota
	OutcomeMissingFile
	OutcomeCorruptFile
)

func (o ReadOutcome) String() string {
	switch o {
	case OutcomeOk:
		return "ok"
	case OutcomeMissingFile:
		return "missing"
	case OutcomeCorruptFile:
		return "corrupt"
	default:
		return "unknown"
	}
}

// ReadResult is the outcome of Read. Record is always usable; Cause is
// only set for OutcomeCorruptFile.
type ReadResult struct {
	Record  models.Record
	Outcome ReadOutcome
	Cause   error
}

// Degraded reports whether defaults were substituted for the file contents.
func (r ReadResult) Degraded() bool {
	return r.Outcome != OutcomeOk
}
