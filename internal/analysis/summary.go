package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/schemas"
)

// SummaryVersion is the current version of the encoded report summary.
const SummaryVersion = 1

// Summary is the structured record of matched skills and top skills stored with a
// report.
type Summary struct {
	Version   int          `json:"version"`
	Skills    SkillMatches `json:"skills"`
	TopSkills []string     `json:"top"`
}

// NewSummary derives the summary of a result.
func NewSummary(r *Result) Summary {
	top := r.TopSkills
	if top == nil {
		top = []string{}
	}
	return Summary{
		Version:   SummaryVersion,
		Skills:    r.SkillMatches,
		TopSkills: top,
	}
}

// EncodeSummary returns the deterministic JSON encoding of the result's summary.
// Skills are written in catalog order. The encoding is checked against the summary
// schema so nothing unreadable reaches a report.
func EncodeSummary(r *Result) ([]byte, error) {
	data, err := json.Marshal(NewSummary(r))
	if err != nil {
		return nil, &SummaryError{Message: "failed to encode", Cause: err}
	}
	if err := schemas.ValidateAnalysisSummary(data); err != nil {
		return nil, &SummaryError{Message: "encoded summary does not match schema", Cause: err}
	}
	return data, nil
}

// DecodeSummary parses and validates an encoded summary.
func DecodeSummary(data []byte) (*Summary, error) {
	if err := schemas.ValidateAnalysisSummary(data); err != nil {
		return nil, &SummaryError{Message: "invalid summary document", Cause: err}
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &SummaryError{Message: "failed to decode", Cause: err}
	}
	if s.Version != SummaryVersion {
		return nil, &SummaryError{Message: fmt.Sprintf("unsupported version %d", s.Version)}
	}
	return &s, nil
}
