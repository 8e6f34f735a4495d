package analysis

import "fmt"

// ExtractionError reports that document text could not be obtained. Analysis is
// aborted before any stage runs.
type ExtractionError struct {
	FileName string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("text extraction failed for %s: %v", e.FileName, e.Cause)
	}
	return fmt.Sprintf("text extraction failed: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// SummaryError reports a malformed or unsupported encoded summary.
type SummaryError struct {
	Message string
	Cause   error
}

func (e *SummaryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("summary error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("summary error: %s", e.Message)
}

func (e *SummaryError) Unwrap() error {
	return e.Cause
}
