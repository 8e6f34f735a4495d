package analysis

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// DefaultSnapshotLimit is the number of characters of extracted text kept on a report.
	DefaultSnapshotLimit = 5000
	snapshotMarker       = "..."

	nameSearchLines = 8
	minNameLength   = 4
	maxNameLength   = 59
)

// Report is the persisted record of one analyzed document.
type Report struct {
	ID            uuid.UUID       `json:"id"`
	FileName      string          `json:"file_name"`
	CandidateName string          `json:"candidate_name"`
	MatchScore    float64         `json:"match_score"`
	ExtractedText string          `json:"extracted_text"`
	Summary       json.RawMessage `json:"summary"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReportSink receives finished reports. Implementations surface their own errors;
// the analyzer does not retry.
type ReportSink interface {
	SaveReport(ctx context.Context, report *Report) error
}

var (
	lineSplitPattern = regexp.MustCompile(`\r?\n`)
	asciiLetter      = regexp.MustCompile(`[A-Za-z]`)
)

// ExtractCandidateName guesses the candidate's name: the first of the first eight
// lines that, once trimmed, is 4 to 59 characters long and contains a letter.
func ExtractCandidateName(text string) string {
	lines := lineSplitPattern.Split(text, -1)
	if len(lines) > nameSearchLines {
		lines = lines[:nameSearchLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < minNameLength || n > maxNameLength {
			continue
		}
		if asciiLetter.MatchString(line) {
			return line
		}
	}
	return ""
}

// Snapshot truncates text to limit characters, appending "..." when anything was cut.
// Invalid UTF-8 sequences are replaced with U+FFFD whether or not text is cut.
func Snapshot(text string, limit int) string {
	text = strings.ToValidUTF8(text, "\uFFFD")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + snapshotMarker
}
