package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

// Result is the assessment of one resume.
type Result struct {
	MatchScore        float64      `json:"matchScore"`
	SkillMatches      SkillMatches `json:"skillMatches"`
	TopSkills         []string     `json:"topSkills"`
	ExperienceSummary string       `json:"experienceSummary"`
	EducationSummary  string       `json:"educationSummary"`
	Suggestions       string       `json:"suggestions"`

	// Breakdown carries the sub-scores for logging and verbose output.
	Breakdown ScoreBreakdown `json:"-"`
}

// Document is an uploaded file awaiting text extraction.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

// TextExtractor converts a document to plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc Document) (string, error)
}

// Analyzer runs the analysis pipeline over a fixed skill catalog. It holds no
// per-call state and is safe for concurrent use.
type Analyzer struct {
	catalog       SkillCatalog
	extractor     TextExtractor
	sink          ReportSink
	snapshotLimit int
	logger        *log.Logger
	verbose       bool
	now           func() time.Time
	newID         func() uuid.UUID
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithExtractor sets the document-to-text boundary used by AnalyzeDocument.
func WithExtractor(e TextExtractor) Option {
	return func(a *Analyzer) { a.extractor = e }
}

// WithReportSink sets where AnalyzeDocument hands finished reports.
func WithReportSink(s ReportSink) Option {
	return func(a *Analyzer) { a.sink = s }
}

// WithSnapshotLimit overrides DefaultSnapshotLimit.
func WithSnapshotLimit(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.snapshotLimit = n
		}
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		a.logger = l
	}
}

// WithVerbose enables per-stage debug logging.
func WithVerbose(v bool) Option {
	return func(a *Analyzer) { a.verbose = v }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithIDGenerator overrides the report ID source.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(a *Analyzer) { a.newID = newID }
}

// NewAnalyzer creates an Analyzer over catalog.
func NewAnalyzer(catalog SkillCatalog, opts ...Option) *Analyzer {
	a := &Analyzer{
		catalog:       catalog,
		snapshotLimit: DefaultSnapshotLimit,
		logger:        log.Default(),
		now:           time.Now,
		newID:         uuid.New,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog returns the analyzer's skill catalog.
func (a *Analyzer) Catalog() SkillCatalog {
	return a.catalog
}

// Analyze assesses resume text against an optional job description (empty means
// absent). It performs no I/O.
func (a *Analyzer) Analyze(text, jobDescription string) *Result {
	lower := Normalize(text)

	matches := MatchSkills(a.catalog, lower)
	top := RankTopSkills(matches, TopSkillsLimit)
	exp := ExtractExperience(text)
	education := ExtractEducation(text)

	breakdown := ComposeScore(
		SkillScore(a.catalog, jobDescription, lower),
		ExperienceScore(exp),
		EducationScore(education),
	)

	a.debugf("[analyze] matched %d skills, top=%v, experience=%q, education=%q",
		matches.Len(), top, exp.String(), education)

	return &Result{
		MatchScore:        breakdown.Final,
		SkillMatches:      matches,
		TopSkills:         top,
		ExperienceSummary: exp.String(),
		EducationSummary:  education,
		Suggestions:       BuildSuggestions(matches, exp),
		Breakdown:         breakdown,
	}
}

// AnalyzeDocument extracts text from doc, analyzes it and hands a report to the
// configured sink. Extraction failures are returned as *ExtractionError; sink
// failures are returned as-is.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc Document, jobDescription string) (*Result, error) {
	if a.extractor == nil {
		return nil, &ExtractionError{FileName: doc.FileName, Cause: errors.New("no text extractor configured")}
	}

	a.logger.Printf("[analyze] starting analysis for file: %s", doc.FileName)

	text, err := a.extractor.ExtractText(ctx, doc)
	if err != nil {
		a.logger.Printf("[analyze] text extraction failed for %s: %v", doc.FileName, err)
		var extractionErr *ExtractionError
		if errors.As(err, &extractionErr) {
			return nil, extractionErr
		}
		return nil, &ExtractionError{FileName: doc.FileName, Cause: err}
	}
	a.debugf("[analyze] extracted %d bytes of text from %s", len(text), doc.FileName)

	result := a.Analyze(text, jobDescription)
	a.logger.Printf("[analyze] scores for %s -> skill: %.2f, exp: %.2f, edu: %.2f, final: %.2f",
		doc.FileName, result.Breakdown.Skill, result.Breakdown.Experience,
		result.Breakdown.Education, result.MatchScore)

	if a.sink == nil {
		return result, nil
	}

	report, err := a.NewReport(doc.FileName, text, result)
	if err != nil {
		return nil, err
	}
	if err := a.sink.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report for %s: %w", doc.FileName, err)
	}
	a.logger.Printf("[analyze] report %s saved for candidate %q", report.ID, report.CandidateName)

	return result, nil
}

// NewReport assembles the persisted record for an analyzed document.
func (a *Analyzer) NewReport(fileName, text string, result *Result) (*Report, error) {
	summary, err := EncodeSummary(result)
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:            a.newID(),
		FileName:      fileName,
		CandidateName: ExtractCandidateName(text),
		MatchScore:    result.MatchScore,
		ExtractedText: Snapshot(text, a.snapshotLimit),
		Summary:       summary,
		CreatedAt:     a.now(),
	}, nil
}

func (a *Analyzer) debugf(format string, args ...any) {
	if a.verbose {
		a.logger.Printf(format, args...)
	}
}
