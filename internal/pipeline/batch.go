// Package pipeline runs document analysis over batches of resume files.
package pipeline

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// Progress event kinds.
const (
	EventStarted   = "started"
	EventCompleted = "completed"
	EventFailed    = "failed"
)

// ProgressEvent represents a progress update for one file
type ProgressEvent struct {
	Kind    string  `json:"kind"`
	File    string  `json:"file"`
	Score   float64 `json:"score,omitempty"`
	Message string  `json:"message,omitempty"`
}

// ProgressCallback is called when a file starts or finishes. It may be called
// from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// DocumentAnalyzer is satisfied by *analysis.Analyzer.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, doc analysis.Document, jobDescription string) (*analysis.Result, error)
}

// Options holds configuration for a batch run
type Options struct {
	// Concurrency bounds the number of files analyzed at once; <= 0 means 1.
	Concurrency int
	// FailFast stops the batch at the first failure and returns its error.
	FailFast   bool
	OnProgress ProgressCallback
}

// Outcome is the result of analyzing one file.
type Outcome struct {
	File   string           `json:"file"`
	Result *analysis.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
	Err    error            `json:"-"`
}

// AnalyzeFiles analyzes every path against the same job description. Outcomes are
// returned in input order. Per-file failures are recorded on their Outcome; the
// returned error is non-nil only for FailFast failures or a canceled context.
func AnalyzeFiles(ctx context.Context, analyzer DocumentAnalyzer, paths []string, jobDescription string, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, len(paths))
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		outcomes[i].File = path
		g.Go(func() error {
			// each goroutine writes only its own slot
			out := &outcomes[i]
			if err := gCtx.Err(); err != nil {
				out.Err = err
				out.Error = err.Error()
				return err
			}

			opts.notify(ProgressEvent{Kind: EventStarted, File: path})
			result, err := analyzeFile(gCtx, analyzer, path, jobDescription)
			if err != nil {
				out.Err = err
				out.Error = err.Error()
				opts.notify(ProgressEvent{Kind: EventFailed, File: path, Message: err.Error()})
				if opts.FailFast {
					return err
				}
				return nil
			}

			out.Result = result
			opts.notify(ProgressEvent{Kind: EventCompleted, File: path, Score: result.MatchScore})
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return outcomes, err
}

// Failed counts outcomes that carry an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

func (o Options) notify(event ProgressEvent) {
	if o.OnProgress != nil {
		o.OnProgress(event)
	}
}

func analyzeFile(ctx context.Context, analyzer DocumentAnalyzer, path, jobDescription string) (*analysis.Result, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return analyzer.AnalyzeDocument(ctx, doc, jobDescription)
}

// ReadDocument loads a file from disk as an analysis.Document. The content type is
// guessed from the extension.
func ReadDocument(path string) (analysis.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return analysis.Document{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}
