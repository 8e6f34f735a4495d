// Package ingestion resolves the job description used for scoring. It may be
// given inline, read from a file, or fetched from a job posting URL.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/fetch"
)

var (
	// ErrMultipleSources is returned when more than one source is set
	ErrMultipleSources = errors.New("only one of job description text, file or URL may be set")
	// ErrHTTPRequestFailed is returned when the posting could not be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text could be extracted
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// Source selects where the job description comes from. At most one field may be set;
// an empty Source means no job description.
type Source struct {
	Text string
	File string
	URL  string
}

// IsEmpty reports whether no source is set.
func (s Source) IsEmpty() bool {
	return s.Text == "" && s.File == "" && s.URL == ""
}

func (s Source) count() int {
	n := 0
	for _, v := range []string{s.Text, s.File, s.URL} {
		if v != "" {
			n++
		}
	}
	return n
}

// Load resolves src into cleaned text. An empty source returns "" and nil metadata.
func Load(ctx context.Context, src Source, opts *fetch.Options, verbose bool) (string, *Metadata, error) {
	switch {
	case src.count() > 1:
		return "", nil, ErrMultipleSources
	case src.Text != "":
		text := CleanText(src.Text)
		return text, NewMetadata(text, KindText, ""), nil
	case src.File != "":
		return FromFile(src.File)
	case src.URL != "":
		return FromURL(ctx, src.URL, opts, verbose)
	default:
		return "", nil, nil
	}
}

// FromFile reads a job description file. HTML files are reduced to their main text.
func FromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("job description file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read job description file: %w", err)
	}

	raw := string(content)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		raw, err = fetch.ExtractMainText(raw, fetch.JobPostingSelectors())
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
	}

	text := CleanText(raw)
	return text, NewMetadata(text, KindFile, path), nil
}

// FromURL fetches a job posting and extracts its description using platform
// specific selectors. Plain text responses are used as-is.
func FromURL(ctx context.Context, urlStr string, opts *fetch.Options, verbose bool) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, opts)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched %d bytes (%s)", len(result.Body), result.ContentType)
	}

	raw := result.Body
	if result.IsHTML() {
		content, noise := fetch.Selectors(platform)
		raw, err = fetch.ExtractMainText(result.Body, content, noise...)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
	}

	text := CleanText(raw)
	if text == "" {
		return "", nil, fmt.Errorf("%w: no text found at %s", ErrContentExtractionFailed, urlStr)
	}
	if verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(text))
	}

	metadata := NewMetadata(text, KindURL, urlStr)
	metadata.Platform = string(platform)
	return text, metadata, nil
}
