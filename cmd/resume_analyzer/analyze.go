package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/extraction"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>...",
	Short: "Analyze one or more resume files",
	Long: `Extract text from each resume (PDF, DOCX or plain text), score it against an optional
job description and print the results as JSON.

The job description may be given inline (--job-description), as a file (--job-file)
or as a job posting URL (--job-url); these are mutually exclusive. Multiple files are
analyzed concurrently. Configuration can be loaded from a JSON file using --config;
command-line flags override config file values.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeConfigPath  string
	analyzeJobDesc     string
	analyzeJobFile     string
	analyzeJobURL      string
	analyzeSave        bool
	analyzeVerbose     bool
	analyzeFailFast    bool
	analyzeConcurrency int
	analyzeDatabaseURL string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCmd.Flags().StringVarP(&analyzeJobDesc, "job-description", "d", "", "Job description text")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job-file", "j", "", "Path to job description file (text or HTML)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL of a job posting to fetch the description from")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save a report for each analyzed file (requires DATABASE_URL)")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print boxed human-readable output and debug logs")
	analyzeCmd.Flags().BoolVar(&analyzeFailFast, "fail-fast", false, "Stop at the first file that fails")
	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", 0, "Files analyzed in parallel (default 4)")

	analyzeCmd.MarkFlagsMutuallyExclusive("job-description", "job-file", "job-url")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, analyzeConfigPath, func(cfg *config.Config) {
		// an explicit job source on the command line replaces the config file's
		if cmd.Flags().Changed("job-description") || cmd.Flags().Changed("job-file") || cmd.Flags().Changed("job-url") {
			cfg.JobFile = analyzeJobFile
			cfg.JobURL = analyzeJobURL
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Concurrency = analyzeConcurrency
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = analyzeVerbose
		}
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = analyzeDatabaseURL
		}
	})
	if err != nil {
		return err
	}

	jobDescription, jobMeta, err := ingestion.Load(ctx, ingestion.Source{
		Text: analyzeJobDesc,
		File: cfg.JobFile,
		URL:  cfg.JobURL,
	}, nil, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}

	opts := []analysis.Option{
		analysis.WithExtractor(extraction.NewDocumentExtractor()),
		analysis.WithSnapshotLimit(cfg.SnapshotLimit),
		analysis.WithVerbose(cfg.Verbose),
	}
	if cfg.Verbose {
		opts = append(opts, analysis.WithLogger(log.New(cmd.ErrOrStderr(), "", log.LstdFlags)))
	}

	if analyzeSave {
		database, err := connectForSave(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		opts = append(opts, analysis.WithReportSink(database))
	}

	analyzer := analysis.NewAnalyzer(cfg.Catalog(), opts...)

	outcomes, err := pipeline.AnalyzeFiles(ctx, analyzer, args, jobDescription, pipeline.Options{
		Concurrency: cfg.Concurrency,
		FailFast:    analyzeFailFast,
		OnProgress:  progressLogger(cfg.Verbose),
	})
	if err != nil && !analyzeFailFast {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Verbose {
		printVerbose(out, cmd.ErrOrStderr(), jobMeta, outcomes)
	} else if werr := writeJSON(out, outcomes); werr != nil {
		return werr
	}

	if err != nil {
		return err
	}
	if failed := pipeline.Failed(outcomes); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}

func connectForSave(ctx context.Context, databaseURL string) (*db.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("--save requires --db-url or %s", config.EnvDatabaseURL)
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return database, nil
}

// writeJSON prints a single result object for one file, or an array of outcomes.
func writeJSON(out io.Writer, outcomes []pipeline.Outcome) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	var v any = outcomes
	if len(outcomes) == 1 && outcomes[0].Err == nil {
		v = outcomes[0].Result
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func progressLogger(verbose bool) pipeline.ProgressCallback {
	if !verbose {
		return nil
	}
	return func(e pipeline.ProgressEvent) {
		switch e.Kind {
		case pipeline.EventCompleted:
			log.Printf("[analyze] %s %s (score %.2f)", e.Kind, e.File, e.Score)
		case pipeline.EventFailed:
			log.Printf("[analyze] %s %s: %s", e.Kind, e.File, e.Message)
		default:
			log.Printf("[analyze] %s %s", e.Kind, e.File)
		}
	}
}

func printVerbose(out, errOut io.Writer, jobMeta *ingestion.Metadata, outcomes []pipeline.Outcome) {
	printer := observability.NewPrinter(out)
	printer.PrintJobDescription(jobMeta)

	rows := make([]observability.BatchRow, 0, len(outcomes))
	for _, o := range outcomes {
		row := observability.BatchRow{FileName: o.File, Err: o.Err}
		if o.Result != nil {
			printer.PrintAnalysis(o.File, o.Result)
			printer.PrintSuggestions(o.Result)
			row.Score = o.Result.MatchScore
		}
		rows = append(rows, row)
	}
	if len(outcomes) > 1 {
		printer.PrintBatchSummary(rows)
	}
	if len(outcomes) == 1 && outcomes[0].Err != nil {
		_, _ = fmt.Fprintf(errOut, "%s: %v\n", outcomes[0].File, outcomes[0].Err)
	}
}
