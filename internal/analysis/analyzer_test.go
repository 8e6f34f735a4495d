package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) ExtractText(_ context.Context, _ Document) (string, error) {
	s.calls++
	return s.text, s.err
}

type memorySink struct {
	mu      sync.Mutex
	reports []*Report
	err     error
}

func (m *memorySink) SaveReport(_ context.Context, r *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, r)
	return nil
}

func newTestAnalyzer(opts ...Option) *Analyzer {
	opts = append([]Option{WithLogger(log.New(io.Discard, "", 0))}, opts...)
	return NewAnalyzer(DefaultSkillCatalog(), opts...)
}

func TestAnalyze_Scenario(t *testing.T) {
	a := newTestAnalyzer()

	result := a.Analyze(
		"5+ years experience. Bachelor's degree in Computer Science. Skills: Java, SQL, Docker.",
		"Looking for Java, SQL, AWS experience",
	)

	assert.Equal(t, 57.5, result.MatchScore)
	assert.Equal(t, map[string]int{"java": 1, "sql": 1, "docker": 1}, result.SkillMatches.Map())
	assert.Equal(t, []string{"java", "sql", "docker"}, result.TopSkills)
	assert.Equal(t, "5 years (detected)", result.ExperienceSummary)
	assert.Equal(t, EducationBachelors, result.EducationSummary)
	assert.Equal(t, "Highlight top skills: java, sql, docker. Tailor your resume to match job description keywords.",
		result.Suggestions)
	assert.InDelta(t, 66.67, result.Breakdown.Skill, 0.01)
	assert.Equal(t, 55.0, result.Breakdown.Experience)
	assert.Equal(t, 10.0, result.Breakdown.Education)
}

func TestAnalyze_EmptyText(t *testing.T) {
	a := newTestAnalyzer()

	result := a.Analyze("", "")

	// experience defaults to 30, weighted 0.3
	assert.Equal(t, 9.0, result.MatchScore)
	assert.True(t, result.SkillMatches.IsEmpty())
	assert.Empty(t, result.TopSkills)
	assert.Equal(t, ExperienceNotMentioned, result.ExperienceSummary)
	assert.Equal(t, EducationNone, result.EducationSummary)
	assert.NotEmpty(t, result.Suggestions)
	assert.True(t, strings.HasPrefix(result.Suggestions, "Add a technical skills section"))
}

func TestAnalyze_Invariants(t *testing.T) {
	a := newTestAnalyzer()
	inputs := []struct{ text, jd string }{
		{"", ""},
		{"java java java sql sql docker aws aws aws aws git react css html maven gradle", "java aws docker kubernetes"},
		{"PhD. 30 years. spring boot spring boot spring", "spring"},
		{"Nothing relevant here", "Java developer with Kubernetes"},
		{"Kubernetes, Kubernetes, Docker, Docker, Java, Java, REST API, AWS, Git, JUnit, Mockito, Maven", ""},
	}

	for _, in := range inputs {
		result := a.Analyze(in.text, in.jd)

		assert.GreaterOrEqual(t, result.MatchScore, 0.0)
		assert.LessOrEqual(t, result.MatchScore, 100.0)
		assert.Equal(t, RoundScore(result.MatchScore), result.MatchScore)
		assert.LessOrEqual(t, len(result.TopSkills), TopSkillsLimit)

		counts := result.SkillMatches.Map()
		prev := -1
		prevIdx := -1
		for i, skill := range result.TopSkills {
			count, ok := counts[skill]
			require.True(t, ok, "top skill %q must be a matched skill", skill)
			assert.Greater(t, count, 0)
			if i > 0 {
				assert.LessOrEqual(t, count, prev)
				if count == prev {
					assert.Greater(t, a.Catalog().Index(skill), prevIdx)
				}
			}
			prev = count
			prevIdx = a.Catalog().Index(skill)
		}
		assert.True(t, strings.HasSuffix(result.Suggestions, "Tailor your resume to match job description keywords."))
	}
}

func TestAnalyze_SmallerCatalog(t *testing.T) {
	a := NewAnalyzer(NewSkillCatalog("go", "rust"), WithLogger(nil))

	result := a.Analyze("Go and Rust and Go. Java too.", "We use Go")

	assert.Equal(t, map[string]int{"go": 2, "rust": 1}, result.SkillMatches.Map())
	assert.Equal(t, []string{"go", "rust"}, result.TopSkills)
	// skill 100*0.6 + exp 30*0.3
	assert.Equal(t, 69.0, result.MatchScore)
}

func TestAnalyze_ConcurrentCallsAreIndependent(t *testing.T) {
	a := newTestAnalyzer()
	want := a.Analyze("Java, SQL, 4 years, Master", "Java AWS")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := a.Analyze("Java, SQL, 4 years, Master", "Java AWS")
			assert.Equal(t, want.MatchScore, got.MatchScore)
			assert.Equal(t, want.TopSkills, got.TopSkills)
		}()
	}
	wg.Wait()
}

func TestResult_JSONFieldNames(t *testing.T) {
	a := newTestAnalyzer()
	result := a.Analyze("Java Java SQL", "")

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.ElementsMatch(t,
		[]string{"matchScore", "skillMatches", "topSkills", "experienceSummary", "educationSummary", "suggestions"},
		keys(raw))
	assert.JSONEq(t, `{"java":2,"sql":1}`, string(raw["skillMatches"]))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestAnalyzeDocument_SavesReport(t *testing.T) {
	text := "Jane Doe\nSenior Engineer\n8 years with Java and Spring Boot. M.Sc in CS."
	extractor := &stubExtractor{text: text}
	sink := &memorySink{}
	fixedID := uuid.MustParse("6f1c1a0e-8d7e-4a64-9c59-4f0d6b9a2f10")
	fixedTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	a := newTestAnalyzer(
		WithExtractor(extractor),
		WithReportSink(sink),
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() uuid.UUID { return fixedID }),
	)

	result, err := a.AnalyzeDocument(context.Background(), Document{FileName: "jane.pdf"}, "Java, Spring")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, extractor.calls)

	require.Len(t, sink.reports, 1)
	report := sink.reports[0]
	assert.Equal(t, fixedID, report.ID)
	assert.Equal(t, "jane.pdf", report.FileName)
	assert.Equal(t, "Jane Doe", report.CandidateName)
	assert.Equal(t, result.MatchScore, report.MatchScore)
	assert.Equal(t, text, report.ExtractedText)
	assert.Equal(t, fixedTime, report.CreatedAt)

	summary, err := DecodeSummary(report.Summary)
	require.NoError(t, err)
	assert.Equal(t, result.SkillMatches.Entries(), summary.Skills.Entries())
	assert.Equal(t, result.TopSkills, summary.TopSkills)
}

func TestAnalyzeDocument_Latin1TextStillAnalyzed(t *testing.T) {
	sink := &memorySink{}
	a := newTestAnalyzer(
		WithExtractor(&stubExtractor{text: "Jos\xe9 Garc\xeda\nJava developer, 5 years\x00"}),
		WithReportSink(sink),
	)

	result, err := a.AnalyzeDocument(context.Background(), Document{FileName: "latin1.txt"}, "")

	require.NoError(t, err)
	assert.Equal(t, 1, result.SkillMatches.Count("java"))
	require.Len(t, sink.reports, 1)
	assert.True(t, utf8.ValidString(sink.reports[0].ExtractedText))
}

func TestAnalyzeDocument_ExtractionErrorAbortsBeforeAnalysis(t *testing.T) {
	cause := errors.New("corrupt pdf")
	sink := &memorySink{}
	a := newTestAnalyzer(WithExtractor(&stubExtractor{err: cause}), WithReportSink(sink))

	result, err := a.AnalyzeDocument(context.Background(), Document{FileName: "bad.pdf"}, "")

	require.Error(t, err)
	assert.Nil(t, result)
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "bad.pdf", extractionErr.FileName)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, sink.reports)
}

func TestAnalyzeDocument_KeepsExtractionErrorFromExtractor(t *testing.T) {
	original := &ExtractionError{FileName: "x.doc", Cause: errors.New("unsupported")}
	a := newTestAnalyzer(WithExtractor(&stubExtractor{err: original}))

	_, err := a.AnalyzeDocument(context.Background(), Document{FileName: "x.doc"}, "")

	assert.Same(t, original, err)
}

func TestAnalyzeDocument_NoExtractor(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.AnalyzeDocument(context.Background(), Document{FileName: "a.pdf"}, "")

	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestAnalyzeDocument_SinkErrorPropagates(t *testing.T) {
	sinkErr := errors.New("database unavailable")
	a := newTestAnalyzer(
		WithExtractor(&stubExtractor{text: "Java"}),
		WithReportSink(&memorySink{err: sinkErr}),
	)

	result, err := a.AnalyzeDocument(context.Background(), Document{FileName: "a.txt"}, "")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, sinkErr)
}

func TestAnalyzeDocument_WithoutSink(t *testing.T) {
	a := newTestAnalyzer(WithExtractor(&stubExtractor{text: "Docker"}))

	result, err := a.AnalyzeDocument(context.Background(), Document{FileName: "a.txt"}, "")

	require.NoError(t, err)
	assert.Equal(t, 1, result.SkillMatches.Count("docker"))
}

func TestNewReport_SnapshotLimit(t *testing.T) {
	a := newTestAnalyzer(WithSnapshotLimit(10))
	text := strings.Repeat("a", 25)

	report, err := a.NewReport("f.txt", text, a.Analyze(text, ""))

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 10)+"...", report.ExtractedText)
}
