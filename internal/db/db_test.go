package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

type recordedExec struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []recordedExec
	err   error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, recordedExec{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestSaveReport_InsertsAllColumns(t *testing.T) {
	fake := &fakeExecer{}
	store := &DB{exec: fake}
	report := &analysis.Report{
		ID:            uuid.New(),
		FileName:      "jane.pdf",
		CandidateName: "Jane Doe",
		MatchScore:    57.5,
		ExtractedText: "Jane Doe\nJava",
		Summary:       []byte(`{"version":1,"skills":{"java":1},"top":["java"]}`),
		CreatedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	err := store.SaveReport(context.Background(), report)

	require.NoError(t, err)
	require.Len(t, fake.calls, 1)
	assert.True(t, strings.HasPrefix(fake.calls[0].sql, "INSERT INTO resume_reports"))
	assert.Equal(t, []any{
		report.ID,
		"jane.pdf",
		"Jane Doe",
		57.5,
		"Jane Doe\nJava",
		[]byte(`{"version":1,"skills":{"java":1},"top":["java"]}`),
		report.CreatedAt,
	}, fake.calls[0].args)
}

func TestSaveReport_SanitizesDocumentText(t *testing.T) {
	fake := &fakeExecer{}
	store := &DB{exec: fake}
	report := &analysis.Report{
		ID:            uuid.New(),
		FileName:      "latin1.txt",
		CandidateName: "Jos\xe9 Garc\xeda",
		ExtractedText: "Jos\xe9 Garc\xeda\nJava developer, 5 years\x00",
		Summary:       []byte(`{"version":1,"skills":{"java":1},"top":["java"]}`),
	}

	require.NoError(t, store.SaveReport(context.Background(), report))
	require.Len(t, fake.calls, 1)

	args := fake.calls[0].args
	for _, i := range []int{2, 4} {
		text, ok := args[i].(string)
		require.True(t, ok)
		assert.True(t, utf8.ValidString(text), "column %d must be valid UTF-8", i)
		assert.NotContains(t, text, "\x00")
	}
	assert.Equal(t, "Jos\uFFFD Garc\uFFFDa", args[2])
	assert.Equal(t, "Jos\uFFFD Garc\uFFFDa\nJava developer, 5 years", args[4])
}

func TestTextColumn_KeepsValidText(t *testing.T) {
	assert.Equal(t, "José García", textColumn("José García"))
	assert.Equal(t, "", textColumn(""))
}

func TestSaveReport_PropagatesError(t *testing.T) {
	fake := &fakeExecer{err: errors.New("connection reset")}
	store := &DB{exec: fake}

	err := store.SaveReport(context.Background(), &analysis.Report{ID: uuid.New()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save report")
	assert.ErrorIs(t, err, fake.err)
}

func TestSaveReport_NilReport(t *testing.T) {
	store := &DB{exec: &fakeExecer{}}

	err := store.SaveReport(context.Background(), nil)

	assert.Error(t, err)
}

func TestEnsureSchema(t *testing.T) {
	fake := &fakeExecer{}
	store := &DB{exec: fake}

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.Len(t, fake.calls, 1)
	assert.Contains(t, fake.calls[0].sql, "CREATE TABLE IF NOT EXISTS resume_reports")
	assert.Empty(t, fake.calls[0].args)
}

func TestConnect_EmptyURL(t *testing.T) {
	_, err := Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestDB_ImplementsReportSink(t *testing.T) {
	var _ analysis.ReportSink = (*DB)(nil)
}
