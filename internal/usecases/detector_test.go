package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sszz-tools/refactor-find/internal/domain"
)

// mockLogger implements the Logger interface for testing.
type mockLogger struct{}

func (m *mockLogger) Info(_ context.Context, _ string, _ map[string]interface{})           {}
func (m *mockLogger) Debug(_ context.Context, _ string, _ map[string]interface{})          {}
func (m *mockLogger) Warn(_ context.Context, _ string, _ map[string]interface{})           {}
func (m *mockLogger) Error(_ context.Context, _ string, _ error, _ map[string]interface{}) {}

// stubHistory implements domain.HistoryProvider from in-memory tables.
// DiffStat is mutex-guarded because the detector issues its queries
// concurrently.
type stubHistory struct {
	mu         sync.Mutex
	parents    map[string]string
	stats      map[string]domain.DiffStat
	commits    []string
	commitsErr error
	diffCalls  int
}

func statKey(a, b string) string {
	return a + ".." + b
}

func (s *stubHistory) ParentOf(_ context.Context, commit string) (string, error) {
	parent, ok := s.parents[commit]
	if !ok {
		return "", fmt.Errorf("%w: %s is a root commit", domain.ErrNoParent, commit)
	}
	return parent, nil
}

func (s *stubHistory) DiffStat(_ context.Context, a, b string) (domain.DiffStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diffCalls++
	if a == b {
		return domain.DiffStat{}, nil
	}
	stat, ok := s.stats[statKey(a, b)]
	if !ok {
		return domain.DiffStat{}, fmt.Errorf("unexpected diff query %s..%s", a, b)
	}
	return stat, nil
}

func (s *stubHistory) CommitsAfter(_ context.Context, _ string) ([]string, error) {
	if s.commitsErr != nil {
		return nil, s.commitsErr
	}
	return s.commits, nil
}

func (s *stubHistory) Close() error {
	return nil
}

func TestStatDetector_RefactoredSince(t *testing.T) {
	tests := []struct {
		name  string
		stats map[string]domain.DiffStat
		want  bool
	}{
		{
			name: "additive diffs mean no refactoring",
			stats: map[string]domain.DiffStat{
				statKey("ap", "a"): {Insertions: 10, Deletions: 0},
				statKey("a", "b"):  {Insertions: 0, Deletions: 10},
				statKey("ap", "b"): {Insertions: 10, Deletions: 10},
			},
			want: false,
		},
		{
			name: "non-additive diffs mean refactoring happened",
			stats: map[string]domain.DiffStat{
				statKey("ap", "a"): {Insertions: 10, Deletions: 0},
				statKey("a", "b"):  {Insertions: 0, Deletions: 10},
				statKey("ap", "b"): {Insertions: 5, Deletions: 5},
			},
			want: true,
		},
		{
			name: "insertion-only mismatch is still a refactoring",
			stats: map[string]domain.DiffStat{
				statKey("ap", "a"): {Insertions: 3, Deletions: 1},
				statKey("a", "b"):  {Insertions: 2, Deletions: 0},
				statKey("ap", "b"): {Insertions: 4, Deletions: 1},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &stubHistory{
				parents: map[string]string{"a": "ap", "b": "bp"},
				stats:   tt.stats,
			}
			detector := NewStatDetector(history, &mockLogger{})

			got, err := detector.RefactoredSince(context.Background(), "a", "b")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 3, history.diffCalls, "relaxed variant needs exactly three diff stats")
		})
	}
}

func TestStatDetector_RefactoredSince_SameCommit(t *testing.T) {
	history := &stubHistory{
		parents: map[string]string{"a": "ap"},
		stats: map[string]domain.DiffStat{
			statKey("ap", "a"): {Insertions: 10, Deletions: 2},
		},
	}
	detector := NewStatDetector(history, &mockLogger{})

	got, err := detector.RefactoredSince(context.Background(), "a", "a")

	require.NoError(t, err)
	assert.False(t, got, "a commit cannot have refactored itself")
}

func TestStatDetector_RefactoredBy(t *testing.T) {
	tests := []struct {
		name  string
		stats map[string]domain.DiffStat
		want  bool
	}{
		{
			name: "refactoring pinned to b",
			stats: map[string]domain.DiffStat{
				statKey("ap", "a"):  {Insertions: 10, Deletions: 0},
				statKey("a", "b"):   {Insertions: 0, Deletions: 10},
				statKey("ap", "b"):  {Insertions: 5, Deletions: 5},
				statKey("a", "bp"):  {Insertions: 0, Deletions: 5},
				statKey("ap", "bp"): {Insertions: 10, Deletions: 5},
			},
			want: true,
		},
		{
			name: "refactoring already present at b's parent",
			stats: map[string]domain.DiffStat{
				statKey("ap", "a"):  {Insertions: 10, Deletions: 0},
				statKey("a", "b"):   {Insertions: 0, Deletions: 10},
				statKey("ap", "b"):  {Insertions: 5, Deletions: 5},
				statKey("a", "bp"):  {Insertions: 0, Deletions: 5},
				statKey("ap", "bp"): {Insertions: 3, Deletions: 3},
			},
			want: false,
		},
		{
			name: "no refactoring anywhere",
			stats: map[string]domain.DiffStat{
				statKey("ap", "a"):  {Insertions: 10, Deletions: 0},
				statKey("a", "b"):   {Insertions: 0, Deletions: 10},
				statKey("ap", "b"):  {Insertions: 10, Deletions: 10},
				statKey("a", "bp"):  {Insertions: 0, Deletions: 5},
				statKey("ap", "bp"): {Insertions: 10, Deletions: 5},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &stubHistory{
				parents: map[string]string{"a": "ap", "b": "bp"},
				stats:   tt.stats,
			}
			detector := NewStatDetector(history, &mockLogger{})

			got, err := detector.RefactoredBy(context.Background(), "a", "b")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 5, history.diffCalls, "strict variant needs exactly five diff stats")
		})
	}
}

func TestStatDetector_RootCommitPropagatesNoParent(t *testing.T) {
	history := &stubHistory{
		parents: map[string]string{},
	}
	detector := NewStatDetector(history, &mockLogger{})

	_, err := detector.RefactoredSince(context.Background(), "root", "b")
	assert.ErrorIs(t, err, domain.ErrNoParent)

	_, err = detector.RefactoredBy(context.Background(), "root", "b")
	assert.ErrorIs(t, err, domain.ErrNoParent)
}

func TestStatDetector_StrictRequiresParentOfB(t *testing.T) {
	history := &stubHistory{
		parents: map[string]string{"a": "ap"},
	}
	detector := NewStatDetector(history, &mockLogger{})

	_, err := detector.RefactoredBy(context.Background(), "a", "rootlike")

	assert.ErrorIs(t, err, domain.ErrNoParent)
}

func TestStatDetector_DiffFailureAbortsEvaluation(t *testing.T) {
	// Only one of the three stats is known; the evaluation must fail as a
	// whole instead of producing a verdict from partial data.
	history := &stubHistory{
		parents: map[string]string{"a": "ap"},
		stats: map[string]domain.DiffStat{
			statKey("ap", "a"): {Insertions: 1, Deletions: 1},
		},
	}
	detector := NewStatDetector(history, &mockLogger{})

	_, err := detector.RefactoredSince(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected diff query")
}
