// Package domain defines the core business entities and interfaces for refactor-find.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors for git operations and refactoring search.
var (
	// ErrRepositoryNotFound indicates the specified path is not a valid Git repository.
	ErrRepositoryNotFound = errors.New("git repository not found at specified path")

	// ErrNoParent indicates a first parent was requested on a root commit.
	ErrNoParent = errors.New("commit has no parent")

	// ErrCommitNotFound indicates the requested commit does not exist or the
	// derived commit range is invalid (for example, unrelated histories).
	ErrCommitNotFound = errors.New("commit not found or commit range is invalid")

	// ErrUnknownStrategy indicates the requested search strategy is not recognized.
	ErrUnknownStrategy = errors.New("unknown search strategy")
)

// HistoryProvider exposes the version-control history queries the core needs.
// Implementations are read-only views of a repository; the history is assumed
// not to mutate during a single top-level query.
type HistoryProvider interface {
	// ParentOf returns the first parent of the given commit.
	// Returns ErrNoParent if the commit is a root commit and
	// ErrCommitNotFound if the commit does not exist.
	ParentOf(ctx context.Context, commit string) (string, error)

	// DiffStat returns the whitespace-insensitive aggregate insertions and
	// deletions between the two revisions' trees. Argument order does not
	// need to be chronological; identical revisions yield the zero stat.
	DiffStat(ctx context.Context, a, b string) (DiffStat, error)

	// CommitsAfter returns all commits reachable from the repository HEAD
	// but not from the given commit, ordered oldest first.
	// Returns ErrCommitNotFound if the commit does not exist or the range
	// is invalid (for example, the commit is not an ancestor of HEAD).
	CommitsAfter(ctx context.Context, commit string) ([]string, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Detector decides whether a later commit refactored the change introduced
// by an earlier one, using DiffStat arithmetic only. Both historical
// variants are kept as distinct operations because they answer materially
// different questions.
type Detector interface {
	// RefactoredBy reports whether commit b specifically caused a
	// refactoring of the change introduced by commit a. It requires the
	// additivity mismatch to hold at b but not at b's first parent,
	// pinning the refactoring to exactly b.
	RefactoredBy(ctx context.Context, a, b string) (bool, error)

	// RefactoredSince reports whether a refactoring of the change
	// introduced by commit a has happened by the time of commit b,
	// without attributing it to b itself. This is the threshold predicate
	// the search strategies use.
	RefactoredSince(ctx context.Context, a, b string) (bool, error)
}

// Finder locates the first commit that refactors a suspect change.
type Finder interface {
	// FindFirstRefactoring searches the commits after input.Commit for the
	// first one satisfying the relaxed refactoring predicate. An exhausted
	// search returns Found=false, not an error.
	FindFirstRefactoring(ctx context.Context, input SearchInput) (*SearchOutput, error)
}

// OutputWriter writes the located commit to an output destination.
type OutputWriter interface {
	// WriteCommit writes the commit identifier to the output.
	WriteCommit(commit string) error
}
