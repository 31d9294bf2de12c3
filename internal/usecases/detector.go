// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sszz-tools/refactor-find/internal/domain"
)

// Logger defines the logging interface required by the use cases.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// StatDetector implements domain.Detector on top of DiffStat arithmetic.
//
// The underlying model: the change from X to Z can be approximated as the
// change from X to Y plus the change from Y to Z only when nothing in
// between was undone or structurally reshuffled. A mismatch in that sum is
// the refactoring signal.
type StatDetector struct {
	history domain.HistoryProvider
	logger  Logger
}

// NewStatDetector creates a StatDetector with the given dependencies.
func NewStatDetector(history domain.HistoryProvider, log Logger) *StatDetector {
	return &StatDetector{
		history: history,
		logger:  log,
	}
}

// RefactoredBy reports whether commit b specifically caused a refactoring of
// the change introduced by commit a. It compares five diff stats: the
// additivity mismatch must hold at b and must NOT hold at b's first parent,
// so the verdict is pinned to exactly b rather than some ancestor.
//
// ErrNoParent and ErrCommitNotFound from the history provider propagate
// uncaught; it is the caller's call whether a root commit is a usage error.
func (d *StatDetector) RefactoredBy(ctx context.Context, a, b string) (bool, error) {
	aParent, err := d.history.ParentOf(ctx, a)
	if err != nil {
		return false, fmt.Errorf("failed to resolve parent of %s: %w", a, err)
	}
	bParent, err := d.history.ParentOf(ctx, b)
	if err != nil {
		return false, fmt.Errorf("failed to resolve parent of %s: %w", b, err)
	}

	var aPtoA, aPtoBP, aPtoB, aToBP, aToB domain.DiffStat
	g, gctx := errgroup.WithContext(ctx)
	g.Go(d.fetch(gctx, &aPtoA, aParent, a))
	g.Go(d.fetch(gctx, &aPtoBP, aParent, bParent))
	g.Go(d.fetch(gctx, &aPtoB, aParent, b))
	g.Go(d.fetch(gctx, &aToBP, a, bParent))
	g.Go(d.fetch(gctx, &aToB, a, b))
	if err := g.Wait(); err != nil {
		return false, err
	}

	refactoredAtB := !aPtoA.Add(aToB).Equal(aPtoB)
	refactoredAtBParent := !aPtoA.Add(aToBP).Equal(aPtoBP)

	d.logger.Debug(ctx, "evaluated strict refactoring predicate", map[string]interface{}{
		"commit_a":               a,
		"commit_b":               b,
		"refactored_at_b":        refactoredAtB,
		"refactored_at_b_parent": refactoredAtBParent,
	})

	return refactoredAtB && !refactoredAtBParent, nil
}

// RefactoredSince reports whether a refactoring of the change introduced by
// commit a has happened by the time of commit b. Only three diff stats are
// needed; there is no exclusion at b's parent, which makes the answer a
// threshold over history rather than an attribution to b.
func (d *StatDetector) RefactoredSince(ctx context.Context, a, b string) (bool, error) {
	aParent, err := d.history.ParentOf(ctx, a)
	if err != nil {
		return false, fmt.Errorf("failed to resolve parent of %s: %w", a, err)
	}

	var aPtoA, aPtoB, aToB domain.DiffStat
	g, gctx := errgroup.WithContext(ctx)
	g.Go(d.fetch(gctx, &aPtoA, aParent, a))
	g.Go(d.fetch(gctx, &aPtoB, aParent, b))
	g.Go(d.fetch(gctx, &aToB, a, b))
	if err := g.Wait(); err != nil {
		return false, err
	}

	refactored := !aPtoA.Add(aToB).Equal(aPtoB)

	d.logger.Debug(ctx, "evaluated relaxed refactoring predicate", map[string]interface{}{
		"commit_a":   a,
		"commit_b":   b,
		"refactored": refactored,
	})

	return refactored, nil
}

// fetch returns a closure that stores the diff stat between two revisions.
// The queries within one evaluation are independent reads, so they run
// concurrently; any failure cancels the group and aborts the evaluation so
// no partial verdict is ever produced.
func (d *StatDetector) fetch(ctx context.Context, dst *domain.DiffStat, x, y string) func() error {
	return func() error {
		stat, err := d.history.DiffStat(ctx, x, y)
		if err != nil {
			return fmt.Errorf("failed to diff %s..%s: %w", x, y, err)
		}
		*dst = stat
		return nil
	}
}
