package usecases

import (
	"context"
	"fmt"

	"github.com/sszz-tools/refactor-find/internal/domain"
)

// RefactoringFinder locates the first commit after a suspect commit that
// refactors the change it introduced. It implements domain.Finder.
//
// Two traversal strategies are supported. Linear scans oldest-first and is
// always correct. Binary assumes the relaxed refactoring predicate is
// monotone over the candidate sequence (once true, true for all later
// commits); nothing in the detector guarantees that, so on a history where
// a later commit un-refactors, the two strategies can disagree. That is a
// documented precondition of the binary strategy, not something this type
// masks.
type RefactoringFinder struct {
	history  domain.HistoryProvider
	detector domain.Detector
	logger   Logger
}

// NewRefactoringFinder creates a RefactoringFinder with the given dependencies.
func NewRefactoringFinder(
	history domain.HistoryProvider,
	detector domain.Detector,
	log Logger,
) *RefactoringFinder {
	return &RefactoringFinder{
		history:  history,
		detector: detector,
		logger:   log,
	}
}

// FindFirstRefactoring searches the commits after input.Commit for the first
// one satisfying the relaxed refactoring predicate.
//
// An empty candidate sequence or an exhausted search returns Found=false;
// "none" is a valid answer, not an error. ErrCommitNotFound and ErrNoParent
// from the history provider propagate to the caller.
func (f *RefactoringFinder) FindFirstRefactoring(
	ctx context.Context,
	input domain.SearchInput,
) (*domain.SearchOutput, error) {
	strategy := input.Strategy
	if strategy == "" {
		strategy = domain.DefaultStrategy
	}
	if strategy != domain.StrategyLinear && strategy != domain.StrategyBinary {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, strategy)
	}

	f.logger.Info(ctx, "starting refactoring search", map[string]interface{}{
		"commit":   input.Commit,
		"strategy": strategy,
	})

	candidates, err := f.history.CommitsAfter(ctx, input.Commit)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits after %s: %w", input.Commit, err)
	}

	out := &domain.SearchOutput{
		StartCommit: input.Commit,
		Candidates:  len(candidates),
		Strategy:    strategy,
	}

	if len(candidates) == 0 {
		f.logger.Warn(ctx, "no commits after suspect commit", map[string]interface{}{
			"commit": input.Commit,
		})
		return out, nil
	}

	switch strategy {
	case domain.StrategyLinear:
		out.Commit, out.Found, out.Evaluations, err = f.firstLinear(ctx, input.Commit, candidates)
	case domain.StrategyBinary:
		out.Commit, out.Found, out.Evaluations, err = f.firstBinary(ctx, input.Commit, candidates)
	}
	if err != nil {
		return nil, err
	}

	if out.Found {
		f.logger.Info(ctx, "refactoring commit located", map[string]interface{}{
			"commit":      input.Commit,
			"refactored":  out.Commit,
			"candidates":  out.Candidates,
			"evaluations": out.Evaluations,
			"strategy":    strategy,
		})
	} else {
		f.logger.Info(ctx, "no refactoring commit found", map[string]interface{}{
			"commit":      input.Commit,
			"candidates":  out.Candidates,
			"evaluations": out.Evaluations,
			"strategy":    strategy,
		})
	}

	return out, nil
}

// firstLinear scans the candidates oldest-first and stops at the first
// qualifying commit. Each evaluation costs multiple diff computations, so
// the short-circuit matters.
func (f *RefactoringFinder) firstLinear(
	ctx context.Context,
	target string,
	candidates []string,
) (string, bool, int, error) {
	evaluations := 0
	for _, candidate := range candidates {
		evaluations++
		refactored, err := f.detector.RefactoredSince(ctx, target, candidate)
		if err != nil {
			return "", false, evaluations, err
		}
		if refactored {
			return candidate, true, evaluations, nil
		}
	}
	return "", false, evaluations, nil
}

// firstBinary runs a leftmost-true binary search over the candidate indexes.
//
// Precondition: the relaxed predicate is monotone over candidates. Under
// that assumption this returns the same commit as firstLinear in O(log n)
// evaluations instead of O(n).
func (f *RefactoringFinder) firstBinary(
	ctx context.Context,
	target string,
	candidates []string,
) (string, bool, int, error) {
	evaluations := 0
	lo, hi := 0, len(candidates)-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		evaluations++
		refactored, err := f.detector.RefactoredSince(ctx, target, candidates[mid])
		if err != nil {
			return "", false, evaluations, err
		}
		if refactored {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	// One final probe at the convergence point: if the predicate never
	// becomes true, the bounds converge on the last candidate without it
	// ever having been evaluated true.
	evaluations++
	refactored, err := f.detector.RefactoredSince(ctx, target, candidates[lo])
	if err != nil {
		return "", false, evaluations, err
	}
	if !refactored {
		return "", false, evaluations, nil
	}
	return candidates[lo], true, evaluations, nil
}
