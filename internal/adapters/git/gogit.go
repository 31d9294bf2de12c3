// Package git provides adapters for interacting with local Git repositories.
// This package implements the domain.HistoryProvider interface using go-git/v5
// for commit-graph queries and the local git binary for diff statistics.
package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/sszz-tools/refactor-find/internal/domain"
)

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// Differ computes whitespace-insensitive aggregate diff statistics between
// two revisions. It is a separate collaborator because go-git cannot ignore
// whitespace; the production implementation shells out to the git binary.
type Differ interface {
	DiffStat(ctx context.Context, a, b string) (domain.DiffStat, error)
}

// GoGitRepository implements domain.HistoryProvider using go-git/v5 for the
// commit graph and a Differ for diff statistics.
type GoGitRepository struct {
	repo   *git.Repository
	differ Differ
	path   string
	logger Logger
}

// NewGoGitRepository creates a new GoGitRepository for the given path.
// The path can be either a working directory or a bare repository.
// Returns domain.ErrRepositoryNotFound if the path is not a valid Git repository.
func NewGoGitRepository(path string, differ Differ, log Logger) (*GoGitRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, path)
	}

	return &GoGitRepository{
		repo:   repo,
		differ: differ,
		path:   path,
		logger: log,
	}, nil
}

// ParentOf returns the first parent of the given revision.
// Merge commits are followed along their first parent only; the search
// algorithms operate on linear ancestry.
func (r *GoGitRepository) ParentOf(_ context.Context, rev string) (string, error) {
	commit, err := r.commitObject(rev)
	if err != nil {
		return "", err
	}

	if commit.NumParents() == 0 {
		return "", fmt.Errorf("%w: %s is a root commit", domain.ErrNoParent, rev)
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return "", fmt.Errorf("failed to load first parent of %s: %w", rev, err)
	}

	return parent.Hash.String(), nil
}

// DiffStat returns the aggregate insertions and deletions between the two
// revisions, ignoring whitespace-only changes. Identical revisions yield
// the zero stat without touching the differ.
func (r *GoGitRepository) DiffStat(ctx context.Context, a, b string) (domain.DiffStat, error) {
	if a == b {
		return domain.DiffStat{}, nil
	}
	return r.differ.DiffStat(ctx, a, b)
}

// CommitsAfter returns all commits reachable from HEAD but not from the
// given revision, ordered oldest first. Returns domain.ErrCommitNotFound if
// the revision does not exist or is not an ancestor of HEAD (an invalid
// range, e.g. unrelated histories).
func (r *GoGitRepository) CommitsAfter(ctx context.Context, rev string) ([]string, error) {
	start, err := r.commitObject(rev)
	if err != nil {
		return nil, err
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	headCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for HEAD: %w", err)
	}

	if start.Hash != headCommit.Hash {
		reachable, err := start.IsAncestor(headCommit)
		if err != nil {
			return nil, fmt.Errorf("failed to check ancestry of %s: %w", rev, err)
		}
		if !reachable {
			return nil, fmt.Errorf("%w: %s is not reachable from HEAD", domain.ErrCommitNotFound, rev)
		}
	}

	// Walk from HEAD, pruning the start commit and everything reachable
	// from it. The iterator yields newest first, like git log.
	var commits []string
	iter := object.NewCommitIterCTime(headCommit, nil, []plumbing.Hash{start.Hash})
	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		commits = append(commits, c.Hash.String())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk commits after %s: %w", rev, err)
	}

	// Reverse to oldest-first, the order the search strategies expect.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}

	r.logger.Debug(ctx, "enumerated commits after revision", map[string]interface{}{
		"revision":      rev,
		"commits_found": len(commits),
		"head_sha":      headCommit.Hash.String(),
	})

	return commits, nil
}

// Close releases any resources held by the repository.
// For go-git, this is a no-op as the repository doesn't hold persistent resources.
func (r *GoGitRepository) Close() error {
	return nil
}

// commitObject resolves a revision (SHA, ref, or a derived form like
// "<rev>^1") to its commit object.
func (r *GoGitRepository) commitObject(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCommitNotFound, rev)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %s does not name a commit", domain.ErrCommitNotFound, rev)
	}

	return commit, nil
}
