package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/sszz-tools/refactor-find/internal/domain"
)

// ShortstatDiffer implements Differ by executing the local git binary:
//
//	git -C <repo> diff -w --shortstat <a> <b>
//
// go-git cannot compute whitespace-insensitive statistics, and the -w
// semantics are load-bearing: whitespace-only reshuffles must not count as
// line changes or every reformat would read as a refactoring.
type ShortstatDiffer struct {
	repoPath string
	gitBin   string
}

// NewShortstatDiffer creates a differ for the repository at repoPath.
// An empty gitBin defaults to "git" resolved from PATH.
func NewShortstatDiffer(repoPath, gitBin string) *ShortstatDiffer {
	if gitBin == "" {
		gitBin = "git"
	}
	return &ShortstatDiffer{
		repoPath: repoPath,
		gitBin:   gitBin,
	}
}

// DiffStat returns the aggregate insertions and deletions between the two
// revisions. An empty diff (including identical revisions) yields the zero
// stat. Unknown revisions and invalid ranges map to domain.ErrCommitNotFound;
// any other git failure is surfaced with its original stderr.
func (d *ShortstatDiffer) DiffStat(ctx context.Context, a, b string) (domain.DiffStat, error) {
	out, err := d.run(ctx, "diff", "-w", "--shortstat", a, b)
	if err != nil {
		return domain.DiffStat{}, err
	}
	return parseShortstat(string(out)), nil
}

// run executes a git command in the repository and returns its stdout.
func (d *ShortstatDiffer) run(ctx context.Context, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", d.repoPath}, args...)
	cmd := exec.CommandContext(ctx, d.gitBin, fullArgs...)
	out, err := cmd.Output()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		if isUnknownRevision(stderr) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCommitNotFound, stderr)
		}
		return nil, fmt.Errorf("git %s failed in %q: %s", args[0], d.repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}

	return out, nil
}

// Patterns for the free-form shortstat summary, e.g.
// " 3 files changed, 10 insertions(+), 2 deletions(-)".
// Either field may be absent when the diff is one-sided.
var (
	insertionPattern = regexp.MustCompile(`(\d+) insertions?\(\+\)`)
	deletionPattern  = regexp.MustCompile(`(\d+) deletions?\(-\)`)
)

// parseShortstat extracts insertion and deletion counts from a shortstat
// summary line. Absent fields default to zero; an empty summary (no diff)
// yields the zero stat.
func parseShortstat(summary string) domain.DiffStat {
	return domain.DiffStat{
		Insertions: matchedCount(insertionPattern, summary),
		Deletions:  matchedCount(deletionPattern, summary),
	}
}

func matchedCount(pattern *regexp.Regexp, s string) int {
	match := pattern.FindStringSubmatch(s)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// isUnknownRevision reports whether git's stderr signals a bad revision or
// an invalid commit range, as opposed to some other backend failure that
// must be propagated verbatim.
func isUnknownRevision(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "unknown revision") ||
		strings.Contains(lower, "bad revision") ||
		// git diff with a well-formed but nonexistent SHA fails with
		// "fatal: bad object <sha>"
		strings.Contains(lower, "bad object") ||
		strings.Contains(lower, "not a valid object name") ||
		strings.Contains(lower, "invalid revision range") ||
		strings.Contains(lower, "invalid range") ||
		strings.Contains(lower, "ambiguous argument")
}
