// Package domain defines the core business entities and interfaces for refactor-find.
package domain

// DiffStat is the aggregate line-change magnitude between two revisions,
// counted with whitespace-only changes ignored.
//
// DiffStats form a commutative monoid under Add, with the zero value as
// identity. Sub is non-saturating: components may go negative, which is
// acceptable because differences are only compared, never displayed.
type DiffStat struct {
	// Insertions is the number of inserted lines.
	Insertions int

	// Deletions is the number of deleted lines.
	Deletions int
}

// Add returns the componentwise sum of two DiffStats.
func (d DiffStat) Add(other DiffStat) DiffStat {
	return DiffStat{
		Insertions: d.Insertions + other.Insertions,
		Deletions:  d.Deletions + other.Deletions,
	}
}

// Sub returns the componentwise difference of two DiffStats.
func (d DiffStat) Sub(other DiffStat) DiffStat {
	return DiffStat{
		Insertions: d.Insertions - other.Insertions,
		Deletions:  d.Deletions - other.Deletions,
	}
}

// Equal reports whether both components match.
func (d DiffStat) Equal(other DiffStat) bool {
	return d.Insertions == other.Insertions && d.Deletions == other.Deletions
}

// IsZero reports whether the stat is the additive identity.
func (d DiffStat) IsZero() bool {
	return d.Insertions == 0 && d.Deletions == 0
}

// Search strategy names accepted by the Finder.
const (
	// StrategyLinear scans the candidate sequence oldest-first and
	// short-circuits at the first qualifying commit.
	StrategyLinear = "linear"

	// StrategyBinary runs a leftmost-true binary search over the candidate
	// sequence. It requires the refactoring predicate to be monotone over
	// the sequence; see the Finder documentation for the caveat.
	StrategyBinary = "binary"
)

// DefaultStrategy is used when no strategy is configured or requested.
// Linear is the default because it makes no monotonicity assumption.
const DefaultStrategy = StrategyLinear

// SearchInput contains the parameters for a refactoring search.
// The repository path is provided separately when creating the HistoryProvider.
type SearchInput struct {
	// Commit is the suspect commit whose change is being tracked.
	Commit string

	// Strategy selects the traversal strategy (StrategyLinear or
	// StrategyBinary). Empty means DefaultStrategy.
	Strategy string
}

// SearchOutput contains the result of a refactoring search.
type SearchOutput struct {
	// Found indicates whether a refactoring commit was located.
	// An exhausted search is a valid outcome, not an error.
	Found bool

	// Commit is the first commit judged to have refactored the suspect
	// change. Empty when Found is false. This is the primary output value
	// written to stdout.
	Commit string

	// StartCommit is the suspect commit the search started from.
	StartCommit string

	// Candidates is the number of commits after StartCommit that were
	// eligible for evaluation.
	Candidates int

	// Evaluations is the number of detector evaluations performed.
	// Included for logging and verification purposes.
	Evaluations int

	// Strategy is the strategy that produced the result.
	Strategy string
}
