// Package ports defines the core interfaces that form the contract between
// the domain/allocation layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-mandate/internal/domain"
)

// VoteStore provides read-only access to the reference data and vote
// totals the allocation pipeline consumes. Implementations may be backed
// by Postgres, flat files, or in-memory fixtures; the pipeline makes no
// assumption about refresh or caching policy.
type VoteStore interface {
	// GetReferenceData returns the full static entity snapshot:
	// states, parties, constituencies, persons, and list candidacies.
	// The returned data must be safe to retain for the whole run.
	GetReferenceData(ctx context.Context) (*domain.ReferenceData, error)

	// GetVoteAggregates returns the vote totals for one election year:
	// constituency candidacies with first votes, party state lists with
	// second votes, and per-constituency valid/invalid totals.
	// Both reads are one-shot bulk reads; the computation is idempotent,
	// so a failed read can be retried wholesale.
	GetVoteAggregates(ctx context.Context, year int) (*domain.VoteSnapshot, error)
}

// ResultStore persists computed allocation results and serves them back
// to read-side consumers. A result for a year must be replaced
// atomically; readers never observe a partially written roster.
type ResultStore interface {
	// ReplaceResult stores the result for result.Year, overwriting any
	// previous result for that year in a single atomic operation.
	ReplaceResult(ctx context.Context, result *domain.Result) error

	// GetResult returns the stored result for a year, or ErrNotFound
	// if no run has been persisted for it.
	GetResult(ctx context.Context, year int) (*domain.Result, error)

	// Years returns the election years that have a stored result,
	// in ascending order.
	Years(ctx context.Context) ([]int, error)
}
