package allocation

import (
	"fmt"
	"sort"

	"github.com/ahrav/go-mandate/internal/domain"
)

// claim is one competitor in a divisor-method apportionment: a party at
// the federal level, or a state list within one party's sub-apportionment.
type claim struct {
	// id identifies the competitor and is the final tie-break key
	// (lower id wins, a stability convention rather than electoral law).
	id int

	// votes is the competitor's vote total. Claims with zero or
	// negative votes carry no proportional entitlement and are excluded
	// from the quotient pool by the caller.
	votes int64
}

// quotient is one (competitor, divisor) pair in the pooled ranking.
// The value votes/divisor is never materialized as a float; quotients
// are compared exactly by integer cross multiplication so that equal
// ratios are recognized as ties and resolved by the documented ordering.
type quotient struct {
	id      int
	votes   int64
	divisor int64
}

// less orders quotients for seat award: larger ratio first, then higher
// raw votes, then lower competitor id. The ordering is total, so ties
// never propagate as nondeterminism.
func (q quotient) less(other quotient) bool {
	// votes_a/div_a > votes_b/div_b  <=>  votes_a*div_b > votes_b*div_a.
	// Divisors stay below 2*seats+1 and votes below ~10^8, so the cross
	// products fit comfortably in int64.
	left := q.votes * other.divisor
	right := other.votes * q.divisor
	if left != right {
		return left > right
	}
	if q.votes != other.votes {
		return q.votes > other.votes
	}
	return q.id < other.id
}

// oddDivisors returns the Sainte-Laguë divisor sequence 1, 3, 5, ... of
// the given length. The length is derived from the seat budget by the
// caller so the sequence can never be silently truncated.
func oddDivisors(n int) []int64 {
	divisors := make([]int64, n)
	for i := range divisors {
		divisors[i] = int64(2*i + 1)
	}
	return divisors
}

// highestQuotients runs a Sainte-Laguë apportionment: it distributes
// exactly seats seats among the claims proportionally to their votes.
// Claims with votes <= 0 must not be passed in.
//
// Each claim contributes one quotient per odd divisor up to 2*seats-1,
// which bounds its possible seat count by the full budget; the pooled
// quotients are sorted and the top seats entries each award one seat.
// The returned map contains an entry for every claim, including those
// awarded zero seats, and its values sum exactly to seats.
//
// highestQuotients returns ErrDivisorsExhausted when the quotient pool
// cannot cover the budget, which only happens when no claims are given
// for a positive budget. Callers treat that as a configuration or
// integrity failure.
func highestQuotients(claims []claim, seats int) (map[int]int, error) {
	awarded := make(map[int]int, len(claims))
	for _, c := range claims {
		awarded[c.id] = 0
	}
	if seats == 0 {
		return awarded, nil
	}

	divisors := oddDivisors(seats)
	pool := make([]quotient, 0, len(claims)*seats)
	for _, c := range claims {
		for _, d := range divisors {
			pool = append(pool, quotient{id: c.id, votes: c.votes, divisor: d})
		}
	}

	if len(pool) < seats {
		return nil, fmt.Errorf("%w: %d quotients for %d seats",
			domain.ErrDivisorsExhausted, len(pool), seats)
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i].less(pool[j]) })

	for _, q := range pool[:seats] {
		awarded[q.id]++
	}
	return awarded, nil
}
