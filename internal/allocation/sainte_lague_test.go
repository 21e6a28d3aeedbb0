package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mandate/internal/domain"
)

func TestHighestQuotients(t *testing.T) {
	t.Run("distributes seats proportionally", func(t *testing.T) {
		// 600 vs 400 over ten seats is the textbook Sainte-Laguë case:
		// the divisor rounding lands exactly on 6 and 4.
		seats, err := highestQuotients([]claim{
			{id: 1, votes: 600},
			{id: 2, votes: 400},
		}, 10)
		require.NoError(t, err)

		assert.Equal(t, map[int]int{1: 6, 2: 4}, seats)
	})

	t.Run("single claim takes the full budget", func(t *testing.T) {
		seats, err := highestQuotients([]claim{{id: 7, votes: 1}}, 5)
		require.NoError(t, err)

		assert.Equal(t, map[int]int{7: 5}, seats)
	})

	t.Run("zero budget yields zero rows for every claim", func(t *testing.T) {
		seats, err := highestQuotients([]claim{
			{id: 1, votes: 100},
			{id: 2, votes: 50},
		}, 0)
		require.NoError(t, err)

		assert.Equal(t, map[int]int{1: 0, 2: 0}, seats)
	})

	t.Run("no claims for a positive budget fails", func(t *testing.T) {
		_, err := highestQuotients(nil, 3)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDivisorsExhausted)
	})

	t.Run("seat counts sum to the budget", func(t *testing.T) {
		testCases := []struct {
			name  string
			votes []int64
			seats int
		}{
			{"three way", []int64{431_000, 287_000, 112_000}, 21},
			{"large electorate", []int64{12_345_678, 9_876_543, 4_444_444, 1_111_111}, 630},
			{"one seat", []int64{5, 4, 3}, 1},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				claims := make([]claim, len(tc.votes))
				for i, v := range tc.votes {
					claims[i] = claim{id: i + 1, votes: v}
				}

				awarded, err := highestQuotients(claims, tc.seats)
				require.NoError(t, err)

				total := 0
				for _, n := range awarded {
					total += n
				}
				assert.Equal(t, tc.seats, total)
				assert.Len(t, awarded, len(claims))
			})
		}
	})

	t.Run("more votes never means fewer seats", func(t *testing.T) {
		awarded, err := highestQuotients([]claim{
			{id: 1, votes: 900},
			{id: 2, votes: 600},
			{id: 3, votes: 300},
		}, 17)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, awarded[1], awarded[2])
		assert.GreaterOrEqual(t, awarded[2], awarded[3])
	})

	t.Run("raising a claim's votes never costs it seats", func(t *testing.T) {
		// Sweep one claim's votes upward against fixed competitors. Each
		// run is independent, so this checks monotonicity across runs,
		// not just the within-run ordering above.
		previous := 0
		for votes := int64(100); votes <= 2000; votes += 37 {
			awarded, err := highestQuotients([]claim{
				{id: 1, votes: votes},
				{id: 2, votes: 600},
				{id: 3, votes: 300},
			}, 17)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, awarded[1], previous,
				"seats dropped from %d to %d at %d votes", previous, awarded[1], votes)
			previous = awarded[1]
		}
	})

	t.Run("exact vote tie breaks toward the lower id", func(t *testing.T) {
		// Equal votes and an odd budget: the decisive last seat must go
		// to the lower id, every run.
		awarded, err := highestQuotients([]claim{
			{id: 9, votes: 1000},
			{id: 4, votes: 1000},
		}, 3)
		require.NoError(t, err)

		assert.Equal(t, 2, awarded[4])
		assert.Equal(t, 1, awarded[9])
	})

	t.Run("equal quotients from unequal votes favor the higher votes", func(t *testing.T) {
		// 600/3 == 200/1: the ratio ties exactly, so the raw vote total
		// decides before the id does.
		awarded, err := highestQuotients([]claim{
			{id: 1, votes: 200},
			{id: 2, votes: 600},
		}, 4)
		require.NoError(t, err)

		// Ranking: 600, 200|600/3 (tie, votes decide), then 200.
		assert.Equal(t, 3, awarded[2])
		assert.Equal(t, 1, awarded[1])
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		claims := []claim{
			{id: 3, votes: 777_777},
			{id: 1, votes: 777_777},
			{id: 2, votes: 333_333},
		}

		first, err := highestQuotients(claims, 50)
		require.NoError(t, err)
		for range 10 {
			again, err := highestQuotients(claims, 50)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestOddDivisors(t *testing.T) {
	assert.Equal(t, []int64{1, 3, 5, 7}, oddDivisors(4))
	assert.Empty(t, oddDivisors(0))
}
