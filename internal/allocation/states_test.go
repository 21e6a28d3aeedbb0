package allocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mandate/internal/domain"
)

func TestApportionStates(t *testing.T) {
	buildFederal := func(t *testing.T) (*Aggregates, *FederalResult) {
		t.Helper()
		ref, snap := twoPartyFixture()
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)
		qual := QualifyParties(agg, winners, testConfig())
		federal, err := ApportionFederal(agg, winners, qual, testConfig())
		require.NoError(t, err)
		return agg, federal
	}

	t.Run("splits each party's seats across its states", func(t *testing.T) {
		agg, federal := buildFederal(t)

		states, err := ApportionStates(context.Background(), agg, federal)
		require.NoError(t, err)

		require.Len(t, states, 4)
		// Alpha: 600 vs 300 over 6 seats; Beta: 200 vs 400 over 4.
		assert.Equal(t, domain.StateAllocation{PartyID: 1, StateID: 1, Year: testYear, SecondVotes: 600, Seats: 4}, states[0])
		assert.Equal(t, domain.StateAllocation{PartyID: 1, StateID: 2, Year: testYear, SecondVotes: 300, Seats: 2}, states[1])
		assert.Equal(t, domain.StateAllocation{PartyID: 2, StateID: 1, Year: testYear, SecondVotes: 200, Seats: 1}, states[2])
		assert.Equal(t, domain.StateAllocation{PartyID: 2, StateID: 2, Year: testYear, SecondVotes: 400, Seats: 3}, states[3])
	})

	t.Run("state sums equal the federal allocation", func(t *testing.T) {
		agg, federal := buildFederal(t)

		states, err := ApportionStates(context.Background(), agg, federal)
		require.NoError(t, err)

		sums := make(map[int]int)
		for _, sa := range states {
			sums[sa.PartyID] += sa.Seats
		}
		for _, fa := range federal.Allocations {
			assert.Equal(t, fa.Seats, sums[fa.PartyID], "party %d", fa.PartyID)
		}
	})

	t.Run("party with seats but no state votes is an integrity failure", func(t *testing.T) {
		agg, federal := buildFederal(t)
		delete(agg.StateVotesByParty, 2)

		_, err := ApportionStates(context.Background(), agg, federal)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownReference)

		var stageErr *domain.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, "state_apportionment", stageErr.Stage)
	})

	t.Run("zero-seat parties produce no rows", func(t *testing.T) {
		agg, federal := buildFederal(t)
		federal.Allocations = append(federal.Allocations, domain.FederalAllocation{
			PartyID: 3, Year: testYear, Seats: 0,
		})

		states, err := ApportionStates(context.Background(), agg, federal)
		require.NoError(t, err)

		for _, sa := range states {
			assert.NotEqual(t, 3, sa.PartyID)
		}
	})

	t.Run("canceled context aborts", func(t *testing.T) {
		agg, federal := buildFederal(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := ApportionStates(ctx, agg, federal)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
