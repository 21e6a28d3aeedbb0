package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mandate/internal/domain"
)

func TestApportionFederal(t *testing.T) {
	t.Run("distributes the full budget between qualifying parties", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)
		qual := QualifyParties(agg, winners, testConfig())

		federal, err := ApportionFederal(agg, winners, qual, testConfig())
		require.NoError(t, err)

		assert.Equal(t, 10, federal.SeatBudget)
		require.Len(t, federal.Allocations, 2)
		assert.Equal(t, 6, federal.Allocations[0].Seats)
		assert.Equal(t, int64(900), federal.Allocations[0].SecondVotes)
		assert.Equal(t, 4, federal.Allocations[1].Seats)

		assert.Len(t, federal.QualifiedWinners, 4)
		assert.Empty(t, federal.NonQualifiedWinners)
	})

	t.Run("non-qualified winners shrink the budget", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		ref.Persons = append(ref.Persons, domain.Person{ID: 301, LastName: "Unger"})
		snap.Candidacies = append(snap.Candidacies, domain.ConstituencyCandidacy{
			PersonID: 301, ConstituencyID: 4, PartyID: 0, Year: testYear, FirstVotes: 900,
		})
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)
		qual := QualifyParties(agg, winners, testConfig())

		federal, err := ApportionFederal(agg, winners, qual, testConfig())
		require.NoError(t, err)

		assert.Equal(t, 9, federal.SeatBudget)
		require.Len(t, federal.NonQualifiedWinners, 1)
		assert.Equal(t, 301, federal.NonQualifiedWinners[0].PersonID)
		assert.Len(t, federal.QualifiedWinners, 3)

		var total int
		for _, row := range federal.Allocations {
			total += row.Seats
		}
		assert.Equal(t, 9, total)
	})

	t.Run("budget exhausted by automatic winners fails", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)
		// Nobody qualifies, so every winner is automatic.
		qual := &Qualification{Qualified: map[int]bool{}, WinsByParty: map[int]int{}}

		cfg := testConfig()
		cfg.TotalSeats = 3 // four automatic winners exceed three seats

		_, err := ApportionFederal(agg, winners, qual, cfg)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSeatBudgetExceeded)
	})

	t.Run("zero-vote minority party gets a zero row", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		ref.Parties = append(ref.Parties, domain.Party{ID: 3, ShortName: "Delta", IsMinority: true})
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)
		qual := QualifyParties(agg, winners, testConfig())
		require.True(t, qual.IsQualified(3))

		federal, err := ApportionFederal(agg, winners, qual, testConfig())
		require.NoError(t, err)

		require.Len(t, federal.Allocations, 3)
		assert.Equal(t, 3, federal.Allocations[2].PartyID)
		assert.Zero(t, federal.Allocations[2].Seats)

		// The zero-vote party must not absorb seats from the others.
		assert.Equal(t, 6, federal.Allocations[0].Seats)
		assert.Equal(t, 4, federal.Allocations[1].Seats)
	})

	t.Run("no qualifying party with votes yields an empty allocation", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		for i := range snap.ListEntries {
			snap.ListEntries[i].SecondVotes = 0
		}
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)
		qual := QualifyParties(agg, winners, testConfig())

		federal, err := ApportionFederal(agg, winners, qual, testConfig())
		require.NoError(t, err)

		assert.Empty(t, federal.Allocations)
		assert.Len(t, federal.NonQualifiedWinners, 4)
	})
}
