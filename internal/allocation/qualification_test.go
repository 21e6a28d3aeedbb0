package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mandate/internal/domain"
)

func TestQualifyParties(t *testing.T) {
	t.Run("share threshold", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)

		qual := QualifyParties(agg, winners, testConfig())

		// Alpha 60%, Beta 40%: both clear 5%.
		assert.True(t, qual.IsQualified(1))
		assert.True(t, qual.IsQualified(2))
	})

	t.Run("below threshold without wins fails", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		ref.Parties = append(ref.Parties, domain.Party{ID: 3, ShortName: "Gamma"})
		snap.ListEntries = append(snap.ListEntries, domain.PartyListEntry{
			PartyID: 3, StateID: 1, Year: testYear, SecondVotes: 10,
		})
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)

		qual := QualifyParties(agg, winners, testConfig())

		assert.False(t, qual.IsQualified(3))
	})

	t.Run("direct-mandate clause overrides the share", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		// Strip Beta's second votes but leave it winning constituencies
		// 3 and 4; with MinDirectMandates lowered to 2 it still
		// qualifies.
		snap.ListEntries[2].SecondVotes = 0
		snap.ListEntries[3].SecondVotes = 0
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)

		cfg := testConfig()
		cfg.MinDirectMandates = 2
		qual := QualifyParties(agg, winners, cfg)

		assert.True(t, qual.IsQualified(2))
		assert.Equal(t, 2, qual.WinsByParty[2])

		// At the default three-mandate clause the same party fails.
		qual = QualifyParties(agg, winners, testConfig())
		assert.False(t, qual.IsQualified(2))
	})

	t.Run("minority parties are exempt", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		ref.Parties = append(ref.Parties, domain.Party{ID: 4, ShortName: "Delta", IsMinority: true})
		snap.ListEntries = append(snap.ListEntries, domain.PartyListEntry{
			PartyID: 4, StateID: 2, Year: testYear, SecondVotes: 1,
		})
		agg := mustAggregate(t, ref, snap)
		winners := ResolveWinners(agg)

		qual := QualifyParties(agg, winners, testConfig())

		assert.True(t, qual.IsQualified(4))
	})

	t.Run("independents never qualify", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		agg := mustAggregate(t, ref, snap)
		qual := QualifyParties(agg, ResolveWinners(agg), testConfig())

		assert.False(t, qual.IsQualified(0))
	})

	t.Run("zero national votes disables the share clause", func(t *testing.T) {
		ref, snap := twoPartyFixture()
		for i := range snap.ListEntries {
			snap.ListEntries[i].SecondVotes = 0
		}
		agg := mustAggregate(t, ref, snap)
		require.Zero(t, agg.TotalNationalVotes)

		winners := ResolveWinners(agg)
		qual := QualifyParties(agg, winners, testConfig())

		// Neither party reaches three wins, and 0/0 must not divide.
		assert.False(t, qual.IsQualified(1))
		assert.False(t, qual.IsQualified(2))
	})
}
