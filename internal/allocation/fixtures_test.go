package allocation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mandate/internal/domain"
)

// testYear is the election year every fixture uses.
const testYear = 2025

// testConfig returns a small, hand-checkable parameter set: ten seats,
// the usual 5% threshold, and the three-mandate clause.
func testConfig() Config {
	return Config{TotalSeats: 10, ThresholdSharePct: 5.0, MinDirectMandates: 3}
}

// twoPartyFixture builds a complete two-state, two-party election whose
// apportionment is small enough to verify by hand.
//
// Second votes: Alpha 600+300=900, Beta 200+400=600. Sainte-Laguë over
// ten seats gives Alpha 6 (state 1: 4, state 2: 2) and Beta 4 (state 1:
// 1, state 2: 3). Alpha wins both state-1 constituencies, Beta both
// state-2 constituencies; every winner is covered, so the roster is
// 4 direct mandates plus 6 list seats.
func twoPartyFixture() (*domain.ReferenceData, *domain.VoteSnapshot) {
	ref := &domain.ReferenceData{
		States: []domain.FederalState{
			{ID: 1, Name: "North", Abbreviation: "NO"},
			{ID: 2, Name: "South", Abbreviation: "SO"},
		},
		Parties: []domain.Party{
			{ID: 1, ShortName: "Alpha", LongName: "Alpha Party"},
			{ID: 2, ShortName: "Beta", LongName: "Beta Party"},
		},
		Constituencies: []domain.Constituency{
			{ID: 1, Number: 1, Name: "North I", StateID: 1},
			{ID: 2, Number: 2, Name: "North II", StateID: 1},
			{ID: 3, Number: 3, Name: "South I", StateID: 2},
			{ID: 4, Number: 4, Name: "South II", StateID: 2},
		},
		Persons: []domain.Person{
			{ID: 101, FirstName: "Anna", LastName: "Albers"},
			{ID: 102, FirstName: "Arne", LastName: "Arndt"},
			{ID: 103, FirstName: "Antje", LastName: "Ahrens"},
			{ID: 104, FirstName: "Axel", LastName: "Adler"},
			{ID: 111, FirstName: "Aylin", LastName: "Acar"},
			{ID: 112, FirstName: "Adrian", LastName: "Amberg"},
			{ID: 113, FirstName: "Alma", LastName: "Auer"},
			{ID: 121, FirstName: "Albert", LastName: "Aust"},
			{ID: 122, FirstName: "Amira", LastName: "Abel"},
			{ID: 201, FirstName: "Bernd", LastName: "Bauer"},
			{ID: 202, FirstName: "Birte", LastName: "Brandt"},
			{ID: 203, FirstName: "Bodo", LastName: "Berger"},
			{ID: 204, FirstName: "Britta", LastName: "Busch"},
			{ID: 211, FirstName: "Benno", LastName: "Bartels"},
			{ID: 221, FirstName: "Beate", LastName: "Behrens"},
		},
		ListCandidacies: []domain.PartyListCandidacy{
			{PersonID: 101, PartyID: 1, StateID: 1, Year: testYear, ListPosition: 1},
			{PersonID: 111, PartyID: 1, StateID: 1, Year: testYear, ListPosition: 2},
			{PersonID: 112, PartyID: 1, StateID: 1, Year: testYear, ListPosition: 3},
			{PersonID: 113, PartyID: 1, StateID: 1, Year: testYear, ListPosition: 4},
			{PersonID: 121, PartyID: 1, StateID: 2, Year: testYear, ListPosition: 1},
			{PersonID: 122, PartyID: 1, StateID: 2, Year: testYear, ListPosition: 2},
			{PersonID: 211, PartyID: 2, StateID: 1, Year: testYear, ListPosition: 1},
			{PersonID: 203, PartyID: 2, StateID: 2, Year: testYear, ListPosition: 1},
			{PersonID: 221, PartyID: 2, StateID: 2, Year: testYear, ListPosition: 2},
		},
	}

	snap := &domain.VoteSnapshot{
		Year: testYear,
		Candidacies: []domain.ConstituencyCandidacy{
			{PersonID: 101, ConstituencyID: 1, PartyID: 1, Year: testYear, FirstVotes: 500},
			{PersonID: 201, ConstituencyID: 1, PartyID: 2, Year: testYear, FirstVotes: 300},
			{PersonID: 102, ConstituencyID: 2, PartyID: 1, Year: testYear, FirstVotes: 400},
			{PersonID: 202, ConstituencyID: 2, PartyID: 2, Year: testYear, FirstVotes: 350},
			{PersonID: 103, ConstituencyID: 3, PartyID: 1, Year: testYear, FirstVotes: 200},
			{PersonID: 203, ConstituencyID: 3, PartyID: 2, Year: testYear, FirstVotes: 450},
			{PersonID: 104, ConstituencyID: 4, PartyID: 1, Year: testYear, FirstVotes: 100},
			{PersonID: 204, ConstituencyID: 4, PartyID: 2, Year: testYear, FirstVotes: 380},
		},
		ListEntries: []domain.PartyListEntry{
			{PartyID: 1, StateID: 1, Year: testYear, SecondVotes: 600},
			{PartyID: 1, StateID: 2, Year: testYear, SecondVotes: 300},
			{PartyID: 2, StateID: 1, Year: testYear, SecondVotes: 200},
			{PartyID: 2, StateID: 2, Year: testYear, SecondVotes: 400},
		},
		Stats: []domain.ConstituencyStats{
			{ConstituencyID: 1, Year: testYear, ValidFirstVotes: 1000, ValidSecondVotes: 1000},
			{ConstituencyID: 2, Year: testYear, ValidFirstVotes: 1000, ValidSecondVotes: 1000},
			{ConstituencyID: 3, Year: testYear, ValidFirstVotes: 1000, ValidSecondVotes: 1000},
			{ConstituencyID: 4, Year: testYear, ValidFirstVotes: 1000, ValidSecondVotes: 1000},
		},
	}

	return ref, snap
}

// mustAggregate runs AggregateVotes and fails the test on error.
func mustAggregate(t *testing.T, ref *domain.ReferenceData, snap *domain.VoteSnapshot) *Aggregates {
	t.Helper()
	agg, err := AggregateVotes(ref, snap)
	require.NoError(t, err)
	return agg
}
