package allocation

import (
	"sort"

	"github.com/ahrav/go-mandate/internal/domain"
)

// Coverage is the outcome of the second-vote coverage resolution: the
// subset of a qualifying party's constituency winners that actually
// receive seats, capped per state by the party's proportional
// allocation. This is the reform mechanism that eliminates overhang
// mandates; losing a won constituency here is intended behavior.
type Coverage struct {
	// Admitted are the constituency winners who keep their mandate,
	// ordered by constituency id.
	Admitted []domain.ConstituencyWinner

	// Displaced are winners ranked below the state allocation cutoff.
	// They are absent from the roster entirely and are retained only
	// for audit logging.
	Displaced []domain.ConstituencyWinner

	// AdmittedByPartyState counts admitted direct mandates per
	// (party, state), consumed by the list-seat filler.
	AdmittedByPartyState map[partyState]int

	// SeatedPersons holds every person id admitted as a direct mandate,
	// used to exclude them from list-seat contention.
	SeatedPersons map[int]struct{}
}

// ResolveCoverage ranks each (party, state) group of qualified-party
// constituency winners by first-vote share and admits winners in rank
// order until the party's state allocation is exhausted.
//
// Tie-break within a group: higher first-vote percentage, then higher
// absolute first votes, then lower person id.
func ResolveCoverage(agg *Aggregates, federal *FederalResult, states []domain.StateAllocation) *Coverage {
	seatsByPartyState := make(map[partyState]int, len(states))
	for _, sa := range states {
		seatsByPartyState[partyState{sa.PartyID, sa.StateID}] = sa.Seats
	}

	groups := make(map[partyState][]domain.ConstituencyWinner)
	for _, w := range federal.QualifiedWinners {
		key := partyState{w.PartyID, agg.StateOfConstituency(w.ConstituencyID)}
		groups[key] = append(groups[key], w)
	}

	keys := make([]partyState, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].PartyID != keys[j].PartyID {
			return keys[i].PartyID < keys[j].PartyID
		}
		return keys[i].StateID < keys[j].StateID
	})

	cov := &Coverage{
		AdmittedByPartyState: make(map[partyState]int, len(groups)),
		SeatedPersons:        make(map[int]struct{}),
	}

	for _, key := range keys {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if a.FirstVotePct != b.FirstVotePct {
				return a.FirstVotePct > b.FirstVotePct
			}
			if a.FirstVotes != b.FirstVotes {
				return a.FirstVotes > b.FirstVotes
			}
			return a.PersonID < b.PersonID
		})

		quota := seatsByPartyState[key]
		for i, w := range group {
			if i < quota {
				cov.Admitted = append(cov.Admitted, w)
				cov.AdmittedByPartyState[key]++
				cov.SeatedPersons[w.PersonID] = struct{}{}
			} else {
				cov.Displaced = append(cov.Displaced, w)
			}
		}
	}

	sort.Slice(cov.Admitted, func(i, j int) bool {
		return cov.Admitted[i].ConstituencyID < cov.Admitted[j].ConstituencyID
	})
	sort.Slice(cov.Displaced, func(i, j int) bool {
		return cov.Displaced[i].ConstituencyID < cov.Displaced[j].ConstituencyID
	})
	return cov
}
