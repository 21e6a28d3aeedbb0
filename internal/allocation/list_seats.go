package allocation

import (
	"github.com/ahrav/go-mandate/internal/domain"
)

// ListSeat is one seat filled from a party's ranked state list.
type ListSeat struct {
	// PersonID references the seated list candidate.
	PersonID int

	// PartyID references the party owning the list.
	PartyID int

	// StateID references the state the list stands in.
	StateID int

	// ListPosition is the candidate's rank on the list.
	ListPosition int
}

// FillListSeats fills, per (party, state), the seats left over after
// second-vote coverage: the state allocation minus the admitted direct
// mandates, floored at zero. Candidates are taken strictly in list
// order; anyone already seated as a direct mandate anywhere is skipped,
// since a person holds at most one seat.
//
// Coverage never admits more winners than the allocation, so the floor
// only matters for malformed intermediate data; it keeps the filler
// total rather than defensive.
func FillListSeats(agg *Aggregates, states []domain.StateAllocation, cov *Coverage) []ListSeat {
	seats := make([]ListSeat, 0)

	for _, sa := range states {
		key := partyState{sa.PartyID, sa.StateID}
		open := sa.Seats - cov.AdmittedByPartyState[key]
		if open <= 0 {
			continue
		}

		for _, lc := range agg.ListCandidacies[key] {
			if open == 0 {
				break
			}
			if _, seated := cov.SeatedPersons[lc.PersonID]; seated {
				continue
			}
			seats = append(seats, ListSeat{
				PersonID:     lc.PersonID,
				PartyID:      lc.PartyID,
				StateID:      lc.StateID,
				ListPosition: lc.ListPosition,
			})
			cov.SeatedPersons[lc.PersonID] = struct{}{}
			open--
		}
	}

	return seats
}
