package allocation

import (
	"fmt"
	"sort"

	"github.com/ahrav/go-mandate/internal/domain"
)

// FederalResult carries the federal apportionment output together with
// the partition of the roster between the proportional pool and the
// automatically seated non-qualified constituency winners.
type FederalResult struct {
	// Allocations holds one row per qualifying party, ordered by party
	// id. Seat counts sum exactly to SeatBudget.
	Allocations []domain.FederalAllocation

	// SeatBudget is the proportional pool: total seats minus the
	// automatically seated non-qualified winners.
	SeatBudget int

	// NonQualifiedWinners are constituency winners of non-qualifying
	// parties and independents. They are seated outside the
	// proportional apportionment and consume seats from the fixed total.
	NonQualifiedWinners []domain.ConstituencyWinner

	// QualifiedWinners are constituency winners of qualifying parties,
	// subject to second-vote coverage downstream.
	QualifiedWinners []domain.ConstituencyWinner
}

// SeatsByParty maps party id to its federal seat count.
func (fr *FederalResult) SeatsByParty() map[int]int {
	seats := make(map[int]int, len(fr.Allocations))
	for _, a := range fr.Allocations {
		seats[a.PartyID] = a.Seats
	}
	return seats
}

// ApportionFederal distributes the proportional seat pool among
// qualifying parties by the Sainte-Laguë method over national
// second-vote totals.
//
// Constituency winners of non-qualifying parties and independents are
// seated automatically first; their count shrinks the pool. A qualifying
// party with zero second votes is excluded from the quotient pool and
// receives zero seats. When no qualifying party has votes, the
// allocation is empty and the roster will hold only the automatic
// direct winners.
func ApportionFederal(
	agg *Aggregates,
	winners []domain.ConstituencyWinner,
	qual *Qualification,
	cfg Config,
) (*FederalResult, error) {
	res := &FederalResult{}
	for _, w := range winners {
		if qual.IsQualified(w.PartyID) {
			res.QualifiedWinners = append(res.QualifiedWinners, w)
		} else {
			res.NonQualifiedWinners = append(res.NonQualifiedWinners, w)
		}
	}

	res.SeatBudget = cfg.TotalSeats - len(res.NonQualifiedWinners)
	if res.SeatBudget < 0 {
		return nil, domain.NewStageError(stageFederal,
			fmt.Sprintf("non_qualified_winners=%d total_seats=%d",
				len(res.NonQualifiedWinners), cfg.TotalSeats),
			domain.ErrSeatBudgetExceeded)
	}

	claims := make([]claim, 0, len(qual.Qualified))
	for partyID := range qual.Qualified {
		if agg.NationalVotesByParty[partyID] > 0 {
			claims = append(claims, claim{id: partyID, votes: agg.NationalVotesByParty[partyID]})
		}
	}

	seats := make(map[int]int, len(claims))
	if len(claims) > 0 {
		var err error
		seats, err = highestQuotients(claims, res.SeatBudget)
		if err != nil {
			return nil, domain.NewStageError(stageFederal, "", err)
		}
	}

	// Emit a row for every qualifying party, including zero-vote parties
	// that qualified through the minority exemption.
	for partyID := range qual.Qualified {
		res.Allocations = append(res.Allocations, domain.FederalAllocation{
			PartyID:     partyID,
			Year:        agg.Year,
			SecondVotes: agg.NationalVotesByParty[partyID],
			Seats:       seats[partyID],
		})
	}
	sort.Slice(res.Allocations, func(i, j int) bool {
		return res.Allocations[i].PartyID < res.Allocations[j].PartyID
	})

	return res, nil
}
