package allocation

import (
	"fmt"
	"sort"
	"time"

	"github.com/ahrav/go-mandate/internal/domain"
)

// AssembleRoster unions the automatically seated non-qualified direct
// winners, the coverage-admitted direct mandates, and the filled list
// seats into the final result, and derives the three summary
// projections. The projections include rows for non-qualified parties
// and independents so that federal and state distributions sum exactly
// to the roster size.
func AssembleRoster(
	agg *Aggregates,
	qual *Qualification,
	federal *FederalResult,
	states []domain.StateAllocation,
	cov *Coverage,
	listSeats []ListSeat,
	cfg Config,
	runID string,
	now time.Time,
) *domain.Result {
	result := &domain.Result{
		RunID:      runID,
		Year:       agg.Year,
		TotalSeats: cfg.TotalSeats,
		ComputedAt: now,
	}

	for _, w := range federal.NonQualifiedWinners {
		result.Roster = append(result.Roster, agg.rosterEntryForWinner(w, domain.SeatDirectMandateNonQualified))
	}
	for _, w := range cov.Admitted {
		result.Roster = append(result.Roster, agg.rosterEntryForWinner(w, domain.SeatDirectMandate))
	}
	for _, ls := range listSeats {
		result.Roster = append(result.Roster, domain.SeatRosterEntry{
			PersonID:     ls.PersonID,
			PersonName:   agg.PersonByID[ls.PersonID].FullName(),
			PartyID:      ls.PartyID,
			StateID:      ls.StateID,
			Year:         agg.Year,
			Type:         domain.SeatList,
			ListPosition: ls.ListPosition,
		})
	}

	sort.Slice(result.Roster, func(i, j int) bool {
		a, b := result.Roster[i], result.Roster[j]
		if a.PartyID != b.PartyID {
			return a.PartyID < b.PartyID
		}
		if a.StateID != b.StateID {
			return a.StateID < b.StateID
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.PersonID < b.PersonID
	})

	result.FederalDistribution = federalDistribution(agg, federal)
	result.StateDistribution = stateDistribution(agg, federal, states)
	result.PartySummaries = partySummaries(agg, qual, result)

	return result
}

// rosterEntryForWinner converts a constituency winner into a roster
// entry of the given seat type, with the seat counted against the
// constituency's state.
func (agg *Aggregates) rosterEntryForWinner(w domain.ConstituencyWinner, seatType domain.SeatType) domain.SeatRosterEntry {
	return domain.SeatRosterEntry{
		PersonID:         w.PersonID,
		PersonName:       agg.PersonByID[w.PersonID].FullName(),
		PartyID:          w.PartyID,
		StateID:          agg.StateOfConstituency(w.ConstituencyID),
		Year:             w.Year,
		Type:             seatType,
		ConstituencyName: agg.ConstituencyByID[w.ConstituencyID].Name,
		FirstVotePct:     w.FirstVotePct,
	}
}

// federalDistribution extends the proportional allocations with one row
// per non-qualified party (and one for independents, party id 0) whose
// direct winners consumed seats from the fixed total.
func federalDistribution(agg *Aggregates, federal *FederalResult) []domain.FederalAllocation {
	rows := append([]domain.FederalAllocation(nil), federal.Allocations...)

	nonQualSeats := make(map[int]int)
	for _, w := range federal.NonQualifiedWinners {
		nonQualSeats[w.PartyID]++
	}
	for partyID, seats := range nonQualSeats {
		rows = append(rows, domain.FederalAllocation{
			PartyID:     partyID,
			Year:        agg.Year,
			SecondVotes: agg.NationalVotesByParty[partyID],
			Seats:       seats,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].PartyID < rows[j].PartyID })
	return rows
}

// stateDistribution extends the proportional state allocations with the
// per-state counts of non-qualified direct winners.
func stateDistribution(agg *Aggregates, federal *FederalResult, states []domain.StateAllocation) []domain.StateAllocation {
	rows := append([]domain.StateAllocation(nil), states...)

	nonQual := make(map[partyState]int)
	for _, w := range federal.NonQualifiedWinners {
		nonQual[partyState{w.PartyID, agg.StateOfConstituency(w.ConstituencyID)}]++
	}
	for key, seats := range nonQual {
		var votes int64
		if sv := agg.StateVotesByParty[key.PartyID]; sv != nil {
			votes = sv[key.StateID]
		}
		rows = append(rows, domain.StateAllocation{
			PartyID:     key.PartyID,
			StateID:     key.StateID,
			Year:        agg.Year,
			SecondVotes: votes,
			Seats:       seats,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PartyID != rows[j].PartyID {
			return rows[i].PartyID < rows[j].PartyID
		}
		return rows[i].StateID < rows[j].StateID
	})
	return rows
}

// partySummaries reports every party that attracted second votes, won a
// constituency, or qualified, with its share, wins, and final seats.
func partySummaries(agg *Aggregates, qual *Qualification, result *domain.Result) []domain.PartySummary {
	seatsByParty := result.SeatsByParty()

	include := make(map[int]struct{})
	for id, votes := range agg.NationalVotesByParty {
		if votes > 0 {
			include[id] = struct{}{}
		}
	}
	for id := range qual.WinsByParty {
		include[id] = struct{}{}
	}
	for id, ok := range qual.Qualified {
		if ok {
			include[id] = struct{}{}
		}
	}

	summaries := make([]domain.PartySummary, 0, len(include))
	for id := range include {
		var share float64
		if agg.TotalNationalVotes > 0 {
			share = float64(agg.NationalVotesByParty[id]) * 100.0 / float64(agg.TotalNationalVotes)
		}
		summaries = append(summaries, domain.PartySummary{
			PartyID:          id,
			ShortName:        agg.PartyByID[id].ShortName,
			Year:             agg.Year,
			SecondVotes:      agg.NationalVotesByParty[id],
			SharePct:         share,
			ConstituencyWins: qual.WinsByParty[id],
			Qualified:        qual.Qualified[id],
			Seats:            seatsByParty[id],
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].PartyID < summaries[j].PartyID })
	return summaries
}

// VerifyResult checks the consistency contracts an assembled result
// must honor before it is handed to any store or caller:
// unique persons, distribution sums matching the roster, state sums
// matching federal rows, and coverage never exceeding allocations.
//
// The exact-size check applies only when the proportional pool was
// fully awarded; with degenerate input (no qualifying party holds
// votes) the roster legitimately holds only the automatic direct
// winners.
func VerifyResult(result *domain.Result, federal *FederalResult) error {
	seen := make(map[int]struct{}, len(result.Roster))
	for _, entry := range result.Roster {
		if _, dup := seen[entry.PersonID]; dup {
			return domain.NewStageError(stageRoster,
				fmt.Sprintf("person=%d", entry.PersonID), domain.ErrInconsistentResult)
		}
		seen[entry.PersonID] = struct{}{}
	}

	var federalSeats int
	for _, row := range result.FederalDistribution {
		federalSeats += row.Seats
	}
	if federalSeats != len(result.Roster) {
		return domain.NewStageError(stageRoster,
			fmt.Sprintf("federal_seats=%d roster=%d", federalSeats, len(result.Roster)),
			domain.ErrInconsistentResult)
	}

	stateSeats := make(map[int]int)
	for _, row := range result.StateDistribution {
		stateSeats[row.PartyID] += row.Seats
	}
	for _, row := range result.FederalDistribution {
		if stateSeats[row.PartyID] != row.Seats {
			return domain.NewStageError(stageRoster,
				fmt.Sprintf("party=%d state_sum=%d federal=%d",
					row.PartyID, stateSeats[row.PartyID], row.Seats),
				domain.ErrInconsistentResult)
		}
	}

	var proportional int
	for _, row := range federal.Allocations {
		proportional += row.Seats
	}
	if proportional == federal.SeatBudget && len(result.Roster) != result.TotalSeats {
		return domain.NewStageError(stageRoster,
			fmt.Sprintf("roster=%d total_seats=%d", len(result.Roster), result.TotalSeats),
			domain.ErrInconsistentResult)
	}

	return nil
}
