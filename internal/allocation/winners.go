package allocation

import (
	"sort"

	"github.com/ahrav/go-mandate/internal/domain"
)

// ResolveWinners determines the first-vote winner of every constituency
// that has at least one candidacy. A constituency without candidacies
// produces no winner; with valid input that does not occur, but it must
// not abort the run.
//
// Tie-break: equal first votes are resolved in favor of the lower person
// id. This is a deterministic stability convention, not an electoral
// rule; real ties are decided by lot, which a reproducible batch
// computation cannot model.
func ResolveWinners(agg *Aggregates) []domain.ConstituencyWinner {
	winners := make([]domain.ConstituencyWinner, 0, len(agg.CandidaciesByConstituency))

	for constituencyID, candidacies := range agg.CandidaciesByConstituency {
		best := candidacies[0]
		for _, c := range candidacies[1:] {
			if c.FirstVotes > best.FirstVotes ||
				(c.FirstVotes == best.FirstVotes && c.PersonID < best.PersonID) {
				best = c
			}
		}

		winners = append(winners, domain.ConstituencyWinner{
			ConstituencyID: constituencyID,
			PersonID:       best.PersonID,
			PartyID:        best.PartyID,
			Year:           agg.Year,
			FirstVotes:     best.FirstVotes,
			FirstVotePct:   agg.firstVotePct(constituencyID, best.FirstVotes),
		})
	}

	sort.Slice(winners, func(i, j int) bool {
		return winners[i].ConstituencyID < winners[j].ConstituencyID
	})
	return winners
}

// firstVotePct computes a winner's share of the constituency's valid
// first votes in percent. A missing or zero denominator yields 0 rather
// than an error; an empty constituency is an expected edge case, not
// corruption.
func (agg *Aggregates) firstVotePct(constituencyID int, votes int64) float64 {
	stats, ok := agg.StatsByConstituency[constituencyID]
	if !ok || stats.ValidFirstVotes == 0 {
		return 0
	}
	return float64(votes) * 100.0 / float64(stats.ValidFirstVotes)
}
