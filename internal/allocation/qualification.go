package allocation

import (
	"github.com/ahrav/go-mandate/internal/domain"
)

// Qualification is the outcome of the representation-threshold filter,
// evaluated once per run and reused by every downstream stage.
// Qualification is all-or-nothing per party, never per state.
type Qualification struct {
	// Qualified holds the ids of parties clearing the threshold.
	Qualified map[int]bool

	// WinsByParty counts constituency wins per party id.
	WinsByParty map[int]int
}

// IsQualified reports whether a party cleared the threshold.
// Independents (party id 0) never qualify.
func (q *Qualification) IsQualified(partyID int) bool {
	return partyID != 0 && q.Qualified[partyID]
}

// QualifyParties applies the representation threshold: a party qualifies
// if it is a recognized minority party, won at least
// cfg.MinDirectMandates constituencies, or reached
// cfg.ThresholdSharePct of the national second votes.
//
// When no second votes were cast nationally, the share clause qualifies
// no party; the other two clauses still apply and the run must not
// abort.
func QualifyParties(agg *Aggregates, winners []domain.ConstituencyWinner, cfg Config) *Qualification {
	qual := &Qualification{
		Qualified:   make(map[int]bool, len(agg.PartyByID)),
		WinsByParty: make(map[int]int),
	}

	for _, w := range winners {
		if w.PartyID != 0 {
			qual.WinsByParty[w.PartyID]++
		}
	}

	for id, party := range agg.PartyByID {
		switch {
		case party.IsMinority:
			qual.Qualified[id] = true
		case qual.WinsByParty[id] >= cfg.MinDirectMandates && cfg.MinDirectMandates > 0:
			qual.Qualified[id] = true
		case agg.TotalNationalVotes > 0 &&
			float64(agg.NationalVotesByParty[id])*100.0/float64(agg.TotalNationalVotes) >= cfg.ThresholdSharePct:
			qual.Qualified[id] = true
		}
	}

	return qual
}
