package allocation

import (
	"fmt"
	"sort"

	"github.com/ahrav/go-mandate/internal/domain"
)

// Stage names used in error reporting and observability.
const (
	stageAggregate     = "vote_aggregation"
	stageWinners       = "constituency_winners"
	stageQualification = "party_qualification"
	stageFederal       = "federal_apportionment"
	stageStates        = "state_apportionment"
	stageCoverage      = "second_vote_coverage"
	stageListSeats     = "list_seat_filling"
	stageRoster        = "roster_assembly"
)

// Aggregates is the validated, indexed view of one year's vote snapshot
// that every downstream stage reads. It is built once per run and never
// mutated afterwards.
type Aggregates struct {
	// Year is the election year the aggregates cover.
	Year int

	// Reference indexes.

	// StateByID maps state id to the state.
	StateByID map[int]domain.FederalState
	// PartyByID maps party id to the party.
	PartyByID map[int]domain.Party
	// ConstituencyByID maps constituency id to the constituency.
	ConstituencyByID map[int]domain.Constituency
	// PersonByID maps person id to the person.
	PersonByID map[int]domain.Person

	// CandidaciesByConstituency groups the year's constituency
	// candidacies by constituency id.
	CandidaciesByConstituency map[int][]domain.ConstituencyCandidacy

	// NationalVotesByParty sums each party's second votes across all
	// states.
	NationalVotesByParty map[int]int64

	// TotalNationalVotes is the sum of all parties' second votes.
	TotalNationalVotes int64

	// StateVotesByParty maps party id to its per-state second votes.
	StateVotesByParty map[int]map[int]int64

	// StatsByConstituency maps constituency id to the year's valid and
	// invalid vote totals.
	StatsByConstituency map[int]domain.ConstituencyStats

	// ListCandidacies groups the year's list placements by (party,
	// state), each group ordered by ascending list position.
	ListCandidacies map[partyState][]domain.PartyListCandidacy
}

// partyState keys data partitioned by party and state.
type partyState struct {
	PartyID int
	StateID int
}

// AggregateVotes validates a vote snapshot against the reference data
// and builds the indexed aggregates the pipeline consumes.
//
// Any referential-integrity violation, negative vote count, or
// uniqueness violation aborts the run with a StageError; rows are never
// silently dropped or clamped.
func AggregateVotes(ref *domain.ReferenceData, snap *domain.VoteSnapshot) (*Aggregates, error) {
	agg := &Aggregates{
		Year:                      snap.Year,
		StateByID:                 make(map[int]domain.FederalState, len(ref.States)),
		PartyByID:                 make(map[int]domain.Party, len(ref.Parties)),
		ConstituencyByID:          make(map[int]domain.Constituency, len(ref.Constituencies)),
		PersonByID:                make(map[int]domain.Person, len(ref.Persons)),
		CandidaciesByConstituency: make(map[int][]domain.ConstituencyCandidacy),
		NationalVotesByParty:      make(map[int]int64),
		StateVotesByParty:         make(map[int]map[int]int64),
		StatsByConstituency:       make(map[int]domain.ConstituencyStats, len(snap.Stats)),
		ListCandidacies:           make(map[partyState][]domain.PartyListCandidacy),
	}

	for _, s := range ref.States {
		agg.StateByID[s.ID] = s
	}
	for _, p := range ref.Parties {
		agg.PartyByID[p.ID] = p
	}
	for _, c := range ref.Constituencies {
		agg.ConstituencyByID[c.ID] = c
	}
	for _, p := range ref.Persons {
		agg.PersonByID[p.ID] = p
	}

	if err := agg.indexCandidacies(snap.Candidacies); err != nil {
		return nil, err
	}
	if err := agg.indexListEntries(snap.ListEntries); err != nil {
		return nil, err
	}
	if err := agg.indexStats(snap.Stats); err != nil {
		return nil, err
	}
	agg.indexListCandidacies(ref.ListCandidacies)

	return agg, nil
}

func (agg *Aggregates) indexCandidacies(rows []domain.ConstituencyCandidacy) error {
	seenPerson := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		entity := fmt.Sprintf("candidacy person=%d constituency=%d", row.PersonID, row.ConstituencyID)

		if _, ok := agg.PersonByID[row.PersonID]; !ok {
			return domain.NewStageError(stageAggregate, entity, domain.ErrUnknownReference)
		}
		if _, ok := agg.ConstituencyByID[row.ConstituencyID]; !ok {
			return domain.NewStageError(stageAggregate, entity, domain.ErrUnknownReference)
		}
		if !row.Independent() {
			if _, ok := agg.PartyByID[row.PartyID]; !ok {
				return domain.NewStageError(stageAggregate, entity, domain.ErrUnknownReference)
			}
		}
		if row.FirstVotes < 0 {
			return domain.NewStageError(stageAggregate, entity, domain.ErrNegativeVotes)
		}
		// At most one candidacy per person per year.
		if _, dup := seenPerson[row.PersonID]; dup {
			return domain.NewStageError(stageAggregate, entity, domain.ErrDuplicateRow)
		}
		seenPerson[row.PersonID] = struct{}{}

		agg.CandidaciesByConstituency[row.ConstituencyID] =
			append(agg.CandidaciesByConstituency[row.ConstituencyID], row)
	}
	return nil
}

func (agg *Aggregates) indexListEntries(rows []domain.PartyListEntry) error {
	seen := make(map[partyState]struct{}, len(rows))

	for _, row := range rows {
		entity := fmt.Sprintf("party list party=%d state=%d", row.PartyID, row.StateID)

		if _, ok := agg.PartyByID[row.PartyID]; !ok {
			return domain.NewStageError(stageAggregate, entity, domain.ErrUnknownReference)
		}
		if _, ok := agg.StateByID[row.StateID]; !ok {
			return domain.NewStageError(stageAggregate, entity, domain.ErrUnknownReference)
		}
		if row.SecondVotes < 0 {
			return domain.NewStageError(stageAggregate, entity, domain.ErrNegativeVotes)
		}
		key := partyState{row.PartyID, row.StateID}
		if _, dup := seen[key]; dup {
			return domain.NewStageError(stageAggregate, entity, domain.ErrDuplicateRow)
		}
		seen[key] = struct{}{}

		agg.NationalVotesByParty[row.PartyID] += row.SecondVotes
		agg.TotalNationalVotes += row.SecondVotes
		if agg.StateVotesByParty[row.PartyID] == nil {
			agg.StateVotesByParty[row.PartyID] = make(map[int]int64)
		}
		agg.StateVotesByParty[row.PartyID][row.StateID] = row.SecondVotes
	}
	return nil
}

func (agg *Aggregates) indexStats(rows []domain.ConstituencyStats) error {
	for _, row := range rows {
		entity := fmt.Sprintf("stats constituency=%d", row.ConstituencyID)

		if _, ok := agg.ConstituencyByID[row.ConstituencyID]; !ok {
			return domain.NewStageError(stageAggregate, entity, domain.ErrUnknownReference)
		}
		if row.ValidFirstVotes < 0 || row.ValidSecondVotes < 0 ||
			row.InvalidFirstVotes < 0 || row.InvalidSecondVotes < 0 {
			return domain.NewStageError(stageAggregate, entity, domain.ErrNegativeVotes)
		}
		if _, dup := agg.StatsByConstituency[row.ConstituencyID]; dup {
			return domain.NewStageError(stageAggregate, entity, domain.ErrDuplicateRow)
		}
		agg.StatsByConstituency[row.ConstituencyID] = row
	}
	return nil
}

// indexListCandidacies keeps only this year's list placements and orders
// every (party, state) list by ascending list position.
func (agg *Aggregates) indexListCandidacies(rows []domain.PartyListCandidacy) {
	for _, row := range rows {
		if row.Year != agg.Year {
			continue
		}
		key := partyState{row.PartyID, row.StateID}
		agg.ListCandidacies[key] = append(agg.ListCandidacies[key], row)
	}
	for key := range agg.ListCandidacies {
		list := agg.ListCandidacies[key]
		sort.Slice(list, func(i, j int) bool {
			return list[i].ListPosition < list[j].ListPosition
		})
	}
}

// StateOfConstituency returns the state id containing a constituency.
func (agg *Aggregates) StateOfConstituency(constituencyID int) int {
	return agg.ConstituencyByID[constituencyID].StateID
}
