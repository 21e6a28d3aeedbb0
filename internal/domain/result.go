package domain

import (
	"time"
)

// SeatType classifies how a roster entry obtained its seat.
type SeatType string

// Seat types appearing in the final roster.
const (
	// SeatDirectMandate is a constituency win admitted under second-vote
	// coverage.
	SeatDirectMandate SeatType = "direct_mandate"

	// SeatDirectMandateNonQualified is a constituency win by an
	// independent or a party below the representation threshold, seated
	// outside the proportional pool.
	SeatDirectMandateNonQualified SeatType = "direct_mandate_non_qualified"

	// SeatList is a seat filled from a party's ranked state list.
	SeatList SeatType = "list_seat"
)

// ConstituencyWinner is the candidate with the most first votes in one
// constituency. Recomputed fresh on every run, never mutated.
type ConstituencyWinner struct {
	// ConstituencyID references the constituency won.
	ConstituencyID int `json:"constituency_id"`

	// PersonID references the winning candidate.
	PersonID int `json:"person_id"`

	// PartyID references the winner's nominating party; zero for
	// independents.
	PartyID int `json:"party_id"`

	// Year is the election year.
	Year int `json:"year"`

	// FirstVotes is the winner's first-vote total.
	FirstVotes int64 `json:"first_votes"`

	// FirstVotePct is the winner's share of the constituency's valid
	// first votes, in percent. Zero when the constituency reported no
	// valid first votes.
	FirstVotePct float64 `json:"first_vote_pct"`
}

// FederalAllocation is one qualifying party's proportional seat count at
// the federal level.
type FederalAllocation struct {
	// PartyID references the party.
	PartyID int `json:"party_id"`

	// Year is the election year.
	Year int `json:"year"`

	// SecondVotes is the party's national second-vote total.
	SecondVotes int64 `json:"second_votes"`

	// Seats is the number of seats awarded by the federal apportionment.
	Seats int `json:"seats"`
}

// StateAllocation is one party's seat count in one state. For every
// party the state allocations sum exactly to its federal allocation.
type StateAllocation struct {
	// PartyID references the party.
	PartyID int `json:"party_id"`

	// StateID references the state.
	StateID int `json:"state_id"`

	// Year is the election year.
	Year int `json:"year"`

	// SecondVotes is the party's second-vote total in the state.
	SecondVotes int64 `json:"second_votes"`

	// Seats is the number of seats awarded by the state apportionment.
	Seats int `json:"seats"`
}

// PartySummary reports one party's qualification status and national
// vote standing for the dashboard projections.
type PartySummary struct {
	// PartyID references the party.
	PartyID int `json:"party_id"`

	// ShortName is the party's abbreviated name, denormalized for display.
	ShortName string `json:"short_name"`

	// Year is the election year.
	Year int `json:"year"`

	// SecondVotes is the party's national second-vote total.
	SecondVotes int64 `json:"second_votes"`

	// SharePct is the party's share of all national second votes, in
	// percent. Zero when no second votes were cast nationally.
	SharePct float64 `json:"share_pct"`

	// ConstituencyWins is the number of constituencies the party won.
	ConstituencyWins int `json:"constituency_wins"`

	// Qualified reports whether the party cleared the representation
	// threshold.
	Qualified bool `json:"qualified"`

	// Seats is the party's total seats in the final roster, including
	// non-qualified direct mandates.
	Seats int `json:"seats"`
}

// SeatRosterEntry is one seated person in the final roster. A person
// appears at most once per year.
type SeatRosterEntry struct {
	// PersonID references the seated person.
	PersonID int `json:"person_id"`

	// PersonName is the seated person's display name.
	PersonName string `json:"person_name"`

	// PartyID references the person's party; zero for independents.
	PartyID int `json:"party_id"`

	// StateID references the state the seat counts against.
	StateID int `json:"state_id"`

	// Year is the election year.
	Year int `json:"year"`

	// Type classifies how the seat was obtained.
	Type SeatType `json:"seat_type"`

	// ConstituencyName names the constituency won, for direct mandates.
	ConstituencyName string `json:"constituency_name,omitempty"`

	// ListPosition is the seat-holder's list rank, for list seats.
	ListPosition int `json:"list_position,omitempty"`

	// FirstVotePct is the winning first-vote share, for direct mandates.
	FirstVotePct float64 `json:"first_vote_pct,omitempty"`
}

// Result is the complete output of one seat-allocation run: the roster
// plus the three summary projections, all mutually consistent.
type Result struct {
	// RunID uniquely identifies this computation run (a UUID).
	RunID string `json:"run_id"`

	// Year is the election year computed.
	Year int `json:"year"`

	// TotalSeats is the fixed seat budget the run was configured with.
	TotalSeats int `json:"total_seats"`

	// Roster lists every seated person, ordered deterministically by
	// party id, state id, seat type, person id.
	Roster []SeatRosterEntry `json:"roster"`

	// PartySummaries reports qualification and vote standing per party.
	PartySummaries []PartySummary `json:"party_summaries"`

	// FederalDistribution reports proportional seats per qualifying party.
	FederalDistribution []FederalAllocation `json:"federal_distribution"`

	// StateDistribution reports seats per (party, state).
	StateDistribution []StateAllocation `json:"state_distribution"`

	// ComputedAt records when the run finished.
	ComputedAt time.Time `json:"computed_at"`
}

// SeatsByType counts roster entries per seat type.
func (r *Result) SeatsByType() map[SeatType]int {
	counts := make(map[SeatType]int, 3)
	for _, entry := range r.Roster {
		counts[entry.Type]++
	}
	return counts
}

// SeatsByParty counts roster entries per party id.
func (r *Result) SeatsByParty() map[int]int {
	counts := make(map[int]int)
	for _, entry := range r.Roster {
		counts[entry.PartyID]++
	}
	return counts
}
