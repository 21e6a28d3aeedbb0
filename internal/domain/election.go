// Package domain contains pure, dependency-free domain models and types
// for the seat-allocation engine.
package domain

// FederalState represents one of the federal states whose party lists
// compete in the second-vote apportionment.
type FederalState struct {
	// ID uniquely identifies the state.
	ID int `json:"id"`

	// Name is the full state name.
	Name string `json:"name"`

	// Abbreviation is the short state code (e.g. "BY", "NW").
	Abbreviation string `json:"abbreviation"`
}

// Party represents a political party standing in the election.
type Party struct {
	// ID uniquely identifies the party.
	ID int `json:"id"`

	// ShortName is the common abbreviated party name.
	ShortName string `json:"short_name"`

	// LongName is the full registered party name.
	LongName string `json:"long_name"`

	// IsMinority marks a recognized national-minority party, which is
	// exempt from the vote-share and direct-mandate thresholds.
	IsMinority bool `json:"is_minority"`
}

// Constituency represents a single-member electoral district decided by
// first votes.
type Constituency struct {
	// ID uniquely identifies the constituency.
	ID int `json:"id"`

	// Number is the official constituency number.
	Number int `json:"number"`

	// Name is the official constituency name.
	Name string `json:"name"`

	// StateID references the federal state containing this constituency.
	StateID int `json:"state_id"`
}

// Person represents a candidate standing in a constituency, on a party
// list, or both.
type Person struct {
	// ID uniquely identifies the person.
	ID int `json:"id"`

	// FirstName is the person's given name.
	FirstName string `json:"first_name"`

	// LastName is the person's family name.
	LastName string `json:"last_name"`
}

// FullName returns the person's display name.
func (p Person) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// ConstituencyCandidacy is one candidate's first-vote result in one
// constituency for one election year. A person holds at most one
// constituency candidacy per year.
type ConstituencyCandidacy struct {
	// PersonID references the candidate.
	PersonID int `json:"person_id"`

	// ConstituencyID references the constituency contested.
	ConstituencyID int `json:"constituency_id"`

	// PartyID references the nominating party; zero for independents.
	PartyID int `json:"party_id"`

	// Year is the election year.
	Year int `json:"year"`

	// FirstVotes is the candidate's total first votes.
	FirstVotes int64 `json:"first_votes"`
}

// Independent reports whether the candidacy has no nominating party.
func (c ConstituencyCandidacy) Independent() bool { return c.PartyID == 0 }

// PartyListEntry is the aggregated second-vote total for one party's
// state list in one election year. Unique per (party, state, year).
type PartyListEntry struct {
	// PartyID references the party owning the list.
	PartyID int `json:"party_id"`

	// StateID references the state the list stands in.
	StateID int `json:"state_id"`

	// Year is the election year.
	Year int `json:"year"`

	// SecondVotes is the list's total second votes in the state.
	SecondVotes int64 `json:"second_votes"`
}

// PartyListCandidacy places a person on a party's state list at a fixed
// rank. Unique per (person, party, state, year); ListPosition strictly
// orders candidates within a list.
type PartyListCandidacy struct {
	// PersonID references the listed candidate.
	PersonID int `json:"person_id"`

	// PartyID references the party owning the list.
	PartyID int `json:"party_id"`

	// StateID references the state the list stands in.
	StateID int `json:"state_id"`

	// Year is the election year.
	Year int `json:"year"`

	// ListPosition is the candidate's rank on the list, starting at 1.
	ListPosition int `json:"list_position"`
}

// ConstituencyStats holds the per-constituency vote denominators for one
// election year, used for percentage tie-breaks and turnout reporting.
type ConstituencyStats struct {
	// ConstituencyID references the constituency.
	ConstituencyID int `json:"constituency_id"`

	// Year is the election year.
	Year int `json:"year"`

	// ValidFirstVotes is the total number of valid first votes cast.
	ValidFirstVotes int64 `json:"valid_first_votes"`

	// ValidSecondVotes is the total number of valid second votes cast.
	ValidSecondVotes int64 `json:"valid_second_votes"`

	// InvalidFirstVotes is the total number of invalid first votes cast.
	InvalidFirstVotes int64 `json:"invalid_first_votes"`

	// InvalidSecondVotes is the total number of invalid second votes cast.
	InvalidSecondVotes int64 `json:"invalid_second_votes"`
}

// ReferenceData is the static entity snapshot the allocation pipeline
// reads but never modifies.
type ReferenceData struct {
	// States lists every federal state.
	States []FederalState `json:"states"`

	// Parties lists every registered party.
	Parties []Party `json:"parties"`

	// Constituencies lists every electoral district.
	Constituencies []Constituency `json:"constituencies"`

	// Persons lists every candidate.
	Persons []Person `json:"persons"`

	// ListCandidacies lists every (person, party list) placement across
	// all years.
	ListCandidacies []PartyListCandidacy `json:"list_candidacies"`
}

// VoteSnapshot is the immutable vote-total input for one election year.
// The allocation for a year is a pure function of one VoteSnapshot plus
// the ReferenceData.
type VoteSnapshot struct {
	// Year is the election year this snapshot covers.
	Year int `json:"year"`

	// Candidacies holds every constituency candidacy with its first-vote
	// total.
	Candidacies []ConstituencyCandidacy `json:"candidacies"`

	// ListEntries holds every party state list with its second-vote total.
	ListEntries []PartyListEntry `json:"list_entries"`

	// Stats holds the per-constituency valid/invalid vote totals.
	Stats []ConstituencyStats `json:"stats"`
}
