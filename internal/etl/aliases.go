package etl

import (
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/ahrav/go-mandate/internal/domain"
)

// AliasProposal suggests a canonical party for an unmapped name,
// ranked by edit distance over the normalized forms. Proposals are
// suggestions for an operator to confirm, never applied automatically.
type AliasProposal struct {
	// Input is the unmapped name as it appeared in the export.
	Input string `json:"input"`

	// PartyID is the proposed canonical party.
	PartyID int `json:"party_id"`

	// Matched is the registered name the proposal matched against.
	Matched string `json:"matched"`

	// Distance is the Levenshtein distance between the normalized
	// input and the normalized registered name.
	Distance int `json:"distance"`
}

// AliasMatcher resolves free-form party names from vote exports to
// canonical party ids, first by normalized exact match, then by bounded
// fuzzy matching.
type AliasMatcher struct {
	// byNorm maps normalized short and long names to party ids. A
	// normalized name mapping to more than one party is dropped from
	// exact matching rather than resolved arbitrarily.
	byNorm      map[string]int
	ambiguous   map[string]struct{}
	parties     []domain.Party
	maxDistance int
}

// NewAliasMatcher builds a matcher over the registered parties.
// maxDistance bounds fuzzy proposals; 0 disables them.
func NewAliasMatcher(parties []domain.Party, maxDistance int) *AliasMatcher {
	m := &AliasMatcher{
		byNorm:      make(map[string]int, len(parties)*2),
		ambiguous:   make(map[string]struct{}),
		parties:     parties,
		maxDistance: maxDistance,
	}

	add := func(name string, partyID int) {
		key := NormalizeName(name)
		if key == "" {
			return
		}
		if existing, ok := m.byNorm[key]; ok && existing != partyID {
			m.ambiguous[key] = struct{}{}
			return
		}
		m.byNorm[key] = partyID
	}
	for _, p := range parties {
		add(p.ShortName, p.ID)
		add(p.LongName, p.ID)
	}
	return m
}

// Resolve maps a name to its canonical party id by normalized exact
// match. The second return is false for unknown or ambiguous names.
func (m *AliasMatcher) Resolve(name string) (int, bool) {
	key := NormalizeName(name)
	if _, amb := m.ambiguous[key]; amb {
		return 0, false
	}
	id, ok := m.byNorm[key]
	return id, ok
}

// Propose returns fuzzy alias candidates for a name that failed exact
// resolution, ordered by ascending distance, then party id. Names
// beyond the configured distance bound produce no proposals.
func (m *AliasMatcher) Propose(name string) []AliasProposal {
	if m.maxDistance <= 0 {
		return nil
	}
	key := NormalizeName(name)

	var proposals []AliasProposal
	for _, p := range m.parties {
		best := -1
		matched := ""
		for _, candidate := range []string{p.ShortName, p.LongName} {
			d := levenshtein.ComputeDistance(key, NormalizeName(candidate))
			if best < 0 || d < best {
				best = d
				matched = candidate
			}
		}
		if best >= 0 && best <= m.maxDistance {
			proposals = append(proposals, AliasProposal{
				Input:    name,
				PartyID:  p.ID,
				Matched:  matched,
				Distance: best,
			})
		}
	}

	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].Distance != proposals[j].Distance {
			return proposals[i].Distance < proposals[j].Distance
		}
		return proposals[i].PartyID < proposals[j].PartyID
	})
	return proposals
}
