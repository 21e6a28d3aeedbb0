package postgres

import (
	"context"
	"fmt"

	"github.com/ahrav/go-mandate/internal/domain"
	"github.com/ahrav/go-mandate/internal/ports"
)

// GetReferenceData implements ports.VoteStore with bulk selects over the
// static reference tables.
func (s *Store) GetReferenceData(ctx context.Context) (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{}

	if err := s.loadStates(ctx, ref); err != nil {
		return nil, err
	}
	if err := s.loadParties(ctx, ref); err != nil {
		return nil, err
	}
	if err := s.loadConstituencies(ctx, ref); err != nil {
		return nil, err
	}
	if err := s.loadPersons(ctx, ref); err != nil {
		return nil, err
	}
	if err := s.loadListCandidacies(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *Store) loadStates(ctx context.Context, ref *domain.ReferenceData) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, abbreviation FROM states ORDER BY id`)
	if err != nil {
		return ports.NewStoreError("load_states", "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st domain.FederalState
		if err := rows.Scan(&st.ID, &st.Name, &st.Abbreviation); err != nil {
			return ports.NewStoreError("load_states", "", err)
		}
		ref.States = append(ref.States, st)
	}
	return rows.Err()
}

func (s *Store) loadParties(ctx context.Context, ref *domain.ReferenceData) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, short_name, long_name, is_minority FROM parties ORDER BY id`)
	if err != nil {
		return ports.NewStoreError("load_parties", "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Party
		if err := rows.Scan(&p.ID, &p.ShortName, &p.LongName, &p.IsMinority); err != nil {
			return ports.NewStoreError("load_parties", "", err)
		}
		ref.Parties = append(ref.Parties, p)
	}
	return rows.Err()
}

func (s *Store) loadConstituencies(ctx context.Context, ref *domain.ReferenceData) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, number, name, state_id FROM constituencies ORDER BY id`)
	if err != nil {
		return ports.NewStoreError("load_constituencies", "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Constituency
		if err := rows.Scan(&c.ID, &c.Number, &c.Name, &c.StateID); err != nil {
			return ports.NewStoreError("load_constituencies", "", err)
		}
		ref.Constituencies = append(ref.Constituencies, c)
	}
	return rows.Err()
}

func (s *Store) loadPersons(ctx context.Context, ref *domain.ReferenceData) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, first_name, last_name FROM persons ORDER BY id`)
	if err != nil {
		return ports.NewStoreError("load_persons", "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName); err != nil {
			return ports.NewStoreError("load_persons", "", err)
		}
		ref.Persons = append(ref.Persons, p)
	}
	return rows.Err()
}

func (s *Store) loadListCandidacies(ctx context.Context, ref *domain.ReferenceData) error {
	rows, err := s.pool.Query(ctx,
		`SELECT person_id, party_id, state_id, year, list_position
		 FROM party_list_candidacies ORDER BY party_id, state_id, list_position`)
	if err != nil {
		return ports.NewStoreError("load_list_candidacies", "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lc domain.PartyListCandidacy
		if err := rows.Scan(&lc.PersonID, &lc.PartyID, &lc.StateID, &lc.Year, &lc.ListPosition); err != nil {
			return ports.NewStoreError("load_list_candidacies", "", err)
		}
		ref.ListCandidacies = append(ref.ListCandidacies, lc)
	}
	return rows.Err()
}

// GetVoteAggregates implements ports.VoteStore. The aggregation over
// ballot-level data lives in the database as materialized totals; this
// read returns the already-summed rows for one year.
func (s *Store) GetVoteAggregates(ctx context.Context, year int) (*domain.VoteSnapshot, error) {
	snap := &domain.VoteSnapshot{Year: year}
	key := fmt.Sprintf("year=%d", year)

	rows, err := s.pool.Query(ctx,
		`SELECT person_id, constituency_id, COALESCE(party_id, 0), first_votes
		 FROM constituency_candidacies WHERE year = $1`, year)
	if err != nil {
		return nil, ports.NewStoreError("load_candidacies", key, err)
	}
	for rows.Next() {
		c := domain.ConstituencyCandidacy{Year: year}
		if err := rows.Scan(&c.PersonID, &c.ConstituencyID, &c.PartyID, &c.FirstVotes); err != nil {
			rows.Close()
			return nil, ports.NewStoreError("load_candidacies", key, err)
		}
		snap.Candidacies = append(snap.Candidacies, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, ports.NewStoreError("load_candidacies", key, err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT party_id, state_id, second_votes
		 FROM party_list_entries WHERE year = $1`, year)
	if err != nil {
		return nil, ports.NewStoreError("load_list_entries", key, err)
	}
	for rows.Next() {
		e := domain.PartyListEntry{Year: year}
		if err := rows.Scan(&e.PartyID, &e.StateID, &e.SecondVotes); err != nil {
			rows.Close()
			return nil, ports.NewStoreError("load_list_entries", key, err)
		}
		snap.ListEntries = append(snap.ListEntries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, ports.NewStoreError("load_list_entries", key, err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT constituency_id, valid_first_votes, valid_second_votes,
		        invalid_first_votes, invalid_second_votes
		 FROM constituency_stats WHERE year = $1`, year)
	if err != nil {
		return nil, ports.NewStoreError("load_stats", key, err)
	}
	for rows.Next() {
		st := domain.ConstituencyStats{Year: year}
		if err := rows.Scan(&st.ConstituencyID, &st.ValidFirstVotes, &st.ValidSecondVotes,
			&st.InvalidFirstVotes, &st.InvalidSecondVotes); err != nil {
			rows.Close()
			return nil, ports.NewStoreError("load_stats", key, err)
		}
		snap.Stats = append(snap.Stats, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, ports.NewStoreError("load_stats", key, err)
	}

	return snap, nil
}
