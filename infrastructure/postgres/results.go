package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ahrav/go-mandate/internal/domain"
	"github.com/ahrav/go-mandate/internal/ports"
)

// ReplaceResult implements ports.ResultStore. The previous result for
// the year is deleted and the new one inserted inside one transaction,
// so readers never observe a partially written roster.
func (s *Store) ReplaceResult(ctx context.Context, result *domain.Result) error {
	key := fmt.Sprintf("year=%d", result.Year)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ports.NewStoreError("replace_result", key, err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{
		"seat_roster", "party_summaries", "federal_distribution", "state_distribution", "allocation_runs",
	} {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE year = $1", table), result.Year); err != nil {
			return ports.NewStoreError("replace_result", key, err)
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO allocation_runs (run_id, year, total_seats, computed_at)
		 VALUES ($1, $2, $3, $4)`,
		result.RunID, result.Year, result.TotalSeats, result.ComputedAt); err != nil {
		return ports.NewStoreError("replace_result", key, err)
	}

	for _, e := range result.Roster {
		if _, err := tx.Exec(ctx,
			`INSERT INTO seat_roster
			   (year, person_id, person_name, party_id, state_id, seat_type,
			    constituency_name, list_position, first_vote_pct)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.Year, e.PersonID, e.PersonName, e.PartyID, e.StateID, string(e.Type),
			e.ConstituencyName, e.ListPosition, e.FirstVotePct); err != nil {
			return ports.NewStoreError("replace_result", key, err)
		}
	}
	for _, ps := range result.PartySummaries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO party_summaries
			   (year, party_id, short_name, second_votes, share_pct,
			    constituency_wins, qualified, seats)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ps.Year, ps.PartyID, ps.ShortName, ps.SecondVotes, ps.SharePct,
			ps.ConstituencyWins, ps.Qualified, ps.Seats); err != nil {
			return ports.NewStoreError("replace_result", key, err)
		}
	}
	for _, fa := range result.FederalDistribution {
		if _, err := tx.Exec(ctx,
			`INSERT INTO federal_distribution (year, party_id, second_votes, seats)
			 VALUES ($1, $2, $3, $4)`,
			fa.Year, fa.PartyID, fa.SecondVotes, fa.Seats); err != nil {
			return ports.NewStoreError("replace_result", key, err)
		}
	}
	for _, sa := range result.StateDistribution {
		if _, err := tx.Exec(ctx,
			`INSERT INTO state_distribution (year, party_id, state_id, second_votes, seats)
			 VALUES ($1, $2, $3, $4, $5)`,
			sa.Year, sa.PartyID, sa.StateID, sa.SecondVotes, sa.Seats); err != nil {
			return ports.NewStoreError("replace_result", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ports.NewStoreError("replace_result", key, err)
	}
	return nil
}

// GetResult implements ports.ResultStore.
func (s *Store) GetResult(ctx context.Context, year int) (*domain.Result, error) {
	key := fmt.Sprintf("year=%d", year)

	result := &domain.Result{Year: year}
	err := s.pool.QueryRow(ctx,
		`SELECT run_id, total_seats, computed_at FROM allocation_runs WHERE year = $1`,
		year).Scan(&result.RunID, &result.TotalSeats, &result.ComputedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.NewStoreError("get_result", key, ports.ErrNotFound)
	}
	if err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT person_id, person_name, party_id, state_id, seat_type,
		        constituency_name, list_position, first_vote_pct
		 FROM seat_roster WHERE year = $1
		 ORDER BY party_id, state_id, seat_type, person_id`, year)
	if err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}
	for rows.Next() {
		e := domain.SeatRosterEntry{Year: year}
		var seatType string
		if err := rows.Scan(&e.PersonID, &e.PersonName, &e.PartyID, &e.StateID, &seatType,
			&e.ConstituencyName, &e.ListPosition, &e.FirstVotePct); err != nil {
			rows.Close()
			return nil, ports.NewStoreError("get_result", key, err)
		}
		e.Type = domain.SeatType(seatType)
		result.Roster = append(result.Roster, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT party_id, short_name, second_votes, share_pct, constituency_wins, qualified, seats
		 FROM party_summaries WHERE year = $1 ORDER BY party_id`, year)
	if err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}
	for rows.Next() {
		ps := domain.PartySummary{Year: year}
		if err := rows.Scan(&ps.PartyID, &ps.ShortName, &ps.SecondVotes, &ps.SharePct,
			&ps.ConstituencyWins, &ps.Qualified, &ps.Seats); err != nil {
			rows.Close()
			return nil, ports.NewStoreError("get_result", key, err)
		}
		result.PartySummaries = append(result.PartySummaries, ps)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT party_id, second_votes, seats
		 FROM federal_distribution WHERE year = $1 ORDER BY party_id`, year)
	if err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}
	for rows.Next() {
		fa := domain.FederalAllocation{Year: year}
		if err := rows.Scan(&fa.PartyID, &fa.SecondVotes, &fa.Seats); err != nil {
			rows.Close()
			return nil, ports.NewStoreError("get_result", key, err)
		}
		result.FederalDistribution = append(result.FederalDistribution, fa)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT party_id, state_id, second_votes, seats
		 FROM state_distribution WHERE year = $1 ORDER BY party_id, state_id`, year)
	if err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}
	for rows.Next() {
		sa := domain.StateAllocation{Year: year}
		if err := rows.Scan(&sa.PartyID, &sa.StateID, &sa.SecondVotes, &sa.Seats); err != nil {
			rows.Close()
			return nil, ports.NewStoreError("get_result", key, err)
		}
		result.StateDistribution = append(result.StateDistribution, sa)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, ports.NewStoreError("get_result", key, err)
	}

	return result, nil
}

// Years implements ports.ResultStore.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT year FROM allocation_runs ORDER BY year`)
	if err != nil {
		return nil, ports.NewStoreError("years", "", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, ports.NewStoreError("years", "", err)
		}
		years = append(years, year)
	}
	return years, rows.Err()
}
