package postgres

import (
	"context"

	"github.com/ahrav/go-mandate/internal/ports"
)

// schema holds the DDL for the result tables this store writes.
// Reference and vote tables are provisioned by the import tooling; the
// foreign keys below make referential-integrity violations fail loudly
// at write time instead of being silently dropped.
const schema = `
CREATE TABLE IF NOT EXISTS allocation_runs (
	run_id      TEXT PRIMARY KEY,
	year        INT  NOT NULL UNIQUE,
	total_seats INT  NOT NULL,
	computed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS seat_roster (
	year              INT    NOT NULL REFERENCES allocation_runs(year) ON DELETE CASCADE,
	person_id         INT    NOT NULL,
	person_name       TEXT   NOT NULL,
	party_id          INT    NOT NULL,
	state_id          INT    NOT NULL,
	seat_type         TEXT   NOT NULL,
	constituency_name TEXT   NOT NULL DEFAULT '',
	list_position     INT    NOT NULL DEFAULT 0,
	first_vote_pct    DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (year, person_id)
);

CREATE TABLE IF NOT EXISTS party_summaries (
	year              INT    NOT NULL REFERENCES allocation_runs(year) ON DELETE CASCADE,
	party_id          INT    NOT NULL,
	short_name        TEXT   NOT NULL,
	second_votes      BIGINT NOT NULL,
	share_pct         DOUBLE PRECISION NOT NULL,
	constituency_wins INT    NOT NULL,
	qualified         BOOL   NOT NULL,
	seats             INT    NOT NULL,
	PRIMARY KEY (year, party_id)
);

CREATE TABLE IF NOT EXISTS federal_distribution (
	year         INT    NOT NULL REFERENCES allocation_runs(year) ON DELETE CASCADE,
	party_id     INT    NOT NULL,
	second_votes BIGINT NOT NULL,
	seats        INT    NOT NULL,
	PRIMARY KEY (year, party_id)
);

CREATE TABLE IF NOT EXISTS state_distribution (
	year         INT    NOT NULL REFERENCES allocation_runs(year) ON DELETE CASCADE,
	party_id     INT    NOT NULL,
	state_id     INT    NOT NULL,
	second_votes BIGINT NOT NULL,
	seats        INT    NOT NULL,
	PRIMARY KEY (year, party_id, state_id)
);
`

// Migrate creates the result tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return ports.NewStoreError("migrate", "", err)
	}
	return nil
}
