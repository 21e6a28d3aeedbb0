package etl

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding/charmap"

	"github.com/ahrav/go-mandate/internal/domain"
)

// Package-level validator instance for record validation.
var validate = validator.New()

// Encoding selects the character encoding of an export file.
type Encoding string

// Supported export encodings. The federal exports switched from
// Latin-1 to UTF-8 (with BOM) between election years.
const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "latin-1"
)

// Importer reads reference data and vote totals from a directory of CSV
// exports. File layout:
//
//	states.csv                       id;name;abbreviation
//	parties.csv                      id;short_name;long_name;is_minority
//	constituencies.csv               id;number;name;state_id
//	persons.csv                      id;first_name;last_name
//	list_candidacies_<year>.csv      person_id;party_id;state_id;list_position
//	candidacies_<year>.csv           person_id;constituency_id;party_id;first_votes
//	party_lists_<year>.csv           party_id;state_id;second_votes
//	stats_<year>.csv                 constituency_id;valid_first;valid_second;invalid_first;invalid_second
//
// Every file carries a header row. Malformed rows abort the import;
// silent row dropping would violate the loud-failure contract of the
// aggregation stage downstream.
type Importer struct {
	dir      string
	encoding Encoding
}

// NewImporter creates an Importer over a directory of exports.
func NewImporter(dir string, encoding Encoding) *Importer {
	if encoding == "" {
		encoding = EncodingUTF8
	}
	return &Importer{dir: dir, encoding: encoding}
}

// LoadReferenceData reads the four static reference files plus the
// year's list candidacies.
func (imp *Importer) LoadReferenceData(year int) (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{}

	if err := imp.eachRecord("states.csv", 3, func(fields []string) error {
		rec := struct {
			ID           int    `validate:"required,min=1"`
			Name         string `validate:"required"`
			Abbreviation string `validate:"required,max=3"`
		}{}
		var err error
		if rec.ID, err = strconv.Atoi(fields[0]); err != nil {
			return err
		}
		rec.Name, rec.Abbreviation = fields[1], fields[2]
		if err := validate.Struct(rec); err != nil {
			return err
		}
		ref.States = append(ref.States, domain.FederalState{
			ID: rec.ID, Name: rec.Name, Abbreviation: rec.Abbreviation,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := imp.eachRecord("parties.csv", 4, func(fields []string) error {
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return err
		}
		minority, err := strconv.ParseBool(fields[3])
		if err != nil {
			return err
		}
		ref.Parties = append(ref.Parties, domain.Party{
			ID: id, ShortName: fields[1], LongName: fields[2], IsMinority: minority,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := imp.eachRecord("constituencies.csv", 4, func(fields []string) error {
		ints, err := atoiAll(fields[0], fields[1], fields[3])
		if err != nil {
			return err
		}
		ref.Constituencies = append(ref.Constituencies, domain.Constituency{
			ID: ints[0], Number: ints[1], Name: fields[2], StateID: ints[2],
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := imp.eachRecord("persons.csv", 3, func(fields []string) error {
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return err
		}
		ref.Persons = append(ref.Persons, domain.Person{
			ID: id, FirstName: fields[1], LastName: fields[2],
		})
		return nil
	}); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("list_candidacies_%d.csv", year)
	if err := imp.eachRecord(name, 4, func(fields []string) error {
		ints, err := atoiAll(fields...)
		if err != nil {
			return err
		}
		if ints[3] < 1 {
			return fmt.Errorf("list position must be positive, got %d", ints[3])
		}
		ref.ListCandidacies = append(ref.ListCandidacies, domain.PartyListCandidacy{
			PersonID: ints[0], PartyID: ints[1], StateID: ints[2],
			Year: year, ListPosition: ints[3],
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return ref, nil
}

// LoadVoteSnapshot reads one year's aggregated vote files.
func (imp *Importer) LoadVoteSnapshot(year int) (*domain.VoteSnapshot, error) {
	snap := &domain.VoteSnapshot{Year: year}

	name := fmt.Sprintf("candidacies_%d.csv", year)
	if err := imp.eachRecord(name, 4, func(fields []string) error {
		ints, err := atoiAll(fields[0], fields[1], fields[2])
		if err != nil {
			return err
		}
		votes, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return err
		}
		snap.Candidacies = append(snap.Candidacies, domain.ConstituencyCandidacy{
			PersonID: ints[0], ConstituencyID: ints[1], PartyID: ints[2],
			Year: year, FirstVotes: votes,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	name = fmt.Sprintf("party_lists_%d.csv", year)
	if err := imp.eachRecord(name, 3, func(fields []string) error {
		ints, err := atoiAll(fields[0], fields[1])
		if err != nil {
			return err
		}
		votes, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return err
		}
		snap.ListEntries = append(snap.ListEntries, domain.PartyListEntry{
			PartyID: ints[0], StateID: ints[1], Year: year, SecondVotes: votes,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	name = fmt.Sprintf("stats_%d.csv", year)
	if err := imp.eachRecord(name, 5, func(fields []string) error {
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return err
		}
		votes := make([]int64, 4)
		for i, f := range fields[1:] {
			if votes[i], err = strconv.ParseInt(f, 10, 64); err != nil {
				return err
			}
		}
		snap.Stats = append(snap.Stats, domain.ConstituencyStats{
			ConstituencyID: id, Year: year,
			ValidFirstVotes: votes[0], ValidSecondVotes: votes[1],
			InvalidFirstVotes: votes[2], InvalidSecondVotes: votes[3],
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

// eachRecord streams a semicolon-separated file through fn, skipping
// the header row. Any record error aborts with the file and line
// identified.
func (imp *Importer) eachRecord(name string, fieldCount int, fn func(fields []string) error) error {
	raw, err := os.ReadFile(filepath.Join(imp.dir, name))
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	var src io.Reader = bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
	if imp.encoding == EncodingLatin1 {
		src = charmap.ISO8859_1.NewDecoder().Reader(src)
	}

	reader := csv.NewReader(src)
	reader.Comma = ';'
	reader.FieldsPerRecord = fieldCount

	line := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s line %d: %w", name, line+1, err)
		}
		line++
		if line == 1 {
			continue
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
}

func atoiAll(fields ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
