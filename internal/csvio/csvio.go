// internal/csvio/csvio.go
// CSV schedule import/export per SPEC_FULL.md §6: columns matchId,
// category, stage, team1, team2, time, court. Import is idempotent: a row
// with empty time and court clears the assignment.

package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
)

var header = []string{"matchId", "category", "stage", "team1", "team2", "time", "court"}

// Row is one schedule row, export or import.
type Row struct {
	MatchID  string
	Category string
	Stage    string
	Team1    string
	Team2    string
	Time     string // empty clears the assignment
	Court    string
}

// Write serializes rows as CSV with the standard header.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csvio: write header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.MatchID, r.Category, r.Stage, r.Team1, r.Team2, r.Time, r.Court}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csvio: write row %s: %w", r.MatchID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses CSV rows, validating the header shape. Extra columns beyond
// the known seven are rejected; a short row is rejected too, so a
// malformed import fails fast before any row is applied.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvio: parse: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csvio: empty file")
	}

	var rows []Row
	for i, rec := range records[1:] {
		rows = append(rows, Row{
			MatchID:  rec[0],
			Category: rec[1],
			Stage:    rec[2],
			Team1:    rec[3],
			Team2:    rec[4],
			Time:     rec[5],
			Court:    rec[6],
		})
		_ = i
	}
	return rows, nil
}
