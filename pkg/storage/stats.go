package storage

import "context"

// TableStats is the row count of one table, for the db stats command.
type TableStats struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

var statsTables = []string{
	"users",
	"supplements",
	"equipment",
	"schedule_items",
	"routines",
	"routine_items",
	"routine_versions",
	"biomarkers",
	"journal_entries",
	"goals",
}

// GetStats returns row counts for every entity table.
func (d *DB) GetStats(ctx context.Context) ([]TableStats, error) {
	out := make([]TableStats, 0, len(statsTables))
	for _, table := range statsTables {
		var n int
		if err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, TableStats{Table: table, Rows: n})
	}
	return out, nil
}
