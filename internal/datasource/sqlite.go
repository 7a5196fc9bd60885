package datasource

import (
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/regionwork/pkg/model"
)

// Schema is the layout read by SQLiteReader and written by SaveSQLite.
const Schema = `
CREATE TABLE IF NOT EXISTS regions (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	color    TEXT,
	labels   TEXT,
	selected INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS keyframes (
	region_id TEXT NOT NULL REFERENCES regions(id),
	frame     INTEGER NOT NULL,
	enabled   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS keyframes_region ON keyframes(region_id, frame);
`

// SQLiteReader reads regions from a task database.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite source read-only.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CountRegions returns the number of regions in the database.
func (r *SQLiteReader) CountRegions() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM regions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting regions in %s: %w", r.path, err)
	}
	return n, nil
}

// LoadRegions reads every region in position order with its keyframes.
func (r *SQLiteReader) LoadRegions() ([]*model.Region, error) {
	rows, err := r.db.Query(`SELECT id, color, labels, selected FROM regions ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying regions in %s: %w", r.path, err)
	}
	defer rows.Close()

	var regions []*model.Region
	byID := make(map[string]*model.Region)
	for rows.Next() {
		var (
			region        model.Region
			color, labels sql.NullString
			selected      int
		)
		if err := rows.Scan(&region.ID, &color, &labels, &selected); err != nil {
			return nil, fmt.Errorf("scanning region: %w", err)
		}
		region.Color = color.String
		region.Labels = parseJSONStringArray(labels.String)
		region.Selected = selected != 0
		regions = append(regions, &region)
		byID[region.ID] = &region
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	kf, err := r.db.Query(`SELECT region_id, frame, enabled FROM keyframes ORDER BY region_id, frame`)
	if err != nil {
		return nil, fmt.Errorf("querying keyframes in %s: %w", r.path, err)
	}
	defer kf.Close()
	for kf.Next() {
		var (
			id      string
			frame   int
			enabled int
		)
		if err := kf.Scan(&id, &frame, &enabled); err != nil {
			return nil, fmt.Errorf("scanning keyframe: %w", err)
		}
		if region, ok := byID[id]; ok {
			region.Sequence = append(region.Sequence, model.Keyframe{Frame: frame, Enabled: enabled != 0})
		}
	}
	return regions, kf.Err()
}

// SaveSQLite writes regions to a new or existing database at path,
// replacing its contents.
func SaveSQLite(path string, regions []*model.Region) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM keyframes; DELETE FROM regions;`); err != nil {
		return fmt.Errorf("clearing tables: %w", err)
	}
	for i, region := range regions {
		labels, err := json.Marshal(region.Labels)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO regions (id, position, color, labels, selected) VALUES (?, ?, ?, ?, ?)`,
			region.ID, i, region.Color, string(labels), boolInt(region.Selected)); err != nil {
			return fmt.Errorf("inserting region %s: %w", region.ID, err)
		}
		for _, k := range region.Sequence {
			if _, err := tx.Exec(`INSERT INTO keyframes (region_id, frame, enabled) VALUES (?, ?, ?)`,
				region.ID, k.Frame, boolInt(k.Enabled)); err != nil {
				return fmt.Errorf("inserting keyframe of %s: %w", region.ID, err)
			}
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseJSONStringArray(s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
