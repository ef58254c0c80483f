package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mvdwaal/gridday/internal/engine"
	_ "modernc.org/sqlite"
)

const tutorialSeenKey = "tutorial_seen"

// Store persists the session between runs: the live schedule, the
// tutorial-seen flag, and an archive of completed days.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at path.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewMemory opens an in-memory store, used by tests.
func NewMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schedule (
		activity_id TEXT PRIMARY KEY,
		start_hour INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		completed_at DATETIME NOT NULL,
		total_cost REAL NOT NULL,
		peak_hours_used INTEGER NOT NULL,
		grid_stress_max INTEGER NOT NULL,
		comfort_score INTEGER NOT NULL,
		neighborhood_impact TEXT NOT NULL,
		grade REAL NOT NULL,
		grade_label TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_day_history_completed ON day_history(completed_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveSchedule replaces the persisted schedule with the given snapshot.
func (s *Store) SaveSchedule(snapshot []engine.ScheduledActivity) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM schedule`); err != nil {
		return fmt.Errorf("clearing schedule: %w", err)
	}

	for _, sa := range snapshot {
		_, err := tx.Exec(
			`INSERT INTO schedule (activity_id, start_hour, updated_at) VALUES (?, ?, ?)`,
			sa.ActivityID, sa.StartHour, time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("saving placement %s: %w", sa.ActivityID, err)
		}
	}

	return tx.Commit()
}

// LoadSchedule returns the persisted schedule snapshot, sorted by id.
func (s *Store) LoadSchedule() ([]engine.ScheduledActivity, error) {
	rows, err := s.db.Query(`SELECT activity_id, start_hour FROM schedule ORDER BY activity_id`)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	defer rows.Close()

	snapshot := []engine.ScheduledActivity{}
	for rows.Next() {
		var sa engine.ScheduledActivity
		if err := rows.Scan(&sa.ActivityID, &sa.StartHour); err != nil {
			return nil, fmt.Errorf("scanning placement: %w", err)
		}
		snapshot = append(snapshot, sa)
	}
	return snapshot, rows.Err()
}

// ClearSchedule removes all persisted placements.
func (s *Store) ClearSchedule() error {
	_, err := s.db.Exec(`DELETE FROM schedule`)
	return err
}

// TutorialSeen reports whether the tutorial has been dismissed. A missing
// row means it has not.
func (s *Store) TutorialSeen() (bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, tutorialSeenKey).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading tutorial flag: %w", err)
	}
	return value == "1", nil
}

// SetTutorialSeen writes the tutorial-seen flag.
func (s *Store) SetTutorialSeen(seen bool) error {
	value := "0"
	if seen {
		value = "1"
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
		tutorialSeenKey, value,
	)
	return err
}

// DayRecord is an archived completed day.
type DayRecord struct {
	ID          int64             `json:"id"`
	CompletedAt time.Time         `json:"completed_at"`
	Summary     engine.DaySummary `json:"summary"`
}

// SaveDaySummary archives a completed day.
func (s *Store) SaveDaySummary(summary engine.DaySummary) error {
	_, err := s.db.Exec(
		`INSERT INTO day_history
		 (completed_at, total_cost, peak_hours_used, grid_stress_max, comfort_score, neighborhood_impact, grade, grade_label)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), summary.TotalCost, summary.PeakHoursUsed, summary.GridStressMax,
		summary.ComfortScore, summary.NeighborhoodImpact, summary.Result.Grade, summary.Result.Label,
	)
	return err
}

// ListDaySummaries returns archived days, newest first, up to limit
// (unlimited when limit <= 0).
func (s *Store) ListDaySummaries(limit int) ([]DayRecord, error) {
	query := `SELECT id, completed_at, total_cost, peak_hours_used, grid_stress_max,
		comfort_score, neighborhood_impact, grade, grade_label
		FROM day_history ORDER BY completed_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing day history: %w", err)
	}
	defer rows.Close()

	records := []DayRecord{}
	for rows.Next() {
		var r DayRecord
		var completedAt string
		err := rows.Scan(&r.ID, &completedAt, &r.Summary.TotalCost, &r.Summary.PeakHoursUsed,
			&r.Summary.GridStressMax, &r.Summary.ComfortScore, &r.Summary.NeighborhoodImpact,
			&r.Summary.Result.Grade, &r.Summary.Result.Label)
		if err != nil {
			return nil, fmt.Errorf("scanning day record: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, completedAt); err == nil {
			r.CompletedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
