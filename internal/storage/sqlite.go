// Package storage persists finished game results in SQLite.
// It uses the pure-Go modernc.org/sqlite driver, so no CGO is required.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store wraps the score database.
type Store struct {
	db *sql.DB
}

// Result is one finished game. Only final results are stored, never
// in-progress game state.
type Result struct {
	ID         int64
	RunID      uuid.UUID
	GameID     string
	Player     string // Local user or SSH user; may be empty
	Difficulty string
	Score      int
	Lines      int
	Level      int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Open creates or opens the database at dbPath, expanding a leading ~ and
// creating parent directories, then applies the schema.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_game_id ON results(game_id);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(game_id, score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished game. A run ID is generated when r has none.
// Returns the run ID stored.
func (s *Store) SaveResult(r Result) (uuid.UUID, error) {
	if r.RunID == uuid.Nil {
		r.RunID = uuid.New()
	}
	if r.Level < 1 {
		r.Level = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO results (run_id, game_id, player, difficulty, score, lines, level, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID.String(), r.GameID, r.Player, r.Difficulty, r.Score, r.Lines, r.Level, r.Duration.Milliseconds(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: cannot save result: %w", err)
	}
	return r.RunID, nil
}

const resultColumns = `id, run_id, game_id, player, difficulty, score, lines, level, duration_ms, created_at`

// TopScores returns the best results for gameID, highest score first.
// Ties go to the earlier game. limit <= 0 means 10.
func (s *Store) TopScores(gameID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// ResultByRunID looks up one result. Returns nil without error if unknown.
func (s *Store) ResultByRunID(runID uuid.UUID) (*Result, error) {
	row := s.db.QueryRow(`SELECT `+resultColumns+` FROM results WHERE run_id = ?`, runID.String())
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// HighScore returns the best score for gameID, or 0 if none.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM results WHERE game_id = ?", gameID).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes every result for gameID.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM results WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats aggregates all results of one game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	BestLines  int
	BestLevel  int
	TotalLines int64
	LastPlayed time.Time
}

// GetGameStats returns aggregated statistics for gameID.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(MAX(lines), 0), COALESCE(MAX(level), 0), COALESCE(SUM(lines), 0),
		        MAX(created_at)
		 FROM results WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore,
		&stats.BestLines, &stats.BestLevel, &stats.TotalLines, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (Result, error) {
	var (
		r          Result
		runID      string
		durationMS int64
		createdAt  any
	)
	err := row.Scan(&r.ID, &runID, &r.GameID, &r.Player, &r.Difficulty,
		&r.Score, &r.Lines, &r.Level, &durationMS, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, err
	}
	if err != nil {
		return Result{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		return Result{}, fmt.Errorf("storage: bad run id %q: %w", runID, err)
	}
	r.RunID = id
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime accepts what the driver returns for DATETIME columns: either a
// time.Time or SQLite's text format.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
