package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed unpack history
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a new Store, opening the SQLite database and running migrations
func New(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// ":memory:" databases are per-connection.
	db.SetMaxOpenConns(1)

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Store initialized successfully", "path", dbPath)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// ============================================================================
// UnpackRun Operations
// ============================================================================

const unpackRunColumns = `
	id, archive_path, archive_sha256, project_dir, start_class, descriptor_rule,
	descriptor_entry, libraries, classes, quarantined, resources, bytes_written,
	decompiler, status, error_message, start_time, end_time
`

// CreateUnpackRun inserts a new UnpackRun and sets its ID
func (s *Store) CreateUnpackRun(run *UnpackRun) error {
	const query = `
		INSERT INTO unpack_runs (
			archive_path, archive_sha256, project_dir, start_class, descriptor_rule,
			descriptor_entry, libraries, classes, quarantined, resources, bytes_written,
			decompiler, status, error_message, start_time, end_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(
		query,
		run.ArchivePath, run.ArchiveSHA256, run.ProjectDir, run.StartClass, run.DescriptorRule,
		run.DescriptorEntry, run.Libraries, run.Classes, run.Quarantined, run.Resources,
		run.BytesWritten, run.Decompiler, run.Status, run.ErrorMessage, run.StartTime, run.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert unpack run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return nil
}

// UpdateUnpackRun updates an existing UnpackRun by ID
func (s *Store) UpdateUnpackRun(run *UnpackRun) error {
	const query = `
		UPDATE unpack_runs SET
			archive_path = ?, archive_sha256 = ?, project_dir = ?, start_class = ?,
			descriptor_rule = ?, descriptor_entry = ?, libraries = ?, classes = ?,
			quarantined = ?, resources = ?, bytes_written = ?, decompiler = ?,
			status = ?, error_message = ?, start_time = ?, end_time = ?
		WHERE id = ?
	`

	result, err := s.db.Exec(
		query,
		run.ArchivePath, run.ArchiveSHA256, run.ProjectDir, run.StartClass,
		run.DescriptorRule, run.DescriptorEntry, run.Libraries, run.Classes,
		run.Quarantined, run.Resources, run.BytesWritten, run.Decompiler,
		run.Status, run.ErrorMessage, run.StartTime, run.EndTime, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update unpack run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("unpack run not found: %d", run.ID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnpackRun(row rowScanner) (*UnpackRun, error) {
	run := &UnpackRun{}
	err := row.Scan(
		&run.ID, &run.ArchivePath, &run.ArchiveSHA256, &run.ProjectDir, &run.StartClass,
		&run.DescriptorRule, &run.DescriptorEntry, &run.Libraries, &run.Classes,
		&run.Quarantined, &run.Resources, &run.BytesWritten, &run.Decompiler,
		&run.Status, &run.ErrorMessage, &run.StartTime, &run.EndTime,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetUnpackRun retrieves an UnpackRun by ID
func (s *Store) GetUnpackRun(id int64) (*UnpackRun, error) {
	query := "SELECT " + unpackRunColumns + " FROM unpack_runs WHERE id = ?"

	run, err := scanUnpackRun(s.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("unpack run not found: %d", id)
		}
		return nil, fmt.Errorf("failed to query unpack run: %w", err)
	}

	return run, nil
}

// ListUnpackRuns retrieves UnpackRuns, newest first, optionally filtered by
// archive path
func (s *Store) ListUnpackRuns(archivePath string, limit int) ([]UnpackRun, error) {
	query := "SELECT " + unpackRunColumns + " FROM unpack_runs"
	var args []interface{}

	if archivePath != "" {
		query += " WHERE archive_path = ?"
		args = append(args, archivePath)
	}

	query += " ORDER BY start_time DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unpack runs: %w", err)
	}
	defer rows.Close()

	var runs []UnpackRun
	for rows.Next() {
		run, err := scanUnpackRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unpack run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unpack runs: %w", err)
	}

	return runs, nil
}

// ============================================================================
// DescriptorCandidate Operations
// ============================================================================

// AddCandidates records the descriptor candidates of a run in one transaction
func (s *Store) AddCandidates(runID int64, entries []string, selected string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = "INSERT INTO descriptor_candidates (run_id, entry, selected) VALUES (?, ?, ?)"
	for _, entry := range entries {
		if _, err := tx.Exec(query, runID, entry, entry == selected); err != nil {
			return fmt.Errorf("failed to insert descriptor candidate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit descriptor candidates: %w", err)
	}
	return nil
}

// ListCandidates retrieves the descriptor candidates of a run in insertion order
func (s *Store) ListCandidates(runID int64) ([]DescriptorCandidate, error) {
	const query = `
		SELECT id, run_id, entry, selected
		FROM descriptor_candidates WHERE run_id = ? ORDER BY id
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query descriptor candidates: %w", err)
	}
	defer rows.Close()

	var candidates []DescriptorCandidate
	for rows.Next() {
		c := DescriptorCandidate{}
		if err := rows.Scan(&c.ID, &c.RunID, &c.Entry, &c.Selected); err != nil {
			return nil, fmt.Errorf("failed to scan descriptor candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating descriptor candidates: %w", err)
	}

	return candidates, nil
}
