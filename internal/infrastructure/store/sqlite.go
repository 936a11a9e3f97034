// Package store persists learning data (history, rejections, aliases,
// preferences) and rituals in a SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/pkg/filesystem"
	"github.com/seancedev/seance/internal/ports"
)

// SQLiteStore implements ports.LearningStore and ports.RitualStore.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// timeLayout is fixed-width so lexicographic ORDER BY matches time order.
const timeLayout = "2006-01-02 15:04:05.000000000"

// Open creates (or opens) the database at path, creating the parent
// directory and schema as needed.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single connection keeps WAL mode simple.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenDefault opens ~/.seance/history.db.
func OpenDefault() (*SQLiteStore, error) {
	return Open(filepath.Join(filesystem.UserHomeDir(), ".seance", "history.db"))
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS command_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_language TEXT NOT NULL,
			shell_command TEXT NOT NULL,
			working_directory TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			timestamp DATETIME NOT NULL,
			execution_time REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_natural_language ON command_history(natural_language)`,
		`CREATE INDEX IF NOT EXISTS idx_timestamp ON command_history(timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS aliases (
			name TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rituals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			description TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ritual_steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ritual_id INTEGER NOT NULL,
			sequence_order INTEGER NOT NULL,
			command TEXT NOT NULL,
			FOREIGN KEY(ritual_id) REFERENCES rituals(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rejected_commands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_language TEXT NOT NULL,
			shell_command TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveCommand inserts a history entry. Validation failures are reported
// before any I/O happens.
func (s *SQLiteStore) SaveCommand(nl, cmd string, exitCode int, execTime time.Duration, workingDir string) error {
	if isBlank(nl) {
		return errors.New("natural language cannot be empty")
	}
	if isBlank(cmd) {
		return errors.New("shell command cannot be empty")
	}
	if execTime < 0 {
		return errors.New("execution time cannot be negative")
	}
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO command_history
		(natural_language, shell_command, working_directory, exit_code, timestamp, execution_time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nl, cmd, workingDir, exitCode, time.Now().UTC().Format(timeLayout), execTime.Seconds())
	if err != nil {
		return &domain.StorageError{Op: "save command", Err: err}
	}
	return nil
}

// Suggestions returns past commands whose natural language contains nl,
// grouped by shell command, ordered by frequency then recency.
func (s *SQLiteStore) Suggestions(nl string, limit int) ([]domain.HistoryEntry, error) {
	if isBlank(nl) {
		return nil, errors.New("natural language cannot be empty")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	return s.queryEntries(`SELECT
			id, natural_language, shell_command, working_directory,
			exit_code, timestamp, execution_time,
			COUNT(*) AS frequency, MAX(timestamp) AS last_used
		FROM command_history
		WHERE natural_language LIKE ?
		GROUP BY shell_command
		ORDER BY frequency DESC, last_used DESC
		LIMIT ?`, true, "%"+nl+"%", limit)
}

// RecentCommands returns the newest entries first.
func (s *SQLiteStore) RecentCommands(limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	return s.queryEntries(`SELECT
			id, natural_language, shell_command, working_directory,
			exit_code, timestamp, execution_time
		FROM command_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, false, limit)
}

// DirectorySuggestions ranks commands previously run in workingDir.
func (s *SQLiteStore) DirectorySuggestions(workingDir string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	return s.queryEntries(`SELECT
			id, natural_language, shell_command, working_directory,
			exit_code, timestamp, execution_time,
			COUNT(*) AS frequency, MAX(timestamp) AS last_used
		FROM command_history
		WHERE working_directory = ?
		GROUP BY shell_command
		ORDER BY frequency DESC, last_used DESC
		LIMIT ?`, true, workingDir, limit)
}

func (s *SQLiteStore) queryEntries(query string, grouped bool, args ...interface{}) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "query history", Err: err}
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			ts        string
			execSecs  float64
			frequency int
			lastUsed  string
		)
		dest := []interface{}{&e.ID, &e.NaturalLanguage, &e.ShellCommand, &e.WorkingDirectory, &e.ExitCode, &ts, &execSecs}
		if grouped {
			dest = append(dest, &frequency, &lastUsed)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &domain.StorageError{Op: "scan history", Err: err}
		}
		if t, err := time.Parse(timeLayout, ts); err == nil {
			e.Timestamp = t
		}
		e.ExecutionTime = time.Duration(execSecs * float64(time.Second))
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate history", Err: err}
	}
	return entries, nil
}

// AddRejection records a rejected interpretation for a phrasing.
func (s *SQLiteStore) AddRejection(nl, cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO rejected_commands (natural_language, shell_command, timestamp)
		VALUES (?, ?, ?)`, nl, cmd, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return &domain.StorageError{Op: "add rejection", Err: err}
	}
	return nil
}

// Rejections returns rejected commands for similar phrasings, newest first.
func (s *SQLiteStore) Rejections(nl string, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT shell_command FROM rejected_commands
		WHERE natural_language LIKE ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, "%"+nl+"%", limit)
	if err != nil {
		return nil, &domain.StorageError{Op: "query rejections", Err: err}
	}
	defer rows.Close()

	var cmds []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return nil, &domain.StorageError{Op: "scan rejections", Err: err}
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

// ClearRejections deletes all rejections recorded for exactly nl.
func (s *SQLiteStore) ClearRejections(nl string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM rejected_commands WHERE natural_language = ?`, nl)
	if err != nil {
		return &domain.StorageError{Op: "clear rejections", Err: err}
	}
	return nil
}

// SetAlias creates or replaces an alias.
func (s *SQLiteStore) SetAlias(name, command string) error {
	if isBlank(name) || isBlank(command) {
		return errors.New("alias name and command are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO aliases (name, command, created_at) VALUES (?, ?, ?)`,
		name, command, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return &domain.StorageError{Op: "set alias", Err: err}
	}
	return nil
}

// Alias resolves a name; storage faults read as "not found".
func (s *SQLiteStore) Alias(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var command string
	err := s.db.QueryRow(`SELECT command FROM aliases WHERE name = ?`, name).Scan(&command)
	if err != nil {
		return "", false
	}
	return command, true
}

// RemoveAlias deletes an alias and reports whether a row existed.
func (s *SQLiteStore) RemoveAlias(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM aliases WHERE name = ?`, name)
	if err != nil {
		return false, &domain.StorageError{Op: "remove alias", Err: err}
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListAliases returns all aliases ordered by name.
func (s *SQLiteStore) ListAliases() ([]domain.Alias, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT name, command, created_at FROM aliases ORDER BY name`)
	if err != nil {
		return nil, &domain.StorageError{Op: "list aliases", Err: err}
	}
	defer rows.Close()

	var aliases []domain.Alias
	for rows.Next() {
		var (
			a  domain.Alias
			ts string
		)
		if err := rows.Scan(&a.Name, &a.Command, &ts); err != nil {
			return nil, &domain.StorageError{Op: "scan aliases", Err: err}
		}
		if t, err := time.Parse(timeLayout, ts); err == nil {
			a.CreatedAt = t
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

// SetPreference upserts a preference key.
func (s *SQLiteStore) SetPreference(key, value string) error {
	if isBlank(key) {
		return errors.New("preference key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO preferences (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return &domain.StorageError{Op: "set preference", Err: err}
	}
	return nil
}

// Preference reads a key; storage faults read as "not set".
func (s *SQLiteStore) Preference(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var value string
	if err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value); err != nil {
		return "", false
	}
	return value, true
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

var _ ports.LearningStore = (*SQLiteStore)(nil)
