// Package history persists reorganization run results to a per-vault
// sqlite database, for the `last` command.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/flyswxf/obsidian-ai-organizer/internal/reorg"
	"github.com/flyswxf/obsidian-ai-organizer/internal/sqlutil"
	"github.com/flyswxf/obsidian-ai-organizer/internal/vault"
)

// ErrNoRuns indicates the vault has no recorded runs yet.
var ErrNoRuns = errors.New("no recorded runs")

// Run is one recorded reorganization run.
type Run struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	DryRun     bool      `json:"dry_run"`
	BackupPath string    `json:"backup_path,omitempty"`
	Moved      int       `json:"moved"`
	Compliant  int       `json:"compliant"`
	Failed     int       `json:"failed"`
	Entries    []Entry   `json:"entries"`
}

// Entry is one reference outcome within a run.
type Entry struct {
	Document  string `json:"document"`
	OldPath   string `json:"old_path"`
	NewPath   string `json:"new_path,omitempty"`
	Compliant bool   `json:"compliant,omitempty"`
	Suffixed  bool   `json:"suffixed,omitempty"`
	Retries   int    `json:"retries,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database under the vault state directory.
func Open(vaultPath string) (*Store, error) {
	dbDir := filepath.Join(vaultPath, vault.StateDir)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", vault.StateDir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dbDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			dry_run INTEGER NOT NULL DEFAULT 0,
			backup_path TEXT NOT NULL DEFAULT '',
			moved INTEGER NOT NULL DEFAULT 0,
			compliant INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS run_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			document TEXT NOT NULL,
			old_path TEXT NOT NULL,
			new_path TEXT NOT NULL DEFAULT '',
			compliant INTEGER NOT NULL DEFAULT 0,
			suffixed INTEGER NOT NULL DEFAULT 0,
			retries INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_run_entries_run ON run_entries(run_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// Record stores a run result and returns the run id.
func (s *Store) Record(res *reorg.Result) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.Exec(
		`INSERT INTO runs (started_at, dry_run, backup_path, moved, compliant, failed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), boolInt(res.DryRun), res.BackupPath,
		res.Moved(), res.Compliant(), res.Failed(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO run_entries (run_id, document, old_path, new_path, compliant, suffixed, retries, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, e := range res.Entries {
		errText := ""
		if e.Err != nil {
			errText = e.Err.Error()
		}
		if _, err := stmt.Exec(runID, e.Document, e.OldPath, e.NewPath,
			boolInt(e.AlreadyCompliant), boolInt(e.Suffixed), e.Retries, errText); err != nil {
			return 0, fmt.Errorf("failed to insert run entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// Last returns the most recent run with its entries.
func (s *Store) Last() (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, dry_run, backup_path, moved, compliant, failed
		 FROM runs ORDER BY id DESC LIMIT 1`)

	var run Run
	var started string
	var dryRun int
	if err := row.Scan(&run.ID, &started, &dryRun, &run.BackupPath, &run.Moved, &run.Compliant, &run.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRuns
		}
		return nil, fmt.Errorf("failed to read last run: %w", err)
	}
	run.DryRun = dryRun != 0
	if t, err := time.Parse(time.RFC3339, started); err == nil {
		run.StartedAt = t
	}

	rows, err := s.db.Query(
		`SELECT document, old_path, new_path, compliant, suffixed, retries, error
		 FROM run_entries WHERE run_id = ? ORDER BY id`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read run entries: %w", err)
	}

	run.Entries, err = sqlutil.ScanRows(rows, func(rows *sql.Rows) (Entry, error) {
		var e Entry
		var compliant, suffixed int
		err := rows.Scan(&e.Document, &e.OldPath, &e.NewPath, &compliant, &suffixed, &e.Retries, &e.Error)
		e.Compliant = compliant != 0
		e.Suffixed = suffixed != 0
		return e, err
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
