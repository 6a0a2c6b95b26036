// Package store provides SQLite-backed archival of completed simulation
// runs. The engine never touches the store; callers hand it a config/result
// pair after a run finishes and read archived runs back for display.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/dilemma-lab/internal/engine"
)

// Run is one archived simulation: the config snapshot and full result JSON
// plus the summary columns the history view lists without unmarshaling
// anything.
type Run struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Dilemma     string    `db:"dilemma_type" json:"dilemma_type"`
	ConfigJSON  string    `db:"config_json" json:"config_json"`
	ResultJSON  string    `db:"result_json" json:"result_json"`
	TotalRounds int       `db:"total_rounds" json:"total_rounds"`
	NumAgents   int       `db:"num_agents" json:"num_agents"`
	Seed        int64     `db:"seed" json:"seed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DB wraps a SQLite connection for run archival.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the archive at the given path. Use ":memory:" for an
// ephemeral archive.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT 'Unnamed Simulation',
		dilemma_type TEXT NOT NULL,
		config_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		total_rounds INTEGER NOT NULL,
		num_agents INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_dilemma ON simulation_runs(dilemma_type);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON simulation_runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun archives a completed run and returns its generated ID.
func (db *DB) SaveRun(cfg engine.Config, res *engine.Result) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Unnamed Simulation"
	}

	run := Run{
		ID:          uuid.NewString(),
		Name:        name,
		Dilemma:     string(cfg.Dilemma),
		ConfigJSON:  string(cfgJSON),
		ResultJSON:  string(resJSON),
		TotalRounds: len(res.Rounds),
		NumAgents:   cfg.AgentCount(),
		Seed:        cfg.Seed,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = db.conn.NamedExec(`INSERT INTO simulation_runs
		(id, name, dilemma_type, config_json, result_json, total_rounds, num_agents, seed, created_at)
		VALUES (:id, :name, :dilemma_type, :config_json, :result_json, :total_rounds, :num_agents, :seed, :created_at)`,
		run)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first, without their result
// payloads.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []Run
	err := db.conn.Select(&runs, `SELECT id, name, dilemma_type, '' AS config_json, '' AS result_json,
		total_rounds, num_agents, seed, created_at
		FROM simulation_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches one archived run by ID, including its payloads. Returns
// sql.ErrNoRows if the ID is unknown.
func (db *DB) GetRun(id string) (*Run, error) {
	var run Run
	err := db.conn.Get(&run, `SELECT * FROM simulation_runs WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// Result unmarshals the archived result payload.
func (r *Run) Result() (*engine.Result, error) {
	var res engine.Result
	if err := json.Unmarshal([]byte(r.ResultJSON), &res); err != nil {
		return nil, fmt.Errorf("unmarshal result for run %s: %w", r.ID, err)
	}
	return &res, nil
}
