// Package replay provides SQLite-based episode/transition recording for
// the RL environment binary (ambient tooling: core gridworld.World/
// engine.Simulation never import this package). Adapted from the
// teacher's internal/persistence.DB: same sqlx.Open + migrate() schema
// idiom, same full-replace Save*/incremental Load* shape, retargeted
// from settlement/agent snapshots to per-step RL transitions.
package replay

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/rts-sim/internal/engine"
	"github.com/talgya/rts-sim/internal/gridworld"
)

// DB wraps a SQLite connection used to record episodes and their
// per-step transitions.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS episodes (
		run_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		started_step INTEGER NOT NULL,
		ended_step INTEGER,
		victory_winners INTEGER,
		victory_winner INTEGER
	);

	CREATE TABLE IF NOT EXISTS transitions (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		action INTEGER NOT NULL,
		reward REAL NOT NULL,
		terminated REAL NOT NULL,
		truncated REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS episode_events (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		kind TEXT NOT NULL,
		team INTEGER NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transitions_run ON transitions(run_id);
	CREATE INDEX IF NOT EXISTS idx_transitions_step ON transitions(run_id, step);
	CREATE INDEX IF NOT EXISTS idx_events_run ON episode_events(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginEpisode inserts a new episode row and returns its run ID,
// matching spec.md §6's "reset(world) reinitializes from the same
// (config, seed) — reproducible" contract: the run ID plus stored seed
// and config are enough to reconstruct the episode later.
func (db *DB) BeginEpisode(cfg gridworld.WorldConfig, seed int64, startedStep int) (string, error) {
	runID := uuid.NewString()
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT INTO episodes (run_id, seed, config_json, started_step) VALUES (?, ?, ?, ?)",
		runID, seed, string(cfgJSON), startedStep,
	)
	if err != nil {
		return "", fmt.Errorf("insert episode: %w", err)
	}
	return runID, nil
}

// EndEpisode stamps an episode's ending step and victory outcome.
func (db *DB) EndEpisode(runID string, endedStep int, winners uint32, winner int) error {
	_, err := db.conn.Exec(
		"UPDATE episodes SET ended_step = ?, victory_winners = ?, victory_winner = ? WHERE run_id = ?",
		endedStep, winners, winner, runID,
	)
	return err
}

// Transition is one agent's recorded step outcome.
type Transition struct {
	Step       int
	AgentID    int
	Action     byte
	Reward     float32
	Terminated float32
	Truncated  float32
}

// SaveTransitions appends a batch of per-agent step outcomes for one
// tick, matching the teacher's SaveEvents batch-insert-in-a-tx shape.
func (db *DB) SaveTransitions(runID string, transitions []Transition) error {
	if len(transitions) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO transitions
		(run_id, step, agent_id, action, reward, terminated, truncated)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range transitions {
		if _, err := stmt.Exec(runID, t.Step, t.AgentID, t.Action, t.Reward, t.Terminated, t.Truncated); err != nil {
			return fmt.Errorf("insert transition: %w", err)
		}
	}
	return tx.Commit()
}

// SaveEvents appends a batch of engine.Event occurrences tied to a run.
func (db *DB) SaveEvents(runID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO episode_events
		(run_id, step, kind, team, pos_x, pos_y) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(runID, e.Step, e.Kind, e.Team, e.Pos.X, e.Pos.Y); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// EpisodeRow summarizes one recorded episode.
type EpisodeRow struct {
	RunID          string `db:"run_id"`
	Seed           int64  `db:"seed"`
	ConfigJSON     string `db:"config_json"`
	StartedStep    int    `db:"started_step"`
	EndedStep      *int   `db:"ended_step"`
	VictoryWinners *uint32 `db:"victory_winners"`
	VictoryWinner  *int   `db:"victory_winner"`
}

// RecentEpisodes returns the most recently started episodes.
func (db *DB) RecentEpisodes(limit int) ([]EpisodeRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []EpisodeRow
	err := db.conn.Select(&rows,
		"SELECT * FROM episodes ORDER BY started_step DESC LIMIT ?", limit)
	return rows, err
}

// LoadTransitions reads every transition recorded for one episode, in
// step order, for offline training or analysis.
func (db *DB) LoadTransitions(runID string) ([]Transition, error) {
	type row struct {
		Step       int     `db:"step"`
		AgentID    int     `db:"agent_id"`
		Action     byte    `db:"action"`
		Reward     float32 `db:"reward"`
		Terminated float32 `db:"terminated"`
		Truncated  float32 `db:"truncated"`
	}
	var rows []row
	err := db.conn.Select(&rows,
		"SELECT step, agent_id, action, reward, terminated, truncated FROM transitions WHERE run_id = ? ORDER BY step", runID)
	if err != nil {
		return nil, fmt.Errorf("load transitions: %w", err)
	}
	result := make([]Transition, 0, len(rows))
	for _, r := range rows {
		result = append(result, Transition{
			Step: r.Step, AgentID: r.AgentID, Action: r.Action,
			Reward: r.Reward, Terminated: r.Terminated, Truncated: r.Truncated,
		})
	}
	return result, nil
}
