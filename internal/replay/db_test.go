package replay

import (
	"path/filepath"
	"testing"

	"github.com/talgya/rts-sim/internal/engine"
	"github.com/talgya/rts-sim/internal/gridworld"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "replay.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBeginAndEndEpisodeRoundTrips(t *testing.T) {
	db := openTestDB(t)
	cfg := gridworld.DefaultWorldConfig()

	runID, err := db.BeginEpisode(cfg, 42, 0)
	if err != nil {
		t.Fatalf("BeginEpisode() error = %v", err)
	}
	if runID == "" {
		t.Fatal("BeginEpisode() returned an empty run ID")
	}

	if err := db.EndEpisode(runID, 100, 0b11, 1); err != nil {
		t.Fatalf("EndEpisode() error = %v", err)
	}

	rows, err := db.RecentEpisodes(10)
	if err != nil {
		t.Fatalf("RecentEpisodes() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("RecentEpisodes() returned %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.RunID != runID || row.Seed != 42 {
		t.Errorf("row = %+v, want RunID=%s Seed=42", row, runID)
	}
	if row.EndedStep == nil || *row.EndedStep != 100 {
		t.Error("EndedStep should be set to 100 after EndEpisode")
	}
	if row.VictoryWinner == nil || *row.VictoryWinner != 1 {
		t.Error("VictoryWinner should be set to 1 after EndEpisode")
	}
}

func TestSaveAndLoadTransitionsPreserveStepOrder(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.BeginEpisode(gridworld.DefaultWorldConfig(), 1, 0)
	if err != nil {
		t.Fatalf("BeginEpisode() error = %v", err)
	}

	batch := []Transition{
		{Step: 2, AgentID: 0, Action: 1, Reward: 0.5, Terminated: 0, Truncated: 0},
		{Step: 1, AgentID: 0, Action: 2, Reward: 0, Terminated: 0, Truncated: 0},
	}
	if err := db.SaveTransitions(runID, batch); err != nil {
		t.Fatalf("SaveTransitions() error = %v", err)
	}

	loaded, err := db.LoadTransitions(runID)
	if err != nil {
		t.Fatalf("LoadTransitions() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadTransitions() returned %d rows, want 2", len(loaded))
	}
	if loaded[0].Step != 1 || loaded[1].Step != 2 {
		t.Errorf("transitions not returned in step order: %+v", loaded)
	}
	if loaded[1].Reward != 0.5 {
		t.Errorf("loaded reward = %v, want 0.5", loaded[1].Reward)
	}
}

func TestSaveTransitionsEmptyBatchIsNoop(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.BeginEpisode(gridworld.DefaultWorldConfig(), 1, 0)
	if err != nil {
		t.Fatalf("BeginEpisode() error = %v", err)
	}

	if err := db.SaveTransitions(runID, nil); err != nil {
		t.Fatalf("SaveTransitions(nil) error = %v", err)
	}

	loaded, err := db.LoadTransitions(runID)
	if err != nil {
		t.Fatalf("LoadTransitions() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("LoadTransitions() = %d rows, want 0 for an empty save batch", len(loaded))
	}
}

func TestSaveEventsInsertsOneRowPerEvent(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.BeginEpisode(gridworld.DefaultWorldConfig(), 1, 0)
	if err != nil {
		t.Fatalf("BeginEpisode() error = %v", err)
	}

	events := []engine.Event{
		{Step: 1, Kind: "combat", Team: 0, Pos: gridworld.Coord{X: 3, Y: 4}},
		{Step: 2, Kind: "build", Team: 1, Pos: gridworld.Coord{X: 5, Y: 6}},
	}
	if err := db.SaveEvents(runID, events); err != nil {
		t.Fatalf("SaveEvents() error = %v", err)
	}

	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM episode_events WHERE run_id = ?", runID); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 2 {
		t.Errorf("episode_events row count = %d, want 2", count)
	}
}

func TestRecentEpisodesOrdersByStartedStepDescending(t *testing.T) {
	db := openTestDB(t)
	first, err := db.BeginEpisode(gridworld.DefaultWorldConfig(), 1, 10)
	if err != nil {
		t.Fatalf("BeginEpisode() error = %v", err)
	}
	second, err := db.BeginEpisode(gridworld.DefaultWorldConfig(), 2, 20)
	if err != nil {
		t.Fatalf("BeginEpisode() error = %v", err)
	}

	rows, err := db.RecentEpisodes(10)
	if err != nil {
		t.Fatalf("RecentEpisodes() error = %v", err)
	}
	if len(rows) != 2 || rows[0].RunID != second || rows[1].RunID != first {
		t.Errorf("expected the most recently started episode (%s) first, got %+v", second, rows)
	}
}
