// Command envserver runs a standalone episode of the RTS environment:
// generate a world from a seed, step it with every agent AI-controlled,
// and log progress until victory or max-steps truncation. It exists to
// demonstrate the engine end to end; an RL trainer would instead embed
// gridworld/engine directly and supply its own policy's action bytes.
//
// Grounded on the teacher's cmd/worldsim/main.go setup-then-loop
// structure (open DB, generate world, build the simulation, run until
// stopped, save on shutdown), retargeted from an always-on settlement
// sim to a fixed-length, replayable episode.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/rts-sim/internal/engine"
	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/mapgen"
	"github.com/talgya/rts-sim/internal/replay"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	seed := int64(42)
	dbPath := "data/episodes.db"

	os.MkdirAll("data", 0755)
	db, err := replay.Open(dbPath)
	if err != nil {
		slog.Error("failed to open replay database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("replay database opened", "path", dbPath)

	worldCfg := gridworld.DefaultWorldConfig()
	worldCfg.AIControlledTeams = ^uint32(0) // every team scripted, for a self-playing demo episode

	genCfg := mapgen.DefaultGenConfig()

	slog.Info("generating world", "seed", seed, "width", worldCfg.Map.Width, "height", worldCfg.Map.Height,
		"teams", worldCfg.Map.TeamCount, "agents_per_team", worldCfg.Map.AgentsPerTeam)
	w := mapgen.Generate(worldCfg, genCfg, seed)

	sim := engine.NewSimulation(w, logger)

	runID, err := db.BeginEpisode(worldCfg, seed, w.CurrentStep)
	if err != nil {
		slog.Error("failed to begin episode", "error", err)
		os.Exit(1)
	}
	slog.Info("episode started", "run_id", runID)

	subID, events := sim.Subscribe()
	defer sim.Unsubscribe(subID)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopped := false
	go func() {
		<-stop
		slog.Info("received signal, finishing current step then stopping")
		stopped = true
	}()

	actions := make([]byte, len(w.AgentEntity))
	started := time.Now()

	for !w.ShouldReset && w.CurrentStep < worldCfg.MaxSteps && !stopped {
		for i := range actions {
			actions[i] = gridworld.Encode(gridworld.NoopAction)
		}

		terminated, truncated, reward := sim.Step(actions)

		transitions := make([]replay.Transition, 0, len(actions))
		for i, a := range actions {
			if terminated[i] == 0 && truncated[i] == 0 && reward[i] == 0 {
				continue
			}
			transitions = append(transitions, replay.Transition{
				Step: w.CurrentStep, AgentID: i, Action: a,
				Reward: reward[i], Terminated: terminated[i], Truncated: truncated[i],
			})
		}
		if err := db.SaveTransitions(runID, transitions); err != nil {
			slog.Warn("failed to save transitions", "error", err)
		}

		drainPendingEvents(db, runID, events)

		if w.CurrentStep%500 == 0 {
			slog.Info("tick", "step", humanize.Comma(int64(w.CurrentStep)),
				"elapsed", time.Since(started).Round(time.Second))
		}
	}

	drainPendingEvents(db, runID, events)

	if err := db.EndEpisode(runID, w.CurrentStep, w.VictoryWinners, w.VictoryWinner); err != nil {
		slog.Error("failed to close out episode", "error", err)
	}

	slog.Info("episode finished",
		"steps", humanize.Comma(int64(w.CurrentStep)),
		"victory_winner", w.VictoryWinner,
		"victory_winners", w.VictoryWinners,
		"duration", time.Since(started).Round(time.Second))
}

// drainPendingEvents flushes whatever Simulation.Event values are
// currently buffered on the subscriber channel without blocking, so the
// main loop never waits on a slow/absent consumer.
func drainPendingEvents(db *replay.DB, runID string, events chan engine.Event) {
	var batch []engine.Event
	for {
		select {
		case ev := <-events:
			batch = append(batch, ev)
		default:
			if len(batch) > 0 {
				if err := db.SaveEvents(runID, batch); err != nil {
					slog.Warn("failed to save events", "error", err)
				}
			}
			return
		}
	}
}
