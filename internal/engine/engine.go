// Package engine is the step pipeline: the one place that mutates a
// gridworld.World in response to a tick of agent actions. It owns no state
// of its own beyond the ai.Controller and a small event-subscriber
// registry — everything persistent lives on World or Team.
//
// Grounded on engine.Simulation.TickMinute/TickHour/TickDay/TickWeek's
// ordered-phase-methods shape (see DESIGN.md), collapsed from the
// teacher's multiple independent cadences into spec.md Section 4.1's
// single fixed 11-phase order.
package engine

import (
	"log/slog"
	"sync"

	"github.com/talgya/rts-sim/internal/ai"
	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/obscoder"
)

// Simulation wraps a World with the AI controller and behavior catalog
// driving AI-flagged teams, plus an optional event feed for external
// observers (replay recorders, demo UIs).
type Simulation struct {
	World      *gridworld.World
	Controller *ai.Controller
	Catalog    ai.Catalog
	Log        *slog.Logger

	eventSubMu sync.RWMutex
	eventSubs  map[int]chan Event
	nextSubID  int
}

// Event is one notable occurrence during a Step, published to subscribers
// at the moment it happens inside the step (spec.md Section 2's optional
// observer feed).
// Grounded on engine.Simulation.Subscribe/EmitEvent — same
// sync.RWMutex + buffered-channel-per-subscriber pattern, kept nearly
// verbatim (see DESIGN.md).
type Event struct {
	Step int
	Kind string
	Team int
	Pos  gridworld.Coord
}

// NewSimulation builds a Simulation over an already-initialized world
// (terrain/teams/entities populated by internal/mapgen before this is
// called).
func NewSimulation(w *gridworld.World, log *slog.Logger) *Simulation {
	if log == nil {
		log = slog.Default()
	}
	n := w.Config.Map.MapAgents()
	return &Simulation{
		World:      w,
		Controller: ai.NewController(n),
		Catalog:    ai.DefaultCatalog(),
		Log:        log,
		eventSubs:  make(map[int]chan Event),
	}
}

// Subscribe registers a buffered event channel and returns its id and
// channel; callers should Unsubscribe when done to avoid leaking the
// channel and its goroutine-free buffer.
func (s *Simulation) Subscribe() (int, chan Event) {
	s.eventSubMu.Lock()
	defer s.eventSubMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Event, 64)
	s.eventSubs[id] = ch
	return id, ch
}

// Unsubscribe removes and closes a subscriber channel.
func (s *Simulation) Unsubscribe(id int) {
	s.eventSubMu.Lock()
	defer s.eventSubMu.Unlock()
	if ch, ok := s.eventSubs[id]; ok {
		close(ch)
		delete(s.eventSubs, id)
	}
}

func (s *Simulation) emit(ev Event) {
	s.eventSubMu.RLock()
	defer s.eventSubMu.RUnlock()
	for _, ch := range s.eventSubs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber drops events rather than blocking the step.
		}
	}
}

// Step advances the world by one tick given one encoded action byte per
// agent slot, implementing spec.md Section 4.1's fixed 11-phase order.
// actions must be len(w.AgentEntity) long; callers pad dead/missing agent
// slots with gridworld.NoopAction's encoding (0).
func (s *Simulation) Step(actions []byte) (terminated, truncated, reward []float32) {
	w := s.World

	// Phase 1: clear per-tick caches.
	w.Grid.ClearDirty()
	s.Controller.BeginTick()
	for i := range w.Reward {
		w.Reward[i] = 0
	}

	// Phase 2: pre-compute per-team pop caps/counts, damaged-building lists.
	s.computePopulation()
	s.computeDamagedBuildings()

	// Phase 3: process AI-deferred commands (buffered from prior tick).
	s.processDeferredCommands()

	// Phase 4: shuffle persistent agent-order permutation.
	w.RNG.Shuffle(len(w.AgentOrder), func(i, j int) {
		w.AgentOrder[i], w.AgentOrder[j] = w.AgentOrder[j], w.AgentOrder[i]
	})

	// Phase 5: dispatch each agent's action in shuffled order.
	for _, agentID := range w.AgentOrder {
		s.dispatchAgent(agentID, actions)
	}

	// Phase 6: building autonomics.
	s.tickProduction()
	s.tickTowers()
	s.tickTownBell()
	s.tickMonasteryGold()
	s.tickMarketCooldowns()

	// Phase 7: wildlife AI.
	s.tickWildlife()

	// Phase 8: age and decay.
	s.tickDecay()

	// Phase 9: victory & termination check.
	s.checkVictory()

	// Phase 10: observation rebuild for dirty agents.
	obscoder.RebuildDirty(w)

	// Phase 11: increment currentStep.
	w.CurrentStep++

	if w.CurrentStep >= w.Config.MaxSteps {
		for i := range w.Truncated {
			if w.Terminated[i] == 0 {
				w.Truncated[i] = 1
			}
		}
	}

	return w.Terminated, w.Truncated, w.Reward
}

// computePopulation fills World.PopCaps/PopCounts from each team's house
// and Town Center count (spec.md Section 4.1 phase 2). A flat
// representative cap model: base cap plus per-house bonus, clamped to a
// hard ceiling matching the agent-slot allocation for the team.
func (s *Simulation) computePopulation() {
	w := s.World
	if w.PopCaps == nil {
		w.PopCaps = make(map[int]int)
	}
	if w.PopCounts == nil {
		w.PopCounts = make(map[int]int)
	}
	for t := range w.Teams {
		houses := 0
		for _, h := range w.ByTeam(t) {
			e := w.Entity(h)
			if e == nil || !e.Alive {
				continue
			}
			if e.Kind == gridworld.KindHouse || e.Kind == gridworld.KindTownCenter {
				houses++
			}
		}
		cap := baseCapPerTeam + houses*popPerHouse
		if cap > w.Config.Map.AgentsPerTeam {
			cap = w.Config.Map.AgentsPerTeam
		}
		w.PopCaps[t] = cap
		w.PopCounts[t] = w.AliveAgentCount(t)
	}
}

const (
	baseCapPerTeam = 4
	popPerHouse    = 2
)

// computeDamagedBuildings refreshes World.DamagedBuildings, the
// below-full-HP building handles per team. No other phase and no AI
// behavior reads the list.
func (s *Simulation) computeDamagedBuildings() {
	w := s.World
	if w.DamagedBuildings == nil {
		w.DamagedBuildings = make(map[int][]gridworld.Handle)
	}
	for t := range w.Teams {
		var damaged []gridworld.Handle
		for _, h := range w.ByTeam(t) {
			e := w.Entity(h)
			if e == nil || !e.Alive || !e.Kind.IsBuilding() {
				continue
			}
			if e.HP < e.MaxHP {
				damaged = append(damaged, h)
			}
		}
		w.DamagedBuildings[t] = damaged
	}
}
