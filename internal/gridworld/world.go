package gridworld

import (
	"math/rand"

	"golang.org/x/exp/slices"

	"github.com/talgya/rts-sim/internal/teamstate"
)

// VictoryCondition selects which win conditions are active (spec.md
// Section 4.7).
type VictoryCondition uint8

const (
	VictoryNone VictoryCondition = iota
	VictoryConquest
	VictoryWonder
	VictoryRelic
	VictoryAll
)

// Difficulty selects the AI controller's per-team tuning (spec.md Section 6).
type Difficulty uint8

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyBrutal
)

// MapDimensions fixes the grid size and team/agent layout for an episode.
type MapDimensions struct {
	Width, Height  int
	TeamCount      int
	AgentsPerTeam  int
}

// MapAgents returns the total number of agent slots.
func (m MapDimensions) MapAgents() int {
	return m.TeamCount * m.AgentsPerTeam
}

// RewardConfig names the scalar rewards the step pipeline hands out.
type RewardConfig struct {
	VictoryReward float32
}

// WorldConfig is the plain struct passed to NewWorld, matching the
// teacher's GenConfig/SpawnConfig pattern (struct literal + a
// Default...Config constructor, no file/env parsing in core).
type WorldConfig struct {
	MaxSteps         int
	VictoryCondition VictoryCondition
	AIControlledTeams uint32 // bitmask, bit i set => team i is AI-controlled
	DifficultyPerTeam []Difficulty
	Rewards          RewardConfig
	Map              MapDimensions
}

// DefaultWorldConfig returns a small, reasonable configuration, matching
// the teacher's DefaultGenConfig/SmallTestConfig pattern.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		MaxSteps:         10000,
		VictoryCondition: VictoryAll,
		Map: MapDimensions{
			Width:         64,
			Height:        64,
			TeamCount:     2,
			AgentsPerTeam: 8,
		},
		Rewards: RewardConfig{VictoryReward: 1.0},
	}
}

// World is the single aggregate the step pipeline mutates. Its lifetime
// equals one episode (spec.md Section 3).
type World struct {
	Config WorldConfig
	Seed   int64
	RNG    *rand.Rand

	Grid *Grid

	// Entity arena: entities live at a stable index (Handle) for the
	// episode's lifetime, recycled via freeList on logical destruction.
	// See spec.md Section 9 (design notes: arena, not pointers, so the
	// world stays cheaply snapshottable).
	entities []Entity
	freeList []Handle

	// Spatial index: kind/team -> live handles, kept in sync with the grid.
	byKind map[EntityKind][]Handle
	byTeam map[int][]Handle

	Teams []*teamstate.Team

	// Per-agent parallel arrays (spec.md Section 3).
	AgentEntity  []Handle
	Terminated   []float32
	Truncated    []float32
	Reward       []float32
	Observations []*Observation
	ObsDirty     []bool

	// Deferred-commands / AI state live outside World (internal/ai), kept
	// separate so multiple worlds never share mutable controller state
	// (spec.md Section 9 design notes: isolate AI state in a struct passed
	// by reference, avoid module-level globals).

	CurrentStep int
	AgentOrder  []int // persistent shuffled permutation, reseeded each tick

	VictoryWinners uint32
	VictoryWinner  int // -1 if no winner yet
	ShouldReset    bool

	// Per-tick caches, invalidated at phase 1 (spec.md Section 4.1 phase 1/2).
	PopCaps          map[int]int
	PopCounts        map[int]int
	DamagedBuildings map[int][]Handle
}

// NewWorld allocates a fresh World from config and seed. The grid, terrain,
// elevation, and biome arrays are left to the injected initializer
// (internal/mapgen); NewWorld only allocates the aggregate and per-agent
// bookkeeping.
func NewWorld(cfg WorldConfig, seed int64) *World {
	n := cfg.Map.MapAgents()
	w := &World{
		Config:       cfg,
		Seed:         seed,
		RNG:          rand.New(rand.NewSource(seed)),
		Grid:         NewGrid(cfg.Map.Width, cfg.Map.Height),
		byKind:       make(map[EntityKind][]Handle),
		byTeam:       make(map[int][]Handle),
		AgentEntity:  make([]Handle, n),
		Terminated:   make([]float32, n),
		Truncated:    make([]float32, n),
		Reward:       make([]float32, n),
		Observations: make([]*Observation, n),
		ObsDirty:     make([]bool, n),
		AgentOrder:   make([]int, n),
		VictoryWinner: -1,
	}
	for i := range w.AgentEntity {
		w.AgentEntity[i] = NoHandle
	}
	for i := range w.AgentOrder {
		w.AgentOrder[i] = i
	}
	for i := range w.Observations {
		w.Observations[i] = NewObservation()
		w.ObsDirty[i] = true
	}
	w.Teams = make([]*teamstate.Team, cfg.Map.TeamCount)
	for t := range w.Teams {
		w.Teams[t] = teamstate.NewTeam(t)
	}
	return w
}

// Spawn allocates a new entity, recycling a free arena slot when available.
// Adds the handle to the spatial index and, for blocking kinds, to the
// grid.
func (w *World) Spawn(e Entity) Handle {
	var h Handle
	if n := len(w.freeList); n > 0 {
		h = w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		e.Handle = h
		w.entities[h] = e
	} else {
		h = Handle(len(w.entities))
		e.Handle = h
		w.entities = append(w.entities, e)
	}
	e.Alive = true
	w.entities[h] = e
	w.indexAdd(h)
	if !e.Pos.IsOff() {
		w.placeOnGrid(h)
	}
	return h
}

func (w *World) indexAdd(h Handle) {
	e := &w.entities[h]
	w.byKind[e.Kind] = append(w.byKind[e.Kind], h)
	w.byTeam[e.TeamID] = append(w.byTeam[e.TeamID], h)
}

func (w *World) indexRemove(h Handle) {
	e := &w.entities[h]
	w.byKind[e.Kind] = removeHandle(w.byKind[e.Kind], h)
	w.byTeam[e.TeamID] = removeHandle(w.byTeam[e.TeamID], h)
}

// removeHandle deletes h from the per-kind/per-team spatial index lists,
// preserving the remaining order (unlike a swap-to-last removal) so
// iteration order over a kind/team's surviving entities stays stable
// across a Destroy/TerminateAgent call.
func removeHandle(list []Handle, h Handle) []Handle {
	if i := slices.Index(list, h); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// placeOnGrid occupies the grid slot matching the entity's kind: building
// entities, agents, and resource nodes block (primary); corpses, relics,
// lanterns, and docks do not (background).
func (w *World) placeOnGrid(h Handle) {
	e := &w.entities[h]
	if e.Pos.IsOff() {
		return
	}
	if isBlockingKind(e.Kind) {
		w.Grid.SetPrimary(e.Pos, h)
	} else {
		w.Grid.SetBackground(e.Pos, h)
	}
}

func isBlockingKind(k EntityKind) bool {
	switch k {
	case KindCorpse, KindRelic, KindLantern, KindDock:
		return false
	default:
		return true
	}
}

// Entity returns a pointer to the entity at h, or nil for NoHandle / an
// out-of-range handle.
func (w *World) Entity(h Handle) *Entity {
	if h == NoHandle || int(h) < 0 || int(h) >= len(w.entities) {
		return nil
	}
	return &w.entities[h]
}

// EntityAt returns the blocking entity at c, or nil if the tile is empty
// or out of bounds.
func (w *World) EntityAt(c Coord) *Entity {
	return w.Entity(w.Grid.Primary(c))
}

// BackgroundAt returns the background entity at c, or nil.
func (w *World) BackgroundAt(c Coord) *Entity {
	return w.Entity(w.Grid.Background(c))
}

// ByKind returns the live handles of the given kind. The returned slice is
// owned by World; callers must not retain it across a Spawn/Destroy.
func (w *World) ByKind(k EntityKind) []Handle {
	return w.byKind[k]
}

// ByTeam returns the live handles belonging to the given team (buildings
// and non-agent entities; agents with a conversion override still index
// under their original TeamID until re-indexed by ReassignTeam).
func (w *World) ByTeam(team int) []Handle {
	return w.byTeam[team]
}

// MoveEntity relocates h from its current grid slot to dst, clearing the
// source and marking both tiles dirty.
func (w *World) MoveEntity(h Handle, dst Coord) {
	e := w.Entity(h)
	if e == nil {
		return
	}
	if !e.Pos.IsOff() {
		if isBlockingKind(e.Kind) {
			w.Grid.SetPrimary(e.Pos, NoHandle)
		} else {
			w.Grid.SetBackground(e.Pos, NoHandle)
		}
	}
	e.Pos = dst
	if !dst.IsOff() {
		w.placeOnGrid(h)
	}
}

// ReassignTeam moves h from its current team index to newTeam (used by
// monk conversion). The entity's TeamID is updated directly; callers
// converting an agent should instead set TeamIDOverride so EffectiveTeam
// reports the new team while TeamID keeps the entity's original-team index
// consistent until a double-conversion clears the override.
func (w *World) ReassignTeam(h Handle, newTeam int) {
	e := w.Entity(h)
	if e == nil {
		return
	}
	w.byTeam[e.TeamID] = removeHandle(w.byTeam[e.TeamID], h)
	e.TeamID = newTeam
	w.byTeam[newTeam] = append(w.byTeam[newTeam], h)
}

// Destroy logically removes h: clears its grid slot, drops it from the
// spatial index, and recycles its arena slot. Agents are not destroyed
// this way — they are terminated via TerminateAgent, which keeps the
// handle alive with Alive=false so AgentEntity lookups stay valid.
func (w *World) Destroy(h Handle) {
	e := w.Entity(h)
	if e == nil || !e.Alive {
		return
	}
	if !e.Pos.IsOff() {
		if isBlockingKind(e.Kind) {
			w.Grid.SetPrimary(e.Pos, NoHandle)
		} else {
			w.Grid.SetBackground(e.Pos, NoHandle)
		}
	}
	w.indexRemove(h)
	e.Alive = false
	e.Pos = Off
	w.freeList = append(w.freeList, h)
}

// TerminateAgent marks the agent's RL slot terminated and clears its grid
// presence, without recycling the arena slot (AgentEntity[i] keeps
// pointing at a dead-but-addressable entity, matching spec.md Section 3's
// "dead agent has pos=(-1,-1) and terminated[i]=1").
func (w *World) TerminateAgent(agentID int) {
	h := w.AgentEntity[agentID]
	e := w.Entity(h)
	if e == nil {
		return
	}
	if !e.Pos.IsOff() {
		w.Grid.SetPrimary(e.Pos, NoHandle)
	}
	w.indexRemove(h)
	e.Alive = false
	e.Pos = Off
	w.Terminated[agentID] = 1.0
	w.ObsDirty[agentID] = true
}

// AliveAgentCount returns the number of non-terminated agents on the given
// team, used by victory/conquest checks.
func (w *World) AliveAgentCount(team int) int {
	count := 0
	for i, h := range w.AgentEntity {
		if h == NoHandle {
			continue
		}
		e := w.Entity(h)
		if e == nil || !e.Alive {
			continue
		}
		if e.EffectiveTeam() != team {
			continue
		}
		if w.Terminated[i] != 0 {
			continue
		}
		count++
	}
	return count
}
