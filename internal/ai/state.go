package ai

import "github.com/talgya/rts-sim/internal/gridworld"

// Role selects which tier of behaviors an agent's Decide call runs
// (spec.md Section 4.6).
type Role uint8

const (
	RoleGatherer Role = iota
	RoleBuilder
	RoleFighter
	RoleScripted
)

// SelectionMode controls how a Role's tier picks among its eligible
// behaviors (spec.md Section 4.6).
type SelectionMode uint8

const (
	SelectFixed SelectionMode = iota
	SelectShuffle
)

// CommandKind enumerates the user-issued commands a deferred-commands
// buffer can carry (spec.md Section 4.6).
type CommandKind uint8

const (
	CommandNone CommandKind = iota
	CommandAttackMove
	CommandPatrol
	CommandHold
	CommandFollow
	CommandGuard
	CommandScout
	CommandStop
	CommandStance
)

// Command is one deferred instruction, buffered from the prior tick and
// consumed atomically at phase 3 of the step pipeline (spec.md Section
// 4.1 phase 3).
type Command struct {
	Kind   CommandKind
	Target gridworld.Coord
	Stance gridworld.Stance
	Follow gridworld.Handle
}

// PatrolState tracks an agent's two-point patrol loop.
type PatrolState struct {
	PointA, PointB gridworld.Coord
	TowardB        bool
}

// AgentState is the per-agent bookkeeping the controller maintains
// outside World (spec.md Section 4.6 / Section 9 design notes: AI state
// isolated from the simulated World so multiple episodes never share
// mutable controller state).
type AgentState struct {
	Role              Role
	ActiveOptionID     int
	ActiveOptionTicks int

	BuildTarget  gridworld.EntityKind
	HasBuildTarget bool
	Patrol       PatrolState
	HasPatrol    bool

	ScoutActive        bool
	HoldPositionActive bool
	FollowActive       bool
	FollowTarget       gridworld.Handle
	GuardActive        bool
	GuardTarget        gridworld.Handle
	StoppedActive      bool

	Pending Command
	HasPending bool
}

// Controller holds every AI-controlled agent's state plus the
// generation-tagged caches spec.md Section 4.6 requires for O(1)
// per-tick invalidation.
type Controller struct {
	states []AgentState

	generation uint64

	closestWood  *PerAgentCacheWrapper[gridworld.Coord]
	closestGold  *PerAgentCacheWrapper[gridworld.Coord]
	closestFood  *PerAgentCacheWrapper[gridworld.Coord]
	closestEnemy *PerAgentCacheWrapper[gridworld.Handle]

	Lifecycle *AgentStateLifecycle
}

// NewController allocates a controller sized for n agent slots. The
// controller draws all randomness (Shuffle-mode behavior picks) from the
// *rand.Rand passed into Decide rather than owning a source of its own —
// spec.md Section 5 requires every RNG draw within a step, including the
// AI controller's, to come from the world's single seeded generator in a
// fixed sequence.
func NewController(n int) *Controller {
	return &Controller{
		states:       make([]AgentState, n),
		// Generation 0 is what every cache slot's entryGen starts at, so the
		// controller starts at 1 to keep never-computed slots stale.
		generation:   1,
		closestWood:  NewPerAgentCacheWrapper[gridworld.Coord](n),
		closestGold:  NewPerAgentCacheWrapper[gridworld.Coord](n),
		closestFood:  NewPerAgentCacheWrapper[gridworld.Coord](n),
		closestEnemy: NewPerAgentCacheWrapper[gridworld.Handle](n),
		Lifecycle:    NewAgentStateLifecycle(n),
	}
}

// BeginTick bumps the cache generation, invalidating every
// PerAgentCacheWrapper/PerTeamCacheWrapper entry in O(1) (spec.md Section
// 4.6).
func (c *Controller) BeginTick() {
	c.generation++
}

// State returns agent i's mutable state.
func (c *Controller) State(i int) *AgentState {
	return &c.states[i]
}

// QueueCommand buffers a user-issued command for agent i, consumed at the
// next tick's phase 3 (spec.md Section 4.1 phase 3).
func (c *Controller) QueueCommand(i int, cmd Command) {
	c.states[i].Pending = cmd
	c.states[i].HasPending = true
}

// TakeCommand returns and clears agent i's pending command, if any.
func (c *Controller) TakeCommand(i int) (Command, bool) {
	s := &c.states[i]
	if !s.HasPending {
		return Command{}, false
	}
	s.HasPending = false
	return s.Pending, true
}
