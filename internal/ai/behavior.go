package ai

import (
	"math/rand"

	"github.com/talgya/rts-sim/internal/gridworld"
)

// Behavior is an atomic action proposer: given the world and an agent, it
// either proposes an action (ok=true) or declines (ok=false), letting the
// role's tier fall through to the next option (spec.md Section 4.6).
type Behavior func(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool)

// Tier is one ordered stage of a Role: a set of behaviors selected either
// by Fixed (first eligible wins) or Shuffle (weighted pick among
// eligible).
type Tier struct {
	Mode       SelectionMode
	Behaviors  []Behavior
}

// Catalog maps each Role to its ordered tiers. Declared as a function
// (not a package var) so test code can build isolated catalogs; the
// production Catalog is DefaultCatalog.
type Catalog map[Role][]Tier

// DefaultCatalog is the stratified option-selection tree spec.md Section
// 4.6 describes: Gatherer prefers gathering over returning over moving to
// a resource; Builder prefers building over moving to a build site;
// Fighter prefers attacking over chasing; Scripted falls through to
// whatever command is queued, or idles.
func DefaultCatalog() Catalog {
	return Catalog{
		RoleGatherer: {
			{Mode: SelectFixed, Behaviors: []Behavior{behaviorGather, behaviorDropoff, behaviorMoveToResource}},
		},
		RoleBuilder: {
			{Mode: SelectFixed, Behaviors: []Behavior{behaviorBuild, behaviorMoveToBuildSite}},
		},
		RoleFighter: {
			{Mode: SelectFixed, Behaviors: []Behavior{behaviorAttackAdjacent, behaviorChaseEnemy}},
		},
		RoleScripted: {
			{Mode: SelectFixed, Behaviors: []Behavior{behaviorObeyCommand}},
		},
	}
}

// Decide runs the Catalog's dispatch tree for agentID and returns the
// chosen action, falling back to Noop when nothing is eligible (spec.md
// Section 4.6 step 3).
func Decide(w *gridworld.World, c *Controller, cat Catalog, agentID int, rng *rand.Rand) gridworld.Action {
	state := c.State(agentID)

	if cmd, ok := c.TakeCommand(agentID); ok {
		state.Pending = cmd
		state.HasPending = true
		if a, ok := behaviorObeyCommand(w, c, agentID, rng); ok {
			return a
		}
	}

	for _, tier := range cat[state.Role] {
		if a, ok := runTier(w, c, tier, agentID, rng); ok {
			return a
		}
	}
	return gridworld.NoopAction
}

func runTier(w *gridworld.World, c *Controller, t Tier, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	switch t.Mode {
	case SelectFixed:
		for _, b := range t.Behaviors {
			if a, ok := b(w, c, agentID, rng); ok {
				return a, true
			}
		}
		return gridworld.Action{}, false
	case SelectShuffle:
		eligible := make([]Behavior, 0, len(t.Behaviors))
		fitness := make([]float64, 0, len(t.Behaviors))
		for _, b := range t.Behaviors {
			if a, ok := b(w, c, agentID, rng); ok {
				_ = a
				eligible = append(eligible, b)
				fitness = append(fitness, 1.0)
			}
		}
		if len(eligible) == 0 {
			return gridworld.Action{}, false
		}
		pick := WeightedPick(rng, fitness)
		return eligible[pick](w, c, agentID, rng)
	default:
		return gridworld.Action{}, false
	}
}
