package ai

import (
	"math/rand"

	"github.com/talgya/rts-sim/internal/gridworld"
)

// villagerBaseCarryCap is the threshold the AI uses to decide "full, head
// to dropoff" vs. "keep gathering" (spec.md Section 4.4: true carry
// capacity = BaseCap + tech bonuses; the controller uses a conservative
// fixed base since per-team tech bonuses are resolved by the engine, not
// cached here).
const villagerBaseCarryCap = 10

func agentEntity(w *gridworld.World, agentID int) *gridworld.Entity {
	h := w.AgentEntity[agentID]
	return w.Entity(h)
}

// stepToward returns the cardinal Move action that most reduces Manhattan
// distance from from to to, preferring the axis with the larger delta
// (matches the teacher's "move toward target" idiom generalized from hex
// to square coordinates).
func stepToward(from, to gridworld.Coord) gridworld.Action {
	dx, dy := to.X-from.X, to.Y-from.Y
	var o gridworld.Orientation
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			o = gridworld.East
		} else {
			o = gridworld.West
		}
	} else {
		if dy > 0 {
			o = gridworld.South
		} else {
			o = gridworld.North
		}
	}
	return gridworld.Action{Verb: gridworld.VerbMove, Arg: uint8(o)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func orientationToward(from, to gridworld.Coord) gridworld.Orientation {
	dx, dy := to.X-from.X, to.Y-from.Y
	switch {
	case dx == 0 && dy < 0:
		return gridworld.North
	case dx == 0 && dy > 0:
		return gridworld.South
	case dx < 0 && dy == 0:
		return gridworld.West
	case dx > 0 && dy == 0:
		return gridworld.East
	case dx < 0 && dy < 0:
		return gridworld.Northwest
	case dx > 0 && dy < 0:
		return gridworld.Northeast
	case dx < 0 && dy > 0:
		return gridworld.Southwest
	default:
		return gridworld.Southeast
	}
}

// closestOfKind scans the live handles of kind, returning the nearest
// (by Manhattan distance) to pos. Full-map omniscient search is a
// deliberate AI-controller simplification (the scripted controller is not
// subject to the observation window).
func closestOfKind(w *gridworld.World, pos gridworld.Coord, kind gridworld.EntityKind) (gridworld.Handle, bool) {
	best := gridworld.NoHandle
	bestDist := -1
	for _, h := range w.ByKind(kind) {
		e := w.Entity(h)
		if e == nil || !e.Alive {
			continue
		}
		d := gridworld.ManhattanDist(pos, e.Pos)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = h
		}
	}
	return best, best != gridworld.NoHandle
}

func closestEnemy(w *gridworld.World, team int, pos gridworld.Coord) (gridworld.Handle, bool) {
	best := gridworld.NoHandle
	bestDist := -1
	for t, tm := range w.Teams {
		if t == team || tm.Allied(team) {
			continue
		}
		for _, h := range w.ByTeam(t) {
			e := w.Entity(h)
			if e == nil || !e.Alive || e.Pos.IsOff() {
				continue
			}
			d := gridworld.ManhattanDist(pos, e.Pos)
			if bestDist == -1 || d < bestDist {
				bestDist = d
				best = h
			}
		}
	}
	return best, best != gridworld.NoHandle
}

// behaviorGather proposes a Use action when the agent stands adjacent to
// or on a resource node with room left in its carry capacity.
func behaviorGather(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	e := agentEntity(w, agentID)
	if e == nil || !e.Alive || e.Inventory.Total() >= villagerBaseCarryCap {
		return gridworld.Action{}, false
	}
	for _, n := range gridworld.EightNeighbors(e.Pos) {
		target := w.EntityAt(n)
		if target != nil && target.Kind.IsResourceNode() && target.Inventory.Total() > 0 {
			return gridworld.Action{Verb: gridworld.VerbUse, Arg: uint8(orientationToward(e.Pos, n))}, true
		}
	}
	return gridworld.Action{}, false
}

// behaviorDropoff proposes a Use action on an adjacent dropoff building
// once the agent's inventory is full.
func behaviorDropoff(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	e := agentEntity(w, agentID)
	if e == nil || !e.Alive || e.Inventory.Total() < villagerBaseCarryCap {
		return gridworld.Action{}, false
	}
	for _, n := range gridworld.EightNeighbors(e.Pos) {
		target := w.EntityAt(n)
		if target == nil || target.EffectiveTeam() != e.EffectiveTeam() {
			continue
		}
		switch target.Kind {
		case gridworld.KindTownCenter, gridworld.KindLumberCamp, gridworld.KindMiningCamp, gridworld.KindMill:
			return gridworld.Action{Verb: gridworld.VerbUse, Arg: uint8(orientationToward(e.Pos, n))}, true
		}
	}
	return gridworld.Action{}, false
}

// behaviorMoveToResource proposes a Move toward the nearest uncarried
// resource node, cached per agent per tick.
func behaviorMoveToResource(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	e := agentEntity(w, agentID)
	if e == nil || !e.Alive {
		return gridworld.Action{}, false
	}
	kind := gridworld.KindTree
	cache := c.closestWood
	switch agentID % 3 {
	case 1:
		kind, cache = gridworld.KindGold, c.closestGold
	case 2:
		kind, cache = gridworld.KindWheat, c.closestFood
	}
	pos := cache.Get(agentID, c.generation, func() gridworld.Coord {
		target, found := closestOfKind(w, e.Pos, kind)
		if !found {
			return gridworld.Off
		}
		return w.Entity(target).Pos
	})
	if pos.IsOff() {
		return gridworld.Action{}, false
	}
	return stepToward(e.Pos, pos), true
}

// behaviorBuild proposes a Build action whenever the agent has a build
// target set. It does not check the agent's position; finding a free
// adjacent tile is left to the engine's placement search.
func behaviorBuild(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	state := c.State(agentID)
	if !state.HasBuildTarget {
		return gridworld.Action{}, false
	}
	e := agentEntity(w, agentID)
	if e == nil || !e.Alive {
		return gridworld.Action{}, false
	}
	return gridworld.Action{Verb: gridworld.VerbBuild, Arg: uint8(gridworld.North)}, true
}

// behaviorMoveToBuildSite proposes a Move toward the agent's team Town
// Center as a stand-in staging point while a build target is pending.
func behaviorMoveToBuildSite(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	state := c.State(agentID)
	if !state.HasBuildTarget {
		return gridworld.Action{}, false
	}
	e := agentEntity(w, agentID)
	if e == nil || !e.Alive {
		return gridworld.Action{}, false
	}
	tc, ok := closestOfKind(w, e.Pos, gridworld.KindTownCenter)
	if !ok {
		return gridworld.Action{}, false
	}
	return stepToward(e.Pos, w.Entity(tc).Pos), true
}

// behaviorAttackAdjacent proposes an Attack action when an enemy occupies
// an adjacent tile.
func behaviorAttackAdjacent(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	e := agentEntity(w, agentID)
	if e == nil || !e.Alive {
		return gridworld.Action{}, false
	}
	for _, n := range gridworld.EightNeighbors(e.Pos) {
		target := w.EntityAt(n)
		if target == nil || !target.Alive {
			continue
		}
		if target.EffectiveTeam() == e.EffectiveTeam() || w.Teams[e.EffectiveTeam()].Allied(target.EffectiveTeam()) {
			continue
		}
		return gridworld.Action{Verb: gridworld.VerbAttack, Arg: uint8(orientationToward(e.Pos, n))}, true
	}
	return gridworld.Action{}, false
}

// behaviorChaseEnemy proposes a Move toward the nearest enemy, cached per
// agent per tick.
func behaviorChaseEnemy(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	e := agentEntity(w, agentID)
	if e == nil || !e.Alive {
		return gridworld.Action{}, false
	}
	target := c.closestEnemy.Get(agentID, c.generation, func() gridworld.Handle {
		h, found := closestEnemy(w, e.EffectiveTeam(), e.Pos)
		if !found {
			return gridworld.NoHandle
		}
		return h
	})
	if target == gridworld.NoHandle {
		return gridworld.Action{}, false
	}
	te := w.Entity(target)
	if te == nil || !te.Alive {
		return gridworld.Action{}, false
	}
	return stepToward(e.Pos, te.Pos), true
}

// behaviorObeyCommand translates a pending user-issued command into an
// action: attack-move and patrol drive movement, hold/guard/follow/stop
// set behavioral flags the engine's dispatch phase consults directly, and
// scout issues an outward move (spec.md Section 4.6 step 1).
func behaviorObeyCommand(w *gridworld.World, c *Controller, agentID int, rng *rand.Rand) (gridworld.Action, bool) {
	state := c.State(agentID)
	if !state.HasPending {
		return gridworld.Action{}, false
	}
	e := agentEntity(w, agentID)
	if e == nil || !e.Alive {
		state.HasPending = false
		return gridworld.Action{}, false
	}
	cmd := state.Pending
	switch cmd.Kind {
	case CommandAttackMove, CommandPatrol:
		if e.Pos == cmd.Target {
			state.HasPending = false
			return gridworld.NoopAction, true
		}
		return stepToward(e.Pos, cmd.Target), true
	case CommandHold:
		state.HoldPositionActive = true
		return gridworld.NoopAction, true
	case CommandGuard:
		state.GuardActive = true
		state.GuardTarget = cmd.Follow
		return gridworld.NoopAction, true
	case CommandFollow:
		state.FollowActive = true
		state.FollowTarget = cmd.Follow
		target := w.Entity(cmd.Follow)
		if target == nil || !target.Alive {
			return gridworld.NoopAction, true
		}
		return stepToward(e.Pos, target.Pos), true
	case CommandScout:
		state.ScoutActive = true
		return stepToward(e.Pos, cmd.Target), true
	case CommandStop:
		state.StoppedActive = true
		state.HasPending = false
		return gridworld.NoopAction, true
	case CommandStance:
		e.Stance = cmd.Stance
		state.HasPending = false
		return gridworld.NoopAction, true
	default:
		return gridworld.Action{}, false
	}
}
