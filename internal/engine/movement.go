package engine

import "github.com/talgya/rts-sim/internal/gridworld"

// handleMove attempts a single-step move in orientation o, chaining a
// second step for cavalry/ship classes or after a Road bonus, per
// spec.md Section 4.2. New arithmetic grounded on the teacher's habit of
// encoding small integer accumulators directly on the moving entity
// (c.f. Agent.TravelTicksLeft) — see DESIGN.md.
func (s *Simulation) handleMove(agentID int, o gridworld.Orientation) {
	w := s.World
	h := w.AgentEntity[agentID]
	e := w.Entity(h)
	if e == nil || !e.Alive || e.IsGarrisoned {
		return
	}
	if !o.IsCardinal() {
		return // diagonals always rejected (spec.md Section 4.2).
	}

	if e.MoveDebt >= gridworld.TerrainSpeedThreshold {
		e.MoveDebt -= gridworld.TerrainSpeedThreshold
		return // this move is "spent": the debt threshold absorbs it.
	}

	roadBonus := w.Grid.Terrain(e.Pos) == gridworld.TerrainRoad
	if !s.attemptStep(h, o) {
		return
	}
	e.MoveDebt += gridworld.SpeedDebt(w.Grid.Terrain(e.Pos))
	if w.Grid.Terrain(e.Pos) == gridworld.TerrainRoad {
		e.MoveDebt = 0
		roadBonus = true
	}

	if roadBonus || e.UnitClass.IsCavalry() || e.UnitClass.IsShip() {
		s.attemptStep(h, o)
	}
	s.handleTradeCogArrival(e)
}

// attemptStep applies spec.md Section 4.2's legality predicates and, if
// all hold, relocates h one tile in direction o (swapping with a
// same-team non-frozen blocker instead, if present). Returns whether a
// move (or swap) occurred.
func (s *Simulation) attemptStep(h gridworld.Handle, o gridworld.Orientation) bool {
	w := s.World
	e := w.Entity(h)
	if e == nil {
		return false
	}
	dst := e.Pos.Add(o)
	if !w.Grid.InBounds(dst) {
		return false
	}

	terrain := w.Grid.Terrain(dst)
	if !terrainPermits(e.UnitClass, terrain) {
		return false
	}
	if elev := w.Grid.Elevation(dst) - w.Grid.Elevation(e.Pos); elev > 0 {
		if up, ok := w.Grid.Terrain(e.Pos).IsRampUp(); !ok || up != o {
			return false
		}
	}

	blocker := w.Entity(w.Grid.Primary(dst))
	if blocker != nil && blocker.Alive {
		if blocker.EffectiveTeam() == e.EffectiveTeam() && blocker.Kind == gridworld.KindAgent && blocker.Frozen == 0 {
			swapPos := e.Pos
			w.MoveEntity(h, dst)
			w.MoveEntity(blocker.Handle, swapPos)
			return true
		}
		return false // enemies, buildings, and frozen allies block.
	}

	w.MoveEntity(h, dst)
	return true
}

// terrainPermits reports whether class may step onto terrain.
func terrainPermits(class gridworld.UnitClass, t gridworld.TerrainType) bool {
	if class == gridworld.ClassTradeCog {
		return true
	}
	if class.IsShip() {
		return t.IsWater()
	}
	return !t.IsWater() // land units never embark mid-move (simplification: embarking at a Dock is not modeled).
}
