package engine

import (
	"testing"

	"github.com/talgya/rts-sim/internal/gridworld"
)

func TestAttemptWildlifeStepMovesIntoOpenLand(t *testing.T) {
	_, w := newTestSim(16, 16, 2, 1)
	s := &Simulation{World: w}
	pos := gridworld.Coord{X: 5, Y: 5}
	h := w.Spawn(gridworld.Entity{Kind: gridworld.KindCow, Pos: pos, TeamID: -1, AgentID: -1})

	s.attemptWildlifeStep(w.Entity(h), gridworld.East)

	if w.Entity(h).Pos != pos.Add(gridworld.East) {
		t.Error("wildlife should step onto open, in-bounds land")
	}
}

func TestAttemptWildlifeStepBlockedByWater(t *testing.T) {
	_, w := newTestSim(16, 16, 2, 1)
	s := &Simulation{World: w}
	pos := gridworld.Coord{X: 5, Y: 5}
	w.Grid.SetTerrain(pos.Add(gridworld.East), gridworld.TerrainWater)
	h := w.Spawn(gridworld.Entity{Kind: gridworld.KindCow, Pos: pos, TeamID: -1, AgentID: -1})

	s.attemptWildlifeStep(w.Entity(h), gridworld.East)

	if w.Entity(h).Pos != pos {
		t.Error("wildlife should refuse to step into water")
	}
}

func TestAttemptWildlifeStepBlockedByOccupant(t *testing.T) {
	_, w := newTestSim(16, 16, 2, 1)
	s := &Simulation{World: w}
	pos := gridworld.Coord{X: 5, Y: 5}
	h := w.Spawn(gridworld.Entity{Kind: gridworld.KindCow, Pos: pos, TeamID: -1, AgentID: -1})
	w.Spawn(gridworld.Entity{Kind: gridworld.KindTree, Pos: pos.Add(gridworld.East), TeamID: -1, AgentID: -1})

	s.attemptWildlifeStep(w.Entity(h), gridworld.East)

	if w.Entity(h).Pos != pos {
		t.Error("wildlife should not step onto an occupied tile")
	}
}

func TestPredatorAttackAdjacentDamagesNearestAgent(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	wolfPos := gridworld.Coord{X: 5, Y: 5}
	wolf := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindWolf, Pos: wolfPos, TeamID: -1, AgentID: -1, AttackDamage: 10}))
	enemyH := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: wolfPos.Add(gridworld.North), TeamID: 0, AgentID: -1, HP: 30, MaxHP: 30})

	s.predatorAttackAdjacent(wolf)

	if w.Entity(enemyH).HP != 20 {
		t.Errorf("enemy HP = %d, want 20", w.Entity(enemyH).HP)
	}
}

func TestPredatorAttackAdjacentKillsLowHPTarget(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	wolfPos := gridworld.Coord{X: 5, Y: 5}
	wolf := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindWolf, Pos: wolfPos, TeamID: -1, AgentID: -1, AttackDamage: 50}))
	enemyH := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: wolfPos.Add(gridworld.North), TeamID: 0, AgentID: -1, HP: 10, MaxHP: 30})

	s.predatorAttackAdjacent(wolf)

	if w.Entity(enemyH).Alive {
		t.Error("a predator attack exceeding remaining HP should kill the target")
	}
}

func TestPredatorAttackAdjacentIgnoresNonAgents(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	wolfPos := gridworld.Coord{X: 5, Y: 5}
	wolf := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindWolf, Pos: wolfPos, TeamID: -1, AgentID: -1, AttackDamage: 10}))
	w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: wolfPos.Add(gridworld.North), TeamID: 0, AgentID: -1, HP: 600, MaxHP: 600})

	s.predatorAttackAdjacent(wolf)

	tcH := w.Grid.Primary(wolfPos.Add(gridworld.North))
	if w.Entity(tcH).HP != 600 {
		t.Error("wildlife should not attack buildings")
	}
}
