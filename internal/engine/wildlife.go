// Wildlife AI: cows herd, wolves pack, bears wander, and predators attack
// adjacent enemies (spec.md Section 4.1 phase 7). Grounded on the
// teacher's wildlife-wander-direction RNG draw shape, threaded through
// the single seeded generator so herd/pack movement stays deterministic.
package engine

import (
	"math/rand"

	"github.com/talgya/rts-sim/internal/gridworld"
)

// herdMoveChance/packMoveChance/bearMoveChance gate how often each animal
// kind takes a step, so wildlife doesn't outrun a villager every tick.
const (
	herdMoveChance = 0.3
	packMoveChance = 0.4
	bearMoveChance = 0.25
)

// tickWildlife drives every live Cow/Wolf/Bear: herds move together,
// packs follow their leader, bears wander independently, and any
// predator adjacent to a live agent attacks it directly.
func (s *Simulation) tickWildlife() {
	w := s.World
	s.tickHerds()
	s.tickPacks()
	s.tickBears()

	for _, kind := range [2]gridworld.EntityKind{gridworld.KindWolf, gridworld.KindBear} {
		for _, h := range w.ByKind(kind) {
			predator := w.Entity(h)
			if predator == nil || !predator.Alive || predator.AttackDamage <= 0 {
				continue
			}
			s.predatorAttackAdjacent(predator)
		}
	}
}

// tickHerds caches one random cardinal direction per herd per tick so
// every cow in the herd steps the same way.
func (s *Simulation) tickHerds() {
	w := s.World
	herds := map[int]gridworld.Orientation{}
	for _, h := range w.ByKind(gridworld.KindCow) {
		cow := w.Entity(h)
		if cow == nil || !cow.Alive {
			continue
		}
		if w.RNG.Float64() >= herdMoveChance {
			continue
		}
		dir, ok := herds[cow.HerdID]
		if !ok {
			dir = randomCardinal(w.RNG)
			herds[cow.HerdID] = dir
		}
		s.attemptWildlifeStep(cow, dir)
	}
}

// tickPacks moves each pack's leader by a fresh random step, then has
// every follower step toward the leader's new position.
func (s *Simulation) tickPacks() {
	w := s.World
	leaderPos := map[int]gridworld.Coord{}
	for _, h := range w.ByKind(gridworld.KindWolf) {
		wolf := w.Entity(h)
		if wolf == nil || !wolf.Alive || !wolf.IsPackLeader {
			continue
		}
		if w.RNG.Float64() < packMoveChance {
			s.attemptWildlifeStep(wolf, randomCardinal(w.RNG))
		}
		leaderPos[wolf.PackID] = wolf.Pos
	}
	for _, h := range w.ByKind(gridworld.KindWolf) {
		wolf := w.Entity(h)
		if wolf == nil || !wolf.Alive || wolf.IsPackLeader {
			continue
		}
		lead, ok := leaderPos[wolf.PackID]
		if !ok || w.RNG.Float64() >= packMoveChance {
			continue
		}
		s.attemptWildlifeStep(wolf, orientationToward(wolf.Pos, lead))
	}
}

func (s *Simulation) tickBears() {
	w := s.World
	for _, h := range w.ByKind(gridworld.KindBear) {
		bear := w.Entity(h)
		if bear == nil || !bear.Alive {
			continue
		}
		if w.RNG.Float64() < bearMoveChance {
			s.attemptWildlifeStep(bear, randomCardinal(w.RNG))
		}
	}
}

// attemptWildlifeStep moves a non-agent wildlife entity one tile. It runs
// its own simpler legality check (in bounds, not water, no blocking
// occupant; elevation is not checked) and never swaps (wildlife never
// shares a team with a blocker).
func (s *Simulation) attemptWildlifeStep(e *gridworld.Entity, o gridworld.Orientation) {
	w := s.World
	dst := e.Pos.Add(o)
	if !w.Grid.InBounds(dst) || w.Grid.Terrain(dst).IsWater() {
		return
	}
	if w.Grid.Primary(dst) != gridworld.NoHandle {
		return
	}
	w.MoveEntity(e.Handle, dst)
}

// predatorAttackAdjacent deals predator's flat AttackDamage to the first
// live enemy agent found adjacent, bypassing team modifiers and armor
// (wildlife is unteamed, so the combat.go damage formula's team lookups
// do not apply; see DESIGN.md).
func (s *Simulation) predatorAttackAdjacent(predator *gridworld.Entity) {
	w := s.World
	for _, n := range gridworld.EightNeighbors(predator.Pos) {
		target := w.EntityAt(n)
		if target == nil || !target.Alive || target.Kind != gridworld.KindAgent {
			continue
		}
		target.HP -= predator.AttackDamage
		w.Grid.MarkDirty(target.Pos)
		if target.HP <= 0 {
			s.killEntity(target)
		}
		return
	}
}

func randomCardinal(r *rand.Rand) gridworld.Orientation {
	dirs := [4]gridworld.Orientation{gridworld.North, gridworld.South, gridworld.East, gridworld.West}
	return dirs[r.Intn(4)]
}
