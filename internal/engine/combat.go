// Combat resolution: attack dispatch, damage formula, area-of-effect,
// monk conversion, and death handling (spec.md Section 4.3).
//
// Grounded on the teacher's engine/crime.go deterrence-vs-aggression
// arithmetic (several additive modifiers folded into one integer result
// with a floor), adapted to
// finalDamage = max(1, base + bonus - armor). See DESIGN.md.
package engine

import (
	"golang.org/x/exp/slices"

	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/teamstate"
)

// Monk conversion tuning (spec.md Section 4.3).
const (
	MonkConversionFaithCost = 50
	MonkMaxFaith            = 100
	MonkFaithRechargeRate   = 1
)

// DeathTintDuration is how long a death tile stays tinted (spec.md
// Section 4.3).
const DeathTintDuration = 30

// AoELength is the forward-line length of a Mangonel's area-of-effect
// shot (spec.md Section 4.3).
const AoELength = 3

// handleAttack resolves one Attack action: scan outward from the
// attacker along orientation o up to its range, find the first occupied
// tile, and resolve damage (or conversion, for Monks) against it.
func (s *Simulation) handleAttack(agentID int, o gridworld.Orientation) {
	w := s.World
	h := w.AgentEntity[agentID]
	attacker := w.Entity(h)
	if attacker == nil || !attacker.Alive || attacker.IsGarrisoned || attacker.Packed {
		return
	}
	attacker.Orientation = o
	stats := unitStats[attacker.UnitClass]

	target, dist, found := scanForTarget(w, attacker.Pos, o, stats.Range)
	if !found || dist < stats.MinRange {
		return // out of range or inside the dead-zone: silent no-op (spec.md Section 7).
	}
	if target.EffectiveTeam() == attacker.EffectiveTeam() || w.Teams[attacker.EffectiveTeam()].Allied(target.EffectiveTeam()) {
		if attacker.UnitClass == gridworld.ClassVillager && target.Kind.IsTrainingBuilding() && target.EffectiveTeam() == attacker.EffectiveTeam() {
			// A villager "attacking" its own training building is the
			// production-queue cancel trigger (spec.md Section 4.5):
			// pop the tail entry and refund its cost.
			s.cancelQueueTail(target)
		}
		return // friendly fire is not an attack target.
	}

	if attacker.UnitClass == gridworld.ClassMonk {
		s.tryConvert(attacker, target)
		return
	}

	if attacker.UnitClass == gridworld.ClassMangonel {
		s.applyAoE(attacker, o, stats)
		return
	}

	s.applyDamage(attacker, target, stats.Attack)
}

// scanForTarget walks from origin in direction o, stepping up to maxRange
// tiles, and returns the first occupied tile's entity and its distance.
func scanForTarget(w *gridworld.World, origin gridworld.Coord, o gridworld.Orientation, maxRange int) (*gridworld.Entity, int, bool) {
	pos := origin
	for d := 1; d <= maxRange; d++ {
		pos = pos.Add(o)
		if !w.Grid.InBounds(pos) {
			return nil, 0, false
		}
		if e := w.EntityAt(pos); e != nil && e.Alive {
			return e, d, true
		}
	}
	return nil, 0, false
}

// applyDamage computes the final damage attacker deals to defender using
// baseAttack as the attacker's pre-modifier attack value, then applies it
// and handles death.
func (s *Simulation) applyDamage(attacker, defender *gridworld.Entity, baseAttack int) {
	w := s.World
	dmg := s.computeDamage(attacker, defender, baseAttack)
	defender.HP -= dmg
	w.Grid.MarkDirty(defender.Pos)
	if defender.HP <= 0 {
		s.killEntity(defender)
	}
}

// computeDamage implements spec.md Section 4.3's formula:
//
//	final = max(1, base_attack + team_attack_bonus - armor_vs_category - tech_armor)
//
// with the siege-vs-structure multiplier (then Siege Engineers' +20%,
// rounded via (d*6+2)/5) applied before the defender's armor, and the
// ManAtArms protective aura halving incoming damage before armor.
func (s *Simulation) computeDamage(attacker, defender *gridworld.Entity, baseAttack int) int {
	w := s.World
	attackerTeam := w.Teams[attacker.EffectiveTeam()]
	defenderTeam := w.Teams[defender.EffectiveTeam()]

	dmg := baseAttack
	dmg += attackerTeam.Modifiers.AttackBonus[classID(attacker.UnitClass)]

	if attacker.UnitClass.IsSiege() && defender.Kind.IsBuilding() {
		dmg *= SiegeStructureMultiplier
		if attackerTeam.UniversityTechs.Researched(teamstate.TechSiegeEngineers) {
			dmg = (dmg*6 + 2) / 5
		}
	}

	if s.hasAdjacentManAtArms(defender) {
		dmg = (dmg + 1) / 2
	}

	dmg -= defenderTeam.Modifiers.ArmorBonus[classID(defender.UnitClass)]
	if defender.Kind.IsBuilding() {
		if defenderTeam.UniversityTechs.Researched(teamstate.TechMasonry) {
			dmg--
		}
		if defenderTeam.UniversityTechs.Researched(teamstate.TechArchitecture) {
			dmg--
		}
	}

	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// hasAdjacentManAtArms reports whether defender stands adjacent to a
// friendly, alive ManAtArms, whose protective aura halves incoming
// damage (spec.md Section 4.3).
func (s *Simulation) hasAdjacentManAtArms(defender *gridworld.Entity) bool {
	w := s.World
	for _, n := range gridworld.EightNeighbors(defender.Pos) {
		e := w.EntityAt(n)
		if e == nil || !e.Alive || e.UnitClass != gridworld.ClassManAtArms {
			continue
		}
		if e.EffectiveTeam() == defender.EffectiveTeam() {
			return true
		}
	}
	return false
}

// applyAoE damages the Mangonel's forward line of AoELength tiles plus the
// 1-tile side prongs at the first ring (spec.md Section 4.3).
func (s *Simulation) applyAoE(attacker *gridworld.Entity, o gridworld.Orientation, stats UnitStats) {
	w := s.World
	pos := attacker.Pos
	var hit []gridworld.Handle
	damageOnce := func(target *gridworld.Entity) {
		if target == nil || !target.Alive {
			return
		}
		if slices.Contains(hit, target.Handle) {
			return
		}
		hit = append(hit, target.Handle)
		s.applyDamage(attacker, target, stats.Attack)
	}
	for i := 1; i <= AoELength; i++ {
		pos = pos.Add(o)
		if !w.Grid.InBounds(pos) {
			break
		}
		damageOnce(w.EntityAt(pos))
		if i == 1 {
			for _, prong := range sideProngs(o, pos) {
				damageOnce(w.EntityAt(prong))
			}
		}
	}
}

// sideProngs returns the two tiles perpendicular to o at the first ring.
func sideProngs(o gridworld.Orientation, firstRing gridworld.Coord) []gridworld.Coord {
	var perp1, perp2 gridworld.Orientation
	switch o {
	case gridworld.North, gridworld.South:
		perp1, perp2 = gridworld.East, gridworld.West
	default:
		perp1, perp2 = gridworld.North, gridworld.South
	}
	return []gridworld.Coord{firstRing.Add(perp1), firstRing.Add(perp2)}
}

// tryConvert attempts a Monk conversion of target, consuming faith and
// checking the target team's population cap (spec.md Section 4.3 and
// Section 8 scenario 2).
func (s *Simulation) tryConvert(monk, target *gridworld.Entity) bool {
	w := s.World
	if monk.Faith < MonkConversionFaithCost {
		return false
	}
	if target.Kind != gridworld.KindAgent {
		return false
	}
	monkTeam := monk.EffectiveTeam()
	if target.EffectiveTeam() == monkTeam {
		return false
	}

	// Double-conversion: converting a unit back to its original team
	// (identified by TeamID, which never changes) just clears the
	// override rather than re-counting against the pop cap.
	returningHome := target.TeamID == monkTeam
	if !returningHome && w.PopCounts[monkTeam] >= w.PopCaps[monkTeam] {
		return false
	}

	monk.Faith -= MonkConversionFaithCost
	if returningHome {
		target.TeamIDOverride = nil
	} else {
		t := monkTeam
		target.TeamIDOverride = &t
	}
	if altar, ok := closestAllied(w, monkTeam, target.Pos, gridworld.KindTownCenter, gridworld.KindAltar); ok {
		target.HomeAltar = w.Entity(altar).Pos
	}
	w.Grid.MarkDirty(target.Pos)
	if target.AgentID >= 0 && target.AgentID < len(w.ObsDirty) {
		w.ObsDirty[target.AgentID] = true
	}
	s.emit(Event{Step: w.CurrentStep, Kind: "conversion", Team: monkTeam, Pos: target.Pos})
	return true
}

// closestAllied scans the live handles of the given kinds belonging to
// team, returning the nearest to pos.
func closestAllied(w *gridworld.World, team int, pos gridworld.Coord, kinds ...gridworld.EntityKind) (gridworld.Handle, bool) {
	best := gridworld.NoHandle
	bestDist := -1
	for _, kind := range kinds {
		for _, h := range w.ByKind(kind) {
			e := w.Entity(h)
			if e == nil || !e.Alive || e.TeamID != team {
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

// killEntity applies spec.md Section 4.3's death handling: drop a corpse
// and any carried Relic/Lantern, eject garrisoned occupants, and mark the
// agent terminated if it was one.
func (s *Simulation) killEntity(e *gridworld.Entity) {
	w := s.World
	pos := e.Pos
	team := e.EffectiveTeam()
	wasBuilding := e.Kind.IsBuilding()
	garrisoned := e.GarrisonedUnits
	relics := e.Inventory[gridworld.ResourceRelic]
	lanterns := e.Inventory[gridworld.ResourceLantern]

	if e.Kind == gridworld.KindAgent && e.AgentID >= 0 {
		w.TerminateAgent(e.AgentID)
	} else {
		w.Destroy(e.Handle)
	}

	w.Spawn(gridworld.Entity{
		Kind:               gridworld.KindCorpse,
		Pos:                pos,
		TeamID:             -1,
		AgentID:            -1,
		Inventory:          gridworld.Inventory{gridworld.ResourceMeat: 1},
		DeathTintTicksLeft: DeathTintDuration,
	})

	dropSlots := gridworld.CardinalNeighbors(pos)
	slot := 0
	dropItem := func(kind gridworld.EntityKind, resource gridworld.ResourceType, qty int) {
		for slot < len(dropSlots) {
			tile := dropSlots[slot]
			slot++
			if w.Grid.Background(tile) != gridworld.NoHandle {
				continue
			}
			inv := gridworld.Inventory{}
			inv[resource] = qty
			w.Spawn(gridworld.Entity{
				Kind:      kind,
				Pos:       tile,
				TeamID:    -1,
				AgentID:   -1,
				Inventory: inv,
			})
			return
		}
	}
	if relics > 0 {
		dropItem(gridworld.KindRelic, gridworld.ResourceRelic, relics)
	}
	if lanterns > 0 {
		dropItem(gridworld.KindLantern, gridworld.ResourceLantern, lanterns)
	}

	if wasBuilding {
		for _, gh := range garrisoned {
			s.ejectGarrisoned(gh, pos)
		}
	}

	w.Grid.MarkDirty(pos)
	s.emit(Event{Step: w.CurrentStep, Kind: "death", Team: team, Pos: pos})
}

// ejectGarrisoned places a formerly-garrisoned unit on the nearest free
// tile around pos, or terminates it if no space is available (spec.md
// Section 4.3 / 4.5).
func (s *Simulation) ejectGarrisoned(h gridworld.Handle, pos gridworld.Coord) {
	w := s.World
	e := w.Entity(h)
	if e == nil || !e.Alive {
		return
	}
	e.IsGarrisoned = false
	for _, n := range gridworld.EightNeighbors(pos) {
		if w.Grid.InBounds(n) && w.Grid.Primary(n) == gridworld.NoHandle && !w.Grid.Terrain(n).IsWater() {
			w.MoveEntity(h, n)
			return
		}
	}
	if e.AgentID >= 0 {
		w.TerminateAgent(e.AgentID)
	}
}

// classID adapts a gridworld.UnitClass to the teamstate package's
// UnitClassID (teamstate cannot import gridworld; see
// teamstate/modifiers.go).
func classID(c gridworld.UnitClass) teamstate.UnitClassID {
	return teamstate.UnitClassID(c)
}
