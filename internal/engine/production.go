// Production queues, tech research, unique-unit training, and garrison
// handling (spec.md Section 4.4, 4.5). Grounded on the teacher's
// production.go FIFO-queue-over-a-resource idiom, adapted from per-tick
// yield accumulation to head-only queue decrement and completion-on-Use.
package engine

import (
	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/teamstate"
)

// ProductionQueueMaxSize bounds a training building's FIFO (spec.md
// Section 4.5: "a bounded FIFO (<= MaxSize)").
const ProductionQueueMaxSize = 5

// barracksChain, stableChain, and archeryChain are the two-tier unit
// upgrade chains spec.md Section 4.4 names, indexed by
// teamstate.UnitUpgrades' tier (0 = base class).
var (
	barracksChain = [3]gridworld.UnitClass{gridworld.ClassManAtArms, gridworld.ClassLongSwordsman, gridworld.ClassChampion}
	stableChain   = [3]gridworld.UnitClass{gridworld.ClassScout, gridworld.ClassLightCavalry, gridworld.ClassHussar}
	archeryChain  = [3]gridworld.UnitClass{gridworld.ClassArcher, gridworld.ClassCrossbowman, gridworld.ClassArbalester}
)

// dockFleet is the fixed water-unit roster a Dock trains, cycling one
// class at a time so every episode can exercise all five ship classes
// without widening the action encoding (there is no unit-select argument
// on the Use verb).
var dockFleet = [5]gridworld.UnitClass{
	gridworld.ClassBoat, gridworld.ClassTransportShip, gridworld.ClassGalley,
	gridworld.ClassFireShip, gridworld.ClassTradeCog,
}

// uniqueUnitRoster is the small fixed pool of team-unique unit classes
// spec.md Section 4.4's Castle-cooldown training falls back to. Assigned
// by team id modulo the roster length so every team has one.
var uniqueUnitRoster = [4]gridworld.UnitClass{
	gridworld.ClassSamurai, gridworld.ClassTeutonicKnight, gridworld.ClassCataphract, gridworld.ClassLongbowman,
}

func uniqueUnitForTeam(team int) gridworld.UnitClass {
	return uniqueUnitRoster[team%len(uniqueUnitRoster)]
}

// trainableClass returns the unit class building currently produces, given
// its team's upgrade tiers (spec.md Section 4.4's two-tier chains).
func trainableClass(team *teamstate.Team, building *gridworld.Entity) (gridworld.UnitClass, bool) {
	switch building.Kind {
	case gridworld.KindTownCenter:
		return gridworld.ClassVillager, true
	case gridworld.KindBarracks:
		return barracksChain[team.UnitUpgrades.Tier(teamstate.BuildingBarracks)], true
	case gridworld.KindStable:
		return stableChain[team.UnitUpgrades.Tier(teamstate.BuildingStable)], true
	case gridworld.KindArcheryRange:
		return archeryChain[team.UnitUpgrades.Tier(teamstate.BuildingArcheryRange)], true
	case gridworld.KindMonastery:
		return gridworld.ClassMonk, true
	case gridworld.KindDock:
		return dockFleet[len(building.ProductionQueue)%len(dockFleet)], true
	default:
		return 0, false
	}
}

var trainingKinds = []gridworld.EntityKind{
	gridworld.KindTownCenter, gridworld.KindBarracks, gridworld.KindArcheryRange,
	gridworld.KindStable, gridworld.KindCastle, gridworld.KindDock, gridworld.KindMonastery,
}

// cancelQueueTail pops the tail (most recently queued) entry off
// building's production queue — the head itself when it is the only
// entry, even if already in training — and refunds its full cost to the
// owning team's stockpile (spec.md Section 4.5: "Cancel (LIFO, removes
// tail): refunds the tail's cost"). No-op if the queue is empty.
func (s *Simulation) cancelQueueTail(building *gridworld.Entity) bool {
	n := len(building.ProductionQueue)
	if n == 0 {
		return false
	}
	tail := building.ProductionQueue[n-1]
	building.ProductionQueue = building.ProductionQueue[:n-1]
	team := s.World.Teams[building.EffectiveTeam()]
	team.CreditVector(teamstate.Cost(
		int64(tail.Cost[gridworld.ResourceWood]),
		int64(tail.Cost[gridworld.ResourceFood]),
		int64(tail.Cost[gridworld.ResourceGold]),
		int64(tail.Cost[gridworld.ResourceStone]),
	))
	return true
}

// tickProduction decrements every training building's queue head by one
// step (spec.md Section 4.5: "only the head entry decrements
// remainingSteps; others wait"). A completed head (remainingSteps==0)
// sits until a villager's Use action converts it.
func (s *Simulation) tickProduction() {
	w := s.World
	for _, kind := range trainingKinds {
		for _, h := range w.ByKind(kind) {
			e := w.Entity(h)
			if e == nil || !e.Alive || len(e.ProductionQueue) == 0 {
				continue
			}
			if e.ProductionQueue[0].RemainingSteps > 0 {
				e.ProductionQueue[0].RemainingSteps--
			}
		}
	}
}

// costFromVector converts a {wood,food,gold,stone} cost into a
// gridworld.Inventory for storage on a QueueEntry; the first four
// ResourceType slots share the teamstate.Resource ordering exactly.
func costFromVector(cost [4]int64) gridworld.Inventory {
	var inv gridworld.Inventory
	inv[gridworld.ResourceWood] = int(cost[0])
	inv[gridworld.ResourceFood] = int(cost[1])
	inv[gridworld.ResourceGold] = int(cost[2])
	inv[gridworld.ResourceStone] = int(cost[3])
	return inv
}

// enqueueOrComplete is the Use-on-training-building dispatch shared by
// handleTrainingUse and the Castle's unique-unit fallback: if the queue's
// head entry has finished, it converts the acting villager into the
// produced class; otherwise it enqueues a new entry of class, debiting
// cost immediately (spec.md Section 4.5).
func (s *Simulation) enqueueOrComplete(actor, building *gridworld.Entity, class gridworld.UnitClass, cost [4]int64) {
	w := s.World
	if len(building.ProductionQueue) > 0 && building.ProductionQueue[0].RemainingSteps <= 0 {
		head := building.ProductionQueue[0]
		building.ProductionQueue = building.ProductionQueue[1:]
		s.applyUnitClass(actor, head.UnitClass)
		if building.HasRallyPoint {
			actor.Orientation = orientationToward(actor.Pos, building.RallyPoint)
		}
		s.emit(Event{Step: w.CurrentStep, Kind: "production_complete", Team: building.EffectiveTeam(), Pos: building.Pos})
		return
	}

	if len(building.ProductionQueue) >= ProductionQueueMaxSize {
		return
	}
	team := w.Teams[building.EffectiveTeam()]
	vec := teamstate.Cost(cost[0], cost[1], cost[2], cost[3])
	if !team.CanAfford(vec) {
		return
	}
	team.Debit(vec)
	stats := unitStats[class]
	building.ProductionQueue = append(building.ProductionQueue, gridworld.QueueEntry{
		UnitClass:      class,
		RemainingSteps: stats.TrainTicks,
		Cost:           costFromVector(cost),
	})
}

// handleTrainingUse resolves a villager's Use on a non-Castle training
// building: complete the finished head by converting the villager, or
// enqueue the building's current trainable class.
func (s *Simulation) handleTrainingUse(actor, building *gridworld.Entity) {
	team := s.World.Teams[building.EffectiveTeam()]
	class, ok := trainableClass(team, building)
	if !ok {
		return
	}
	s.enqueueOrComplete(actor, building, class, unitStats[class].Cost)
}

// castleAgeCost gives representative costs for Castle Age (slot 0) and
// Imperial Age (slot 1), scaled well above University tech costs to
// reflect their late-game weight.
var castleAgeCost = [2][4]int64{
	{200, 800, 200, 0},
	{0, 1000, 800, 0},
}

// handleCastleUse resolves a villager's Use on a Castle: while the team's
// age-up cooldown is running, Use trains the team's unique unit instead
// (spec.md Section 4.4); otherwise it attempts the next age-up.
func (s *Simulation) handleCastleUse(actor, castle *gridworld.Entity) {
	w := s.World
	team := w.Teams[castle.EffectiveTeam()]
	if team.CastleTechs.Cooldown > 0 {
		s.enqueueOrComplete(actor, castle, uniqueUnitForTeam(castle.TeamID), [4]int64{0, 4, 2, 0})
		return
	}

	slot, ok := team.CastleTechs.NextUnresearched()
	if !ok {
		return
	}
	cost := castleAgeCost[slot]
	vec := teamstate.Cost(cost[0], cost[1], cost[2], cost[3])
	if !team.CanAfford(vec) {
		return
	}
	team.Debit(vec)
	team.CastleTechs.Research()
	if slot == 1 {
		// Imperial Age's unique team bonus (spec.md Section 4.4 example:
		// "Yeomen: +1 Archer attack"), applied only to units trained after
		// this point via Modifiers, never retroactively.
		for _, c := range classesByCategory(gridworld.CategoryArcher) {
			team.Modifiers.AttackBonus[c]++
		}
	}
}

// applyUnitClass converts e into newClass, resetting its HP/max-HP to the
// new class's base stats (spec.md Section 4.5: "applyUnitClass resets
// hp/attack").
func (s *Simulation) applyUnitClass(e *gridworld.Entity, newClass gridworld.UnitClass) {
	stats := unitStats[newClass]
	e.UnitClass = newClass
	e.HP = stats.HP
	e.MaxHP = stats.HP
	e.AttackDamage = stats.Attack
	s.World.Grid.MarkDirty(e.Pos)
	if e.AgentID >= 0 && e.AgentID < len(s.World.ObsDirty) {
		s.World.ObsDirty[e.AgentID] = true
	}
}

// promoteTeamUnits upgrades every live agent of team belonging to
// baseClass into newClass, preserving its HP ratio (spec.md Section 4.4:
// "immediately promotes all existing team units of the base class,
// preserving HP ratio; enemy units unaffected").
func (s *Simulation) promoteTeamUnits(team int, baseClass, newClass gridworld.UnitClass) {
	w := s.World
	newStats := unitStats[newClass]
	for _, h := range w.ByKind(gridworld.KindAgent) {
		e := w.Entity(h)
		if e == nil || !e.Alive || e.TeamID != team || e.UnitClass != baseClass {
			continue
		}
		ratio := float64(e.HP) / float64(e.MaxHP)
		e.UnitClass = newClass
		e.MaxHP = newStats.HP
		e.HP = int(ratio * float64(newStats.HP))
		if e.HP < 1 {
			e.HP = 1
		}
		e.AttackDamage = newStats.Attack
		w.Grid.MarkDirty(e.Pos)
		if e.AgentID >= 0 && e.AgentID < len(w.ObsDirty) {
			w.ObsDirty[e.AgentID] = true
		}
	}
}

// handleUniversityResearch resolves a villager's Use on a University. The
// University doubles as the generic tech-tree building for the three
// research categories spec.md Section 4.4 never assigns to a specific
// building (individual University techs, the 5 economy chains, and the
// 3 training buildings' unit-upgrade chains): it tries the individually
// researchable techs first, then the next economy-chain tier, then the
// next unit-upgrade tier, in that fixed order, each step researching at
// most one thing per Use (see DESIGN.md).
func (s *Simulation) handleUniversityResearch(actor, university *gridworld.Entity) {
	team := s.World.Teams[university.EffectiveTeam()]

	for t := teamstate.UniversityTech(0); int(t) < teamstate.UniversityTechCount; t++ {
		if team.UniversityTechs.Researched(t) {
			continue
		}
		cost := teamstate.Cost(0, teamstate.UniversityTechFood, teamstate.UniversityTechGold, 0)
		if !team.CanAfford(cost) {
			return
		}
		team.Debit(cost)
		team.UniversityTechs.Research(t)
		return
	}

	for c := teamstate.EconomyChain(0); int(c) < 5; c++ {
		tier := team.EconomyTechs.Tier(c)
		cost := economyChainCost(tier)
		vec := teamstate.Cost(cost[0], cost[1], cost[2], cost[3])
		if !team.CanAfford(vec) {
			continue
		}
		if team.EconomyTechs.ResearchNext(c) {
			team.Debit(vec)
			team.Modifiers.ApplyEconomyTech(c)
			return
		}
	}

	for b := teamstate.TrainingBuilding(0); int(b) < 3; b++ {
		tier := team.UnitUpgrades.Tier(b)
		chain := unitUpgradeChain(b)
		if tier >= len(chain)-1 {
			continue
		}
		cost := unitUpgradeCost(tier)
		vec := teamstate.Cost(cost[0], cost[1], cost[2], cost[3])
		if !team.CanAfford(vec) {
			continue
		}
		if team.UnitUpgrades.ResearchNext(b) {
			team.Debit(vec)
			base, next := chain[tier], chain[tier+1]
			s.promoteTeamUnits(university.TeamID, base, next)
			return
		}
	}
}

// unitUpgradeChain returns the two-tier class chain for a training
// building's upgrade line.
func unitUpgradeChain(b teamstate.TrainingBuilding) [3]gridworld.UnitClass {
	switch b {
	case teamstate.BuildingStable:
		return stableChain
	case teamstate.BuildingArcheryRange:
		return archeryChain
	default:
		return barracksChain
	}
}

// economyChainCost and unitUpgradeCost give representative, tier-scaling
// costs for the two research categories spec.md Section 4.4 leaves
// unpriced beyond "tiered" and "two-tier chain."
func economyChainCost(tier int) [4]int64 {
	return [4]int64{int64(50 * (tier + 1)), 0, int64(50 * (tier + 1)), 0}
}

func unitUpgradeCost(tier int) [4]int64 {
	return [4]int64{0, int64(80 * (tier + 1)), int64(40 * (tier + 1)), 0}
}

// blacksmithLevelCost scales with the level being researched: each level
// costs a little more than the last (spec.md Section 4.4: "each costing
// a small food+gold pair").
func blacksmithLevelCost(nextLevel int) [4]int64 {
	return [4]int64{0, int64(10 * (nextLevel + 1)), int64(5 * (nextLevel + 1)), 0}
}

// handleBlacksmithResearch resolves a villager's Use on a Blacksmith:
// advance the first upgrade line not already at max level.
func (s *Simulation) handleBlacksmithResearch(actor, blacksmith *gridworld.Entity) {
	team := s.World.Teams[blacksmith.EffectiveTeam()]
	for line := teamstate.BlacksmithLine(0); int(line) < 5; line++ {
		level := team.BlacksmithTechs.Level(line)
		if level >= teamstate.BlacksmithMaxLevel {
			continue
		}
		c := blacksmithLevelCost(level)
		vec := teamstate.Cost(c[0], c[1], c[2], c[3])
		if !team.CanAfford(vec) {
			return
		}
		team.Debit(vec)
		team.BlacksmithTechs.ResearchNext(line)
		team.Modifiers.ApplyBlacksmithTech(line,
			classesByCategory(gridworld.CategoryInfantry),
			classesByCategory(gridworld.CategoryArcher),
			classesByCategory(gridworld.CategoryCavalry))
		return
	}
}

// classesByCategory lists every unit class sharing armor category cat,
// used to fan a Blacksmith/age-up bonus out across the category groups
// teamstate.Modifiers is keyed by (teamstate cannot import gridworld to
// compute this itself).
func classesByCategory(cat gridworld.ArmorCategory) []teamstate.UnitClassID {
	var out []teamstate.UnitClassID
	for c := gridworld.UnitClass(0); int(c) < gridworld.UnitClassCount; c++ {
		if c.Category() == cat {
			out = append(out, classID(c))
		}
	}
	return out
}

// handleGarrison resolves a Use on a friendly garrisonable building: move
// the acting unit off-grid into the building's garrison list, rejecting
// if at capacity (spec.md Section 4.5).
func (s *Simulation) handleGarrison(actor, building *gridworld.Entity) {
	if len(building.GarrisonedUnits) >= building.GarrisonCapacity {
		return
	}
	s.World.MoveEntity(actor.Handle, gridworld.Off)
	actor.IsGarrisoned = true
	building.GarrisonedUnits = append(building.GarrisonedUnits, actor.Handle)
	if actor.Inventory[gridworld.ResourceRelic] > 0 {
		building.GarrisonedRelics += actor.Inventory[gridworld.ResourceRelic]
	}
}

// handleUngarrisonAll resolves Use argument 9: every friendly garrisonable
// building adjacent to the acting agent ejects all of its occupants
// (spec.md Section 6).
func (s *Simulation) handleUngarrisonAll(actor *gridworld.Entity) {
	w := s.World
	for _, n := range gridworld.EightNeighbors(actor.Pos) {
		b := w.EntityAt(n)
		if b == nil || !b.Alive || !b.Kind.IsGarrisonable() || b.EffectiveTeam() != actor.EffectiveTeam() {
			continue
		}
		garrisoned := b.GarrisonedUnits
		b.GarrisonedUnits = nil
		b.GarrisonedRelics = 0
		for _, gh := range garrisoned {
			s.ejectGarrisoned(gh, b.Pos)
		}
	}
}

// handleTownBell resolves Use argument 10 adjacent to a TownCenter:
// recall every same-team villager into its nearest friendly TownCenter
// for protection (spec.md Section 4.5).
func (s *Simulation) handleTownBell(actor *gridworld.Entity) {
	w := s.World
	adjacentTC := false
	for _, n := range gridworld.EightNeighbors(actor.Pos) {
		if b := w.EntityAt(n); b != nil && b.Alive && b.Kind == gridworld.KindTownCenter && b.EffectiveTeam() == actor.EffectiveTeam() {
			adjacentTC = true
			break
		}
	}
	if !adjacentTC {
		return
	}
	for _, h := range w.ByKind(gridworld.KindAgent) {
		e := w.Entity(h)
		if e == nil || !e.Alive || e.IsGarrisoned || e.UnitClass != gridworld.ClassVillager || e.EffectiveTeam() != actor.EffectiveTeam() {
			continue
		}
		tc, ok := closestAllied(w, actor.EffectiveTeam(), e.Pos, gridworld.KindTownCenter)
		if !ok {
			continue
		}
		building := w.Entity(tc)
		if len(building.GarrisonedUnits) >= building.GarrisonCapacity {
			continue
		}
		s.handleGarrison(e, building)
	}
}

// handlePackToggle resolves Use argument 8: a Trebuchet packs for travel
// or unpacks to fire (spec.md Section 6). A packed Trebuchet cannot
// attack (see combat.go's handleAttack guard).
func (s *Simulation) handlePackToggle(actor *gridworld.Entity) {
	if actor.UnitClass != gridworld.ClassTrebuchet {
		return
	}
	actor.Packed = !actor.Packed
}

// orientationToward returns the cardinal direction from a toward b,
// preferring the axis with the larger delta (used for rally-point facing).
func orientationToward(a, b gridworld.Coord) gridworld.Orientation {
	dx, dy := b.X-a.X, b.Y-a.Y
	if absInt(dx) >= absInt(dy) {
		if dx >= 0 {
			return gridworld.East
		}
		return gridworld.West
	}
	if dy >= 0 {
		return gridworld.South
	}
	return gridworld.North
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
