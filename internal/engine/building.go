// Building placement (spec.md Section 4.5's Build verb). Grounded on the
// teacher's settlement_lifecycle.go placement-search idiom (try the
// preferred tile, then fall back through a fixed ring of neighbors).
package engine

import (
	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/teamstate"
)

// BuildIndexCount is the number of placeable building kinds the Build verb
// can address. Bounded by ArgCount=11 (spec.md Section 6), far fewer than
// the 19 building kinds the data model names. University, Blacksmith,
// GuardTower, Mill, LumberCamp, and MiningCamp are instead pre-placed by
// the map initializer near each team's Town Center (see
// mapgen.spawnSupportBuildings and DESIGN.md). Door and Altar are neither
// in the Build table nor pre-placed.
const BuildIndexCount = 11

// buildIndexKind is the fixed index -> building-kind table for the Build
// verb's argument (spec.md Section 6: "a fixed index table").
var buildIndexKind = [BuildIndexCount]gridworld.EntityKind{
	gridworld.KindTownCenter,
	gridworld.KindHouse,
	gridworld.KindBarracks,
	gridworld.KindStable,
	gridworld.KindArcheryRange,
	gridworld.KindMarket,
	gridworld.KindCastle,
	gridworld.KindMonastery,
	gridworld.KindWonder,
	gridworld.KindWall,
	gridworld.KindDock,
}

// MasonryTechMultiplierPct scales a freshly placed building's max HP when the
// team has researched Masonry (spec.md Section 4.5: "maxHp = baseMaxHp x
// masonryTechMultiplier"). Expressed as a percentage to stay integer-only.
const MasonryTechMultiplierPct = 125

// handleBuild resolves one Build action: index names the building kind.
// The placement search starts from the builder's own facing (its first
// candidate, per spec.md Section 4.5's {orientation, N, E, S, W, NW, NE,
// SW, SE} order); the facing is not an action argument of its own —
// Build's numeric argument is the building-kind index (spec.md Section 6).
func (s *Simulation) handleBuild(agentID int, index uint8) {
	w := s.World
	h := w.AgentEntity[agentID]
	builder := w.Entity(h)
	if builder == nil || !builder.Alive || builder.IsGarrisoned || builder.UnitClass != gridworld.ClassVillager {
		return
	}
	if int(index) >= BuildIndexCount {
		return
	}
	kind := buildIndexKind[index]
	bstats, ok := buildingStats[kind]
	if !ok {
		return
	}

	team := w.Teams[builder.EffectiveTeam()]
	cost := teamstate.Cost(bstats.Cost[0], bstats.Cost[1], bstats.Cost[2], bstats.Cost[3])
	if !team.CanAfford(cost) {
		return
	}

	dest, found := findBuildSite(w, builder, kind)
	if !found {
		return
	}

	team.Debit(cost)
	maxHP := bstats.MaxHP
	if team.UniversityTechs.Researched(teamstate.TechMasonry) {
		maxHP = maxHP * MasonryTechMultiplierPct / 100
	}

	h2 := w.Spawn(gridworld.Entity{
		Kind:             kind,
		Pos:              dest,
		TeamID:           builder.TeamID,
		AgentID:          -1,
		HP:               1,
		MaxHP:            maxHP,
		GarrisonCapacity: garrisonCapacityFor(kind),
	})

	if autoPavesRoad(kind) {
		s.paveRoadToNearestTownCenter(w.Entity(h2))
	}
}

// findBuildSite searches the fixed order {builder orientation, N, E, S, W,
// NW, NE, SW, SE} for the first free tile legal for kind (spec.md Section
// 4.5, Section 4.1's tie-break note).
func findBuildSite(w *gridworld.World, builder *gridworld.Entity, kind gridworld.EntityKind) (gridworld.Coord, bool) {
	first := builder.Pos.Add(builder.Orientation)
	candidates := append([]gridworld.Coord{first}, gridworld.EightNeighbors(builder.Pos)[:]...)
	for _, c := range candidates {
		if buildSiteLegal(w, c, kind) {
			return c, true
		}
	}
	return gridworld.Coord{}, false
}

func buildSiteLegal(w *gridworld.World, c gridworld.Coord, kind gridworld.EntityKind) bool {
	if !w.Grid.InBounds(c) {
		return false
	}
	if w.Grid.Primary(c) != gridworld.NoHandle {
		return false
	}
	isWater := w.Grid.Terrain(c).IsWater()
	if kind.IsWaterBuilding() {
		return isWater
	}
	return !isWater
}

// garrisonCapacityFor returns the garrison slot count for buildable
// garrisonable kinds, 0 otherwise.
func garrisonCapacityFor(kind gridworld.EntityKind) int {
	switch kind {
	case gridworld.KindTownCenter:
		return 10
	case gridworld.KindCastle:
		return 15
	case gridworld.KindMonastery, gridworld.KindHouse:
		return 5
	default:
		return 0
	}
}

// autoPavesRoad reports whether placing kind lays a Road to the builder's
// nearest friendly Town Center (spec.md Section 4.5). Of the three kinds
// spec.md names (Mill, LumberCamp, MiningCamp), none are in the Build
// index table (see BuildIndexCount's doc comment); this stays here so a
// future widened index table picks the behavior up for free.
func autoPavesRoad(kind gridworld.EntityKind) bool {
	switch kind {
	case gridworld.KindMill, gridworld.KindLumberCamp, gridworld.KindMiningCamp:
		return true
	default:
		return false
	}
}

// paveRoadToNearestTownCenter lays Road terrain in a straight line from
// building toward the nearest friendly Town Center.
func (s *Simulation) paveRoadToNearestTownCenter(building *gridworld.Entity) {
	w := s.World
	tc, ok := closestAllied(w, building.TeamID, building.Pos, gridworld.KindTownCenter)
	if !ok {
		return
	}
	target := w.Entity(tc).Pos
	pos := building.Pos
	for steps := 0; steps < w.Grid.Width+w.Grid.Height && pos != target; steps++ {
		if pos.X != target.X {
			if pos.X < target.X {
				pos.X++
			} else {
				pos.X--
			}
		} else if pos.Y != target.Y {
			if pos.Y < target.Y {
				pos.Y++
			} else {
				pos.Y--
			}
		}
		if !w.Grid.Terrain(pos).IsWater() {
			w.Grid.SetTerrain(pos, gridworld.TerrainRoad)
		}
	}
}
