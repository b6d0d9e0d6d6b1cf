package mapgen

import (
	"math"

	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/teamstate"
)

// townCenterHP/villagerHP are the starting entities' base stats, matching
// the magnitudes implied by spec.md Section 4.3's armor-category table
// (villagers are Infantry-category at the lowest HP tier).
const (
	townCenterHP = 600
	villagerHP   = 25
	villagerDmg  = 3
)

// PlaceTeams spawns each team's starting Town Center plus
// cfg.StartingVillagers villagers, arranged with rotational symmetry
// around the map center so no team starts with a positional advantage —
// team i's corner is i*(360/TeamCount) degrees around the center at a
// fixed radius. Grounded on the teacher's SpawnPopulation(count, position,
// ...) shape: one call per team, looping spawnOne-equivalents around a
// shared anchor point.
func PlaceTeams(w *gridworld.World, cfg GenConfig) {
	teamCount := w.Config.Map.TeamCount
	width, height := w.Grid.Width, w.Grid.Height
	cx, cy := float64(width)/2, float64(height)/2
	radius := math.Min(cx, cy) * 0.8

	agentID := 0
	for team := 0; team < teamCount; team++ {
		angle := 2 * math.Pi * float64(team) / float64(teamCount)
		anchor := gridworld.Coord{
			X: clampCoord(int(cx+radius*math.Cos(angle)), width),
			Y: clampCoord(int(cy+radius*math.Sin(angle)), height),
		}
		anchor = nearestLand(w, anchor)

		tcPos := anchor
		w.Grid.SetTerrain(tcPos, gridworld.TerrainGrass)
		w.Spawn(gridworld.Entity{
			Kind:             gridworld.KindTownCenter,
			Pos:              tcPos,
			TeamID:           team,
			AgentID:          -1,
			HP:               townCenterHP,
			MaxHP:            townCenterHP,
			GarrisonCapacity: 10,
		})

		for i := 0; i < cfg.StartingVillagers; i++ {
			if agentID >= len(w.AgentEntity) {
				break
			}
			pos := ringTile(w, tcPos, i+1)
			h := w.Spawn(gridworld.Entity{
				Kind:         gridworld.KindAgent,
				Pos:          pos,
				TeamID:       team,
				AgentID:      agentID,
				UnitClass:    gridworld.ClassVillager,
				HP:           villagerHP,
				MaxHP:        villagerHP,
				AttackDamage: villagerDmg,
				Stance:       gridworld.StanceDefensive,
			})
			w.AgentEntity[agentID] = h
			w.ObsDirty[agentID] = true
			agentID++
		}

		for r, amt := range cfg.StartingStockpile {
			// GenConfig.StartingStockpile's index order (Wood, Food, Gold,
			// Stone) matches teamstate.Resource's enum order exactly.
			w.Teams[team].Credit(teamstate.Resource(r), amt)
		}

		spawnSupportBuildings(w, team, tcPos, cfg.StartingVillagers)
	}
}

// spawnSupportBuildings places one each of University, Blacksmith,
// GuardTower, Mill, LumberCamp, and MiningCamp near each team's starting
// Town Center. These six building kinds are deliberately absent from the
// Build verb's fixed index table (spec.md Section 6: BuildIndexCount is
// capped by ArgCount=11, too small for all 19 building kinds), so the map
// initializer seeds one of each instead — keeping University/Blacksmith
// tech research, tower defense, and the Mill/LumberCamp/MiningCamp
// dropoff roles (spec.md Section 4.4) reachable every episode without
// expanding the action encoding. See DESIGN.md.
func spawnSupportBuildings(w *gridworld.World, team int, tcPos gridworld.Coord, ring int) {
	kinds := [6]gridworld.EntityKind{
		gridworld.KindUniversity, gridworld.KindBlacksmith, gridworld.KindGuardTower,
		gridworld.KindMill, gridworld.KindLumberCamp, gridworld.KindMiningCamp,
	}
	hps := [6]int{300, 250, 420, 200, 200, 200}
	for i, kind := range kinds {
		pos := ringTile(w, tcPos, ring+2+i)
		w.Grid.SetTerrain(pos, gridworld.TerrainGrass)
		h := w.Spawn(gridworld.Entity{
			Kind:    kind,
			Pos:     pos,
			TeamID:  team,
			AgentID: -1,
			HP:      hps[i],
			MaxHP:   hps[i],
		})
		if kind == gridworld.KindMill || kind == gridworld.KindLumberCamp || kind == gridworld.KindMiningCamp {
			paveRoadToTownCenter(w, w.Entity(h), tcPos)
		}
	}
}

// paveRoadToTownCenter lays Road terrain in a straight line from
// building's position toward tcPos (spec.md Section 4.5's auto-paving
// behavior for dropoff buildings, duplicated here in miniature since
// mapgen cannot import engine's paveRoadToNearestTownCenter).
func paveRoadToTownCenter(w *gridworld.World, building *gridworld.Entity, tcPos gridworld.Coord) {
	if building == nil {
		return
	}
	pos := building.Pos
	for steps := 0; steps < w.Grid.Width+w.Grid.Height && pos != tcPos; steps++ {
		if pos.X != tcPos.X {
			if pos.X < tcPos.X {
				pos.X++
			} else {
				pos.X--
			}
		} else if pos.Y != tcPos.Y {
			if pos.Y < tcPos.Y {
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

// ringTile finds an open tile at Chebyshev distance ring from center,
// scanning the fixed N,E,S,W,NW,NE,SW,SE search order spec.md Section 4.5
// specifies for building/placement searches, widening the ring until an
// open land tile is found.
func ringTile(w *gridworld.World, center gridworld.Coord, ring int) gridworld.Coord {
	for r := ring; r < ring+8; r++ {
		for _, c := range gridworld.EightNeighbors(gridworld.Coord{X: center.X, Y: center.Y}) {
			cand := gridworld.Coord{X: center.X + (c.X-center.X)*r, Y: center.Y + (c.Y-center.Y)*r}
			if isOpenLand(w, cand) {
				return cand
			}
		}
	}
	return center
}

func nearestLand(w *gridworld.World, start gridworld.Coord) gridworld.Coord {
	if isOpenLand(w, start) {
		return start
	}
	for r := 1; r < 20; r++ {
		for _, c := range gridworld.EightNeighbors(start) {
			cand := gridworld.Coord{X: start.X + (c.X-start.X)*r, Y: start.Y + (c.Y-start.Y)*r}
			if isOpenLand(w, cand) {
				return cand
			}
		}
	}
	return start
}

func isOpenLand(w *gridworld.World, c gridworld.Coord) bool {
	if !w.Grid.InBounds(c) {
		return false
	}
	if w.Grid.Terrain(c).IsWater() {
		return false
	}
	if w.Grid.Primary(c) != gridworld.NoHandle {
		return false
	}
	return true
}

func clampCoord(v, max int) int {
	if v < 1 {
		return 1
	}
	if v > max-2 {
		return max - 2
	}
	return v
}
