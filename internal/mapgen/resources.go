package mapgen

import (
	"math/rand"

	"github.com/talgya/rts-sim/internal/gridworld"
)

// resourceSalt/wildlifeSalt/relicSalt seed independent RNG streams so
// tuning one density doesn't reshuffle the others' placement.
const (
	resourceSalt = 500
	wildlifeSalt = 600
	relicSalt    = 700
)

// nodeCapacity gives each resource node kind a fixed capacity,
// matching the teacher's makeResources per-terrain yield table in shape
// (a plain per-kind lookup), scoped to the spec's 5 resource-node kinds.
var nodeCapacity = map[gridworld.EntityKind]int{
	gridworld.KindTree:  100,
	gridworld.KindGold:  800,
	gridworld.KindStone: 600,
	gridworld.KindWheat: 175,
	gridworld.KindFish:  200,
}

// ScatterResources seeds resource nodes onto terrain tiles suited to each
// kind: trees on Grass/Stubble, gold/stone clusters on Mud/Dune (treated
// as rocky ground), wheat on Fertile, fish on ShallowWater. Mirrors the
// teacher's makeResources (terrain -> resource map), but spawns discrete
// gridworld.Entity nodes instead of a continuous per-hex yield map.
func ScatterResources(w *gridworld.World, cfg GenConfig) {
	r := rng(w.Seed, resourceSalt)
	width, height := w.Grid.Width, w.Grid.Height

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			c := gridworld.Coord{X: x, Y: y}
			if w.Grid.Primary(c) != gridworld.NoHandle {
				continue
			}
			kind, ok := resourceKindFor(w.Grid.Terrain(c), r, cfg.ResourceDensity)
			if !ok {
				continue
			}
			spawnResourceNode(w, c, kind)
		}
	}
}

func resourceKindFor(t gridworld.TerrainType, rng *rand.Rand, density float64) (gridworld.EntityKind, bool) {
	switch t {
	case gridworld.TerrainGrass, gridworld.TerrainStubble:
		return gridworld.KindTree, rng.Float64() < 0.08*density
	case gridworld.TerrainMud:
		return gridworld.KindGold, rng.Float64() < 0.03*density
	case gridworld.TerrainDune:
		return gridworld.KindStone, rng.Float64() < 0.03*density
	case gridworld.TerrainFertile:
		return gridworld.KindWheat, rng.Float64() < 0.1*density
	case gridworld.TerrainShallowWater:
		return gridworld.KindFish, rng.Float64() < 0.12*density
	default:
		return 0, false
	}
}

func spawnResourceNode(w *gridworld.World, c gridworld.Coord, kind gridworld.EntityKind) {
	w.Spawn(gridworld.Entity{
		Kind:   kind,
		Pos:    c,
		TeamID: -1,
		Inventory: gridworld.Inventory{
			resourceForKind(kind): nodeCapacity[kind],
		},
	})
}

func resourceForKind(kind gridworld.EntityKind) gridworld.ResourceType {
	switch kind {
	case gridworld.KindTree:
		return gridworld.ResourceWood
	case gridworld.KindGold:
		return gridworld.ResourceGold
	case gridworld.KindStone:
		return gridworld.ResourceStone
	case gridworld.KindWheat:
		return gridworld.ResourceWheat
	case gridworld.KindFish:
		return gridworld.ResourceMeat
	default:
		return gridworld.ResourceWood
	}
}

// ScatterWildlife seeds Cow/Wolf/Bear entities on open Grass tiles,
// grounded on the teacher's spawnOne occupation-by-terrain idiom (a
// terrain-conditioned random pick), but for animal kinds instead of
// human occupations.
func ScatterWildlife(w *gridworld.World, cfg GenConfig) {
	r := rng(w.Seed, wildlifeSalt)
	width, height := w.Grid.Width, w.Grid.Height
	herdID, packID := 0, 0

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			c := gridworld.Coord{X: x, Y: y}
			if w.Grid.Terrain(c) != gridworld.TerrainGrass {
				continue
			}
			if w.Grid.Primary(c) != gridworld.NoHandle {
				continue
			}
			roll := r.Float64()
			switch {
			case roll < 0.006*cfg.WildlifeDensity:
				herdID++
				spawnWildlife(w, c, gridworld.KindCow, gridworld.ClassCow, herdID, 0, false)
			case roll < 0.009*cfg.WildlifeDensity:
				packID++
				spawnWildlife(w, c, gridworld.KindWolf, gridworld.ClassWolf, 0, packID, true)
			case roll < 0.0105*cfg.WildlifeDensity:
				spawnWildlife(w, c, gridworld.KindBear, gridworld.ClassBear, 0, 0, false)
			}
		}
	}
}

func spawnWildlife(w *gridworld.World, c gridworld.Coord, kind gridworld.EntityKind, class gridworld.UnitClass, herdID, packID int, leader bool) {
	w.Spawn(gridworld.Entity{
		Kind:         kind,
		Pos:          c,
		TeamID:       -1,
		AgentID:      -1,
		UnitClass:    class,
		HP:           wildlifeHP(kind),
		MaxHP:        wildlifeHP(kind),
		AttackDamage: wildlifeDamage(kind),
		HerdID:       herdID,
		PackID:       packID,
		IsPackLeader: leader,
	})
}

// ScatterRelics drops cfg.RelicCount Relic entities on open, unclaimed
// ground (spec.md Section 4.7's Relic victory needs a fixed, countable
// pool of relics to exist before any monastery can hold them). Grounded
// on ScatterWildlife's reservoir-style random-tile walk.
func ScatterRelics(w *gridworld.World, cfg GenConfig) {
	if cfg.RelicCount <= 0 {
		return
	}
	r := rng(w.Seed, relicSalt)
	width, height := w.Grid.Width, w.Grid.Height
	placed := 0
	for attempts := 0; attempts < width*height && placed < cfg.RelicCount; attempts++ {
		c := gridworld.Coord{X: r.Intn(width), Y: r.Intn(height)}
		if w.Grid.Terrain(c).IsWater() {
			continue
		}
		if w.Grid.Primary(c) != gridworld.NoHandle || w.Grid.Background(c) != gridworld.NoHandle {
			continue
		}
		w.Spawn(gridworld.Entity{
			Kind:      gridworld.KindRelic,
			Pos:       c,
			TeamID:    -1,
			AgentID:   -1,
			Inventory: gridworld.Inventory{gridworld.ResourceRelic: 1},
		})
		placed++
	}
}

func wildlifeHP(kind gridworld.EntityKind) int {
	switch kind {
	case gridworld.KindCow:
		return 15
	case gridworld.KindWolf:
		return 20
	case gridworld.KindBear:
		return 40
	default:
		return 10
	}
}

// wildlifeDamage gives wolves and bears the attack they deal to adjacent
// enemies (spec.md Section 4.1 phase 7: "predators attack adjacent
// enemies dealing unit-class damage"); cows never attack.
func wildlifeDamage(kind gridworld.EntityKind) int {
	switch kind {
	case gridworld.KindWolf:
		return 4
	case gridworld.KindBear:
		return 7
	default:
		return 0
	}
}
