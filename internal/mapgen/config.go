// Package mapgen is the injected world initializer: it fills a freshly
// allocated gridworld.World's terrain/elevation/biome arrays, scatters
// resource nodes and wildlife, and places each team's starting Town
// Center and villagers. Core Step/World never import this package — it
// is wired in only by cmd/envserver and tests, matching spec.md Section
// 9's framing of the initializer as an injected external collaborator.
//
// Grounded on the teacher's internal/world/generation.go (layered
// opensimplex-go noise -> threshold-derived terrain), adapted from hex
// coordinates to the spec's square grid and from the teacher's
// plains/forest/mountain/desert/swamp/tundra/ocean/river/coast palette to
// gridworld's Grass/Sand/Snow/Mud/Dune/Water/ShallowWater/Fertile set.
package mapgen

// GenConfig controls terrain generation, matching the teacher's
// GenConfig/DefaultGenConfig/SmallTestConfig pattern: a plain struct with
// named constructors, no file or flag parsing at this layer.
type GenConfig struct {
	// SeaLevel is the elevation threshold below which a tile becomes
	// Water (or ShallowWater near the boundary).
	SeaLevel float64
	// Elevation above this threshold never occurs on the grid's border
	// ring, keeping starting corners clear of impassable high ground.
	HighlandLevel float64

	// ResourceDensity scales how many resource-node clusters are seeded
	// per tile of land, in [0, 1].
	ResourceDensity float64
	// WildlifeDensity scales how many wildlife spawns are seeded per tile
	// of land, in [0, 1].
	WildlifeDensity float64

	// StartingVillagers is how many villager agents each team begins
	// with, clustered around its Town Center.
	StartingVillagers int
	// StartingStockpile seeds each team's Wood/Food/Gold/Stone stockpile.
	// Not specified by spec.md Section 3 (stockpiles simply start
	// wherever the initializer puts them); chosen to match the common
	// RTS convention of enough Wood+Food to train one or two additional
	// villagers before any gathering has happened. See DESIGN.md.
	StartingStockpile [4]int64

	// RelicCount is how many Relics are scattered on neutral ground,
	// sized so Relic victory (spec.md Section 4.7) is reachable without
	// a team needing to hold every Monastery.
	RelicCount int
}

// DefaultGenConfig returns a reasonable configuration for a full episode.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		SeaLevel:          0.28,
		HighlandLevel:     0.78,
		ResourceDensity:   1.0,
		WildlifeDensity:   1.0,
		StartingVillagers: 3,
		StartingStockpile: [4]int64{200, 200, 100, 200},
		RelicCount:        4,
	}
}

// SmallTestConfig returns a tiny, fast-to-generate configuration for unit
// tests, matching the teacher's SmallTestConfig idiom.
func SmallTestConfig() GenConfig {
	return GenConfig{
		SeaLevel:          0.2,
		HighlandLevel:     0.85,
		ResourceDensity:   0.6,
		WildlifeDensity:   0.4,
		StartingVillagers: 1,
		StartingStockpile: [4]int64{100, 100, 50, 100},
		RelicCount:        2,
	}
}
