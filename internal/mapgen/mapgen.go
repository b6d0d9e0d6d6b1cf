package mapgen

import "github.com/talgya/rts-sim/internal/gridworld"

// Generate builds a complete, ready-to-step World: terrain/elevation/biome
// arrays, scattered resource nodes and wildlife, and each team's starting
// Town Center plus villagers. Mirrors the teacher's top-level
// Generate(cfg) entry point, but operating on an already-allocated World
// (gridworld.NewWorld) instead of returning a bare Map, since the spec's
// World aggregate carries far more than terrain.
func Generate(worldCfg gridworld.WorldConfig, genCfg GenConfig, seed int64) *gridworld.World {
	w := gridworld.NewWorld(worldCfg, seed)
	GenerateTerrain(w, genCfg)
	PlaceTeams(w, genCfg)
	ScatterResources(w, genCfg)
	ScatterWildlife(w, genCfg)
	ScatterRelics(w, genCfg)
	return w
}
