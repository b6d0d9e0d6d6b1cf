package mapgen

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/rts-sim/internal/gridworld"
)

// GenerateTerrain fills w.Grid's terrain/elevation/biome arrays from
// layered opensimplex noise, the same octaveNoise/elevation-rainfall-
// temperature shape as the teacher's Generate/octaveNoise/deriveTerrain,
// re-thresholded for the spec's square-grid terrain palette.
func GenerateTerrain(w *gridworld.World, cfg GenConfig) {
	seed := w.Seed
	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)

	width, height := w.Grid.Width, w.Grid.Height
	cx, cy := float64(width)/2, float64(height)/2
	maxDist := math.Hypot(cx, cy)

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			fx, fy := float64(x), float64(y)

			elev := octaveNoise(elevNoise, fx, fy, 4, 0.06, 0.5)
			rain := octaveNoise(rainNoise, fx, fy, 3, 0.05, 0.5)
			temp := octaveNoise(tempNoise, fx, fy, 3, 0.045, 0.5)

			// Continental shaping: fade elevation toward the border so
			// starting corners are never stranded behind water/highland.
			dist := math.Hypot(fx-cx, fy-cy) / maxDist
			falloff := 1.0 - math.Pow(dist, 3.0)
			if falloff < 0 {
				falloff = 0
			}
			elev *= falloff

			c := gridworld.Coord{X: x, Y: y}
			terrain := deriveTerrain(elev, rain, temp, cfg)
			w.Grid.SetTerrain(c, terrain)
			w.Grid.SetElevation(c, int8(elev*100))
			w.Grid.SetBiome(c, deriveBiome(rain, temp))
		}
	}

	markCoastalBiome(w)
}

// deriveTerrain maps elevation/rainfall/temperature to one of the spec's
// terrain types, analogous to the teacher's threshold cascade.
func deriveTerrain(elev, rain, temp float64, cfg GenConfig) gridworld.TerrainType {
	if elev < cfg.SeaLevel*0.7 {
		return gridworld.TerrainWater
	}
	if elev < cfg.SeaLevel {
		return gridworld.TerrainShallowWater
	}
	if temp < 0.25 {
		return gridworld.TerrainSnow
	}
	if rain < 0.25 && temp > 0.55 {
		if elev > cfg.HighlandLevel*0.7 {
			return gridworld.TerrainDune
		}
		return gridworld.TerrainSand
	}
	if rain > 0.65 && elev < cfg.HighlandLevel*0.5 {
		return gridworld.TerrainMud
	}
	if rain > 0.45 {
		return gridworld.TerrainFertile
	}
	if rain < 0.35 {
		return gridworld.TerrainStubble
	}
	return gridworld.TerrainGrass
}

// deriveBiome is a display-only classification (spec.md Section 3),
// independent of the movement-affecting terrain derivation above.
func deriveBiome(rain, temp float64) gridworld.BiomeType {
	switch {
	case temp < 0.25:
		return gridworld.BiomeArctic
	case rain < 0.25 && temp > 0.55:
		return gridworld.BiomeArid
	case rain > 0.6:
		return gridworld.BiomeWetland
	default:
		return gridworld.BiomeTemperate
	}
}

// markCoastalBiome relabels any non-water tile adjacent to Water/
// ShallowWater as BiomeCoastal, mirroring the teacher's markCoastalHexes
// post-pass (display-only; does not affect terrain or movement).
func markCoastalBiome(w *gridworld.World) {
	width, height := w.Grid.Width, w.Grid.Height
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			c := gridworld.Coord{X: x, Y: y}
			if w.Grid.Terrain(c).IsWater() {
				continue
			}
			for _, n := range gridworld.CardinalNeighbors(c) {
				if !w.Grid.InBounds(n) {
					continue
				}
				if w.Grid.Terrain(n).IsWater() {
					w.Grid.SetBiome(c, gridworld.BiomeCoastal)
					break
				}
			}
		}
	}
}

// octaveNoise layers multiple frequencies of noise for natural-looking
// variation, identical in shape to the teacher's octaveNoise helper.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

// rng returns a generation-local RNG derived from the world seed, kept
// separate from w.RNG so map generation never consumes ticks from the
// episode's action-resolution random stream (spec.md Section 5:
// determinism requires the per-step RNG draws to depend only on prior
// steps' actions, not on setup).
func rng(seed int64, salt int64) *rand.Rand {
	return rand.New(rand.NewSource(seed + salt))
}
