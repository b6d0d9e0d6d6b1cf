package gridworld

// TerrainType classifies a tile for movement legality and speed.
// See spec.md Section 3 (Grid layer).
type TerrainType uint8

const (
	TerrainEmpty TerrainType = iota
	TerrainGrass
	TerrainSand
	TerrainSnow
	TerrainMud
	TerrainDune
	TerrainWater
	TerrainShallowWater
	TerrainRoad
	TerrainStubble
	TerrainRampUpN
	TerrainRampUpS
	TerrainRampUpW
	TerrainRampUpE
	TerrainRampDownN
	TerrainRampDownS
	TerrainRampDownW
	TerrainRampDownE
	TerrainFertile
	terrainTypeCount
)

// TerrainTypeCount is the number of distinct terrain values, used to size
// the observation encoder's one-hot terrain layers (spec.md Section 4.8).
const TerrainTypeCount = int(terrainTypeCount)

// IsWater reports whether t is a water terrain (Water or ShallowWater).
func (t TerrainType) IsWater() bool {
	return t == TerrainWater || t == TerrainShallowWater
}

// IsRampUp reports whether t is an "uphill" ramp and, if so, the direction
// it is oriented toward.
func (t TerrainType) IsRampUp() (Orientation, bool) {
	switch t {
	case TerrainRampUpN:
		return North, true
	case TerrainRampUpS:
		return South, true
	case TerrainRampUpW:
		return West, true
	case TerrainRampUpE:
		return East, true
	}
	return 0, false
}

// IsRampDown reports whether t is a "downhill" ramp and its direction.
func (t TerrainType) IsRampDown() (Orientation, bool) {
	switch t {
	case TerrainRampDownN:
		return North, true
	case TerrainRampDownS:
		return South, true
	case TerrainRampDownW:
		return West, true
	case TerrainRampDownE:
		return East, true
	}
	return 0, false
}

// BiomeType is a display/categorical label; it has no effect on simulation
// rules, matching spec.md Section 3's note that it is display-only.
type BiomeType uint8

const (
	BiomeTemperate BiomeType = iota
	BiomeArid
	BiomeArctic
	BiomeWetland
	BiomeCoastal
)

// TerrainSpeedScale is the fixed-point scale used by the movement debt
// accumulator (spec.md Section 4.2): debt added per move is
// round((1.0 - terrainSpeed) * TerrainSpeedScale).
const TerrainSpeedScale = 100

// TerrainSpeedThreshold is the debt level at which a move is skipped; debt
// decreases by the threshold when it is crossed.
const TerrainSpeedThreshold = 100

// terrainSpeed is the deterministic per-terrain speed multiplier lookup,
// grounded on the teacher's weather.MapToSim condition->modifier table
// idiom (see DESIGN.md): a plain map from a discrete condition to a
// multiplier, no external data source, no randomness.
var terrainSpeed = map[TerrainType]float64{
	TerrainEmpty:        1.0,
	TerrainGrass:        1.0,
	TerrainSand:         0.9,
	TerrainSnow:         0.8,
	TerrainMud:          0.7,
	TerrainDune:         0.85,
	TerrainWater:        1.0,
	TerrainShallowWater: 1.0,
	TerrainRoad:         1.0,
	TerrainStubble:      0.95,
	TerrainFertile:      1.0,
}

// TerrainSpeed returns the movement-speed multiplier for the given terrain.
// Ramp tiles use the base-terrain speed of 1.0; unlisted terrains default
// to 1.0 (no slowdown).
func TerrainSpeed(t TerrainType) float64 {
	if v, ok := terrainSpeed[t]; ok {
		return v
	}
	return 1.0
}

// SpeedDebt computes the integer debt contribution of one move across
// terrain t, per spec.md Section 4.2.
func SpeedDebt(t TerrainType) int {
	speed := TerrainSpeed(t)
	debt := (1.0 - speed) * TerrainSpeedScale
	// round-half-up, matching the spec's round() wording.
	if debt < 0 {
		return 0
	}
	return int(debt + 0.5)
}
