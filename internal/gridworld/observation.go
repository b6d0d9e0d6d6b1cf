package gridworld

// Observation window dimensions (spec.md Section 4.8): a fixed egocentric
// tensor of radius R=5, giving an 11x11 footprint.
const (
	ObservationRadius = 5
	ObservationWidth  = 2*ObservationRadius + 1
	ObservationHeight = 2*ObservationRadius + 1
)

// Layer layout: one one-hot layer per TerrainType, one one-hot layer per
// EntityKind, then 7 scalar layers (Team, Orientation, UnitClass, Stance,
// BuildingHp, GarrisonCount, MonkFaith). See spec.md Section 4.8.
const (
	LayerTerrainBase = 0
	LayerEntityBase  = LayerTerrainBase + TerrainTypeCount
	LayerTeam        = LayerEntityBase + EntityKindCount
	LayerOrientation = LayerTeam + 1
	LayerUnitClass   = LayerOrientation + 1
	LayerStance      = LayerUnitClass + 1
	LayerBuildingHP  = LayerStance + 1
	LayerGarrison    = LayerBuildingHP + 1
	LayerMonkFaith   = LayerGarrison + 1

	ObservationLayerCount = LayerMonkFaith + 1
)

// Observation is the egocentric tensor returned to an RL policy for one
// agent: [Layers][Width][Height] bytes. Slice-backed (not a fixed array)
// so large layer counts don't force giant stack copies, matching the
// teacher's preference for slice-based collections over arrays throughout
// (e.g. Simulation.Agents, Settlement lists).
type Observation struct {
	Layers [][][]byte // [layer][x][y], x/y in [0, ObservationWidth/Height)
}

// NewObservation allocates a zero-filled observation tensor.
func NewObservation() *Observation {
	obs := &Observation{Layers: make([][][]byte, ObservationLayerCount)}
	for l := range obs.Layers {
		obs.Layers[l] = make([][]byte, ObservationWidth)
		for x := range obs.Layers[l] {
			obs.Layers[l][x] = make([]byte, ObservationHeight)
		}
	}
	return obs
}

// Clear zero-fills the observation in place, reused for dead agents and
// for rebuilding dirty agents without reallocating.
func (o *Observation) Clear() {
	for l := range o.Layers {
		for x := range o.Layers[l] {
			row := o.Layers[l][x]
			for y := range row {
				row[y] = 0
			}
		}
	}
}
