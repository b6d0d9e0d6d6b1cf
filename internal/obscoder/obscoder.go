// Package obscoder rebuilds the egocentric observation tensor for one
// agent (spec.md Section 4.8). It is invoked by the engine's step
// pipeline at phase 10, never called directly by World.
//
// No close teacher analog exists — the teacher streams JSON view structs
// over HTTP rather than building fixed tensors — so this is new code,
// loosely patterned on the "small dense struct rebuilt from live state"
// shape of engine.Simulation.updateStats (recompute derived fields from
// current state on demand, write them into a plain struct). See
// DESIGN.md.
package obscoder

import "github.com/talgya/rts-sim/internal/gridworld"

// Rebuild fills obs from w's state centered on agent agentID's current
// position. Dead or off-grid agents get a zero-filled observation
// (spec.md Section 4.8: "Observations for dead agents are zero-filled").
func Rebuild(w *gridworld.World, agentID int, obs *gridworld.Observation) {
	obs.Clear()

	h := w.AgentEntity[agentID]
	e := w.Entity(h)
	if e == nil || !e.Alive || e.Pos.IsOff() {
		return
	}
	center := e.Pos

	for wx := 0; wx < gridworld.ObservationWidth; wx++ {
		for wy := 0; wy < gridworld.ObservationHeight; wy++ {
			c := gridworld.Coord{
				X: center.X + wx - gridworld.ObservationRadius,
				Y: center.Y + wy - gridworld.ObservationRadius,
			}
			if !w.Grid.InBounds(c) {
				continue
			}
			writeTile(w, obs, wx, wy, c)
		}
	}
}

func writeTile(w *gridworld.World, obs *gridworld.Observation, wx, wy int, c gridworld.Coord) {
	terrain := w.Grid.Terrain(c)
	obs.Layers[gridworld.LayerTerrainBase+int(terrain)][wx][wy] = 1

	occupant := w.EntityAt(c)
	if occupant == nil {
		occupant = w.BackgroundAt(c)
	}
	if occupant == nil || !occupant.Alive {
		return
	}

	obs.Layers[gridworld.LayerEntityBase+int(occupant.Kind)][wx][wy] = 1
	obs.Layers[gridworld.LayerTeam][wx][wy] = byte(occupant.EffectiveTeam() + 1)
	obs.Layers[gridworld.LayerOrientation][wx][wy] = byte(occupant.Orientation) + 1
	obs.Layers[gridworld.LayerUnitClass][wx][wy] = byte(occupant.UnitClass) + 1
	obs.Layers[gridworld.LayerStance][wx][wy] = byte(occupant.Stance) + 1

	if occupant.Kind.IsBuilding() && occupant.MaxHP > 0 {
		ratio := float64(occupant.HP) / float64(occupant.MaxHP)
		obs.Layers[gridworld.LayerBuildingHP][wx][wy] = byte(round(ratio * 255))
	}
	if occupant.Kind.IsGarrisonable() {
		obs.Layers[gridworld.LayerGarrison][wx][wy] = clampByte(len(occupant.GarrisonedUnits))
	}
	if occupant.UnitClass == gridworld.ClassMonk {
		obs.Layers[gridworld.LayerMonkFaith][wx][wy] = clampByte(occupant.Faith)
	}
}

func round(v float64) float64 {
	if v < 0 {
		return 0
	}
	return float64(int(v + 0.5))
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// RebuildDirty rebuilds every agent whose observation is dirty, matching
// the engine's ensureObservations() call at step phase 10 (spec.md
// Section 4.8: "ensureObservations() rebuilds only dirty agents").
func RebuildDirty(w *gridworld.World) {
	PropagateDirty(w)
	for i := range w.Observations {
		if !w.ObsDirty[i] {
			continue
		}
		Rebuild(w, i, w.Observations[i])
		w.ObsDirty[i] = false
	}
}

// PropagateDirty intersects the grid's per-tick dirty-tile set with every
// agent's observation window and marks the agent dirty on a hit (spec.md
// Section 4.8: "a dirty-tile set is maintained by the step phases and
// intersected with each agent's window"). Agents already dirty (e.g. from
// moving or acting this tick) are skipped.
func PropagateDirty(w *gridworld.World) {
	dirty := w.Grid.DirtyTiles()
	if len(dirty) == 0 {
		return
	}
	for i, h := range w.AgentEntity {
		if w.ObsDirty[i] {
			continue
		}
		e := w.Entity(h)
		if e == nil || !e.Alive || e.Pos.IsOff() {
			continue
		}
		center := e.Pos
		for wx := 0; wx < gridworld.ObservationWidth && !w.ObsDirty[i]; wx++ {
			for wy := 0; wy < gridworld.ObservationHeight; wy++ {
				c := gridworld.Coord{
					X: center.X + wx - gridworld.ObservationRadius,
					Y: center.Y + wy - gridworld.ObservationRadius,
				}
				if _, ok := dirty[c]; ok {
					w.ObsDirty[i] = true
					break
				}
			}
		}
	}
}
