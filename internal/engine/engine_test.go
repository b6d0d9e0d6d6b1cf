package engine

import (
	"github.com/talgya/rts-sim/internal/gridworld"
)

// newTestWorld builds a minimal world with no terrain/resource
// generation, suitable for exercising combat/production/movement logic
// directly without going through internal/mapgen.
func newTestWorld(width, height, teamCount, agentsPerTeam int) *gridworld.World {
	cfg := gridworld.DefaultWorldConfig()
	cfg.Map = gridworld.MapDimensions{Width: width, Height: height, TeamCount: teamCount, AgentsPerTeam: agentsPerTeam}
	return gridworld.NewWorld(cfg, 1)
}

func newTestSim(width, height, teamCount, agentsPerTeam int) (*Simulation, *gridworld.World) {
	w := newTestWorld(width, height, teamCount, agentsPerTeam)
	s := NewSimulation(w, nil)
	return s, w
}
