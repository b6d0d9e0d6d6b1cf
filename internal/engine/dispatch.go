package engine

import (
	"github.com/talgya/rts-sim/internal/ai"
	"github.com/talgya/rts-sim/internal/gridworld"
)

// processDeferredCommands is the phase-3 seam of the step pipeline and
// does nothing. A command queued with ai.Controller.QueueCommand stays on
// the agent's AgentState.Pending until ai.Decide takes it (via
// TakeCommand) when that agent is dispatched in phase 5, so commands are
// applied one agent at a time in shuffled order, not all before the first
// agent acts, and only for agents on AI-controlled teams.
func (s *Simulation) processDeferredCommands() {
	// Pending commands are consumed per agent by ai.Decide during phase 5;
	// nothing is drained here.
}

// dispatchAgent resolves and applies one agent's action for this tick.
func (s *Simulation) dispatchAgent(agentID int, actions []byte) {
	w := s.World
	h := w.AgentEntity[agentID]
	e := w.Entity(h)
	if e == nil || !e.Alive || w.Terminated[agentID] != 0 {
		return
	}

	var action gridworld.Action
	if w.Config.AIControlledTeams&(1<<uint(e.EffectiveTeam())) != 0 {
		action = aiDecide(s, agentID)
	} else if agentID < len(actions) {
		action = gridworld.Decode(actions[agentID])
	}

	switch action.Verb {
	case gridworld.VerbNoop:
		// No-op: silent, per spec.md Section 7's "Action-rejected" taxonomy.
	case gridworld.VerbMove:
		s.handleMove(agentID, gridworld.Orientation(action.Arg))
	case gridworld.VerbAttack:
		s.handleAttack(agentID, gridworld.Orientation(action.Arg))
	case gridworld.VerbUse:
		s.handleUse(agentID, action.Arg)
	case gridworld.VerbGive:
		s.handleGive(agentID, gridworld.Orientation(action.Arg))
	case gridworld.VerbBuild:
		s.handleBuild(agentID, action.Arg)
	}
}

// aiDecide asks the ai.Controller for an action, sharing World.RNG so
// every random draw in the episode — including AI behavior selection —
// flows through the single seeded generator (spec.md Section 5).
func aiDecide(s *Simulation, agentID int) gridworld.Action {
	return ai.Decide(s.World, s.Controller, s.Catalog, agentID, s.World.RNG)
}
