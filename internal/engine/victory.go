// Victory and termination check (spec.md Section 4.7): Conquest, Wonder,
// Relic, or All, selected by World.Config.VictoryCondition. Grounded on
// the teacher's settlement-collapse check shape (a handful of per-team
// boolean conditions evaluated every tick, first-true wins), generalized
// from "settlement abandoned" to "team defeated/ascendant."
package engine

import "github.com/talgya/rts-sim/internal/gridworld"

const (
	// WonderVictoryCountdown is how long a Wonder must stand before its
	// team wins (spec.md Section 4.7).
	WonderVictoryCountdown = 1000
	// RelicVictoryCountdown is how long a team must hold every relic on
	// the map before winning.
	RelicVictoryCountdown = 1000
	// TotalRelicsOnMap is the fixed relic pool size scattered by
	// mapgen.ScatterRelics; Relic victory requires one team's Monasteries
	// to hold all of them at once.
	TotalRelicsOnMap = 4
)

// checkVictory runs the configured victory condition(s) and, on a win,
// records VictoryWinners/VictoryWinner, flags shouldReset, and rewards
// every surviving agent on a winning team (spec.md Section 4.7).
func (s *Simulation) checkVictory() {
	w := s.World
	if w.ShouldReset || w.Config.VictoryCondition == gridworld.VictoryNone {
		s.tickWonderCountdowns()
		s.tickRelicCountdowns()
		return
	}

	s.tickWonderCountdowns()
	s.tickRelicCountdowns()

	var winners uint32
	switch w.Config.VictoryCondition {
	case gridworld.VictoryConquest:
		winners = s.conquestWinners()
	case gridworld.VictoryWonder:
		winners = s.wonderWinners()
	case gridworld.VictoryRelic:
		winners = s.relicWinners()
	case gridworld.VictoryAll:
		winners = s.conquestWinners() | s.wonderWinners() | s.relicWinners()
	}
	if winners == 0 {
		return
	}
	s.declareVictory(winners)
}

// tickWonderCountdowns stamps WonderBuiltStep the first tick each team's
// Wonder is observed standing, and resets it to -1 the tick it stops
// (destroyed, or never built).
func (s *Simulation) tickWonderCountdowns() {
	w := s.World
	standing := make([]bool, len(w.Teams))
	for _, h := range w.ByKind(gridworld.KindWonder) {
		e := w.Entity(h)
		if e == nil || !e.Alive {
			continue
		}
		standing[e.EffectiveTeam()] = true
	}
	for t, team := range w.Teams {
		if standing[t] {
			if team.Victory.WonderBuiltStep < 0 {
				team.Victory.WonderBuiltStep = w.CurrentStep
			}
		} else {
			team.Victory.WonderBuiltStep = -1
		}
	}
}

// tickRelicCountdowns stamps RelicHoldStartStep the first tick a team's
// Monasteries together hold every relic on the map, and resets it the
// instant that stops holding (a relic destroyed, stolen, or never
// gathered).
func (s *Simulation) tickRelicCountdowns() {
	w := s.World
	held := make([]int, len(w.Teams))
	for _, h := range w.ByKind(gridworld.KindMonastery) {
		e := w.Entity(h)
		if e == nil || !e.Alive {
			continue
		}
		held[e.EffectiveTeam()] += e.GarrisonedRelics
	}
	for t, team := range w.Teams {
		if held[t] >= TotalRelicsOnMap {
			if team.Victory.RelicHoldStartStep < 0 {
				team.Victory.RelicHoldStartStep = w.CurrentStep
			}
		} else {
			team.Victory.RelicHoldStartStep = -1
		}
	}
}

// conquestWinners returns the bitmask of teams still holding alive
// agents, when every other non-allied team has none left.
func (s *Simulation) conquestWinners() uint32 {
	w := s.World
	aliveTeams := make([]bool, len(w.Teams))
	anyAlive := false
	for t := range w.Teams {
		if w.AliveAgentCount(t) > 0 {
			aliveTeams[t] = true
			anyAlive = true
		}
	}
	if !anyAlive {
		return 0
	}
	var winners uint32
	for t, team := range w.Teams {
		if !aliveTeams[t] {
			continue
		}
		defeatedAllOthers := true
		for other := range w.Teams {
			if other == t || team.Allied(other) {
				continue
			}
			if aliveTeams[other] {
				defeatedAllOthers = false
				break
			}
		}
		if defeatedAllOthers {
			winners |= 1 << uint(t)
		}
	}
	return winners
}

func (s *Simulation) wonderWinners() uint32 {
	w := s.World
	var winners uint32
	for t, team := range w.Teams {
		if team.Victory.WonderBuiltStep >= 0 && w.CurrentStep-team.Victory.WonderBuiltStep >= WonderVictoryCountdown {
			winners |= 1 << uint(t)
		}
	}
	return winners
}

func (s *Simulation) relicWinners() uint32 {
	w := s.World
	var winners uint32
	for t, team := range w.Teams {
		if team.Victory.RelicHoldStartStep >= 0 && w.CurrentStep-team.Victory.RelicHoldStartStep >= RelicVictoryCountdown {
			winners |= 1 << uint(t)
		}
	}
	return winners
}

// declareVictory records the win and rewards every winning team's
// surviving agents, truncating (not terminating) them so the caller can
// distinguish "episode ended by victory" from "agent died."
func (s *Simulation) declareVictory(winners uint32) {
	w := s.World
	w.VictoryWinners = winners
	w.VictoryWinner = -1
	for t := 0; t < len(w.Teams); t++ {
		if winners&(1<<uint(t)) != 0 {
			w.VictoryWinner = t
			break
		}
	}
	w.ShouldReset = true

	for i, h := range w.AgentEntity {
		e := w.Entity(h)
		if e == nil || !e.Alive || w.Terminated[i] != 0 {
			continue
		}
		if winners&(1<<uint(e.EffectiveTeam())) == 0 {
			continue
		}
		w.Reward[i] += w.Config.Rewards.VictoryReward
		w.Truncated[i] = 1.0
	}

	s.emit(Event{Step: w.CurrentStep, Kind: "victory", Team: w.VictoryWinner})
}
