package engine

import (
	"testing"

	"github.com/talgya/rts-sim/internal/gridworld"
)

func TestConquestWinnersRequiresAllOthersDead(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	h := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: 0})
	w.AgentEntity[0] = h
	w.AgentEntity[1] = gridworld.NoHandle

	winners := s.conquestWinners()
	if winners != 1 {
		t.Errorf("conquestWinners() = %b, want bit 0 set", winners)
	}
}

func TestConquestWinnersNoneWhileBothSidesAlive(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	h0 := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: 0})
	h1 := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 2, Y: 1}, TeamID: 1, AgentID: 1})
	w.AgentEntity[0], w.AgentEntity[1] = h0, h1

	if s.conquestWinners() != 0 {
		t.Error("conquestWinners should be 0 while more than one non-allied team is alive")
	}
}

func TestConquestWinnersExcludesAlliedTeams(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	h0 := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: 0})
	h1 := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 2, Y: 1}, TeamID: 1, AgentID: 1})
	w.AgentEntity[0], w.AgentEntity[1] = h0, h1
	w.Teams[0].SetAllied(1, true)
	w.Teams[1].SetAllied(0, true)

	if winners := s.conquestWinners(); winners != 3 {
		t.Errorf("conquestWinners() = %b, want both allied teams (bits 0 and 1) since neither has a live non-allied opponent", winners)
	}
}

func TestTickWonderCountdownsStampsAndResets(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.CurrentStep = 10
	h := w.Spawn(gridworld.Entity{Kind: gridworld.KindWonder, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1})

	s.tickWonderCountdowns()
	if w.Teams[0].Victory.WonderBuiltStep != 10 {
		t.Errorf("WonderBuiltStep = %d, want 10", w.Teams[0].Victory.WonderBuiltStep)
	}

	w.Destroy(h)
	s.tickWonderCountdowns()
	if w.Teams[0].Victory.WonderBuiltStep != -1 {
		t.Error("destroying the Wonder should reset the countdown to -1")
	}
}

func TestWonderWinnersRequiresFullCountdown(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Teams[0].Victory.WonderBuiltStep = 0
	w.CurrentStep = WonderVictoryCountdown - 1

	if s.wonderWinners() != 0 {
		t.Error("wonderWinners should be 0 before the countdown elapses")
	}

	w.CurrentStep = WonderVictoryCountdown
	if s.wonderWinners() != 1 {
		t.Error("wonderWinners should include the team once the countdown elapses")
	}
}

func TestTickRelicCountdownsRequiresAllRelics(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Spawn(gridworld.Entity{Kind: gridworld.KindMonastery, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1, GarrisonedRelics: TotalRelicsOnMap - 1})

	s.tickRelicCountdowns()
	if w.Teams[0].Victory.RelicHoldStartStep != -1 {
		t.Error("holding fewer than TotalRelicsOnMap should not start the countdown")
	}
}

func TestRelicWinnersRequiresFullCountdown(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Teams[0].Victory.RelicHoldStartStep = 0
	w.CurrentStep = RelicVictoryCountdown

	if s.relicWinners() != 1 {
		t.Error("relicWinners should include the team once the countdown elapses")
	}
}

func TestDeclareVictoryRewardsAndTruncatesWinningTeam(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 2)
	h0 := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: 0})
	h1 := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 2, Y: 1}, TeamID: 1, AgentID: 1})
	w.AgentEntity[0], w.AgentEntity[1] = h0, h1

	s.declareVictory(1) // team 0 wins

	if w.VictoryWinner != 0 {
		t.Errorf("VictoryWinner = %d, want 0", w.VictoryWinner)
	}
	if !w.ShouldReset {
		t.Error("ShouldReset should be set after a victory is declared")
	}
	if w.Reward[0] != w.Config.Rewards.VictoryReward || w.Truncated[0] != 1.0 {
		t.Error("the winning team's agent should be rewarded and truncated")
	}
	if w.Reward[1] != 0 || w.Truncated[1] != 0 {
		t.Error("a non-winning team's agent should be untouched")
	}
}
