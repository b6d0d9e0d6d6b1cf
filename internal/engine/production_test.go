package engine

import (
	"testing"

	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/teamstate"
)

func TestTickProductionDecrementsOnlyQueueHead(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))
	tc.ProductionQueue = []gridworld.QueueEntry{
		{UnitClass: gridworld.ClassVillager, RemainingSteps: 3},
		{UnitClass: gridworld.ClassVillager, RemainingSteps: 3},
	}

	s.tickProduction()

	if tc.ProductionQueue[0].RemainingSteps != 2 {
		t.Errorf("head RemainingSteps = %d, want 2", tc.ProductionQueue[0].RemainingSteps)
	}
	if tc.ProductionQueue[1].RemainingSteps != 3 {
		t.Error("only the head entry should decrement")
	}
}

func TestEnqueueOrCompleteDebitsCostAndQueues(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Teams[0].Credit(teamstate.ResourceFood, 1000)
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))
	actor := &gridworld.Entity{Kind: gridworld.KindAgent, TeamID: 0, UnitClass: gridworld.ClassVillager}

	s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)

	if len(tc.ProductionQueue) != 1 {
		t.Fatalf("ProductionQueue length = %d, want 1", len(tc.ProductionQueue))
	}
	wantFood := int64(1000) - unitStats[gridworld.ClassVillager].Cost[1]
	if w.Teams[0].Stockpile[teamstate.ResourceFood] != wantFood {
		t.Errorf("Stockpile[Food] = %d, want %d", w.Teams[0].Stockpile[teamstate.ResourceFood], wantFood)
	}
}

func TestEnqueueOrCompleteRejectsWithoutFunds(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))
	actor := &gridworld.Entity{Kind: gridworld.KindAgent, TeamID: 0, UnitClass: gridworld.ClassVillager}

	s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)

	if len(tc.ProductionQueue) != 0 {
		t.Error("enqueue should be rejected when the team cannot afford the cost")
	}
}

func TestEnqueueOrCompleteRejectsAtQueueCapacity(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Teams[0].Credit(teamstate.ResourceFood, 100000)
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))
	actor := &gridworld.Entity{Kind: gridworld.KindAgent, TeamID: 0, UnitClass: gridworld.ClassVillager}
	for i := 0; i < ProductionQueueMaxSize; i++ {
		s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)
	}
	if len(tc.ProductionQueue) != ProductionQueueMaxSize {
		t.Fatalf("queue length = %d, want %d before the capacity test", len(tc.ProductionQueue), ProductionQueueMaxSize)
	}

	s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)

	if len(tc.ProductionQueue) != ProductionQueueMaxSize {
		t.Error("enqueue should reject once the queue is at capacity")
	}
}

func TestEnqueueOrCompleteConvertsFinishedHeadIntoActor(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))
	tc.ProductionQueue = []gridworld.QueueEntry{{UnitClass: gridworld.ClassManAtArms, RemainingSteps: 0}}
	actorH := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 2, Y: 1}, TeamID: 0, AgentID: -1, UnitClass: gridworld.ClassVillager, HP: 25, MaxHP: 25})
	actor := w.Entity(actorH)

	s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)

	if len(tc.ProductionQueue) != 0 {
		t.Error("completing the head should remove it from the queue")
	}
	if actor.UnitClass != gridworld.ClassManAtArms {
		t.Errorf("actor UnitClass = %v, want ManAtArms after conversion", actor.UnitClass)
	}
	if actor.HP != unitStats[gridworld.ClassManAtArms].HP {
		t.Errorf("actor HP = %d, want the new class's base HP", actor.HP)
	}
}

func TestApplyUnitClassResetsHP(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	h := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1, UnitClass: gridworld.ClassVillager, HP: 5, MaxHP: 25})
	e := w.Entity(h)

	s.applyUnitClass(e, gridworld.ClassKnight)

	if e.HP != unitStats[gridworld.ClassKnight].HP || e.MaxHP != unitStats[gridworld.ClassKnight].HP {
		t.Errorf("HP/MaxHP = %d/%d, want both reset to %d", e.HP, e.MaxHP, unitStats[gridworld.ClassKnight].HP)
	}
}

func TestPromoteTeamUnitsPreservesHPRatio(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	h := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1, UnitClass: gridworld.ClassManAtArms, HP: 22, MaxHP: 44})

	s.promoteTeamUnits(0, gridworld.ClassManAtArms, gridworld.ClassLongSwordsman)

	e := w.Entity(h)
	if e.UnitClass != gridworld.ClassLongSwordsman {
		t.Fatal("unit should be promoted to the new class")
	}
	wantHP := int(0.5 * float64(unitStats[gridworld.ClassLongSwordsman].HP))
	if e.HP != wantHP {
		t.Errorf("HP = %d, want %d (50%% ratio preserved)", e.HP, wantHP)
	}
}

func TestPromoteTeamUnitsDoesNotAffectOtherTeams(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	h := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 1, AgentID: -1, UnitClass: gridworld.ClassManAtArms, HP: 45, MaxHP: 45})

	s.promoteTeamUnits(0, gridworld.ClassManAtArms, gridworld.ClassLongSwordsman)

	if w.Entity(h).UnitClass != gridworld.ClassManAtArms {
		t.Error("promoting team 0 should not affect team 1's units")
	}
}

func TestHandleGarrisonMovesActorOffGrid(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	building := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1, GarrisonCapacity: 2}))
	actorH := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 2, Y: 1}, TeamID: 0, AgentID: -1})
	actor := w.Entity(actorH)

	s.handleGarrison(actor, building)

	if !actor.IsGarrisoned || !actor.Pos.IsOff() {
		t.Error("a garrisoned actor should be off-grid and flagged IsGarrisoned")
	}
	if len(building.GarrisonedUnits) != 1 || building.GarrisonedUnits[0] != actorH {
		t.Error("building should track the garrisoned handle")
	}
}

func TestHandleGarrisonRejectsAtCapacity(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	building := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1, GarrisonCapacity: 0}))
	actorH := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: gridworld.Coord{X: 2, Y: 1}, TeamID: 0, AgentID: -1})
	actor := w.Entity(actorH)

	s.handleGarrison(actor, building)

	if actor.IsGarrisoned {
		t.Error("garrison should be rejected once GarrisonCapacity is 0")
	}
}

func TestHandleBlacksmithResearchAdvancesFirstUnmaxedLine(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Teams[0].Credit(teamstate.ResourceFood, 10000)
	w.Teams[0].Credit(teamstate.ResourceGold, 10000)
	blacksmith := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindBlacksmith, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))
	actor := &gridworld.Entity{Kind: gridworld.KindAgent, TeamID: 0, UnitClass: gridworld.ClassVillager}

	s.handleBlacksmithResearch(actor, blacksmith)

	if w.Teams[0].BlacksmithTechs.Level(teamstate.LineMeleeAttack) != 1 {
		t.Errorf("LineMeleeAttack level = %d, want 1", w.Teams[0].BlacksmithTechs.Level(teamstate.LineMeleeAttack))
	}
}

func TestCancelQueueTailRefundsExactCost(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Teams[0].Credit(teamstate.ResourceFood, 1000)
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))
	actor := &gridworld.Entity{Kind: gridworld.KindAgent, TeamID: 0, UnitClass: gridworld.ClassVillager}

	s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)
	afterEnqueue := w.Teams[0].Stockpile[teamstate.ResourceFood]

	ok := s.cancelQueueTail(tc)

	if !ok {
		t.Fatal("cancelQueueTail should report success with a queued entry")
	}
	if len(tc.ProductionQueue) != 0 {
		t.Error("cancelQueueTail should pop the tail entry")
	}
	wantFood := afterEnqueue + unitStats[gridworld.ClassVillager].Cost[1]
	if w.Teams[0].Stockpile[teamstate.ResourceFood] != wantFood {
		t.Errorf("Stockpile[Food] after cancel = %d, want %d (exact refund)", w.Teams[0].Stockpile[teamstate.ResourceFood], wantFood)
	}
}

func TestCancelQueueTailOnEmptyQueueIsNoop(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))

	if s.cancelQueueTail(tc) {
		t.Error("cancelQueueTail on an empty queue should report false")
	}
}

func TestCancelQueueTailPopsLIFOOrder(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Teams[0].Credit(teamstate.ResourceFood, 100000)
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: gridworld.Coord{X: 1, Y: 1}, TeamID: 0, AgentID: -1}))
	actor := &gridworld.Entity{Kind: gridworld.KindAgent, TeamID: 0, UnitClass: gridworld.ClassVillager}
	s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)
	tc.ProductionQueue[0].RemainingSteps = 1 // mark first entry as "in progress"
	s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)

	s.cancelQueueTail(tc)

	if len(tc.ProductionQueue) != 1 {
		t.Fatalf("queue length after one cancel = %d, want 1", len(tc.ProductionQueue))
	}
	if tc.ProductionQueue[0].RemainingSteps != 1 {
		t.Error("cancel should remove the tail (last queued), leaving the in-progress head untouched")
	}
}

func TestHandleAttackOnOwnTrainingBuildingCancelsQueueTail(t *testing.T) {
	s, w := newTestSim(16, 16, 2, 1)
	w.Teams[0].Credit(teamstate.ResourceFood, 1000)
	tcPos := gridworld.Coord{X: 5, Y: 5}
	tc := w.Entity(w.Spawn(gridworld.Entity{Kind: gridworld.KindTownCenter, Pos: tcPos, TeamID: 0, AgentID: -1}))
	actor := &gridworld.Entity{Kind: gridworld.KindAgent, TeamID: 0, UnitClass: gridworld.ClassVillager}
	s.enqueueOrComplete(actor, tc, gridworld.ClassVillager, unitStats[gridworld.ClassVillager].Cost)
	if len(tc.ProductionQueue) != 1 {
		t.Fatalf("setup: queue length = %d, want 1", len(tc.ProductionQueue))
	}

	attackerPos := tcPos.Add(gridworld.West)
	attackerHandle := w.Spawn(gridworld.Entity{Kind: gridworld.KindAgent, Pos: attackerPos, TeamID: 0, AgentID: 0, UnitClass: gridworld.ClassVillager, HP: 25, MaxHP: 25})
	w.AgentEntity[0] = attackerHandle

	s.handleAttack(0, gridworld.East)

	if len(tc.ProductionQueue) != 0 {
		t.Error("a villager attacking its own training building should cancel the queue tail")
	}
}
