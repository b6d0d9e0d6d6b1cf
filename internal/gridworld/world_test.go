package gridworld

import "testing"

func testConfig() WorldConfig {
	cfg := DefaultWorldConfig()
	cfg.Map = MapDimensions{Width: 16, Height: 16, TeamCount: 2, AgentsPerTeam: 2}
	return cfg
}

func TestNewWorldAllocatesPerAgentArrays(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	n := w.Config.Map.MapAgents()
	if len(w.AgentEntity) != n || len(w.Terminated) != n || len(w.Observations) != n {
		t.Fatalf("expected per-agent arrays of length %d", n)
	}
	for i, h := range w.AgentEntity {
		if h != NoHandle {
			t.Errorf("AgentEntity[%d] = %v, want NoHandle before spawn", i, h)
		}
	}
	for i, dirty := range w.ObsDirty {
		if !dirty {
			t.Errorf("ObsDirty[%d] should start true", i)
		}
	}
	if len(w.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(w.Teams))
	}
}

func TestSpawnPlacesBlockingEntityOnPrimary(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	pos := Coord{3, 3}
	h := w.Spawn(Entity{Kind: KindTownCenter, Pos: pos, TeamID: 0, AgentID: -1})
	if w.Grid.Primary(pos) != h {
		t.Error("building should occupy the primary grid slot")
	}
	e := w.Entity(h)
	if e == nil || !e.Alive {
		t.Fatal("spawned entity should be alive")
	}
}

func TestSpawnNonBlockingUsesBackground(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	pos := Coord{4, 4}
	h := w.Spawn(Entity{Kind: KindRelic, Pos: pos, TeamID: -1, AgentID: -1})
	if w.Grid.Background(pos) != h {
		t.Error("relic should occupy the background grid slot")
	}
	if w.Grid.Primary(pos) != NoHandle {
		t.Error("relic should not block the primary slot")
	}
}

func TestDestroyClearsGridAndRecyclesHandle(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	pos := Coord{2, 2}
	h := w.Spawn(Entity{Kind: KindTree, Pos: pos, TeamID: -1, AgentID: -1})
	w.Destroy(h)
	if w.Grid.Primary(pos) != NoHandle {
		t.Error("Destroy should clear the grid slot")
	}
	if e := w.Entity(h); e.Alive {
		t.Error("destroyed entity should no longer be alive")
	}
	h2 := w.Spawn(Entity{Kind: KindStone, Pos: Coord{5, 5}, TeamID: -1, AgentID: -1})
	if h2 != h {
		t.Errorf("expected freed handle %v to be recycled, got %v", h, h2)
	}
}

func TestMoveEntityUpdatesGridAndPosition(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	src, dst := Coord{1, 1}, Coord{1, 2}
	h := w.Spawn(Entity{Kind: KindAgent, Pos: src, TeamID: 0, AgentID: -1})
	w.MoveEntity(h, dst)
	if w.Grid.Primary(src) != NoHandle {
		t.Error("source tile should be cleared after move")
	}
	if w.Grid.Primary(dst) != h {
		t.Error("destination tile should hold the moved handle")
	}
	if w.Entity(h).Pos != dst {
		t.Error("entity position should reflect the move")
	}
}

func TestReassignTeamMovesSpatialIndex(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	h := w.Spawn(Entity{Kind: KindAgent, Pos: Coord{0, 0}, TeamID: 0, AgentID: -1})
	w.ReassignTeam(h, 1)
	if w.Entity(h).TeamID != 1 {
		t.Errorf("TeamID = %d, want 1", w.Entity(h).TeamID)
	}
	for _, other := range w.ByTeam(0) {
		if other == h {
			t.Error("handle should be removed from its old team's index")
		}
	}
	found := false
	for _, other := range w.ByTeam(1) {
		if other == h {
			found = true
		}
	}
	if !found {
		t.Error("handle should appear in its new team's index")
	}
}

func TestTerminateAgentKeepsHandleAddressable(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	h := w.Spawn(Entity{Kind: KindAgent, Pos: Coord{1, 1}, TeamID: 0, AgentID: 0})
	w.AgentEntity[0] = h

	w.TerminateAgent(0)

	if w.Terminated[0] != 1.0 {
		t.Errorf("Terminated[0] = %v, want 1.0", w.Terminated[0])
	}
	e := w.Entity(h)
	if e == nil {
		t.Fatal("terminated agent's handle should still resolve to an entity")
	}
	if e.Alive {
		t.Error("terminated agent entity should be marked not alive")
	}
	if !e.Pos.IsOff() {
		t.Error("terminated agent should have an off-grid position")
	}
	if !w.ObsDirty[0] {
		t.Error("terminating an agent should mark its observation dirty")
	}
}

func TestAliveAgentCount(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	h0 := w.Spawn(Entity{Kind: KindAgent, Pos: Coord{0, 0}, TeamID: 0, AgentID: 0})
	h1 := w.Spawn(Entity{Kind: KindAgent, Pos: Coord{1, 0}, TeamID: 0, AgentID: 1})
	w.AgentEntity[0], w.AgentEntity[1] = h0, h1

	if n := w.AliveAgentCount(0); n != 2 {
		t.Errorf("AliveAgentCount(0) = %d, want 2", n)
	}
	w.TerminateAgent(1)
	if n := w.AliveAgentCount(0); n != 1 {
		t.Errorf("AliveAgentCount(0) after termination = %d, want 1", n)
	}
}

func TestEntityNilForInvalidHandle(t *testing.T) {
	w := NewWorld(testConfig(), 1)
	if w.Entity(NoHandle) != nil {
		t.Error("Entity(NoHandle) should return nil")
	}
	if w.Entity(Handle(999)) != nil {
		t.Error("Entity with out-of-range handle should return nil")
	}
}
