package teamstate

import "testing"

func TestNewTeamDefaults(t *testing.T) {
	tm := NewTeam(2)
	if tm.ID != 2 {
		t.Errorf("ID = %d, want 2", tm.ID)
	}
	if !tm.Allied(2) {
		t.Error("a team should always be allied with itself")
	}
	if tm.Allied(0) {
		t.Error("a fresh team should not be allied with any other team")
	}
	if tm.Victory.WonderBuiltStep != -1 || tm.Victory.RelicHoldStartStep != -1 {
		t.Error("victory countdowns should start at the -1 sentinel")
	}
}

func TestSetAlliedToggles(t *testing.T) {
	tm := NewTeam(0)
	tm.SetAllied(1, true)
	if !tm.Allied(1) {
		t.Error("expected team 1 to be allied after SetAllied(1, true)")
	}
	tm.SetAllied(1, false)
	if tm.Allied(1) {
		t.Error("expected team 1 to no longer be allied after SetAllied(1, false)")
	}
}

func TestCanAffordAndDebit(t *testing.T) {
	tm := NewTeam(0)
	tm.Credit(ResourceWood, 100)
	tm.Credit(ResourceGold, 50)

	cost := Cost(80, 0, 50, 0)
	if !tm.CanAfford(cost) {
		t.Fatal("team should afford a cost within its stockpile")
	}
	tm.Debit(cost)
	if tm.Stockpile[ResourceWood] != 20 {
		t.Errorf("Stockpile[Wood] = %d, want 20", tm.Stockpile[ResourceWood])
	}
	if tm.Stockpile[ResourceGold] != 0 {
		t.Errorf("Stockpile[Gold] = %d, want 0", tm.Stockpile[ResourceGold])
	}
}

func TestCanAffordFalseWhenShort(t *testing.T) {
	tm := NewTeam(0)
	tm.Credit(ResourceWood, 10)
	if tm.CanAfford(Cost(20, 0, 0, 0)) {
		t.Error("team should not afford a cost exceeding its stockpile")
	}
}

func TestCostBuildsVectorInOrder(t *testing.T) {
	c := Cost(1, 2, 3, 4)
	if c[ResourceWood] != 1 || c[ResourceFood] != 2 || c[ResourceGold] != 3 || c[ResourceStone] != 4 {
		t.Errorf("Cost vector = %v, want [1 2 3 4]", c)
	}
}
