// Package teamstate holds everything the step pipeline tracks per team:
// the resource stockpile, the market, the tech tables, the alliance mask,
// and victory-countdown state. See spec.md Section 3 ("Per-team state").
//
// Grounded on the teacher's internal/social.Settlement (Treasury /
// GovernanceScore fields) and internal/social.Faction (pairwise
// Relations map), and internal/economy.Market; see DESIGN.md.
package teamstate

// Resource indexes a team's stockpile. Kept independent of
// gridworld.ResourceType (which also tracks non-stockpile inventory goods
// like Meat/Bread/Relic) to avoid an import cycle — gridworld.World holds
// *Team, so Team cannot import gridworld.
type Resource int

const (
	ResourceWood Resource = iota
	ResourceFood
	ResourceGold
	ResourceStone
	ResourceCount
)

// VictoryState tracks the running countdowns for Wonder and Relic victory
// (spec.md Section 4.7). Grounded on the teacher's AbandonedWeeks /
// NonViableWeeks "consecutive-ticks" counter idiom: a sentinel value means
// "condition not currently holding," and the counter resets to the
// sentinel the instant the condition breaks.
type VictoryState struct {
	WonderBuiltStep     int // -1 if no standing Wonder
	RelicHoldStartStep  int // -1 if relics not currently fully held
}

// NewVictoryState returns a VictoryState with both countdowns cleared.
func NewVictoryState() VictoryState {
	return VictoryState{WonderBuiltStep: -1, RelicHoldStartStep: -1}
}

// Team is the per-team aggregate: stockpile, market, techs, modifiers,
// alliances, and victory countdown.
type Team struct {
	ID int

	Stockpile [ResourceCount]int64

	Market Market

	CastleTechs     CastleTechs
	UniversityTechs UniversityTechs
	EconomyTechs    EconomyTechs
	BlacksmithTechs BlacksmithTechs
	UnitUpgrades    UnitUpgrades

	Modifiers Modifiers

	// AllianceMask is a bitmask of allied teams; a team always includes
	// itself.
	AllianceMask uint32

	Victory VictoryState
}

// NewTeam creates a team with an empty stockpile, base market prices, and
// no researched techs. Self-alliance bit is always set.
func NewTeam(id int) *Team {
	t := &Team{
		ID:           id,
		Market:       NewMarket(),
		Modifiers:    NewModifiers(),
		AllianceMask: 1 << uint(id),
		Victory:      NewVictoryState(),
	}
	return t
}

// Allied reports whether team other is allied with t (always true for
// other == t.ID).
func (t *Team) Allied(other int) bool {
	if other < 0 || other >= 32 {
		return other == t.ID
	}
	return t.AllianceMask&(1<<uint(other)) != 0
}

// SetAllied adds or removes an alliance bit.
func (t *Team) SetAllied(other int, allied bool) {
	if other < 0 || other >= 32 {
		return
	}
	if allied {
		t.AllianceMask |= 1 << uint(other)
	} else {
		t.AllianceMask &^= 1 << uint(other)
	}
}

// CanAfford reports whether the stockpile covers cost (all resources).
func (t *Team) CanAfford(cost [ResourceCount]int64) bool {
	for r, amt := range cost {
		if t.Stockpile[r] < amt {
			return false
		}
	}
	return true
}

// Debit subtracts cost from the stockpile. Caller must check CanAfford
// first; Debit does not clamp, matching the invariant that stockpiles
// never go negative because callers always check first (spec.md Section 7:
// insufficient resources is an action-rejected no-op, never a partial
// debit).
func (t *Team) Debit(cost [ResourceCount]int64) {
	for r, amt := range cost {
		t.Stockpile[r] -= amt
	}
}

// Credit adds amt of resource r to the stockpile.
func (t *Team) Credit(r Resource, amt int64) {
	t.Stockpile[r] += amt
}

// CreditVector adds a full cost vector back to the stockpile, the
// refund-side counterpart to Debit (spec.md Section 4.5's cancel-tail
// "refunds exactly the queued cost").
func (t *Team) CreditVector(cost [ResourceCount]int64) {
	for r, amt := range cost {
		t.Stockpile[Resource(r)] += amt
	}
}

// Cost builds a [ResourceCount]int64 cost vector from wood/food/gold/stone
// amounts, a small convenience used throughout the production/tech tables.
func Cost(wood, food, gold, stone int64) [ResourceCount]int64 {
	var c [ResourceCount]int64
	c[ResourceWood] = wood
	c[ResourceFood] = food
	c[ResourceGold] = gold
	c[ResourceStone] = stone
	return c
}
