package teamstate

// UnitClassID mirrors gridworld.UnitClass's ordinal values without
// importing the gridworld package (see team.go's note on the Resource
// type for why: teamstate sits below gridworld in the dependency graph).
// Callers pass int(gridworld.UnitClass) across the boundary.
type UnitClassID int

// Modifiers collects the additive bonuses tech research grants, applied by
// the engine at unit-stat resolution time (spawn, combat) rather than
// rewriting live entity fields — keeps a single source of truth and lets
// a newly-trained unit pick up bonuses researched after it already
// exists only if the engine re-reads Modifiers each time, matching
// spec.md Section 4.4's "modifies stat resolution, not stored state"
// framing.
//
// Grounded on the teacher's Settlement.GovernanceScore-derived multiplier
// fields (flat numeric bonuses looked up at resolution time rather than
// mutating every affected entity directly).
type Modifiers struct {
	// AttackBonus/ArmorBonus are additive, keyed by UnitClassID, populated
	// from BlacksmithTechs levels (melee/archer attack, infantry/archer/
	// cavalry armor) each time a tech is researched.
	AttackBonus map[UnitClassID]int
	ArmorBonus  map[UnitClassID]int

	// GatherRateBonus is a flat number of units added to the per-action
	// gather yield (0 = no bonus) per resource, populated from
	// EconomyTechs tiers.
	GatherRateBonus map[Resource]int

	// CarryCapacityBonus is a flat number of units added to villager
	// carry capacity (0 = no bonus), from ChainCarry tiers.
	CarryCapacityBonus int
}

// NewModifiers returns a zeroed Modifiers. Every field is a flat additive
// bonus, so the zero value here means "no bonus yet".
func NewModifiers() Modifiers {
	return Modifiers{
		AttackBonus:     make(map[UnitClassID]int),
		ArmorBonus:      make(map[UnitClassID]int),
		GatherRateBonus: make(map[Resource]int),
	}
}

// ApplyBlacksmithTech folds one freshly-researched blacksmith level into
// the bonus maps. meleeClasses/archerClasses/cavalryClasses are supplied
// by the engine (which owns the gridworld.UnitClass -> category mapping)
// since teamstate cannot import gridworld to compute them itself.
func (m *Modifiers) ApplyBlacksmithTech(line BlacksmithLine, meleeClasses, archerClasses, cavalryClasses []UnitClassID) {
	const perLevel = 1
	switch line {
	case LineMeleeAttack:
		for _, c := range meleeClasses {
			m.AttackBonus[c] += perLevel
		}
	case LineArcherAttack:
		for _, c := range archerClasses {
			m.AttackBonus[c] += perLevel
		}
	case LineInfantryArmor:
		for _, c := range meleeClasses {
			m.ArmorBonus[c] += perLevel
		}
	case LineArcherArmor:
		for _, c := range archerClasses {
			m.ArmorBonus[c] += perLevel
		}
	case LineCavalryArmor:
		for _, c := range cavalryClasses {
			m.ArmorBonus[c] += perLevel
		}
	}
}

// ApplyEconomyTech folds a freshly-advanced economy tier into the
// modifier bonuses. Each tier adds 10 to its resource's per-action gather
// yield, except ChainCarry which adds 10 to carry capacity instead.
func (m *Modifiers) ApplyEconomyTech(chain EconomyChain) {
	const perTier = 10
	switch chain {
	case ChainWood:
		m.GatherRateBonus[ResourceWood] += perTier
	case ChainGold:
		m.GatherRateBonus[ResourceGold] += perTier
	case ChainStone:
		m.GatherRateBonus[ResourceStone] += perTier
	case ChainFood:
		m.GatherRateBonus[ResourceFood] += perTier
	case ChainCarry:
		m.CarryCapacityBonus += perTier
	}
}
