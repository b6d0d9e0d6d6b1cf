package teamstate

// Tech costs, spec.md Section 4.4 ("design-level representative costs").
const (
	UniversityTechFood = 3
	UniversityTechGold = 2
)

// CastleTechs tracks the team-unique Castle/Imperial Age pair. Grounded on
// the teacher's governance.go try-then-reject control flow
// (processGovernance): an action is attempted, and if prerequisites are
// unmet it silently does nothing rather than erroring.
type CastleTechs struct {
	CastleAgeResearched   bool
	ImperialAgeResearched bool
	// Cooldown counts down after a successful research (spec.md Section
	// 4.4): while nonzero, Use on the Castle falls through to training the
	// team's unique unit instead of researching further.
	Cooldown int
}

// CastleTechCooldown is the tick cooldown imposed on the Castle after a
// successful age-up research (spec.md Section 4.4).
const CastleTechCooldown = 200

// NextUnresearched returns which slot Research fills next:
// 0 for Castle Age, 1 for Imperial Age, or ok=false if both are done.
// This enforces age order unconditionally — skipping Castle Age to
// research Imperial Age directly is impossible via this API (spec.md
// Section 8 scenario 5).
func (c *CastleTechs) NextUnresearched() (slot int, ok bool) {
	if !c.CastleAgeResearched {
		return 0, true
	}
	if !c.ImperialAgeResearched {
		return 1, true
	}
	return 0, false
}

// Research marks the next unresearched slot done and imposes the cooldown.
// Returns the slot researched, or -1 if both were already researched.
func (c *CastleTechs) Research() int {
	slot, ok := c.NextUnresearched()
	if !ok {
		return -1
	}
	if slot == 0 {
		c.CastleAgeResearched = true
	} else {
		c.ImperialAgeResearched = true
	}
	c.Cooldown = CastleTechCooldown
	return slot
}

// UniversityTech enumerates the individually researchable University techs
// (spec.md Section 4.4).
type UniversityTech int

const (
	TechBallistics UniversityTech = iota
	TechMurderHoles
	TechMasonry
	TechArchitecture
	TechHeatedShot
	TechArrowslits
	TechSiegeEngineers
	universityTechCount
)

// UniversityTechCount is the number of individually researchable
// university techs.
const UniversityTechCount = int(universityTechCount)

// UniversityTechs tracks which University techs a team has researched.
type UniversityTechs [UniversityTechCount]bool

// Researched reports whether tech t has been researched.
func (u UniversityTechs) Researched(t UniversityTech) bool {
	return u[t]
}

// Research marks tech t researched. Returns false if already researched
// (action-rejected no-op, per spec.md Section 7).
func (u *UniversityTechs) Research(t UniversityTech) bool {
	if u[t] {
		return false
	}
	u[t] = true
	return true
}

// EconomyChain is one of the 5 tiered economy-tech chains (spec.md Section
// 4.4): wood, gold, stone, food, and carry-capacity.
type EconomyChain int

const (
	ChainWood EconomyChain = iota // DoubleBitAxe -> BowSaw -> TwoManSaw
	ChainGold                     // GoldMining -> GoldShaftMining
	ChainStone                    // StoneMining -> StoneShaftMining
	ChainFood                     // HorseCollar -> HeavyPlow -> CropRotation
	ChainCarry                    // Wheelbarrow -> HandCart
	economyChainCount
)

// chainMaxTier is the highest tier each chain supports.
var chainMaxTier = map[EconomyChain]int{
	ChainWood:  3,
	ChainGold:  2,
	ChainStone: 2,
	ChainFood:  3,
	ChainCarry: 2,
}

// EconomyTechs tracks each chain's current tier (0 = none researched).
type EconomyTechs [economyChainCount]int

// Tier returns the current tier of chain c.
func (e EconomyTechs) Tier(c EconomyChain) int {
	return e[c]
}

// ResearchNext advances chain c by one tier if not already maxed. Returns
// false if the chain is already at its maximum tier (tier unlocking is
// strictly sequential, per spec.md Section 4.4: "tier 1 unlocks tier 2
// unlocks tier 3").
func (e *EconomyTechs) ResearchNext(c EconomyChain) bool {
	max := chainMaxTier[c]
	if e[c] >= max {
		return false
	}
	e[c]++
	return true
}

// BlacksmithLine is one of the 5 upgrade lines, each with 3 levels (spec.md
// Section 4.4).
type BlacksmithLine int

const (
	LineMeleeAttack BlacksmithLine = iota
	LineArcherAttack
	LineInfantryArmor
	LineArcherArmor
	LineCavalryArmor
	blacksmithLineCount
)

// BlacksmithMaxLevel is the highest level any blacksmith line supports.
const BlacksmithMaxLevel = 3

// BlacksmithTechs tracks each line's current level (0..3).
type BlacksmithTechs [blacksmithLineCount]int

// Level returns the current level of line l.
func (b BlacksmithTechs) Level(l BlacksmithLine) int {
	return b[l]
}

// ResearchNext advances line l by one level, requiring the prior level
// (spec.md Section 4.4: "each requiring the prior level"). Returns false
// if already at BlacksmithMaxLevel.
func (b *BlacksmithTechs) ResearchNext(l BlacksmithLine) bool {
	if b[l] >= BlacksmithMaxLevel {
		return false
	}
	b[l]++
	return true
}

// TrainingBuilding identifies which military building a unit-upgrade chain
// belongs to (spec.md Section 4.4).
type TrainingBuilding int

const (
	BuildingBarracks TrainingBuilding = iota
	BuildingStable
	BuildingArcheryRange
	trainingBuildingCount
)

// UnitUpgradeTier is the promotion tier within a training building's
// two-tier chain (spec.md Section 4.4): Barracks LongSwordsman->Champion,
// Stable LightCavalry->Hussar, ArcheryRange Crossbowman->Arbalester.
const (
	UpgradeTierBase = 0
	UpgradeTier1    = 1
	UpgradeTier2    = 2
)

// UnitUpgrades tracks each training building's current promotion tier.
// Researching an upgrade immediately promotes all existing team units of
// the base class (the engine's promoteTeamUnits); future trainees start at the
// current tier.
type UnitUpgrades [trainingBuildingCount]int

// Tier returns the current promotion tier for building b.
func (u UnitUpgrades) Tier(b TrainingBuilding) int {
	return u[b]
}

// ResearchNext advances building b's upgrade chain by one tier. Returns
// false if already at UpgradeTier2.
func (u *UnitUpgrades) ResearchNext(b TrainingBuilding) bool {
	if u[b] >= UpgradeTier2 {
		return false
	}
	u[b]++
	return true
}
