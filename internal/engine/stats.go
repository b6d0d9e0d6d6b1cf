package engine

import "github.com/talgya/rts-sim/internal/gridworld"

// UnitStats are the design-level representative base stats for a unit
// class (spec.md never enumerates exact numbers for all 27 classes —
// following spec.md Section 4.4's own precedent of "design-level
// representative costs" for techs, these are chosen to be internally
// consistent rather than lifted from any specific source game release).
type UnitStats struct {
	HP        int
	Attack    int
	Range     int
	MinRange  int
	Cost      [4]int64 // wood, food, gold, stone
	TrainTicks int
}

// unitStats is keyed by gridworld.UnitClass. Wildlife classes (Cow/Wolf/
// Bear) are spawned directly by mapgen with explicit HP, not trained, so
// they carry no cost/train-time here.
var unitStats = map[gridworld.UnitClass]UnitStats{
	gridworld.ClassVillager:       {HP: 25, Attack: 3, Range: 1, Cost: [4]int64{0, 50, 0, 0}, TrainTicks: 25},
	gridworld.ClassManAtArms:      {HP: 45, Attack: 6, Range: 1, Cost: [4]int64{0, 60, 20, 0}, TrainTicks: 21},
	gridworld.ClassLongSwordsman:  {HP: 60, Attack: 9, Range: 1, Cost: [4]int64{0, 60, 20, 0}, TrainTicks: 21},
	gridworld.ClassChampion:       {HP: 70, Attack: 11, Range: 1, Cost: [4]int64{0, 60, 20, 0}, TrainTicks: 21},
	gridworld.ClassArcher:         {HP: 30, Attack: 4, Range: 4, MinRange: 0, Cost: [4]int64{0, 25, 45, 0}, TrainTicks: 35},
	gridworld.ClassCrossbowman:    {HP: 35, Attack: 5, Range: 5, Cost: [4]int64{0, 25, 45, 0}, TrainTicks: 27},
	gridworld.ClassArbalester:     {HP: 40, Attack: 6, Range: 5, Cost: [4]int64{0, 25, 45, 0}, TrainTicks: 27},
	gridworld.ClassScout:          {HP: 45, Attack: 3, Range: 1, Cost: [4]int64{0, 80, 0, 0}, TrainTicks: 30},
	gridworld.ClassLightCavalry:   {HP: 60, Attack: 5, Range: 1, Cost: [4]int64{0, 80, 0, 0}, TrainTicks: 30},
	gridworld.ClassHussar:         {HP: 65, Attack: 5, Range: 1, Cost: [4]int64{0, 80, 0, 0}, TrainTicks: 30},
	gridworld.ClassKnight:         {HP: 100, Attack: 10, Range: 1, Cost: [4]int64{0, 60, 75, 0}, TrainTicks: 30},
	gridworld.ClassMonk:           {HP: 30, Attack: 0, Range: 4, Cost: [4]int64{0, 0, 100, 0}, TrainTicks: 40},
	gridworld.ClassBatteringRam:   {HP: 175, Attack: 2, Range: 1, Cost: [4]int64{160, 0, 75, 0}, TrainTicks: 55},
	gridworld.ClassMangonel:       {HP: 50, Attack: 40, Range: 6, MinRange: 1, Cost: [4]int64{160, 0, 135, 0}, TrainTicks: 46},
	gridworld.ClassTrebuchet:      {HP: 200, Attack: 200, Range: 6, MinRange: 2, Cost: [4]int64{200, 0, 200, 0}, TrainTicks: 70},
	gridworld.ClassBoat:           {HP: 50, Attack: 3, Range: 1, Cost: [4]int64{0, 0, 50, 0}, TrainTicks: 22},
	gridworld.ClassTradeCog:       {HP: 80, Attack: 0, Range: 0, Cost: [4]int64{100, 0, 0, 0}, TrainTicks: 36},
	gridworld.ClassGalley:         {HP: 120, Attack: 6, Range: 5, Cost: [4]int64{90, 0, 30, 0}, TrainTicks: 36},
	gridworld.ClassFireShip:       {HP: 60, Attack: 15, Range: 2, Cost: [4]int64{75, 0, 45, 0}, TrainTicks: 36},
	gridworld.ClassTransportShip:  {HP: 80, Attack: 0, Range: 0, Cost: [4]int64{0, 0, 125, 0}, TrainTicks: 36},
	gridworld.ClassSamurai:        {HP: 60, Attack: 12, Range: 1, Cost: [4]int64{0, 60, 30, 0}, TrainTicks: 21},
	gridworld.ClassLongbowman:     {HP: 35, Attack: 6, Range: 5, Cost: [4]int64{0, 35, 45, 0}, TrainTicks: 27},
	gridworld.ClassCataphract:     {HP: 110, Attack: 9, Range: 1, Cost: [4]int64{0, 70, 75, 0}, TrainTicks: 30},
	gridworld.ClassTeutonicKnight: {HP: 85, Attack: 12, Range: 1, Cost: [4]int64{0, 60, 20, 0}, TrainTicks: 21},
}

// BuildingStats are design-level representative costs/HP per building
// kind, same caveat as UnitStats above.
type BuildingStats struct {
	MaxHP int
	Cost  [4]int64
}

var buildingStats = map[gridworld.EntityKind]BuildingStats{
	gridworld.KindTownCenter:   {MaxHP: 600, Cost: [4]int64{275, 0, 0, 100}},
	gridworld.KindHouse:        {MaxHP: 150, Cost: [4]int64{25, 0, 0, 0}},
	gridworld.KindBarracks:     {MaxHP: 350, Cost: [4]int64{175, 0, 0, 0}},
	gridworld.KindArcheryRange: {MaxHP: 300, Cost: [4]int64{175, 0, 0, 0}},
	gridworld.KindStable:       {MaxHP: 350, Cost: [4]int64{175, 0, 0, 0}},
	gridworld.KindMonastery:    {MaxHP: 350, Cost: [4]int64{175, 0, 100, 0}},
	gridworld.KindMarket:       {MaxHP: 300, Cost: [4]int64{175, 0, 0, 0}},
	gridworld.KindMill:         {MaxHP: 200, Cost: [4]int64{100, 0, 0, 0}},
	gridworld.KindLumberCamp:   {MaxHP: 200, Cost: [4]int64{100, 0, 0, 0}},
	gridworld.KindMiningCamp:   {MaxHP: 200, Cost: [4]int64{100, 0, 0, 0}},
	gridworld.KindUniversity:   {MaxHP: 300, Cost: [4]int64{200, 0, 0, 0}},
	gridworld.KindBlacksmith:   {MaxHP: 250, Cost: [4]int64{150, 0, 0, 0}},
	gridworld.KindCastle:       {MaxHP: 1800, Cost: [4]int64{0, 0, 0, 650}},
	gridworld.KindGuardTower:   {MaxHP: 420, Cost: [4]int64{0, 0, 0, 150}},
	gridworld.KindWonder:       {MaxHP: 4800, Cost: [4]int64{0, 0, 1000, 1000}},
	gridworld.KindWall:         {MaxHP: 250, Cost: [4]int64{0, 0, 0, 5}},
	gridworld.KindDoor:         {MaxHP: 250, Cost: [4]int64{0, 0, 0, 5}},
	gridworld.KindAltar:        {MaxHP: 200, Cost: [4]int64{0, 0, 0, 0}},
	gridworld.KindDock:         {MaxHP: 300, Cost: [4]int64{150, 0, 0, 0}},
}

// SiegeStructureMultiplier is applied before tech bonuses when a siege
// unit attacks a structure (spec.md Section 4.3).
const SiegeStructureMultiplier = 3

// TrebuchetBaseRange is the spec's approximate upper bound on attack
// range.
const TrebuchetBaseRange = 6

// ManAtArmsAuraRadius is the adjacency radius of the ManAtArms protective
// aura (spec.md Section 4.3: halves incoming damage for adjacent allies
// of its class).
const ManAtArmsAuraRadius = 1
