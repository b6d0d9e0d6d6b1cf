package gridworld

// Verb is the action opcode an agent can issue in one tick. The numeric
// set is fixed by spec.md Section 4.1 ("numeric set fixed by observation
// design") — values 4, 6, 7 are deliberately unused gaps, not a mistake:
// the encoding must not be renumbered even though Go would happily accept
// a dense iota.
type Verb uint8

const (
	VerbNoop   Verb = 0
	VerbMove   Verb = 1
	VerbAttack Verb = 2
	VerbUse    Verb = 3
	VerbGive   Verb = 5
	VerbBuild  Verb = 8
)

// ArgCount bounds an action's argument: 0..7 are the 8 compass
// orientations (used by Move/Attack/Build), 8..9 are reserved, 10 is the
// Use-verb "town bell" argument (spec.md Section 4.5).
const ArgCount = 11

// TownBellArg is the Use-verb argument that recalls villagers to the
// nearest friendly Town Center (spec.md Section 4.5).
const TownBellArg = 10

// Action is a decoded (verb, arg) pair.
type Action struct {
	Verb Verb
	Arg  uint8
}

// Encode packs an action into the single byte the step pipeline consumes.
func Encode(a Action) byte {
	return byte(a.Verb)*ArgCount + a.Arg
}

// Decode unpacks a byte into its (verb, arg) pair.
func Decode(b byte) Action {
	return Action{Verb: Verb(int(b) / ArgCount), Arg: uint8(int(b) % ArgCount)}
}

// NoopAction is the zero-cost action every dead/missing agent slot must
// be padded with (spec.md Section 4.1 pre-condition).
var NoopAction = Action{Verb: VerbNoop}
