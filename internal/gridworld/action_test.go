package gridworld

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Action{
		{Verb: VerbNoop, Arg: 0},
		{Verb: VerbMove, Arg: uint8(Southeast)},
		{Verb: VerbAttack, Arg: uint8(North)},
		{Verb: VerbUse, Arg: TownBellArg},
		{Verb: VerbGive, Arg: uint8(East)},
		{Verb: VerbBuild, Arg: 10},
	}
	for _, c := range cases {
		b := Encode(c)
		got := Decode(b)
		if got != c {
			t.Errorf("round trip %+v -> %d -> %+v", c, b, got)
		}
	}
}

func TestNoopActionEncodesToZero(t *testing.T) {
	if Encode(NoopAction) != 0 {
		t.Errorf("NoopAction should encode to 0, got %d", Encode(NoopAction))
	}
}

func TestArgCountBoundsEveryVerb(t *testing.T) {
	// Every verb's max encoded byte must stay within a single byte and
	// decode back to the same verb, since actions are packed in one byte
	// per agent slot.
	for _, v := range []Verb{VerbNoop, VerbMove, VerbAttack, VerbUse, VerbGive, VerbBuild} {
		b := Encode(Action{Verb: v, Arg: ArgCount - 1})
		if int(b) > 255 {
			t.Fatalf("verb %d arg %d overflowed a byte", v, ArgCount-1)
		}
		got := Decode(b)
		if got.Verb != v {
			t.Errorf("decode(%d).Verb = %d, want %d", b, got.Verb, v)
		}
	}
}
