// Package gridworld provides the fixed-size tile grid, the tagged entity
// union, and the world aggregate that the step pipeline mutates.
// See design doc Section 3 and Section 9 (data model re-architecture notes).
package gridworld

// Coord is a tile position on the square grid. The sentinel Off
// coordinate marks garrisoned or dead entities.
type Coord struct {
	X, Y int
}

// Off is the sentinel position for entities with no grid presence.
var Off = Coord{X: -1, Y: -1}

// IsOff reports whether c is the off-grid sentinel.
func (c Coord) IsOff() bool {
	return c.X < 0 || c.Y < 0
}

// Orientation is one of the 8 compass directions, matching the action
// encoding's Move/Attack argument values 0..7.
type Orientation uint8

const (
	North Orientation = iota
	South
	West
	East
	Northwest
	Northeast
	Southwest
	Southeast
)

// deltas indexes by Orientation and gives the (dx, dy) step.
var deltas = [8]Coord{
	North:     {0, -1},
	South:     {0, 1},
	West:      {-1, 0},
	East:      {1, 0},
	Northwest: {-1, -1},
	Northeast: {1, -1},
	Southwest: {-1, 1},
	Southeast: {1, 1},
}

// Delta returns the (dx, dy) unit step for o.
func (o Orientation) Delta() Coord {
	return deltas[o&7]
}

// IsCardinal reports whether o is one of the 4 cardinal directions
// (abs(dx)+abs(dy)==1), the only directions movement legality permits.
func (o Orientation) IsCardinal() bool {
	switch o {
	case North, South, West, East:
		return true
	default:
		return false
	}
}

// Add returns the tile reached by stepping one unit in direction o from c.
func (c Coord) Add(o Orientation) Coord {
	d := o.Delta()
	return Coord{c.X + d.X, c.Y + d.Y}
}

// ManhattanDist returns the Manhattan distance between two coordinates,
// used by trade-route gold payouts (spec.md Section 4.4) and AI proximity
// search.
func ManhattanDist(a, b Coord) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CardinalNeighbors returns the 4 cardinal-adjacent tiles of c, used by the
// building-placement search order and garrison ejection.
func CardinalNeighbors(c Coord) [4]Coord {
	return [4]Coord{c.Add(North), c.Add(East), c.Add(South), c.Add(West)}
}

// EightNeighbors returns all 8 adjacent tiles in the fixed search order
// spec.md Section 4.5 specifies for building placement:
// {orientation, N, E, S, W, NW, NE, SW, SE}. The caller supplies the
// orientation-first tile separately; this helper returns the fixed
// N,E,S,W,NW,NE,SW,SE tail used after the orientation slot.
func EightNeighbors(c Coord) [8]Coord {
	return [8]Coord{
		c.Add(North), c.Add(East), c.Add(South), c.Add(West),
		c.Add(Northwest), c.Add(Northeast), c.Add(Southwest), c.Add(Southeast),
	}
}
