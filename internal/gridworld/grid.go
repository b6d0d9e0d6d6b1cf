package gridworld

// Grid is the fixed MapWidth x MapHeight tile layer described in spec.md
// Section 3. Grounded on the teacher's internal/world.Map (a coordinate ->
// tile lookup), converted from a sparse hex map to dense square arrays
// since the spec fixes map dimensions at construction time.
type Grid struct {
	Width, Height int

	primary    [][]Handle
	background [][]Handle
	terrain    [][]TerrainType
	elevation  [][]int8
	biome      [][]BiomeType

	// dirty is the set of tiles that changed this tick, intersected with
	// each agent's observation window during the rebuild phase (spec.md
	// Section 4.8).
	dirty map[Coord]struct{}
}

// NewGrid allocates an empty grid of the given dimensions. All tiles start
// as TerrainEmpty with no occupants.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		dirty:  make(map[Coord]struct{}),
	}
	g.primary = make2D[Handle](width, height, NoHandle)
	g.background = make2D[Handle](width, height, NoHandle)
	g.terrain = make2D[TerrainType](width, height, TerrainEmpty)
	g.elevation = make2D[int8](width, height, 0)
	g.biome = make2D[BiomeType](width, height, BiomeTemperate)
	return g
}

func make2D[T any](w, h int, fill T) [][]T {
	out := make([][]T, w)
	for x := range out {
		out[x] = make([]T, h)
		for y := range out[x] {
			out[x][y] = fill
		}
	}
	return out
}

// InBounds reports whether c lies inside the map border.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Primary returns the blocking occupant handle at c, or NoHandle.
func (g *Grid) Primary(c Coord) Handle {
	if !g.InBounds(c) {
		return NoHandle
	}
	return g.primary[c.X][c.Y]
}

// Background returns the non-blocking occupant handle at c, or NoHandle.
func (g *Grid) Background(c Coord) Handle {
	if !g.InBounds(c) {
		return NoHandle
	}
	return g.background[c.X][c.Y]
}

// SetPrimary places h as the blocking occupant at c and marks the tile dirty.
func (g *Grid) SetPrimary(c Coord, h Handle) {
	if !g.InBounds(c) {
		return
	}
	g.primary[c.X][c.Y] = h
	g.MarkDirty(c)
}

// SetBackground places h as the background occupant at c and marks it dirty.
func (g *Grid) SetBackground(c Coord, h Handle) {
	if !g.InBounds(c) {
		return
	}
	g.background[c.X][c.Y] = h
	g.MarkDirty(c)
}

// Terrain returns the terrain type at c (TerrainEmpty if out of bounds).
func (g *Grid) Terrain(c Coord) TerrainType {
	if !g.InBounds(c) {
		return TerrainEmpty
	}
	return g.terrain[c.X][c.Y]
}

// SetTerrain sets the terrain type at c, used by the injected map
// initializer (spec.md Section 1, out-of-core collaborator).
func (g *Grid) SetTerrain(c Coord, t TerrainType) {
	if !g.InBounds(c) {
		return
	}
	g.terrain[c.X][c.Y] = t
}

// Elevation returns the elevation at c (0 if out of bounds).
func (g *Grid) Elevation(c Coord) int8 {
	if !g.InBounds(c) {
		return 0
	}
	return g.elevation[c.X][c.Y]
}

// SetElevation sets the elevation at c.
func (g *Grid) SetElevation(c Coord, e int8) {
	if !g.InBounds(c) {
		return
	}
	g.elevation[c.X][c.Y] = e
}

// Biome returns the biome label at c.
func (g *Grid) Biome(c Coord) BiomeType {
	if !g.InBounds(c) {
		return BiomeTemperate
	}
	return g.biome[c.X][c.Y]
}

// SetBiome sets the biome label at c.
func (g *Grid) SetBiome(c Coord, b BiomeType) {
	if !g.InBounds(c) {
		return
	}
	g.biome[c.X][c.Y] = b
}

// MarkDirty records that c changed this tick. Consumed by the observation
// rebuild phase and cleared at the start of each tick (spec.md Section
// 4.1 phase 1).
func (g *Grid) MarkDirty(c Coord) {
	if g.dirty == nil {
		g.dirty = make(map[Coord]struct{})
	}
	g.dirty[c] = struct{}{}
}

// DirtyTiles returns the set of tiles marked dirty since the last clear.
func (g *Grid) DirtyTiles() map[Coord]struct{} {
	return g.dirty
}

// ClearDirty empties the dirty-tile set. Called at phase 1 of the step
// pipeline.
func (g *Grid) ClearDirty() {
	g.dirty = make(map[Coord]struct{})
}
