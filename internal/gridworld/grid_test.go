package gridworld

import "testing"

func TestGridInBounds(t *testing.T) {
	g := NewGrid(10, 8)
	if !g.InBounds(Coord{0, 0}) || !g.InBounds(Coord{9, 7}) {
		t.Error("corner tiles should be in bounds")
	}
	if g.InBounds(Coord{10, 0}) || g.InBounds(Coord{-1, 0}) {
		t.Error("out-of-range tiles should not be in bounds")
	}
}

func TestGridPrimaryBackgroundDefaults(t *testing.T) {
	g := NewGrid(5, 5)
	c := Coord{2, 2}
	if g.Primary(c) != NoHandle {
		t.Error("new grid's primary should default to NoHandle")
	}
	if g.Background(c) != NoHandle {
		t.Error("new grid's background should default to NoHandle")
	}
	if g.Terrain(c) != TerrainEmpty {
		t.Error("new grid's terrain should default to TerrainEmpty")
	}
}

func TestGridSetPrimaryMarksDirty(t *testing.T) {
	g := NewGrid(5, 5)
	c := Coord{1, 1}
	g.ClearDirty()
	g.SetPrimary(c, Handle(3))
	if g.Primary(c) != Handle(3) {
		t.Errorf("Primary(%v) = %v, want 3", c, g.Primary(c))
	}
	if _, ok := g.DirtyTiles()[c]; !ok {
		t.Error("SetPrimary should mark the tile dirty")
	}
}

func TestGridClearDirty(t *testing.T) {
	g := NewGrid(5, 5)
	g.SetPrimary(Coord{0, 0}, Handle(1))
	if len(g.DirtyTiles()) == 0 {
		t.Fatal("expected at least one dirty tile before clear")
	}
	g.ClearDirty()
	if len(g.DirtyTiles()) != 0 {
		t.Error("ClearDirty should empty the dirty set")
	}
}

func TestGridOutOfBoundsSetsAreNoops(t *testing.T) {
	g := NewGrid(5, 5)
	g.ClearDirty()
	g.SetPrimary(Coord{-1, -1}, Handle(1))
	if len(g.DirtyTiles()) != 0 {
		t.Error("an out-of-bounds SetPrimary should not mark anything dirty")
	}
}

func TestGridElevationAndBiome(t *testing.T) {
	g := NewGrid(3, 3)
	c := Coord{1, 1}
	g.SetElevation(c, 42)
	g.SetBiome(c, BiomeArid)
	if g.Elevation(c) != 42 {
		t.Errorf("Elevation = %d, want 42", g.Elevation(c))
	}
	if g.Biome(c) != BiomeArid {
		t.Errorf("Biome = %v, want BiomeArid", g.Biome(c))
	}
}
