package world

import "testing"

func TestGeneratorDiagonal(t *testing.T) {
	g, err := NewGenerator(GenDiagonal, 1)
	if err != nil {
		t.Fatal(err)
	}
	c := NewChunk(ChunkCoord{})
	g.Populate(c, 2)
	if c.SolidCount() != ChunkSize {
		t.Fatalf("got %d solid, want %d", c.SolidCount(), ChunkSize)
	}
	for i := 0; i < ChunkSize; i++ {
		v, _ := c.Get(i, i, i)
		if !v.Solid || v.Template != 2 {
			t.Errorf("(%d,%d,%d) = %+v", i, i, i, v)
		}
	}
}

func TestGeneratorPopulateDirtiesStoredChunk(t *testing.T) {
	g, err := NewGenerator(GenDiagonal, 1)
	if err != nil {
		t.Fatal(err)
	}
	cs := NewChunkStore()
	c := NewChunkOfSize(ChunkCoord{X: 2}, 4)
	cs.Add(c)
	c.SetClean()
	if len(cs.DirtyCoords()) != 0 {
		t.Fatalf("clean chunk still listed")
	}

	g.Populate(c, 1)
	if !c.IsDirty() {
		t.Errorf("populate left the chunk clean")
	}
	if dirty := cs.DirtyCoords(); len(dirty) != 1 || dirty[0] != c.Coord {
		t.Errorf("store dirty set: %v", dirty)
	}
	if c.SolidCount() != 4 || !c.IsSolid(3, 3, 3) || c.IsSolid(3, 0, 0) {
		t.Errorf("diagonal on size 4: %d solid", c.SolidCount())
	}
}

func TestGeneratorTerrainDeterministic(t *testing.T) {
	g1, _ := NewGenerator(GenTerrain, 42)
	g2, _ := NewGenerator(GenTerrain, 42)
	a := NewChunk(ChunkCoord{1, 0, -2})
	b := NewChunk(ChunkCoord{1, 0, -2})
	g1.Populate(a, 0)
	g2.Populate(b, 0)
	if a.SolidCount() != b.SolidCount() {
		t.Fatalf("same seed gave %d vs %d solid", a.SolidCount(), b.SolidCount())
	}
	if a.SolidCount() == 0 {
		t.Errorf("terrain chunk at y=0 is empty")
	}
	// Columns are filled from the bottom with no holes.
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			seenAir := false
			for y := 0; y < ChunkSize; y++ {
				if !a.IsSolid(x, y, z) {
					seenAir = true
				} else if seenAir {
					t.Fatalf("floating voxel at (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}

func TestGeneratorUnknownKind(t *testing.T) {
	if _, err := NewGenerator("caves", 0); err == nil {
		t.Fatalf("expected error for unknown generator")
	}
}
