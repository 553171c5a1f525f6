package world

import "testing"

func TestSplitCoords(t *testing.T) {
	cases := []struct {
		wx, wy, wz int
		coord      ChunkCoord
		lx, ly, lz int
	}{
		{0, 0, 0, ChunkCoord{0, 0, 0}, 0, 0, 0},
		{15, 16, 17, ChunkCoord{0, 1, 1}, 15, 0, 1},
		{-1, -16, -17, ChunkCoord{-1, -1, -2}, 15, 0, 15},
	}
	for _, tc := range cases {
		coord, lx, ly, lz := SplitCoords(tc.wx, tc.wy, tc.wz)
		if coord != tc.coord || lx != tc.lx || ly != tc.ly || lz != tc.lz {
			t.Errorf("SplitCoords(%d,%d,%d) = %v %d %d %d", tc.wx, tc.wy, tc.wz, coord, lx, ly, lz)
		}
	}
}

func TestStoreDirtySet(t *testing.T) {
	cs := NewChunkStore()
	a := cs.GetChunk(ChunkCoord{0, 0, 0}, true)
	b := cs.GetChunk(ChunkCoord{1, 0, 0}, true)

	dirty := cs.DirtyCoords()
	if len(dirty) != 2 || dirty[0] != a.Coord || dirty[1] != b.Coord {
		t.Fatalf("new chunks should be dirty in order, got %v", dirty)
	}

	a.SetClean()
	b.SetClean()
	if got := cs.DirtyCoords(); len(got) != 0 {
		t.Fatalf("cleaned chunks still dirty: %v", got)
	}

	if err := cs.SetVoxel(17, 2, 3, Voxel{Solid: true}); err != nil {
		t.Fatal(err)
	}
	dirty = cs.DirtyCoords()
	if len(dirty) != 1 || dirty[0] != b.Coord {
		t.Fatalf("expected only %v dirty, got %v", b.Coord, dirty)
	}
	v, err := cs.Voxel(17, 2, 3)
	if err != nil || !v.Solid {
		t.Errorf("Voxel(17,2,3) = %+v, %v", v, err)
	}
	if !b.IsSolid(1, 2, 3) {
		t.Errorf("voxel not written to local (1,2,3)")
	}
}

func TestStoreCreateOnWrite(t *testing.T) {
	cs := NewChunkStore()
	if cs.GetChunk(ChunkCoord{0, 0, -1}, false) != nil {
		t.Fatalf("chunk should not exist yet")
	}
	if err := cs.SetVoxel(0, 0, -1, Voxel{Solid: true}); err != nil {
		t.Fatal(err)
	}
	if cs.Len() != 1 {
		t.Fatalf("len: got %d", cs.Len())
	}
	v, _ := cs.Voxel(100, 100, 100)
	if v.Solid {
		t.Errorf("missing chunk should read empty")
	}
}

func TestStoreRemove(t *testing.T) {
	cs := NewChunkStore()
	c := cs.GetChunk(ChunkCoord{2, 0, 0}, true)
	cs.Remove(c.Coord)
	if len(cs.DirtyCoords()) != 0 || cs.Len() != 0 {
		t.Fatalf("removed chunk still tracked")
	}
	_ = c.Set(0, 0, 0, Voxel{Solid: true})
	if len(cs.DirtyCoords()) != 0 {
		t.Errorf("edits to a removed chunk reached the store")
	}
}

func TestStoreChunksOrder(t *testing.T) {
	cs := NewChunkStore()
	cs.Add(NewChunk(ChunkCoord{1, 0, 0}))
	cs.Add(NewChunk(ChunkCoord{0, 1, 0}))
	cs.Add(NewChunk(ChunkCoord{0, 0, 0}))
	got := cs.Chunks()
	want := []ChunkCoord{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for i := range want {
		if got[i].Coord != want[i] {
			t.Fatalf("order: got %v at %d, want %v", got[i].Coord, i, want[i])
		}
	}
}

func TestStoreMarkDirtyRequeues(t *testing.T) {
	cs := NewChunkStore()
	c := cs.GetChunk(ChunkCoord{0, 0, 0}, true)
	c.SetClean()
	if len(cs.DirtyCoords()) != 0 {
		t.Fatalf("clean chunk still listed")
	}
	c.MarkDirty()
	if got := cs.DirtyCoords(); len(got) != 1 || got[0] != c.Coord {
		t.Errorf("MarkDirty did not requeue: %v", got)
	}
}
