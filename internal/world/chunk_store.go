package world

import (
	"sort"
	"sync"
)

// ChunkStore indexes chunks by coordinate and keeps the set of chunks edited
// since their last mesh, so a sync pass does not need to scan every chunk.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk
	dirty  map[ChunkCoord]struct{}
}

// NewChunkStore creates an empty store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkCoord]*Chunk),
		dirty:  make(map[ChunkCoord]struct{}),
	}
}

// GetChunk returns the chunk at coord. If it does not exist and create is
// true, an empty dirty chunk is added.
func (cs *ChunkStore) GetChunk(coord ChunkCoord, create bool) *Chunk {
	cs.mu.RLock()
	chunk, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	if exists || !create {
		return chunk
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if existing, ok := cs.chunks[coord]; ok {
		return existing
	}
	chunk = NewChunk(coord)
	cs.attachLocked(chunk)
	return chunk
}

// Add inserts an existing chunk, replacing any chunk at the same coordinate.
func (cs *ChunkStore) Add(c *Chunk) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.attachLocked(c)
}

func (cs *ChunkStore) attachLocked(c *Chunk) {
	cs.chunks[c.Coord] = c
	c.notify = cs.markDirty
	if c.IsDirty() {
		cs.dirty[c.Coord] = struct{}{}
	}
}

// Remove drops the chunk at coord.
func (cs *ChunkStore) Remove(coord ChunkCoord) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if c, ok := cs.chunks[coord]; ok {
		c.notify = nil
	}
	delete(cs.chunks, coord)
	delete(cs.dirty, coord)
}

func (cs *ChunkStore) markDirty(coord ChunkCoord) {
	cs.mu.Lock()
	cs.dirty[coord] = struct{}{}
	cs.mu.Unlock()
}

// SetVoxel writes v at world voxel coordinates, creating the chunk if needed.
func (cs *ChunkStore) SetVoxel(wx, wy, wz int, v Voxel) error {
	coord, lx, ly, lz := SplitCoords(wx, wy, wz)
	return cs.GetChunk(coord, true).Set(lx, ly, lz, v)
}

// Voxel returns the voxel at world coordinates; missing chunks read as empty.
func (cs *ChunkStore) Voxel(wx, wy, wz int) (Voxel, error) {
	coord, lx, ly, lz := SplitCoords(wx, wy, wz)
	c := cs.GetChunk(coord, false)
	if c == nil {
		return Voxel{}, nil
	}
	return c.Get(lx, ly, lz)
}

// DirtyCoords returns the coordinates of chunks still waiting for a mesh, in
// a stable order. Entries whose chunk has since been cleaned are dropped.
func (cs *ChunkStore) DirtyCoords() []ChunkCoord {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]ChunkCoord, 0, len(cs.dirty))
	for coord := range cs.dirty {
		c, ok := cs.chunks[coord]
		if !ok || !c.IsDirty() {
			delete(cs.dirty, coord)
			continue
		}
		out = append(out, coord)
	}
	sortCoords(out)
	return out
}

// Chunks returns every chunk in a stable order.
func (cs *ChunkStore) Chunks() []*Chunk {
	cs.mu.RLock()
	coords := make([]ChunkCoord, 0, len(cs.chunks))
	for coord := range cs.chunks {
		coords = append(coords, coord)
	}
	cs.mu.RUnlock()
	sortCoords(coords)

	out := make([]*Chunk, 0, len(coords))
	cs.mu.RLock()
	for _, coord := range coords {
		if c, ok := cs.chunks[coord]; ok {
			out = append(out, c)
		}
	}
	cs.mu.RUnlock()
	return out
}

// Len returns the number of chunks in the store.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// SplitCoords converts world voxel coordinates to a chunk coordinate and the
// local position inside that chunk.
func SplitCoords(wx, wy, wz int) (ChunkCoord, int, int, int) {
	coord := ChunkCoord{
		X: floorDiv(wx, ChunkSize),
		Y: floorDiv(wy, ChunkSize),
		Z: floorDiv(wz, ChunkSize),
	}
	return coord, wx - coord.X*ChunkSize, wy - coord.Y*ChunkSize, wz - coord.Z*ChunkSize
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func sortCoords(coords []ChunkCoord) {
	sort.Slice(coords, func(i, j int) bool {
		a, b := coords[i], coords[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
}
