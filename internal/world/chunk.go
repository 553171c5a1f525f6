package world

import (
	"errors"
	"fmt"
)

// ChunkSize is the default edge length of a chunk in voxels.
const ChunkSize = 16

// ErrOutOfBounds is returned for a voxel coordinate outside the chunk.
var ErrOutOfBounds = errors.New("voxel coordinate out of bounds")

// Voxel is the per-cell state of a chunk.
type Voxel struct {
	Template uint32 // index into the template registry
	Solid    bool
}

// ChunkCoord identifies a chunk in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Chunk is a cube of size^3 voxels stored in one flat slice indexed by
// x + size*y + size*size*z.
type Chunk struct {
	Coord  ChunkCoord
	size   int
	voxels []Voxel
	dirty  bool

	// notify is set by a ChunkStore to track dirty chunks.
	notify func(ChunkCoord)
}

// NewChunk creates an empty ChunkSize chunk at coord.
func NewChunk(coord ChunkCoord) *Chunk {
	return NewChunkOfSize(coord, ChunkSize)
}

// NewChunkOfSize creates an empty chunk with the given edge length. New chunks
// start dirty so their first mesh gets built.
func NewChunkOfSize(coord ChunkCoord, size int) *Chunk {
	if size <= 0 {
		panic(fmt.Sprintf("world: invalid chunk size %d", size))
	}
	return &Chunk{
		Coord:  coord,
		size:   size,
		voxels: make([]Voxel, size*size*size),
		dirty:  true,
	}
}

// Size returns the edge length of the chunk.
func (c *Chunk) Size() int { return c.size }

func (c *Chunk) index(x, y, z int) (int, error) {
	n := c.size
	if x < 0 || x >= n || y < 0 || y >= n || z < 0 || z >= n {
		return 0, fmt.Errorf("%w: (%d,%d,%d) not in [0,%d)", ErrOutOfBounds, x, y, z, n)
	}
	return x + n*y + n*n*z, nil
}

// Get returns the voxel at local coordinates.
func (c *Chunk) Get(x, y, z int) (Voxel, error) {
	i, err := c.index(x, y, z)
	if err != nil {
		return Voxel{}, err
	}
	return c.voxels[i], nil
}

// Set stores v at local coordinates and marks the chunk dirty.
func (c *Chunk) Set(x, y, z int, v Voxel) error {
	i, err := c.index(x, y, z)
	if err != nil {
		return err
	}
	c.voxels[i] = v
	c.markDirty()
	return nil
}

// setLocal stores v without bounds checks or dirty marking. Callers loop
// within [0, size) and mark the chunk dirty themselves.
func (c *Chunk) setLocal(x, y, z int, v Voxel) {
	n := c.size
	c.voxels[x+n*y+n*n*z] = v
}

// IsSolid reports whether the voxel at local coordinates is solid. Coordinates
// outside the chunk are not solid.
func (c *Chunk) IsSolid(x, y, z int) bool {
	i, err := c.index(x, y, z)
	if err != nil {
		return false
	}
	return c.voxels[i].Solid
}

// Fill sets every voxel to v.
func (c *Chunk) Fill(v Voxel) {
	for i := range c.voxels {
		c.voxels[i] = v
	}
	c.markDirty()
}

// SolidCount returns the number of solid voxels.
func (c *Chunk) SolidCount() int {
	n := 0
	for _, v := range c.voxels {
		if v.Solid {
			n++
		}
	}
	return n
}

// Each calls fn for every voxel, x innermost, then y, then z.
func (c *Chunk) Each(fn func(x, y, z int, v Voxel)) {
	n := c.size
	i := 0
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				fn(x, y, z, c.voxels[i])
				i++
			}
		}
	}
}

// IsDirty returns whether the chunk changed since its last successful mesh.
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// SetClean marks the chunk as meshed.
func (c *Chunk) SetClean() {
	c.dirty = false
}

// MarkDirty forces a rebuild on the next sync, e.g. after a meshing option
// changed.
func (c *Chunk) MarkDirty() {
	c.markDirty()
}

func (c *Chunk) markDirty() {
	c.dirty = true
	if c.notify != nil {
		c.notify(c.Coord)
	}
}
