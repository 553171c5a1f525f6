package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidGeometry is returned when a fragment handed to a Buffer is not a
// consistent mesh: attribute counts disagree or an index points outside it.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Buffer is an appendable triangle mesh with per-vertex position, normal and uv.
// Indices form a triangle list and always reference vertices of this buffer.
type Buffer struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	indices   []uint32
}

// NewBuffer returns an empty buffer with room for the given number of vertices.
func NewBuffer(vertexCapacity int) *Buffer {
	return &Buffer{
		positions: make([]mgl32.Vec3, 0, vertexCapacity),
		normals:   make([]mgl32.Vec3, 0, vertexCapacity),
		uvs:       make([]mgl32.Vec2, 0, vertexCapacity),
		indices:   make([]uint32, 0, vertexCapacity*3/2),
	}
}

// VertexCount returns the number of vertices in the buffer.
func (b *Buffer) VertexCount() int { return len(b.positions) }

// TriangleCount returns the number of triangles in the buffer.
func (b *Buffer) TriangleCount() int { return len(b.indices) / 3 }

// Positions exposes the vertex positions. Callers must not modify the slice.
func (b *Buffer) Positions() []mgl32.Vec3 { return b.positions }

// Normals exposes the vertex normals. Callers must not modify the slice.
func (b *Buffer) Normals() []mgl32.Vec3 { return b.normals }

// UVs exposes the texture coordinates. Callers must not modify the slice.
func (b *Buffer) UVs() []mgl32.Vec2 { return b.uvs }

// Indices exposes the triangle indices. Callers must not modify the slice.
func (b *Buffer) Indices() []uint32 { return b.indices }

// Append adds a mesh fragment. Fragment indices are local to the fragment and
// are rebased by the current vertex count. On error the buffer is unchanged.
func (b *Buffer) Append(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) error {
	if err := checkFragment(len(positions), len(normals), len(uvs), indices); err != nil {
		return err
	}
	base := uint32(len(b.positions))
	b.positions = append(b.positions, positions...)
	b.normals = append(b.normals, normals...)
	b.uvs = append(b.uvs, uvs...)
	for _, idx := range indices {
		b.indices = append(b.indices, idx+base)
	}
	return nil
}

// Merge appends the full contents of other.
func (b *Buffer) Merge(other *Buffer) error {
	if other == nil {
		return nil
	}
	return b.Append(other.positions, other.normals, other.uvs, other.indices)
}

// MergeTranslated appends other with every position moved by offset.
// Normals and uvs are copied unchanged.
func (b *Buffer) MergeTranslated(other *Buffer, offset mgl32.Vec3) error {
	if other == nil {
		return nil
	}
	if err := other.Validate(); err != nil {
		return err
	}
	base := uint32(len(b.positions))
	for _, p := range other.positions {
		b.positions = append(b.positions, p.Add(offset))
	}
	b.normals = append(b.normals, other.normals...)
	b.uvs = append(b.uvs, other.uvs...)
	for _, idx := range other.indices {
		b.indices = append(b.indices, idx+base)
	}
	return nil
}

// Validate checks the buffer invariants.
func (b *Buffer) Validate() error {
	return checkFragment(len(b.positions), len(b.normals), len(b.uvs), b.indices)
}

// Reset empties the buffer and keeps its storage.
func (b *Buffer) Reset() {
	b.positions = b.positions[:0]
	b.normals = b.normals[:0]
	b.uvs = b.uvs[:0]
	b.indices = b.indices[:0]
}

func checkFragment(nPos, nNorm, nUV int, indices []uint32) error {
	if nPos != nNorm || nPos != nUV {
		return fmt.Errorf("%w: %d positions, %d normals, %d uvs", ErrInvalidGeometry, nPos, nNorm, nUV)
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a triangle list", ErrInvalidGeometry, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= nPos {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidGeometry, idx, i, nPos)
		}
	}
	return nil
}
