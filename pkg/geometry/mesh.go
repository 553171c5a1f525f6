package geometry

// Mesh is the renderer-facing form of a Buffer: flat attribute arrays and a
// triangle index list. Positions and Normals hold 3 floats per vertex, UVs 2.
type Mesh struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices described by the mesh.
func (m Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles described by the mesh.
func (m Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Empty reports whether the mesh has nothing to draw.
func (m Mesh) Empty() bool { return len(m.Indices) == 0 }

// Mesh returns an independent snapshot of the buffer in flat form.
func (b *Buffer) Mesh() Mesh {
	m := Mesh{
		Positions: make([]float32, 0, len(b.positions)*3),
		Normals:   make([]float32, 0, len(b.normals)*3),
		UVs:       make([]float32, 0, len(b.uvs)*2),
		Indices:   make([]uint32, len(b.indices)),
	}
	for _, p := range b.positions {
		m.Positions = append(m.Positions, p[0], p[1], p[2])
	}
	for _, n := range b.normals {
		m.Normals = append(m.Normals, n[0], n[1], n[2])
	}
	for _, uv := range b.uvs {
		m.UVs = append(m.UVs, uv[0], uv[1])
	}
	copy(m.Indices, b.indices)
	return m
}

// Interleaved packs the mesh as pos.xyz, normal.xyz, uv.xy per vertex, the
// layout uploaded by the GL sink.
func (m Mesh) Interleaved() []float32 {
	n := m.VertexCount()
	out := make([]float32, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out,
			m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2],
			m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2],
			m.UVs[i*2], m.UVs[i*2+1],
		)
	}
	return out
}
