package graphics

import (
	"fmt"

	"github.com/Mokuzzai/block-game/internal/meshing"
	"github.com/Mokuzzai/block-game/internal/profiling"
	"github.com/Mokuzzai/block-game/pkg/geometry"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// floats per interleaved vertex: pos.xyz, normal.xyz, uv.st
const vertexStride = 8

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	vertices      int
}

// MeshSink owns one VAO per handle and implements meshing.Sink. All methods
// must be called on the goroutine holding the GL context.
type MeshSink struct {
	meshes map[meshing.Handle]*gpuMesh
	free   func(*gpuMesh)
}

func NewMeshSink() *MeshSink {
	return &MeshSink{meshes: make(map[meshing.Handle]*gpuMesh), free: deleteGPUMesh}
}

// Publish uploads m under handle into fresh buffers and swaps them in only
// once the upload succeeded. On error the previous mesh stays bound.
func (s *MeshSink) Publish(handle meshing.Handle, m geometry.Mesh) error {
	defer profiling.Track("gl.Publish")()

	next, err := newGPUMesh()
	if err != nil {
		return fmt.Errorf("handle %d: %w", handle, err)
	}
	return s.commit(handle, next, upload(next, m))
}

// commit installs next under handle, or frees it when uploadErr is set.
func (s *MeshSink) commit(handle meshing.Handle, next *gpuMesh, uploadErr error) error {
	if uploadErr != nil {
		s.free(next)
		return fmt.Errorf("upload handle %d: %w", handle, uploadErr)
	}
	if prev := s.meshes[handle]; prev != nil {
		s.free(prev)
	}
	s.meshes[handle] = next
	return nil
}

func newGPUMesh() (*gpuMesh, error) {
	gm := &gpuMesh{}
	gl.GenVertexArrays(1, &gm.vao)
	gl.GenBuffers(1, &gm.vbo)
	gl.GenBuffers(1, &gm.ebo)
	if gm.vao == 0 || gm.vbo == 0 || gm.ebo == 0 {
		deleteGPUMesh(gm)
		return nil, fmt.Errorf("allocate buffers")
	}

	gl.BindVertexArray(gm.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	stride := int32(vertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.BindVertexArray(0)
	return gm, nil
}

// upload fills gm from m. gm is only counted as drawable when GL reports no
// error for the upload itself.
func upload(gm *gpuMesh, m geometry.Mesh) error {
	// Stale errors from earlier calls must not be blamed on this upload.
	for i := 0; i < 8 && gl.GetError() != gl.NO_ERROR; i++ {
	}

	gl.BindVertexArray(gm.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	if !m.Empty() {
		verts := m.Interleaved()
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.DYNAMIC_DRAW)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.DYNAMIC_DRAW)
	}
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	gm.indexCount = int32(len(m.Indices))
	gm.vertices = m.VertexCount()
	return nil
}

func deleteGPUMesh(gm *gpuMesh) {
	if gm.vbo != 0 {
		gl.DeleteBuffers(1, &gm.vbo)
	}
	if gm.ebo != 0 {
		gl.DeleteBuffers(1, &gm.ebo)
	}
	if gm.vao != 0 {
		gl.DeleteVertexArrays(1, &gm.vao)
	}
}

// Draw issues the draw call for handle. Unknown or empty handles draw nothing.
func (s *MeshSink) Draw(handle meshing.Handle) bool {
	gm := s.meshes[handle]
	if gm == nil || gm.indexCount == 0 {
		return false
	}
	gl.BindVertexArray(gm.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, gm.indexCount, gl.UNSIGNED_INT, 0)
	return true
}

// Release frees the buffers of handle. It implements meshing.Releaser.
func (s *MeshSink) Release(handle meshing.Handle) {
	gm := s.meshes[handle]
	if gm == nil {
		return
	}
	s.free(gm)
	delete(s.meshes, handle)
}

// Dispose frees every handle.
func (s *MeshSink) Dispose() {
	for h := range s.meshes {
		s.Release(h)
	}
}

// Vertices returns the total vertex count currently uploaded.
func (s *MeshSink) Vertices() int {
	n := 0
	for _, gm := range s.meshes {
		n += gm.vertices
	}
	return n
}
