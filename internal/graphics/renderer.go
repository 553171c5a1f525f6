package graphics

import (
	"github.com/Mokuzzai/block-game/internal/meshing"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawItem places a published mesh in the world.
type DrawItem struct {
	Handle meshing.Handle
	Origin mgl32.Vec3 // world position of the chunk's minimum corner
	Size   int        // chunk edge length, for frustum tests
}

// Renderer draws chunk meshes from its MeshSink with one textured shader.
type Renderer struct {
	shader  *Shader
	sink    *MeshSink
	camera  *Camera
	texture uint32

	lightDir      mgl32.Vec3
	frustumMargin float32
	width, height int

	Wireframe bool
}

// NewRenderer compiles the chunk shader and loads the block texture. It
// expects a current GL context.
func NewRenderer(width, height int, texturePath string) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.53, 0.72, 0.9, 1.0)

	shader, err := NewShader(chunkVertSource, chunkFragSource)
	if err != nil {
		return nil, err
	}
	tex, err := GetTexture(texturePath, DefaultTextureSize)
	if err != nil {
		shader.Delete()
		return nil, err
	}
	r := &Renderer{
		shader:        shader,
		sink:          NewMeshSink(),
		camera:        NewCamera(width, height),
		texture:       tex,
		lightDir:      mgl32.Vec3{0.3, 1.0, 0.5}.Normalize(),
		frustumMargin: 1.0,
	}
	r.UpdateViewport(width, height)
	return r, nil
}

// Sink returns the mesh sink the meshing system publishes into.
func (r *Renderer) Sink() *MeshSink { return r.sink }

func (r *Renderer) Camera() *Camera { return r.camera }

// UpdateViewport resizes the GL viewport and the camera aspect.
func (r *Renderer) UpdateViewport(width, height int) {
	r.width, r.height = width, height
	r.camera.SetViewport(width, height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Render clears the frame and draws every visible item. It returns how many
// items were drawn.
func (r *Renderer) Render(items []DrawItem) int {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := r.camera.GetViewMatrix()
	projection := r.camera.GetProjectionMatrix()
	clip := projection.Mul4(view)

	r.shader.Use()
	r.shader.SetMatrix4("proj", &projection[0])
	r.shader.SetMatrix4("view", &view[0])
	r.shader.SetVector3("lightDir", r.lightDir.X(), r.lightDir.Y(), r.lightDir.Z())
	r.shader.SetInt("blockTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		r.shader.SetInt("wireframe", 1)
	} else {
		r.shader.SetInt("wireframe", 0)
	}

	drawn := 0
	for _, it := range items {
		min, max := ChunkBounds(it.Origin, it.Size, r.frustumMargin)
		if !AABBIntersectsFrustum(min, max, clip) {
			continue
		}
		model := mgl32.Translate3D(it.Origin.X(), it.Origin.Y(), it.Origin.Z())
		r.shader.SetMatrix4("model", &model[0])
		if r.sink.Draw(it.Handle) {
			drawn++
		}
	}
	gl.BindVertexArray(0)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	return drawn
}

// Dispose frees GL resources owned by the renderer.
func (r *Renderer) Dispose() {
	r.sink.Dispose()
	r.shader.Delete()
	ReleaseTextures()
}
