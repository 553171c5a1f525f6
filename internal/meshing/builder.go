package meshing

import (
	"fmt"

	"github.com/Mokuzzai/block-game/internal/registry"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/Mokuzzai/block-game/pkg/blockmodel"
	"github.com/Mokuzzai/block-game/pkg/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

// FaceFilter decides whether the face of the solid voxel at local (x,y,z)
// facing d is emitted.
type FaceFilter func(x, y, z int, d blockmodel.Direction) bool

// BuildChunkMesh merges the face templates of every solid voxel of c into one
// buffer, each translated to its voxel's local position. All six faces of
// every solid voxel are emitted.
func BuildChunkMesh(c *world.Chunk, templates *registry.Templates) (*geometry.Buffer, error) {
	return BuildChunkMeshFiltered(c, templates, nil)
}

// BuildChunkMeshFiltered is BuildChunkMesh with an optional face filter. A nil
// filter emits every face. On error no buffer is returned.
func BuildChunkMeshFiltered(c *world.Chunk, templates *registry.Templates, filter FaceFilter) (*geometry.Buffer, error) {
	if c == nil {
		return geometry.NewBuffer(0), nil
	}

	out := geometry.NewBuffer(0)
	var buildErr error

	c.Each(func(x, y, z int, v world.Voxel) {
		if buildErr != nil || !v.Solid {
			return
		}
		tmpl, err := templates.Get(v.Template)
		if err != nil {
			buildErr = fmt.Errorf("chunk %v voxel (%d,%d,%d): %w", c.Coord, x, y, z, err)
			return
		}
		offset := mgl32.Vec3{float32(x), float32(y), float32(z)}
		for _, d := range blockmodel.Directions {
			if filter != nil && !filter(x, y, z, d) {
				continue
			}
			if err := out.MergeTranslated(tmpl.Face(d), offset); err != nil {
				buildErr = fmt.Errorf("chunk %v voxel (%d,%d,%d) face %s: %w", c.Coord, x, y, z, d, err)
				return
			}
		}
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return out, nil
}

// CullHidden returns a filter that drops faces whose neighbour inside c is
// solid. Faces on the chunk border are always kept.
func CullHidden(c *world.Chunk) FaceFilter {
	return func(x, y, z int, d blockmodel.Direction) bool {
		o := d.Offset()
		return !c.IsSolid(x+o[0], y+o[1], z+o[2])
	}
}
