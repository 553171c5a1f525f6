package world

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Generator kinds accepted by NewGenerator.
const (
	GenEmpty    = "empty"
	GenDiagonal = "diagonal"
	GenSolid    = "solid"
	GenTerrain  = "terrain"
)

// Generator fills chunks for the demo world.
type Generator struct {
	kind       string
	noise      opensimplex.Noise32
	scale      float32
	baseHeight int
	amp        float32
}

// NewGenerator creates a generator of the given kind. Seed only affects terrain.
func NewGenerator(kind string, seed int64) (*Generator, error) {
	switch kind {
	case GenEmpty, GenDiagonal, GenSolid, GenTerrain:
	default:
		return nil, fmt.Errorf("unknown generator %q", kind)
	}
	return &Generator{
		kind:       kind,
		noise:      opensimplex.New32(seed),
		scale:      1.0 / 24.0,
		baseHeight: 6,
		amp:        5,
	}, nil
}

// HeightAt returns the terrain surface height at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.noise.Eval2(float32(worldX)*g.scale, float32(worldZ)*g.scale)
	h := float64(g.baseHeight) + float64(n*g.amp)
	if h < 0 {
		return 0
	}
	return int(math.Floor(h))
}

// Populate writes voxels into c using template for every solid cell. The
// initial Fill marks c dirty.
func (g *Generator) Populate(c *Chunk, template uint32) {
	solid := Voxel{Template: template, Solid: true}
	n := c.Size()
	switch g.kind {
	case GenEmpty:
		c.Fill(Voxel{})
	case GenSolid:
		c.Fill(solid)
	case GenDiagonal:
		c.Fill(Voxel{})
		for i := 0; i < n; i++ {
			c.setLocal(i, i, i, solid)
		}
	case GenTerrain:
		c.Fill(Voxel{})
		baseY := c.Coord.Y * n
		for z := 0; z < n; z++ {
			for x := 0; x < n; x++ {
				top := g.HeightAt(c.Coord.X*n+x, c.Coord.Z*n+z) - baseY
				if top > n {
					top = n
				}
				for y := 0; y < top; y++ {
					c.setLocal(x, y, z, solid)
				}
			}
		}
	}
}
