package blockmodel

import (
	"errors"

	"github.com/Mokuzzai/block-game/pkg/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrMissingFaceObject means the model lacks one of the six direction objects.
	ErrMissingFaceObject = errors.New("missing face object")
	// ErrUnsupportedPrimitive means a face object contains a non-triangle face.
	ErrUnsupportedPrimitive = errors.New("unsupported primitive")
	// ErrParse means the model source is malformed.
	ErrParse = errors.New("model parse error")
	// ErrIO means the model source could not be read.
	ErrIO = errors.New("model read error")
)

// Direction names one of the six faces of a block.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	Forwards
	Backwards

	NumDirections = 6
)

var directionNames = [NumDirections]string{"up", "down", "left", "right", "forwards", "backwards"}

// Directions lists every direction in mesh emission order.
var Directions = [NumDirections]Direction{Up, Down, Left, Right, Forwards, Backwards}

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return "invalid"
	}
	return directionNames[d]
}

// Offset returns the unit step towards the neighbour on this side.
// Forwards is -Z, matching a right-handed camera looking down -Z.
func (d Direction) Offset() [3]int {
	switch d {
	case Up:
		return [3]int{0, 1, 0}
	case Down:
		return [3]int{0, -1, 0}
	case Left:
		return [3]int{-1, 0, 0}
	case Right:
		return [3]int{1, 0, 0}
	case Forwards:
		return [3]int{0, 0, -1}
	case Backwards:
		return [3]int{0, 0, 1}
	}
	return [3]int{}
}

// Normal returns the outward unit normal of this side.
func (d Direction) Normal() mgl32.Vec3 {
	o := d.Offset()
	return mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
}

// ParseDirection maps an object name from a model file to its direction.
func ParseDirection(name string) (Direction, bool) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), true
		}
	}
	return 0, false
}

// FaceTemplate is the geometry of one block type split by face. Positions are
// in local unit-cube coordinates. Templates are read-only once loaded.
type FaceTemplate struct {
	Name  string
	Faces [NumDirections]*geometry.Buffer
}

// Face returns the geometry for one side.
func (t *FaceTemplate) Face(d Direction) *geometry.Buffer {
	return t.Faces[d]
}

// VertexCount returns the total vertex count over all six faces.
func (t *FaceTemplate) VertexCount() int {
	n := 0
	for _, f := range t.Faces {
		if f != nil {
			n += f.VertexCount()
		}
	}
	return n
}

// TriangleCount returns the total triangle count over all six faces.
func (t *FaceTemplate) TriangleCount() int {
	n := 0
	for _, f := range t.Faces {
		if f != nil {
			n += f.TriangleCount()
		}
	}
	return n
}
