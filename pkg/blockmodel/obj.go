package blockmodel

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Mokuzzai/block-game/pkg/geometry"
	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
)

// unitEpsilon is the slack allowed around the local unit cube.
const unitEpsilon = 1e-4

// Decoder turns a model source into the six per-direction face geometries.
type Decoder interface {
	DecodeFaces(r io.Reader) ([NumDirections]*geometry.Buffer, error)
}

// OBJDecoder reads Wavefront OBJ files containing six objects named after the
// directions. Only triangle faces are accepted. Group (g) lines are ignored so
// that faces stay with their enclosing object.
type OBJDecoder struct{}

// DecodeFaces implements Decoder.
func (OBJDecoder) DecodeFaces(r io.Reader) ([NumDirections]*geometry.Buffer, error) {
	var faces [NumDirections]*geometry.Buffer

	raw, err := io.ReadAll(r)
	if err != nil {
		return faces, fmt.Errorf("%w: %v", ErrIO, err)
	}
	src, err := screenPrimitives(raw)
	if err != nil {
		return faces, err
	}

	// No material library: geometry only.
	dec, err := obj.DecodeReader(bytes.NewReader(src), strings.NewReader(""))
	if err != nil {
		return faces, fmt.Errorf("%w: %v", ErrParse, err)
	}

	objects := make(map[string]*obj.Object, len(dec.Objects))
	for i := range dec.Objects {
		o := &dec.Objects[i]
		if _, dup := objects[o.Name]; dup {
			return faces, fmt.Errorf("%w: object %q declared twice", ErrParse, o.Name)
		}
		objects[o.Name] = o
	}

	for _, d := range Directions {
		o, ok := objects[d.String()]
		if !ok {
			return [NumDirections]*geometry.Buffer{}, fmt.Errorf("%w: %q", ErrMissingFaceObject, d.String())
		}
		buf, err := convertObject(dec, o)
		if err != nil {
			return [NumDirections]*geometry.Buffer{}, fmt.Errorf("object %q: %w", d.String(), err)
		}
		faces[d] = buf
	}
	return faces, nil
}

// screenPrimitives rejects line, point and short face records, which the OBJ
// decoder would otherwise skip or misreport, and drops group lines. It returns
// the source to hand to the decoder.
func screenPrimitives(raw []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(raw))
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		switch fields[0] {
		case "l":
			return nil, fmt.Errorf("%w: line %d: line element", ErrUnsupportedPrimitive, n)
		case "p":
			return nil, fmt.Errorf("%w: line %d: point element", ErrUnsupportedPrimitive, n)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face has %d corners", ErrUnsupportedPrimitive, n, len(fields)-1)
			}
		case "g":
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return out.Bytes(), nil
}

type cornerKey struct {
	vertex int
	uv     mgl32.Vec2
	normal mgl32.Vec3
}

// convertObject builds a buffer from one object. Corners sharing position, uv
// and normal are shared, so a quad authored as two triangles keeps 4 vertices.
func convertObject(dec *obj.Decoder, o *obj.Object) (*geometry.Buffer, error) {
	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		uvs       []mgl32.Vec2
		indices   []uint32
		seen      = make(map[cornerKey]uint32)
	)

	for fi, face := range o.Faces {
		if len(face.Vertices) != 3 {
			return nil, fmt.Errorf("%w: face %d has %d corners", ErrUnsupportedPrimitive, fi, len(face.Vertices))
		}

		var corners [3]mgl32.Vec3
		for c := 0; c < 3; c++ {
			p, ok := vec3At(dec.Vertices, face.Vertices[c])
			if !ok {
				return nil, fmt.Errorf("%w: face %d references vertex %d", ErrParse, fi, face.Vertices[c])
			}
			if !inUnitCube(p) {
				return nil, fmt.Errorf("%w: face %d vertex %v outside unit cube", ErrParse, fi, p)
			}
			corners[c] = p
		}
		flat := flatNormal(corners)

		for c := 0; c < 3; c++ {
			n := flat
			if c < len(face.Normals) {
				if authored, ok := vec3At(dec.Normals, face.Normals[c]); ok {
					n = authored
				}
			}
			var uv mgl32.Vec2
			if c < len(face.Uvs) {
				uv, _ = vec2At(dec.Uvs, face.Uvs[c])
			}

			key := cornerKey{vertex: face.Vertices[c], uv: uv, normal: n}
			idx, ok := seen[key]
			if !ok {
				idx = uint32(len(positions))
				seen[key] = idx
				positions = append(positions, corners[c])
				normals = append(normals, n)
				uvs = append(uvs, uv)
			}
			indices = append(indices, idx)
		}
	}

	buf := geometry.NewBuffer(len(positions))
	if err := buf.Append(positions, normals, uvs, indices); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return buf, nil
}

func vec3At(arr []float32, i int) (mgl32.Vec3, bool) {
	if i < 0 || 3*i+2 >= len(arr) {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{arr[3*i], arr[3*i+1], arr[3*i+2]}, true
}

func vec2At(arr []float32, i int) (mgl32.Vec2, bool) {
	if i < 0 || 2*i+1 >= len(arr) {
		return mgl32.Vec2{}, false
	}
	return mgl32.Vec2{arr[2*i], arr[2*i+1]}, true
}

func inUnitCube(p mgl32.Vec3) bool {
	for _, c := range p {
		if c < -unitEpsilon || c > 1+unitEpsilon {
			return false
		}
	}
	return true
}

// flatNormal returns the counter-clockwise face normal, or zero for a
// degenerate triangle.
func flatNormal(c [3]mgl32.Vec3) mgl32.Vec3 {
	n := c[1].Sub(c[0]).Cross(c[2].Sub(c[0]))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}
