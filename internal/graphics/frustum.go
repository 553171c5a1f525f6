package graphics

import "github.com/go-gl/mathgl/mgl32"

// AABBIntersectsFrustum tests a box against the frustum of clip
// (projection * view) with clip-space half-space tests. It may report false
// positives near frustum corners but never drops a visible box.
func AABBIntersectsFrustum(min, max mgl32.Vec3, clip mgl32.Mat4) bool {
	corners := [8]mgl32.Vec4{
		{min.X(), min.Y(), min.Z(), 1},
		{max.X(), min.Y(), min.Z(), 1},
		{min.X(), max.Y(), min.Z(), 1},
		{max.X(), max.Y(), min.Z(), 1},
		{min.X(), min.Y(), max.Z(), 1},
		{max.X(), min.Y(), max.Z(), 1},
		{min.X(), max.Y(), max.Z(), 1},
		{max.X(), max.Y(), max.Z(), 1},
	}
	var v [8]mgl32.Vec4
	for i := range corners {
		v[i] = clip.Mul4x1(corners[i])
	}

	// Each plane is axis*sign - w <= 0 for points inside.
	for axis := 0; axis < 3; axis++ {
		for _, sign := range [2]float32{1, -1} {
			outside := true
			for i := range v {
				if sign*v[i][axis]-v[i].W() <= 0 {
					outside = false
					break
				}
			}
			if outside {
				return false
			}
		}
	}
	return true
}

// ChunkBounds returns the world-space box of a chunk of edge size whose
// minimum corner is origin, inflated by margin on every side.
func ChunkBounds(origin mgl32.Vec3, size int, margin float32) (mgl32.Vec3, mgl32.Vec3) {
	s := float32(size)
	m := mgl32.Vec3{margin, margin, margin}
	return origin.Sub(m), origin.Add(mgl32.Vec3{s, s, s}).Add(m)
}
