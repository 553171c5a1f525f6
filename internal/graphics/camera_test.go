package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraOrbitClamps(t *testing.T) {
	c := NewCamera(800, 600)
	c.Orbit(0, 200)
	if c.Pitch != maxPitch {
		t.Errorf("pitch not clamped: %v", c.Pitch)
	}
	c.Zoom(1000)
	if c.Distance != maxDistance {
		t.Errorf("distance not clamped: %v", c.Distance)
	}
	c.Zoom(-1)
	if c.Distance != maxDistance {
		t.Errorf("non-positive zoom factor should be ignored")
	}
}

func TestCameraPositionDistance(t *testing.T) {
	c := NewCamera(800, 600)
	c.Target = mgl32.Vec3{8, 4, 8}
	c.Orbit(33, -12)
	d := c.Position().Sub(c.Target).Len()
	if !mgl32.FloatEqualThreshold(d, c.Distance, 1e-3) {
		t.Errorf("eye distance %v, want %v", d, c.Distance)
	}
}

func TestCameraIgnoresZeroHeight(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetViewport(800, 0)
	if c.AspectRatio != float32(800)/600 {
		t.Errorf("aspect changed on zero height: %v", c.AspectRatio)
	}
}

func TestFrustumCulling(t *testing.T) {
	c := NewCamera(800, 600)
	c.Target = mgl32.Vec3{0, 0, 0}
	clip := c.GetProjectionMatrix().Mul4(c.GetViewMatrix())

	min, max := ChunkBounds(mgl32.Vec3{-8, -8, -8}, 16, 0)
	if !AABBIntersectsFrustum(min, max, clip) {
		t.Error("chunk around the target should be visible")
	}
	// Behind the camera, far away along the eye direction.
	behind := c.Position().Sub(c.Target).Normalize().Mul(300).Add(c.Position())
	min, max = ChunkBounds(behind, 16, 0)
	if AABBIntersectsFrustum(min, max, clip) {
		t.Error("chunk behind the camera should be culled")
	}
}
