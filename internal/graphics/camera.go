package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point at a fixed distance.
type Camera struct {
	Target   mgl32.Vec3
	Yaw      float32 // degrees around +Y
	Pitch    float32 // degrees above the XZ plane
	Distance float32

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

const (
	minPitch    = -89
	maxPitch    = 89
	minDistance = 2
	maxDistance = 500
)

func NewCamera(width, height int) *Camera {
	c := &Camera{
		Yaw:       45,
		Pitch:     30,
		Distance:  40,
		FOV:       60.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. A zero height (minimised window) is ignored.
func (c *Camera) SetViewport(width, height int) {
	if height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Orbit rotates the camera by the given angles in degrees.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+dYaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, minPitch, maxPitch)
}

// Zoom scales the orbit distance; factor > 1 moves away.
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance = mgl32.Clamp(c.Distance*factor, minDistance, maxDistance)
}

// Position returns the eye position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	cp := float32(math.Cos(float64(pitch)))
	dir := mgl32.Vec3{
		cp * float32(math.Cos(float64(yaw))),
		float32(math.Sin(float64(pitch))),
		cp * float32(math.Sin(float64(yaw))),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
