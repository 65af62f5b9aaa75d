// Package camera provides the perspective camera, its named view presets and
// damped orbit controls.
package camera

import "github.com/go-gl/mathgl/mgl32"

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FovY   float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	projection mgl32.Mat4
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fovY, aspect, near, far float32) *Camera {
	c := &Camera{
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
		FovY:   fovY,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjection()
	return c
}

// LookAt re-orients the camera toward target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the projection computed by the last UpdateProjection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// UpdateProjection recomputes the projection matrix from the lens fields.
func (c *Camera) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// SetViewport sets the aspect ratio from a viewport size and recomputes the
// projection. Non-positive sizes are ignored and reported as false.
func (c *Camera) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.Aspect = float32(width) / float32(height)
	c.UpdateProjection()
	return true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}
