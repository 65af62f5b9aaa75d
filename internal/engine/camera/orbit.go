package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

const dampingEpsilon = 1e-5

// OrbitControls orbits a Camera around its Target. Drag and zoom input is
// accumulated and applied in Update, once per frame. With damping enabled
// the accumulated rotation is released gradually over several frames.
//
// The orbit state is derived from the camera on every Update, so the
// camera may be moved externally (for example by SetView) without
// resynchronizing the controls.
type OrbitControls struct {
	cam *Camera

	EnableDamping bool
	DampingFactor float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	deltaYaw   float32
	deltaPitch float32
	zoomScale  float32
}

// NewOrbitControls attaches controls to cam and points the camera at target.
func NewOrbitControls(cam *Camera, target mgl32.Vec3) *OrbitControls {
	cam.LookAt(target)
	return &OrbitControls{
		cam:             cam,
		EnableDamping:   true,
		DampingFactor:   0.1,
		MinDistance:     0.5,
		MaxDistance:     200,
		MinPitch:        -gomath.Pi/2 + 0.001,
		MaxPitch:        gomath.Pi/2 - 0.001,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		zoomScale:       1,
	}
}

// Camera returns the controlled camera.
func (o *OrbitControls) Camera() *Camera { return o.cam }

// HandleDrag queues a rotation from a pointer drag delta in pixels.
func (o *OrbitControls) HandleDrag(deltaX, deltaY float32) {
	o.deltaYaw -= deltaX * o.DragSensitivity
	o.deltaPitch += deltaY * o.DragSensitivity
}

// HandleZoom queues a dolly from a scroll wheel delta; positive zooms in.
func (o *OrbitControls) HandleZoom(delta float32) {
	o.zoomScale *= 1 - delta*o.ZoomSensitivity
	if o.zoomScale <= 0 {
		o.zoomScale = 0.01
	}
}

// Pending reports whether Update still has motion to apply.
func (o *OrbitControls) Pending() bool {
	return mgl32.Abs(o.deltaYaw) > dampingEpsilon ||
		mgl32.Abs(o.deltaPitch) > dampingEpsilon ||
		o.zoomScale != 1
}

// Update advances the controls by one step and moves the camera.
// Returns true if the camera moved.
func (o *OrbitControls) Update() bool {
	if !o.Pending() {
		o.deltaYaw, o.deltaPitch = 0, 0
		return false
	}

	target := o.cam.Target
	offset := o.cam.Position.Sub(target)
	radius := offset.Len()
	if radius < 1e-6 {
		radius = o.MinDistance
		offset = mgl32.Vec3{0, 0, radius}
	}

	yaw := float32(gomath.Atan2(float64(offset.X()), float64(offset.Z())))
	pitch := float32(gomath.Asin(float64(mgl32.Clamp(offset.Y()/radius, -1, 1))))

	stepYaw, stepPitch := o.deltaYaw, o.deltaPitch
	if o.EnableDamping {
		stepYaw *= o.DampingFactor
		stepPitch *= o.DampingFactor
	}
	yaw += stepYaw
	pitch = mgl32.Clamp(pitch+stepPitch, o.MinPitch, o.MaxPitch)
	radius = mgl32.Clamp(radius*o.zoomScale, o.MinDistance, o.MaxDistance)

	cosPitch := float32(gomath.Cos(float64(pitch)))
	o.cam.Position = target.Add(mgl32.Vec3{
		radius * cosPitch * float32(gomath.Sin(float64(yaw))),
		radius * float32(gomath.Sin(float64(pitch))),
		radius * cosPitch * float32(gomath.Cos(float64(yaw))),
	})

	if o.EnableDamping {
		o.deltaYaw *= 1 - o.DampingFactor
		o.deltaPitch *= 1 - o.DampingFactor
	} else {
		o.deltaYaw, o.deltaPitch = 0, 0
	}
	o.zoomScale = 1
	return true
}

// Stop discards any queued motion.
func (o *OrbitControls) Stop() {
	o.deltaYaw, o.deltaPitch = 0, 0
	o.zoomScale = 1
}
