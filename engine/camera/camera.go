package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	position  mgl32.Vec3
	direction mgl32.Vec3
	up        mgl32.Vec3

	fov            float32
	near           float32
	far            float32
	viewportWidth  int
	viewportHeight int

	viewMatrix                  mgl32.Mat4
	projectionMatrix            mgl32.Mat4
	viewProjectionMatrix        mgl32.Mat4
	inverseViewProjectionMatrix mgl32.Mat4
	frustum                     common.Frustum
}

// Camera is a perspective camera defined by a position, a view direction and
// an up vector. Setters only change state; Update recomputes the matrices,
// so several changes in one frame cost a single recomputation.
type Camera interface {
	// Position returns the world-space camera position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition sets the world-space camera position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Direction returns the normalized view direction.
	//
	// Returns:
	//   - mgl32.Vec3: the direction
	Direction() mgl32.Vec3

	// SetDirection sets the view direction. Zero vectors are ignored.
	//
	// Parameters:
	//   - d: the new direction (normalized internally)
	SetDirection(d mgl32.Vec3)

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - up: the new up vector (normalized internally)
	SetUp(up mgl32.Vec3)

	// LookAt turns the camera toward target and re-orthogonalizes the up vector
	// against the new direction. Does nothing when target equals the position.
	//
	// Parameters:
	//   - target: the world-space point to face
	LookAt(target mgl32.Vec3)

	// RotateAround rotates the camera position and orientation around a pivot.
	//
	// Parameters:
	//   - point: the pivot in world space
	//   - axis: the rotation axis
	//   - angle: the rotation angle in radians
	RotateAround(point, axis mgl32.Vec3, angle float32)

	// Translate moves the camera by v without changing its orientation.
	//
	// Parameters:
	//   - v: the world-space offset
	Translate(v mgl32.Vec3)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Viewport returns the viewport size in pixels.
	//
	// Returns:
	//   - width, height: viewport size
	Viewport() (width, height int)

	// SetViewport sets the viewport size, which defines the aspect ratio.
	// Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	SetViewport(width, height int)

	// Aspect returns the viewport aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Update recomputes the view, projection and combined matrices and the frustum.
	Update()

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the projection matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view from the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4

	// InverseViewProjectionMatrix returns the inverse of ViewProjectionMatrix.
	// The skybox uses it to turn clip-space positions into world directions.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse combined matrix
	InverseViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the view frustum from the last Update.
	//
	// Returns:
	//   - common.Frustum: the frustum planes
	Frustum() common.Frustum
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera at (0, 0, 1) looking down -Z, then
// applies the options and computes the initial matrices.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:             &sync.Mutex{},
		position:       mgl32.Vec3{0, 0, 1},
		direction:      mgl32.Vec3{0, 0, -1},
		up:             mgl32.Vec3{0, 1, 0},
		fov:            67.0 * (math.Pi / 180.0),
		near:           1,
		far:            100,
		viewportWidth:  1,
		viewportHeight: 1,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *cameraImpl) SetDirection(d mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.direction = common.SafeNormalize(d, c.direction)
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = common.SafeNormalize(up, c.up)
}

func (c *cameraImpl) LookAt(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := target.Sub(c.position)
	if d.Len() < 1e-8 {
		return
	}
	c.direction = d.Normalize()
	c.normalizeUp()
}

func (c *cameraImpl) RotateAround(point, axis mgl32.Vec3, angle float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if axis.Len() < 1e-8 {
		return
	}
	q := mgl32.QuatRotate(angle, axis.Normalize())
	c.position = point.Add(q.Rotate(c.position.Sub(point)))
	c.direction = q.Rotate(c.direction).Normalize()
	c.up = q.Rotate(c.up).Normalize()
}

func (c *cameraImpl) Translate(v mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(v)
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
}

func (c *cameraImpl) Viewport() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportWidth, c.viewportHeight
}

func (c *cameraImpl) SetViewport(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	c.viewportWidth = width
	c.viewportHeight = height
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum
}

// aspect returns width / height. Caller must hold the mutex.
func (c *cameraImpl) aspect() float32 {
	return float32(c.viewportWidth) / float32(c.viewportHeight)
}

// normalizeUp makes up perpendicular to direction while keeping it in the
// plane spanned by the previous up and the direction.
// Caller must hold the mutex.
func (c *cameraImpl) normalizeUp() {
	right := c.direction.Cross(c.up)
	if right.Len() < 1e-6 {
		return
	}
	c.up = right.Normalize().Cross(c.direction).Normalize()
}

// updateMatrices recalculates the view, projection, combined and inverse matrices
// and the frustum. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.position, c.position.Add(c.direction), c.up)
	c.projectionMatrix = common.Perspective(c.fov, c.aspect(), c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	if c.viewProjectionMatrix.Det() != 0 {
		c.inverseViewProjectionMatrix = c.viewProjectionMatrix.Inv()
	}
	c.frustum = common.ExtractFrustumFromMatrix(c.viewProjectionMatrix)
}
