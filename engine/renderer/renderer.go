// Package renderer exposes the small set of GPU capabilities the scene layer needs:
// mesh, texture and cubemap creation plus a single shadowed PBR frame submission.
package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-logo/common"
)

// ErrReleased is returned when a released renderer is used.
var ErrReleased = errors.New("renderer: released")

// Handle is an opaque GPU resource created by a Renderer.
type Handle interface {
	// Release frees the GPU resource. Calling it more than once is a no-op.
	Release()
}

// ClearFlags selects which attachments Clear resets.
type ClearFlags uint8

const (
	// ClearColor resets the color attachment.
	ClearColor ClearFlags = 1 << iota
	// ClearDepth resets the depth attachment.
	ClearDepth
)

// pendingClear accumulates Clear calls until the next Render takes them.
type pendingClear struct {
	flags ClearFlags
	color [4]float32
}

func (p *pendingClear) add(flags ClearFlags, color [4]float32) {
	p.flags |= flags
	p.color = color
}

// take returns the accumulated request and resets the flags. The color is kept.
func (p *pendingClear) take() pendingClear {
	c := *p
	p.flags = 0
	return c
}

// Draw is one mesh primitive submitted for rendering.
type Draw struct {
	Mesh             Handle
	BaseColorTexture Handle
	Object           GPUObjectUniforms
	DoubleSided      bool
}

// EnvironmentBindings are the image based lighting resources sampled by the PBR pipeline.
// Nil entries fall back to neutral placeholders.
type EnvironmentBindings struct {
	BRDF     Handle
	Diffuse  Handle
	Specular Handle
}

// Frame is a complete description of one rendered frame.
type Frame struct {
	Uniforms GPUFrameUniforms
	// ShadowMapSize is the edge length of the shadow depth texture; 0 skips the shadow pass.
	ShadowMapSize int
	Draws         []Draw
	Environment   EnvironmentBindings
	// Skybox is an optional environment cubemap drawn behind all geometry.
	Skybox Handle
}

// Renderer is the GPU capability interface consumed by textures, models and the scene manager.
type Renderer interface {
	// Resize reconfigures the surface and depth targets.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Size returns the current surface size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// SetPresentMode sets how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Clear requests that the next Render starts from cleared attachments.
	//
	// Parameters:
	//   - flags: which attachments to clear
	//   - color: the clear color (RGBA)
	Clear(flags ClearFlags, color [4]float32)

	// CreateMesh uploads interleaved vertices and 32-bit indices.
	//
	// Parameters:
	//   - label: debug label
	//   - vertices: the vertex data
	//   - indices: the triangle list indices
	//
	// Returns:
	//   - Handle: the GPU mesh
	//   - error: an error if the buffers could not be created
	CreateMesh(label string, vertices []GPUVertex, indices []uint32) (Handle, error)

	// CreateTexture uploads an RGBA8 2D texture with its sampler.
	//
	// Parameters:
	//   - label: debug label
	//   - data: the staged pixels
	//
	// Returns:
	//   - Handle: the GPU texture
	//   - error: an error if the texture could not be created
	CreateTexture(label string, data *common.TextureStagingData) (Handle, error)

	// CreateCubemap uploads an RGBA16Float cubemap with every staged mip level.
	//
	// Parameters:
	//   - label: debug label
	//   - data: the staged faces
	//
	// Returns:
	//   - Handle: the GPU cubemap
	//   - error: an error if the texture could not be created
	CreateCubemap(label string, data *common.CubemapStagingData) (Handle, error)

	// Render encodes the shadow, skybox and PBR passes for a frame and presents it.
	//
	// Parameters:
	//   - frame: the frame description
	//
	// Returns:
	//   - error: an error if the swapchain could not be acquired or a handle is foreign
	Render(frame *Frame) error

	// Release frees every GPU object owned by the renderer.
	Release()
}
