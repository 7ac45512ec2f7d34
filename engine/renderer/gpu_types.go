package renderer

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertex is the interleaved vertex layout shared by every mesh pipeline.
// Matches the VertexInput struct declared in the WGSL assets.
type GPUVertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [4]float32
}

// GPUVertexSize is the stride of GPUVertex in bytes.
const GPUVertexSize = uint64(unsafe.Sizeof(GPUVertex{}))

// GPUFrameUniforms holds the per-frame values read by all three pipelines.
// Layout matches the FrameUniforms WGSL struct (272 bytes).
type GPUFrameUniforms struct {
	ViewProj    mgl32.Mat4
	InvViewProj mgl32.Mat4
	LightVP     mgl32.Mat4

	// CameraPos.xyz is the eye position in world space.
	CameraPos mgl32.Vec4
	// LightDir.xyz is the normalized light travel direction; w is 1 when a light is bound.
	LightDir mgl32.Vec4
	// LightColor.rgb is color times intensity.
	LightColor mgl32.Vec4
	// Ambient packs ambient intensity, shadow bias, normal bias and the specular mip count.
	Ambient mgl32.Vec4
	// ShadowParams packs the shadow texel size (xy) and a shadows-enabled flag (z).
	ShadowParams mgl32.Vec4
}

// Marshal returns the raw bytes of the uniform block.
func (u *GPUFrameUniforms) Marshal() []byte {
	return common.StructToBytes(u)
}

// GPUObjectUniforms holds the per-draw values for one mesh primitive.
// Layout matches the ObjectUniforms WGSL struct (176 bytes).
type GPUObjectUniforms struct {
	Model     mgl32.Mat4
	Normal    mgl32.Mat4
	BaseColor mgl32.Vec4
	Emissive  mgl32.Vec4
	// Params packs metallic, roughness, occlusion strength and a has-texture flag.
	Params mgl32.Vec4
}

// Marshal returns the raw bytes of the uniform block.
func (u *GPUObjectUniforms) Marshal() []byte {
	return common.StructToBytes(u)
}

const (
	frameUniformsSize  = uint64(unsafe.Sizeof(GPUFrameUniforms{}))
	objectUniformsSize = uint64(unsafe.Sizeof(GPUObjectUniforms{}))

	// objectSlotSize is the dynamic offset stride for per-draw uniforms.
	objectSlotSize = 256
)
