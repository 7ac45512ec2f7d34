package model

import (
	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// --- Node Types ---

// Transform represents a decomposed local transform.
type Transform struct {
	// Translation is the position offset.
	Translation mgl32.Vec3

	// Rotation is the orientation quaternion.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, rotation or scale.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes the transform as T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	return common.TRS(t.Translation, t.Rotation, t.Scale)
}

// Node is one entry of the asset's node hierarchy.
type Node struct {
	// Name is the node identifier (for debugging and animation targeting).
	Name string

	// Parent is the index of the parent node (-1 for roots).
	Parent int

	// Children are the indices of the child nodes.
	Children []int

	// Local is the node's rest transform relative to its parent.
	Local Transform

	// Matrix replaces Local when the file gives the node a raw matrix.
	// Such nodes are not animated.
	Matrix *mgl32.Mat4

	// Meshes are indices into Asset.Meshes drawn at this node.
	Meshes []int
}

// --- Geometry & Material Types ---

// Mesh is one drawable primitive: a triangle list with a single material.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the interleaved vertices uploaded as-is.
	Vertices []renderer.GPUVertex

	// Indices are the triangle indices.
	Indices []uint32

	// MaterialIndex references Asset.Materials (-1 for the default material).
	MaterialIndex int

	// Bounds is the axis-aligned bounding box in mesh space.
	Bounds common.AABB
}

// AlphaMode is the glTF alpha rendering mode.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// Material holds metallic-roughness material properties.
type Material struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the linear base color factor.
	BaseColor mgl32.Vec4

	// BaseColorTexture is the sRGB base color map (nil when absent).
	BaseColorTexture texture.Texture

	// Metallic is the metalness factor in [0, 1].
	Metallic float32

	// Roughness is the perceptual roughness factor in [0, 1].
	Roughness float32

	// Emissive is the linear emissive color.
	Emissive mgl32.Vec3

	// AlphaMode selects opaque, masked or blended rendering.
	AlphaMode AlphaMode

	// AlphaCutoff is the mask threshold for AlphaMask.
	AlphaCutoff float32

	// DoubleSided disables back-face culling.
	DoubleSided bool
}

// DefaultMaterial returns the glTF default material: white, fully metallic and fully rough.
func DefaultMaterial() Material {
	return Material{
		Name:        "default",
		BaseColor:   mgl32.Vec4{1, 1, 1, 1},
		Metallic:    1,
		Roughness:   1,
		AlphaCutoff: 0.5,
	}
}

// --- Animation Types ---

// AnimationClip represents a single node animation.
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// Channels contains animation data for each animated node.
	Channels []AnimationChannel
}

// AnimationChannel contains keyframe data for a single node.
type AnimationChannel struct {
	// NodeIndex is the index of the node this channel animates.
	NodeIndex int

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation.
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe

	// PositionStep, RotationStep and ScaleStep hold each key until the next one
	// instead of interpolating.
	PositionStep, RotationStep, ScaleStep bool
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value mgl32.Vec3
}

// QuaternionKeyframe stores a rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the rotation at this keyframe.
	Value mgl32.Quat
}
