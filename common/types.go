// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA8 pixel data for a 2D texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
	// SRGB marks color data that should be sampled with sRGB decoding.
	SRGB bool
	// Sampler overrides the default linear/repeat sampler when non-nil.
	Sampler *SamplerStagingData
}

// CubemapStagingData holds RGBA16Float pixel data for a cubemap pending GPU upload.
// Faces are ordered +X, -X, +Y, -Y, +Z, -Z per mip level.
type CubemapStagingData struct {
	// Size is the edge length in texels of mip level 0.
	Size uint32
	// Levels holds one entry per mip level, each with six face buffers.
	// Every face buffer has 8 bytes per texel (four half floats).
	Levels [][6][]byte
}

// LevelSize returns the edge length of the given mip level (never less than 1).
//
// Parameters:
//   - level: the mip level
//
// Returns:
//   - uint32: edge length in texels
func (c *CubemapStagingData) LevelSize(level int) uint32 {
	return max(c.Size>>uint(level), 1)
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
}

// DefaultSampler returns the linear, repeating sampler used when a texture specifies none.
//
// Returns:
//   - *SamplerStagingData: a new sampler configuration
func DefaultSampler() *SamplerStagingData {
	return &SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
	}
}
