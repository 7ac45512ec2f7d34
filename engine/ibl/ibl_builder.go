package ibl

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BuilderOption is a functional option applied to a builder during construction via NewOutdoorBuilder.
type BuilderOption func(*builder)

// WithWorkers sets the number of pool workers used for face generation.
//
// Parameters:
//   - n: worker count (values below 1 use 1)
//
// Returns:
//   - BuilderOption: a function that applies the worker count to a builder
func WithWorkers(n int) BuilderOption {
	return func(b *builder) {
		b.workers = max(n, 1)
	}
}

// WithSampleCount sets the number of GGX importance samples per radiance texel.
//
// Parameters:
//   - n: sample count (values below 1 use 1)
//
// Returns:
//   - BuilderOption: a function that applies the sample count to a builder
func WithSampleCount(n int) BuilderOption {
	return func(b *builder) {
		b.samples = max(n, 1)
	}
}

// WithSHSampleSize sets the per-face grid used to project the sky onto spherical harmonics.
//
// Parameters:
//   - n: grid edge length (values below 4 use 4)
//
// Returns:
//   - BuilderOption: a function that applies the grid size to a builder
func WithSHSampleSize(n int) BuilderOption {
	return func(b *builder) {
		b.shSampleSize = max(n, 4)
	}
}

// WithGroundColors sets the ground color at the horizon and straight down.
//
// Parameters:
//   - near: color at the horizon
//   - far: color at the nadir
//
// Returns:
//   - BuilderOption: a function that applies the ground colors to a builder
func WithGroundColors(near, far mgl32.Vec3) BuilderOption {
	return func(b *builder) {
		b.sky.nearGround, b.sky.farGround = near, far
	}
}

// WithSkyColors sets the sky color at the horizon and at the zenith.
//
// Parameters:
//   - near: color at the horizon
//   - far: color at the zenith
//
// Returns:
//   - BuilderOption: a function that applies the sky colors to a builder
func WithSkyColors(near, far mgl32.Vec3) BuilderOption {
	return func(b *builder) {
		b.sky.nearSky, b.sky.farSky = near, far
	}
}

// WithSunExponent sets the falloff exponent of the sun lobe.
//
// Parameters:
//   - exponent: power applied to the cosine toward the sun
//
// Returns:
//   - BuilderOption: a function that applies the sun exponent to a builder
func WithSunExponent(exponent float32) BuilderOption {
	return func(b *builder) {
		b.sky.sunExponent = max(exponent, 1)
	}
}
