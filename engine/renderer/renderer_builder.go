package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*wgpuRenderer)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		r.presentMode = presentModeToWGPU(mode)
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. Defaults to MSAA4x.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		r.sampleCount = count
	}
}

// WithForceSoftwareRenderer requests a CPU fallback adapter. Requires a software Vulkan ICD
// such as SwiftShader or lavapipe.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the fallback adapter option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		r.forceFallbackAdapter = force
	}
}

// WithPCFRadius sets the shadow filter kernel radius in texels. 0 takes a single tap.
//
// Parameters:
//   - radius: kernel radius
//
// Returns:
//   - RendererBuilderOption: a function that applies the PCF radius to a renderer
func WithPCFRadius(radius int) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		r.pcfRadius = max(radius, 0)
	}
}
