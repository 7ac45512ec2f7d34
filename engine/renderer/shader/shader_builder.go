package shader

// ShaderBuilderOption is a functional option applied to a shader during construction via NewShader.
type ShaderBuilderOption func(*shader)

// WithVertexEntryPoint overrides the vertex stage function name.
//
// Parameters:
//   - name: the WGSL function name
//
// Returns:
//   - ShaderBuilderOption: a function that applies the entry point to a shader
func WithVertexEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexEntry = name
	}
}

// WithFragmentEntryPoint overrides the fragment stage function name.
//
// Parameters:
//   - name: the WGSL function name
//
// Returns:
//   - ShaderBuilderOption: a function that applies the entry point to a shader
func WithFragmentEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.fragmentEntry = name
	}
}

// WithDepthOnly marks the shader as having no fragment stage.
//
// Returns:
//   - ShaderBuilderOption: a function that removes the fragment stage from a shader
func WithDepthOnly() ShaderBuilderOption {
	return func(s *shader) {
		s.hasFragment = false
	}
}
