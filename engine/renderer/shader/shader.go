// Package shader loads WGSL sources, expands @oxy: annotations and produces the
// module descriptors consumed by the render pipelines.
package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

type shader struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	hasFragment   bool
}

// Shader is a pre-processed WGSL module with its entry points.
type Shader interface {
	// Key returns the unique identifier used as the module label.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Source returns the expanded WGSL source.
	//
	// Returns:
	//   - string: the WGSL code
	Source() string

	// VertexEntryPoint returns the name of the vertex stage function.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the fragment stage function, or "" for depth-only shaders.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// Module returns a descriptor ready for Device.CreateShaderModule.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader expands the source with the given pre-processor and returns the resulting Shader.
// Entry points default to "vs_main" and "fs_main".
//
// Parameters:
//   - key: unique identifier for the shader
//   - source: raw WGSL source containing @oxy: annotations
//   - pp: the pre-processor holding the shared chunks
//   - options: functional options for entry points
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if pre-processing fails
func NewShader(key, source string, pp PreProcessor, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:           key,
		vertexEntry:   "vs_main",
		fragmentEntry: "fs_main",
		hasFragment:   true,
	}
	for _, opt := range options {
		opt(s)
	}

	expanded, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process shader %s: %w", key, err)
	}
	s.source = expanded
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	if !s.hasFragment {
		return ""
	}
	return s.fragmentEntry
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}
