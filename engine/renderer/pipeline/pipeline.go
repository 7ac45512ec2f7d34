// Package pipeline describes render pipeline state independently of the device that builds it.
package pipeline

import (
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type pipeline struct {
	key    string
	shader shader.Shader

	renderPipeline *wgpu.RenderPipeline

	depthFormat         wgpu.TextureFormat
	depthWriteEnabled   bool
	depthCompare        wgpu.CompareFunction
	depthBias           int32
	depthBiasSlopeScale float32
	cullMode            wgpu.CullMode
	frontFace           wgpu.FrontFace
	topology            wgpu.PrimitiveTopology
	blendState          *wgpu.BlendState
	vertexLayouts       []wgpu.VertexBufferLayout
	// sampleCount of 0 follows the render target.
	sampleCount uint32
}

// Pipeline holds the fixed-function state and shader of one render pipeline, plus the
// device object once it has been created.
type Pipeline interface {
	// Key returns the unique identifier for this pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	Key() string

	// Shader returns the shader whose entry points the pipeline runs.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// Descriptor builds the device descriptor for this pipeline.
	// A depth-only shader produces a descriptor without a fragment stage.
	//
	// Parameters:
	//   - layout: the pipeline layout
	//   - module: the compiled shader module
	//   - colorFormat: the color target format
	//   - targetSamples: the sample count of the render target, used unless the pipeline fixes its own
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule, colorFormat wgpu.TextureFormat, targetSamples uint32) *wgpu.RenderPipelineDescriptor

	// RenderPipeline returns the created device pipeline or nil.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the device pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the created device pipeline, releasing any previous one.
	//
	// Parameters:
	//   - rp: the device pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// Release frees the device pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline for the given shader.
// Defaults: Depth24Plus, depth write on, compare Less, back-face culling, CCW front faces, triangle lists.
//
// Parameters:
//   - key: unique identifier for the pipeline
//   - s: the shader to run
//   - opts: functional options for pipeline state
//
// Returns:
//   - Pipeline: the new pipeline description
func NewPipeline(key string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:               key,
		shader:            s,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		cullMode:          wgpu.CullModeBack,
		frontFace:         wgpu.FrontFaceCCW,
		topology:          wgpu.PrimitiveTopologyTriangleList,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule, colorFormat wgpu.TextureFormat, targetSamples uint32) *wgpu.RenderPipelineDescriptor {
	samples := targetSamples
	if p.sampleCount > 0 {
		samples = p.sampleCount
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.key + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.shader.VertexEntryPoint(),
			Buffers:    p.vertexLayouts,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: samples,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              p.depthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        p.depthCompare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}

	if entry := p.shader.FragmentEntryPoint(); entry != "" {
		desc.Fragment = &wgpu.FragmentState{
			Module:     module,
			EntryPoint: entry,
			Targets: []wgpu.ColorTargetState{{
				Format:    colorFormat,
				Blend:     p.blendState,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		}
	}
	return desc
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	if p.renderPipeline != nil && p.renderPipeline != rp {
		p.renderPipeline.Release()
	}
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
