package renderer

import (
	_ "embed"
	"fmt"
	"log"
	"runtime"
	"strconv"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-logo/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/x448/float16"
)

var (
	//go:embed assets/frame.wgsl
	frameChunk string
	//go:embed assets/object.wgsl
	objectChunk string
	//go:embed assets/vertex.wgsl
	vertexChunk string
	//go:embed assets/pbr.wgsl
	pbrSource string
	//go:embed assets/shadow.wgsl
	shadowSource string
	//go:embed assets/skybox.wgsl
	skyboxSource string
)

// shadowDepthBias is the rasterizer bias applied while rendering the shadow map.
const (
	shadowDepthBias      = 2
	shadowDepthBiasSlope = 2.0
)

type wgpuRenderer struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	alphaMode            wgpu.CompositeAlphaMode
	presentMode          wgpu.PresentMode
	sampleCount          MSAASampleCount
	forceFallbackAdapter bool
	pcfRadius            int

	width, height int
	msaaTexture   *wgpu.Texture
	msaaView      *wgpu.TextureView
	depthTexture  *wgpu.Texture
	depthView     *wgpu.TextureView

	clear pendingClear

	frameLayout    *wgpu.BindGroupLayout
	objectLayout   *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout
	lightingLayout *wgpu.BindGroupLayout
	skyLayout      *wgpu.BindGroupLayout

	pbr         pipeline.Pipeline
	pbrTwoSided pipeline.Pipeline
	shadow      pipeline.Pipeline
	skybox      pipeline.Pipeline

	frameBuffer    *wgpu.Buffer
	frameBindGroup *wgpu.BindGroup

	objectBuffer    *wgpu.Buffer
	objectSlots     int
	objectBindGroup *wgpu.BindGroup

	shadowTexture *wgpu.Texture
	shadowView    *wgpu.TextureView
	shadowSize    int

	comparisonSampler *wgpu.Sampler
	envSampler        *wgpu.Sampler

	whiteTexture *gpuTexture
	neutralBRDF  *gpuTexture
	blackCube    *gpuCubemap

	lightingBindGroup *wgpu.BindGroup
	lightingKey       [4]any
	skyBindGroup      *wgpu.BindGroup
	skyKey            *gpuCubemap

	released bool
}

var _ Renderer = &wgpuRenderer{}

// NewRenderer creates the WebGPU renderer for the given window, configures the surface to the
// window size and builds the shadow, PBR and skybox pipelines.
// Panics when no adapter or device is available.
//
// Parameters:
//   - win: the window providing the surface descriptor and initial size
//   - options: functional options for present mode, MSAA and adapter selection
//
// Returns:
//   - Renderer: the ready renderer
func NewRenderer(win window.Window, options ...RendererBuilderOption) Renderer {
	runtime.LockOSThread()

	r := &wgpuRenderer{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeFifo,
		sampleCount: MSAA4x,
		pcfRadius:   1,
	}
	for _, opt := range options {
		opt(r)
	}

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(win.SurfaceDescriptor())

	a, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		panic(err)
	}
	r.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	r.device = d
	r.queue = d.GetQueue()

	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surfaceFormat = capabilities.Formats[0]
	r.alphaMode = capabilities.AlphaModes[0]

	if err := r.initLayouts(); err != nil {
		panic(err)
	}
	if err := r.initPipelines(); err != nil {
		panic(err)
	}
	if err := r.initShared(); err != nil {
		panic(err)
	}

	r.configureSurface(win.Width(), win.Height())
	return r
}

func presentModeToWGPU(mode PresentMode) wgpu.PresentMode {
	if mode == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

func (r *wgpuRenderer) initLayouts() error {
	var err error
	both := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

	if r.frameLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: both,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: frameUniformsSize},
		}},
	}); err != nil {
		return fmt.Errorf("failed to create frame layout: %w", err)
	}

	if r.objectLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Object Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: both,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   objectUniformsSize,
			},
		}},
	}); err != nil {
		return fmt.Errorf("failed to create object layout: %w", err)
	}

	floatTexture := func(binding uint32, dim wgpu.TextureViewDimension) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageFragment,
			Texture:    wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: dim},
		}
	}
	filtering := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageFragment,
			Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
		}
	}

	if r.materialLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Material Layout",
		Entries: []wgpu.BindGroupLayoutEntry{floatTexture(0, wgpu.TextureViewDimension2D), filtering(1)},
	}); err != nil {
		return fmt.Errorf("failed to create material layout: %w", err)
	}

	if r.lightingLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Lighting Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture:    wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeDepth, ViewDimension: wgpu.TextureViewDimension2D},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeComparison},
			},
			floatTexture(2, wgpu.TextureViewDimension2D),
			floatTexture(3, wgpu.TextureViewDimensionCube),
			floatTexture(4, wgpu.TextureViewDimensionCube),
			filtering(5),
		},
	}); err != nil {
		return fmt.Errorf("failed to create lighting layout: %w", err)
	}

	if r.skyLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Skybox Layout",
		Entries: []wgpu.BindGroupLayoutEntry{floatTexture(0, wgpu.TextureViewDimensionCube), filtering(1)},
	}); err != nil {
		return fmt.Errorf("failed to create skybox layout: %w", err)
	}
	return nil
}

func (r *wgpuRenderer) initPipelines() error {
	pp := shader.NewPreProcessor()
	pp.RegisterChunk("frame", frameChunk)
	pp.RegisterChunk("object", objectChunk)
	pp.RegisterChunk("vertex", vertexChunk)
	pp.SetConstant("PCF_RADIUS", strconv.Itoa(r.pcfRadius))

	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: GPUVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3},
		},
	}

	pbrShader, err := shader.NewShader("pbr", pbrSource, pp)
	if err != nil {
		return err
	}
	shadowShader, err := shader.NewShader("shadow", shadowSource, pp, shader.WithVertexEntryPoint("vs_shadow"), shader.WithDepthOnly())
	if err != nil {
		return err
	}
	skyShader, err := shader.NewShader("skybox", skyboxSource, pp)
	if err != nil {
		return err
	}

	r.pbr = pipeline.NewPipeline("pbr", pbrShader, pipeline.WithVertexLayouts(vertexLayout))
	r.pbrTwoSided = pipeline.NewPipeline("pbr two sided", pbrShader,
		pipeline.WithVertexLayouts(vertexLayout),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
	r.shadow = pipeline.NewPipeline("shadow", shadowShader,
		pipeline.WithVertexLayouts(vertexLayout),
		pipeline.WithDepthFormat(wgpu.TextureFormatDepth32Float),
		pipeline.WithSampleCount(1),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithDepthBias(shadowDepthBias, shadowDepthBiasSlope),
	)
	r.skybox = pipeline.NewPipeline("skybox", skyShader,
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)

	pbrGroups := []*wgpu.BindGroupLayout{r.frameLayout, r.objectLayout, r.materialLayout, r.lightingLayout}
	if err := r.buildPipeline(r.pbr, pbrGroups); err != nil {
		return err
	}
	if err := r.buildPipeline(r.pbrTwoSided, pbrGroups); err != nil {
		return err
	}
	if err := r.buildPipeline(r.shadow, []*wgpu.BindGroupLayout{r.frameLayout, r.objectLayout}); err != nil {
		return err
	}
	return r.buildPipeline(r.skybox, []*wgpu.BindGroupLayout{r.frameLayout, r.skyLayout})
}

func (r *wgpuRenderer) buildPipeline(p pipeline.Pipeline, groups []*wgpu.BindGroupLayout) error {
	module, err := r.device.CreateShaderModule(p.Shader().Module())
	if err != nil {
		return fmt.Errorf("%s: failed to create shader module: %w", p.Key(), err)
	}
	defer module.Release()

	layout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.Key(),
		BindGroupLayouts: groups,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create pipeline layout: %w", p.Key(), err)
	}
	defer layout.Release()

	created, err := r.device.CreateRenderPipeline(p.Descriptor(layout, module, r.surfaceFormat, uint32(r.sampleCount)))
	if err != nil {
		return fmt.Errorf("%s: failed to create render pipeline: %w", p.Key(), err)
	}
	p.SetRenderPipeline(created)
	return nil
}

// initShared creates the uniform buffers, samplers and neutral placeholder textures.
func (r *wgpuRenderer) initShared() error {
	var err error
	if r.frameBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniforms",
		Size:  frameUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}); err != nil {
		return fmt.Errorf("failed to create frame buffer: %w", err)
	}
	if r.frameBindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Frame Bind Group",
		Layout:  r.frameLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: r.frameBuffer, Size: frameUniformsSize}},
	}); err != nil {
		return fmt.Errorf("failed to create frame bind group: %w", err)
	}
	if err = r.ensureObjectSlots(16); err != nil {
		return err
	}

	if r.comparisonSampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLessEqual,
		MaxAnisotropy: 1,
	}); err != nil {
		return fmt.Errorf("failed to create comparison sampler: %w", err)
	}
	if r.envSampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Environment Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}); err != nil {
		return fmt.Errorf("failed to create environment sampler: %w", err)
	}

	white := &common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
	if r.whiteTexture, err = r.createTexture("Placeholder White", white); err != nil {
		return err
	}
	// scale 1, bias 0: specular falls back to plain Fresnel
	brdf := &common.TextureStagingData{Pixels: []byte{255, 0, 0, 255}, Width: 1, Height: 1}
	if r.neutralBRDF, err = r.createTexture("Placeholder BRDF", brdf); err != nil {
		return err
	}
	black := make([]byte, 8)
	one := float16.Fromfloat32(1).Bits()
	black[6], black[7] = byte(one), byte(one>>8)
	cube := &common.CubemapStagingData{Size: 1, Levels: [][6][]byte{{black, black, black, black, black, black}}}
	if r.blackCube, err = r.createCubemap("Placeholder Cube", cube); err != nil {
		return err
	}
	return r.ensureShadowMap(1)
}

func (r *wgpuRenderer) configureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode,
		AlphaMode:   r.alphaMode,
	})

	r.releaseTargets()
	count := uint32(r.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if count > 1 {
		// draws go to the MSAA texture and resolve into the swapchain view
		msaa, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        r.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		r.msaaTexture = msaa
		if r.msaaView, err = msaa.CreateView(nil); err != nil {
			panic(err)
		}
	}

	depth, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	r.depthTexture = depth
	if r.depthView, err = depth.CreateView(nil); err != nil {
		panic(err)
	}
}

func (r *wgpuRenderer) releaseTargets() {
	if r.msaaView != nil {
		r.msaaView.Release()
		r.msaaView = nil
	}
	if r.msaaTexture != nil {
		r.msaaTexture.Release()
		r.msaaTexture = nil
	}
	if r.depthView != nil {
		r.depthView.Release()
		r.depthView = nil
	}
	if r.depthTexture != nil {
		r.depthTexture.Release()
		r.depthTexture = nil
	}
}

// ensureObjectSlots grows the dynamic-offset object buffer to hold at least n draws.
func (r *wgpuRenderer) ensureObjectSlots(n int) error {
	if n <= r.objectSlots {
		return nil
	}
	slots := max(n, r.objectSlots*2)

	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Object Uniforms",
		Size:  uint64(slots) * objectSlotSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create object buffer: %w", err)
	}
	bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Object Bind Group",
		Layout:  r.objectLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Size: objectUniformsSize}},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("failed to create object bind group: %w", err)
	}

	if r.objectBindGroup != nil {
		r.objectBindGroup.Release()
	}
	if r.objectBuffer != nil {
		r.objectBuffer.Release()
	}
	r.objectBuffer, r.objectBindGroup, r.objectSlots = buf, bg, slots
	return nil
}

// ensureShadowMap recreates the shadow depth texture when the requested size changes.
func (r *wgpuRenderer) ensureShadowMap(size int) error {
	if size == r.shadowSize && r.shadowView != nil {
		return nil
	}
	tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Shadow Depth Texture",
		Size:          wgpu.Extent3D{Width: uint32(size), Height: uint32(size), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("failed to create shadow depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("failed to create shadow depth texture view: %w", err)
	}

	if r.shadowView != nil {
		r.shadowView.Release()
	}
	if r.shadowTexture != nil {
		r.shadowTexture.Release()
	}
	r.shadowTexture, r.shadowView, r.shadowSize = tex, view, size
	return nil
}

// lightingGroup returns the bind group for the current shadow map and environment,
// rebuilding it only when one of them changed.
func (r *wgpuRenderer) lightingGroup(env EnvironmentBindings) (*wgpu.BindGroup, error) {
	brdf := r.neutralBRDF
	if env.BRDF != nil {
		t, ok := env.BRDF.(*gpuTexture)
		if !ok {
			return nil, fmt.Errorf("BRDF handle %T was not created by this renderer", env.BRDF)
		}
		brdf = t
	}
	diffuse, err := r.cubeOrPlaceholder(env.Diffuse)
	if err != nil {
		return nil, err
	}
	specular, err := r.cubeOrPlaceholder(env.Specular)
	if err != nil {
		return nil, err
	}

	key := [4]any{r.shadowView, brdf, diffuse, specular}
	if r.lightingBindGroup != nil && key == r.lightingKey {
		return r.lightingBindGroup, nil
	}

	bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Lighting Bind Group",
		Layout: r.lightingLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: r.shadowView},
			{Binding: 1, Sampler: r.comparisonSampler},
			{Binding: 2, TextureView: brdf.view},
			{Binding: 3, TextureView: diffuse.view},
			{Binding: 4, TextureView: specular.view},
			{Binding: 5, Sampler: r.envSampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lighting bind group: %w", err)
	}
	if r.lightingBindGroup != nil {
		r.lightingBindGroup.Release()
	}
	r.lightingBindGroup, r.lightingKey = bg, key
	return bg, nil
}

func (r *wgpuRenderer) cubeOrPlaceholder(h Handle) (*gpuCubemap, error) {
	if h == nil {
		return r.blackCube, nil
	}
	c, ok := h.(*gpuCubemap)
	if !ok {
		return nil, fmt.Errorf("cubemap handle %T was not created by this renderer", h)
	}
	if c.view == nil {
		return nil, fmt.Errorf("cubemap handle was released")
	}
	return c, nil
}

func (r *wgpuRenderer) skyGroup(h Handle) (*wgpu.BindGroup, error) {
	cube, err := r.cubeOrPlaceholder(h)
	if err != nil {
		return nil, err
	}
	if r.skyBindGroup != nil && r.skyKey == cube {
		return r.skyBindGroup, nil
	}
	bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Skybox Bind Group",
		Layout: r.skyLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: cube.view},
			{Binding: 1, Sampler: r.envSampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create skybox bind group: %w", err)
	}
	if r.skyBindGroup != nil {
		r.skyBindGroup.Release()
	}
	r.skyBindGroup, r.skyKey = bg, cube
	return bg, nil
}

func (r *wgpuRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.configureSurface(width, height)
}

func (r *wgpuRenderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *wgpuRenderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = presentModeToWGPU(mode)
	if !r.released {
		r.configureSurface(r.width, r.height)
	}
}

func (r *wgpuRenderer) Clear(flags ClearFlags, color [4]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear.add(flags, color)
}

func (r *wgpuRenderer) CreateMesh(label string, vertices []GPUVertex, indices []uint32) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, ErrReleased
	}
	return r.createMesh(label, vertices, indices)
}

func (r *wgpuRenderer) CreateTexture(label string, data *common.TextureStagingData) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, ErrReleased
	}
	return r.createTexture(label, data)
}

func (r *wgpuRenderer) CreateCubemap(label string, data *common.CubemapStagingData) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, ErrReleased
	}
	return r.createCubemap(label, data)
}

// resolvedDraw is a Draw with its handles resolved to backend types.
type resolvedDraw struct {
	mesh     *gpuMesh
	material *wgpu.BindGroup
	offset   uint32
	twoSided bool
}

func (r *wgpuRenderer) resolveDraws(draws []Draw) ([]resolvedDraw, error) {
	out := make([]resolvedDraw, 0, len(draws))
	for i, d := range draws {
		mesh, ok := d.Mesh.(*gpuMesh)
		if !ok {
			return nil, fmt.Errorf("draw %d: mesh handle %T was not created by this renderer", i, d.Mesh)
		}
		if mesh.vertex == nil {
			continue
		}
		material := r.whiteTexture.bindGroup
		if d.BaseColorTexture != nil {
			tex, ok := d.BaseColorTexture.(*gpuTexture)
			if !ok {
				return nil, fmt.Errorf("draw %d: texture handle %T was not created by this renderer", i, d.BaseColorTexture)
			}
			if tex.bindGroup != nil {
				material = tex.bindGroup
			}
		}

		slot := len(out)
		obj := d.Object
		r.queue.WriteBuffer(r.objectBuffer, uint64(slot)*objectSlotSize, obj.Marshal())
		out = append(out, resolvedDraw{
			mesh:     mesh,
			material: material,
			offset:   uint32(slot) * objectSlotSize,
			twoSided: d.DoubleSided,
		})
	}
	return out, nil
}

func (r *wgpuRenderer) Render(frame *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	// Every call consumes the pending clear, including frames skipped while minimized.
	pending := r.clear.take()
	if r.width == 0 || r.height == 0 {
		return nil
	}

	if err := r.ensureObjectSlots(len(frame.Draws)); err != nil {
		return err
	}
	if frame.ShadowMapSize > 0 {
		if err := r.ensureShadowMap(frame.ShadowMapSize); err != nil {
			return err
		}
	}

	uniforms := frame.Uniforms
	r.queue.WriteBuffer(r.frameBuffer, 0, uniforms.Marshal())

	draws, err := r.resolveDraws(frame.Draws)
	if err != nil {
		return err
	}
	lighting, err := r.lightingGroup(frame.Environment)
	if err != nil {
		return err
	}
	var sky *wgpu.BindGroup
	if frame.Skybox != nil {
		if sky, err = r.skyGroup(frame.Skybox); err != nil {
			return err
		}
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	if frame.ShadowMapSize > 0 {
		r.encodeShadowPass(encoder, draws)
	}
	r.encodeMainPass(encoder, view, draws, lighting, sky, pending)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	r.queue.Submit(commandBuffer)
	r.surface.Present()
	return nil
}

func (r *wgpuRenderer) encodeShadowPass(encoder *wgpu.CommandEncoder, draws []resolvedDraw) {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Shadow Pass",
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.shadowView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	defer pass.Release()

	pass.SetPipeline(r.shadow.RenderPipeline())
	pass.SetBindGroup(0, r.frameBindGroup, nil)
	for _, d := range draws {
		pass.SetBindGroup(1, r.objectBindGroup, []uint32{d.offset})
		pass.SetVertexBuffer(0, d.mesh.vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(d.mesh.indexCount, 1, 0, 0, 0)
	}
	pass.End()
}

func (r *wgpuRenderer) encodeMainPass(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, draws []resolvedDraw, lighting, sky *wgpu.BindGroup, pending pendingClear) {
	color := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpLoad,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(pending.color[0]),
			G: float64(pending.color[1]),
			B: float64(pending.color[2]),
			A: float64(pending.color[3]),
		},
	}
	if r.msaaView != nil {
		color.View = r.msaaView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}
	// the multisampled target is never preserved between frames
	if pending.flags&ClearColor != 0 || r.msaaView != nil {
		color.LoadOp = wgpu.LoadOpClear
	}
	depthLoad := wgpu.LoadOpLoad
	if pending.flags&ClearDepth != 0 || r.msaaView != nil {
		depthLoad = wgpu.LoadOpClear
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "Main Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	defer pass.Release()

	pass.SetBindGroup(0, r.frameBindGroup, nil)
	pass.SetBindGroup(3, lighting, nil)
	var bound pipeline.Pipeline
	for _, d := range draws {
		p := r.pbr
		if d.twoSided {
			p = r.pbrTwoSided
		}
		if p != bound {
			pass.SetPipeline(p.RenderPipeline())
			bound = p
		}
		pass.SetBindGroup(1, r.objectBindGroup, []uint32{d.offset})
		pass.SetBindGroup(2, d.material, nil)
		pass.SetVertexBuffer(0, d.mesh.vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(d.mesh.indexCount, 1, 0, 0, 0)
	}

	if sky != nil {
		pass.SetPipeline(r.skybox.RenderPipeline())
		pass.SetBindGroup(0, r.frameBindGroup, nil)
		pass.SetBindGroup(1, sky, nil)
		pass.Draw(3, 1, 0, 0)
	}
	pass.End()
}

func (r *wgpuRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true

	for _, p := range []pipeline.Pipeline{r.pbr, r.pbrTwoSided, r.shadow, r.skybox} {
		if p != nil {
			p.Release()
		}
	}
	for _, bg := range []*wgpu.BindGroup{r.lightingBindGroup, r.skyBindGroup, r.objectBindGroup, r.frameBindGroup} {
		if bg != nil {
			bg.Release()
		}
	}
	for _, t := range []*gpuTexture{r.whiteTexture, r.neutralBRDF} {
		if t != nil {
			t.Release()
		}
	}
	if r.blackCube != nil {
		r.blackCube.Release()
	}
	for _, b := range []*wgpu.Buffer{r.objectBuffer, r.frameBuffer} {
		if b != nil {
			b.Release()
		}
	}
	for _, s := range []*wgpu.Sampler{r.comparisonSampler, r.envSampler} {
		if s != nil {
			s.Release()
		}
	}
	if r.shadowView != nil {
		r.shadowView.Release()
	}
	if r.shadowTexture != nil {
		r.shadowTexture.Release()
	}
	r.releaseTargets()
	for _, l := range []*wgpu.BindGroupLayout{r.frameLayout, r.objectLayout, r.materialLayout, r.lightingLayout, r.skyLayout} {
		if l != nil {
			l.Release()
		}
	}
	r.surface.Release()
	r.queue.Release()
	r.device.Release()
	r.adapter.Release()
	r.instance.Release()
	log.Printf("[Renderer] released")
}
