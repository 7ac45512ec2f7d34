package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuMesh owns a vertex and an index buffer.
type gpuMesh struct {
	once       sync.Once
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount uint32
}

func (m *gpuMesh) Release() {
	m.once.Do(func() {
		if m.vertex != nil {
			m.vertex.Release()
		}
		if m.index != nil {
			m.index.Release()
		}
		m.vertex, m.index = nil, nil
	})
}

// gpuTexture owns a 2D texture, its sampler and the material bind group that samples it.
type gpuTexture struct {
	once      sync.Once
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

func (t *gpuTexture) Release() {
	t.once.Do(func() {
		if t.bindGroup != nil {
			t.bindGroup.Release()
		}
		if t.sampler != nil {
			t.sampler.Release()
		}
		if t.view != nil {
			t.view.Release()
		}
		if t.texture != nil {
			t.texture.Release()
		}
		t.bindGroup, t.sampler, t.view, t.texture = nil, nil, nil, nil
	})
}

// gpuCubemap owns a cube texture and its cube view.
type gpuCubemap struct {
	once    sync.Once
	texture *wgpu.Texture
	view    *wgpu.TextureView
	levels  uint32
}

func (c *gpuCubemap) Release() {
	c.once.Do(func() {
		if c.view != nil {
			c.view.Release()
		}
		if c.texture != nil {
			c.texture.Release()
		}
		c.view, c.texture = nil, nil
	})
}

func (r *wgpuRenderer) createMesh(label string, vertices []GPUVertex, indices []uint32) (*gpuMesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %s: empty vertex or index data", label)
	}

	vertexData := common.SliceToBytes(vertices)
	vb, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh %s: failed to create vertex buffer: %w", label, err)
	}
	r.queue.WriteBuffer(vb, 0, vertexData)

	indexData := common.SliceToBytes(indices)
	ib, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("mesh %s: failed to create index buffer: %w", label, err)
	}
	r.queue.WriteBuffer(ib, 0, indexData)

	return &gpuMesh{vertex: vb, index: ib, indexCount: uint32(len(indices))}, nil
}

func (r *wgpuRenderer) createTexture(label string, data *common.TextureStagingData) (*gpuTexture, error) {
	if data == nil || data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("texture %s: empty staging data", label)
	}
	if want := int(data.Width * data.Height * 4); len(data.Pixels) != want {
		return nil, fmt.Errorf("texture %s: got %d bytes, want %d", label, len(data.Pixels), want)
	}

	format := wgpu.TextureFormatRGBA8Unorm
	if data.SRGB {
		format = wgpu.TextureFormatRGBA8UnormSrgb
	}
	size := wgpu.Extent3D{Width: data.Width, Height: data.Height, DepthOrArrayLayers: 1}
	tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", label, err)
	}
	out := &gpuTexture{texture: tex}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, Aspect: wgpu.TextureAspectAll},
		data.Pixels,
		&wgpu.TextureDataLayout{BytesPerRow: data.Width * 4, RowsPerImage: data.Height},
		&size,
	)

	if out.view, err = tex.CreateView(nil); err != nil {
		out.Release()
		return nil, fmt.Errorf("texture %s: failed to create view: %w", label, err)
	}

	s := data.Sampler
	if s == nil {
		s = common.DefaultSampler()
	}
	if out.sampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}); err != nil {
		out.Release()
		return nil, fmt.Errorf("texture %s: failed to create sampler: %w", label, err)
	}

	if out.bindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Material Bind Group",
		Layout: r.materialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: out.view},
			{Binding: 1, Sampler: out.sampler},
		},
	}); err != nil {
		out.Release()
		return nil, fmt.Errorf("texture %s: failed to create bind group: %w", label, err)
	}
	return out, nil
}

func (r *wgpuRenderer) createCubemap(label string, data *common.CubemapStagingData) (*gpuCubemap, error) {
	if data == nil || data.Size == 0 || len(data.Levels) == 0 {
		return nil, fmt.Errorf("cubemap %s: empty staging data", label)
	}

	levels := uint32(len(data.Levels))
	tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Cubemap",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Size,
			Height:             data.Size,
			DepthOrArrayLayers: 6,
		},
		Format:        wgpu.TextureFormatRGBA16Float,
		MipLevelCount: levels,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("cubemap %s: %w", label, err)
	}
	out := &gpuCubemap{texture: tex, levels: levels}

	for level, faces := range data.Levels {
		edge := data.LevelSize(level)
		for face, pixels := range faces {
			r.queue.WriteTexture(
				&wgpu.ImageCopyTexture{
					Texture:  tex,
					MipLevel: uint32(level),
					Origin:   wgpu.Origin3D{Z: uint32(face)},
					Aspect:   wgpu.TextureAspectAll,
				},
				pixels,
				&wgpu.TextureDataLayout{BytesPerRow: edge * 8, RowsPerImage: edge},
				&wgpu.Extent3D{Width: edge, Height: edge, DepthOrArrayLayers: 1},
			)
		}
	}

	if out.view, err = tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           label + " Cube View",
		Format:          wgpu.TextureFormatRGBA16Float,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   levels,
		BaseArrayLayer:  0,
		ArrayLayerCount: 6,
		Aspect:          wgpu.TextureAspectAll,
	}); err != nil {
		out.Release()
		return nil, fmt.Errorf("cubemap %s: failed to create view: %w", label, err)
	}
	return out, nil
}
