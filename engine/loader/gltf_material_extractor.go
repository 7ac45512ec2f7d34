package loader

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	doc *gltf.Document
	dir string

	// textures caches decoded glTF textures by index so materials sharing one image decode it once.
	textures map[int]texture.Texture
}

// gltfMaterialExtractor defines the interface for extracting metallic-roughness materials.
type gltfMaterialExtractor interface {
	// ExtractMaterial extracts a single material by index.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document
	//
	// Returns:
	//   - model.Material: the material; its base color texture is a handle owned by the caller
	//   - error: error if the base color image cannot be read or decoded
	ExtractMaterial(materialIndex int) (model.Material, error)

	// Release disposes the extractor's own texture handles. Handles returned in
	// materials stay valid.
	Release()
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a decoded document.
//
// Parameters:
//   - doc: the decoded glTF document
//   - dir: the directory external image URIs are resolved against ("" for none)
//
// Returns:
//   - gltfMaterialExtractor: the material extractor
func newGLTFMaterialExtractor(doc *gltf.Document, dir string) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{doc: doc, dir: dir, textures: make(map[int]texture.Texture)}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (model.Material, error) {
	if materialIndex < 0 || materialIndex >= len(e.doc.Materials) {
		return model.Material{}, fmt.Errorf("material index %d out of range", materialIndex)
	}
	src := e.doc.Materials[materialIndex]

	mat := model.DefaultMaterial()
	mat.Name = src.Name
	mat.Emissive = mgl32.Vec3{float32(src.EmissiveFactor[0]), float32(src.EmissiveFactor[1]), float32(src.EmissiveFactor[2])}
	mat.DoubleSided = src.DoubleSided
	mat.AlphaCutoff = float32(src.AlphaCutoffOrDefault())
	switch src.AlphaMode {
	case gltf.AlphaMask:
		mat.AlphaMode = model.AlphaMask
	case gltf.AlphaBlend:
		mat.AlphaMode = model.AlphaBlend
	default:
		mat.AlphaMode = model.AlphaOpaque
	}

	pbr := src.PBRMetallicRoughness
	if pbr == nil {
		return mat, nil
	}
	c := pbr.BaseColorFactorOrDefault()
	mat.BaseColor = mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
	mat.Metallic = float32(pbr.MetallicFactorOrDefault())
	mat.Roughness = float32(pbr.RoughnessFactorOrDefault())

	if pbr.BaseColorTexture != nil {
		tex, err := e.loadTexture(pbr.BaseColorTexture.Index)
		if err != nil {
			return model.Material{}, fmt.Errorf("material %q base color: %w", src.Name, err)
		}
		if mat.BaseColorTexture, err = tex.Share(); err != nil {
			return model.Material{}, err
		}
	}
	return mat, nil
}

func (e *gltfMaterialExtractorImpl) Release() {
	for idx, t := range e.textures {
		t.Dispose()
		delete(e.textures, idx)
	}
}

// loadTexture decodes a glTF texture's source image into an sRGB Texture.
func (e *gltfMaterialExtractorImpl) loadTexture(textureIndex int) (texture.Texture, error) {
	if t, ok := e.textures[textureIndex]; ok {
		return t, nil
	}
	if textureIndex < 0 || textureIndex >= len(e.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	src := e.doc.Textures[textureIndex]
	if src.Source == nil || *src.Source >= len(e.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image source", textureIndex)
	}
	img := e.doc.Images[*src.Source]

	data, err := e.readImage(img)
	if err != nil {
		return nil, fmt.Errorf("image %q: %w", img.Name, err)
	}
	label := img.Name
	if label == "" {
		label = fmt.Sprintf("texture%d", textureIndex)
	}
	tex, err := texture.Decode(label, bytes.NewReader(data), true)
	if err != nil {
		return nil, err
	}
	if src.Sampler != nil && *src.Sampler < len(e.doc.Samplers) {
		tex.Data().Sampler = gltfSamplerToStagingData(e.doc.Samplers[*src.Sampler])
	}
	e.textures[textureIndex] = tex
	return tex, nil
}

// readImage returns the encoded bytes of an image from a buffer view, a data URI or a file.
func (e *gltfMaterialExtractorImpl) readImage(img *gltf.Image) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(e.doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range", *img.BufferView)
		}
		return modeler.ReadBufferView(e.doc, e.doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		if e.dir == "" {
			return nil, fmt.Errorf("external image %q cannot be resolved without a base directory", img.URI)
		}
		name, err := url.PathUnescape(img.URI)
		if err != nil {
			name = img.URI
		}
		return os.ReadFile(filepath.Join(e.dir, filepath.FromSlash(name)))
	default:
		return nil, fmt.Errorf("image has no data")
	}
}

// gltfSamplerToStagingData converts a glTF sampler into sampler staging data.
//
// Parameters:
//   - s: the glTF sampler
//
// Returns:
//   - *common.SamplerStagingData: the converted sampler staging data
func gltfSamplerToStagingData(s *gltf.Sampler) *common.SamplerStagingData {
	result := common.DefaultSampler()

	if s.MagFilter == gltf.MagNearest {
		result.MagFilter = wgpu.FilterModeNearest
	}

	switch s.MinFilter {
	case gltf.MinNearest, gltf.MinNearestMipMapNearest, gltf.MinNearestMipMapLinear:
		result.MinFilter = wgpu.FilterModeNearest
	}
	switch s.MinFilter {
	case gltf.MinNearestMipMapNearest, gltf.MinLinearMipMapNearest, gltf.MinNearest, gltf.MinLinear:
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	}

	result.AddressModeU = gltfWrapToAddressMode(s.WrapS)
	result.AddressModeV = gltfWrapToAddressMode(s.WrapT)
	return result
}

// gltfWrapToAddressMode converts a glTF wrap mode to a wgpu AddressMode.
func gltfWrapToAddressMode(wrap gltf.WrappingMode) wgpu.AddressMode {
	switch wrap {
	case gltf.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltf.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
