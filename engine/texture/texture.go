// Package texture holds CPU-side texture and cubemap data with shared
// ownership and lazy upload to a renderer.
package texture

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/brdfLUT.png
var brdfLUTPNG []byte

// Texture is a handle onto 2D RGBA8 texture data.
type Texture interface {
	// Label returns the debug label given at creation.
	Label() string

	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Data returns the staged pixel data, or nil once disposed.
	//
	// Returns:
	//   - *common.TextureStagingData: the pixel data
	Data() *common.TextureStagingData

	// Upload creates the GPU texture on first call and returns it. Later calls
	// return the same GPU handle, also through shared handles.
	//
	// Parameters:
	//   - r: the renderer that owns the GPU texture
	//
	// Returns:
	//   - renderer.Handle: the GPU texture
	//   - error: ErrDisposed or the renderer's error
	Upload(r renderer.Renderer) (renderer.Handle, error)

	// GPU returns the uploaded GPU texture or nil.
	GPU() renderer.Handle

	// Share returns a new handle onto the same data. Each handle must be disposed.
	//
	// Returns:
	//   - Texture: the new handle
	//   - error: ErrDisposed if this handle or the data is already released
	Share() (Texture, error)

	// Refs returns the number of live handles onto the data.
	Refs() int

	// Disposed reports whether this handle has been disposed.
	Disposed() bool

	// Dispose releases this handle. The data and GPU texture are freed with the
	// last handle. Calling it again is a no-op.
	//
	// Returns:
	//   - error: always nil; present to match other disposable resources
	Dispose() error
}

type texture2D struct {
	handle[common.TextureStagingData]
	width, height int
}

var _ Texture = &texture2D{}

// NewTexture wraps staged pixel data in a new Texture handle.
//
// Parameters:
//   - label: debug label used for the GPU texture
//   - data: RGBA8 pixel data; must hold Width*Height*4 bytes
//
// Returns:
//   - Texture: the handle
//   - error: if the pixel buffer does not match the dimensions
func NewTexture(label string, data *common.TextureStagingData) (Texture, error) {
	if data == nil || data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("texture %s: empty image", label)
	}
	if want := int(data.Width) * int(data.Height) * 4; len(data.Pixels) != want {
		return nil, fmt.Errorf("texture %s: have %d bytes, want %d", label, len(data.Pixels), want)
	}
	upload := func(r renderer.Renderer, label string, d *common.TextureStagingData) (renderer.Handle, error) {
		return r.CreateTexture(label, d)
	}
	return &texture2D{
		handle: handle[common.TextureStagingData]{res: newResource(label, data, upload)},
		width:  int(data.Width),
		height: int(data.Height),
	}, nil
}

func (t *texture2D) Width() int { return t.width }
func (t *texture2D) Height() int { return t.height }

func (t *texture2D) Data() *common.TextureStagingData {
	return t.data()
}

func (t *texture2D) Share() (Texture, error) {
	res, err := t.share()
	if err != nil {
		return nil, err
	}
	return &texture2D{handle: handle[common.TextureStagingData]{res: res}, width: t.width, height: t.height}, nil
}

// Decode reads a PNG or JPEG image into a new Texture.
//
// Parameters:
//   - label: debug label
//   - r: the encoded image
//   - srgb: true for color data, false for data textures such as lookup tables
//
// Returns:
//   - Texture: the decoded texture
//   - error: if the image cannot be decoded
func Decode(label string, r io.Reader, srgb bool) (Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", label, err)
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return NewTexture(label, &common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		SRGB:   srgb,
	})
}

// Load reads an image file into a new sRGB Texture.
//
// Parameters:
//   - path: the image file
//
// Returns:
//   - Texture: the decoded texture
//   - error: if the file cannot be read or decoded
func Load(path string) (Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer f.Close()
	return Decode(path, f, true)
}

// LoadBRDFLUT decodes the split-sum BRDF lookup table bundled with the engine.
// U is N·V and V is perceptual roughness; red holds the Fresnel scale and
// green the bias.
//
// Returns:
//   - Texture: a new handle onto the lookup table
//   - error: if the bundled image is corrupt
func LoadBRDFLUT() (Texture, error) {
	t, err := Decode("brdfLUT", bytes.NewReader(brdfLUTPNG), false)
	if err != nil {
		return nil, err
	}
	t.Data().Sampler = &common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}
	return t, nil
}
