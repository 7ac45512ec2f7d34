package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
)

// CubeFace indexes the six faces of a cubemap in GPU layer order.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// BytesPerTexel is the size of one RGBA16Float texel.
const BytesPerTexel = 8

// Cubemap is a handle onto RGBA16Float cubemap data with a full or partial mip chain.
type Cubemap interface {
	// Label returns the debug label given at creation.
	Label() string

	// Size returns the edge length of mip level 0 in texels.
	Size() int

	// Levels returns the number of mip levels.
	Levels() int

	// Data returns the staged faces, or nil once disposed.
	//
	// Returns:
	//   - *common.CubemapStagingData: the face data
	Data() *common.CubemapStagingData

	// Upload creates the GPU cubemap on first call and returns it.
	//
	// Parameters:
	//   - r: the renderer that owns the GPU texture
	//
	// Returns:
	//   - renderer.Handle: the GPU cubemap
	//   - error: ErrDisposed or the renderer's error
	Upload(r renderer.Renderer) (renderer.Handle, error)

	// GPU returns the uploaded GPU cubemap or nil.
	GPU() renderer.Handle

	// Share returns a new handle onto the same data. Each handle must be disposed.
	//
	// Returns:
	//   - Cubemap: the new handle
	//   - error: ErrDisposed if this handle or the data is already released
	Share() (Cubemap, error)

	// Refs returns the number of live handles onto the data.
	Refs() int

	// Disposed reports whether this handle has been disposed.
	Disposed() bool

	// Dispose releases this handle. The data and GPU texture are freed with the
	// last handle. Calling it again is a no-op.
	Dispose() error
}

type cubemap struct {
	handle[common.CubemapStagingData]
	size   int
	levels int
}

var _ Cubemap = &cubemap{}

// NewCubemap wraps staged cubemap faces in a new Cubemap handle.
//
// Parameters:
//   - label: debug label used for the GPU texture
//   - data: faces per level; level L must hold (Size>>L)^2 texels per face
//
// Returns:
//   - Cubemap: the handle
//   - error: if any face buffer has the wrong size
func NewCubemap(label string, data *common.CubemapStagingData) (Cubemap, error) {
	if data == nil || data.Size == 0 || len(data.Levels) == 0 {
		return nil, fmt.Errorf("cubemap %s: empty", label)
	}
	for level, faces := range data.Levels {
		edge := int(data.LevelSize(level))
		want := edge * edge * BytesPerTexel
		for face, buf := range faces {
			if len(buf) != want {
				return nil, fmt.Errorf("cubemap %s: level %d face %d has %d bytes, want %d", label, level, face, len(buf), want)
			}
		}
	}
	upload := func(r renderer.Renderer, label string, d *common.CubemapStagingData) (renderer.Handle, error) {
		return r.CreateCubemap(label, d)
	}
	return &cubemap{
		handle: handle[common.CubemapStagingData]{res: newResource(label, data, upload)},
		size:   int(data.Size),
		levels: len(data.Levels),
	}, nil
}

func (c *cubemap) Size() int { return c.size }

func (c *cubemap) Levels() int { return c.levels }

func (c *cubemap) Data() *common.CubemapStagingData {
	return c.data()
}

func (c *cubemap) Share() (Cubemap, error) {
	res, err := c.share()
	if err != nil {
		return nil, err
	}
	return &cubemap{handle: handle[common.CubemapStagingData]{res: res}, size: c.size, levels: c.levels}, nil
}
