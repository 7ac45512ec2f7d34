// Package ibl precomputes image based lighting cubemaps for a procedural outdoor sky lit by a
// directional light: the environment itself, its diffuse irradiance and a roughness mip chain
// of prefiltered specular radiance.
package ibl

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/light"
	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"
)

// ErrDisposed is returned by builds on a disposed Builder.
var ErrDisposed = errors.New("ibl: builder is disposed")

const (
	// maxLevels bounds the radiance mip chain so the base face stays addressable.
	maxLevels = 14
	// rowsPerTask is the number of face rows computed by one worker task.
	rowsPerTask = 32
	// taskQueueSize bounds the pending row bands.
	taskQueueSize = 256
)

type builder struct {
	mu *sync.Mutex

	sky          outdoorSky
	tasks        chan worker.Task
	stop         chan int
	crew         []worker.Worker
	workers      int
	samples      int
	shSampleSize int
	disposed     bool
}

// Builder generates IBL cubemaps. Every build blocks until the cubemap is complete.
type Builder interface {
	// BuildEnvMap renders the sky into a single-level cubemap.
	//
	// Parameters:
	//   - size: face edge length in texels
	//
	// Returns:
	//   - texture.Cubemap: the environment cubemap
	//   - error: ErrDisposed or an invalid size
	BuildEnvMap(size int) (texture.Cubemap, error)

	// BuildIrradianceMap renders cosine-convolved sky radiance over pi, for direct use as
	// diffuse ambient light.
	//
	// Parameters:
	//   - size: face edge length in texels
	//
	// Returns:
	//   - texture.Cubemap: the irradiance cubemap
	//   - error: ErrDisposed or an invalid size
	BuildIrradianceMap(size int) (texture.Cubemap, error)

	// BuildRadianceMap renders the prefiltered specular mip chain. The base face is
	// 2^(levels-1) texels and mip m holds roughness m/(levels-1).
	//
	// Parameters:
	//   - levels: mip level count
	//
	// Returns:
	//   - texture.Cubemap: the radiance cubemap
	//   - error: ErrDisposed or an invalid level count
	BuildRadianceMap(levels int) (texture.Cubemap, error)

	// Radiance returns the sky radiance toward a world direction.
	//
	// Parameters:
	//   - dir: the view direction (need not be normalized)
	//
	// Returns:
	//   - mgl32.Vec3: linear RGB radiance
	Radiance(dir mgl32.Vec3) mgl32.Vec3

	// Dispose closes the task queue, which ends every worker goroutine.
	// Cubemaps already built stay valid.
	//
	// Returns:
	//   - error: always nil; repeated calls are no-ops
	Dispose() error
}

var _ Builder = &builder{}

// NewOutdoorBuilder creates a Builder for an outdoor sky whose sun follows the light.
// The sun sits opposite the light travel direction and uses the light's base color.
//
// Parameters:
//   - l: the directional light
//   - options: functional options for colors, sample counts and workers
//
// Returns:
//   - Builder: the ready builder
func NewOutdoorBuilder(l light.DirectionalLight, options ...BuilderOption) Builder {
	b := &builder{
		mu: &sync.Mutex{},
		sky: outdoorSky{
			nearGround:  mgl32.Vec3{0.5, 0.45, 0.4},
			farGround:   mgl32.Vec3{0.3, 0.25, 0.2},
			nearSky:     mgl32.Vec3{0.7, 0.8, 1},
			farSky:      mgl32.Vec3{0.9, 0.95, 1},
			sunDir:      common.SafeNormalize(l.Direction().Mul(-1), mgl32.Vec3{0, 1, 0}),
			sunColor:    l.Color(),
			sunExponent: 100,
		},
		workers:      runtime.NumCPU(),
		samples:      16,
		shSampleSize: 64,
	}
	for _, opt := range options {
		opt(b)
	}
	b.startCrew()
	return b
}

func (b *builder) Radiance(dir mgl32.Vec3) mgl32.Vec3 {
	return b.sky.radiance(common.SafeNormalize(dir, mgl32.Vec3{0, 1, 0}))
}

func (b *builder) BuildEnvMap(size int) (texture.Cubemap, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ibl: invalid environment size %d", size)
	}
	return b.build("environment", size, 1, func(_ int, d mgl32.Vec3) mgl32.Vec3 {
		return b.sky.radiance(d)
	})
}

func (b *builder) BuildIrradianceMap(size int) (texture.Cubemap, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ibl: invalid irradiance size %d", size)
	}
	if err := b.checkDisposed(); err != nil {
		return nil, err
	}
	coeffs := projectSky(&b.sky, b.shSampleSize)
	return b.build("irradiance", size, 1, func(_ int, d mgl32.Vec3) mgl32.Vec3 {
		return coeffs.irradiance(d)
	})
}

func (b *builder) BuildRadianceMap(levels int) (texture.Cubemap, error) {
	if levels <= 0 || levels > maxLevels {
		return nil, fmt.Errorf("ibl: radiance levels must be in [1, %d], got %d", maxLevels, levels)
	}
	top := max(levels-1, 1)
	return b.build("radiance", 1<<(levels-1), levels, func(level int, d mgl32.Vec3) mgl32.Vec3 {
		return b.sky.prefiltered(d, float32(level)/float32(top), b.samples)
	})
}

func (b *builder) Dispose() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return nil
	}
	b.disposed = true
	close(b.tasks)
	b.tasks, b.stop, b.crew = nil, nil, nil
	return nil
}

// startCrew starts the workers on a task queue the builder owns. Workers return
// when the queue is closed, so Dispose does not depend on per-worker stop signals.
func (b *builder) startCrew() {
	b.tasks = make(chan worker.Task, taskQueueSize)
	b.stop = make(chan int, b.workers)
	b.crew = make([]worker.Worker, b.workers)
	for i := range b.crew {
		b.crew[i] = worker.NewWorker(i, b.tasks, b.stop, time.Second, nil)
		b.crew[i].Start()
	}
}

func (b *builder) checkDisposed() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return ErrDisposed
	}
	return nil
}

// build fills every face of every level by fanning row bands out to the workers.
// It holds the lock until every band is done, so Dispose never closes the queue mid-build.
func (b *builder) build(name string, size, levels int, shade func(level int, dir mgl32.Vec3) mgl32.Vec3) (texture.Cubemap, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return nil, ErrDisposed
	}
	start := time.Now()

	data := &common.CubemapStagingData{Size: uint32(size), Levels: make([][6][]byte, levels)}
	var wg sync.WaitGroup
	taskID := 0
	for level := range levels {
		edge := int(data.LevelSize(level))
		for face := range 6 {
			buf := make([]byte, edge*edge*texture.BytesPerTexel)
			data.Levels[level][face] = buf
			for row := 0; row < edge; row += rowsPerTask {
				wg.Add(1)
				b.tasks <- worker.Task{
					ID: taskID,
					Do: func() (any, error) {
						defer wg.Done()
						for y := row; y < min(row+rowsPerTask, edge); y++ {
							for x := range edge {
								c := shade(level, faceDirection(face, x, y, edge))
								putTexel(buf, (y*edge+x)*texture.BytesPerTexel, c)
							}
						}
						return nil, nil
					},
				}
				taskID++
			}
		}
	}
	wg.Wait()

	c, err := texture.NewCubemap(name, data)
	if err != nil {
		return nil, err
	}
	log.Printf("[IBL] built %s cubemap: %dx%d, %d level(s) in %s", name, size, size, levels, time.Since(start).Round(time.Millisecond))
	return c, nil
}

// putTexel writes an opaque RGBA16Float texel at offset.
func putTexel(buf []byte, offset int, c mgl32.Vec3) {
	for i, v := range [4]float32{c.X(), c.Y(), c.Z(), 1} {
		h := float16.Fromfloat32(v).Bits()
		buf[offset+2*i] = byte(h)
		buf[offset+2*i+1] = byte(h >> 8)
	}
}
