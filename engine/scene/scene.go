// Package scene turns placed model instances, a camera and a lighting
// environment into renderer frames.
package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/camera"
	"github.com/Carmen-Shannon/oxy-logo/engine/light"
	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoCamera is returned by Render when no camera is set.
	ErrNoCamera = errors.New("scene: no camera set")
	// ErrDisposed is returned by Render after Dispose.
	ErrDisposed = errors.New("scene: manager disposed")
)

// FrameStats counts the draws of the last rendered frame.
type FrameStats struct {
	Draws  int
	Culled int
}

// manager is the implementation of the Manager interface.
type manager struct {
	mu *sync.Mutex

	renderer  renderer.Renderer
	instances []model.Instance
	camera    camera.Camera
	skybox    Skybox
	env       *environment

	cullingDisabled bool
	shadowCenter    *mgl32.Vec3

	prepared      bool
	uniforms      renderer.GPUFrameUniforms
	shadowMapSize int
	stats         FrameStats
	disposed      bool
}

// Manager owns the instances of a scene and renders them with one camera,
// one lighting environment and an optional skybox.
// Thread-safe for concurrent access.
type Manager interface {
	// AddScene adds a model instance. Adding the same instance twice is a no-op.
	//
	// Parameters:
	//   - inst: the instance to render
	AddScene(inst model.Instance)

	// RemoveScene removes a model instance.
	//
	// Parameters:
	//   - inst: the instance to remove
	//
	// Returns:
	//   - bool: whether the instance was present
	RemoveScene(inst model.Instance) bool

	// Scenes returns a copy of the instance list.
	Scenes() []model.Instance

	// Camera returns the active camera, nil if unset.
	Camera() camera.Camera

	// SetCamera replaces the active camera.
	//
	// Parameters:
	//   - cam: the camera
	SetCamera(cam camera.Camera)

	// Skybox returns the skybox, nil if unset.
	Skybox() Skybox

	// SetSkybox replaces the skybox. The manager does not dispose it.
	//
	// Parameters:
	//   - s: the skybox, nil to remove it
	SetSkybox(s Skybox)

	// SetAmbientLight sets the AmbientLight environment attribute.
	//
	// Parameters:
	//   - intensity: the image based lighting scale
	SetAmbientLight(intensity float32)

	// Environment returns the lighting environment.
	Environment() Environment

	// UpdateViewport resizes the camera viewport and recomputes its projection.
	// Zero or negative sizes are ignored.
	//
	// Parameters:
	//   - width: the viewport width in pixels
	//   - height: the viewport height in pixels
	UpdateViewport(width, height int)

	// Update advances instance animations and prepares the frame uniforms
	// and shadow data for the next Render.
	//
	// Parameters:
	//   - dt: elapsed time since the last frame in seconds
	Update(dt float32)

	// Render uploads pending GPU resources, culls the draws against the camera
	// frustum and submits the frame to the renderer.
	//
	// Returns:
	//   - error: ErrNoCamera, ErrDisposed, an upload error or the renderer's error
	Render() error

	// Stats returns the counters of the last rendered frame.
	Stats() FrameStats

	// Disposed reports whether Dispose has been called.
	Disposed() bool

	// Dispose drops the instances, lights and prepared frame state.
	// Assets, textures, cubemaps and the skybox stay owned by the caller.
	// Calling it again is a no-op.
	//
	// Returns:
	//   - error: always nil, kept for symmetry with the other disposables
	Dispose() error
}

var _ Manager = &manager{}

// NewManager creates a Manager that renders through r.
//
// Parameters:
//   - r: the renderer capability
//   - options: functional options to configure the manager
//
// Returns:
//   - Manager: the manager
func NewManager(r renderer.Renderer, options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:       &sync.Mutex{},
		renderer: r,
		env:      NewEnvironment().(*environment),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *manager) AddScene(inst model.Instance) {
	if inst == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.instances, inst) {
		return
	}
	m.instances = append(m.instances, inst)
}

func (m *manager) RemoveScene(inst model.Instance) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.instances, inst)
	if i < 0 {
		return false
	}
	m.instances = slices.Delete(m.instances, i, i+1)
	return true
}

func (m *manager) Scenes() []model.Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.instances)
}

func (m *manager) Camera() camera.Camera {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.camera
}

func (m *manager) SetCamera(cam camera.Camera) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.camera = cam
	m.prepared = false
}

func (m *manager) Skybox() Skybox {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skybox
}

func (m *manager) SetSkybox(s Skybox) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skybox = s
}

func (m *manager) SetAmbientLight(intensity float32) {
	// Set only rejects a value whose kind does not match the attribute type, and
	// a FloatValue always matches AmbientLight.
	_ = m.env.Set(FloatAttribute(AmbientLight, intensity))
}

func (m *manager) Environment() Environment {
	return m.env
}

func (m *manager) UpdateViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.camera == nil {
		return
	}
	m.camera.SetViewport(width, height)
	m.camera.Update()
	m.prepared = false
}

func (m *manager) Update(dt float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	for _, inst := range m.instances {
		inst.Update(dt)
	}
	if m.camera != nil {
		m.prepare()
	}
}

func (m *manager) Render() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	if m.camera == nil {
		return ErrNoCamera
	}
	if !m.prepared {
		m.prepare()
	}
	m.prepared = false

	frame := &renderer.Frame{
		Uniforms:      m.uniforms,
		ShadowMapSize: m.shadowMapSize,
	}
	if err := m.bindEnvironment(frame); err != nil {
		return err
	}

	frustum := m.camera.Frustum()
	stats := FrameStats{}
	for _, inst := range m.instances {
		a := inst.Asset()
		if a.Disposed() {
			continue
		}
		for _, d := range inst.Draws() {
			if !m.cullingDisabled && !frustum.IntersectsAABB(d.Bounds) {
				stats.Culled++
				continue
			}
			draw, err := m.buildDraw(a, d)
			if err != nil {
				return err
			}
			frame.Draws = append(frame.Draws, draw)
		}
	}
	stats.Draws = len(frame.Draws)
	m.stats = stats

	return m.renderer.Render(frame)
}

func (m *manager) Stats() FrameStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *manager) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

func (m *manager) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return nil
	}
	m.disposed = true
	m.instances = nil
	m.camera = nil
	m.skybox = nil
	m.env.Clear()
	m.prepared = false
	m.shadowMapSize = 0
	m.uniforms = renderer.GPUFrameUniforms{}
	return nil
}

// prepare fills the frame uniforms from the camera and the environment.
// Caller must hold the mutex and have a camera.
func (m *manager) prepare() {
	cam := m.camera
	u := renderer.GPUFrameUniforms{
		ViewProj:    cam.ViewProjectionMatrix(),
		InvViewProj: cam.InverseViewProjectionMatrix(),
		CameraPos:   cam.Position().Vec4(1),
		LightVP:     mgl32.Ident4(),
	}

	bias := m.env.Float(ShadowBias, light.DefaultShadowBias)
	var specularLevels float32
	if spec := m.env.Cubemap(SpecularEnv); spec != nil && !spec.Disposed() {
		specularLevels = float32(spec.Levels())
	}
	u.Ambient = mgl32.Vec4{m.env.Float(AmbientLight, 1), bias, 0, specularLevels}

	m.shadowMapSize = 0
	if l := m.env.primaryLight(); l != nil {
		u.LightDir = l.Direction().Vec4(1)
		u.LightColor = l.Radiance().Vec4(1)
		if l.CastsShadows() {
			sd := l.ShadowData(m.shadowFocus(), bias)
			u.LightVP = sd.LightVP
			u.Ambient[2] = sd.NormalBias
			u.ShadowParams = mgl32.Vec4{sd.TexelSize[0], sd.TexelSize[1], 1, 0}
			w, h := l.ShadowMapSize()
			m.shadowMapSize = max(w, h)
		}
	}

	m.uniforms = u
	m.prepared = true
}

// shadowFocus returns the configured shadow center, else the center of every
// instance's bounds, else the origin. Caller must hold the mutex.
func (m *manager) shadowFocus() mgl32.Vec3 {
	if m.shadowCenter != nil {
		return *m.shadowCenter
	}
	bounds := common.EmptyAABB()
	for _, inst := range m.instances {
		bounds = bounds.Union(inst.Bounds())
	}
	if bounds.Empty() {
		return mgl32.Vec3{}
	}
	return bounds.Min.Add(bounds.Max).Mul(0.5)
}

// bindEnvironment uploads the IBL textures and the skybox and stores their handles in frame.
// Caller must hold the mutex.
func (m *manager) bindEnvironment(frame *renderer.Frame) error {
	if brdf := m.env.Texture(BRDFLUTTexture); brdf != nil && !brdf.Disposed() {
		h, err := brdf.Upload(m.renderer)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", BRDFLUTTexture, err)
		}
		frame.Environment.BRDF = h
	}
	for _, slot := range []AttributeType{DiffuseEnv, SpecularEnv} {
		c := m.env.Cubemap(slot)
		if c == nil || c.Disposed() {
			continue
		}
		h, err := c.Upload(m.renderer)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", slot, err)
		}
		if slot == DiffuseEnv {
			frame.Environment.Diffuse = h
		} else {
			frame.Environment.Specular = h
		}
	}
	if m.skybox != nil {
		if c := m.skybox.Cubemap(); c != nil {
			h, err := c.Upload(m.renderer)
			if err != nil {
				return fmt.Errorf("failed to upload skybox: %w", err)
			}
			frame.Skybox = h
		}
	}
	return nil
}

// buildDraw uploads the mesh and base color texture of d and packs its object uniforms.
// Caller must hold the mutex.
func (m *manager) buildDraw(a model.Asset, d model.Draw) (renderer.Draw, error) {
	mesh, err := a.UploadMesh(m.renderer, d.Mesh)
	if err != nil {
		return renderer.Draw{}, err
	}
	mat := a.Material(d.Mesh)

	draw := renderer.Draw{
		Mesh:        mesh,
		DoubleSided: mat.DoubleSided,
		Object: renderer.GPUObjectUniforms{
			Model:     d.World,
			Normal:    common.NormalMatrix(d.World),
			BaseColor: mat.BaseColor,
			Emissive:  mat.Emissive.Vec4(0),
			Params:    mgl32.Vec4{mat.Metallic, mat.Roughness, 1, 0},
		},
	}
	if tex := mat.BaseColorTexture; tex != nil && !tex.Disposed() {
		h, err := tex.Upload(m.renderer)
		if err != nil {
			return renderer.Draw{}, fmt.Errorf("failed to upload texture %s: %w", tex.Label(), err)
		}
		draw.BaseColorTexture = h
		draw.Object.Params[3] = 1
	}
	return draw, nil
}
