// Package model holds loaded 3D assets and the placed instances the scene manager draws.
package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrDisposed is returned when a disposed asset is asked for GPU resources.
var ErrDisposed = errors.New("model: asset is disposed")

// asset is the implementation of the Asset interface.
type asset struct {
	mu *sync.Mutex

	name       string
	meshes     []Mesh
	materials  []Material
	nodes      []Node
	roots      []int
	animations []*AnimationClip

	gpuMeshes []renderer.Handle
	disposed  bool
}

// Asset defines the interface for a loaded 3D asset.
// An Asset is the CPU-side result of importing one model file: meshes, materials,
// the node hierarchy of its default scene and its animation clips. GPU meshes are
// created lazily on first use and released by Dispose.
type Asset interface {
	// Name retrieves the asset identifier.
	//
	// Returns:
	//   - string: the asset name
	Name() string

	// Meshes retrieves every drawable primitive.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// Materials retrieves the asset materials.
	//
	// Returns:
	//   - []Material: the materials
	Materials() []Material

	// Nodes retrieves the flat node list.
	//
	// Returns:
	//   - []Node: the nodes, indexed by node index
	Nodes() []Node

	// Roots retrieves the root nodes of the default scene.
	//
	// Returns:
	//   - []int: indices into Nodes
	Roots() []int

	// Animations retrieves all animation clips bundled with the asset.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// Bounds returns the world-space bounding box of the default scene at rest.
	//
	// Returns:
	//   - common.AABB: the bounds (empty when nothing is drawn)
	Bounds() common.AABB

	// Material returns the material for a mesh, falling back to DefaultMaterial.
	//
	// Parameters:
	//   - mesh: index into Meshes
	//
	// Returns:
	//   - Material: the resolved material
	Material(mesh int) Material

	// UploadMesh creates the GPU mesh on first call and returns it.
	//
	// Parameters:
	//   - r: the renderer that owns the GPU buffers
	//   - mesh: index into Meshes
	//
	// Returns:
	//   - renderer.Handle: the GPU mesh
	//   - error: ErrDisposed, an invalid index or the renderer's error
	UploadMesh(r renderer.Renderer, mesh int) (renderer.Handle, error)

	// Disposed reports whether Dispose has been called.
	Disposed() bool

	// Dispose releases the GPU meshes and material textures.
	// Calling it again is a no-op.
	//
	// Returns:
	//   - error: joined texture dispose errors
	Dispose() error
}

var _ Asset = &asset{}

// NewAsset creates a new Asset with the specified options applied.
//
// Parameters:
//   - options: a variadic list of AssetBuilderOption functions to configure the Asset
//
// Returns:
//   - Asset: a new instance of Asset configured with the provided options
func NewAsset(options ...AssetBuilderOption) Asset {
	a := &asset{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(a)
	}
	a.gpuMeshes = make([]renderer.Handle, len(a.meshes))
	return a
}

func (a *asset) Name() string {
	return a.name
}

func (a *asset) Meshes() []Mesh {
	return a.meshes
}

func (a *asset) Materials() []Material {
	return a.materials
}

func (a *asset) Nodes() []Node {
	return a.nodes
}

func (a *asset) Roots() []int {
	return a.roots
}

func (a *asset) Animations() []*AnimationClip {
	return a.animations
}

func (a *asset) Bounds() common.AABB {
	locals := make([]Transform, len(a.nodes))
	for i, n := range a.nodes {
		locals[i] = n.Local
	}
	bounds := common.EmptyAABB()
	for _, d := range collectDraws(a, locals, mgl32.Ident4()) {
		bounds = bounds.Union(d.Bounds)
	}
	return bounds
}

func (a *asset) Material(mesh int) Material {
	if mesh < 0 || mesh >= len(a.meshes) {
		return DefaultMaterial()
	}
	idx := a.meshes[mesh].MaterialIndex
	if idx < 0 || idx >= len(a.materials) {
		return DefaultMaterial()
	}
	return a.materials[idx]
}

func (a *asset) UploadMesh(r renderer.Renderer, mesh int) (renderer.Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return nil, ErrDisposed
	}
	if mesh < 0 || mesh >= len(a.meshes) {
		return nil, fmt.Errorf("asset %s: mesh index %d out of range", a.name, mesh)
	}
	if h := a.gpuMeshes[mesh]; h != nil {
		return h, nil
	}
	m := &a.meshes[mesh]
	h, err := r.CreateMesh(fmt.Sprintf("%s/%s", a.name, m.Name), m.Vertices, m.Indices)
	if err != nil {
		return nil, fmt.Errorf("asset %s: failed to upload mesh %q: %w", a.name, m.Name, err)
	}
	a.gpuMeshes[mesh] = h
	return h, nil
}

func (a *asset) Disposed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.disposed
}

func (a *asset) Dispose() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return nil
	}
	a.disposed = true

	for i, h := range a.gpuMeshes {
		if h != nil {
			h.Release()
			a.gpuMeshes[i] = nil
		}
	}
	var errs []error
	for i := range a.materials {
		if t := a.materials[i].BaseColorTexture; t != nil {
			errs = append(errs, t.Dispose())
		}
	}
	return errors.Join(errs...)
}
