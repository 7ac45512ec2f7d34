package model

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one mesh placed in the world by an Instance.
type Draw struct {
	// Mesh indexes Asset.Meshes.
	Mesh int

	// World is the mesh-to-world matrix.
	World mgl32.Mat4

	// Bounds is the mesh bounding box in world space.
	Bounds common.AABB
}

// instance is the implementation of the Instance interface.
type instance struct {
	mu *sync.Mutex

	asset     Asset
	transform mgl32.Mat4
	locals    []Transform
	time      float32
	draws     []Draw
	dirty     bool
}

// Instance is a placed, renderable copy of an Asset's default scene.
// It plays the asset's first animation in a loop.
type Instance interface {
	// Asset returns the asset this instance draws.
	Asset() Asset

	// Transform returns the instance-to-world matrix.
	Transform() mgl32.Mat4

	// SetTransform places the whole instance in the world.
	//
	// Parameters:
	//   - m: the instance-to-world matrix
	SetTransform(m mgl32.Mat4)

	// Time returns the animation clock in seconds, wrapped to the clip duration.
	Time() float32

	// Update advances the animation clock and re-poses the animated nodes.
	//
	// Parameters:
	//   - dt: elapsed seconds (negative values are ignored)
	Update(dt float32)

	// Draws returns every mesh of the default scene with its world matrix.
	//
	// Returns:
	//   - []Draw: the draws for the current pose
	Draws() []Draw

	// Bounds returns the world bounding box of the current pose.
	Bounds() common.AABB
}

var _ Instance = &instance{}

// NewInstance wraps the default scene of an asset in a new Instance at the origin.
//
// Parameters:
//   - a: the loaded asset
//
// Returns:
//   - Instance: the instance posed at rest
func NewInstance(a Asset) Instance {
	nodes := a.Nodes()
	locals := make([]Transform, len(nodes))
	for i, n := range nodes {
		locals[i] = n.Local
	}
	return &instance{
		mu:        &sync.Mutex{},
		asset:     a,
		transform: mgl32.Ident4(),
		locals:    locals,
		dirty:     true,
	}
}

func (in *instance) Asset() Asset {
	return in.asset
}

func (in *instance) Transform() mgl32.Mat4 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.transform
}

func (in *instance) SetTransform(m mgl32.Mat4) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.transform = m
	in.dirty = true
}

func (in *instance) Time() float32 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.time
}

func (in *instance) Update(dt float32) {
	anims := in.asset.Animations()
	if len(anims) == 0 || dt <= 0 {
		return
	}
	clip := anims[0]

	in.mu.Lock()
	defer in.mu.Unlock()
	in.time += dt
	if clip.Duration > 0 {
		in.time = float32(math.Mod(float64(in.time), float64(clip.Duration)))
	}
	for i, n := range in.asset.Nodes() {
		in.locals[i] = n.Local
	}
	clip.apply(in.locals, in.time)
	in.dirty = true
}

func (in *instance) Draws() []Draw {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.dirty {
		in.draws = collectDraws(in.asset, in.locals, in.transform)
		in.dirty = false
	}
	return in.draws
}

func (in *instance) Bounds() common.AABB {
	bounds := common.EmptyAABB()
	for _, d := range in.Draws() {
		bounds = bounds.Union(d.Bounds)
	}
	return bounds
}

// collectDraws walks the default scene from its roots and emits one Draw per node mesh.
func collectDraws(a Asset, locals []Transform, root mgl32.Mat4) []Draw {
	nodes := a.Nodes()
	meshes := a.Meshes()
	visited := make([]bool, len(nodes))
	var draws []Draw

	var walk func(idx int, parent mgl32.Mat4)
	walk = func(idx int, parent mgl32.Mat4) {
		if idx < 0 || idx >= len(nodes) || visited[idx] {
			return
		}
		visited[idx] = true
		n := &nodes[idx]
		local := locals[idx].Matrix()
		if n.Matrix != nil {
			local = *n.Matrix
		}
		world := parent.Mul4(local)
		for _, m := range n.Meshes {
			if m < 0 || m >= len(meshes) {
				continue
			}
			draws = append(draws, Draw{Mesh: m, World: world, Bounds: meshes[m].Bounds.Transform(world)})
		}
		for _, c := range n.Children {
			walk(c, world)
		}
	}
	for _, r := range a.Roots() {
		walk(r, root)
	}
	return draws
}
