package model

// AssetBuilderOption is a functional option for configuring an Asset via NewAsset.
type AssetBuilderOption func(*asset)

// WithName is an option builder that sets the name of the Asset.
//
// Parameters:
//   - name: the asset identifier
//
// Returns:
//   - AssetBuilderOption: a function that applies the name option to an asset
func WithName(name string) AssetBuilderOption {
	return func(a *asset) {
		a.name = name
	}
}

// WithMeshes is an option builder that sets the drawable primitives of the Asset.
//
// Parameters:
//   - meshes: the meshes to set
//
// Returns:
//   - AssetBuilderOption: a function that applies the meshes option to an asset
func WithMeshes(meshes ...Mesh) AssetBuilderOption {
	return func(a *asset) {
		a.meshes = meshes
	}
}

// WithMaterials is an option builder that sets the materials of the Asset.
//
// Parameters:
//   - materials: the materials to set
//
// Returns:
//   - AssetBuilderOption: a function that applies the materials option to an asset
func WithMaterials(materials ...Material) AssetBuilderOption {
	return func(a *asset) {
		a.materials = materials
	}
}

// WithNodes is an option builder that sets the node hierarchy of the Asset.
// Parent links are derived from the Children lists.
//
// Parameters:
//   - nodes: the nodes to set
//
// Returns:
//   - AssetBuilderOption: a function that applies the nodes option to an asset
func WithNodes(nodes ...Node) AssetBuilderOption {
	return func(a *asset) {
		for i := range nodes {
			nodes[i].Parent = -1
		}
		for i, n := range nodes {
			for _, c := range n.Children {
				if c >= 0 && c < len(nodes) {
					nodes[c].Parent = i
				}
			}
		}
		a.nodes = nodes
	}
}

// WithRoots is an option builder that sets the root nodes of the default scene.
//
// Parameters:
//   - roots: indices into the node list
//
// Returns:
//   - AssetBuilderOption: a function that applies the roots option to an asset
func WithRoots(roots ...int) AssetBuilderOption {
	return func(a *asset) {
		a.roots = roots
	}
}

// WithAnimations is an option builder that sets the animation clips of the Asset.
//
// Parameters:
//   - animations: the animation clips to set
//
// Returns:
//   - AssetBuilderOption: a function that applies the animations option to an asset
func WithAnimations(animations ...*AnimationClip) AssetBuilderOption {
	return func(a *asset) {
		a.animations = animations
	}
}
