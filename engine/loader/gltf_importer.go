package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the mesh, material and animation extractors to produce a model.Asset.
type gltfImporter interface {
	// Import decodes a glTF/GLB file. External buffers and images resolve
	// relative to the file's directory.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - model.Asset: the fully populated asset
	//   - error: error if import fails
	Import(path string) (model.Asset, error)

	// ImportReader decodes a self-contained glTF JSON or GLB stream.
	//
	// Parameters:
	//   - name: the asset name
	//   - r: the reader providing glTF/GLB data
	//
	// Returns:
	//   - model.Asset: the fully populated asset
	//   - error: error if import fails
	ImportReader(name string, r io.Reader) (model.Asset, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (model.Asset, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return imp.importDocument(doc, name, filepath.Dir(path))
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader) (model.Asset, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importDocument(doc, name, "")
}

// importDocument converts a decoded document into an Asset.
// Texture handles created along the way are released if any later step fails.
//
// Parameters:
//   - doc: the decoded document
//   - name: the asset name
//   - dir: the directory external images resolve against
//
// Returns:
//   - model.Asset: the asset
//   - error: error if extraction fails
func (imp *gltfImporterImpl) importDocument(doc *gltf.Document, name, dir string) (asset model.Asset, err error) {
	meshExtractor := newGLTFMeshExtractor(doc)
	materialExtractor := newGLTFMaterialExtractor(doc, dir)
	animationExtractor := newGLTFAnimationExtractor(doc)
	defer materialExtractor.Release()

	materials := make([]model.Material, 0, len(doc.Materials))
	defer func() {
		if err == nil {
			return
		}
		for _, m := range materials {
			if m.BaseColorTexture != nil {
				m.BaseColorTexture.Dispose()
			}
		}
	}()
	for i := range doc.Materials {
		mat, err := materialExtractor.ExtractMaterial(i)
		if err != nil {
			return nil, fmt.Errorf("material extraction failed: %w", err)
		}
		materials = append(materials, mat)
	}

	// meshMap maps a glTF mesh index to the model meshes of its primitives.
	var meshes []model.Mesh
	meshMap := make([][]int, len(doc.Meshes))
	for i := range doc.Meshes {
		prims, err := meshExtractor.ExtractMesh(i)
		if err != nil {
			return nil, fmt.Errorf("mesh extraction failed: %w", err)
		}
		for _, p := range prims {
			meshMap[i] = append(meshMap[i], len(meshes))
			meshes = append(meshes, p)
		}
	}

	nodes := make([]model.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = gltfConvertNode(n)
		if n.Mesh != nil && *n.Mesh < len(meshMap) {
			nodes[i].Meshes = meshMap[*n.Mesh]
		}
	}

	roots, err := gltfSceneRoots(doc)
	if err != nil {
		return nil, err
	}

	var animations []*model.AnimationClip
	for i := range doc.Animations {
		clip, err := animationExtractor.ExtractAnimation(i)
		if err != nil {
			return nil, fmt.Errorf("animation extraction failed: %w", err)
		}
		animations = append(animations, clip)
	}

	return model.NewAsset(
		model.WithName(name),
		model.WithMeshes(meshes...),
		model.WithMaterials(materials...),
		model.WithNodes(nodes...),
		model.WithRoots(roots...),
		model.WithAnimations(animations...),
	), nil
}

// --- Helper Functions ---

// gltfConvertNode converts a glTF node's name, children and transform.
// Nodes given a non-identity matrix keep it verbatim.
func gltfConvertNode(n *gltf.Node) model.Node {
	out := model.Node{Name: n.Name, Children: n.Children}

	m := n.MatrixOrDefault()
	if m != [16]float64{} && m != identityMatrix {
		var mat mgl32.Mat4
		for i, v := range m {
			mat[i] = float32(v)
		}
		out.Matrix = &mat
	}

	t, r, s := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	out.Local = model.Transform{
		Translation: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation:    mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
		Scale:       mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
	return out
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// gltfSceneRoots returns the root nodes of the document's default scene. Without a
// default scene the first scene is used, and without scenes every parentless node.
func gltfSceneRoots(doc *gltf.Document) ([]int, error) {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if idx < 0 || idx >= len(doc.Scenes) {
			return nil, fmt.Errorf("default scene %d out of range", idx)
		}
		for _, n := range doc.Scenes[idx].Nodes {
			if n < 0 || n >= len(doc.Nodes) {
				return nil, fmt.Errorf("scene root %d out of range", n)
			}
		}
		return doc.Scenes[idx].Nodes, nil
	}
	if len(doc.Nodes) == 0 {
		return nil, errors.New("document has no scenes and no nodes")
	}
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots, nil
}
