package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	doc *gltf.Document
}

// gltfMeshExtractor defines the interface for extracting mesh data from a glTF document.
// Each glTF mesh expands to one model.Mesh per triangle primitive.
type gltfMeshExtractor interface {
	// ExtractMesh extracts every triangle primitive of a single glTF mesh.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh in the document
	//
	// Returns:
	//   - []model.Mesh: one entry per triangle primitive
	//   - error: error if an accessor cannot be read
	ExtractMesh(meshIndex int) ([]model.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a decoded document.
//
// Parameters:
//   - doc: the decoded glTF document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(doc *gltf.Document) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{doc: doc}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]model.Mesh, error) {
	if meshIndex < 0 || meshIndex >= len(e.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	mesh := e.doc.Meshes[meshIndex]

	var out []model.Mesh
	for i, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		name := mesh.Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", meshIndex)
		}
		if len(mesh.Primitives) > 1 {
			name = fmt.Sprintf("%s.%d", name, i)
		}
		m, err := e.extractPrimitive(prim, name)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, i, err)
		}
		out = append(out, *m)
	}
	return out, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltf.Primitive, name string) (*model.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(e.doc, e.doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	vertexCount := len(positions)
	vertices := make([]renderer.GPUVertex, vertexCount)
	bounds := common.EmptyAABB()
	for i, pos := range positions {
		vertices[i].Position = pos
		vertices[i].Color = [4]float32{1, 1, 1, 1}
		bounds = bounds.Extend(pos)
	}

	hasNormals := false
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(e.doc, e.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := range min(len(normals), vertexCount) {
			vertices[i].Normal = normals[i]
		}
		hasNormals = true
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(e.doc, e.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		for i := range min(len(uvs), vertexCount) {
			vertices[i].TexCoord = uvs[i]
		}
	}

	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		colors, err := e.readColors(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to read colors: %w", err)
		}
		for i := range min(len(colors), vertexCount) {
			vertices[i].Color = colors[i]
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(e.doc, e.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= vertexCount {
				return nil, fmt.Errorf("index %d out of range for %d vertices", idx, vertexCount)
			}
		}
	} else {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indices = indices[:len(indices)-len(indices)%3]

	if !hasNormals {
		generateNormals(vertices, indices)
	}

	materialIndex := -1
	if prim.Material != nil {
		materialIndex = *prim.Material
	}

	return &model.Mesh{
		Name:          name,
		Vertices:      vertices,
		Indices:       indices,
		MaterialIndex: materialIndex,
		Bounds:        bounds,
	}, nil
}

// readColors reads a COLOR_0 accessor. glTF colors can be VEC3 or VEC4 and can be
// float or normalized unsigned integers.
func (e *gltfMeshExtractorImpl) readColors(accessorIndex int) ([][4]float32, error) {
	data, err := modeler.ReadAccessor(e.doc, e.doc.Accessors[accessorIndex], nil)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][4]float32:
		return v, nil
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{c[0], c[1], c[2], 1}
		}
		return out, nil
	case [][4]uint8:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}
		}
		return out, nil
	case [][3]uint8:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, 1}
		}
		return out, nil
	case [][4]uint16:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{float32(c[0]) / 65535, float32(c[1]) / 65535, float32(c[2]) / 65535, float32(c[3]) / 65535}
		}
		return out, nil
	case [][3]uint16:
		out := make([][4]float32, len(v))
		for i, c := range v {
			out[i] = [4]float32{float32(c[0]) / 65535, float32(c[1]) / 65535, float32(c[2]) / 65535, 1}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported color accessor type %T", data)
	}
}

// generateNormals computes smooth vertex normals from the triangle geometry when the
// file provides no NORMAL attribute. Face normals are accumulated area-weighted onto
// each triangle's vertices and normalized at the end.
//
// Parameters:
//   - vertices: the vertex slice to write normal data into
//   - indices: the triangle index buffer (a multiple of 3)
func generateNormals(vertices []renderer.GPUVertex, indices []uint32) {
	accum := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := mgl32.Vec3(vertices[i0].Position)
		p1 := mgl32.Vec3(vertices[i1].Position)
		p2 := mgl32.Vec3(vertices[i2].Position)
		// length proportional to triangle area
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, idx := range []uint32{i0, i1, i2} {
			accum[idx] = accum[idx].Add(face)
		}
	}
	for i := range vertices {
		l := accum[i].Len()
		if l < 1e-6 || math.IsNaN(float64(l)) {
			vertices[i].Normal = [3]float32{0, 1, 0}
			continue
		}
		vertices[i].Normal = accum[i].Mul(1 / l)
	}
}
