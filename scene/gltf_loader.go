package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"learngl/geometry"
	"learngl/gpu"
)

// MeshData is one glTF primitive flattened into an interleaved vertex
// buffer ready for geometry.New.
type MeshData struct {
	Name      string
	Layout    geometry.Layout
	Primitive gpu.Primitive
	Vertices  []float32
	Indices   []uint32
}

// LoadGLTF opens a .glb or .gltf file and returns one MeshData per mesh
// primitive. Positions are required; TEXCOORD_0, when present, selects the
// position+texcoord layout. Meshes referenced from the default scene have
// their node transforms baked into the positions. A document without
// nodes yields every mesh untransformed. Accessors, buffer views and
// indices that point outside the document are reported as errors.
func LoadGLTF(path string) ([]MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var out []MeshData
	emit := func(mi int, world mgl32.Mat4) error {
		gm := doc.Meshes[mi]
		for pi, prim := range gm.Primitives {
			m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim, world)
			if err != nil {
				return fmt.Errorf("gltf %q: mesh %d prim %d: %w", path, mi, pi, err)
			}
			out = append(out, m)
		}
		return nil
	}

	roots := sceneRoots(doc)
	if len(roots) == 0 {
		for mi := range doc.Meshes {
			if err := emit(mi, mgl32.Ident4()); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	var walk func(ni int, parent mgl32.Mat4, depth int) error
	walk = func(ni int, parent mgl32.Mat4, depth int) error {
		if ni < 0 || ni >= len(doc.Nodes) || depth > len(doc.Nodes) {
			return nil
		}
		gn := doc.Nodes[ni]
		world := parent.Mul4(localTransform(gn))
		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			if err := emit(*gn.Mesh, world); err != nil {
				return err
			}
		}
		for _, c := range gn.Children {
			if err := walk(c, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := walk(r, mgl32.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// sceneRoots returns the root nodes of the default scene, or every
// parentless node when the document has no default scene.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) && len(doc.Scenes[*doc.Scene].Nodes) > 0 {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// localTransform returns the node's matrix, or T*R*S when it has none.
func localTransform(gn *gltf.Node) mgl32.Mat4 {
	if m := gn.MatrixOrDefault(); m != identityMatrix {
		var out mgl32.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	rot := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// loadGLTFPrimitive converts one glTF mesh primitive into MeshData.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive, world mgl32.Mat4) (MeshData, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	mode, ok := primitiveMode(prim.Mode)
	if !ok {
		return MeshData{}, fmt.Errorf("unsupported primitive mode %d", prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return MeshData{}, fmt.Errorf("no POSITION attribute")
	}
	posAcr, err := accessor(doc, posIdx)
	if err != nil {
		return MeshData{}, fmt.Errorf("positions: %w", err)
	}
	var uvAcr, idxAcr *gltf.Accessor
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvAcr, err = accessor(doc, idx); err != nil {
			return MeshData{}, fmt.Errorf("texcoords: %w", err)
		}
	}
	if prim.Indices != nil {
		if idxAcr, err = accessor(doc, *prim.Indices); err != nil {
			return MeshData{}, fmt.Errorf("indices: %w", err)
		}
	}

	positions, err := modeler.ReadPosition(doc, posAcr, nil)
	if err != nil {
		return MeshData{}, fmt.Errorf("positions: %w", err)
	}
	var uvs [][2]float32
	if uvAcr != nil {
		if uvs, err = modeler.ReadTextureCoord(doc, uvAcr, nil); err != nil {
			return MeshData{}, fmt.Errorf("texcoords: %w", err)
		}
	}
	var indices []uint32
	if idxAcr != nil {
		if indices, err = modeler.ReadIndices(doc, idxAcr, nil); err != nil {
			return MeshData{}, fmt.Errorf("indices: %w", err)
		}
		for i, ix := range indices {
			if int(ix) >= len(positions) {
				return MeshData{}, fmt.Errorf("indices: index %d at %d out of range (%d vertices)", ix, i, len(positions))
			}
		}
	}

	layout := geometry.Position
	if len(uvs) > 0 {
		layout = geometry.PositionTexCoord
	}
	identity := world == mgl32.Ident4()

	verts := make([]float32, 0, len(positions)*layout.Stride())
	for i, p := range positions {
		v := mgl32.Vec3{p[0], p[1], p[2]}
		if !identity {
			v = mgl32.TransformCoordinate(v, world)
		}
		verts = append(verts, v[0], v[1], v[2])
		if layout == geometry.PositionTexCoord {
			var uv [2]float32
			if i < len(uvs) {
				uv = uvs[i]
			}
			verts = append(verts, uv[0], uv[1])
		}
	}

	return MeshData{
		Name:      name,
		Layout:    layout,
		Primitive: mode,
		Vertices:  verts,
		Indices:   indices,
	}, nil
}

// accessor returns accessor i after checking that it and the buffer view
// it reads from lie inside the document.
func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) || doc.Accessors[i] == nil {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", i, len(doc.Accessors))
	}
	acr := doc.Accessors[i]
	if acr.BufferView == nil {
		return acr, nil
	}
	bi := *acr.BufferView
	if bi < 0 || bi >= len(doc.BufferViews) || doc.BufferViews[bi] == nil {
		return nil, fmt.Errorf("accessor %d: buffer view %d out of range (%d views)", i, bi, len(doc.BufferViews))
	}
	bv := doc.BufferViews[bi]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) || doc.Buffers[bv.Buffer] == nil {
		return nil, fmt.Errorf("buffer view %d: buffer %d out of range (%d buffers)", bi, bv.Buffer, len(doc.Buffers))
	}
	if size := len(doc.Buffers[bv.Buffer].Data); bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset+bv.ByteLength > size {
		return nil, fmt.Errorf("buffer view %d: bytes [%d, %d) outside buffer of %d bytes", bi, bv.ByteOffset, bv.ByteOffset+bv.ByteLength, size)
	}
	if acr.ByteOffset < 0 || acr.ByteOffset > bv.ByteLength {
		return nil, fmt.Errorf("accessor %d: byte offset %d outside buffer view of %d bytes", i, acr.ByteOffset, bv.ByteLength)
	}
	return acr, nil
}

func primitiveMode(m gltf.PrimitiveMode) (gpu.Primitive, bool) {
	switch m {
	case gltf.PrimitiveTriangles:
		return gpu.Triangles, true
	case gltf.PrimitiveLines:
		return gpu.Lines, true
	case gltf.PrimitiveLineStrip:
		return gpu.LineStrip, true
	case gltf.PrimitivePoints:
		return gpu.Points, true
	}
	return 0, false
}

// LoadModel loads a .obj file with LoadOBJ and anything else with LoadGLTF.
func LoadModel(path string) ([]MeshData, error) {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return LoadOBJ(path)
	}
	return LoadGLTF(path)
}
