package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/geometry"
	"learngl/gpu"
	"learngl/gpu/gputest"
)

func triangleDoc(withUV bool) *gltf.Document {
	return indexedTriangleDoc(withUV, []uint32{0, 1, 2})
}

func indexedTriangleDoc(withUV bool, indices []uint32) *gltf.Document {
	doc := gltf.NewDocument()
	attrs := map[string]int{
		"POSITION": modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
	}
	if withUV {
		attrs["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	}
	idx := modeler.WriteIndices(doc, indices)
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: attrs,
		}},
	}}
	return doc
}

func save(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTF(t *testing.T) {
	meshes, err := LoadGLTF(save(t, triangleDoc(true)))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "tri_p0", m.Name)
	assert.Equal(t, geometry.PositionTexCoord, m.Layout)
	assert.Equal(t, gpu.Triangles, m.Primitive)
	assert.Equal(t, []float32{
		0, 0, 0, 0, 0,
		1, 0, 0, 1, 0,
		0, 1, 0, 0, 1,
	}, m.Vertices)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
}

func TestLoadGLTFPositionOnly(t *testing.T) {
	meshes, err := LoadGLTF(save(t, triangleDoc(false)))
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, geometry.Position, meshes[0].Layout)
	assert.Len(t, meshes[0].Vertices, 9)

	// The result feeds straight into a geometry buffer.
	dev := gputest.NewRecorder()
	b, err := geometry.New(dev, meshes[0].Layout, meshes[0].Vertices, meshes[0].Indices)
	require.NoError(t, err)
	assert.Equal(t, int32(3), b.ElementCount())
	assert.True(t, b.Indexed())
}

func TestLoadGLTFBakesNodeTransform(t *testing.T) {
	doc := triangleDoc(false)
	doc.Nodes = []*gltf.Node{{Name: "moved", Mesh: gltf.Index(0), Translation: [3]float64{1, 2, 3}}}
	doc.Scenes[0].Nodes = []int{0}

	meshes, err := LoadGLTF(save(t, doc))
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.InDeltaSlice(t, []float32{
		1, 2, 3,
		2, 2, 3,
		1, 3, 3,
	}, meshes[0].Vertices, 1e-6)
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "none.glb"))
	assert.Error(t, err)
}

func TestLoadGLTFIndexOutOfRange(t *testing.T) {
	_, err := LoadGLTF(save(t, indexedTriangleDoc(false, []uint32{0, 1, 5})))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 5 at 2 out of range (3 vertices)")
}

func TestLoadGLTFMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"position accessor", `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":5}}]}]}`,
			"positions: accessor 5 out of range (0 accessors)"},
		{"index accessor", `{"asset":{"version":"2.0"},
			"accessors":[{"componentType":5126,"count":3,"type":"VEC3"}],
			"meshes":[{"primitives":[{"attributes":{"POSITION":0},"indices":7}]}]}`,
			"indices: accessor 7 out of range (1 accessors)"},
		{"texcoord accessor", `{"asset":{"version":"2.0"},
			"accessors":[{"componentType":5126,"count":3,"type":"VEC3"}],
			"meshes":[{"primitives":[{"attributes":{"POSITION":0,"TEXCOORD_0":2}}]}]}`,
			"texcoords: accessor 2 out of range"},
		{"buffer view", `{"asset":{"version":"2.0"},
			"accessors":[{"bufferView":3,"componentType":5126,"count":3,"type":"VEC3"}],
			"meshes":[{"primitives":[{"attributes":{"POSITION":0}}]}]}`,
			"buffer view 3 out of range (0 views)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.gltf")
			require.NoError(t, os.WriteFile(path, []byte(tt.json), 0o644))

			var err error
			require.NotPanics(t, func() { _, err = LoadGLTF(path) })
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
