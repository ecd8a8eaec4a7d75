package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/geometry"
	"learngl/gpu"
)

const sample = `
window: {width: 1024, title: Demos}
demos:
  - id: "1_2_1"
    title: hello triangle
    shaders: {vertex: shaders/triangle.vs, fragment: shaders/triangle.fs}
    geometry:
      - layout: position
        vertices: [-0.5, -0.5, 0, 0.5, -0.5, 0, 0, 0.5, 0]
  - id: "1_7_4"
    shaders: {vertex: shaders/camera.vs, fragment: shaders/camera.fs}
    clear: [0.1, 0.1, 0.1, 1]
    depth_test: true
    camera: {position: [0, 0, 3]}
    geometry:
      - layout: position+texcoord
        primitive: lines
        model: models/cube.glb
        instances:
          - {translate: [2, 5, -15], axis: [1, 0.3, 0.5], angle: 20, spin: 50}
    textures:
      - {path: textures/container.jpg, unit: 0, flip_vertical: true, uniform: texture1}
    uniforms:
      - {name: mixValue, type: float, value: [0.2]}
      - {name: view, bind: view}
      - {name: projection, bind: projection}
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, Window{Width: 1024, Height: 600, Title: "Demos", VSync: true, Resizable: true}, f.Window)
	assert.Equal(t, []string{"1_2_1", "1_7_4"}, f.IDs())

	d, err := f.Demo("1_2_1")
	require.NoError(t, err)
	assert.Equal(t, DefaultClear, d.Clear)
	assert.Nil(t, d.Camera)
	assert.Equal(t, geometry.Position, d.Geometry[0].LayoutValue())
	assert.Equal(t, gpu.Triangles, d.Geometry[0].PrimitiveValue())

	d, err = f.Demo("1_7_4")
	require.NoError(t, err)
	assert.True(t, d.DepthTest)
	assert.Equal(t, [3]float32{0, 0, 3}, d.CameraPosition())
	assert.Equal(t, geometry.PositionTexCoord, d.Geometry[0].LayoutValue())
	assert.Equal(t, gpu.Lines, d.Geometry[0].PrimitiveValue())
	assert.Equal(t, TypeMat4, d.Uniforms[1].Type, "binding fills in the type")
	assert.True(t, d.Textures[0].FlipVertical)
}

func TestUnknownDemo(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	_, err = f.Demo("9_9_9")
	assert.True(t, errors.Is(err, ErrUnknownDemo))
	assert.Contains(t, err.Error(), "9_9_9")
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"duplicate id", `
demos:
  - {id: a, shaders: {vertex: v, fragment: f}, geometry: [{layout: position, vertices: [0,0,0]}]}
  - {id: a, shaders: {vertex: v, fragment: f}, geometry: [{layout: position, vertices: [0,0,0]}]}
`, "duplicate id"},
		{"unknown layout", `
demos:
  - {id: a, shaders: {vertex: v, fragment: f}, geometry: [{layout: position+normal, vertices: [0,0,0]}]}
`, "unknown vertex layout"},
		{"missing shader", `
demos:
  - {id: a, shaders: {vertex: v}, geometry: [{layout: position, vertices: [0,0,0]}]}
`, "shaders"},
		{"no geometry", `
demos:
  - {id: a, shaders: {vertex: v, fragment: f}}
`, "at least one"},
		{"vertices and model", `
demos:
  - {id: a, shaders: {vertex: v, fragment: f}, geometry: [{layout: position, vertices: [0,0,0], model: m.glb}]}
`, "mutually exclusive"},
		{"unknown shape", `
demos:
  - {id: a, shaders: {vertex: v, fragment: f}, geometry: [{shape: teapot}]}
`, "unknown shape"},
		{"unknown primitive", `
demos:
  - {id: a, shaders: {vertex: v, fragment: f}, geometry: [{layout: position, primitive: quads, vertices: [0,0,0]}]}
`, "unknown primitive"},
		{"value length", `
demos:
  - id: a
    shaders: {vertex: v, fragment: f}
    geometry: [{layout: position, vertices: [0,0,0]}]
    uniforms: [{name: c, type: vec4, value: [1, 0, 0]}]
`, "vec4 needs 4 values"},
		{"binding type", `
demos:
  - id: a
    shaders: {vertex: v, fragment: f}
    camera: {}
    geometry: [{layout: position, vertices: [0,0,0]}]
    uniforms: [{name: view, type: vec3, bind: view}]
`, "is a mat4"},
		{"unknown binding", `
demos:
  - id: a
    shaders: {vertex: v, fragment: f}
    geometry: [{layout: position, vertices: [0,0,0]}]
    uniforms: [{name: t, bind: clock}]
`, `unknown binding "clock"`},
		{"camera binding without camera", `
demos:
  - id: a
    shaders: {vertex: v, fragment: f}
    geometry: [{layout: position, vertices: [0,0,0]}]
    uniforms: [{name: view, bind: view}]
`, "needs a camera"},
		{"texture unit reuse", `
demos:
  - id: a
    shaders: {vertex: v, fragment: f}
    geometry: [{layout: position, vertices: [0,0,0]}]
    textures: [{path: a.png, unit: 1}, {path: b.png, unit: 1}]
`, "unit 1 already used"},
		{"unknown key", `
demos:
  - {id: a, shader: {vertex: v, fragment: f}}
`, "field shader not found"},
		{"bad window", `
window: {width: 0}
`, "window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInstanceErrorOrder(t *testing.T) {
	doc := `
demos:
  - id: a
    shaders: {vertex: v, fragment: f}
    geometry:
      - layout: position
        vertices: [0,0,0]
        instances: [{translate: [1, 2], axis: [1], scale: [2, 2]}]
`
	for i := 0; i < 20; i++ {
		_, err := Parse([]byte(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "translate: want 3 components, got 2")
	}
}

func TestEmptyDocument(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow(), f.Window)
	assert.Empty(t, f.Demos)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, f.Dir)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
