package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/config"
	"learngl/gpu/gputest"
	"learngl/renderer"
)

func TestEmbeddedDemos(t *testing.T) {
	data, err := FS.ReadFile(ConfigName)
	require.NoError(t, err)

	f, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultWindow(), f.Window)
	assert.Contains(t, f.IDs(), "1_2_1")
	assert.Contains(t, f.IDs(), "1_7_4")

	for _, d := range f.Demos {
		for _, path := range []string{d.Shaders.Vertex, d.Shaders.Fragment} {
			_, err := FS.Open(path)
			assert.NoError(t, err, "demo %s", d.ID)
		}
	}
}

// Demos without textures or models need nothing outside the binary.
func TestBuildSelfContainedDemos(t *testing.T) {
	data, err := FS.ReadFile(ConfigName)
	require.NoError(t, err)
	f, err := config.Parse(data)
	require.NoError(t, err)

	built := 0
	for i := range f.Demos {
		d := &f.Demos[i]
		if len(d.Textures) > 0 || hasModel(d) {
			continue
		}
		t.Run(d.ID, func(t *testing.T) {
			dev := gputest.NewRecorder()
			s, err := renderer.Build(dev, d, renderer.Assets{Shaders: FS})
			require.NoError(t, err)
			s.Frame(1, 4.0/3.0)
			assert.NotEmpty(t, dev.Draws)
			s.Destroy()
			assert.Equal(t, 0, dev.Live())
		})
		built++
	}
	assert.GreaterOrEqual(t, built, 4)
}

func hasModel(d *config.Demo) bool {
	for _, g := range d.Geometry {
		if g.Model != "" {
			return true
		}
	}
	return false
}
