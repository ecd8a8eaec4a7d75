package geometry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/gpu"
	"learngl/gpu/gputest"
)

// quad is the textured rectangle: position, color, texcoord per vertex.
var quad = []float32{
	0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0,
	0.5, -0.5, 0.0, 0.0, 1.0, 0.0, 1.0, 0.0,
	-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0,
	-0.5, 0.5, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0,
}

var quadIndices = []uint32{0, 1, 3, 1, 2, 3}

func TestIndexedBuffer(t *testing.T) {
	dev := gputest.NewRecorder()

	b, err := New(dev, PositionColorTexCoord, quad, quadIndices)
	require.NoError(t, err)
	assert.Equal(t, int32(6), b.ElementCount())
	assert.True(t, b.Indexed())
	assert.Equal(t, PositionColorTexCoord, b.Layout())

	b.Draw()
	require.Len(t, dev.Draws, 1)
	d := dev.Draws[0]
	assert.True(t, d.Indexed)
	assert.Equal(t, int32(6), d.Count)
	assert.Equal(t, gpu.Triangles, d.Mode)
	assert.NotZero(t, d.VAO)

	assert.Equal(t, 2, dev.LiveBuffers())
	assert.Equal(t, 1, dev.LiveVertexArrays())
}

func TestNonIndexedBuffer(t *testing.T) {
	dev := gputest.NewRecorder()
	triangle := []float32{
		-0.5, -0.5, 0.0,
		0.5, -0.5, 0.0,
		0.0, 0.5, 0.0,
	}

	b, err := New(dev, Position, triangle, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), b.ElementCount())
	assert.False(t, b.Indexed())

	b.Draw()
	require.Len(t, dev.Draws, 1)
	assert.False(t, dev.Draws[0].Indexed)
	assert.Equal(t, int32(0), dev.Draws[0].First)
	assert.Equal(t, int32(3), dev.Draws[0].Count)
	assert.Equal(t, 1, dev.LiveBuffers())
}

func TestEmptyIndicesMeanNonIndexed(t *testing.T) {
	dev := gputest.NewRecorder()
	b, err := New(dev, Position, make([]float32, 9), []uint32{})
	require.NoError(t, err)
	assert.False(t, b.Indexed())
}

func TestTrailingFloatsAreNotDrawn(t *testing.T) {
	dev := gputest.NewRecorder()
	b, err := New(dev, PositionColor, make([]float32, 14), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), b.ElementCount())
}

func TestInvalidInput(t *testing.T) {
	cases := map[string]struct {
		layout   Layout
		vertices []float32
	}{
		"empty":          {Position, nil},
		"partial vertex": {PositionColorTexCoord, make([]float32, 7)},
		"unknown layout": {Layout(42), make([]float32, 9)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dev := gputest.NewRecorder()
			b, err := New(dev, tc.layout, tc.vertices, nil)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, 0, dev.Live(), "nothing is created for rejected input")
		})
	}
}

func TestAttributePointers(t *testing.T) {
	tests := []struct {
		layout Layout
		want   []gputest.Attrib
	}{
		{Position, []gputest.Attrib{{Index: 0, Size: 3, Stride: 12, Offset: 0}}},
		{PositionColor, []gputest.Attrib{
			{Index: 0, Size: 3, Stride: 24, Offset: 0},
			{Index: 1, Size: 3, Stride: 24, Offset: 12},
		}},
		{PositionTexCoord, []gputest.Attrib{
			{Index: 0, Size: 3, Stride: 20, Offset: 0},
			{Index: 1, Size: 2, Stride: 20, Offset: 12},
		}},
		{PositionColorTexCoord, []gputest.Attrib{
			{Index: 0, Size: 3, Stride: 32, Offset: 0},
			{Index: 1, Size: 3, Stride: 32, Offset: 12},
			{Index: 2, Size: 2, Stride: 32, Offset: 24},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			dev := gputest.NewRecorder()
			_, err := New(dev, tt.layout, make([]float32, tt.layout.Stride()*3), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dev.Attribs)
			assert.Len(t, dev.Enabled, len(tt.want))
		})
	}
}

func TestUploadedData(t *testing.T) {
	dev := gputest.NewRecorder()
	_, err := New(dev, PositionColorTexCoord, quad, quadIndices)
	require.NoError(t, err)

	var gotVertices []float32
	for _, v := range dev.Vertices {
		gotVertices = v
	}
	var gotIndices []uint32
	for _, i := range dev.Indices {
		gotIndices = i
	}
	assert.Equal(t, quad, gotVertices)
	assert.Equal(t, quadIndices, gotIndices)
	assert.Zero(t, dev.CurrentVertexArray(), "vertex array is unbound after setup")
}

func TestSetPrimitive(t *testing.T) {
	dev := gputest.NewRecorder()
	b, err := New(dev, Position, make([]float32, 12), nil)
	require.NoError(t, err)

	b.SetPrimitive(gpu.LineStrip)
	b.Draw()
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, gpu.LineStrip, dev.Draws[0].Mode)
	assert.Equal(t, int32(4), dev.Draws[0].Count)
}

func TestDrawRange(t *testing.T) {
	dev := gputest.NewRecorder()
	indexed, err := New(dev, PositionColorTexCoord, quad, quadIndices)
	require.NoError(t, err)
	plain, err := New(dev, Position, make([]float32, 18), nil)
	require.NoError(t, err)

	indexed.DrawRange(3, 3)
	plain.DrawRange(2, 3)
	indexed.DrawRange(4, 10) // clipped to the last two indices
	plain.DrawRange(6, 1)    // past the end, nothing drawn

	require.Len(t, dev.Draws, 3)
	assert.Equal(t, gputest.DrawCall{Indexed: true, Mode: gpu.Triangles, First: 3, Count: 3, VAO: dev.Draws[0].VAO}, dev.Draws[0])
	assert.False(t, dev.Draws[1].Indexed)
	assert.Equal(t, int32(2), dev.Draws[1].First)
	assert.Equal(t, int32(3), dev.Draws[1].Count)
	assert.Equal(t, int32(4), dev.Draws[2].First)
	assert.Equal(t, int32(2), dev.Draws[2].Count)
}

func TestDestroyTwice(t *testing.T) {
	dev := gputest.NewRecorder()
	b, err := New(dev, PositionColorTexCoord, quad, quadIndices)
	require.NoError(t, err)

	b.Destroy()
	b.Destroy()
	assert.Equal(t, 0, dev.Live())
	assert.Equal(t, 2, dev.Deletes("DeleteBuffer"))
	assert.Equal(t, 1, dev.Deletes("DeleteVertexArray"))
}

func TestParseLayout(t *testing.T) {
	for _, l := range []Layout{Position, PositionColor, PositionTexCoord, PositionColorTexCoord} {
		got, err := ParseLayout(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	got, err := ParseLayout("Position+UV")
	require.NoError(t, err)
	assert.Equal(t, PositionTexCoord, got)

	_, err = ParseLayout("position+normal")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
