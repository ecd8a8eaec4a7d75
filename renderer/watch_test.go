package renderer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	vs := filepath.Join(dir, "shader.vs")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(vs, []byte("v1"), 0o644))

	w, err := Watch([]string{vs}, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(vs, []byte("v2"), 0o644))

	select {
	case got := <-w.Changes:
		assert.Equal(t, filepath.Clean(vs), got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchMissingDir(t *testing.T) {
	_, err := Watch([]string{filepath.Join(t.TempDir(), "nope", "a.vs")}, nil)
	assert.Error(t, err)
}

func TestWatchCloseTwice(t *testing.T) {
	w, err := Watch([]string{filepath.Join(t.TempDir(), "a.vs")}, nil)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NotPanics(t, func() { w.Close() })

	select {
	case _, ok := <-w.Changes:
		assert.False(t, ok, "Changes is closed after Close")
	case <-time.After(5 * time.Second):
		t.Fatal("Changes not closed")
	}
}
