// Package config loads the YAML file that describes the window and the
// data-only demo definitions.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrUnknownDemo is returned by File.Demo for an id not present in the file.
var ErrUnknownDemo = errors.New("unknown demo")

// File is the top-level configuration document.
type File struct {
	Window Window `yaml:"window"`
	Demos  []Demo `yaml:"demos"`

	// Dir is the directory relative paths are resolved against. Load sets
	// it to the directory holding the file.
	Dir string `yaml:"-"`
}

// Window mirrors core.WindowConfig.
type Window struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	VSync      bool   `yaml:"vsync"`
	Resizable  bool   `yaml:"resizable"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// DefaultWindow returns the window used when the file omits a setting.
func DefaultWindow() Window {
	return Window{
		Width:     800,
		Height:    600,
		Title:     "LearnOpenGL",
		VSync:     true,
		Resizable: true,
	}
}

// Load reads and validates the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes and validates a configuration document. Unknown keys are
// rejected.
func Parse(data []byte) (*File, error) {
	f := &File{Window: DefaultWindow()}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for i := range f.Demos {
		f.Demos[i].applyDefaults()
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Demo returns the demo with the given id.
func (f *File) Demo(id string) (*Demo, error) {
	for i := range f.Demos {
		if f.Demos[i].ID == id {
			return &f.Demos[i], nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownDemo, id)
}

// IDs returns the demo ids in file order.
func (f *File) IDs() []string {
	ids := make([]string, len(f.Demos))
	for i, d := range f.Demos {
		ids[i] = d.ID
	}
	return ids
}

// Validate checks the window block and every demo, reporting all problems
// found.
func (f *File) Validate() error {
	var errs []error
	if f.Window.Width <= 0 || f.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size must be positive, got %dx%d", f.Window.Width, f.Window.Height))
	}
	seen := make(map[string]bool, len(f.Demos))
	for i := range f.Demos {
		d := &f.Demos[i]
		if d.ID == "" {
			errs = append(errs, fmt.Errorf("demos[%d]: missing id", i))
			continue
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Errorf("demo %q: duplicate id", d.ID))
			continue
		}
		seen[d.ID] = true
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("demo %q: %w", d.ID, err))
		}
	}
	return errors.Join(errs...)
}
