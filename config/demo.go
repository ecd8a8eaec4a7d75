package config

import (
	"errors"
	"fmt"

	"learngl/geometry"
	"learngl/gpu"
)

// Demo is one data-only demo: a shader pair, the geometry it draws, the
// textures it samples and the uniforms it sets.
type Demo struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Shaders   Shaders    `yaml:"shaders"`
	Clear     []float32  `yaml:"clear"`
	DepthTest bool       `yaml:"depth_test"`
	Camera    *Camera    `yaml:"camera"`
	Geometry  []Geometry `yaml:"geometry"`
	Textures  []Texture  `yaml:"textures"`
	Uniforms  []Uniform  `yaml:"uniforms"`
}

// Shaders names the two stage source files.
type Shaders struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// Camera enables the free-look camera and sets its starting position.
type Camera struct {
	Position []float32 `yaml:"position"`
}

// Geometry is one vertex buffer, given inline, loaded from a glTF or OBJ
// model, or generated from a named shape.
type Geometry struct {
	Layout    string     `yaml:"layout"` // ignored for models and shapes
	Primitive string     `yaml:"primitive"`
	Vertices  []float32  `yaml:"vertices"`
	Model     string     `yaml:"model"`
	Shape     string     `yaml:"shape"` // sphere, plane or grid
	Indices   []uint32   `yaml:"indices"`
	Instances []Instance `yaml:"instances"`
}

// Instance places one copy of a geometry. The model matrix is
// translate(Translate) * rotate(Angle + Spin*time degrees, Axis) * scale(Scale).
type Instance struct {
	Translate []float32 `yaml:"translate"`
	Axis      []float32 `yaml:"axis"`
	Angle     float32   `yaml:"angle"`
	Spin      float32   `yaml:"spin"`
	Scale     []float32 `yaml:"scale"`
}

// Texture is one image bound to a texture unit and, optionally, a sampler
// uniform set to that unit.
type Texture struct {
	Path           string `yaml:"path"`
	Unit           uint32 `yaml:"unit"`
	Alpha          bool   `yaml:"alpha"`
	FlipHorizontal bool   `yaml:"flip_horizontal"`
	FlipVertical   bool   `yaml:"flip_vertical"`
	Uniform        string `yaml:"uniform"`
}

// Uniform is a shader uniform set either from a static Value or, per frame,
// from a named Bind source.
type Uniform struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Value []float32 `yaml:"value"`
	Bind  string    `yaml:"bind"`
}

// Uniform types.
const (
	TypeBool  = "bool"
	TypeInt   = "int"
	TypeFloat = "float"
	TypeVec3  = "vec3"
	TypeVec4  = "vec4"
	TypeMat4  = "mat4"
)

// Per-frame binding sources.
const (
	BindTime           = "time"            // seconds since start
	BindPulse          = "pulse"           // sin(time)/2 + 0.5
	BindView           = "view"            // camera view matrix
	BindProjection     = "projection"      // camera projection matrix
	BindModel          = "model"           // per-instance model matrix
	BindCameraPosition = "camera.position" // camera position
)

var typeSizes = map[string]int{
	TypeBool:  1,
	TypeInt:   1,
	TypeFloat: 1,
	TypeVec3:  3,
	TypeVec4:  4,
	TypeMat4:  16,
}

var bindTypes = map[string]string{
	BindTime:           TypeFloat,
	BindPulse:          TypeFloat,
	BindView:           TypeMat4,
	BindProjection:     TypeMat4,
	BindModel:          TypeMat4,
	BindCameraPosition: TypeVec3,
}

// DefaultClear is the clear colour used when a demo omits one.
var DefaultClear = []float32{0.2, 0.3, 0.3, 1.0}

func (d *Demo) applyDefaults() {
	if len(d.Clear) == 0 {
		d.Clear = append([]float32(nil), DefaultClear...)
	}
	for i := range d.Uniforms {
		u := &d.Uniforms[i]
		if u.Type == "" && u.Bind != "" {
			u.Type = bindTypes[u.Bind]
		}
	}
}

// Validate reports the first problem in each part of the demo.
func (d *Demo) Validate() error {
	var errs []error
	if d.Shaders.Vertex == "" || d.Shaders.Fragment == "" {
		errs = append(errs, errors.New("shaders: vertex and fragment are both required"))
	}
	if len(d.Clear) != 4 {
		errs = append(errs, fmt.Errorf("clear: want 4 components, got %d", len(d.Clear)))
	}
	if d.Camera != nil && len(d.Camera.Position) != 0 && len(d.Camera.Position) != 3 {
		errs = append(errs, fmt.Errorf("camera.position: want 3 components, got %d", len(d.Camera.Position)))
	}

	if len(d.Geometry) == 0 {
		errs = append(errs, errors.New("geometry: at least one entry is required"))
	}
	for i, g := range d.Geometry {
		if err := g.validate(); err != nil {
			errs = append(errs, fmt.Errorf("geometry[%d]: %w", i, err))
		}
	}

	units := make(map[uint32]bool, len(d.Textures))
	for i, t := range d.Textures {
		switch {
		case t.Path == "":
			errs = append(errs, fmt.Errorf("textures[%d]: missing path", i))
		case units[t.Unit]:
			errs = append(errs, fmt.Errorf("textures[%d]: unit %d already used", i, t.Unit))
		}
		units[t.Unit] = true
	}

	for i, u := range d.Uniforms {
		if err := u.validate(); err != nil {
			errs = append(errs, fmt.Errorf("uniforms[%d] %q: %w", i, u.Name, err))
			continue
		}
		if d.Camera == nil && (u.Bind == BindView || u.Bind == BindProjection || u.Bind == BindCameraPosition) {
			errs = append(errs, fmt.Errorf("uniforms[%d] %q: binding %q needs a camera", i, u.Name, u.Bind))
		}
	}
	return errors.Join(errs...)
}

// CameraPosition returns the configured start position, or the origin.
func (d *Demo) CameraPosition() [3]float32 {
	var p [3]float32
	if d.Camera != nil {
		copy(p[:], d.Camera.Position)
	}
	return p
}

func (g Geometry) validate() error {
	// Models and shapes bring their own layout.
	if (g.Model == "" && g.Shape == "") || g.Layout != "" {
		if _, err := geometry.ParseLayout(g.Layout); err != nil {
			return err
		}
	}
	if _, ok := gpu.ParsePrimitive(g.Primitive); !ok {
		return fmt.Errorf("unknown primitive %q", g.Primitive)
	}
	sources := 0
	for _, set := range []bool{len(g.Vertices) > 0, g.Model != "", g.Shape != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return errors.New("one of vertices, model or shape is required")
	case sources > 1:
		return errors.New("vertices, model and shape are mutually exclusive")
	}
	switch g.Shape {
	case "", "sphere", "plane", "grid":
	default:
		return fmt.Errorf("unknown shape %q", g.Shape)
	}
	for i, in := range g.Instances {
		if err := in.validate(); err != nil {
			return fmt.Errorf("instances[%d]: %w", i, err)
		}
	}
	return nil
}

// LayoutValue returns the parsed vertex layout. It is only meaningful on a
// validated Geometry.
func (g Geometry) LayoutValue() geometry.Layout {
	l, _ := geometry.ParseLayout(g.Layout)
	return l
}

// PrimitiveValue returns the parsed primitive, Triangles by default.
func (g Geometry) PrimitiveValue() gpu.Primitive {
	p, _ := gpu.ParsePrimitive(g.Primitive)
	return p
}

func (in Instance) validate() error {
	vectors := []struct {
		name string
		v    []float32
	}{
		{"translate", in.Translate},
		{"axis", in.Axis},
		{"scale", in.Scale},
	}
	for _, vec := range vectors {
		if len(vec.v) != 0 && len(vec.v) != 3 {
			return fmt.Errorf("%s: want 3 components, got %d", vec.name, len(vec.v))
		}
	}
	if (in.Angle != 0 || in.Spin != 0) && len(in.Axis) == 0 {
		return errors.New("axis is required with angle or spin")
	}
	return nil
}

func (u Uniform) validate() error {
	if u.Name == "" {
		return errors.New("missing name")
	}
	if u.Bind != "" {
		want, ok := bindTypes[u.Bind]
		switch {
		case !ok:
			return fmt.Errorf("unknown binding %q", u.Bind)
		case want != u.Type:
			return fmt.Errorf("binding %q is a %s, not a %s", u.Bind, want, u.Type)
		case len(u.Value) != 0:
			return errors.New("value and bind are mutually exclusive")
		}
		return nil
	}
	size, ok := typeSizes[u.Type]
	if !ok {
		return fmt.Errorf("unknown type %q", u.Type)
	}
	if len(u.Value) != size {
		return fmt.Errorf("%s needs %d values, got %d", u.Type, size, len(u.Value))
	}
	return nil
}
