// Package renderer turns a data-only demo definition into device resources
// and draws it one frame at a time.
package renderer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"learngl/config"
	"learngl/geometry"
	"learngl/gpu"
	"learngl/scene"
	"learngl/shader"
	"learngl/textures"
)

// Projection planes used for camera demos.
const (
	NearPlane float32 = 0.1
	FarPlane  float32 = 100
)

// Assets says where a demo's files live.
type Assets struct {
	// Shaders resolves the demo's shader paths.
	Shaders fs.FS
	// Dir is prepended to relative texture and model paths.
	Dir string
	// Cache, when set, shares decoded images between builds.
	Cache *textures.Cache
	// Logger receives lifecycle messages; nil uses slog.Default().
	Logger *slog.Logger
}

func (a Assets) path(p string) string {
	if filepath.IsAbs(p) || a.Dir == "" {
		return p
	}
	return filepath.Join(a.Dir, p)
}

type mesh struct {
	buf       *geometry.Buffer
	instances []config.Instance
}

// Scene owns every device object built for one demo.
type Scene struct {
	dev    gpu.Device
	demo   *config.Demo
	assets Assets
	log    *slog.Logger

	program  *shader.Program
	meshes   []mesh
	textures []*textures.Texture2D

	// Camera is nil unless the demo configures one.
	Camera *scene.Camera
}

// Build creates the program, geometry and textures of demo. When any of
// them fails, everything created so far is released before the error is
// returned.
func Build(dev gpu.Device, demo *config.Demo, assets Assets) (*Scene, error) {
	if assets.Cache == nil {
		assets.Cache = textures.NewCache()
	}
	log := assets.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Scene{
		dev:    dev,
		demo:   demo,
		assets: assets,
		log:    log.With("demo", demo.ID),
	}
	fail := func(err error) (*Scene, error) {
		s.Destroy()
		return nil, err
	}

	var err error
	if s.program, err = s.compile(); err != nil {
		return fail(err)
	}

	for i, g := range demo.Geometry {
		if err := s.addGeometry(g); err != nil {
			return fail(fmt.Errorf("demo %q: geometry[%d]: %w", demo.ID, i, err))
		}
	}

	for _, t := range demo.Textures {
		tex, err := assets.Cache.NewTexture2D(dev, assets.path(t.Path), t.Unit, textures.Options{
			HasAlpha:       t.Alpha,
			FlipHorizontal: t.FlipHorizontal,
			FlipVertical:   t.FlipVertical,
		})
		if err != nil {
			return fail(fmt.Errorf("demo %q: %w", demo.ID, err))
		}
		s.textures = append(s.textures, tex)
	}

	if demo.Camera != nil {
		s.Camera = scene.NewCameraAt(mgl32.Vec3(demo.CameraPosition()))
	}

	s.log.Debug("demo built",
		"meshes", len(s.meshes),
		"textures", len(s.textures),
		"camera", s.Camera != nil)
	return s, nil
}

func (s *Scene) compile() (*shader.Program, error) {
	p, err := shader.NewProgramFS(s.dev, s.assets.Shaders, s.demo.Shaders.Vertex, s.demo.Shaders.Fragment)
	if err != nil {
		return nil, fmt.Errorf("demo %q: %w", s.demo.ID, err)
	}
	return p, nil
}

func (s *Scene) addGeometry(g config.Geometry) error {
	var data []scene.MeshData
	switch {
	case g.Shape != "":
		m, err := scene.Shape(g.Shape)
		if err != nil {
			return err
		}
		data = []scene.MeshData{m}
	case g.Model != "":
		var err error
		if data, err = scene.LoadModel(s.assets.path(g.Model)); err != nil {
			return err
		}
	default:
		data = []scene.MeshData{{
			Layout:    g.LayoutValue(),
			Primitive: g.PrimitiveValue(),
			Vertices:  g.Vertices,
			Indices:   g.Indices,
		}}
	}

	for _, m := range data {
		buf, err := geometry.New(s.dev, m.Layout, m.Vertices, m.Indices)
		if err != nil {
			if m.Name != "" {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
			return err
		}
		p := m.Primitive
		if g.Primitive != "" {
			p = g.PrimitiveValue()
		}
		buf.SetPrimitive(p)
		s.meshes = append(s.meshes, mesh{buf: buf, instances: g.Instances})
	}
	return nil
}

// Demo returns the definition the scene was built from.
func (s *Scene) Demo() *config.Demo { return s.demo }

// ShaderPaths returns the vertex and fragment source paths.
func (s *Scene) ShaderPaths() []string {
	return []string{s.demo.Shaders.Vertex, s.demo.Shaders.Fragment}
}

// Reload recompiles the program from its sources. On failure the current
// program stays in use and the error is returned.
func (s *Scene) Reload() error {
	p, err := s.compile()
	if err != nil {
		s.log.Warn("shader reload failed", "error", err)
		return err
	}
	s.program.Destroy()
	s.program = p
	s.log.Info("shaders reloaded", "program", p.ID())
	return nil
}

// Frame draws one frame. t is the time in seconds since the demo started
// and aspect the framebuffer width over height.
func (s *Scene) Frame(t, aspect float32) {
	d := s.demo
	s.dev.SetDepthTest(d.DepthTest)
	s.dev.ClearColor(d.Clear[0], d.Clear[1], d.Clear[2], d.Clear[3])
	s.dev.Clear(d.DepthTest)

	for _, tex := range s.textures {
		tex.Bind()
	}

	p := s.program
	p.Use()
	for _, tc := range d.Textures {
		if tc.Uniform != "" {
			p.SetInt(tc.Uniform, int32(tc.Unit))
		}
	}

	var models []string
	for _, u := range d.Uniforms {
		switch u.Bind {
		case "":
			setStatic(p, u)
		case config.BindTime:
			p.SetFloat(u.Name, t)
		case config.BindPulse:
			p.SetFloat(u.Name, float32(math.Sin(float64(t)))/2+0.5)
		case config.BindView:
			p.SetMat4(u.Name, s.Camera.ViewMatrix())
		case config.BindProjection:
			p.SetMat4(u.Name, s.Camera.ProjectionMatrix(aspect, NearPlane, FarPlane))
		case config.BindCameraPosition:
			p.SetVec3(u.Name, s.Camera.Position)
		case config.BindModel:
			models = append(models, u.Name)
		}
	}

	for _, m := range s.meshes {
		if len(m.instances) == 0 {
			for _, name := range models {
				p.SetMat4(name, mgl32.Ident4())
			}
			m.buf.Draw()
			continue
		}
		for _, in := range m.instances {
			model := ModelMatrix(in, t)
			for _, name := range models {
				p.SetMat4(name, model)
			}
			m.buf.Draw()
		}
	}
}

// ModelMatrix returns the transform of one instance at time t.
func ModelMatrix(in config.Instance, t float32) mgl32.Mat4 {
	m := mgl32.Ident4()
	if len(in.Translate) == 3 {
		m = mgl32.Translate3D(in.Translate[0], in.Translate[1], in.Translate[2])
	}
	if len(in.Axis) == 3 {
		axis := mgl32.Vec3{in.Axis[0], in.Axis[1], in.Axis[2]}
		if axis.Len() > 0 {
			angle := mgl32.DegToRad(in.Angle + in.Spin*t)
			m = m.Mul4(mgl32.HomogRotate3D(angle, axis.Normalize()))
		}
	}
	if len(in.Scale) == 3 {
		m = m.Mul4(mgl32.Scale3D(in.Scale[0], in.Scale[1], in.Scale[2]))
	}
	return m
}

func setStatic(p *shader.Program, u config.Uniform) {
	v := u.Value
	switch u.Type {
	case config.TypeBool:
		p.SetBool(u.Name, v[0] != 0)
	case config.TypeInt:
		p.SetInt(u.Name, int32(v[0]))
	case config.TypeFloat:
		p.SetFloat(u.Name, v[0])
	case config.TypeVec3:
		p.SetVec3(u.Name, mgl32.Vec3{v[0], v[1], v[2]})
	case config.TypeVec4:
		p.SetVec4(u.Name, mgl32.Vec4{v[0], v[1], v[2], v[3]})
	case config.TypeMat4:
		var m mgl32.Mat4
		copy(m[:], v)
		p.SetMat4(u.Name, m)
	}
}

// Destroy releases every device object. Further calls are no-ops.
func (s *Scene) Destroy() {
	for _, tex := range s.textures {
		tex.Destroy()
	}
	s.textures = nil
	for _, m := range s.meshes {
		m.buf.Destroy()
	}
	s.meshes = nil
	if s.program != nil {
		s.program.Destroy()
		s.program = nil
	}
}
