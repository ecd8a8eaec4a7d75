// Package shader compiles and links vertex/fragment programs and uploads
// uniforms to them.
package shader

import (
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"learngl/gpu"
)

// Program is a linked shader program. The zero value is not usable; build
// one with NewProgram.
type Program struct {
	dev gpu.Device
	id  uint32
}

// NewProgram compiles both stages and links them. The intermediate stage
// objects are always deleted, whether construction succeeds or not, and a
// failed program is never returned.
func NewProgram(dev gpu.Device, vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compileStage(dev, vertexSrc, gpu.VertexStage)
	if err != nil {
		return nil, err
	}
	frag, err := compileStage(dev, fragmentSrc, gpu.FragmentStage)
	if err != nil {
		dev.DeleteShader(vert)
		return nil, err
	}

	id, err := link(dev, vert, frag)
	if err != nil {
		return nil, err
	}
	return &Program{dev: dev, id: id}, nil
}

// NewProgramFromFiles reads both stage sources from disk and calls NewProgram.
func NewProgramFromFiles(dev gpu.Device, vertexPath, fragmentPath string) (*Program, error) {
	vs, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, &SourceError{Stage: gpu.VertexStage, Path: vertexPath, Err: err}
	}
	frag, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, &SourceError{Stage: gpu.FragmentStage, Path: fragmentPath, Err: err}
	}
	return NewProgram(dev, string(vs), string(frag))
}

// NewProgramFS is NewProgramFromFiles for sources held in fsys.
func NewProgramFS(dev gpu.Device, fsys fs.FS, vertexPath, fragmentPath string) (*Program, error) {
	vs, err := fs.ReadFile(fsys, vertexPath)
	if err != nil {
		return nil, &SourceError{Stage: gpu.VertexStage, Path: vertexPath, Err: err}
	}
	frag, err := fs.ReadFile(fsys, fragmentPath)
	if err != nil {
		return nil, &SourceError{Stage: gpu.FragmentStage, Path: fragmentPath, Err: err}
	}
	return NewProgram(dev, string(vs), string(frag))
}

func compileStage(dev gpu.Device, source string, stage gpu.ShaderStage) (uint32, error) {
	sh := dev.CreateShader(stage)
	dev.ShaderSource(sh, source)
	dev.CompileShader(sh)
	if !dev.ShaderCompiled(sh) {
		log := dev.ShaderInfoLog(sh)
		dev.DeleteShader(sh)
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return sh, nil
}

// link attaches, links, then deletes both stages regardless of the outcome.
func link(dev gpu.Device, vert, frag uint32) (uint32, error) {
	prog := dev.CreateProgram()
	dev.AttachShader(prog, vert)
	dev.AttachShader(prog, frag)
	dev.LinkProgram(prog)
	dev.DeleteShader(vert)
	dev.DeleteShader(frag)

	if !dev.ProgramLinked(prog) {
		log := dev.ProgramInfoLog(prog)
		dev.DeleteProgram(prog)
		return 0, &LinkError{Log: log}
	}
	return prog, nil
}

// ID returns the device handle of the program, or 0 after Destroy.
func (p *Program) ID() uint32 { return p.id }

// Use makes p the active program for subsequent uniform uploads and draws.
func (p *Program) Use() { p.dev.UseProgram(p.id) }

// Destroy releases the program. Further calls are no-ops.
func (p *Program) Destroy() {
	if p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
}

// Uniform setters look the location up on every call. A name the program
// does not use resolves to -1 and the upload is skipped. The program must
// be in use (see Use) for the value to land on it.

func (p *Program) location(name string) (int32, bool) {
	loc := p.dev.UniformLocation(p.id, name)
	return loc, loc >= 0
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

func (p *Program) SetInt(name string, v int32) {
	if loc, ok := p.location(name); ok {
		p.dev.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc, ok := p.location(name); ok {
		p.dev.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc, ok := p.location(name); ok {
		p.dev.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc, ok := p.location(name); ok {
		p.dev.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := p.location(name); ok {
		p.dev.UniformMatrix4(loc, m)
	}
}
