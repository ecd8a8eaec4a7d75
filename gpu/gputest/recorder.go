// Package gputest provides an in-memory gpu.Device for tests that need to
// observe GPU calls without a graphics context.
package gputest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"learngl/gpu"
)

// DrawCall is one recorded DrawArrays or DrawElements call.
type DrawCall struct {
	Indexed bool
	Mode    gpu.Primitive
	First   int32
	Count   int32
	VAO     uint32 // vertex array bound at the time of the call
	Program uint32 // program in use at the time of the call
}

// TexUpload is one recorded TexImage2D call.
type TexUpload struct {
	Texture uint32
	Width   int32
	Height  int32
	Format  gpu.PixelFormat
	Pixels  []byte
}

// Attrib is one recorded VertexAttribPointer call.
type Attrib struct {
	Index  uint32
	Size   int32
	Stride int32
	Offset int
}

// Recorder implements gpu.Device by recording every call.
//
// Compile decides whether a shader stage compiles; nil accepts everything.
// Link decides whether a program links; nil accepts everything.
// When Uniforms is non-nil only the listed names resolve to a location,
// otherwise every name resolves.
type Recorder struct {
	Compile  func(stage gpu.ShaderStage, source string) (log string, ok bool)
	Link     func(sources []string) (log string, ok bool)
	Uniforms []string

	// Calls is the ordered list of method names invoked.
	Calls []string

	Draws      []DrawCall
	TexUploads []TexUpload
	Attribs    []Attrib
	Enabled    []uint32
	TexParams  map[gpu.TextureParameter]gpu.TextureValue
	Mipmaps    int
	Bound      map[uint32]uint32 // texture unit -> texture
	ActiveUnit uint32

	// UniformValues holds the last value uploaded per uniform name.
	UniformValues map[string]any

	Vertices map[uint32][]float32 // buffer -> float data
	Indices  map[uint32][]uint32  // buffer -> index data

	next      uint32
	shaders   map[uint32]*shaderState
	programs  map[uint32]*programState
	buffers   map[uint32]bool
	arrays    map[uint32]bool
	textures  map[uint32]bool
	locations map[int32]string
	deletes   map[string]int

	program     uint32
	vao         uint32
	arrayBuffer uint32
	elementBuf  uint32
	texture2D   uint32
	clearColor  [4]float32
	depthTest   bool
	viewport    [2]int32
}

type shaderState struct {
	stage    gpu.ShaderStage
	source   string
	compiled bool
	log      string
}

type programState struct {
	attached []uint32
	linked   bool
	log      string
}

// NewRecorder returns an empty Recorder that accepts all shaders.
func NewRecorder() *Recorder {
	return &Recorder{
		TexParams:     make(map[gpu.TextureParameter]gpu.TextureValue),
		Bound:         make(map[uint32]uint32),
		UniformValues: make(map[string]any),
		Vertices:      make(map[uint32][]float32),
		Indices:       make(map[uint32][]uint32),
		shaders:       make(map[uint32]*shaderState),
		programs:      make(map[uint32]*programState),
		buffers:       make(map[uint32]bool),
		arrays:        make(map[uint32]bool),
		textures:      make(map[uint32]bool),
		locations:     make(map[int32]string),
		deletes:       make(map[string]int),
	}
}

func (r *Recorder) call(name string) { r.Calls = append(r.Calls, name) }

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

// LiveShaders returns the number of shader stages not yet deleted.
func (r *Recorder) LiveShaders() int { return len(r.shaders) }

// LivePrograms returns the number of programs not yet deleted.
func (r *Recorder) LivePrograms() int { return len(r.programs) }

// LiveBuffers returns the number of buffer objects not yet deleted.
func (r *Recorder) LiveBuffers() int { return len(r.buffers) }

// LiveVertexArrays returns the number of vertex arrays not yet deleted.
func (r *Recorder) LiveVertexArrays() int { return len(r.arrays) }

// LiveTextures returns the number of textures not yet deleted.
func (r *Recorder) LiveTextures() int { return len(r.textures) }

// Live returns the total number of live device objects.
func (r *Recorder) Live() int {
	return r.LiveShaders() + r.LivePrograms() + r.LiveBuffers() + r.LiveVertexArrays() + r.LiveTextures()
}

// Deletes returns how many times the named delete method was called with a
// non-zero handle.
func (r *Recorder) Deletes(method string) int { return r.deletes[method] }

// CurrentProgram returns the program bound by the last UseProgram call.
func (r *Recorder) CurrentProgram() uint32 { return r.program }

// CurrentVertexArray returns the vertex array bound by the last BindVertexArray call.
func (r *Recorder) CurrentVertexArray() uint32 { return r.vao }

// ClearState returns the last clear colour and whether depth testing is on.
func (r *Recorder) ClearState() ([4]float32, bool) { return r.clearColor, r.depthTest }

// ViewportSize returns the last viewport passed to Viewport.
func (r *Recorder) ViewportSize() (int32, int32) { return r.viewport[0], r.viewport[1] }

func (r *Recorder) CreateShader(stage gpu.ShaderStage) uint32 {
	r.call("CreateShader")
	h := r.handle()
	r.shaders[h] = &shaderState{stage: stage}
	return h
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.call("ShaderSource")
	if s, ok := r.shaders[shader]; ok {
		s.source = source
	}
}

func (r *Recorder) CompileShader(shader uint32) {
	r.call("CompileShader")
	s, ok := r.shaders[shader]
	if !ok {
		return
	}
	s.compiled = true
	if r.Compile != nil {
		s.log, s.compiled = r.Compile(s.stage, s.source)
	}
}

func (r *Recorder) ShaderCompiled(shader uint32) bool {
	s, ok := r.shaders[shader]
	return ok && s.compiled
}

func (r *Recorder) ShaderInfoLog(shader uint32) string {
	if s, ok := r.shaders[shader]; ok {
		return s.log
	}
	return ""
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.call("DeleteShader")
	if _, ok := r.shaders[shader]; ok {
		r.deletes["DeleteShader"]++
		delete(r.shaders, shader)
	}
}

func (r *Recorder) CreateProgram() uint32 {
	r.call("CreateProgram")
	h := r.handle()
	r.programs[h] = &programState{}
	return h
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.call("AttachShader")
	if p, ok := r.programs[program]; ok {
		p.attached = append(p.attached, shader)
	}
}

func (r *Recorder) LinkProgram(program uint32) {
	r.call("LinkProgram")
	p, ok := r.programs[program]
	if !ok {
		return
	}
	p.linked = true
	if r.Link != nil {
		var sources []string
		for _, sh := range p.attached {
			if s, ok := r.shaders[sh]; ok {
				sources = append(sources, s.source)
			}
		}
		p.log, p.linked = r.Link(sources)
	}
}

func (r *Recorder) ProgramLinked(program uint32) bool {
	p, ok := r.programs[program]
	return ok && p.linked
}

func (r *Recorder) ProgramInfoLog(program uint32) string {
	if p, ok := r.programs[program]; ok {
		return p.log
	}
	return ""
}

func (r *Recorder) UseProgram(program uint32) {
	r.call("UseProgram")
	r.program = program
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.call("DeleteProgram")
	if _, ok := r.programs[program]; ok {
		r.deletes["DeleteProgram"]++
		delete(r.programs, program)
	}
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	r.call("UniformLocation")
	if _, ok := r.programs[program]; !ok {
		return -1
	}
	if r.Uniforms != nil {
		found := false
		for _, u := range r.Uniforms {
			if u == name {
				found = true
				break
			}
		}
		if !found {
			return -1
		}
	}
	for loc, n := range r.locations {
		if n == name {
			return loc
		}
	}
	loc := int32(len(r.locations))
	r.locations[loc] = name
	return loc
}

func (r *Recorder) setUniform(loc int32, v any) {
	name, ok := r.locations[loc]
	if !ok {
		panic(fmt.Sprintf("gputest: upload to unknown uniform location %d", loc))
	}
	r.UniformValues[name] = v
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.call("Uniform1i")
	r.setUniform(location, v)
}

func (r *Recorder) Uniform1f(location int32, v float32) {
	r.call("Uniform1f")
	r.setUniform(location, v)
}

func (r *Recorder) Uniform3f(location int32, x, y, z float32) {
	r.call("Uniform3f")
	r.setUniform(location, mgl32.Vec3{x, y, z})
}

func (r *Recorder) Uniform4f(location int32, x, y, z, w float32) {
	r.call("Uniform4f")
	r.setUniform(location, mgl32.Vec4{x, y, z, w})
}

func (r *Recorder) UniformMatrix4(location int32, m mgl32.Mat4) {
	r.call("UniformMatrix4")
	r.setUniform(location, m)
}

func (r *Recorder) GenVertexArray() uint32 {
	r.call("GenVertexArray")
	h := r.handle()
	r.arrays[h] = true
	return h
}

func (r *Recorder) BindVertexArray(vao uint32) {
	r.call("BindVertexArray")
	r.vao = vao
}

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.call("DeleteVertexArray")
	if r.arrays[vao] {
		r.deletes["DeleteVertexArray"]++
		delete(r.arrays, vao)
	}
}

func (r *Recorder) GenBuffer() uint32 {
	r.call("GenBuffer")
	h := r.handle()
	r.buffers[h] = true
	return h
}

func (r *Recorder) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	r.call("BindBuffer")
	if target == gpu.ElementArrayBuffer {
		r.elementBuf = buffer
	} else {
		r.arrayBuffer = buffer
	}
}

func (r *Recorder) BufferFloat32(target gpu.BufferTarget, data []float32) {
	r.call("BufferFloat32")
	buf := r.arrayBuffer
	if target == gpu.ElementArrayBuffer {
		buf = r.elementBuf
	}
	r.Vertices[buf] = append([]float32(nil), data...)
}

func (r *Recorder) BufferUint32(target gpu.BufferTarget, data []uint32) {
	r.call("BufferUint32")
	buf := r.elementBuf
	if target == gpu.ArrayBuffer {
		buf = r.arrayBuffer
	}
	r.Indices[buf] = append([]uint32(nil), data...)
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.call("DeleteBuffer")
	if r.buffers[buffer] {
		r.deletes["DeleteBuffer"]++
		delete(r.buffers, buffer)
	}
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, strideBytes int32, offsetBytes int) {
	r.call("VertexAttribPointer")
	r.Attribs = append(r.Attribs, Attrib{Index: index, Size: size, Stride: strideBytes, Offset: offsetBytes})
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.call("EnableVertexAttribArray")
	r.Enabled = append(r.Enabled, index)
}

func (r *Recorder) DrawArrays(mode gpu.Primitive, first, count int32) {
	r.call("DrawArrays")
	r.Draws = append(r.Draws, DrawCall{Mode: mode, First: first, Count: count, VAO: r.vao, Program: r.program})
}

func (r *Recorder) DrawElements(mode gpu.Primitive, first, count int32) {
	r.call("DrawElements")
	r.Draws = append(r.Draws, DrawCall{Indexed: true, Mode: mode, First: first, Count: count, VAO: r.vao, Program: r.program})
}

func (r *Recorder) GenTexture() uint32 {
	r.call("GenTexture")
	h := r.handle()
	r.textures[h] = true
	return h
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.call("ActiveTexture")
	r.ActiveUnit = unit
}

func (r *Recorder) BindTexture2D(texture uint32) {
	r.call("BindTexture2D")
	r.texture2D = texture
	r.Bound[r.ActiveUnit] = texture
}

func (r *Recorder) TexParameter(param gpu.TextureParameter, value gpu.TextureValue) {
	r.call("TexParameter")
	r.TexParams[param] = value
}

func (r *Recorder) TexImage2D(width, height int32, format gpu.PixelFormat, pixels []byte) {
	r.call("TexImage2D")
	r.TexUploads = append(r.TexUploads, TexUpload{
		Texture: r.texture2D,
		Width:   width,
		Height:  height,
		Format:  format,
		Pixels:  append([]byte(nil), pixels...),
	})
}

func (r *Recorder) GenerateMipmap() {
	r.call("GenerateMipmap")
	r.Mipmaps++
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.call("DeleteTexture")
	if r.textures[texture] {
		r.deletes["DeleteTexture"]++
		delete(r.textures, texture)
	}
}

func (r *Recorder) Viewport(width, height int32) {
	r.call("Viewport")
	r.viewport = [2]int32{width, height}
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.call("ClearColor")
	r.clearColor = [4]float32{red, green, blue, alpha}
}

func (r *Recorder) Clear(depth bool) { r.call("Clear") }

func (r *Recorder) SetDepthTest(enabled bool) {
	r.call("SetDepthTest")
	r.depthTest = enabled
}

func (r *Recorder) Version() string { return "gputest" }

var _ gpu.Device = (*Recorder)(nil)
