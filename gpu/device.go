// Package gpu describes the graphics device that the shader, geometry and
// texture wrappers are written against. The interface mirrors the OpenGL
// object model: every object is a uint32 handle and 0 means "no object".
//
// Implementations are not safe for concurrent use. All calls must come from
// the thread that owns the graphics context.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// ShaderStage identifies the pipeline phase a shader stage targets.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "VERTEX"
	case FragmentStage:
		return "FRAGMENT"
	}
	return "UNKNOWN"
}

// Primitive is the topology used to assemble vertices in a draw call.
type Primitive int

const (
	Triangles Primitive = iota // default
	Lines
	LineStrip
	Points
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case LineStrip:
		return "line_strip"
	case Points:
		return "points"
	}
	return "unknown"
}

// ParsePrimitive is the inverse of Primitive.String. An empty name selects
// Triangles.
func ParsePrimitive(name string) (Primitive, bool) {
	switch name {
	case "", "triangles":
		return Triangles, true
	case "lines":
		return Lines, true
	case "line_strip":
		return LineStrip, true
	case "points":
		return Points, true
	}
	return 0, false
}

// BufferTarget selects the binding point a buffer object is bound to.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// PixelFormat is the channel layout of pixel data passed to TexImage2D.
type PixelFormat int

const (
	RGB PixelFormat = iota
	RGBA
)

// Channels returns the number of bytes per pixel for the format.
func (f PixelFormat) Channels() int {
	if f == RGBA {
		return 4
	}
	return 3
}

// TextureParameter names a 2D texture sampling parameter.
type TextureParameter int

const (
	TextureWrapS TextureParameter = iota
	TextureWrapT
	TextureMinFilter
	TextureMagFilter
)

// TextureValue is the value assigned to a TextureParameter.
type TextureValue int

const (
	Repeat TextureValue = iota
	ClampToEdge
	Linear
	Nearest
)

// Device is the subset of the graphics API used by the core wrappers.
type Device interface {
	// Shader stages.
	CreateShader(stage ShaderStage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	// Programs.
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniforms. UniformLocation returns -1 when the program has no active
	// uniform with that name.
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix4(location int32, m mgl32.Mat4)

	// Vertex arrays and buffers.
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target BufferTarget, buffer uint32)
	BufferFloat32(target BufferTarget, data []float32)
	BufferUint32(target BufferTarget, data []uint32)
	DeleteBuffer(buffer uint32)
	VertexAttribPointer(index uint32, size int32, strideBytes int32, offsetBytes int)
	EnableVertexAttribArray(index uint32)

	// Draw calls. DrawElements reads count uint32 indices starting at
	// index first of the bound element buffer.
	DrawArrays(mode Primitive, first, count int32)
	DrawElements(mode Primitive, first, count int32)

	// Textures.
	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture2D(texture uint32)
	TexParameter(param TextureParameter, value TextureValue)
	TexImage2D(width, height int32, format PixelFormat, pixels []byte)
	GenerateMipmap()
	DeleteTexture(texture uint32)

	// Frame state.
	Viewport(width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(depth bool)
	SetDepthTest(enabled bool)
	Version() string
}
