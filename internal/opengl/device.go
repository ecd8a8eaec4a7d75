package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"learngl/gpu"
)

// Device implements gpu.Device on top of the OpenGL 4.1 core profile.
// Call NewDevice from the goroutine that owns the GL context, after the
// context has been made current.
type Device struct {
	version string
}

// NewDevice loads the OpenGL function pointers for the current context.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &Device{version: gl.GoStr(gl.GetString(gl.VERSION))}, nil
}

// Version returns the GL_VERSION string reported by the driver.
func (d *Device) Version() string { return d.version }

// ── shaders ───────────────────────────────────────────────────────────────────

func (d *Device) CreateShader(stage gpu.ShaderStage) uint32 {
	if stage == gpu.FragmentStage {
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	}
	return gl.CreateShader(gl.VERTEX_SHADER)
}

func (d *Device) ShaderSource(shader uint32, source string) {
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
}

func (d *Device) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (d *Device) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ShaderInfoLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

// ── programs ──────────────────────────────────────────────────────────────────

func (d *Device) CreateProgram() uint32 { return gl.CreateProgram() }

func (d *Device) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (d *Device) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (d *Device) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) UseProgram(program uint32) { gl.UseProgram(program) }

func (d *Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

// ── uniforms ──────────────────────────────────────────────────────────────────

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (d *Device) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (d *Device) Uniform3f(location int32, x, y, z float32) { gl.Uniform3f(location, x, y, z) }

func (d *Device) Uniform4f(location int32, x, y, z, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

// UniformMatrix4 uploads m as-is; mgl32 matrices are column-major like GLSL.
func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// ── vertex arrays and buffers ─────────────────────────────────────────────────

func (d *Device) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *Device) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (d *Device) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (d *Device) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (d *Device) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	gl.BindBuffer(bufferTarget(target), buffer)
}

func (d *Device) BufferFloat32(target gpu.BufferTarget, data []float32) {
	if len(data) == 0 {
		gl.BufferData(bufferTarget(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(bufferTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Device) BufferUint32(target gpu.BufferTarget, data []uint32) {
	if len(data) == 0 {
		gl.BufferData(bufferTarget(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(bufferTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Device) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (d *Device) VertexAttribPointer(index uint32, size int32, strideBytes int32, offsetBytes int) {
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, strideBytes, gl.PtrOffset(offsetBytes))
}

func (d *Device) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

// ── draw calls ────────────────────────────────────────────────────────────────

func (d *Device) DrawArrays(mode gpu.Primitive, first, count int32) {
	gl.DrawArrays(primitive(mode), first, count)
}

func (d *Device) DrawElements(mode gpu.Primitive, first, count int32) {
	gl.DrawElements(primitive(mode), count, gl.UNSIGNED_INT, gl.PtrOffset(int(first)*4))
}

// ── textures ──────────────────────────────────────────────────────────────────

func (d *Device) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (d *Device) ActiveTexture(unit uint32) { gl.ActiveTexture(gl.TEXTURE0 + unit) }

func (d *Device) BindTexture2D(texture uint32) { gl.BindTexture(gl.TEXTURE_2D, texture) }

func (d *Device) TexParameter(param gpu.TextureParameter, value gpu.TextureValue) {
	gl.TexParameteri(gl.TEXTURE_2D, textureParameter(param), textureValue(value))
}

// TexImage2D uploads tightly packed rows; RGB rows are not 4-byte aligned
// in general, so the unpack alignment is dropped to 1 for the upload.
func (d *Device) TexImage2D(width, height int32, format gpu.PixelFormat, pixels []byte) {
	f := uint32(gl.RGB)
	if format == gpu.RGBA {
		f = gl.RGBA
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(f), width, height, 0, f, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
}

func (d *Device) GenerateMipmap() { gl.GenerateMipmap(gl.TEXTURE_2D) }

func (d *Device) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

// ── frame state ───────────────────────────────────────────────────────────────

func (d *Device) Viewport(width, height int32) { gl.Viewport(0, 0, width, height) }

func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (d *Device) Clear(depth bool) {
	mask := uint32(gl.COLOR_BUFFER_BIT)
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
		return
	}
	gl.Disable(gl.DEPTH_TEST)
}

// ── enum mapping ──────────────────────────────────────────────────────────────

func bufferTarget(t gpu.BufferTarget) uint32 {
	if t == gpu.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func primitive(p gpu.Primitive) uint32 {
	switch p {
	case gpu.Lines:
		return gl.LINES
	case gpu.LineStrip:
		return gl.LINE_STRIP
	case gpu.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

func textureParameter(p gpu.TextureParameter) uint32 {
	switch p {
	case gpu.TextureWrapT:
		return gl.TEXTURE_WRAP_T
	case gpu.TextureMinFilter:
		return gl.TEXTURE_MIN_FILTER
	case gpu.TextureMagFilter:
		return gl.TEXTURE_MAG_FILTER
	}
	return gl.TEXTURE_WRAP_S
}

func textureValue(v gpu.TextureValue) int32 {
	switch v {
	case gpu.ClampToEdge:
		return gl.CLAMP_TO_EDGE
	case gpu.Linear:
		return gl.LINEAR
	case gpu.Nearest:
		return gl.NEAREST
	}
	return gl.REPEAT
}

var _ gpu.Device = (*Device)(nil)
