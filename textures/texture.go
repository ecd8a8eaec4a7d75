// Package textures decodes image files and uploads them as 2D textures
// bound to a fixed texture unit.
package textures

import (
	"image"

	"learngl/gpu"
)

// Options controls how image data is converted before upload.
type Options struct {
	HasAlpha       bool // upload RGBA instead of RGB
	FlipHorizontal bool
	FlipVertical   bool
}

// Texture2D is a 2D texture object with repeat wrapping, linear filtering
// and a full mipmap chain, sampled from a fixed texture unit.
type Texture2D struct {
	dev    gpu.Device
	id     uint32
	unit   uint32
	width  int
	height int
	format gpu.PixelFormat
	path   string
}

// NewTexture2D decodes the image at path and uploads it for unit. A missing
// or undecodable file returns a *ResourceLoadError and creates nothing on
// the device.
func NewTexture2D(dev gpu.Device, path string, unit uint32, opts Options) (*Texture2D, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	t := NewTexture2DFromImage(dev, img, unit, opts)
	t.path = path
	return t, nil
}

// NewTexture2DFromImage uploads an already decoded image for unit.
func NewTexture2DFromImage(dev gpu.Device, img image.Image, unit uint32, opts Options) *Texture2D {
	format := gpu.RGB
	if opts.HasAlpha {
		format = gpu.RGBA
	}
	packed := Pack(img, format, opts.FlipHorizontal, opts.FlipVertical)

	t := &Texture2D{
		dev:    dev,
		id:     dev.GenTexture(),
		unit:   unit,
		width:  packed.Width,
		height: packed.Height,
		format: format,
	}
	dev.BindTexture2D(t.id)

	dev.TexParameter(gpu.TextureWrapS, gpu.Repeat)
	dev.TexParameter(gpu.TextureWrapT, gpu.Repeat)
	dev.TexParameter(gpu.TextureMinFilter, gpu.Linear)
	dev.TexParameter(gpu.TextureMagFilter, gpu.Linear)

	dev.TexImage2D(int32(packed.Width), int32(packed.Height), format, packed.Pixels)
	dev.GenerateMipmap()

	return t
}

// Bind activates the texture's unit and binds the texture to it.
func (t *Texture2D) Bind() {
	t.dev.ActiveTexture(t.unit)
	t.dev.BindTexture2D(t.id)
}

// ID returns the device handle, or 0 after Destroy.
func (t *Texture2D) ID() uint32 { return t.id }

// Unit returns the texture unit Bind activates.
func (t *Texture2D) Unit() uint32 { return t.unit }

// Size returns the uploaded width and height in pixels.
func (t *Texture2D) Size() (int, int) { return t.width, t.height }

// Format returns the uploaded pixel format.
func (t *Texture2D) Format() gpu.PixelFormat { return t.format }

// Path returns the source file, or "" for textures built from an image.
func (t *Texture2D) Path() string { return t.path }

// Destroy deletes the texture. Further calls are no-ops.
func (t *Texture2D) Destroy() {
	if t.id == 0 {
		return
	}
	t.dev.DeleteTexture(t.id)
	t.id = 0
}
