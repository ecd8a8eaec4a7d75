package textures

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"learngl/gpu"
)

// Image is pixel data ready for upload: tightly packed rows, first row
// first, 3 or 4 bytes per pixel depending on Format.
type Image struct {
	Width  int
	Height int
	Format gpu.PixelFormat
	Pixels []byte
}

// LoadImage reads and decodes a PNG, JPEG, BMP, TIFF or WebP file. The
// result is always non-premultiplied 8-bit RGBA with its origin at (0,0).
func LoadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceLoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &ResourceLoadError{Path: path, Err: err}
	}
	return toNRGBA(img), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Pack converts img to format, dropping alpha for RGB, and applies the
// requested flips while copying.
func Pack(img image.Image, format gpu.PixelFormat, flipH, flipV bool) *Image {
	src := toNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	ch := format.Channels()
	out := &Image{
		Width:  w,
		Height: h,
		Format: format,
		Pixels: make([]byte, w*h*ch),
	}

	for y := 0; y < h; y++ {
		sy := y
		if flipV {
			sy = h - 1 - y
		}
		row := src.Pix[sy*src.Stride : sy*src.Stride+w*4]
		for x := 0; x < w; x++ {
			sx := x
			if flipH {
				sx = w - 1 - x
			}
			copy(out.Pixels[(y*w+x)*ch:(y*w+x+1)*ch], row[sx*4:sx*4+ch])
		}
	}
	return out
}

// Checker returns a size x size checkerboard of 8x8 blocks alternating
// between c1 and c2, with c1 in the top-left block.
func Checker(size int, c1, c2 color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	block := size / 8
	if block < 1 {
		block = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := c2
			if (x/block+y/block)%2 == 0 {
				c = c1
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
