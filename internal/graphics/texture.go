package graphics

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	xdraw "golang.org/x/image/draw"
)

// DefaultTextureSize is the edge length block textures are scaled to.
const DefaultTextureSize = 64

// PrepareTexture decodes the image at path and scales it to size x size with
// nearest-neighbour sampling. An empty path yields the checker pattern.
func PrepareTexture(path string, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("texture size %d", size)
	}
	if path == "" {
		return CheckerImage(size, 8), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return ScaleImage(img, size), nil
}

// ScaleImage resamples src into a new size x size RGBA image.
func ScaleImage(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// CheckerImage draws a two-tone grid with cells of cell pixels.
func CheckerImage(size, cell int) *image.RGBA {
	if cell <= 0 {
		cell = 1
	}
	light := color.RGBA{R: 0xb8, G: 0xb8, B: 0xb0, A: 0xff}
	dark := color.RGBA{R: 0x80, G: 0x80, B: 0x78, A: 0xff}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}

// UploadTexture creates a GL texture from img.
func UploadTexture(img *image.RGBA, filter int32) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	size := img.Rect.Size()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

var (
	textureCache = make(map[string]uint32)
	cacheMutex   sync.Mutex
)

// GetTexture returns the GL texture for path, loading it on first use.
// Must be called on the GL thread.
func GetTexture(path string, size int) (uint32, error) {
	key := fmt.Sprintf("%s@%d", path, size)
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	if tex, ok := textureCache[key]; ok {
		return tex, nil
	}
	img, err := PrepareTexture(path, size)
	if err != nil {
		return 0, err
	}
	tex := UploadTexture(img, gl.NEAREST)
	textureCache[key] = tex
	return tex, nil
}

// ReleaseTextures deletes every cached texture.
func ReleaseTextures() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	for key, tex := range textureCache {
		gl.DeleteTextures(1, &tex)
		delete(textureCache, key)
	}
}
