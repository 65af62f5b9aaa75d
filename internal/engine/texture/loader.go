// Package texture decodes image files into scene textures.
package texture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
)

// Loader reads texture files relative to Root. Every loaded texture is set
// to repeat wrapping and tiled Repeat times on both axes. Images larger
// than MaxSize on either side are scaled down to fit; zero means no limit.
type Loader struct {
	Root    string
	Repeat  float32
	MaxSize int
}

// LoadTexture reads and decodes path into a new texture. Each call returns
// a fresh texture, even for a path loaded before.
func (l Loader) LoadTexture(ctx context.Context, path string) (*scene.Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := path
	if l.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(l.Root, path)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", full, err)
	}
	img, err := Decode(bytes.NewReader(data), filepath.Ext(full))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", full, err)
	}

	rgba := ToRGBA(img)
	if l.MaxSize > 0 {
		rgba = Fit(rgba, l.MaxSize)
	}

	tex := scene.NewTexture(path, rgba)
	repeat := l.Repeat
	if repeat <= 0 {
		repeat = 1
	}
	tex.SetTiling(repeat, repeat)
	return tex, nil
}

// Decode decodes r using the decoder for ext (".png", ".tga", ...).
// Unknown extensions fall back to format sniffing.
func Decode(r io.Reader, ext string) (image.Image, error) {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".gif":
		return gif.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	case ".webp":
		return webp.Decode(r)
	case ".tga":
		return tga.Decode(r)
	}
	img, _, err := image.Decode(r)
	return img, err
}

// ToRGBA converts src to an RGBA image with its origin at (0, 0).
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Fit scales src down, keeping its aspect ratio, so that neither side
// exceeds limit. Images that already fit are returned as is.
func Fit(src *image.RGBA, limit int) *image.RGBA {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w <= limit && h <= limit {
		return src
	}
	nw, nh := limit, limit
	if w > h {
		nh = h * limit / w
	} else {
		nw = w * limit / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
