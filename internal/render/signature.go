package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
)

// whiteKeyThreshold is the per-channel level above which a pixel counts as paper.
const whiteKeyThreshold = 235

// SignatureImage is a processed signature and how to composite it.
type SignatureImage struct {
	Image   *ImageData
	Opacity float64
	Scale   float64
}

// ImageSource opens images referenced by asset paths.
type ImageSource interface {
	Open(path string) (image.Image, error)
}

// FileSource resolves relative paths against BaseDir.
type FileSource struct {
	BaseDir string
}

// Open implements ImageSource.
func (f FileSource) Open(path string) (image.Image, error) {
	if !filepath.IsAbs(path) && f.BaseDir != "" {
		path = filepath.Join(f.BaseDir, path)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return img, nil
}

// ImageProcessor prepares signature and background images, caching the
// encoded result per source and settings.
type ImageProcessor struct {
	source ImageSource
	cache  sync.Map // key -> *ImageData
}

// NewImageProcessor builds a processor reading from source.
func NewImageProcessor(source ImageSource) *ImageProcessor {
	return &ImageProcessor{source: source}
}

// Signature loads and processes a signature asset.
func (p *ImageProcessor) Signature(asset domain.SignatureAsset) (*SignatureImage, error) {
	opacity := asset.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	scale := asset.Scale
	if scale <= 0 {
		scale = 1
	}

	key := fmt.Sprintf("sig|%s|%.3f|%t", asset.Path, asset.Thickness, asset.IsTransparent)
	data, err := p.cached(key, func() (*image.NRGBA, error) {
		src, err := p.source.Open(asset.Path)
		if err != nil {
			return nil, err
		}
		return ProcessSignature(src, asset.Thickness, asset.IsTransparent), nil
	})
	if err != nil {
		return nil, err
	}
	return &SignatureImage{Image: data, Opacity: opacity, Scale: scale}, nil
}

// StaticSignature loads a template's static signature path with default settings.
func (p *ImageProcessor) StaticSignature(path string) (*SignatureImage, error) {
	return p.Signature(domain.SignatureAsset{Path: path, Opacity: 1, Thickness: 1, IsTransparent: true, Scale: 1})
}

// Background loads a template background image unchanged.
func (p *ImageProcessor) Background(path string) (*ImageData, error) {
	return p.cached("bg|"+path, func() (*image.NRGBA, error) {
		src, err := p.source.Open(path)
		if err != nil {
			return nil, err
		}
		return imaging.Clone(src), nil
	})
}

func (p *ImageProcessor) cached(key string, load func() (*image.NRGBA, error)) (*ImageData, error) {
	if v, ok := p.cache.Load(key); ok {
		return v.(*ImageData), nil
	}
	img, err := load()
	if err != nil {
		return nil, err
	}
	data, err := encodePNG(fmt.Sprintf("img-%016x", xxhash.Sum64String(key)), img)
	if err != nil {
		return nil, err
	}
	actual, _ := p.cache.LoadOrStore(key, data)
	return actual.(*ImageData), nil
}

// ProcessSignature darkens strokes for thickness > 1 and optionally keys the
// white paper background out to transparency.
func ProcessSignature(src image.Image, thickness float64, transparent bool) *image.NRGBA {
	img := imaging.Clone(src)
	if thickness > 1 {
		img = imaging.AdjustGamma(img, 1/thickness)
	}
	if transparent {
		keyWhite(img)
	}
	return img
}

func keyWhite(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.R >= whiteKeyThreshold && c.G >= whiteKeyThreshold && c.B >= whiteKeyThreshold {
				img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0})
			}
		}
	}
}

func encodePNG(name string, img image.Image) (*ImageData, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	b := img.Bounds()
	return &ImageData{Name: name, PNG: buf.Bytes(), WidthPx: b.Dx(), HeightPx: b.Dy()}, nil
}

// ImageSize reads the pixel dimensions of an image file.
func ImageSize(path string) (int, int, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open image %s: %w", path, err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
