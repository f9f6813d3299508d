package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySource struct {
	images map[string]image.Image
	opens  int
}

func (m *memorySource) Open(path string) (image.Image, error) {
	m.opens++
	img, ok := m.images[path]
	if !ok {
		return nil, errors.New("missing " + path)
	}
	return img, nil
}

// inkOnPaper is a white image with a dark grey stroke across the middle row.
func inkOnPaper() *image.NRGBA {
	img := imaging.New(20, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	for x := 0; x < 20; x++ {
		img.SetNRGBA(x, 5, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	}
	return img
}

func TestProcessSignature_KeysWhiteToTransparent(t *testing.T) {
	out := ProcessSignature(inkOnPaper(), 1, true)

	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).A, "paper becomes transparent")
	assert.Equal(t, uint8(255), out.NRGBAAt(3, 5).A, "ink stays opaque")

	opaque := ProcessSignature(inkOnPaper(), 1, false)
	assert.Equal(t, uint8(255), opaque.NRGBAAt(0, 0).A)
}

func TestProcessSignature_ThicknessDarkensInk(t *testing.T) {
	plain := ProcessSignature(inkOnPaper(), 1, false)
	thick := ProcessSignature(inkOnPaper(), 2, false)
	assert.Less(t, thick.NRGBAAt(3, 5).R, plain.NRGBAAt(3, 5).R)
}

func TestImageProcessor_SignatureCachesAndDefaults(t *testing.T) {
	src := &memorySource{images: map[string]image.Image{"sig.png": inkOnPaper()}}
	p := NewImageProcessor(src)
	asset := domain.SignatureAsset{SignatureID: "s1", Path: "sig.png", Opacity: 0, Thickness: 1, IsTransparent: true}

	first, err := p.Signature(asset)
	require.NoError(t, err)
	second, err := p.Signature(asset)
	require.NoError(t, err)

	assert.Equal(t, 1, src.opens)
	assert.Same(t, first.Image, second.Image)
	assert.InDelta(t, 1.0, first.Opacity, 1e-9)
	assert.InDelta(t, 1.0, first.Scale, 1e-9)
	assert.Equal(t, 20, first.Image.WidthPx)
	assert.Equal(t, 10, first.Image.HeightPx)

	decoded, err := imaging.Decode(bytes.NewReader(first.Image.PNG))
	require.NoError(t, err)
	assert.Equal(t, 20, decoded.Bounds().Dx())
}

func TestImageProcessor_MissingImage(t *testing.T) {
	p := NewImageProcessor(&memorySource{images: map[string]image.Image{}})
	_, err := p.Signature(domain.SignatureAsset{Path: "nope.png"})
	assert.Error(t, err)
	_, err = p.Background("nope.png")
	assert.Error(t, err)
}
