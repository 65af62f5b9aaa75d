package capture

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func TestFilename(t *testing.T) {
	s := NewScreenshots("shots", "sofa")
	s.now = fixedClock
	assert.Equal(t, filepath.Join("shots", "sofa_2024-03-09_14-05-07.png"), s.Filename())

	s.Dir = ""
	assert.Equal(t, "sofa_2024-03-09_14-05-07.png", s.Filename())
}

func TestFlipRGBA(t *testing.T) {
	// 1x2: bottom row red, top row blue, as glReadPixels returns them.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FlipRGBA(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 1))

	_, err = FlipRGBA(pixels, 2, 2)
	assert.ErrorContains(t, err, "size mismatch")
	_, err = FlipRGBA(nil, 0, 0)
	assert.Error(t, err)
}

func TestSaveFramebuffer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewScreenshots(dir, "sofa")
	s.now = fixedClock

	pixels := []byte{
		10, 20, 30, 255, 40, 50, 60, 255,
		70, 80, 90, 255, 100, 110, 120, 255,
	}
	path, err := s.SaveFramebuffer(pixels, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, s.Filename(), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 2, img.Bounds().Dx())
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{70, 80, 90}, []uint32{r >> 8, g >> 8, b >> 8})
}
