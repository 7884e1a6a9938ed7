package colors

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNRGBA(t *testing.T) {
	assert.Equal(t, color.NRGBA{255, 0, 255, 255}, Magenta.NRGBA())
	assert.Equal(t, color.NRGBA{0, 0, 0, 128}, Black.WithAlpha(0.5).NRGBA())
	assert.Equal(t, color.NRGBA{255, 0, 0, 0}, Color{2, -1, 0, 0}.NRGBA())
}

func TestRGB8RoundTrip(t *testing.T) {
	c := RGB8(12, 200, 77, 255)
	assert.Equal(t, color.NRGBA{12, 200, 77, 255}, c.NRGBA())
}
