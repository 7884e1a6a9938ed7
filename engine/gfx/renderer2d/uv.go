package renderer2d

import (
	"github.com/hubastard/grove/engine/geom"
)

// UV is a normalized sub-rect of a texture, (U0,V0) top-left.
type UV struct {
	U0, V0 float32
	U1, V1 float32
}

// FullUV covers the whole texture.
var FullUV = UV{0, 0, 1, 1}

// UVFromPixels converts src, in pixels of a texW x texH texture, into UVs.
// The vertex shader is expected to keep V pointing down.
func UVFromPixels(src geom.Rect, texW, texH int) UV {
	return UV{
		U0: float32(src.X) / float32(texW),
		V0: float32(src.Y) / float32(texH),
		U1: float32(src.X+src.W) / float32(texW),
		V1: float32(src.Y+src.H) / float32(texH),
	}
}

// Ortho returns a column-major projection mapping pixel space of a w x h
// viewport, origin top-left, onto clip space.
func Ortho(w, h int) [16]float32 {
	return ortho(0, float32(w), float32(h), 0, -1, 1)
}

func ortho(l, r, b, t, n, f float32) [16]float32 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return [16]float32{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}

// Apply transforms (x, y, 0, 1) by the column-major matrix m.
func Apply(m [16]float32, x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}
