package renderer2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
)

type flushRecord struct {
	quads    int
	textures []gfx.Handle
	verts    []float32
}

func recorder(out *[]flushRecord) FlushFunc {
	return func(verts []float32, inds []uint32, textures []gfx.Handle) {
		*out = append(*out, flushRecord{
			quads:    len(inds) / indsPerQuad,
			textures: append([]gfx.Handle(nil), textures...),
			verts:    append([]float32(nil), verts...),
		})
	}
}

func TestBatchSolidQuad(t *testing.T) {
	var got []flushRecord
	b := New(1, 0, recorder(&got))
	assert.Equal(t, 10000, b.MaxQuads())

	b.Begin()
	b.DrawQuad(geom.R(10, 20, 30, 40), colors.Red)
	assert.Equal(t, 1, b.Pending())
	b.Flush()

	require.Len(t, got, 1)
	assert.Equal(t, []gfx.Handle{1}, got[0].textures)
	v := got[0].verts
	require.Len(t, v, 4*VertexStride)
	// TL then BR corner positions
	assert.Equal(t, []float32{10, 20}, v[0:2])
	assert.Equal(t, []float32{40, 60}, v[3*VertexStride:3*VertexStride+2])
	assert.Equal(t, []float32{1, 0, 0, 1}, v[2:6])
	assert.Equal(t, float32(0), v[8], "solid quads sample the white slot")

	s := b.Stats()
	assert.Equal(t, 1, s.DrawCalls)
	assert.Equal(t, 1, s.QuadCount)
	assert.Equal(t, 4, s.TotalVertexCount())
	assert.Equal(t, 6, s.TotalIndexCount())
}

func TestBatchPremultipliesColor(t *testing.T) {
	var got []flushRecord
	b := New(1, 0, recorder(&got))
	b.DrawQuad(geom.R(0, 0, 2, 2), colors.Color{1, 0.5, 0, 0.5})
	b.DrawTexturedQuad(geom.R(0, 0, 2, 2), 5, FullUV, colors.White.WithAlpha(0.25))
	b.Flush()

	require.Len(t, got, 1)
	v := got[0].verts
	assert.Equal(t, []float32{0.5, 0.25, 0, 0.5}, v[2:6])
	tinted := v[4*VertexStride:]
	assert.Equal(t, []float32{0.25, 0.25, 0.25, 0.25}, tinted[2:6])
}

func TestBatchTextureSlots(t *testing.T) {
	var got []flushRecord
	b := New(1, 0, recorder(&got))
	b.Begin()
	for i := 0; i < MaxTexSlots+2; i++ {
		b.DrawTexturedQuad(geom.R(0, 0, 1, 1), gfx.Handle(100+i), FullUV, colors.White)
	}
	b.Flush()

	require.Len(t, got, 2, "running out of slots forces a flush")
	assert.Len(t, got[0].textures, MaxTexSlots)
	assert.Equal(t, gfx.Handle(1), got[1].textures[0])
	assert.Equal(t, []gfx.Handle{1, 115, 116, 117}, got[1].textures)
	assert.Equal(t, MaxTexSlots, b.Stats().TextureCount)
}

func TestBatchReusesSlot(t *testing.T) {
	var got []flushRecord
	b := New(1, 0, recorder(&got))
	b.DrawTexturedQuad(geom.R(0, 0, 1, 1), 7, FullUV, colors.White)
	b.DrawTexturedQuad(geom.R(1, 0, 1, 1), 7, FullUV, colors.White)
	b.Flush()

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].quads)
	assert.Equal(t, []gfx.Handle{1, 7}, got[0].textures)
}

func TestBatchQuadBudget(t *testing.T) {
	var got []flushRecord
	b := New(1, 2, recorder(&got))
	for i := 0; i < 5; i++ {
		b.DrawQuad(geom.R(i, 0, 1, 1), colors.White)
	}
	b.Flush()
	require.Len(t, got, 3)
	assert.Equal(t, []int{2, 2, 1}, []int{got[0].quads, got[1].quads, got[2].quads})
}

func TestBatchForget(t *testing.T) {
	var got []flushRecord
	b := New(1, 0, recorder(&got))
	b.DrawTexturedQuad(geom.R(0, 0, 1, 1), 9, FullUV, colors.White)

	b.Forget(3)
	assert.Empty(t, got, "unreferenced texture does not flush")
	b.Forget(9)
	require.Len(t, got, 1)
	assert.Zero(t, b.Pending())

	b.Flush()
	assert.Len(t, got, 1, "empty flush is a no-op")
}

func TestUVFromPixels(t *testing.T) {
	uv := UVFromPixels(geom.R(16, 0, 16, 16), 64, 32)
	assert.Equal(t, UV{U0: 0.25, V0: 0, U1: 0.5, V1: 0.5}, uv)
	assert.Equal(t, FullUV, UVFromPixels(geom.R(0, 0, 8, 8), 8, 8))
}

func TestOrtho(t *testing.T) {
	m := Ortho(800, 600)

	x, y := Apply(m, 0, 0)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)

	x, y = Apply(m, 800, 600)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)

	x, y = Apply(m, 400, 300)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}
