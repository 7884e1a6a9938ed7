// Package renderer2d batches pixel-space quads into vertex and index buffers.
// It holds no GPU state: a backend supplies a FlushFunc that uploads and
// draws each finished batch.
//
// Vertex colors are written premultiplied by alpha, matching the
// premultiplied *image.RGBA pixels textures are uploaded from. Backends
// blend with (ONE, ONE_MINUS_SRC_ALPHA).
package renderer2d

import (
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
)

// MaxTexSlots is the number of textures one batch can reference (common GL limit is 16).
const MaxTexSlots = 16

// Vertex: pos2 + color4 + uv2 + texIndex1 => 9 floats
const (
	VertexStride = 9
	vertsPerQuad = 4
	indsPerQuad  = 6
)

// FlushFunc receives a finished batch. textures[i] is bound to sampler slot i.
// The slices are reused after the call returns.
type FlushFunc func(verts []float32, inds []uint32, textures []gfx.Handle)

// Statistics captures the counts generated during a renderer frame.
type Statistics struct {
	DrawCalls    int
	QuadCount    int
	TextureCount int
}

// TotalVertexCount reports vertices submitted this frame.
func (s Statistics) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }

// TotalIndexCount reports indices submitted this frame.
func (s Statistics) TotalIndexCount() int { return s.QuadCount * indsPerQuad }

// Batch collects quads until a texture slot or quad budget runs out.
// Slot 0 always holds the white texture used for solid fills.
type Batch struct {
	white  gfx.Handle
	flushF FlushFunc

	texArr [MaxTexSlots]gfx.Handle
	texCnt int

	verts     []float32
	inds      []uint32
	quadCount int
	maxQuads  int

	stats Statistics
}

// New creates a batch. maxQuads <= 0 selects 10000.
func New(white gfx.Handle, maxQuads int, flush FlushFunc) *Batch {
	if maxQuads <= 0 {
		maxQuads = 10000
	}
	b := &Batch{
		white:    white,
		flushF:   flush,
		maxQuads: maxQuads,
		verts:    make([]float32, 0, maxQuads*vertsPerQuad*VertexStride),
		inds:     make([]uint32, 0, maxQuads*indsPerQuad),
	}
	b.resetBatch()
	return b
}

// MaxQuads reports the quad budget of a single flush.
func (b *Batch) MaxQuads() int { return b.maxQuads }

// Begin starts a new frame and resets statistics.
func (b *Batch) Begin() {
	b.stats = Statistics{}
	b.resetBatch()
}

// Flush submits whatever is pending.
func (b *Batch) Flush() { b.flush() }

// Stats returns the current frame statistics snapshot.
func (b *Batch) Stats() Statistics { return b.stats }

// Pending reports the number of quads waiting for the next flush.
func (b *Batch) Pending() int { return b.quadCount }

// DrawQuad queues a solid color quad.
func (b *Batch) DrawQuad(dst geom.Rect, color colors.Color) {
	b.ensureQuadCapacity()
	b.drawQuadInternal(dst, color, 0, FullUV)
}

// DrawTexturedQuad queues a quad sampling uv of tex, tinted by tint.
func (b *Batch) DrawTexturedQuad(dst geom.Rect, tex gfx.Handle, uv UV, tint colors.Color) {
	b.ensureQuadCapacity()
	slot := b.texSlot(tex)
	b.drawQuadInternal(dst, tint, slot, uv)
}

// Forget drops tex from the pending batch after flushing anything that
// references it. Call before releasing a texture mid-frame.
func (b *Batch) Forget(tex gfx.Handle) {
	for i := 1; i < b.texCnt; i++ {
		if b.texArr[i] == tex {
			b.flush()
			return
		}
	}
}

// --- internals ---

func (b *Batch) texSlot(t gfx.Handle) float32 {
	for i := 0; i < b.texCnt; i++ {
		if b.texArr[i] == t {
			return float32(i)
		}
	}
	if b.texCnt >= MaxTexSlots {
		// flush and reset texture bindings
		b.flush()
	}
	b.texArr[b.texCnt] = t
	b.texCnt++
	if b.texCnt > b.stats.TextureCount {
		b.stats.TextureCount = b.texCnt
	}
	return float32(b.texCnt - 1)
}

func (b *Batch) drawQuadInternal(dst geom.Rect, color colors.Color, texIndex float32, uv UV) {
	x0, y0 := float32(dst.X), float32(dst.Y)
	x1, y1 := float32(dst.X+dst.W), float32(dst.Y+dst.H)

	// corners (TL, TR, BL, BR) with UVs. Positive Y goes down.
	corners := [4][4]float32{
		{x0, y0, uv.U0, uv.V0},
		{x1, y0, uv.U1, uv.V0},
		{x0, y1, uv.U0, uv.V1},
		{x1, y1, uv.U1, uv.V1},
	}

	a := color[3]
	startVertex := uint32(len(b.verts) / VertexStride)
	for _, p := range corners {
		b.verts = append(b.verts,
			p[0], p[1],
			color[0]*a, color[1]*a, color[2]*a, a,
			p[2], p[3],
			texIndex,
		)
	}
	b.inds = append(b.inds,
		startVertex+0, startVertex+2, startVertex+1,
		startVertex+1, startVertex+2, startVertex+3,
	)
	b.quadCount++
	b.stats.QuadCount++
}

func (b *Batch) flush() {
	if b.quadCount == 0 {
		return
	}
	if b.flushF != nil {
		b.flushF(b.verts, b.inds, b.texArr[:b.texCnt])
	}
	b.stats.DrawCalls++
	b.resetBatch()
}

func (b *Batch) resetBatch() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
	b.quadCount = 0
	clear(b.texArr[:])
	b.texArr[0] = b.white
	b.texCnt = 1
}

func (b *Batch) ensureQuadCapacity() {
	if b.quadCount >= b.maxQuads {
		b.flush()
	}
}
