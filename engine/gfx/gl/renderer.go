// Package glbackend implements core.Renderer on OpenGL 3.3 core.
package glbackend

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/grove/engine/assets"
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
	"github.com/hubastard/grove/engine/gfx/renderer2d"
	"github.com/hubastard/grove/engine/logx"
)

type texInfo struct{ w, h int }

type RendererGL struct {
	win    core.Window
	loader *assets.Loader

	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32
	uVP     int32
	uTex    int32

	white    uint32
	textures map[gfx.Handle]texInfo
	maxTex   int

	batch     *renderer2d.Batch
	proj      [16]float32
	drawColor colors.Color
}

var _ core.Renderer = (*RendererGL)(nil)

// NewRendererGL must run on the thread that owns win's GL context.
func NewRendererGL(win core.Window, cfg core.Config) (*RendererGL, error) {
	r := &RendererGL{
		win:       win,
		loader:    assets.NewDiskLoader(cfg.AssetDir),
		textures:  make(map[gfx.Handle]texInfo),
		drawColor: colors.Black,
	}
	if err := r.Init(); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) Init() error {
	vs, fs := r.shaderSources()
	var err error
	r.program, err = makeProgram(vs, fs)
	if err != nil {
		return err
	}
	r.uVP = gl.GetUniformLocation(r.program, gl.Str("uVP\x00"))
	r.uTex = gl.GetUniformLocation(r.program, gl.Str("uTex\x00"))

	var maxTex int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTex)
	r.maxTex = int(maxTex)

	// 1x1 white for solid fills
	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(white.Pix, []byte{255, 255, 255, 255})
	r.white, err = createTexture(white)
	if err != nil {
		return err
	}

	r.batch = renderer2d.New(gfx.Handle(r.white), 0, r.flush)

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, r.batch.MaxQuads()*4*renderer2d.VertexStride*4, nil, gl.DYNAMIC_DRAW)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, r.batch.MaxQuads()*6*4, nil, gl.DYNAMIC_DRAW)

	// layout: pos2, color4, uv2, texIndex1
	const stride = renderer2d.VertexStride * 4 // bytes
	attribs := []struct{ loc, size, off uint32 }{{0, 2, 0}, {1, 4, 2}, {2, 2, 6}, {3, 1, 8}}
	for _, a := range attribs {
		gl.EnableVertexAttribArray(a.loc)
		gl.VertexAttribPointerWithOffset(a.loc, int32(a.size), gl.FLOAT, false, stride, uintptr(a.off*4))
	}
	gl.BindVertexArray(0)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	// textures and vertex colors are both premultiplied
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	w, h := r.win.FramebufferSize()
	r.Resize(w, h)
	r.batch.Begin()
	return nil
}

// shaderSources prefers quad.vert / quad.frag from the asset loader and
// falls back to the built-in program.
func (r *RendererGL) shaderSources() (string, string) {
	vs, err := r.loader.LoadShader("quad.vert")
	if err != nil {
		return vertexSource, fragmentSource()
	}
	fs, err := r.loader.LoadShader("quad.frag")
	if err != nil {
		return vertexSource, fragmentSource()
	}
	logx.Logger().Debug("gl: using shaders from assets")
	return vs, fs
}

func (r *RendererGL) Shutdown() {
	for h := range r.textures {
		r.ReleaseHandle(h)
	}
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

func (r *RendererGL) Resize(w, h int) {
	r.batch.Flush()
	gl.Viewport(0, 0, int32(w), int32(h))
	r.proj = renderer2d.Ortho(w, h)
}

// Stats reports the batch counters of the frame in progress.
func (r *RendererGL) Stats() renderer2d.Statistics { return r.batch.Stats() }

// LoseContext deletes every texture handed out so far, as a GL context loss
// would. The renderer itself stays usable.
func (r *RendererGL) LoseContext() {
	r.batch.Flush()
	n := len(r.textures)
	for h := range r.textures {
		id := uint32(h)
		gl.DeleteTextures(1, &id)
	}
	clear(r.textures)
	logx.Logger().Warn("gl: textures dropped", "textures", n)
}

// --- gfx.Context ---

func (r *RendererGL) DrawTexture(h gfx.Handle, src *geom.Rect, dst geom.Rect) error {
	info, ok := r.textures[h]
	if !ok || !gl.IsTexture(uint32(h)) {
		return fmt.Errorf("draw handle %d: %w", h, gfx.ErrInvalidHandle)
	}
	sr := geom.R(0, 0, info.w, info.h)
	if src != nil {
		if !sr.Contains(*src) || src.Empty() {
			return fmt.Errorf("draw handle %d src %v in %v: %w", h, *src, sr, gfx.ErrSourceOutOfBounds)
		}
		sr = *src
	}
	if dst.Empty() {
		return nil
	}
	r.batch.DrawTexturedQuad(dst, h, renderer2d.UVFromPixels(sr, info.w, info.h), colors.White)
	return nil
}

func (r *RendererGL) UploadPixels(px *image.RGBA) (gfx.Handle, error) {
	if px == nil {
		return 0, fmt.Errorf("upload nil image: %w", gfx.ErrUploadRejected)
	}
	b := px.Bounds()
	if b.Empty() || b.Dx() > r.maxTex || b.Dy() > r.maxTex {
		return 0, fmt.Errorf("upload %dx%d (max %d): %w", b.Dx(), b.Dy(), r.maxTex, gfx.ErrUploadRejected)
	}
	id, err := createTexture(assets.ToRGBA(px))
	if err != nil {
		return 0, err
	}
	h := gfx.Handle(id)
	r.textures[h] = texInfo{w: b.Dx(), h: b.Dy()}
	return h, nil
}

func (r *RendererGL) ReleaseHandle(h gfx.Handle) {
	if _, ok := r.textures[h]; !ok {
		return
	}
	r.batch.Forget(h)
	delete(r.textures, h)
	id := uint32(h)
	gl.DeleteTextures(1, &id)
}

func (r *RendererGL) DecodeImage(path string) (*image.RGBA, error) {
	return r.loader.LoadImage(path)
}

// --- gfx.Canvas ---

func (r *RendererGL) Clear() {
	r.batch.Flush()
	c := r.drawColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *RendererGL) Present() {
	r.batch.Flush()
	r.win.SwapBuffers()
	r.batch.Begin()
}

func (r *RendererGL) SetDrawColor(c colors.Color) { r.drawColor = c }
func (r *RendererGL) DrawColor() colors.Color     { return r.drawColor }

func (r *RendererGL) DrawPoints(pts []image.Point) {
	for _, p := range pts {
		r.batch.DrawQuad(geom.R(p.X, p.Y, 1, 1), r.drawColor)
	}
}

func (r *RendererGL) DrawRect(rc geom.Rect) {
	if rc.Empty() {
		return
	}
	r.batch.DrawQuad(geom.R(rc.X, rc.Y, rc.W, 1), r.drawColor)
	r.batch.DrawQuad(geom.R(rc.X, rc.Y+rc.H-1, rc.W, 1), r.drawColor)
	if rc.H > 2 {
		r.batch.DrawQuad(geom.R(rc.X, rc.Y+1, 1, rc.H-2), r.drawColor)
		r.batch.DrawQuad(geom.R(rc.X+rc.W-1, rc.Y+1, 1, rc.H-2), r.drawColor)
	}
}

func (r *RendererGL) FillRect(rc geom.Rect) {
	if rc.Empty() {
		return
	}
	r.batch.DrawQuad(rc, r.drawColor)
}

func (r *RendererGL) DrawCircle(cx, cy, rad int) { r.DrawPoints(geom.CirclePoints(cx, cy, rad)) }

// --- batch submission ---

var samplerUnits = func() [renderer2d.MaxTexSlots]int32 {
	var u [renderer2d.MaxTexSlots]int32
	for i := range u {
		u[i] = int32(i)
	}
	return u
}()

func (r *RendererGL) flush(verts []float32, inds []uint32, textures []gfx.Handle) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uVP, 1, false, &r.proj[0])
	gl.Uniform1iv(r.uTex, int32(len(samplerUnits)), &samplerUnits[0])
	for i, h := range textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, uint32(h))
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(inds)*4, gl.Ptr(inds))
	gl.DrawElements(gl.TRIANGLES, int32(len(inds)), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func createTexture(px *image.RGBA) (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	w, h := int32(px.Rect.Dx()), int32(px.Rect.Dy())
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, fmt.Errorf("upload %dx%d: gl error 0x%x: %w", w, h, code, gfx.ErrUploadRejected)
	}
	return id, nil
}

// --- Shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec4 aColor;
layout(location=2) in vec2 aUV;
layout(location=3) in float aTex;
uniform mat4 uVP;
out vec4 vColor;
out vec2 vUV;
out float vTex;
void main() {
    vColor = aColor;
    vUV = aUV;
    vTex = aTex;
    gl_Position = uVP * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

// fragmentSource indexes the sampler array with constants only, which GLSL
// 3.30 requires.
func fragmentSource() string {
	var b strings.Builder
	fmt.Fprintf(&b, `
#version 330 core
in vec4 vColor;
in vec2 vUV;
in float vTex;
uniform sampler2D uTex[%d];
out vec4 FragColor;
void main() {
    vec4 c = vec4(1.0);
    switch (int(vTex + 0.5)) {
`, renderer2d.MaxTexSlots)
	for i := 0; i < renderer2d.MaxTexSlots; i++ {
		fmt.Fprintf(&b, "    case %d: c = texture(uTex[%d], vUV); break;\n", i, i)
	}
	b.WriteString("    }\n    FragColor = c * vColor;\n}\n\x00")
	return b.String()
}

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
