package main

import (
	"math"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
	"github.com/hubastard/grove/engine/logx"
	"github.com/hubastard/grove/engine/texture"
)

// Logical board size; everything below is laid out in these units and
// mapped onto the largest 16:9 rect that fits the window.
const (
	simW, simH = 320, 180
	aspect     = float32(simW) / float32(simH)
)

// contextLoser is implemented by renderers that can simulate a lost context.
type contextLoser interface{ LoseContext() }

// ------- A simple 2D Layer demo -------
type Layer2D struct {
	player  *texture.Sprite
	tiles   *texture.SpriteSheet
	painted *texture.SurfaceTexture
	dyed    *texture.SurfaceSpriteSheet

	tile  int
	t     float32
	pulse int
}

func (l *Layer2D) OnAttach(e *core.Engine) {
	var err error
	log := logx.Logger()

	if l.player, err = e.Textures.Sprite(e.Renderer, "player.png"); err != nil {
		log.Error("load player", "err", err)
	}
	if l.tiles, err = e.Textures.SpriteSheet(e.Renderer, "tiles.png", 16, 16); err != nil {
		log.Error("load tiles", "err", err)
	}
	if l.dyed, err = texture.LoadSurfaceSpriteSheet(e.Renderer, "tiles.png", 16, 16); err != nil {
		log.Error("load surface tiles", "err", err)
	}

	l.painted = texture.NewSurfaceTexture(32, 32)
	l.painted.FillRect(geom.R(4, 4, 24, 24), colors.RGB8(40, 160, 160, 255))
	if l.player != nil {
		if tex, ok := l.player.Ref().Texture(); ok {
			log.Debug("player ready", "w", tex.Width, "h", tex.Height)
		}
	}
}

func (l *Layer2D) OnDetach(e *core.Engine) {
	if l.painted != nil {
		l.painted.Close(e.Renderer)
	}
	if l.dyed != nil {
		l.dyed.Close(e.Renderer)
	}
}

func (l *Layer2D) OnUpdate(e *core.Engine, dt float64) {
	l.t += float32(dt)

	if e.Input.IsKeyDown(core.KeyEscape) {
		e.Window.RequestClose()
	}
	if e.Input.WasPressed(core.KeyLeft) {
		l.tile--
		if l.tile < 0 {
			l.tile += 4
		}
	}
	if e.Input.WasPressed(core.KeyRight) {
		l.tile++
	}

	// Repaint once a second so the surface texture is re-uploaded.
	if p := int(l.t); p != l.pulse && l.painted != nil {
		l.pulse = p
		g := uint8(128 + 127*math.Sin(float64(l.t)))
		l.painted.SetColorMod(255, g, 255)
		if l.dyed != nil {
			l.dyed.SetAlphaMod(g)
		}
	}
}

func (l *Layer2D) OnRender(e *core.Engine, alpha float64) {
	w, h := e.Window.FramebufferSize()
	board := geom.InnerFit(geom.R(0, 0, w, h), aspect)
	place := func(x, y, w, h int) geom.Rect {
		return geom.MapLogicalToPhysical(board, geom.R(x, y, w, h), simW, simH)
	}

	colorsStack := gfx.NewColorStack(e.Renderer)
	colorsStack.Push(colors.DarkGray)
	e.Renderer.FillRect(board)
	colorsStack.Push(colors.White)
	e.Renderer.DrawRect(board)
	colorsStack.Pop()
	colorsStack.Pop()

	var items []texture.Renderable
	if l.tiles != nil {
		cols, _ := l.tiles.Tiles()
		for i := 0; i < 8 && cols > 0; i++ {
			if err := l.tiles.SetTile((l.tile+i)%cols, 0); err != nil {
				logx.Logger().Warn("tile", "err", err)
				break
			}
			l.tiles.SetDest(place(16+i*16, 140, 16, 16))
			l.render(e, l.tiles)
		}
	}
	if l.player != nil {
		bob := int(4 * math.Sin(float64(l.t)*3))
		l.player.SetDest(place(144, 60+bob, 32, 32))
		items = append(items, l.player)
	}
	if l.painted != nil {
		l.painted.SetDest(place(32, 32, 32, 32))
		items = append(items, l.painted)
	}
	if l.dyed != nil {
		l.dyed.SetDest(place(256, 32, 32, 32))
		items = append(items, l.dyed)
	}
	for _, r := range items {
		l.render(e, r)
	}

	colorsStack.Push(colors.Yellow)
	c := place(simW/2, simH/2, 1, 1)
	e.Renderer.DrawCircle(c.X, c.Y, board.H/3)
	colorsStack.Pop()
}

func (l *Layer2D) render(e *core.Engine, r texture.Renderable) {
	before := r.State()
	if err := r.Render(e.Renderer); err != nil {
		logx.Logger().Error("render", "state", r.State(), "err", err)
		return
	}
	if before != r.State() {
		logx.Logger().Info("renderable state", "from", before, "to", r.State())
	}
}

func (l *Layer2D) OnEvent(e *core.Engine, ev core.Event) bool {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down {
		return false
	}
	switch k.Key {
	case core.KeyL:
		if cl, ok := e.Renderer.(contextLoser); ok {
			cl.LoseContext()
		}
	case core.KeyR:
		if _, err := e.Textures.Reload(e.Renderer, "player.png"); err != nil {
			logx.Logger().Error("reload player", "err", err)
		}
	default:
		return false
	}
	return true
}
