package texture

import (
	"fmt"

	"github.com/hubastard/grove/engine/geom"
	"github.com/hubastard/grove/engine/gfx"
	"github.com/hubastard/grove/engine/logx"
)

// State is where a drawable stands after its most recent Render call.
type State uint8

const (
	// StateReady: the last draw succeeded on the first attempt.
	StateReady State = iota
	// StateDegraded: the last draw failed and recovery did not help.
	StateDegraded
	// StateRecovered: the resource was rebuilt and the retry succeeded.
	StateRecovered
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	case StateRecovered:
		return "recovered"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Renderable is implemented by every drawable variant.
type Renderable interface {
	// Render draws into ctx, recovering once from a stale GPU handle.
	// Errors wrap ErrRenderFailure.
	Render(ctx gfx.Context) error
	State() State
	Dest() geom.Rect
	SetDest(r geom.Rect)
}

// Tiled is implemented by the sheet variants.
type Tiled interface {
	Renderable
	// SetTile selects the tile at column col, row row as the source region.
	SetTile(col, row int) error
	// Tiles reports the grid size.
	Tiles() (cols, rows int)
}

var (
	_ Tiled      = (*SpriteSheet)(nil)
	_ Tiled      = (*SurfaceSpriteSheet)(nil)
	_ Renderable = (*Sprite)(nil)
	_ Renderable = (*SurfaceTexture)(nil)
)

// recovery describes one drawable to renderWithRecovery.
type recovery struct {
	name string
	// draw issues the draw with whatever handle is current.
	draw func() error
	// regenerate rebuilds the handle from a CPU copy. It reports false when
	// no CPU copy exists.
	regenerate func() (bool, error)
	// reload rebuilds the resource from its source path; nil if there is none.
	reload func() error
}

func renderWithRecovery(st *State, r recovery) error {
	err := r.draw()
	if err == nil {
		*st = StateReady
		return nil
	}
	*st = StateDegraded
	log := logx.Logger()
	log.Warn("texture: draw failed, recovering", "renderable", r.name, "err", err)

	// cause is what the failure reports if nothing else goes wrong later.
	cause := err
	if r.regenerate != nil {
		ok, rerr := r.regenerate()
		switch {
		case rerr != nil:
			cause = rerr
			log.Warn("texture: surface regeneration failed", "renderable", r.name, "err", rerr)
		case ok:
			if err = r.draw(); err == nil {
				*st = StateRecovered
				return nil
			}
			cause = err
		}
	}

	if r.reload == nil {
		return fmt.Errorf("%w: %s: %w", ErrRenderFailure, r.name, cause)
	}
	if rerr := r.reload(); rerr != nil {
		return fmt.Errorf("%w: %s: %w", ErrRenderFailure, r.name, rerr)
	}
	if err = r.draw(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRenderFailure, r.name, err)
	}
	*st = StateRecovered
	log.Info("texture: recovered from source", "renderable", r.name)
	return nil
}

// tileRect returns the source rect of tile (col, row), checked against bounds.
func tileRect(bounds geom.Rect, tw, th, col, row int) (geom.Rect, error) {
	r := geom.R(col*tw, row*th, tw, th)
	if col < 0 || row < 0 || !bounds.Contains(r) {
		return geom.Rect{}, fmt.Errorf("%w: tile (%d,%d) %v in %v", ErrInvalidRegion, col, row, r, bounds)
	}
	return r, nil
}
