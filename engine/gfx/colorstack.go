package gfx

import "github.com/hubastard/grove/engine/colors"

// ColorStack saves and restores a canvas draw color around nested drawing.
type ColorStack struct {
	c     Canvas
	saved []colors.Color
}

func NewColorStack(c Canvas) *ColorStack { return &ColorStack{c: c} }

// Push stores the current draw color and switches to col.
func (s *ColorStack) Push(col colors.Color) {
	s.saved = append(s.saved, s.c.DrawColor())
	s.c.SetDrawColor(col)
}

// Pop restores the most recently pushed color. It reports false when empty.
func (s *ColorStack) Pop() bool {
	if len(s.saved) == 0 {
		return false
	}
	i := len(s.saved) - 1
	s.c.SetDrawColor(s.saved[i])
	s.saved = s.saved[:i]
	return true
}

func (s *ColorStack) Depth() int { return len(s.saved) }
