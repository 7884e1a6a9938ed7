package geom

import "image"

// CirclePoints rasterizes a circle of radius r centered at (cx, cy) with the
// midpoint algorithm. Each step emits one point per octant, so points on the
// axes and on the diagonals may appear more than once.
func CirclePoints(cx, cy, r int) []image.Point {
	if r <= 0 {
		return nil
	}
	diameter := r * 2

	x := r - 1
	y := 0
	tx, ty := 1, 1
	errAcc := tx - diameter

	pts := make([]image.Point, 0, 8*r)
	for x >= y {
		pts = append(pts,
			image.Pt(cx+x, cy-y),
			image.Pt(cx+x, cy+y),
			image.Pt(cx-x, cy-y),
			image.Pt(cx-x, cy+y),
			image.Pt(cx+y, cy-x),
			image.Pt(cx+y, cy+x),
			image.Pt(cx-y, cy-x),
			image.Pt(cx-y, cy+x),
		)

		if errAcc <= 0 {
			y++
			errAcc += ty
			ty += 2
		}
		if errAcc > 0 {
			x--
			tx += 2
			errAcc += tx - diameter
		}
	}
	return pts
}
