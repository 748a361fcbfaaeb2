package game

// LineOfSight answers visibility queries between two grid coordinates.
// A conceptual ray is cast between tile centers; a tile obstructs the ray
// iff its traversability flag is unset (walls and solid terrain). Cover and
// occupants never block sight — cover is a hit-chance modifier, not a wall.
type LineOfSight struct {
	grid *Grid
}

// NewLineOfSight creates an oracle over g.
func NewLineOfSight(g *Grid) *LineOfSight {
	return &LineOfSight{grid: g}
}

// HasLineOfSight returns true iff no tile other than the destination
// obstructs the ray from a to b. The degenerate a == b case is visible.
func (l *LineOfSight) HasLineOfSight(a, b Coord) bool {
	if a == b {
		return true
	}
	for _, c := range lineBetween(a, b) {
		if c == a || c == b {
			continue
		}
		t := l.grid.TileAt(c)
		if t == nil || !t.Traversable {
			return false
		}
	}
	return true
}

// lineBetween returns the grid cells crossed by a straight segment from a to
// b, endpoints included, using integer Bresenham traversal. Sight is always
// evaluated for one ordered pair at a time, and the same pair always yields
// the same cells.
func lineBetween(a, b Coord) []Coord {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}

	cells := make([]Coord, 0, dx+dy+1)
	x, y := a.X, a.Y
	errAcc := dx - dy
	for {
		cells = append(cells, Coord{X: x, Y: y})
		if x == b.X && y == b.Y {
			return cells
		}
		e2 := 2 * errAcc
		if e2 > -dy {
			errAcc -= dy
			x += sx
		}
		if e2 < dx {
			errAcc += dx
			y += sy
		}
	}
}
