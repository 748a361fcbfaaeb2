package game

// CoverType ranks the defensive value a tile grants its occupant.
type CoverType uint8

const (
	CoverNone CoverType = iota // open ground
	CoverHalf                  // waist-high obstruction
	CoverFull                  // solid obstruction
)

func (c CoverType) String() string {
	switch c {
	case CoverNone:
		return "none"
	case CoverHalf:
		return "half"
	case CoverFull:
		return "full"
	default:
		return "unknown"
	}
}

// coverHitPenalty returns the ranged hit-chance reduction a target in this
// cover receives. Melee ignores cover entirely.
func coverHitPenalty(c CoverType) int {
	switch c {
	case CoverHalf:
		return 20
	case CoverFull:
		return 40
	default:
		return 0
	}
}

// coverValue ranks cover numerically for AI tile scoring.
func coverValue(c CoverType) int {
	switch c {
	case CoverHalf:
		return 1
	case CoverFull:
		return 2
	default:
		return 0
	}
}

// Coord is an integer grid position. Valid coordinates satisfy
// 0 <= X < width, 0 <= Y < height.
type Coord struct {
	X, Y int
}

// ManhattanDistance is |dx| + |dy| — the sole distance metric used by the
// engine.
func ManhattanDistance(a, b Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Tile represents one cell of the battlefield. Each tile is identified by
// exactly one coordinate for the lifetime of the grid.
type Tile struct {
	Pos         Coord
	Traversable bool
	Cover       CoverType
	occupant    *Unit // weak reference; the tile never owns the unit
}

// Occupant returns the unit standing on the tile, or nil.
func (t *Tile) Occupant() *Unit {
	return t.occupant
}

// Walkable reports whether a unit may stand here: the tile must be
// traversable AND empty.
func (t *Tile) Walkable() bool {
	return t.Traversable && t.occupant == nil
}

// Grid is the authoritative battlefield topology: immutable shape, mutable
// per-tile occupancy, traversability and cover.
type Grid struct {
	Width  int
	Height int
	tiles  []Tile // row-major: index = y*Width + x
}

// NewGrid creates a grid of all-traversable, uncovered tiles.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := &g.tiles[y*width+x]
			t.Pos = Coord{X: x, Y: y}
			t.Traversable = true
		}
	}
	return g
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// TileAt returns the tile at c, or nil if out of bounds.
func (g *Grid) TileAt(c Coord) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return &g.tiles[c.Y*g.Width+c.X]
}

// neighborDirs is the fixed scan order for orthogonal expansion. Pathing and
// reachability depend on this order staying stable for deterministic results.
var neighborDirs = [4]Coord{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
}

// Neighbors4 returns the up-to-four orthogonally adjacent in-bounds tiles.
func (g *Grid) Neighbors4(c Coord) []*Tile {
	out := make([]*Tile, 0, 4)
	for _, d := range neighborDirs {
		if t := g.TileAt(Coord{X: c.X + d.X, Y: c.Y + d.Y}); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// TilesWithinRadius returns every in-bounds tile within Manhattan distance r
// of origin, origin included.
func (g *Grid) TilesWithinRadius(origin Coord, r int) []*Tile {
	var out []*Tile
	for dy := -r; dy <= r; dy++ {
		rem := r - abs(dy)
		for dx := -rem; dx <= rem; dx++ {
			if t := g.TileAt(Coord{X: origin.X + dx, Y: origin.Y + dy}); t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// SetTraversable marks a tile passable or blocked. Out-of-bounds is a no-op.
func (g *Grid) SetTraversable(c Coord, v bool) {
	if t := g.TileAt(c); t != nil {
		t.Traversable = v
	}
}

// SetCover sets the cover level of a tile. Out-of-bounds is a no-op.
func (g *Grid) SetCover(c Coord, cv CoverType) {
	if t := g.TileAt(c); t != nil {
		t.Cover = cv
	}
}

// SetOccupant places u on the tile at c. Placing onto an out-of-bounds
// coordinate or a tile already held by a different unit is an invariant
// violation: each tile holds at most one occupant.
func (g *Grid) SetOccupant(c Coord, u *Unit) {
	t := g.TileAt(c)
	if t == nil {
		panic("grid: SetOccupant outside bounds")
	}
	if t.occupant != nil && t.occupant != u {
		panic("grid: tile already occupied")
	}
	t.occupant = u
}

// ClearOccupant removes any occupant from the tile at c. Always paired with
// a SetOccupant by the single mutation path performing a move.
func (g *Grid) ClearOccupant(c Coord) {
	if t := g.TileAt(c); t != nil {
		t.occupant = nil
	}
}

// moveOccupant relocates u from its current tile to dest atomically with
// respect to the rest of the step: clear old, set new, update the unit's
// stored coordinate, in that order.
func (g *Grid) moveOccupant(u *Unit, dest Coord) {
	g.ClearOccupant(u.pos)
	g.SetOccupant(dest, u)
	u.pos = dest
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
