package game

import "container/heap"

// PathPlanner is an A* shortest-path search over a Grid. Movement is
// 4-directional with uniform edge cost 1 — the terrain model carries cover
// but no per-tile movement cost, a deliberate simplification — so the
// Manhattan heuristic is admissible and consistent and the first goal pop
// is optimal.
type PathPlanner struct {
	grid *Grid
}

// NewPathPlanner creates a planner over g.
func NewPathPlanner(g *Grid) *PathPlanner {
	return &PathPlanner{grid: g}
}

type pathNode struct {
	pos    Coord
	g, h   int
	parent *pathNode
	index  int // heap index
}

func (n *pathNode) f() int { return n.g + n.h }

// openList orders nodes by f-cost; equal f-costs break toward the lower
// h-cost (closer to goal). The tie-break matters: it is what makes paths
// through symmetric layouts deterministic.
type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	if ol[i].f() != ol[j].f() {
		return ol[i].f() < ol[j].f()
	}
	return ol[i].h < ol[j].h
}
func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}
func (ol *openList) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// FindPath returns the tiles stepped through from start to goal, goal
// included and start excluded, so len(path) is the number of moves. Every
// intermediate tile must be walkable; the goal itself is walkable-exempt —
// pathing "to" an occupied tile is valid and used for range checks. Returns
// nil when no path exists.
func (p *PathPlanner) FindPath(start, goal Coord) []*Tile {
	if !p.grid.InBounds(start) || !p.grid.InBounds(goal) {
		return nil
	}
	if start == goal {
		return []*Tile{}
	}

	key := func(c Coord) int { return c.Y*p.grid.Width + c.X }

	startNode := &pathNode{pos: start, g: 0, h: ManhattanDistance(start, goal)}
	ol := &openList{startNode}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := map[int]*pathNode{key(start): startNode}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.pos == goal {
			return p.buildPath(cur)
		}
		k := key(cur.pos)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range neighborDirs {
			next := Coord{X: cur.pos.X + d.X, Y: cur.pos.Y + d.Y}
			t := p.grid.TileAt(next)
			if t == nil {
				continue
			}
			// Intermediate tiles must be walkable; only the goal is exempt.
			if next != goal && !t.Walkable() {
				continue
			}
			nk := key(next)
			if closed[nk] {
				continue
			}
			ng := cur.g + 1
			if prev, ok := best[nk]; ok && ng >= prev.g {
				continue
			}
			node := &pathNode{pos: next, g: ng, h: ManhattanDistance(next, goal), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

// buildPath walks parent links back from the goal and reverses, dropping the
// start node.
func (p *PathPlanner) buildPath(end *pathNode) []*Tile {
	var rev []*pathNode
	for n := end; n.parent != nil; n = n.parent {
		rev = append(rev, n)
	}
	path := make([]*Tile, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = p.grid.TileAt(n.pos)
	}
	return path
}
