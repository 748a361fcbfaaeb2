package game

// ReachableTiles flood-fills outward from origin, one budget unit per step,
// expanding only through walkable tiles. The result never includes the
// origin, and never includes a tile more than budget steps away. Uniform
// step cost means plain BFS is optimal — no priority queue required.
func ReachableTiles(g *Grid, origin Coord, budget int) map[Coord]*Tile {
	out := make(map[Coord]*Tile)
	if budget <= 0 || !g.InBounds(origin) {
		return out
	}

	type frontier struct {
		pos  Coord
		cost int
	}
	visited := map[Coord]bool{origin: true}
	queue := []frontier{{pos: origin, cost: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.cost == budget {
			continue
		}
		for _, t := range g.Neighbors4(cur.pos) {
			if visited[t.Pos] || !t.Walkable() {
				continue
			}
			visited[t.Pos] = true
			out[t.Pos] = t
			queue = append(queue, frontier{pos: t.Pos, cost: cur.cost + 1})
		}
	}
	return out
}
