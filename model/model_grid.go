package model

// Grid is a Surface backed by plain slices instead of pixels. It runs the
// same stepper and is what the raster encoding is checked against.
type Grid struct {
	geo   Geometry
	cells []CellState
	// two walls per cell: index*2 is the one to the right, index*2+1 the
	// one below
	walls []bool
}

func NewGrid(geo Geometry) *Grid {
	g := &Grid{
		geo:   geo,
		cells: make([]CellState, geo.CellCount()),
		walls: make([]bool, geo.CellCount()*2),
	}
	g.Clear()
	return g
}

func (g *Grid) index(c Pos) int {
	return c.Y*g.geo.Cells + c.X
}

func (g *Grid) wallIndex(a, b Pos) int {
	side := g.geo.adjacent(a, b)
	low := a
	if b.X < a.X || b.Y < a.Y {
		low = b
	}
	if side {
		return g.index(low) * 2
	}
	return g.index(low)*2 + 1
}

func (g *Grid) Classify(c Pos) CellState {
	if !g.geo.InBounds(c) {
		return OutOfBounds
	}
	return g.cells[g.index(c)]
}

func (g *Grid) IsWallOpen(a, b Pos) bool {
	return g.walls[g.wallIndex(a, b)]
}

func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Unvisited
	}
	for i := range g.walls {
		g.walls[i] = false
	}
}

func (g *Grid) MarkVisited(c Pos) { g.cells[g.index(c)] = Visited }
func (g *Grid) MarkHead(c Pos)    { g.cells[g.index(c)] = Head }
func (g *Grid) MarkTail(c Pos)    { g.cells[g.index(c)] = Tail }

func (g *Grid) OpenWall(a, b Pos) {
	g.walls[g.wallIndex(a, b)] = true
}
