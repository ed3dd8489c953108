package model

import "fmt"

// Pos is either a cell coordinate or a pixel coordinate, depending on who
// is asking. Geometry converts between the two.
type Pos struct {
	X, Y int
}

func (p Pos) Add(o Pos) Pos {
	return Pos{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Pos) Neighbor(d Dir) Pos {
	return p.Add(d.Delta())
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Dir is one of the four grid directions. The zero order is Up, Left,
// Down, Right; the stepper shuffles it every call.
type Dir int

const (
	Up Dir = iota
	Left
	Down
	Right
)

var Dirs = [4]Dir{Up, Left, Down, Right}

func (d Dir) Delta() Pos {
	switch d {
	case Up:
		return Pos{0, -1}
	case Left:
		return Pos{-1, 0}
	case Down:
		return Pos{0, 1}
	case Right:
		return Pos{1, 0}
	default:
		panic(fmt.Sprintf("model: bad direction %d", int(d)))
	}
}

func (d Dir) Name() string {
	switch d {
	case Up:
		return "UP"
	case Left:
		return "LEFT"
	case Down:
		return "DOWN"
	case Right:
		return "RIGHT"
	default:
		return fmt.Sprintf("N/A(%d)", d)
	}
}

// CellState is what a cell decodes to. It is never stored; it is read back
// from whatever the Surface holds.
type CellState int

const (
	OutOfBounds CellState = iota
	Head
	Tail
	Visited
	Unvisited
)

func (s CellState) Name() string {
	switch s {
	case OutOfBounds:
		return "OUT_OF_BOUNDS"
	case Head:
		return "HEAD"
	case Tail:
		return "TAIL"
	case Visited:
		return "VISITED"
	case Unvisited:
		return "UNVISITED"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

func (s CellState) String() string {
	return s.Name()
}

// Reached reports whether the carver has been in this cell at some point.
// Tail cells are reached cells that are still on the carving path.
func (s CellState) Reached() bool {
	return s == Head || s == Tail || s == Visited
}

// Transition is what a single call did to the maze.
type Transition int

const (
	Idle Transition = iota
	Advanced
	Backtracked
	Finished
	Reinitialized
)

func (t Transition) Name() string {
	switch t {
	case Idle:
		return "IDLE"
	case Advanced:
		return "ADVANCED"
	case Backtracked:
		return "BACKTRACKED"
	case Finished:
		return "FINISHED"
	case Reinitialized:
		return "REINITIALIZED"
	default:
		return fmt.Sprintf("N/A(%d)", t)
	}
}

func (t Transition) String() string {
	return t.Name()
}
