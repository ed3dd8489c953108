package model

import "image"

// Shuffler is the random capability handed in by the caller. *rand.Rand
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

func ShuffledDirs(rng Shuffler) [4]Dir {
	dirs := Dirs
	rng.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})
	return dirs
}

// FindHead scans rows top to bottom, left to right.
func FindHead(d Decoder, geo Geometry) (Pos, bool) {
	for y := 0; y < geo.Cells; y++ {
		for x := 0; x < geo.Cells; x++ {
			c := Pos{x, y}
			if d.Classify(c) == Head {
				return c, true
			}
		}
	}
	return Pos{}, false
}

// Step performs exactly one transition: carve into the first Unvisited
// neighbour in order, or else retire the head and move it back to the
// first Tail neighbour it has an open wall to. With nowhere to go back to
// the maze is done and no head remains.
func Step(s Surface, geo Geometry, order [4]Dir) Transition {
	head, ok := FindHead(s, geo)
	if !ok {
		return Idle
	}

	for _, d := range order {
		next := head.Neighbor(d)
		if s.Classify(next) == Unvisited {
			s.MarkVisited(head)
			s.MarkTail(head)
			s.MarkHead(next)
			s.OpenWall(head, next)
			return Advanced
		}
	}

	// backtrack
	s.MarkVisited(head)
	for _, d := range order {
		prev := head.Neighbor(d)
		if s.Classify(prev) == Tail && s.IsWallOpen(head, prev) {
			s.MarkHead(prev)
			return Backtracked
		}
	}
	return Finished
}

// Reinitialize throws away whatever was there and starts over from the
// center cell.
func Reinitialize(s Surface, geo Geometry) {
	s.Clear()
	s.MarkHead(geo.Center())
}

// Board is the fixed configuration a frame runs under. It carries no maze
// state; that lives in the buffer passed to Frame.
type Board struct {
	Geo Geometry
	Pal Palette
}

func NewBoard(geo Geometry, pal Palette) (Board, error) {
	if err := geo.Validate(); err != nil {
		return Board{}, err
	}
	if err := pal.Validate(); err != nil {
		return Board{}, err
	}
	return Board{Geo: geo, Pal: pal}, nil
}

// NewBuffer returns a zeroed buffer of the right size. Its alpha is zero,
// so the first Frame on it reinitializes.
func (b Board) NewBuffer() []byte {
	return make([]byte, b.Geo.BufferLen())
}

func (b Board) Raster(pix []byte) (*Raster, error) {
	return NewRaster(pix, b.Geo, b.Pal)
}

// Frame is called once per animation tick. A reset, or a buffer that was
// never initialized, starts a new maze and nothing else happens on that
// call. Otherwise one step is taken. The only error is a buffer of the
// wrong size, which callers should treat as fatal.
func (b Board) Frame(pix []byte, reset bool, rng Shuffler) (Transition, error) {
	r, err := b.Raster(pix)
	if err != nil {
		return Idle, err
	}
	if reset || !r.Initialized() {
		Reinitialize(r, b.Geo)
		return Reinitialized, nil
	}
	return Step(r, b.Geo, ShuffledDirs(rng)), nil
}

// Census counts the decoded state of every cell.
type Census struct {
	Head, Tail, Visited, Unvisited int
	// Corrupt counts in-bounds cells whose color matched nothing.
	Corrupt int
}

func (c Census) Reached() int {
	return c.Head + c.Tail + c.Visited
}

func TakeCensus(d Decoder, geo Geometry) Census {
	var c Census
	for y := 0; y < geo.Cells; y++ {
		for x := 0; x < geo.Cells; x++ {
			switch d.Classify(Pos{x, y}) {
			case Head:
				c.Head++
			case Tail:
				c.Tail++
			case Visited:
				c.Visited++
			case Unvisited:
				c.Unvisited++
			default:
				c.Corrupt++
			}
		}
	}
	return c
}

// OpenWalls counts opened walls between in-bounds cells.
func OpenWalls(d Decoder, geo Geometry) int {
	n := 0
	for y := 0; y < geo.Cells; y++ {
		for x := 0; x < geo.Cells; x++ {
			c := Pos{x, y}
			if x+1 < geo.Cells && d.IsWallOpen(c, c.Neighbor(Right)) {
				n++
			}
			if y+1 < geo.Cells && d.IsWallOpen(c, c.Neighbor(Down)) {
				n++
			}
		}
	}
	return n
}

// Image shares pix as an *image.RGBA, for encoding snapshots.
func Image(pix []byte, geo Geometry) *image.RGBA {
	return &image.RGBA{
		Pix:    pix,
		Stride: geo.Width() * 4,
		Rect:   image.Rect(0, 0, geo.Width(), geo.Height()),
	}
}
