package model

import (
	"errors"
	"fmt"
)

var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry places a square grid of cells on a square raster. Cell borders
// sit on every CellPixels-th row and column, and one extra row and column
// close the last cells, so the raster is Cells*CellPixels+1 pixels wide.
type Geometry struct {
	Cells        int
	CellPixels   int
	MarkerPixels int
}

// DefaultGeometry is a 17x17 grid of 15px cells on a 256x256 raster.
var DefaultGeometry = Geometry{Cells: 17, CellPixels: 15, MarkerPixels: 10}

func (g Geometry) Validate() error {
	if g.Cells < 1 || g.Cells%2 == 0 {
		return fmt.Errorf("%w: cells must be odd and positive, got %d", ErrInvalidGeometry, g.Cells)
	}
	if g.CellPixels < 3 || g.CellPixels%2 == 0 {
		return fmt.Errorf("%w: cell pixels must be odd and at least 3, got %d", ErrInvalidGeometry, g.CellPixels)
	}
	if g.MarkerPixels < 1 || g.MarkerPixels > g.CellPixels-1 {
		return fmt.Errorf("%w: marker pixels must be in [1,%d], got %d",
			ErrInvalidGeometry, g.CellPixels-1, g.MarkerPixels)
	}
	return nil
}

func (g Geometry) Width() int {
	return g.Cells*g.CellPixels + 1
}

func (g Geometry) Height() int {
	return g.Width()
}

// BufferLen is the exact raster length in bytes, four per pixel.
func (g Geometry) BufferLen() int {
	return g.Width() * g.Height() * 4
}

func (g Geometry) CellCount() int {
	return g.Cells * g.Cells
}

func (g Geometry) InBounds(c Pos) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Cells && c.Y < g.Cells
}

// Center is where every new maze starts.
func (g Geometry) Center() Pos {
	return Pos{g.Cells / 2, g.Cells / 2}
}

// CellOrigin is the top-left pixel of the cell block, which lies on the
// border lines.
func (g Geometry) CellOrigin(c Pos) Pos {
	return Pos{c.X * g.CellPixels, c.Y * g.CellPixels}
}

func (g Geometry) markerOffset() int {
	return (g.CellPixels - g.MarkerPixels + 1) / 2
}

// CellSamplePixel is the top-left pixel of the centered marker. It is
// inside the fill area but never on a border line.
func (g Geometry) CellSamplePixel(c Pos) Pos {
	o := g.markerOffset()
	return g.CellOrigin(c).Add(Pos{o, o})
}

// adjacent panics unless a and b share a wall. It reports whether the
// shared wall is vertical (a and b side by side).
func (g Geometry) adjacent(a, b Pos) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	if abs(dx)+abs(dy) != 1 {
		panic(fmt.Sprintf("model: cells %v and %v are not adjacent", a, b))
	}
	return dx != 0
}

// WallMidpoint is the pixel on the shared border of two adjacent cells that
// records whether the wall between them is open.
func (g Geometry) WallMidpoint(a, b Pos) Pos {
	start, step := g.wallStrip(a, b)
	half := g.CellPixels/2 - 1
	return start.Add(Pos{step.X * half, step.Y * half})
}

// wallStrip returns the first pixel of the shared border strip and the unit
// step along it. The strip is CellPixels-1 pixels long and excludes the
// corner pixels.
func (g Geometry) wallStrip(a, b Pos) (Pos, Pos) {
	if g.adjacent(a, b) {
		x := max(a.X, b.X) * g.CellPixels
		return Pos{x, a.Y*g.CellPixels + 1}, Pos{0, 1}
	}
	y := max(a.Y, b.Y) * g.CellPixels
	return Pos{a.X*g.CellPixels + 1, y}, Pos{1, 0}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
