package model

import (
	"errors"
	"fmt"
)

var ErrRasterSize = errors.New("raster size mismatch")

// Decoder reads maze state back out of wherever it is kept.
type Decoder interface {
	Classify(c Pos) CellState
	IsWallOpen(a, b Pos) bool
}

// Renderer is the only way the stepper changes maze state.
type Renderer interface {
	// Clear makes every cell Unvisited with every wall closed.
	Clear()
	MarkVisited(c Pos)
	MarkHead(c Pos)
	MarkTail(c Pos)
	OpenWall(a, b Pos)
}

type Surface interface {
	Decoder
	Renderer
}

// Raster keeps the maze in an RGBA pixel buffer owned by the caller. It
// holds no state of its own: everything is decoded from Pix.
type Raster struct {
	Pix []byte
	Geo Geometry
	Pal Palette
}

func NewRaster(pix []byte, geo Geometry, pal Palette) (*Raster, error) {
	if len(pix) != geo.BufferLen() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrRasterSize, len(pix), geo.BufferLen(), geo.Width(), geo.Height())
	}
	return &Raster{Pix: pix, Geo: geo, Pal: pal}, nil
}

func (r *Raster) offset(p Pos) int {
	return (p.Y*r.Geo.Width() + p.X) * 4
}

func (r *Raster) pixel(p Pos) Color {
	i := r.offset(p)
	return Color{r.Pix[i], r.Pix[i+1], r.Pix[i+2]}
}

// setPixel leaves alpha alone; only Clear writes it.
func (r *Raster) setPixel(p Pos, c Color) {
	i := r.offset(p)
	r.Pix[i] = c.R
	r.Pix[i+1] = c.G
	r.Pix[i+2] = c.B
}

func (r *Raster) fillSquare(min Pos, size int, c Color) {
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			r.setPixel(min.Add(Pos{dx, dy}), c)
		}
	}
}

// Initialized reports whether the alpha of pixel (0,0) is opaque. A fresh
// zeroed buffer is not.
func (r *Raster) Initialized() bool {
	return r.Pix[3] == 0xff
}

func (r *Raster) Classify(c Pos) CellState {
	if !r.Geo.InBounds(c) {
		return OutOfBounds
	}
	return r.Pal.Decode(r.pixel(r.Geo.CellSamplePixel(c)))
}

func (r *Raster) IsWallOpen(a, b Pos) bool {
	return r.pixel(r.Geo.WallMidpoint(a, b)) != r.Pal.Border
}

// PaintCellFill covers the whole cell block inside its border lines.
func (r *Raster) PaintCellFill(c Pos, col Color) {
	r.fillSquare(r.Geo.CellOrigin(c).Add(Pos{1, 1}), r.Geo.CellPixels-1, col)
}

func (r *Raster) PaintHeadMarker(c Pos) {
	r.fillSquare(r.Geo.CellSamplePixel(c), r.Geo.MarkerPixels, r.Pal.Head)
}

func (r *Raster) PaintTailMarker(c Pos) {
	r.fillSquare(r.Geo.CellSamplePixel(c), r.Geo.MarkerPixels, r.Pal.Tail)
}

func (r *Raster) MarkVisited(c Pos) { r.PaintCellFill(c, r.Pal.Visited) }
func (r *Raster) MarkHead(c Pos)    { r.PaintHeadMarker(c) }
func (r *Raster) MarkTail(c Pos)    { r.PaintTailMarker(c) }

// OpenWall paints the whole shared border strip, not just the midpoint.
func (r *Raster) OpenWall(a, b Pos) {
	start, step := r.Geo.wallStrip(a, b)
	p := start
	for i := 0; i < r.Geo.CellPixels-1; i++ {
		r.setPixel(p, r.Pal.Connected)
		p = p.Add(step)
	}
}

// Clear repaints every pixel and makes the buffer opaque, which is what
// marks it initialized.
func (r *Raster) Clear() {
	w, h, cp := r.Geo.Width(), r.Geo.Height(), r.Geo.CellPixels
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := r.Pal.Unvisited
			if x%cp == 0 || y%cp == 0 {
				c = r.Pal.Border
			}
			i := (y*w + x) * 4
			r.Pix[i] = c.R
			r.Pix[i+1] = c.G
			r.Pix[i+2] = c.B
			r.Pix[i+3] = 0xff
		}
	}
}
