package model

import (
	"errors"
	"fmt"
	"image/color"
)

var ErrPaletteNotDistinct = errors.New("palette colors are not distinct")

type Color struct {
	R, G, B uint8
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette is the whole vocabulary of the encoding. Every entry is compared
// by exact equality, so two equal entries make cells undecodable.
type Palette struct {
	Head      Color
	Tail      Color
	Border    Color
	Visited   Color
	Unvisited Color
	// Connected paints opened walls. Kept one step off Visited so the
	// corridor looks continuous without aliasing a cell state.
	Connected Color
}

var DefaultPalette = Palette{
	Head:      Color{143, 59, 27},
	Tail:      Color{185, 156, 107},
	Border:    Color{73, 56, 41},
	Visited:   Color{189, 208, 156},
	Unvisited: Color{102, 141, 60},
	Connected: Color{188, 207, 155},
}

func (p Palette) entries() []struct {
	name  string
	color Color
} {
	return []struct {
		name  string
		color Color
	}{
		{"head", p.Head},
		{"tail", p.Tail},
		{"border", p.Border},
		{"visited", p.Visited},
		{"unvisited", p.Unvisited},
		{"connected", p.Connected},
	}
}

func (p Palette) Validate() error {
	e := p.entries()
	for i := 0; i < len(e); i++ {
		for j := i + 1; j < len(e); j++ {
			if e[i].color == e[j].color {
				return fmt.Errorf("%w: %s and %s are both %v",
					ErrPaletteNotDistinct, e[i].name, e[j].name, e[i].color)
			}
		}
	}
	return nil
}

// Decode maps a sample pixel back to a cell state. Anything that is not one
// of the four cell colors decodes as OutOfBounds.
func (p Palette) Decode(c Color) CellState {
	switch c {
	case p.Head:
		return Head
	case p.Tail:
		return Tail
	case p.Visited:
		return Visited
	case p.Unvisited:
		return Unvisited
	}
	return OutOfBounds
}
