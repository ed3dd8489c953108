package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallGeo = Geometry{Cells: 5, CellPixels: 9, MarkerPixels: 5}

func TestGeometryValidate(t *testing.T) {
	require.NoError(t, DefaultGeometry.Validate())
	require.NoError(t, smallGeo.Validate())

	for _, g := range []Geometry{
		{Cells: 0, CellPixels: 9, MarkerPixels: 5},
		{Cells: 4, CellPixels: 9, MarkerPixels: 5},
		{Cells: 5, CellPixels: 8, MarkerPixels: 5},
		{Cells: 5, CellPixels: 1, MarkerPixels: 1},
		{Cells: 5, CellPixels: 9, MarkerPixels: 9},
		{Cells: 5, CellPixels: 9, MarkerPixels: 0},
	} {
		assert.ErrorIs(t, g.Validate(), ErrInvalidGeometry, "%+v", g)
	}
}

func TestGeometryDimensions(t *testing.T) {
	assert.Equal(t, 256, DefaultGeometry.Width())
	assert.Equal(t, 256, DefaultGeometry.Height())
	assert.Equal(t, 256*256*4, DefaultGeometry.BufferLen())
	assert.Equal(t, Pos{8, 8}, DefaultGeometry.Center())

	assert.Equal(t, 46, smallGeo.Width())
	assert.Equal(t, 25, smallGeo.CellCount())
	assert.Equal(t, Pos{2, 2}, smallGeo.Center())
}

func TestCellOriginAndSample(t *testing.T) {
	assert.Equal(t, Pos{15, 30}, DefaultGeometry.CellOrigin(Pos{1, 2}))
	assert.Equal(t, Pos{3, 3}, DefaultGeometry.CellSamplePixel(Pos{0, 0}))
	assert.Equal(t, Pos{18, 33}, DefaultGeometry.CellSamplePixel(Pos{1, 2}))

	for _, g := range []Geometry{DefaultGeometry, smallGeo, {Cells: 3, CellPixels: 3, MarkerPixels: 2}} {
		for y := 0; y < g.Cells; y++ {
			for x := 0; x < g.Cells; x++ {
				s := g.CellSamplePixel(Pos{x, y})
				assert.NotZero(t, s.X%g.CellPixels, "sample on a border line")
				assert.NotZero(t, s.Y%g.CellPixels, "sample on a border line")
				assert.Equal(t, Pos{x, y}, Pos{s.X / g.CellPixels, s.Y / g.CellPixels})
			}
		}
	}
}

func TestWallMidpoint(t *testing.T) {
	g := DefaultGeometry
	assert.Equal(t, Pos{15, 7}, g.WallMidpoint(Pos{0, 0}, Pos{1, 0}))
	assert.Equal(t, Pos{7, 15}, g.WallMidpoint(Pos{0, 0}, Pos{0, 1}))
	assert.Equal(t, Pos{127, 120}, g.WallMidpoint(Pos{8, 8}, Pos{8, 7}))

	c := Pos{2, 2}
	for _, d := range Dirs {
		n := c.Neighbor(d)
		assert.Equal(t, g.WallMidpoint(c, n), g.WallMidpoint(n, c))
	}
}

func TestWallMidpointPanicsWhenNotAdjacent(t *testing.T) {
	assert.Panics(t, func() { DefaultGeometry.WallMidpoint(Pos{0, 0}, Pos{1, 1}) })
	assert.Panics(t, func() { DefaultGeometry.WallMidpoint(Pos{0, 0}, Pos{0, 0}) })
	assert.Panics(t, func() { DefaultGeometry.WallMidpoint(Pos{0, 0}, Pos{2, 0}) })
}
