package model

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inOrder leaves the directions as they are: Up, Left, Down, Right.
type inOrder struct{}

func (inOrder) Shuffle(int, func(i, j int)) {}

func newBoard(t *testing.T, geo Geometry) Board {
	t.Helper()
	b, err := NewBoard(geo, DefaultPalette)
	require.NoError(t, err)
	return b
}

func TestNewBoardRejectsBadConfig(t *testing.T) {
	_, err := NewBoard(Geometry{Cells: 4, CellPixels: 9, MarkerPixels: 5}, DefaultPalette)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	p := DefaultPalette
	p.Border = p.Unvisited
	_, err = NewBoard(smallGeo, p)
	assert.ErrorIs(t, err, ErrPaletteNotDistinct)
}

func TestShuffledDirs(t *testing.T) {
	assert.Equal(t, [4]Dir{Up, Left, Down, Right}, ShuffledDirs(inOrder{}))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		dirs := ShuffledDirs(rng)
		seen := map[Dir]bool{}
		for _, d := range dirs {
			seen[d] = true
		}
		assert.Len(t, seen, 4)
	}
}

func TestFrameWrongSize(t *testing.T) {
	b := newBoard(t, smallGeo)
	tr, err := b.Frame(make([]byte, 12), false, inOrder{})
	assert.ErrorIs(t, err, ErrRasterSize)
	assert.Equal(t, Idle, tr)
}

func TestFrameFirstCallReinitializes(t *testing.T) {
	b := newBoard(t, smallGeo)
	pix := b.NewBuffer()

	tr, err := b.Frame(pix, false, inOrder{})
	require.NoError(t, err)
	assert.Equal(t, Reinitialized, tr)

	r, err := b.Raster(pix)
	require.NoError(t, err)
	for y := 0; y < smallGeo.Cells; y++ {
		for x := 0; x < smallGeo.Cells; x++ {
			want := Unvisited
			if (Pos{x, y}) == smallGeo.Center() {
				want = Head
			}
			assert.Equal(t, want, r.Classify(Pos{x, y}))
		}
	}

	// a partially transparent sentinel also counts as uninitialized
	pix[3] = 0x80
	tr, err = b.Frame(pix, false, inOrder{})
	require.NoError(t, err)
	assert.Equal(t, Reinitialized, tr)
}

func TestFirstStepScenario(t *testing.T) {
	b := newBoard(t, smallGeo)
	pix := b.NewBuffer()
	_, err := b.Frame(pix, false, inOrder{})
	require.NoError(t, err)

	tr, err := b.Frame(pix, false, inOrder{})
	require.NoError(t, err)
	assert.Equal(t, Advanced, tr)

	r, _ := b.Raster(pix)
	center := smallGeo.Center()
	up := center.Neighbor(Up)

	assert.Equal(t, Head, r.Classify(up))
	assert.Equal(t, Tail, r.Classify(center))
	assert.True(t, r.Classify(center).Reached())
	assert.True(t, r.IsWallOpen(center, up))
	assert.NotEqual(t, DefaultPalette.Border, r.pixel(smallGeo.WallMidpoint(center, up)))
	for _, d := range []Dir{Left, Down, Right} {
		assert.False(t, r.IsWallOpen(center, center.Neighbor(d)), d.Name())
	}
	assert.Equal(t, Census{Head: 1, Tail: 1, Unvisited: 23}, TakeCensus(r, smallGeo))
}

func TestBacktrackFromCorner(t *testing.T) {
	geo := Geometry{Cells: 3, CellPixels: 5, MarkerPixels: 3}
	b := newBoard(t, geo)
	pix := b.NewBuffer()
	r, _ := b.Raster(pix)
	Reinitialize(r, geo)

	// Up, Left, Down, Right from (1,1) carves (1,0), (0,0), (0,1), (0,2),
	// (1,2), (2,2), (2,1), (2,0) and then has to back up.
	for i := 0; i < 8; i++ {
		require.Equal(t, Advanced, Step(r, geo, Dirs))
	}
	assert.Equal(t, Census{Head: 1, Tail: 8}, TakeCensus(r, geo))
	head, ok := FindHead(r, geo)
	require.True(t, ok)
	assert.Equal(t, Pos{2, 0}, head)

	assert.Equal(t, Backtracked, Step(r, geo, Dirs))
	assert.Equal(t, Visited, r.Classify(Pos{2, 0}))
	assert.Equal(t, Head, r.Classify(Pos{2, 1}))
}

func TestRunToCompletion(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42, 1234} {
		geo := smallGeo
		if seed == 42 {
			geo = DefaultGeometry
		}
		b := newBoard(t, geo)
		pix := b.NewBuffer()
		rng := rand.New(rand.NewSource(seed))
		_, err := b.Frame(pix, false, rng)
		require.NoError(t, err)
		r, _ := b.Raster(pix)

		retired := map[Pos]bool{}
		steps := 0
		for {
			tr, err := b.Frame(pix, false, rng)
			require.NoError(t, err)
			steps++
			require.LessOrEqual(t, steps, 2*geo.CellCount(), "seed %d does not terminate", seed)

			census := TakeCensus(r, geo)
			require.Zero(t, census.Corrupt)
			if tr == Finished {
				require.Zero(t, census.Head)
				break
			}
			require.Equal(t, 1, census.Head, "seed %d step %d", seed, steps)

			for y := 0; y < geo.Cells; y++ {
				for x := 0; x < geo.Cells; x++ {
					c := Pos{x, y}
					s := r.Classify(c)
					if retired[c] {
						require.Equal(t, Visited, s, "retired cell %v came back", c)
					}
					if s == Visited {
						retired[c] = true
					}
				}
			}
		}

		assert.Equal(t, 2*geo.CellCount()-1, steps)
		assert.Equal(t, Census{Visited: geo.CellCount()}, TakeCensus(r, geo))
		assertSpanningTree(t, r, geo)

		after := append([]byte(nil), pix...)
		tr, err := b.Frame(pix, false, rng)
		require.NoError(t, err)
		assert.Equal(t, Idle, tr)
		assert.True(t, bytes.Equal(after, pix))
	}
}

func assertSpanningTree(t *testing.T, d Decoder, geo Geometry) {
	t.Helper()
	require.Equal(t, geo.CellCount()-1, OpenWalls(d, geo))

	// with N-1 edges, reaching every cell means there are no cycles
	seen := map[Pos]bool{geo.Center(): true}
	queue := []Pos{geo.Center()}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, dir := range Dirs {
			n := c.Neighbor(dir)
			if !geo.InBounds(n) || seen[n] {
				continue
			}
			if d.IsWallOpen(c, n) {
				require.True(t, d.IsWallOpen(n, c))
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	assert.Len(t, seen, geo.CellCount())
}

func TestGridAndRasterAgree(t *testing.T) {
	geo := Geometry{Cells: 7, CellPixels: 7, MarkerPixels: 3}
	r := newClearRaster(t, geo)
	g := NewGrid(geo)
	Reinitialize(r, geo)
	Reinitialize(g, geo)
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 2*geo.CellCount(); i++ {
		order := ShuffledDirs(rng)
		tr := Step(r, geo, order)
		require.Equal(t, tr, Step(g, geo, order))
		assertSameSurface(t, geo, r, g)
		if tr == Finished {
			break
		}
	}
	assertSpanningTree(t, g, geo)
}

func TestReinitializeIsIdempotent(t *testing.T) {
	b := newBoard(t, smallGeo)
	fresh := b.NewBuffer()
	_, err := b.Frame(fresh, true, inOrder{})
	require.NoError(t, err)

	pix := b.NewBuffer()
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		_, err := b.Frame(pix, false, rng)
		require.NoError(t, err)
	}
	assert.False(t, bytes.Equal(fresh, pix))

	tr, err := b.Frame(pix, true, rng)
	require.NoError(t, err)
	assert.Equal(t, Reinitialized, tr)
	assert.True(t, bytes.Equal(fresh, pix))

	_, err = b.Frame(pix, true, rng)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(fresh, pix))
}

func TestCorruptHeadFreezes(t *testing.T) {
	b := newBoard(t, smallGeo)
	pix := b.NewBuffer()
	_, err := b.Frame(pix, false, inOrder{})
	require.NoError(t, err)
	r, _ := b.Raster(pix)

	r.fillSquare(smallGeo.CellSamplePixel(smallGeo.Center()), smallGeo.MarkerPixels, Color{1, 1, 1})
	before := append([]byte(nil), pix...)
	tr, err := b.Frame(pix, false, inOrder{})
	require.NoError(t, err)
	assert.Equal(t, Idle, tr)
	assert.True(t, bytes.Equal(before, pix))
}

func TestImageSharesBuffer(t *testing.T) {
	b := newBoard(t, smallGeo)
	pix := b.NewBuffer()
	_, err := b.Frame(pix, false, inOrder{})
	require.NoError(t, err)

	img := Image(pix, smallGeo)
	assert.Equal(t, smallGeo.Width(), img.Bounds().Dx())
	assert.Equal(t, DefaultPalette.Head.RGBA(), img.RGBAAt(smallGeo.CellSamplePixel(smallGeo.Center()).X,
		smallGeo.CellSamplePixel(smallGeo.Center()).Y))
}
