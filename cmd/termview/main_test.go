package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/amaze/model"
)

func newTestView(t *testing.T, hold int) *View {
	t.Helper()
	v := newUnmanagedView(t, hold)
	t.Cleanup(v.screen.Fini)
	return v
}

// newUnmanagedView leaves finalizing the screen to the test.
func newUnmanagedView(t *testing.T, hold int) *View {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)

	board, err := model.NewBoard(model.Geometry{Cells: 5, CellPixels: 9, MarkerPixels: 5}, model.DefaultPalette)
	require.NoError(t, err)
	return &View{
		screen: screen,
		board:  board,
		pix:    board.NewBuffer(),
		rng:    rand.New(rand.NewSource(3)),
		hold:   hold,
	}
}

func TestGlyphColors(t *testing.T) {
	v := newTestView(t, 0)
	pal := v.board.Pal
	require.NoError(t, v.tick())
	assert.Equal(t, model.Reinitialized, v.last)

	// the center cell (2,2) sits at (5,5)
	assert.Equal(t, pal.Head, v.glyphColor(5, 5))
	assert.Equal(t, pal.Unvisited, v.glyphColor(1, 1))
	assert.Equal(t, pal.Border, v.glyphColor(0, 0))
	assert.Equal(t, pal.Border, v.glyphColor(4, 5))
	assert.Equal(t, pal.Border, v.glyphColor(10, 5))

	require.NoError(t, v.tick())
	assert.Equal(t, model.Advanced, v.last)
	open := 0
	for y := 0; y <= 10; y++ {
		for x := 0; x <= 10; x++ {
			if v.glyphColor(x, y) == pal.Connected {
				open++
			}
		}
	}
	assert.Equal(t, 1, open)
	assert.Equal(t, pal.Tail, v.glyphColor(5, 5))

	v.draw()
}

func TestViewHoldRestarts(t *testing.T) {
	v := newTestView(t, 2)
	for i := 0; i < 60 && v.last != model.Finished; i++ {
		require.NoError(t, v.tick())
	}
	require.Equal(t, model.Finished, v.last)
	assert.Equal(t, 2*25-1, v.steps)

	require.NoError(t, v.tick())
	assert.Equal(t, model.Finished, v.last)
	require.NoError(t, v.tick())
	assert.Equal(t, model.Reinitialized, v.last)
	assert.Zero(t, v.steps)
}

func TestViewReset(t *testing.T) {
	v := newTestView(t, 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, v.tick())
	}
	v.reset = true
	require.NoError(t, v.tick())
	assert.Equal(t, model.Reinitialized, v.last)
	assert.False(t, v.reset)
}

func TestPollEventsStopsOnQuit(t *testing.T) {
	v := newTestView(t, 0)
	events := make(chan tcell.Event)
	quit := make(chan struct{})
	close(quit)
	require.NoError(t, v.screen.PostEvent(tcell.NewEventInterrupt(nil)))

	done := make(chan struct{})
	go func() {
		v.pollEvents(events, quit)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event poller still running")
	}
	_, ok := <-events
	assert.False(t, ok)
}

func TestPollEventsStopsOnFini(t *testing.T) {
	v := newUnmanagedView(t, 0)
	events := make(chan tcell.Event, 100)

	done := make(chan struct{})
	go func() {
		v.pollEvents(events, make(chan struct{}))
		close(done)
	}()
	v.screen.Fini()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event poller still running")
	}
}
