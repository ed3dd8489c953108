// Command termview carves a maze in the terminal. The maze still lives in
// an RGBA raster; the terminal only shows what decodes out of it.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/amaze/model"
	"github.com/zucenko/amaze/server"
)

type cli struct {
	Config  string `help:"YAML config file" type:"path" env:"AMAZE_CONFIG"`
	LogFile string `help:"Write logs here instead of discarding them" type:"path"`
}

type View struct {
	screen tcell.Screen
	board  model.Board
	pix    []byte
	rng    *rand.Rand
	hold   int

	steps         int
	last          model.Transition
	finishedTicks int
	reset         bool
}

func rgb(c model.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (v *View) pixel(p model.Pos) model.Color {
	i := (p.Y*v.board.Geo.Width() + p.X) * 4
	return model.Color{R: v.pix[i], G: v.pix[i+1], B: v.pix[i+2]}
}

func (v *View) tick() error {
	reset := v.reset
	v.reset = false
	if v.last == model.Finished || v.last == model.Idle {
		v.finishedTicks++
		if v.hold > 0 && v.finishedTicks >= v.hold {
			reset = true
		}
	}
	tr, err := v.board.Frame(v.pix, reset, v.rng)
	if err != nil {
		return err
	}
	if tr == model.Reinitialized {
		v.steps = 0
		v.finishedTicks = 0
	} else if tr != model.Idle {
		v.steps++
	}
	if tr != model.Idle || reset {
		v.last = tr
	}
	return nil
}

// glyphColor picks the color for position (x,y) of a (2N+1)x(2N+1) layout:
// cells on odd coordinates, walls between them, corners on even ones. Each
// glyph takes the color of the pixel that encodes it.
func (v *View) glyphColor(x, y int) model.Color {
	geo := v.board.Geo
	last := 2 * geo.Cells
	cx, cy := x/2, y/2
	switch {
	case x%2 == 1 && y%2 == 1:
		return v.pixel(geo.CellSamplePixel(model.Pos{X: cx, Y: cy}))
	case x%2 == 0 && y%2 == 1 && x > 0 && x < last:
		return v.pixel(geo.WallMidpoint(model.Pos{X: cx - 1, Y: cy}, model.Pos{X: cx, Y: cy}))
	case x%2 == 1 && y%2 == 0 && y > 0 && y < last:
		return v.pixel(geo.WallMidpoint(model.Pos{X: cx, Y: cy - 1}, model.Pos{X: cx, Y: cy}))
	}
	return v.board.Pal.Border
}

func (v *View) draw() {
	v.screen.Clear()
	last := 2 * v.board.Geo.Cells
	for y := 0; y <= last; y++ {
		for x := 0; x <= last; x++ {
			style := tcell.StyleDefault.Foreground(rgb(v.glyphColor(x, y)))
			v.screen.SetContent(2*x, y, '█', nil, style)
			v.screen.SetContent(2*x+1, y, '█', nil, style)
		}
	}
	status := fmt.Sprintf(" %s step %d  [space] new maze  [q] quit", v.last.Name(), v.steps)
	for i, r := range status {
		v.screen.SetContent(i, last+2, r, nil, tcell.StyleDefault)
	}
	v.screen.Show()
}

// handleInput reports false when the user wants out.
func (v *View) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ', 'r':
				v.reset = true
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *View) run(every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go v.pollEvents(eventChan, quit)

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !v.handleInput(ev) {
				return nil
			}
		case <-ticker.C:
			if err := v.tick(); err != nil {
				return err
			}
			v.draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or quit
// is closed.
func (v *View) pollEvents(events chan<- tcell.Event, quit <-chan struct{}) {
	defer close(events)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

func run(params cli) error {
	log.SetOutput(io.Discard)
	if params.LogFile != "" {
		f, err := os.OpenFile(params.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := server.LoadConfig(params.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	board, err := cfg.Board()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	defer screen.Fini()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	v := &View{
		screen: screen,
		board:  board,
		pix:    board.NewBuffer(),
		rng:    rand.New(rand.NewSource(seed)),
		hold:   cfg.HoldTicks,
	}
	log.Infof("termview %dx%d at %d tps", cfg.Cells, cfg.Cells, cfg.TPS)
	return v.run(cfg.TickDuration())
}

func main() {
	var params cli
	kong.Parse(&params, kong.Description("Carve a maze in the terminal."))
	if err := run(params); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
