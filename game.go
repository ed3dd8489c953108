package main

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/zucenko/amaze/client"
	"github.com/zucenko/amaze/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const statusHeight = 18

var errQuit = errors.New("quit")

// Game is the ebiten side of a maze. In local mode it owns the raster and
// steps it once per tick; with a Feed it only shows what the server sends.
type Game struct {
	client.Progress

	Board  model.Board
	Pix    []byte
	Rng    *rand.Rand
	Feed   *client.RemoteFeed
	Width  int
	Height int

	Seq           uint64
	HoldTicks     int
	finishedTicks int
	dt            float32

	Tweens      map[*gween.Tween]*Action
	bannerAlpha float64

	canvas *ebiten.Image
	banner *ebiten.Image
}

var Font font.Face

func loadFont(size float64) (font.Face, error) {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(tt, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func NewGame(board model.Board, width, height, tps int) (*Game, error) {
	canvas, err := ebiten.NewImage(width, height, ebiten.FilterDefault)
	if err != nil {
		return nil, err
	}
	banner, err := prepareTextImage("done", width)
	if err != nil {
		return nil, err
	}
	return &Game{
		Progress: client.NewProgress(),
		Board:    board,
		Pix:      make([]byte, width*height*4),
		Width:    width,
		Height:   height,
		dt:       1 / float32(tps),
		Tweens:   make(map[*gween.Tween]*Action),
		canvas:   canvas,
		banner:   banner,
	}, nil
}

func prepareTextImage(s string, width int) (*ebiten.Image, error) {
	image, err := ebiten.NewImage(width, 40, ebiten.FilterLinear)
	if err != nil {
		return nil, err
	}
	image.Fill(color.RGBA{0, 0, 0, 160})
	bounds, _ := font.BoundString(Font, s)
	x := (width - (bounds.Max.X - bounds.Min.X).Ceil()) / 2
	text.Draw(image, s, Font, x, 26, color.White)
	return image, nil
}

func resetPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyR)
}

func (g *Game) updateLocal(reset bool) error {
	if g.State == client.DONE && g.HoldTicks > 0 {
		g.finishedTicks++
		if g.finishedTicks >= g.HoldTicks {
			reset = true
		}
	}
	tr, err := g.Board.Frame(g.Pix, reset, g.Rng)
	if err != nil {
		return err
	}
	g.transition(tr)
	return nil
}

func (g *Game) updateRemote(reset bool) error {
	if reset {
		if err := g.Feed.Reset(); err != nil {
			return err
		}
	}
	select {
	case err := <-g.Feed.Errors:
		return err
	default:
	}
	fm, ok := g.Feed.Latest()
	if !ok {
		return nil
	}
	if len(fm.Pix) != len(g.Pix) {
		return fmt.Errorf("frame %d is %dx%d, window is %dx%d", fm.Seq, fm.Width, fm.Height, g.Width, g.Height)
	}
	copy(g.Pix, fm.Pix)
	g.Seq = fm.Seq
	g.transition(fm.Transition)
	return nil
}

func (g *Game) transition(tr model.Transition) {
	prev := g.State
	if !g.Apply(tr) {
		return
	}
	switch g.State {
	case client.CARVING:
		g.finishedTicks = 0
		if prev == client.DONE {
			for t := range g.Tweens {
				delete(g.Tweens, t)
			}
			g.fadeBanner(0, 0.25).addOnFinish(func() {
				g.bannerAlpha = 0
			})
		}
	case client.DONE:
		log.Infof("maze finished after %d steps", g.Steps)
		g.fadeBanner(1, 0.5).then(gween.New(1, 0.8, 1, ease.InOutSine), func(v float32) {
			g.bannerAlpha = float64(v)
		})
	}
}

func (g *Game) fadeBanner(to float32, seconds float32) *Action {
	t := gween.New(float32(g.bannerAlpha), to, seconds, ease.OutQuad)
	return g.play(t, func(v float32) {
		g.bannerAlpha = float64(v)
	})
}

func (g *Game) statusText() string {
	if g.Feed != nil {
		return fmt.Sprintf("%s #%d  %s  [space] new maze", g.State.Name(), g.Seq, g.Last.Name())
	}
	return fmt.Sprintf("%s step %d  %s  [space] new maze", g.State.Name(), g.Steps, g.Last.Name())
}

func (g *Game) update(screen *ebiten.Image) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	g.updateTweens(g.dt)

	var err error
	if g.Feed != nil {
		err = g.updateRemote(resetPressed())
	} else {
		err = g.updateLocal(resetPressed())
	}
	if err != nil {
		return err
	}

	if ebiten.IsDrawingSkipped() {
		return nil
	}

	if err := g.canvas.ReplacePixels(g.Pix); err != nil {
		return err
	}
	screen.Fill(color.RGBA{20, 20, 20, 255})
	screen.DrawImage(g.canvas, &ebiten.DrawImageOptions{})

	if g.bannerAlpha > 0 {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, float64(g.Height-40)/2)
		op.ColorM.Scale(1, 1, 1, g.bannerAlpha)
		screen.DrawImage(g.banner, op)
	}

	text.Draw(screen, g.statusText(), Font, 4, g.Height+statusHeight-5, color.White)
	return nil
}

func main() {
	if err := run(); err != nil && err != errQuit {
		log.Fatal(err)
	}
}
