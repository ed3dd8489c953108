package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/zucenko/amaze/model"
	"sigs.k8s.io/yaml"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is shared by the server and both hosts. Everything has a default,
// so an empty file is a valid config.
type Config struct {
	Cells        int   `json:"cells"`
	CellPixels   int   `json:"cellPixels"`
	MarkerPixels int   `json:"markerPixels"`
	TPS          int   `json:"tps"`
	HoldTicks    int   `json:"holdTicks"`
	Seed         int64 `json:"seed"`

	// LingerTicks is how long a session keeps running with no viewers.
	LingerTicks int `json:"lingerTicks"`

	Palette PaletteConfig `json:"palette"`
}

// PaletteConfig holds colors as hex strings, e.g. "#8f3b1b".
type PaletteConfig struct {
	Head      string `json:"head"`
	Tail      string `json:"tail"`
	Border    string `json:"border"`
	Visited   string `json:"visited"`
	Unvisited string `json:"unvisited"`
	Connected string `json:"connected"`
}

func DefaultConfig() Config {
	p := model.DefaultPalette
	return Config{
		Cells:        model.DefaultGeometry.Cells,
		CellPixels:   model.DefaultGeometry.CellPixels,
		MarkerPixels: model.DefaultGeometry.MarkerPixels,
		TPS:          30,
		LingerTicks:  300,
		Palette: PaletteConfig{
			Head:      p.Head.String(),
			Tail:      p.Tail.String(),
			Border:    p.Border.String(),
			Visited:   p.Visited.String(),
			Unvisited: p.Unvisited.String(),
			Connected: p.Connected.String(),
		},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path means
// defaults only.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TPS < 1 || c.TPS > 1000 {
		return fmt.Errorf("%w: tps must be in [1,1000], got %d", ErrInvalidConfig, c.TPS)
	}
	if c.HoldTicks < 0 {
		return fmt.Errorf("%w: holdTicks must not be negative", ErrInvalidConfig)
	}
	if c.LingerTicks < 1 {
		return fmt.Errorf("%w: lingerTicks must be positive", ErrInvalidConfig)
	}
	_, err := c.Board()
	return err
}

func (c Config) Geometry() model.Geometry {
	return model.Geometry{Cells: c.Cells, CellPixels: c.CellPixels, MarkerPixels: c.MarkerPixels}
}

func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TPS)
}

// Board builds and validates the geometry and palette.
func (c Config) Board() (model.Board, error) {
	pal, err := c.Palette.palette()
	if err != nil {
		return model.Board{}, err
	}
	return model.NewBoard(c.Geometry(), pal)
}

func (p PaletteConfig) palette() (model.Palette, error) {
	var pal model.Palette
	for _, e := range []struct {
		name string
		hex  string
		dst  *model.Color
	}{
		{"head", p.Head, &pal.Head},
		{"tail", p.Tail, &pal.Tail},
		{"border", p.Border, &pal.Border},
		{"visited", p.Visited, &pal.Visited},
		{"unvisited", p.Unvisited, &pal.Unvisited},
		{"connected", p.Connected, &pal.Connected},
	} {
		c, err := colorful.Hex(e.hex)
		if err != nil {
			return model.Palette{}, fmt.Errorf("%w: palette %s %q: %v", ErrInvalidConfig, e.name, e.hex, err)
		}
		r, g, b := c.RGB255()
		*e.dst = model.Color{R: r, G: g, B: b}
	}
	return pal, nil
}
