package main

import (
	"math/rand"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/amaze/client"
	"github.com/zucenko/amaze/server"
)

type cli struct {
	Config   string  `help:"YAML config file" type:"path" env:"AMAZE_CONFIG"`
	Remote   string  `help:"Mirror a server session instead of carving locally, e.g. ws://localhost:8080/watch/default"`
	Scale    float64 `help:"Window scale" default:"2"`
	LogLevel string  `help:"Log level" default:"info" enum:"debug,info,warn,error" env:"LOG_LEVEL"`
}

func run() error {
	var params cli
	kong.Parse(&params, kong.Description("Watch a maze carve itself."))

	level, err := log.ParseLevel(params.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	cfg, err := server.LoadConfig(params.Config)
	if err != nil {
		return err
	}
	board, err := cfg.Board()
	if err != nil {
		return err
	}
	if Font, err = loadFont(12); err != nil {
		return err
	}

	width, height := board.Geo.Width(), board.Geo.Height()
	var feed *client.RemoteFeed
	if params.Remote != "" {
		if feed, err = client.DialFeed(params.Remote); err != nil {
			return err
		}
		defer feed.Close()
		first, err := feed.First(5 * time.Second)
		if err != nil {
			return err
		}
		width, height = first.Width, first.Height
		feed.PutBack(first)
		log.Infof("mirroring session %s at %dx%d", first.Session, width, height)
	}

	game, err := NewGame(board, width, height, cfg.TPS)
	if err != nil {
		return err
	}
	game.Feed = feed
	game.HoldTicks = cfg.HoldTicks
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game.Rng = rand.New(rand.NewSource(seed))

	ebiten.SetMaxTPS(cfg.TPS)
	return ebiten.Run(game.update, width, height+statusHeight, params.Scale, "amaze")
}
