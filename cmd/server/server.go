package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/amaze/server"
)

type cli struct {
	Listen   string `help:"HTTP listen address" default:":8080" env:"LISTEN_ADDRESS"`
	Port     string `help:"Port to listen on, overrides the port of --listen" env:"PORT"`
	Config   string `help:"YAML config file" type:"path" env:"AMAZE_CONFIG"`
	LogLevel string `help:"Log level" default:"info" enum:"debug,info,warn,error" env:"LOG_LEVEL"`
}

type Server struct {
	router     *way.Router
	MazeServer *server.MazeServer
}

func main() {
	var params cli
	kong.Parse(&params, kong.Description("Serves animated maze sessions over websocket."))

	level, err := log.ParseLevel(params.LogLevel)
	if err != nil {
		log.Fatalln(err)
	}
	log.SetLevel(level)

	cfg, err := server.LoadConfig(params.Config)
	if err != nil {
		log.Fatalln(err)
	}
	ms, err := server.NewMazeServer(cfg)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := Server{MazeServer: ms}
	go s.MazeServer.Loop(ctx)
	s.routes()

	addr := params.Listen
	if params.Port != "" {
		addr = ":" + params.Port
	}
	srv := &http.Server{Addr: addr, Handler: s.router}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Infof("Listening on %s, %dx%d cells at %d tps", addr, cfg.Cells, cfg.Cells, cfg.TPS)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalln(err)
	}
}
