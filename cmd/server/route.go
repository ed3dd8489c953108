package main

import (
	"net/http"

	"github.com/matryer/way"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const URI_WATCH = "/watch/:name"
const URI_FRAME = "/frame/:name"
const URI_RESET = "/reset/:name"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WATCH, s.MazeServer.HandleWatch())
	s.router.HandleFunc("GET", URI_FRAME, s.MazeServer.HandleSnapshot())
	s.router.HandleFunc("POST", URI_RESET, s.MazeServer.HandleReset())
	s.router.Handle("GET", "/metrics", promhttp.Handler())
	s.router.HandleFunc("GET", "/ping", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("OK"))
	})
}
