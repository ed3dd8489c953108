package server

import (
	"fmt"

	"github.com/gorilla/websocket"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_NOT_FOUND = 404
const HTTP_TIMEOUT = 408
const HTTP_SERVER_ERR = 503

const maxSessionName = 64

type ResponseCode int

const (
	SESSION_READY ResponseCode = iota
	SESSION_NOT_FOUND
	SESSION_INVALIDE
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case SESSION_READY:
		return HTTP_SUCCESS
	case SESSION_NOT_FOUND:
		return HTTP_NOT_FOUND
	case SESSION_INVALIDE:
		return HTTP_BAD_REQUEST
	default:
		panic(h)
	}
}

func (ss SessionState) Name() string {
	switch ss {
	case SS_NEW:
		return "SS_NEW"
	case SS_CARVING:
		return "SS_CARVING"
	case SS_DONE:
		return "SS_DONE"
	case SS_ERR:
		return "SS_ERR"
	default:
		return fmt.Sprintf("n/a:%d", ss)
	}
}

func (vs ViewerState) Name() string {
	switch vs {
	case VS_NEW:
		return "NEW"
	case VS_WATCH:
		return "WATCH"
	case VS_ERR:
		return "ERR"
	default:
		return "N/A"
	}
}

type SessionAwaiting struct {
	ResponseCode ResponseCode
	Session      *MazeSession
}

type SessionRequest struct {
	Name            string
	Create          bool
	SessionAwaiting chan SessionAwaiting
}

type ViewerConnectRequest struct {
	Con  *websocket.Conn
	Done chan struct{}
}

type ResetRequest struct {
	Source string
}

// SnapshotRequest is answered with a private copy of the raster.
type SnapshotRequest struct {
	Pix chan []byte
}

func validSessionName(name string) bool {
	if name == "" || len(name) > maxSessionName {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
