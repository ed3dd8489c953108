package server

import (
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/amaze/model"
)

type MazeServer struct {
	Sessions        map[string]*MazeSession
	SessionRequests chan SessionRequest
	SessionEnds     chan *MazeSession
	Upgrader        *websocket.Upgrader
	Config          Config
	Board           model.Board
	seeds           *rand.Rand
}

type SessionState int

const (
	SS_NEW SessionState = iota
	SS_CARVING
	SS_DONE
	SS_ERR
)

// MazeSession animates one maze. Its raster is touched only from Loop;
// everyone else goes through the channels.
type MazeSession struct {
	Name  string
	State SessionState
	Board model.Board
	Pix   []byte
	Rng   *rand.Rand
	Seq   uint64
	Last  model.Transition

	Viewers []*ViewerSession

	ViewerConnectRequests chan ViewerConnectRequest
	Resets                chan ResetRequest
	Snapshots             chan SnapshotRequest
	Errors                chan int32
	// Ended is closed once Loop has returned.
	Ended chan struct{}

	ends          chan<- *MazeSession
	tickEvery     time.Duration
	holdTicks     int
	finishedTicks int
	lingerTicks   int
	idleTicks     int
	resetPending  bool
	nextViewerId  int32
}

type ViewerState int

const (
	VS_NEW ViewerState = iota + 1
	VS_WATCH
	VS_ERR
)

type ViewerSession struct {
	State   ViewerState
	Id      int32
	Session *MazeSession
	Conn    *websocket.Conn
	Done    chan struct{}

	MessagesToSend chan model.FrameMessage
	quit           chan struct{}

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
}
