// Package client holds the parts of the desktop viewer that do not need a
// window: the websocket feed from a server session and the carving
// progress derived from frame transitions.
package client

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/amaze/model"
	"github.com/zucenko/amaze/server"
)

// RemoteFeed mirrors one server session. Only the newest frame matters, so
// the read loop overwrites anything the game has not picked up yet.
type RemoteFeed struct {
	Conn   *websocket.Conn
	Frames chan model.FrameMessage
	Errors chan error
}

func DialFeed(url string) (*RemoteFeed, error) {
	con, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	f := newFeed(con)
	go f.LoopChannelRead()
	return f, nil
}

func newFeed(con *websocket.Conn) *RemoteFeed {
	return &RemoteFeed{
		Conn:   con,
		Frames: make(chan model.FrameMessage, 1),
		Errors: make(chan error, 1),
	}
}

// First waits for the opening frame, which fixes the window size.
func (f *RemoteFeed) First(timeout time.Duration) (model.FrameMessage, error) {
	select {
	case fm := <-f.Frames:
		return fm, nil
	case err := <-f.Errors:
		return model.FrameMessage{}, err
	case <-time.After(timeout):
		return model.FrameMessage{}, fmt.Errorf("no frame within %v", timeout)
	}
}

// PutBack returns a frame taken by First, unless a newer one already
// arrived.
func (f *RemoteFeed) PutBack(fm model.FrameMessage) {
	select {
	case f.Frames <- fm:
	default:
	}
}

// offer replaces whatever frame is still waiting with fm.
func (f *RemoteFeed) offer(fm model.FrameMessage) {
	for {
		select {
		case f.Frames <- fm:
			return
		default:
		}
		select {
		case <-f.Frames:
		default:
		}
	}
}

func (f *RemoteFeed) LoopChannelRead() {
	log.Printf("RemoteFeed.LoopChannelRead STARTED")
	for {
		_, r, err := f.Conn.NextReader()
		if err != nil {
			f.Errors <- fmt.Errorf("reading frame: %w", err)
			break
		}
		fm, err := server.ReadFrame(r)
		if err != nil {
			f.Errors <- fmt.Errorf("decoding frame: %w", err)
			break
		}
		f.offer(fm)
	}
	log.Printf("RemoteFeed.LoopChannelRead ENDED")
}

func (f *RemoteFeed) Latest() (model.FrameMessage, bool) {
	select {
	case fm := <-f.Frames:
		return fm, true
	default:
		return model.FrameMessage{}, false
	}
}

// Reset asks the server for a new maze. Called from the game loop only.
func (f *RemoteFeed) Reset() error {
	w, err := f.Conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := server.WriteClientMessage(w, model.ClientMessage{Reset: true}); err != nil {
		return err
	}
	return w.Close()
}

func (f *RemoteFeed) Close() error {
	return f.Conn.Close()
}
