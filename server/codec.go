package server

import (
	"encoding/gob"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/zucenko/amaze/model"
)

// Frames are mostly flat color, so each websocket message is a gob
// encoded FrameMessage inside an lz4 stream.

func WriteFrame(w io.Writer, m model.FrameMessage) error {
	zw := lz4.NewWriter(w)
	if err := gob.NewEncoder(zw).Encode(m); err != nil {
		return err
	}
	return zw.Close()
}

func ReadFrame(r io.Reader) (model.FrameMessage, error) {
	var m model.FrameMessage
	err := gob.NewDecoder(lz4.NewReader(r)).Decode(&m)
	return m, err
}

func WriteClientMessage(w io.Writer, m model.ClientMessage) error {
	return gob.NewEncoder(w).Encode(m)
}

func ReadClientMessage(r io.Reader) (model.ClientMessage, error) {
	var m model.ClientMessage
	err := gob.NewDecoder(r).Decode(&m)
	return m, err
}
