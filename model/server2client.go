package model

// FrameMessage carries one full raster to a viewer.
type FrameMessage struct {
	Session    string
	Seq        uint64
	Transition Transition
	Width      int
	Height     int
	Pix        []byte
}

// ClientMessage is what a viewer may send back.
type ClientMessage struct {
	Reset bool
}
