package server

import (
	"bytes"
	"context"
	"image/png"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/amaze/model"
)

const requestTimeout = 200 * time.Millisecond

func NewMazeServer(cfg Config) (*MazeServer, error) {
	board, err := cfg.Board()
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MazeServer{
		Sessions:        make(map[string]*MazeSession),
		SessionRequests: make(chan SessionRequest),
		SessionEnds:     make(chan *MazeSession),
		Upgrader:        &websocket.Upgrader{},
		Config:          cfg,
		Board:           board,
		seeds:           rand.New(rand.NewSource(seed)),
	}, nil
}

func (s *MazeServer) Loop(ctx context.Context) {
	log.Printf("MazeServer.Loop starting")
	for {
		select {
		case <-ctx.Done():
			log.Printf("MazeServer.Loop ENDED")
			return
		case req := <-s.SessionRequests:
			if !validSessionName(req.Name) {
				req.SessionAwaiting <- SessionAwaiting{ResponseCode: SESSION_INVALIDE}
				continue
			}
			ms, found := s.Sessions[req.Name]
			if !found {
				if !req.Create {
					req.SessionAwaiting <- SessionAwaiting{ResponseCode: SESSION_NOT_FOUND}
					continue
				}
				log.Infof("create MazeSession %s", req.Name)
				ms = s.newSession(req.Name)
				s.Sessions[req.Name] = ms
				metricSessions.Inc()
				go ms.Loop(ctx)
			}
			req.SessionAwaiting <- SessionAwaiting{
				ResponseCode: SESSION_READY,
				Session:      ms,
			}
		case ms := <-s.SessionEnds:
			if s.Sessions[ms.Name] == ms {
				log.Infof("remove MazeSession %s", ms.Name)
				delete(s.Sessions, ms.Name)
				metricSessions.Dec()
			}
		}
	}
}

func (s *MazeServer) newSession(name string) *MazeSession {
	return &MazeSession{
		Name:                  name,
		State:                 SS_NEW,
		Board:                 s.Board,
		Pix:                   s.Board.NewBuffer(),
		Rng:                   rand.New(rand.NewSource(s.seeds.Int63())),
		Viewers:               make([]*ViewerSession, 0),
		ViewerConnectRequests: make(chan ViewerConnectRequest),
		Resets:                make(chan ResetRequest),
		Snapshots:             make(chan SnapshotRequest),
		Errors:                make(chan int32),
		Ended:                 make(chan struct{}),
		ends:                  s.SessionEnds,
		tickEvery:             s.Config.TickDuration(),
		holdTicks:             s.Config.HoldTicks,
		lingerTicks:           s.Config.LingerTicks,
	}
}

// session asks Loop for a named session. The awaiting channel is buffered
// so Loop never blocks on a caller that already gave up.
func (s *MazeServer) session(name string, create bool) (*MazeSession, ResponseCode, bool) {
	awaiting := make(chan SessionAwaiting, 1)
	select {
	case s.SessionRequests <- SessionRequest{Name: name, Create: create, SessionAwaiting: awaiting}:
	case <-time.After(requestTimeout):
		log.Warn("SessionRequests TIMEOUTED")
		return nil, 0, false
	}
	select {
	case sa := <-awaiting:
		return sa.Session, sa.ResponseCode, true
	case <-time.After(requestTimeout):
		log.Warnf("SessionAwaiting <- TIMEOUTED")
		return nil, 0, false
	}
}

// HandleWatch upgrades to a websocket and streams frames of the named
// session, creating it on first use.
func (s *MazeServer) HandleWatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := way.Param(r.Context(), "name")
		log.Printf("HandleWatch - connection received for %s", name)

		ms, code, ok := s.session(name, true)
		if !ok {
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		if code != SESSION_READY {
			w.WriteHeader(code.ToHttp())
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied
			log.Printf("HandleWatch websocket upgrade err %v", err)
			return
		}
		defer con.Close()

		done := make(chan struct{})
		select {
		case ms.ViewerConnectRequests <- ViewerConnectRequest{Con: con, Done: done}:
		case <-ms.Ended:
			log.Infof("HandleWatch session %s already ended", name)
			return
		case <-time.After(requestTimeout):
			log.Warnf("HandleWatch ViewerConnectRequests TIMEOUTED")
			return
		}

		log.Info("HandleWatch waiting for viewer to leave")
		<-done
	}
}

// HandleSnapshot replies with the current raster of a session as PNG.
func (s *MazeServer) HandleSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, code, ok := s.session(way.Param(r.Context(), "name"), false)
		if !ok {
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		if code != SESSION_READY {
			w.WriteHeader(code.ToHttp())
			return
		}

		reply := make(chan []byte, 1)
		var pix []byte
		select {
		case ms.Snapshots <- SnapshotRequest{Pix: reply}:
			pix = <-reply
		case <-ms.Ended:
			w.WriteHeader(HTTP_NOT_FOUND)
			return
		case <-time.After(requestTimeout):
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, model.Image(pix, ms.Board.Geo)); err != nil {
			log.Errorf("HandleSnapshot encode %v", err)
			w.WriteHeader(HTTP_SERVER_ERR)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}
}

// HandleReset starts a new maze in an existing session.
func (s *MazeServer) HandleReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, code, ok := s.session(way.Param(r.Context(), "name"), false)
		if !ok {
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		if code != SESSION_READY {
			w.WriteHeader(code.ToHttp())
			return
		}
		select {
		case ms.Resets <- ResetRequest{Source: "http"}:
			w.WriteHeader(HTTP_SUCCESS)
		case <-ms.Ended:
			w.WriteHeader(HTTP_NOT_FOUND)
		case <-time.After(requestTimeout):
			w.WriteHeader(HTTP_TIMEOUT)
		}
	}
}

func (ms *MazeSession) Loop(ctx context.Context) {
	log.Infof("MazeSession.Loop %s start", ms.Name)
	ticker := time.NewTicker(ms.tickEvery)
	defer ticker.Stop()
	defer close(ms.Ended)
	ms.tick()

	for {
		select {
		case <-ctx.Done():
			for _, vs := range ms.Viewers {
				ms.dropViewer(vs)
			}
			ms.Viewers = nil
			log.Infof("MazeSession.Loop %s ENDED", ms.Name)
			return
		case <-ticker.C:
			ms.tick()
			if ms.abandoned() {
				log.Infof("MazeSession %s has had no viewers for %d ticks", ms.Name, ms.idleTicks)
				select {
				case ms.ends <- ms:
				case <-ctx.Done():
				}
				log.Infof("MazeSession.Loop %s ENDED", ms.Name)
				return
			}
		case vcr := <-ms.ViewerConnectRequests:
			vs := ms.addViewer(vcr.Con, vcr.Done)
			ms.idleTicks = 0
			vs.send(ms.frameMessage())
		case rr := <-ms.Resets:
			log.Infof("MazeSession %s reset by %s", ms.Name, rr.Source)
			metricResetsTotal.WithLabelValues(rr.Source).Inc()
			ms.resetPending = true
		case sr := <-ms.Snapshots:
			sr.Pix <- append([]byte(nil), ms.Pix...)
		case id := <-ms.Errors:
			for i, vs := range ms.Viewers {
				if vs.Id == id {
					log.Warnf("MazeSession %s dropping viewer %d", ms.Name, id)
					ms.dropViewer(vs)
					ms.Viewers = append(ms.Viewers[:i], ms.Viewers[i+1:]...)
					break
				}
			}
		}
	}
}

// tick runs exactly one frame and fans it out.
func (ms *MazeSession) tick() {
	if len(ms.Viewers) == 0 {
		ms.idleTicks++
	} else {
		ms.idleTicks = 0
	}
	reset := ms.resetPending
	ms.resetPending = false
	if ms.State == SS_DONE && ms.holdTicks > 0 {
		ms.finishedTicks++
		if ms.finishedTicks >= ms.holdTicks {
			metricResetsTotal.WithLabelValues("hold").Inc()
			reset = true
		}
	}

	tr, err := ms.Board.Frame(ms.Pix, reset, ms.Rng)
	if err != nil {
		log.Errorf("MazeSession %s frame: %v", ms.Name, err)
		ms.State = SS_ERR
		return
	}
	metricStepsTotal.WithLabelValues(tr.Name()).Inc()
	ms.Last = tr

	switch tr {
	case model.Reinitialized:
		ms.State = SS_CARVING
		ms.finishedTicks = 0
	case model.Finished:
		log.Infof("MazeSession %s finished after %d frames", ms.Name, ms.Seq)
		ms.State = SS_DONE
	case model.Idle:
		// nothing changed, nothing to send
		ms.State = SS_DONE
		return
	}
	ms.Seq++
	if len(ms.Viewers) == 0 {
		return
	}
	msg := ms.frameMessage()
	for _, vs := range ms.Viewers {
		vs.send(msg)
	}
}

// abandoned reports whether nobody has watched for lingerTicks ticks.
func (ms *MazeSession) abandoned() bool {
	return ms.lingerTicks > 0 && ms.idleTicks >= ms.lingerTicks
}

// frameMessage copies the raster; viewers encode it on their own
// goroutines while the session keeps painting.
func (ms *MazeSession) frameMessage() model.FrameMessage {
	return model.FrameMessage{
		Session:    ms.Name,
		Seq:        ms.Seq,
		Transition: ms.Last,
		Width:      ms.Board.Geo.Width(),
		Height:     ms.Board.Geo.Height(),
		Pix:        append([]byte(nil), ms.Pix...),
	}
}

func (ms *MazeSession) addViewer(conn *websocket.Conn, done chan struct{}) *ViewerSession {
	ms.nextViewerId++
	vs := &ViewerSession{
		State:          VS_WATCH,
		Id:             ms.nextViewerId,
		Session:        ms,
		Conn:           conn,
		Done:           done,
		MessagesToSend: make(chan model.FrameMessage, 10),
		quit:           make(chan struct{}),
	}
	log.Printf("MazeSession %s addViewer %d", ms.Name, vs.Id)
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Timeout() {
				return nil
			}
			return err
		})
	go vs.LoopChannelRead()
	go vs.LoopChannelWrite()
	ms.Viewers = append(ms.Viewers, vs)
	metricViewers.Inc()
	return vs
}

// dropViewer must only be called from the session loop, once per viewer.
func (ms *MazeSession) dropViewer(vs *ViewerSession) {
	vs.State = VS_ERR
	close(vs.quit)
	vs.Conn.Close()
	close(vs.Done)
	metricViewers.Dec()
}

func (vs *ViewerSession) send(msg model.FrameMessage) {
	select {
	case vs.MessagesToSend <- msg:
	default:
		metricDroppedFramesTotal.Inc()
		log.Debugf("viewer %d too slow, dropping frame %d", vs.Id, msg.Seq)
	}
}

// fail reports the viewer to its session unless the session already let
// it go.
func (vs *ViewerSession) fail() {
	select {
	case vs.Session.Errors <- vs.Id:
	case <-vs.quit:
	}
}

func (vs *ViewerSession) LoopChannelRead() {
	log.Printf("LoopChannelRead STARTED %d", vs.Id)
	for {
		_, r, err := vs.Conn.NextReader()
		if err != nil {
			log.Printf("LoopChannelRead err reading message from Conn %v", err)
			vs.fail()
			break
		}
		cm, err := ReadClientMessage(r)
		if err != nil {
			log.Warnf("LoopChannelRead cant decode %v", err)
			vs.fail()
			break
		}
		vs.DebugLastMessage = time.Now()
		vs.DebugInMessages++
		if !cm.Reset {
			continue
		}
		select {
		case vs.Session.Resets <- ResetRequest{Source: "viewer"}:
		case <-vs.quit:
			return
		case <-time.After(requestTimeout):
			log.Warnf("Dropping reset from viewer %d, session busy", vs.Id)
		}
	}
	log.Printf("LoopChannelRead ENDED %d", vs.Id)
}

// this function only consumes, a full buffer never blocks the session
func (vs *ViewerSession) LoopChannelWrite() {
	log.Printf("LoopChannelWrite STARTED %d", vs.Id)
loop:
	for {
		select {
		case <-vs.quit:
			break loop
		case mes := <-vs.MessagesToSend:
			w, err := vs.Conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				log.Warnf("LoopChannelWrite cant get writer %v", err)
				vs.fail()
				break loop
			}
			if err = WriteFrame(w, mes); err != nil {
				log.Warnf("LoopChannelWrite cant encode %v", err)
				vs.fail()
				break loop
			}
			if err = w.Close(); err != nil {
				log.Warnf("LoopChannelWrite cant flush %v", err)
				vs.fail()
				break loop
			}
			vs.DebugOutMessages++
		}
	}
	log.Printf("LoopChannelWrite ENDED %d", vs.Id)
}
