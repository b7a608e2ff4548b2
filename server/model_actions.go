package server

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minefield/config"
	"github.com/zucenko/minefield/model"
)

type Option func(s *GameServer)

func WithPresets(presets config.Presets, defaultPreset string) Option {
	return func(s *GameServer) {
		s.Presets = presets
		s.DefaultPreset = defaultPreset
	}
}

func WithLayout(l *Layout) Option {
	return func(s *GameServer) {
		s.Layout = l
	}
}

// WithMaxCells caps the number of cells of a custom board.
func WithMaxCells(n int) Option {
	return func(s *GameServer) {
		s.MaxCells = n
	}
}

// WithSeed makes every new board place its mines from the same seed.
func WithSeed(seed int64) Option {
	return func(s *GameServer) {
		s.Seed = seed
	}
}

func NewGameServer(opts ...Option) *GameServer {
	s := &GameServer{
		GameSessions:  make(map[string]*GameSession),
		GameRequests:  make(chan GameRequest),
		Upgrader:      &websocket.Upgrader{},
		Presets:       config.DefaultPresets(),
		DefaultPreset: "beginner",
		MaxCells:      config.DefaultMaxCells,
		Timeout:       200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GameServer) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.GameSessions)
}

func (s *GameServer) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.GameSessions, id)
}

// closeSessions ends every live session. Sessions remove themselves from the
// registry once their loop returns.
func (s *GameServer) closeSessions() {
	s.mu.Lock()
	sessions := make([]*GameSession, 0, len(s.GameSessions))
	for _, gs := range s.GameSessions {
		sessions = append(sessions, gs)
	}
	s.mu.Unlock()

	for _, gs := range sessions {
		gs.Close()
	}
}

// HandlePresets lists the board presets as JSON.
func (s *GameServer) HandlePresets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.Presets); err != nil {
			log.Errorf("HandlePresets encode %v", err)
		}
	}
}

func parseGameRequest(r *http.Request) (GameRequest, error) {
	q := r.URL.Query()
	req := GameRequest{Preset: q.Get("preset")}
	if q.Get("rows") == "" && q.Get("cols") == "" && q.Get("mines") == "" {
		return req, nil
	}
	var values [3]int
	for i, key := range []string{"rows", "cols", "mines"} {
		v, err := strconv.Atoi(q.Get(key))
		if err != nil {
			return req, errors.New("bad " + key)
		}
		values[i] = v
	}
	req.Custom = &config.Preset{Rows: values[0], Cols: values[1], Mines: values[2]}
	return req, nil
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - connection received")

		req, err := parseGameRequest(r)
		if err != nil {
			log.Warnf("HandleHttpCall %v", err)
			w.WriteHeader(HTTP_BAD_REQUEST)
			return
		}
		gcas := make(chan GameContextAwaiting, 1)
		req.GameContextAwaiting = gcas
		select {
		case s.GameRequests <- req:
		case <-time.After(s.Timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			if gca.ResponseCode != GAME_READY {
				log.Printf("HandleHttpCall GameContextAwaiting <- code:%d", gca.ResponseCode)
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			}
		case <-time.After(s.Timeout):
			log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			// the loop has the request and always answers; end what it built
			go func() {
				if late := <-gcas; late.GameSession != nil {
					late.GameSession.Close()
				}
			}()
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			gca.GameSession.Close()
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			GameOver: gameOver}:
		case <-time.After(s.Timeout):
			gca.GameSession.Close()
			return
		}

		<-gameOver
		gca.GameSession.log.Info("HandleHttpCall session over")
	}
}

// Loop creates sessions until ctx is done, then closes the ones still live.
func (s *GameServer) Loop(ctx context.Context) {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case <-ctx.Done():
			log.Printf("GameServer.Loop stopped")
			s.closeSessions()
			return
		case gameReq := <-s.GameRequests:
			s.serve(gameReq)
		}
	}
}

func (s *GameServer) serve(gameReq GameRequest) {
	code, gs := s.newSession(gameReq)
	if gs != nil {
		s.mu.Lock()
		s.GameSessions[gs.Id] = gs
		s.mu.Unlock()
		go gs.Loop()
	}
	gameReq.GameContextAwaiting <- GameContextAwaiting{
		ResponseCode: code,
		GameSession:  gs,
	}
}

func (s *GameServer) newSession(req GameRequest) (ResponseCode, *GameSession) {
	var opts []model.BoardOption
	if s.Seed != 0 {
		opts = append(opts, model.WithSeed(s.Seed))
	}

	var board *model.Board
	var err error
	switch {
	case req.Custom != nil:
		c := req.Custom
		if err = model.Validate(c.Rows, c.Cols, c.Mines); err == nil && c.Rows > s.MaxCells/c.Cols {
			err = fmt.Errorf("custom board %dx%d over %d cells", c.Rows, c.Cols, s.MaxCells)
		}
		if err == nil {
			board, err = model.NewBoard(c.Rows, c.Cols, c.Mines, opts...)
		}
	case req.Preset != "":
		preset, perr := s.Presets.Get(req.Preset)
		if perr != nil {
			log.Warnf("newSession %v", perr)
			return GAME_NOT_FOUND, nil
		}
		board, err = model.NewBoard(preset.Rows, preset.Cols, preset.Mines, opts...)
	case s.Layout != nil:
		board, err = s.Layout.NewBoard(opts...)
	default:
		preset, perr := s.Presets.Get(s.DefaultPreset)
		if perr != nil {
			log.Errorf("newSession default preset %v", perr)
			return GAME_NOT_FOUND, nil
		}
		board, err = model.NewBoard(preset.Rows, preset.Cols, preset.Mines, opts...)
	}
	if err != nil {
		log.Warnf("newSession %v", err)
		return GAME_INVALIDE, nil
	}

	gs := NewGameSession(board)
	gs.onEnd = s.removeSession
	return GAME_READY, gs
}

// NewGameSession binds a session to every cell of the board, so the cells a
// move touches can be sent back after it.
func NewGameSession(board *model.Board) *GameSession {
	id := uuid.NewString()
	gs := &GameSession{
		Id:                    id,
		State:                 GS_NEW,
		Board:                 board,
		Errors:                make(chan struct{}, 2),
		Events:                make(chan PlayerEvent, 10),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		log:                   log.WithField("session", id),
		quit:                  make(chan struct{}),
		seen:                  make(map[*model.Cell]bool),
	}
	board.ForEachCell(func(c *model.Cell) {
		c.OnEvent(gs.onCellEvent)
	})
	board.OnResult(func(r model.RoundResult) {
		gs.results = append(gs.results, r)
	})
	return gs
}

// Close ends the session loop. It never blocks; a session that already
// failed keeps its pending error.
func (gs *GameSession) Close() {
	select {
	case gs.Errors <- struct{}{}:
	default:
	}
}

func (gs *GameSession) onCellEvent(c *model.Cell, e model.CellEvent) {
	if gs.seen[c] {
		return
	}
	gs.seen[c] = true
	gs.dirty = append(gs.dirty, c)
}

func (gs *GameSession) flush() ([]model.CellView, []model.RoundResult) {
	views := make([]model.CellView, 0, len(gs.dirty))
	for _, c := range gs.dirty {
		views = append(views, model.ViewOf(c))
	}
	results := gs.results
	gs.dirty = nil
	gs.seen = make(map[*model.Cell]bool)
	gs.results = nil
	return views, results
}

func (gs *GameSession) snapshot() []model.CellView {
	views := make([]model.CellView, 0, gs.Board.Rows()*gs.Board.Cols())
	gs.Board.ForEachCell(func(c *model.Cell) {
		views = append(views, model.ViewOf(c))
	})
	return views
}

func (gs *GameSession) Loop() {
	gs.log.Info("GameSession.Loop start")
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			gs.addPlayer(pcr.Con, pcr.GameOver)
			gs.State = GS_PLAY
			gs.Player.State = PS_PLAY
			gs.Player.MessagesToSend <- gs.MakeGameSetupMessage()
		case <-gs.Errors:
			gs.log.Warn("killing GS")
			gs.State = GS_ERR
			close(gs.quit)
			if gs.Player != nil {
				gs.Player.State = PS_ERR
				close(gs.Player.GameOver)
			}
			if gs.onEnd != nil {
				gs.onEnd(gs.Id)
			}
			return
		case pe := <-gs.Events:
			message := gs.Turn(pe)
			if message != nil && gs.Player != nil {
				select {
				case gs.Player.MessagesToSend <- *message:
				default:
					gs.log.Warn("GameSession.Loop MessagesToSend FULL")
				}
			}
		}
	}
}

// Turn applies one move to the board. Moves other than restart are dropped
// once the round is over.
func (gs *GameSession) Turn(pe PlayerEvent) *model.ServerMessage {
	m := pe.Message
	switch m.Action {
	case model.ActionRestart:
		gs.Board.Restart()
		gs.flush()
		gs.State = GS_PLAY
		return &model.ServerMessage{Cells: gs.snapshot()}
	case model.ActionReveal, model.ActionFlag:
		if gs.State != GS_PLAY {
			gs.log.Debugf("Turn ignored in state %s", gs.State.Name())
			return nil
		}
		if m.Action == model.ActionReveal {
			gs.Board.Reveal(m.Row, m.Col)
		} else {
			gs.Board.ToggleFlag(m.Row, m.Col)
		}
		cells, results := gs.flush()
		if len(results) > 0 {
			gs.State = GS_OVER
			gs.log.WithField("won", results[len(results)-1].Won).Info("round over")
		}
		return &model.ServerMessage{Cells: cells, Results: results}
	default:
		gs.log.Warnf("Turn unknown action %d", m.Action)
		return nil
	}
}

func (gs *GameSession) MakeGameSetupMessage() model.ServerMessage {
	return model.ServerMessage{
		Setup: []model.Setup{{
			Session: gs.Id,
			Rows:    gs.Board.Rows(),
			Cols:    gs.Board.Cols(),
			Mines:   gs.Board.Mines(),
		}},
		Cells: gs.snapshot(),
	}
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) {
	gs.log.Printf("GameSession.addPlayer")
	ps := &PlayerSession{
		State:          PS_NEW,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			var netErr net.Error
			if err == websocket.ErrCloseSent {
				return nil
			} else if errors.As(err, &netErr) && netErr.Timeout() {
				return nil
			}
			return err
		})
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
	gs.Player = ps
}

func (ps *PlayerSession) fail() {
	ps.GameSession.Close()
}

func (ps *PlayerSession) LoopChannelRead() {
	logger := ps.GameSession.log
	logger.Printf("LoopChannelRead STARTED")
loop:
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			logger.Printf("LoopChannelRead err reading message from Conn %v", err)
			ps.fail()
			break loop
		}
		cm := &model.ClientMessage{}
		if err = gob.NewDecoder(r).Decode(cm); err != nil {
			logger.Warnf("LoopChannelRead cant decode %v", err)
			ps.fail()
			break loop
		}

		select {
		case ps.GameSession.Events <- PlayerEvent{Message: *cm}:
		case <-ps.GameSession.quit:
			break loop
		default:
			logger.Warnf("Dropping message read from socket, GameSession.Events FULL")
		}
	}
	logger.Printf("LoopChannelRead ENDED")
}

// this function only consumes. no worries about full buffer stuck
func (ps *PlayerSession) LoopChannelWrite() {
	logger := ps.GameSession.log
	logger.Printf("PlayerSession.LoopChannelWrite STARTED")
loop:
	for {
		select {
		case <-ps.GameSession.quit:
			break loop
		case mes := <-ps.MessagesToSend:
			w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				logger.Warnf("PlayerSession.LoopChannelWrite cant get writer %v", err)
				ps.fail()
				break loop
			}
			if err = gob.NewEncoder(w).Encode(mes); err != nil {
				logger.Warnf("PlayerSession.LoopChannelWrite cant encode %v", err)
				ps.fail()
				break loop
			}
			if err = w.Close(); err != nil {
				logger.Warnf("PlayerSession.LoopChannelWrite cant flush %v", err)
				ps.fail()
				break loop
			}
		}
	}
	logger.Printf("LoopChannelWrite ENDED")
}
