package web

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/tilt"
)

const (
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

// session is one browser playing over a websocket. The read loop applies
// inputs to the round; a single writer goroutine owns all writes.
type session struct {
	conn   *websocket.Conn
	handle *server.ClientHandle
	tiers  difficulty.Table
	codec  Codec
	logger *log.Logger

	out        chan Outbound
	done       chan struct{} // closed when the read loop ends
	writerDone chan struct{} // closed when the writer ends
}

func newSession(conn *websocket.Conn, handle *server.ClientHandle, tiers difficulty.Table, codec Codec, logger *log.Logger) *session {
	return &session{
		conn:       conn,
		handle:     handle,
		tiers:      tiers,
		codec:      codec,
		logger:     logger,
		out:        make(chan Outbound, 16),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
}

// run serves the session until the browser leaves or the server shuts down.
func (s *session) run() {
	s.conn.SetReadLimit(readLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		s.writeLoop()
		close(s.writerDone)
	}()

	s.send(Outbound{T: MsgWelcome, P: s.welcome()})
	s.readLoop()

	close(s.done)
	<-s.writerDone
}

func (s *session) welcome() Welcome {
	w := Welcome{
		ClientID: s.handle.ID,
		Username: s.handle.Username,
		PlayerID: s.handle.PlayerID,
	}
	for _, tier := range difficulty.Tiers {
		st := s.tiers.Settings(tier)
		w.Tiers = append(w.Tiers, TierInfo{
			Name:          tier.String(),
			GameSpeed:     st.GameSpeed,
			MaxBeetles:    st.MaxBeetles,
			RoundDuration: st.RoundDuration,
		})
	}
	return w
}

// send queues a message for the writer. Dropped once the session is closing.
func (s *session) send(msg Outbound) {
	select {
	case s.out <- msg:
	case <-s.done:
	case <-s.writerDone:
	}
}

func (s *session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read", "err", err)
			}
			return
		}
		env, err := DecodeEnvelope(data)
		if err != nil {
			s.send(Outbound{T: MsgError, P: ErrorInfo{Message: err.Error()}})
			continue
		}
		if err := s.apply(env); err != nil {
			s.logger.Debug("rejected message", "type", env.T, "err", err)
			s.send(Outbound{T: MsgError, P: ErrorInfo{Message: err.Error()}})
		}
	}
}

// apply applies one inbound message to the round.
func (s *session) apply(env Envelope) error {
	round := s.handle.Round
	switch env.T {
	case MsgStart:
		p, err := DecodePayload[StartPayload](env)
		if err != nil {
			return err
		}
		tier, err := difficulty.ParseTier(p.Tier)
		if err != nil {
			return err
		}
		round.ResetRound()
		round.SetPlayer(s.handle.PlayerID)
		s.handle.Tilt.Push(tilt.Sample{})
		return round.InitRound(p.Width, p.Height, difficulty.Resolve(s.tiers.Settings(tier)))
	case MsgResize:
		p, err := DecodePayload[ResizePayload](env)
		if err != nil {
			return err
		}
		return round.UpdateBounds(p.Width, p.Height)
	case MsgTap:
		p, err := DecodePayload[PointPayload](env)
		if err != nil {
			return err
		}
		result := round.OnTap(p.X, p.Y)
		if result != loop.TapIgnored {
			s.send(Outbound{T: MsgTapped, P: Tapped{Result: result.String(), Score: round.Snapshot().State.Score}})
		}
	case MsgBonus:
		if round.OnBonusPickupTap() {
			s.send(Outbound{T: MsgTapped, P: Tapped{Result: loop.TapBonus.String(), Score: round.Snapshot().State.Score}})
		}
	case MsgTilt:
		p, err := DecodePayload[PointPayload](env)
		if err != nil {
			return err
		}
		s.handle.Tilt.Push(tilt.Sample{X: p.X, Y: p.Y})
	case MsgReset:
		round.ResetRound()
	case MsgEnd:
		round.EndRound()
	default:
		return errors.New("unknown message type " + env.T)
	}
	return nil
}

// writeLoop sends queued replies, a frame whenever the round changed, and
// keepalive pings. It closes the connection when it returns, which also
// stops the read loop.
func (s *session) writeLoop() {
	frames := time.NewTicker(config.ClientTargetFrameTime)
	defer frames.Stop()
	pings := time.NewTicker(pingInterval)
	defer pings.Stop()
	defer s.conn.Close()

	var last *loop.Snapshot
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.out:
			if err := s.write(msg); err != nil {
				return
			}
		case ev, ok := <-s.handle.EventsCh:
			if !ok || ev.Type == server.EventServerShutdown {
				s.handle.Round.EndRound()
				_ = s.write(Outbound{T: MsgShutdown})
				_ = s.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
		case <-frames.C:
			snap := s.handle.Round.Snapshot()
			if snap == last {
				continue
			}
			last = snap
			if err := s.write(Outbound{T: MsgFrame, P: NewFrame(snap)}); err != nil {
				return
			}
		case <-pings.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) write(msg Outbound) error {
	data, err := s.codec.Marshal(msg)
	if err != nil {
		s.logger.Error("encode", "type", msg.T, "err", err)
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(s.codec.MessageType(), data); err != nil {
		s.logger.Debug("write", "err", err)
		return err
	}
	return nil
}
