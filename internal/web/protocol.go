package web

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/object"
)

// Message types sent by the browser.
const (
	MsgStart  = "start"
	MsgResize = "resize"
	MsgTap    = "tap"
	MsgBonus  = "bonus"
	MsgTilt   = "tilt"
	MsgReset  = "reset"
	MsgEnd    = "end"
)

// Message types sent by the server.
const (
	MsgWelcome  = "welcome"
	MsgFrame    = "frame"
	MsgTapped   = "tapped"
	MsgError    = "error"
	MsgShutdown = "shutdown"
)

// Envelope is an inbound message. The payload is decoded once the type is known.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// Outbound is an outbound message, encoded by the session's codec.
type Outbound struct {
	T string `json:"t" msgpack:"t"`
	P any    `json:"p,omitempty" msgpack:"p,omitempty"`
}

// StartPayload starts a round on a layout of the browser's size.
type StartPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Tier   string  `json:"tier"`
}

// ResizePayload reports a new layout size.
type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointPayload carries a tap position or a tilt sample.
type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DecodeEnvelope parses an inbound message.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("message without type")
	}
	return e, nil
}

// DecodePayload decodes the payload of env into a T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}

// Welcome is the first message of a session.
type Welcome struct {
	ClientID int        `json:"clientId" msgpack:"clientId"`
	Username string     `json:"username" msgpack:"username"`
	PlayerID int64      `json:"playerId" msgpack:"playerId"`
	Tiers    []TierInfo `json:"tiers" msgpack:"tiers"`
}

// TierInfo describes one selectable difficulty.
type TierInfo struct {
	Name          string  `json:"name" msgpack:"name"`
	GameSpeed     float64 `json:"gameSpeed" msgpack:"gameSpeed"`
	MaxBeetles    int     `json:"maxBeetles" msgpack:"maxBeetles"`
	RoundDuration int     `json:"roundDuration" msgpack:"roundDuration"`
}

// Tapped reports what a tap did.
type Tapped struct {
	Result string `json:"result" msgpack:"result"`
	Score  int    `json:"score" msgpack:"score"`
}

// ErrorInfo reports a rejected request.
type ErrorInfo struct {
	Message string `json:"message" msgpack:"message"`
}

// Frame is the wire form of a round snapshot.
type Frame struct {
	Phase         string        `json:"phase" msgpack:"phase"`
	Score         int           `json:"score" msgpack:"score"`
	TimeLeft      int           `json:"timeLeft" msgpack:"timeLeft"`
	Countdown     int           `json:"countdown" msgpack:"countdown"`
	MaxBeetles    int           `json:"maxBeetles" msgpack:"maxBeetles"`
	RoundDuration int           `json:"roundDuration" msgpack:"roundDuration"`
	GameOver      bool          `json:"gameOver" msgpack:"gameOver"`
	BonusActive   bool          `json:"bonusActive" msgpack:"bonusActive"`
	BonusTimeLeft int           `json:"bonusTimeLeft" msgpack:"bonusTimeLeft"`
	Bonus         *Box          `json:"bonus,omitempty" msgpack:"bonus,omitempty"`
	Beetles       []BeetleState `json:"beetles" msgpack:"beetles"`
	Width         float64       `json:"width" msgpack:"width"`
	Height        float64       `json:"height" msgpack:"height"`
	TopInset      float64       `json:"topInset" msgpack:"topInset"`
	BottomInset   float64       `json:"bottomInset" msgpack:"bottomInset"`
	Tick          int64         `json:"tick" msgpack:"tick"` // virtual milliseconds
}

// Box is a square on the layout.
type Box struct {
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Size float64 `json:"size" msgpack:"size"`
}

// BeetleState is one live beetle.
type BeetleState struct {
	ID       int     `json:"id" msgpack:"id"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Rotation float64 `json:"rotation" msgpack:"rotation"`
}

// NewFrame converts a snapshot to its wire form.
func NewFrame(snap *loop.Snapshot) Frame {
	st := snap.State
	f := Frame{
		Phase:         st.Phase.String(),
		Score:         st.Score,
		TimeLeft:      st.TimeLeft,
		Countdown:     st.Countdown,
		MaxBeetles:    st.MaxBeetles,
		RoundDuration: st.RoundDuration,
		GameOver:      st.GameOver,
		BonusActive:   st.BonusActive,
		BonusTimeLeft: st.BonusTimeLeft,
		Beetles:       make([]BeetleState, 0, len(snap.Beetles)),
		Width:         snap.Bounds.Width,
		Height:        snap.Bounds.Height,
		TopInset:      snap.Bounds.TopInset,
		BottomInset:   snap.Bounds.BottomInset,
		Tick:          snap.Tick.Milliseconds(),
	}
	if st.ShowBonus {
		f.Bonus = &Box{X: st.BonusX, Y: st.BonusY, Size: object.BonusSize}
	}
	for _, b := range snap.Beetles {
		f.Beetles = append(f.Beetles, BeetleState{
			ID:       b.ID,
			X:        round1(b.X),
			Y:        round1(b.Y),
			Rotation: round1(b.Rotation),
		})
	}
	return f
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
