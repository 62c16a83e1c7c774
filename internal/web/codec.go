package web

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes outbound messages for one session.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	// MessageType is the websocket frame type the encoding travels in.
	MessageType() int
}

type jsonCodec struct{}

func (jsonCodec) Name() string                  { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) MessageType() int              { return websocket.TextMessage }

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}
func (msgpackCodec) MessageType() int { return websocket.BinaryMessage }

// CodecByName returns the codec for a ?codec= query value. Empty means JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return jsonCodec{}, nil
	case "msgpack":
		return msgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
