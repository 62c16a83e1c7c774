// Package web serves the game to browsers: a websocket play session per
// tab, a JSON API over the player store, and the page itself.
package web

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/store"
)

//go:embed static/index.html
var indexPage []byte

// Store is the part of the player store the JSON API reads and writes.
type Store interface {
	RegisterPlayer(ctx context.Context, p store.Player) (int64, error)
	UpdatePlayer(ctx context.Context, p store.Player) error
	DeletePlayer(ctx context.Context, id int64) error
	PlayerByID(ctx context.Context, id int64) (store.Player, error)
	AllPlayers(ctx context.Context) ([]store.Player, error)
	TopPlayers(ctx context.Context, limit int) ([]store.Player, error)
	PlayerRecords(ctx context.Context, playerID int64) ([]store.GameRecord, error)
	TopRecords(ctx context.Context, limit int) ([]store.RecordWithPlayer, error)
	RecentRecords(ctx context.Context, limit int) ([]store.RecordWithPlayer, error)
	DeletePlayerRecords(ctx context.Context, playerID int64) error
	Ping(ctx context.Context) error
}

// Options configures a Server. Store may be nil, which disables the API.
type Options struct {
	Host   server.GameServer
	Store  Store
	Logger *log.Logger
	// AllowedOrigin restricts websocket upgrades to one Origin. Empty allows any.
	AllowedOrigin string
}

// Server is the HTTP front of the game.
type Server struct {
	host     server.GameServer
	store    Store
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates the web frontend over a running host.
func NewServer(opts Options) *Server {
	s := &Server{
		host:   opts.Host,
		store:  opts.Store,
		logger: opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	origin := opts.AllowedOrigin
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return origin == "" || r.Header.Get("Origin") == origin
		},
	}
	return s
}

// Handler returns the routes of the web frontend.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWS)
	if s.store != nil {
		mux.HandleFunc("GET /api/players", s.handlePlayers)
		mux.HandleFunc("POST /api/players", s.handleRegister)
		mux.HandleFunc("GET /api/players/top", s.handleTopPlayers)
		mux.HandleFunc("GET /api/players/{id}", s.handlePlayer)
		mux.HandleFunc("PUT /api/players/{id}", s.handleUpdatePlayer)
		mux.HandleFunc("DELETE /api/players/{id}", s.handleDeletePlayer)
		mux.HandleFunc("GET /api/players/{id}/records", s.handlePlayerRecords)
		mux.HandleFunc("DELETE /api/players/{id}/records", s.handleDeletePlayerRecords)
		mux.HandleFunc("GET /api/records/top", s.handleTopRecords)
		mux.HandleFunc("GET /api/records/recent", s.handleRecentRecords)
	}
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

// handleWS upgrades to a play session: /ws?name=<player>&codec=json|msgpack.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	codec, err := CodecByName(q.Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade", "remote", r.RemoteAddr, "err", err)
		return
	}

	handle, err := s.host.RegisterClient(q.Get("name"))
	if err != nil {
		s.logger.Error("register client", "remote", r.RemoteAddr, "err", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "registration failed"))
		conn.Close()
		return
	}
	defer s.host.UnregisterClient(handle.ID)

	logger := s.logger.With("client", handle.ID, "user", handle.Username, "codec", codec.Name())
	logger.Info("websocket session started", "remote", r.RemoteAddr)
	newSession(conn, handle, s.host.Tiers(), codec, logger).run()
	logger.Info("websocket session ended")
}
