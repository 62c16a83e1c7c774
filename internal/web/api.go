package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/store"
)

// RegisterRequest is the body of POST /api/players.
type RegisterRequest struct {
	FullName   string `json:"fullName"`
	Gender     string `json:"gender"`
	Course     string `json:"course"`
	Difficulty int    `json:"difficulty"`
	BirthDate  string `json:"birthDate"`
}

// LeaderboardEntry is one row of GET /api/leaderboard.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	Score      int    `json:"score"`
	Games      int    `json:"games"`
	ZodiacSign string `json:"zodiacSign"`
}

// decodePlayer reads and validates a player body. It writes the 400
// itself and reports false on failure.
func decodePlayer(w http.ResponseWriter, r *http.Request) (RegisterRequest, bool) {
	var req RegisterRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<14))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return req, false
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		writeError(w, http.StatusBadRequest, "fullName is required")
		return req, false
	}
	if req.BirthDate != "" {
		if _, err := store.ZodiacFromDate(req.BirthDate); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return req, false
		}
	}
	return req, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlayer(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.PersistTimeout)
	defer cancel()
	id, err := s.store.RegisterPlayer(ctx, store.Player{
		FullName:   server.TruncateUsername(req.FullName),
		Gender:     req.Gender,
		Course:     req.Course,
		Difficulty: req.Difficulty,
		BirthDate:  req.BirthDate,
	})
	if err != nil {
		s.internalError(w, "register player", err)
		return
	}
	p, err := s.store.PlayerByID(ctx, id)
	if err != nil {
		s.internalError(w, "load player", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.store.PlayerByID(r.Context(), id)
	if errors.Is(err, store.ErrPlayerNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, "load player", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.AllPlayers(r.Context())
	if err != nil {
		s.internalError(w, "list players", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(players))
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodePlayer(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.PersistTimeout)
	defer cancel()
	err := s.store.UpdatePlayer(ctx, store.Player{
		ID:         id,
		FullName:   server.TruncateUsername(req.FullName),
		Gender:     req.Gender,
		Course:     req.Course,
		Difficulty: req.Difficulty,
		BirthDate:  req.BirthDate,
	})
	if errors.Is(err, store.ErrPlayerNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, "update player", err)
		return
	}
	p, err := s.store.PlayerByID(ctx, id)
	if err != nil {
		s.internalError(w, "load player", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := s.store.DeletePlayer(r.Context(), id)
	if errors.Is(err, store.ErrPlayerNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, "delete player", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePlayerRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeletePlayerRecords(r.Context(), id); err != nil {
		s.internalError(w, "delete records", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlayerRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.PlayerByID(r.Context(), id); errors.Is(err, store.ErrPlayerNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	records, err := s.store.PlayerRecords(r.Context(), id)
	if err != nil {
		s.internalError(w, "player records", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

func (s *Server) handleTopPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.TopPlayers(r.Context(), limitParam(r))
	if err != nil {
		s.internalError(w, "top players", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(players))
}

func (s *Server) handleTopRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.TopRecords(r.Context(), limitParam(r))
	if err != nil {
		s.internalError(w, "top records", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

func (s *Server) handleRecentRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.RecentRecords(r.Context(), limitParam(r))
	if err != nil {
		s.internalError(w, "recent records", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

// handleLeaderboard serves the host's cached leaderboard.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board := s.host.Leaderboard()
	out := make([]LeaderboardEntry, 0, len(board))
	for _, e := range board {
		out = append(out, LeaderboardEntry{Username: e.Username, Score: e.Score, Games: e.Games, ZodiacSign: e.ZodiacSign})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleHealth reports 503 when the store is unreachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"players": s.host.Players()})
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.logger.Error(what, "err", err)
	writeError(w, http.StatusInternalServerError, what+" failed")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return 0, false
	}
	return id, true
}

// limitParam reads ?limit=, defaulting to the leaderboard size and capped at 100.
func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return config.LeaderboardSize
	}
	return min(n, 100)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorInfo{Message: msg})
}
