package loop

import (
	"context"

	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/store"
)

// Recorder persists round results.
type Recorder interface {
	InsertGameRecord(ctx context.Context, rec store.GameRecord) (int64, error)
	// UpdateBestScoreIfHigher raises the player's best score and counts
	// the game, returning the number of rows changed.
	UpdateBestScoreIfHigher(ctx context.Context, playerID int64, score int) (int64, error)
	IncrementPlayCount(ctx context.Context, playerID int64) error
}

// Cue is the looping sound played while tilt mode runs.
type Cue interface {
	PlayLoop()
	Stop()
}

type silentCue struct{}

func (silentCue) PlayLoop() {}
func (silentCue) Stop()     {}

// recordLocked hands the finished round to the recorder on its own
// goroutine. Failures are logged and dropped.
func (r *Round) recordLocked() {
	if r.recorder == nil || !r.hasPlayer {
		r.logger.Debug("round not recorded", "hasPlayer", r.hasPlayer)
		return
	}

	rec := store.GameRecord{
		PlayerID:      r.playerID,
		Score:         r.state.Score,
		Difficulty:    r.profile.Difficulty,
		GameSpeed:     r.profile.GameSpeed,
		MaxBeetles:    r.profile.PopulationCap,
		RoundDuration: r.state.RoundDuration,
		PlayedAt:      r.now(),
	}

	r.persist.Add(1)
	go func() {
		defer r.persist.Done()
		r.writeRecord(rec)
	}()
}

func (r *Round) writeRecord(rec store.GameRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), config.PersistTimeout)
	defer cancel()

	err := retryOnce(func() error {
		_, err := r.recorder.InsertGameRecord(ctx, rec)
		return err
	})
	if err != nil {
		r.logger.Warn("save game record", "player", rec.PlayerID, "score", rec.Score, "err", err)
		return
	}

	var updated int64
	err = retryOnce(func() error {
		n, err := r.recorder.UpdateBestScoreIfHigher(ctx, rec.PlayerID, rec.Score)
		updated = n
		return err
	})
	if err != nil {
		r.logger.Warn("update best score", "player", rec.PlayerID, "err", err)
		return
	}
	if updated == 0 {
		if err := retryOnce(func() error { return r.recorder.IncrementPlayCount(ctx, rec.PlayerID) }); err != nil {
			r.logger.Warn("increment play count", "player", rec.PlayerID, "err", err)
			return
		}
	}

	r.logger.Info("round recorded", "player", rec.PlayerID, "score", rec.Score, "best", updated > 0)
}

func retryOnce(fn func() error) error {
	if err := fn(); err == nil {
		return nil
	}
	return fn()
}
