package loop

import (
	"time"

	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/object"
)

// OnTap routes a tap in layout coordinates: the visible pickup first, then
// beetles in collection order, otherwise a miss. Taps outside Playing are
// ignored.
func (r *Round) OnTap(x, y float64) TapResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase != PhasePlaying {
		return TapIgnored
	}

	result := TapMiss
	if r.bonus.Contains(x, y) {
		r.claimBonusLocked()
		result = TapBonus
	} else if b := r.beetleAt(x, y); b != nil {
		b.MarkDestroyed()
		r.beetles = object.Compact(r.beetles)
		r.state.Score += config.ScoreHit
		result = TapHit
	} else {
		r.state.Score += config.ScoreMiss
	}

	r.publishLocked()
	return result
}

// OnBonusPickupTap claims the pickup directly, for frontends that hit-test
// it themselves. Reports whether a claim happened.
func (r *Round) OnBonusPickupTap() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase != PhasePlaying || !r.state.ShowBonus {
		return false
	}
	r.claimBonusLocked()
	r.publishLocked()
	return true
}

func (r *Round) beetleAt(x, y float64) *object.Beetle {
	for _, b := range r.beetles {
		if b.Alive && b.Contains(x, y) {
			return b
		}
	}
	return nil
}

// claimBonusLocked awards the pickup and (re)starts tilt mode. A claim
// while tilt mode is running restarts its countdown.
func (r *Round) claimBonusLocked() {
	r.bonus.Hide()
	r.state.ShowBonus = false
	r.sched.Cancel(TaskBonusExpire)

	wasActive := r.state.BonusActive
	r.state.Score += config.ScoreBonus
	r.state.BonusActive = true
	r.state.BonusTimeLeft = config.BonusDurationSeconds
	r.sched.Schedule(TaskBonusDuration, time.Second)

	if !r.subscribed {
		if err := r.tilt.Subscribe(r.mailbox); err != nil {
			r.logger.Debug("bonus without tilt", "err", err)
		} else {
			r.subscribed = true
		}
	}
	if !wasActive {
		r.cue.PlayLoop()
	}
	r.logger.Debug("bonus claimed", "score", r.state.Score)
}
