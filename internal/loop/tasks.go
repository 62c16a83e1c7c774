package loop

import (
	"time"

	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/object"
)

// Task bodies run inside Scheduler.Advance with r.mu held.

func (r *Round) countdownStep() (time.Duration, bool) {
	r.state.Countdown--
	if r.state.Countdown > 0 {
		return config.SecondTick, true
	}

	r.state.Countdown = 0
	r.state.Started = true
	r.state.Phase = PhasePlaying

	r.sched.Schedule(TaskRoundTimer, config.SecondTick)
	r.sched.Schedule(TaskSpawn, 0)
	r.sched.Schedule(TaskBonusOffer, r.profile.BonusInterval)
	r.sched.Schedule(TaskPhysics, config.PhysicsTick)

	r.logger.Info("round started", "player", r.playerID, "speed", r.profile.GameSpeed,
		"cap", r.profile.PopulationCap, "duration", r.state.RoundDuration)
	return 0, false
}

func (r *Round) roundTimerStep() (time.Duration, bool) {
	r.state.TimeLeft--
	if r.state.TimeLeft > 0 {
		return config.SecondTick, true
	}
	r.state.TimeLeft = 0
	r.endRoundLocked()
	return 0, false
}

func (r *Round) spawnStep() (time.Duration, bool) {
	b, ok := r.spawner.MaybeSpawn(len(r.beetles), r.profile.PopulationCap, object.SpawnParams{
		Bounds:            r.bounds,
		GameSpeed:         r.profile.GameSpeed,
		DirectionInterval: r.profile.DirectionChangeInterval,
	}, r.beetles)
	if !ok {
		return config.SpawnRetryDelay, true
	}
	r.beetles = append(r.beetles, b)
	return r.profile.SpawnDelay, true
}

func (r *Round) physicsStep() (time.Duration, bool) {
	ctx := object.StepContext{
		Bounds:            r.bounds,
		Dt:                config.PhysicsTick.Seconds(),
		GameSpeed:         r.profile.GameSpeed,
		DirectionInterval: r.profile.DirectionChangeInterval,
		WallDamping:       r.profile.WallBounceDamping,
		BonusActive:       r.state.BonusActive,
		Rand:              r.rng,
	}
	if r.state.BonusActive {
		sample := r.mailbox.Latest()
		ctx.TiltX, ctx.TiltY = sample.X, sample.Y
	}

	for _, b := range r.beetles {
		b.Step(ctx)
	}
	r.beetles = object.Compact(r.beetles)
	return config.PhysicsTick, true
}

func (r *Round) bonusOfferStep() (time.Duration, bool) {
	r.bonus.Offer(r.bounds, r.rng)
	r.state.ShowBonus = true
	r.state.BonusX, r.state.BonusY = r.bonus.X, r.bonus.Y
	r.sched.Schedule(TaskBonusExpire, config.BonusVisibleFor)

	r.logger.Debug("bonus offered", "x", r.bonus.X, "y", r.bonus.Y)
	return r.profile.BonusInterval, true
}

func (r *Round) bonusExpireStep() (time.Duration, bool) {
	if r.state.ShowBonus {
		r.bonus.Hide()
		r.state.ShowBonus = false
		r.logger.Debug("bonus missed")
	}
	return 0, false
}

func (r *Round) bonusDurationStep() (time.Duration, bool) {
	r.state.BonusTimeLeft--
	if r.state.BonusTimeLeft > 0 {
		return config.SecondTick, true
	}
	r.deactivateBonusLocked()
	r.logger.Debug("bonus ended")
	return 0, false
}

// deactivateBonusLocked leaves tilt mode: no more samples, no audio, and
// every beetle loses its accumulated gravity.
func (r *Round) deactivateBonusLocked() {
	r.sched.Cancel(TaskBonusDuration)
	if r.subscribed {
		r.tilt.Unsubscribe(r.mailbox)
		r.subscribed = false
	}
	r.mailbox.Drain()
	if r.state.BonusActive {
		r.cue.Stop()
	}
	r.state.BonusActive = false
	r.state.BonusTimeLeft = 0
	for _, b := range r.beetles {
		b.ResetGravity()
	}
}

func (r *Round) endRoundLocked() {
	if r.state.GameOver {
		return
	}
	started := r.state.Started

	r.sched.CancelAll()
	r.deactivateBonusLocked()
	r.bonus.Hide()
	r.state.ShowBonus = false
	r.state.Countdown = 0
	r.state.GameOver = true
	r.state.Phase = PhaseGameOver

	r.logger.Info("round over", "player", r.playerID, "score", r.state.Score, "started", started)
	if started {
		r.recordLocked()
	}
}
