package loop

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/object"
	"github.com/tomz197/beetles/internal/tilt"
)

var (
	// ErrAlreadyInitialized is returned by InitRound when the round has
	// left Idle. Call ResetRound first.
	ErrAlreadyInitialized = errors.New("round already initialized")
	// ErrBoundsTooSmall is returned when the playable rectangle cannot hold
	// a beetle or the bonus pickup.
	ErrBoundsTooSmall = errors.New("playable area too small")
	// ErrInvalidProfile is returned when a profile has a non-positive
	// cap, spawn delay, bonus interval or a round shorter than a second.
	// Profiles from difficulty.Resolve are always valid.
	ErrInvalidProfile = errors.New("invalid difficulty profile")
)

// Options configures a Round. Zero fields get working defaults: no
// persistence, silent audio, no tilt sensor, the default logger, a
// time-seeded random source and the wall clock.
type Options struct {
	Recorder Recorder
	Cue      Cue
	Tilt     tilt.Source
	Logger   *log.Logger
	Rand     *rand.Rand
	Now      func() time.Time
}

// Round owns the state of one player's game and every timer that mutates
// it. All mutation happens under mu: scheduler steps from Advance, and
// inputs from the frontend. Readers use Snapshot, which never blocks.
type Round struct {
	mu sync.Mutex

	sched      *Scheduler
	rng        *rand.Rand
	spawner    *object.BeetleSpawner
	mailbox    *tilt.Mailbox
	tilt       tilt.Source
	subscribed bool
	recorder   Recorder
	cue        Cue
	logger     *log.Logger
	now        func() time.Time

	state     GameState
	beetles   []*object.Beetle
	bonus     object.Bonus
	bounds    object.Bounds
	profile   difficulty.Profile
	playerID  int64
	hasPlayer bool

	snapshot atomic.Pointer[Snapshot]
	persist  sync.WaitGroup
}

// NewRound creates an idle round.
func NewRound(opts Options) *Round {
	r := &Round{
		sched:    NewScheduler(),
		rng:      opts.Rand,
		mailbox:  tilt.NewMailbox(),
		tilt:     opts.Tilt,
		recorder: opts.Recorder,
		cue:      opts.Cue,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if r.tilt == nil {
		r.tilt = tilt.Unavailable{}
	}
	if r.cue == nil {
		r.cue = silentCue{}
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	r.spawner = object.NewBeetleSpawner(r.rng)

	r.sched.Register(TaskCountdown, r.countdownStep)
	r.sched.Register(TaskRoundTimer, r.roundTimerStep)
	r.sched.Register(TaskBonusExpire, r.bonusExpireStep)
	r.sched.Register(TaskBonusDuration, r.bonusDurationStep)
	r.sched.Register(TaskBonusOffer, r.bonusOfferStep)
	r.sched.Register(TaskSpawn, r.spawnStep)
	r.sched.Register(TaskPhysics, r.physicsStep)

	r.publishLocked()
	return r
}

// InitRound starts the pre-round countdown on a layout of the given size.
func (r *Round) InitRound(width, height float64, profile difficulty.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase != PhaseIdle {
		return ErrAlreadyInitialized
	}
	if err := checkProfile(profile); err != nil {
		return err
	}
	bounds := object.NewBounds(width, height)
	if !bounds.Fits(object.BeetleSize) || !bounds.Fits(object.BonusSize) {
		return fmt.Errorf("%w: %.0fx%.0f", ErrBoundsTooSmall, width, height)
	}

	r.bounds = bounds
	r.profile = profile
	seconds := profile.RoundSeconds()
	r.state = GameState{
		Phase:         PhaseCountdown,
		TimeLeft:      seconds,
		MaxBeetles:    profile.PopulationCap,
		GameSpeed:     profile.GameSpeed,
		RoundDuration: seconds,
		Countdown:     config.CountdownSeconds,
	}
	r.sched.Schedule(TaskCountdown, config.SecondTick)

	r.logger.Debug("round initialized", "width", width, "height", height,
		"speed", profile.GameSpeed, "cap", profile.PopulationCap, "duration", seconds)
	r.publishLocked()
	return nil
}

func checkProfile(p difficulty.Profile) error {
	switch {
	case p.PopulationCap < 1:
		return fmt.Errorf("%w: population cap %d", ErrInvalidProfile, p.PopulationCap)
	case p.SpawnDelay <= 0:
		return fmt.Errorf("%w: spawn delay %v", ErrInvalidProfile, p.SpawnDelay)
	case p.BonusInterval <= 0:
		return fmt.Errorf("%w: bonus interval %v", ErrInvalidProfile, p.BonusInterval)
	case p.RoundDuration < time.Second:
		return fmt.Errorf("%w: round duration %v", ErrInvalidProfile, p.RoundDuration)
	}
	return nil
}

// ResetRound stops everything and returns the round to Idle. The current
// player and profile are forgotten. Safe to call in any phase.
func (r *Round) ResetRound() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sched.CancelAll()
	r.deactivateBonusLocked()
	r.beetles = nil
	r.spawner.Reset()
	r.bonus = object.Bonus{}
	r.bounds = object.Bounds{}
	r.profile = difficulty.Profile{}
	r.playerID = 0
	r.hasPlayer = false
	r.state = GameState{}
	r.publishLocked()
}

// SetPlayer sets the player the round result is recorded for.
func (r *Round) SetPlayer(id int64) {
	r.mu.Lock()
	r.playerID = id
	r.hasPlayer = true
	r.mu.Unlock()
}

// UpdateBounds resizes the layout of a running round. Beetles and the
// pickup are clamped into the new playable rectangle. Ignored while Idle.
func (r *Round) UpdateBounds(width, height float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase == PhaseIdle {
		return nil
	}
	bounds := object.NewBounds(width, height)
	if !bounds.Fits(object.BeetleSize) || !bounds.Fits(object.BonusSize) {
		return fmt.Errorf("%w: %.0fx%.0f", ErrBoundsTooSmall, width, height)
	}

	r.bounds = bounds
	for _, b := range r.beetles {
		b.ClampInto(bounds)
	}
	r.bonus.X, r.bonus.Y = bounds.Clamp(r.bonus.X, r.bonus.Y, object.BonusSize)
	r.state.BonusX, r.state.BonusY = r.bonus.X, r.bonus.Y
	r.publishLocked()
	return nil
}

// EndRound finishes the round now, as if its timer had run out. A round
// still in its countdown ends without being recorded.
func (r *Round) EndRound() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase == PhaseCountdown || r.state.Phase == PhasePlaying {
		r.endRoundLocked()
		r.publishLocked()
	}
}

// Snapshot returns the latest published snapshot.
func (r *Round) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

func (r *Round) publishLocked() {
	beetles := make([]object.Beetle, 0, len(r.beetles))
	for _, b := range r.beetles {
		if b.Alive {
			beetles = append(beetles, *b)
		}
	}
	r.snapshot.Store(&Snapshot{
		State:   r.state,
		Beetles: beetles,
		Bounds:  r.bounds,
		Tick:    r.sched.Now(),
	})
}
