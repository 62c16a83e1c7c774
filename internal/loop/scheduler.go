package loop

import (
	"time"
)

// TaskID names one of the round's periodic tasks. Tasks due at the same
// instant run in ascending TaskID order.
type TaskID int

const (
	TaskCountdown TaskID = iota
	TaskRoundTimer
	TaskBonusExpire
	TaskBonusDuration
	TaskBonusOffer
	TaskSpawn
	TaskPhysics

	taskCount
)

var taskNames = [taskCount]string{
	TaskCountdown:     "countdown",
	TaskRoundTimer:    "round-timer",
	TaskBonusExpire:   "bonus-expire",
	TaskBonusDuration: "bonus-duration",
	TaskBonusOffer:    "bonus-offer",
	TaskSpawn:         "spawn",
	TaskPhysics:       "physics",
}

func (id TaskID) String() string {
	if id >= 0 && id < taskCount {
		return taskNames[id]
	}
	return "unknown"
}

// TaskFunc runs a task. Returning ok re-arms the task again after the
// returned delay; otherwise the task stays idle until scheduled.
type TaskFunc func() (again time.Duration, ok bool)

// minReschedule keeps a task that asks for a zero delay from spinning
// within a single Advance.
const minReschedule = time.Millisecond

type taskSlot struct {
	run   TaskFunc
	due   time.Duration
	armed bool
}

// Scheduler runs a fixed set of named tasks over a virtual clock. It is
// not safe for concurrent use; the owning Round serializes access.
type Scheduler struct {
	now   time.Duration
	slots [taskCount]taskSlot
}

// NewScheduler returns a scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register binds fn to id. The task stays idle until scheduled.
func (s *Scheduler) Register(id TaskID, fn TaskFunc) {
	s.slots[id] = taskSlot{run: fn}
}

// Schedule arms id to run after delay, replacing any pending run.
func (s *Scheduler) Schedule(id TaskID, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	slot := &s.slots[id]
	slot.due = s.now + delay
	slot.armed = slot.run != nil
}

// Cancel disarms id. A cancelled task does not run again, even later in
// the Advance call that cancelled it.
func (s *Scheduler) Cancel(id TaskID) {
	s.slots[id].armed = false
}

// CancelAll disarms every task.
func (s *Scheduler) CancelAll() {
	for i := range s.slots {
		s.slots[i].armed = false
	}
}

// Armed reports whether id is waiting to run.
func (s *Scheduler) Armed(id TaskID) bool {
	return s.slots[id].armed
}

// Due returns when id will next run, and whether it is armed.
func (s *Scheduler) Due(id TaskID) (time.Duration, bool) {
	slot := s.slots[id]
	return slot.due, slot.armed
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Advance moves virtual time forward by d, running every task that falls
// due on the way in due-time order, ties broken by TaskID.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := s.now + d

	for {
		next := TaskID(-1)
		for id := TaskID(0); id < taskCount; id++ {
			slot := &s.slots[id]
			if !slot.armed || slot.due > target {
				continue
			}
			if next < 0 || slot.due < s.slots[next].due {
				next = id
			}
		}
		if next < 0 {
			break
		}

		slot := &s.slots[next]
		s.now = slot.due
		slot.armed = false
		again, ok := slot.run()
		if ok && !slot.armed {
			if again < minReschedule {
				again = minReschedule
			}
			slot.due = s.now + again
			slot.armed = true
		}
	}

	s.now = target
}
