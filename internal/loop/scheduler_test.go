package loop

import (
	"testing"
	"time"
)

func TestSchedulerTieOrder(t *testing.T) {
	s := NewScheduler()
	var ran []TaskID
	for id := TaskPhysics; id >= TaskCountdown; id-- {
		id := id
		s.Register(id, func() (time.Duration, bool) {
			ran = append(ran, id)
			return 0, false
		})
		s.Schedule(id, time.Second)
	}

	s.Advance(time.Second)

	if len(ran) != int(taskCount) {
		t.Fatalf("ran %d tasks, want %d", len(ran), taskCount)
	}
	for i, id := range ran {
		if id != TaskID(i) {
			t.Fatalf("run order = %v, want ascending task IDs", ran)
		}
	}
}

func TestSchedulerPeriodic(t *testing.T) {
	s := NewScheduler()
	runs := 0
	s.Register(TaskPhysics, func() (time.Duration, bool) {
		runs++
		return 16 * time.Millisecond, true
	})
	s.Schedule(TaskPhysics, 16*time.Millisecond)

	s.Advance(160 * time.Millisecond)
	if runs != 10 {
		t.Fatalf("runs after 160ms = %d, want 10", runs)
	}
	s.Advance(15 * time.Millisecond)
	if runs != 10 {
		t.Fatalf("runs after 175ms = %d, want 10", runs)
	}
	s.Advance(time.Millisecond)
	if runs != 11 {
		t.Fatalf("runs after 176ms = %d, want 11", runs)
	}
	if s.Now() != 176*time.Millisecond {
		t.Fatalf("Now() = %v, want 176ms", s.Now())
	}
}

func TestSchedulerCancelWithinAdvance(t *testing.T) {
	s := NewScheduler()
	physicsRuns := 0
	s.Register(TaskRoundTimer, func() (time.Duration, bool) {
		s.CancelAll()
		return 0, false
	})
	s.Register(TaskPhysics, func() (time.Duration, bool) {
		physicsRuns++
		return 16 * time.Millisecond, true
	})
	s.Schedule(TaskRoundTimer, 100*time.Millisecond)
	s.Schedule(TaskPhysics, 4*time.Millisecond)

	s.Advance(time.Second)

	// physics ran at 4, 20, ..., 100ms is a tie lost to the round timer
	if physicsRuns != 6 {
		t.Fatalf("physics ran %d times, want 6", physicsRuns)
	}
	if s.Armed(TaskPhysics) {
		t.Fatal("physics still armed after CancelAll")
	}
}

func TestSchedulerScheduleFromTask(t *testing.T) {
	s := NewScheduler()
	spawned := false
	s.Register(TaskCountdown, func() (time.Duration, bool) {
		s.Schedule(TaskSpawn, 0)
		return 0, false
	})
	s.Register(TaskSpawn, func() (time.Duration, bool) {
		spawned = true
		return 0, false
	})
	s.Schedule(TaskCountdown, time.Second)

	s.Advance(time.Second)
	if !spawned {
		t.Fatal("task scheduled with zero delay did not run in the same Advance")
	}
}

func TestSchedulerZeroDelayDoesNotSpin(t *testing.T) {
	s := NewScheduler()
	runs := 0
	s.Register(TaskSpawn, func() (time.Duration, bool) {
		runs++
		return 0, true
	})
	s.Schedule(TaskSpawn, 0)
	s.Advance(10 * time.Millisecond)
	if runs != 11 {
		t.Fatalf("runs = %d, want 11 (clamped to 1ms)", runs)
	}
}
