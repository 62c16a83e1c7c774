// Package tilt carries device tilt samples from an asynchronous source to
// the physics tick.
package tilt

import (
	"errors"
	"sync"
)

// ErrUnavailable is returned by sources that have no sensor to offer.
var ErrUnavailable = errors.New("tilt: sensor unavailable")

// Sample is one acceleration reading along the device axes.
type Sample struct {
	X, Y float64
}

// Source delivers samples into subscribed mailboxes.
type Source interface {
	Subscribe(m *Mailbox) error
	Unsubscribe(m *Mailbox)
}

// Mailbox is a single-slot buffer between a producer and the physics
// tick. Put never blocks and the newest sample wins.
type Mailbox struct {
	ch   chan Sample
	last Sample
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Sample, 1)}
}

// Put stores s, replacing any sample not yet consumed.
func (m *Mailbox) Put(s Sample) {
	for {
		select {
		case m.ch <- s:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}

// Latest returns the newest sample delivered so far, or the zero sample
// if none arrived. Only the consumer may call it.
func (m *Mailbox) Latest() Sample {
	select {
	case s := <-m.ch:
		m.last = s
	default:
	}
	return m.last
}

// Drain discards any pending sample and forgets the last one.
func (m *Mailbox) Drain() {
	select {
	case <-m.ch:
	default:
	}
	m.last = Sample{}
}

// Manual is a Source fed by the caller: keyboard arrows, or samples
// relayed from a browser. Samples pushed with no subscriber are dropped.
type Manual struct {
	mu   sync.Mutex
	subs map[*Mailbox]struct{}
}

// NewManual returns a Manual source with no subscribers.
func NewManual() *Manual {
	return &Manual{subs: make(map[*Mailbox]struct{})}
}

// Subscribe starts delivering samples to m.
func (s *Manual) Subscribe(m *Mailbox) error {
	s.mu.Lock()
	s.subs[m] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Unsubscribe stops delivery to m.
func (s *Manual) Unsubscribe(m *Mailbox) {
	s.mu.Lock()
	delete(s.subs, m)
	s.mu.Unlock()
}

// Push delivers a sample to every subscriber.
func (s *Manual) Push(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for m := range s.subs {
		m.Put(sample)
	}
}

// Subscribed reports whether anyone is listening.
func (s *Manual) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) > 0
}

// Unavailable is the Source for devices without a tilt sensor.
type Unavailable struct{}

func (Unavailable) Subscribe(*Mailbox) error { return ErrUnavailable }
func (Unavailable) Unsubscribe(*Mailbox)     {}
