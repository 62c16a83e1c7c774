package input

import (
	"testing"
	"time"
)

func feed(s *Stream, data string) {
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
}

func fixedStream() (*Stream, *time.Time) {
	s := newStream()
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestArrowKeysAndHold(t *testing.T) {
	s, now := fixedStream()
	feed(s, "\x1b[D\x1b[A")

	in := ReadInput(s)
	if !in.Left || !in.Up || in.Right || in.Down {
		t.Fatalf("got %+v, want left and up", in)
	}

	*now = now.Add(keyHoldDuration / 2)
	if in := ReadInput(s); !in.Left {
		t.Fatal("left released before hold duration")
	}

	*now = now.Add(keyHoldDuration)
	if in := ReadInput(s); in.Left || in.Up {
		t.Fatalf("keys still held after hold duration: %+v", in)
	}
}

func TestMouseTaps(t *testing.T) {
	s, _ := fixedStream()
	// left press, left release, right press, wheel, motion with left held
	feed(s, "\x1b[<0;12;7M\x1b[<0;12;7m\x1b[<2;3;3M\x1b[<64;3;3M\x1b[<32;4;4M")

	in := ReadInput(s)
	if len(in.Taps) != 1 || in.Taps[0] != (Tap{Col: 12, Row: 7}) {
		t.Fatalf("taps = %+v, want one at 12,7", in.Taps)
	}
	if in.Escape {
		t.Fatal("mouse report read as escape key")
	}
}

func TestSplitMouseReport(t *testing.T) {
	s, _ := fixedStream()
	feed(s, "\x1b[<0;10")
	if in := ReadInput(s); len(in.Taps) != 0 {
		t.Fatalf("partial report produced taps %+v", in.Taps)
	}
	feed(s, ";20M")
	in := ReadInput(s)
	if len(in.Taps) != 1 || in.Taps[0] != (Tap{Col: 10, Row: 20}) {
		t.Fatalf("taps = %+v, want one at 10,20", in.Taps)
	}
}

func TestKeysAndNumbers(t *testing.T) {
	s, _ := fixedStream()
	feed(s, "2 rb")
	in := ReadInput(s)
	if in.Number != 2 || !in.Space || !in.Reset || !in.Bonus || in.Quit {
		t.Fatalf("got %+v", in)
	}

	ResetKeyInput(s)
	if in := ReadInput(s); in.Space || in.Number != -1 {
		t.Fatalf("keys survived reset: %+v", in)
	}
}

func TestClosedStreamQuits(t *testing.T) {
	s, _ := fixedStream()
	close(s.ch)
	if in := ReadInput(s); !in.Quit {
		t.Fatal("closed stream did not report quit")
	}
}
