package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 120 * time.Millisecond

// Tap is a left mouse button press at a 1-based terminal position.
type Tap struct {
	Col, Row int
}

// Input represents the current frame's input state.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool
	Enter  bool
	Escape bool
	Reset  bool
	Bonus  bool
	Number int
	Taps   []Tap
	// Pressed holds every byte read this frame, including mouse reports.
	Pressed []byte
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit      time.Time
	left      time.Time
	right     time.Time
	up        time.Time
	down      time.Time
	space     time.Time
	enter     time.Time
	escape    time.Time
	reset     time.Time
	bonus     time.Time
	number    time.Time
	numberVal int
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // incomplete escape sequence carried to the next read
	now     func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:    make(chan byte, 256),
		state: keyState{numberVal: -1},
		now:   time.Now,
	}
}

// ResetKeyInput forgets held keys so a press that started a screen
// transition does not carry over into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{numberVal: -1}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and mouse reports and accumulates
// all pressed keys. A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	now := s.now()
	buf := s.pending
	s.pending = nil
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	var taps []Tap
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' || i+1 >= len(buf) || buf[i+1] != '[' {
			applyByteToState(&s.state, b, now)
			continue
		}

		end := csiEnd(buf, i+2)
		if end < 0 {
			// Sequence split across reads
			s.pending = append([]byte(nil), buf[i:]...)
			break
		}
		seq := buf[i+2 : end+1]
		switch {
		case len(seq) == 1 && seq[0] == 'A':
			s.state.up = now
		case len(seq) == 1 && seq[0] == 'B':
			s.state.down = now
		case len(seq) == 1 && seq[0] == 'C':
			s.state.right = now
		case len(seq) == 1 && seq[0] == 'D':
			s.state.left = now
		case seq[0] == '<':
			if tap, ok := parseMouse(seq); ok {
				taps = append(taps, tap)
			}
		}
		i = end
	}

	input := Input{
		Quit:    closed || now.Sub(s.state.quit) < keyHoldDuration,
		Left:    now.Sub(s.state.left) < keyHoldDuration,
		Right:   now.Sub(s.state.right) < keyHoldDuration,
		Up:      now.Sub(s.state.up) < keyHoldDuration,
		Down:    now.Sub(s.state.down) < keyHoldDuration,
		Space:   now.Sub(s.state.space) < keyHoldDuration,
		Enter:   now.Sub(s.state.enter) < keyHoldDuration,
		Escape:  now.Sub(s.state.escape) < keyHoldDuration,
		Reset:   now.Sub(s.state.reset) < keyHoldDuration,
		Bonus:   now.Sub(s.state.bonus) < keyHoldDuration,
		Number:  -1,
		Taps:    taps,
		Pressed: buf,
	}

	if now.Sub(s.state.number) < keyHoldDuration {
		input.Number = s.state.numberVal
	}

	return input
}

// csiEnd returns the index of the final byte of a CSI sequence whose
// parameters start at from, or -1 if the sequence is incomplete.
func csiEnd(buf []byte, from int) int {
	for j := from; j < len(buf); j++ {
		if buf[j] >= 0x40 && buf[j] <= 0x7e {
			return j
		}
	}
	return -1
}

// parseMouse decodes an SGR mouse report "<b;col;rowM". Only left button
// presses produce a tap.
func parseMouse(seq []byte) (Tap, bool) {
	if len(seq) < 2 || seq[len(seq)-1] != 'M' {
		return Tap{}, false
	}
	var fields [3]int
	n := 0
	start := 1
	for j := 1; j < len(seq); j++ {
		if seq[j] != ';' && seq[j] != 'M' {
			continue
		}
		if n == len(fields) {
			return Tap{}, false
		}
		v, err := strconv.Atoi(string(seq[start:j]))
		if err != nil {
			return Tap{}, false
		}
		fields[n] = v
		n++
		start = j + 1
	}
	if n != 3 {
		return Tap{}, false
	}
	button := fields[0]
	// Low bits select the button, 32 flags motion, 64 the wheel.
	if button&3 != 0 || button&(32|64) != 0 {
		return Tap{}, false
	}
	return Tap{Col: fields[1], Row: fields[2]}, true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 3: // Ctrl+C
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case 'r', 'R':
		state.reset = now
	case 'b', 'B':
		state.bonus = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
}
