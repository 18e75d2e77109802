// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a movement key counts as held after its last
// byte. Terminals only report key repeats, never releases.
const keyHoldDuration = 80 * time.Millisecond

// Input is one frame's input.
type Input struct {
	// Held keys.
	Left  bool
	Right bool
	Fire  bool

	// Keys pressed since the previous frame.
	Cycle  bool // W, I or Up: next colour
	Enter  bool
	Quit   bool
	Escape bool
	Number int // Last digit pressed, -1 if none

	Closed  bool // The underlying reader hit EOF or an error
	Pressed []byte
}

type keyState struct {
	left  time.Time
	right time.Time
	fire  time.Time
}

// Stream delivers input bytes through a channel and tracks held keys.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
	buf    []byte
}

// StartStream spawns a goroutine reading r until it fails.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
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

// ReadInput drains every available byte without blocking.
func ReadInput(s *Stream) Input {
	s.buf = s.buf[:0]
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}
	in := s.parse(s.buf, time.Now())
	in.Closed = s.closed
	return in
}

// ResetKeyInput forgets held keys, so a key held across a screen change
// does not leak into the next screen.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{Number: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				in.Cycle = true
				i += 2
				continue
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			case 'B':
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', '\x03':
			in.Quit = true
		case 'a', 'A', 'j', 'J':
			s.state.left = now
		case 'd', 'D', 'l', 'L':
			s.state.right = now
		case 'w', 'W', 'i', 'I':
			in.Cycle = true
		case ' ':
			s.state.fire = now
		case '\n', '\r':
			in.Enter = true
		case '\x1b':
			in.Escape = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			in.Number = int(b - '0')
		}
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Fire = now.Sub(s.state.fire) < keyHoldDuration
	return in
}
