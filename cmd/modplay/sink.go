package main

import (
	"errors"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/mcleod-ideafix/modplay/internal/comb"
)

// paSink adapts a PortAudio output stream to the engine's Sink contract.
// Submitted tick buffers pass through the reverb stage into a FIFO that the
// stream callback drains; each fully consumed buffer fires onDone from the
// callback thread, outside the sink lock, so the engine may submit the next
// tick from within it.
type paSink struct {
	reverb comb.Reverber

	mu     sync.Mutex
	queue  [][]byte
	pos    int // read offset into queue[0]
	onDone func()
	closed bool

	stream *portaudio.Stream
}

func newPASink(reverb comb.Reverber) *paSink {
	return &paSink{reverb: reverb}
}

func (s *paSink) Open(sfreq int, onDone func()) error {
	s.onDone = onDone

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sfreq), portaudio.FramesPerBufferUnspecified, s.fill)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}
	s.stream = stream
	return nil
}

func (s *paSink) Submit(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("sink closed")
	}

	// The engine reuses its tick buffers, so the sink owns a copy. The
	// reverb stage copies as a side effect. Whatever GetAudio hands back,
	// even a short or empty buffer, is queued and completes in FIFO order
	// so the tick accounting stays one-to-one.
	s.reverb.InputSamples(buf)
	out := make([]byte, len(buf))
	n := s.reverb.GetAudio(out)
	s.queue = append(s.queue, out[:n])
	return nil
}

// fill is the PortAudio callback: drain the FIFO into the device buffer,
// pad underruns with silence, then deliver one onDone per completed buffer.
func (s *paSink) fill(out []uint8) {
	s.mu.Lock()
	n, completed := 0, 0
	for len(s.queue) > 0 {
		buf := s.queue[0]
		c := copy(out[n:], buf[s.pos:])
		n += c
		s.pos += c
		if s.pos == len(buf) {
			s.queue = s.queue[1:]
			s.pos = 0
			completed++
			continue
		}
		break // device buffer full
	}
	for i := n; i < len(out); i++ {
		out[i] = 128
	}
	onDone := s.onDone
	s.mu.Unlock()

	for i := 0; i < completed; i++ {
		if onDone != nil {
			onDone()
		}
	}
}

// Close waits for the queued audio to play out, then stops the stream.
// Safe to call twice.
func (s *paSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		empty := len(s.queue) == 0
		s.mu.Unlock()
		if empty {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	return nil
}
