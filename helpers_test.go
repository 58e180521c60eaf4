package modplay

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	clone "github.com/huandu/go-clone/generic"
)

const testSampleLength = 64000

// testModule is the shared base song for player tests: two looped
// instruments of constant PCM so mixed output is easy to predict. Tests
// clone it before mutating anything.
var testModule = newTestModule()

func newTestModule() Module {
	m := Module{
		SongName:    "testsong",
		SongLength:  1,
		NumPatterns: 1,
		Patterns:    make([]Pattern, 1),
	}
	m.Samples[0] = Sample{
		Name:         "testins1",
		Volume:       60,
		Length:       testSampleLength,
		RepeatLength: testSampleLength,
		Data:         flatSampleData(testSampleLength, 32),
	}
	m.Samples[1] = Sample{
		Name:         "testins2",
		Volume:       55,
		Length:       testSampleLength,
		RepeatLength: testSampleLength,
		Data:         flatSampleData(testSampleLength, 16),
	}
	return m
}

// flatSampleData builds PCM of a constant value with the first word zeroed,
// the same shape the loader produces.
func flatSampleData(n int, v int8) []int8 {
	data := make([]int8, n)
	for i := range data {
		data[i] = v
	}
	data[0] = 0
	data[1] = 0
	return data
}

// newPlayerWithTestPattern builds a player over a clone of testModule whose
// single pattern holds the given rows. Unspecified rows stay empty.
func newPlayerWithTestPattern(pattern [][]string, t *testing.T) *Player {
	t.Helper()

	mod := clone.Clone(testModule)
	for r, row := range pattern {
		for c, col := range row {
			mod.Patterns[0].Rows[r].Slots[c] = decodeTestSlot(col, t)
		}
	}

	player, err := NewPlayer(&mod, 44100, PAL)
	if err != nil {
		t.Fatalf("Could not create test player: %v", err)
	}
	return player
}

// decodeTestSlot parses note columns of the form
//
//	C-2  1 C30  - play C-2 with instrument 1 and effect C, argument 0x30
//	--- .. ...  - empty slot
func decodeTestSlot(col string, t *testing.T) Slot {
	t.Helper()

	var slot Slot
	if col == "" {
		slot.decorate()
		return slot
	}

	parts := strings.Fields(col)
	if len(parts) != 3 {
		t.Fatalf("Malformed test slot %q", col)
	}

	if parts[0] != "---" {
		ni := -1
		for i, n := range noteNames {
			if n == parts[0][0:2] {
				ni = i
				break
			}
		}
		if ni == -1 {
			t.Fatalf("Invalid note %q", parts[0])
		}
		oct := int(parts[0][2] - '1')
		slot.NotePeriod = finetuneTable[0][oct*12+ni]
	}

	if parts[1] != ".." {
		sn, err := strconv.Atoi(parts[1])
		if err != nil {
			t.Fatalf("Invalid sample number %q", parts[1])
		}
		slot.SampleNumber = uint8(sn)
	}

	if parts[2] != "..." {
		v, err := strconv.ParseUint(parts[2], 16, 16)
		if err != nil {
			t.Fatalf("Invalid effect %q", parts[2])
		}
		slot.Effect = uint8(v >> 8)
		slot.EffectArg = uint8(v)
	}

	slot.decorate()
	return slot
}

// advanceToNextRow runs ticks until the player moves to another division,
// leaving the first tick of that division processed.
func advanceToNextRow(p *Player) {
	old := p.patRow
	for old == p.patRow && !p.finished {
		p.playTick()
	}
}

// collectSink records every submitted buffer. Driving it is the caller's
// job: tests either pump PlayTick directly or fire completions by hand.
type collectSink struct {
	sfreq      int
	onDone     func()
	buffers    [][]byte
	closes     int
	failSubmit bool
}

var errSinkFailed = errors.New("sink failed")

func (s *collectSink) Open(sfreq int, onDone func()) error {
	s.sfreq = sfreq
	s.onDone = onDone
	return nil
}

func (s *collectSink) Submit(buf []byte) error {
	if s.failSubmit {
		return errSinkFailed
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	s.buffers = append(s.buffers, cp)
	return nil
}

func (s *collectSink) Close() error {
	s.closes++
	return nil
}

func validateChan(c *channel, sampleIdx int, period, volume int, p *Player, t *testing.T) {
	t.Helper()
	if sampleIdx == -1 {
		if c.sample != nil {
			t.Errorf("Expected no sample, got %q", c.sample.Name)
		}
	} else if c.sample != &p.mod.Samples[sampleIdx] {
		t.Errorf("Expected sample %d bound", sampleIdx)
	}
	if c.period != period {
		t.Errorf("Expected period %d, got %d", period, c.period)
	}
	if c.volume != volume {
		t.Errorf("Expected volume %d, got %d", volume, c.volume)
	}
}
