package modplay

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	headerSize       = 1084 // fixed Protracker header, magic included
	rowsPerPattern   = 64
	channelsPerRow   = 4
	bytesPerSlot     = 4
	patternSize      = rowsPerPattern * channelsPerRow * bytesPerSlot
	maxSamples       = 31
	maxSongPositions = 128
)

var (
	// ErrUnsupportedFormat is returned for modules that are not 31-instrument
	// 4-channel Protracker files (magic "M.K." or "FLT4"). 15-instrument and
	// 8/16-channel variants are reported rather than mis-parsed.
	ErrUnsupportedFormat = errors.New("unsupported module format")

	// ErrTruncated is returned when the file is shorter than its header
	// declares.
	ErrTruncated = errors.New("module file truncated")
)

// Sample holds one instrument: its header fields converted to byte counts
// and the signed 8-bit PCM data.
type Sample struct {
	Name         string
	Length       int
	Finetune     uint8 // 0..15, rows 8..15 are -8..-1 (indexes finetuneTable directly)
	Volume       int   // 0..64
	RepeatPoint  int
	RepeatLength int // <= 2 means no loop
	Data         []int8
}

// Slot is one (channel, row) cell of a pattern.
type Slot struct {
	SampleNumber uint8  // 1..31, 0 = reuse previous
	NotePeriod   uint16 // 12-bit Amiga period, 0 = no note
	Effect       uint8
	EffectArg    uint8

	// Derived at load time for effect lookup and display.
	NoteIndex uint8  // nearest row in the base finetune table
	Note      string // "C-", "C#", ... or "  " when no note
	Octave    uint8
}

// Row is the four channel slots of one pattern division.
type Row struct {
	Slots [channelsPerRow]Slot
}

// Pattern is 64 rows.
type Pattern struct {
	Rows [rowsPerPattern]Row
}

// Module is a fully parsed Protracker module. It is immutable during
// playback except for Sample.Finetune, which effect E5x rewrites.
type Module struct {
	SongName      string
	Samples       [maxSamples]Sample
	SongPositions [maxSongPositions]uint8
	SongLength    int // 1..128
	NumPatterns   int // max(SongPositions)+1
	Patterns      []Pattern
}

// sanitize forces s to printable ASCII, replacing anything else with a
// space, and drops trailing padding.
func sanitize(s []byte) string {
	out := make([]byte, len(s))
	for i, c := range s {
		if c < 32 || c > 126 {
			c = ' '
		}
		out[i] = c
	}
	return strings.TrimRight(string(out), " ")
}

// noteIndexForPeriod finds the nearest row of the base finetune table for an
// Amiga period: the exact row if present, otherwise the row minimizing the
// distance, lower index winning ties.
func noteIndexForPeriod(period uint16) uint8 {
	best := 0
	for i, p := range finetuneTable[0] {
		if p == period {
			return uint8(i)
		}
		if absDiff(period, p) < absDiff(period, finetuneTable[0][best]) {
			best = i
		}
	}
	return uint8(best)
}

func absDiff(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// decorate fills the derived display fields of a slot from its period.
func (s *Slot) decorate() {
	if s.NotePeriod == 0 {
		s.Note = "  "
		s.Octave = 0
		return
	}
	s.NoteIndex = noteIndexForPeriod(s.NotePeriod)
	s.Note = noteNames[s.NoteIndex%12]
	s.Octave = 1 + s.NoteIndex/12
}

// NewModuleFromBytes parses a Protracker module file image into a Module.
//
// All validation happens here; a Module that parses without error can be
// played without further fallible operations.
func NewModuleFromBytes(data []byte) (*Module, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d byte file", ErrTruncated, len(data))
	}
	magic := string(data[1080:1084])
	if magic != "M.K." && magic != "FLT4" {
		return nil, fmt.Errorf("%w: magic %q", ErrUnsupportedFormat, magic)
	}

	mod := &Module{SongName: sanitize(data[0:20])}

	buf := bytes.NewReader(data[20:])
	for i := 0; i < maxSamples; i++ {
		s, err := readSampleHeader(buf)
		if err != nil {
			return nil, err
		}
		mod.Samples[i] = *s
	}

	mod.SongLength = int(data[950])
	if mod.SongLength < 1 {
		mod.SongLength = 1
	} else if mod.SongLength > maxSongPositions {
		mod.SongLength = maxSongPositions
	}
	// data[951] is the historical 0x7F byte, ignored.
	copy(mod.SongPositions[:], data[952:1080])

	mod.NumPatterns = int(mod.SongPositions[0])
	for _, p := range mod.SongPositions[1:] {
		if int(p) > mod.NumPatterns {
			mod.NumPatterns = int(p)
		}
	}
	mod.NumPatterns++

	off := headerSize
	if len(data) < off+mod.NumPatterns*patternSize {
		return nil, fmt.Errorf("%w: %d patterns declared", ErrTruncated, mod.NumPatterns)
	}
	mod.Patterns = make([]Pattern, mod.NumPatterns)
	for i := range mod.Patterns {
		for r := 0; r < rowsPerPattern; r++ {
			for ch := 0; ch < channelsPerRow; ch++ {
				slot := &mod.Patterns[i].Rows[r].Slots[ch]
				b := data[off : off+bytesPerSlot]
				slot.SampleNumber = (b[0] & 0xF0) | (b[2] >> 4)
				slot.NotePeriod = uint16(b[0]&0x0F)<<8 | uint16(b[1])
				slot.Effect = b[2] & 0x0F
				slot.EffectArg = b[3]
				slot.decorate()
				off += bytesPerSlot
			}
		}
	}

	// Sample data regions follow the patterns, concatenated in sample order.
	for i := range mod.Samples {
		n := mod.Samples[i].Length
		if n == 0 {
			continue
		}
		if len(data) < off+n {
			return nil, fmt.Errorf("%w: sample %d needs %d bytes", ErrTruncated, i+1, n)
		}
		pcm := make([]int8, n)
		for j, sd := range data[off : off+n] {
			pcm[j] = int8(sd)
		}
		// First word must be zeroed by the player to suppress the
		// note-start click.
		pcm[0] = 0
		if n > 1 {
			pcm[1] = 0
		}
		mod.Samples[i].Data = pcm
		off += n
	}

	return mod, nil
}

func readSampleHeader(r *bytes.Reader) (*Sample, error) {
	hdr := struct {
		Name         [22]byte
		Length       uint16
		Finetune     uint8
		Volume       uint8
		RepeatPoint  uint16
		RepeatLength uint16
	}{}

	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: sample header", ErrTruncated)
	}

	smp := &Sample{
		Name:         sanitize(hdr.Name[:]),
		Length:       int(hdr.Length) * 2,
		Finetune:     hdr.Finetune & 0x0F,
		Volume:       int(hdr.Volume),
		RepeatPoint:  int(hdr.RepeatPoint) * 2,
		RepeatLength: int(hdr.RepeatLength) * 2,
	}
	if smp.Volume > 64 {
		smp.Volume = 64
	}

	// If the loop overshoots the end of the sample, pull the loop start
	// back, then clamp the loop length (H/T MilkyTracker).
	if smp.RepeatLength > 2 && smp.RepeatPoint+smp.RepeatLength > smp.Length {
		dx := smp.RepeatPoint + smp.RepeatLength - smp.Length
		smp.RepeatPoint -= dx
		if smp.RepeatPoint < 0 {
			smp.RepeatPoint = 0
		}
		if smp.RepeatPoint+smp.RepeatLength > smp.Length {
			smp.RepeatLength = smp.Length - smp.RepeatPoint
		}
	}

	return smp, nil
}

// Looped reports whether the sample has a repeat region.
func (s *Sample) Looped() bool {
	return s.RepeatLength > 2
}

// SignedFinetune converts the stored nibble to its signed value for display.
func (s *Sample) SignedFinetune() int {
	if s.Finetune < 8 {
		return int(s.Finetune)
	}
	return int(s.Finetune) - 16
}

// MarshalBinary re-serializes the module into the on-disk Protracker layout:
// header, patterns and sample data. Byte regions the parser preserves come
// back identical; name fields come back sanitized and space-padded.
func (m *Module) MarshalBinary() ([]byte, error) {
	var out bytes.Buffer

	writeName(&out, m.SongName, 20)
	for i := range m.Samples {
		s := &m.Samples[i]
		writeName(&out, s.Name, 22)
		hdr := struct {
			Length       uint16
			Finetune     uint8
			Volume       uint8
			RepeatPoint  uint16
			RepeatLength uint16
		}{
			Length:       uint16(s.Length / 2),
			Finetune:     s.Finetune,
			Volume:       uint8(s.Volume),
			RepeatPoint:  uint16(s.RepeatPoint / 2),
			RepeatLength: uint16(s.RepeatLength / 2),
		}
		if err := binary.Write(&out, binary.BigEndian, &hdr); err != nil {
			return nil, err
		}
	}

	out.WriteByte(uint8(m.SongLength))
	out.WriteByte(0x7F)
	out.Write(m.SongPositions[:])
	out.WriteString("M.K.")

	for i := range m.Patterns {
		for r := 0; r < rowsPerPattern; r++ {
			for ch := 0; ch < channelsPerRow; ch++ {
				slot := &m.Patterns[i].Rows[r].Slots[ch]
				out.Write([]byte{
					(slot.SampleNumber & 0xF0) | uint8(slot.NotePeriod>>8)&0x0F,
					uint8(slot.NotePeriod),
					(slot.SampleNumber&0x0F)<<4 | slot.Effect&0x0F,
					slot.EffectArg,
				})
			}
		}
	}

	for i := range m.Samples {
		for _, sd := range m.Samples[i].Data {
			out.WriteByte(uint8(sd))
		}
	}

	return out.Bytes(), nil
}

// writeName emits a name field: width-1 characters space-padded plus a NUL
// terminator, the form sanitize reads back unchanged.
func writeName(out *bytes.Buffer, name string, width int) {
	b := make([]byte, width)
	for i := range b {
		b[i] = ' '
	}
	copy(b[:width-1], name)
	b[width-1] = 0
	out.Write(b)
}

// RowString formats one pattern division in the Protracker style of the
// original tracker displays:
//
//	 0.00: | C-2   1  C30 | ---  --  --- | ...
func (m *Module) RowString(patnum, row int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%2d.%02d: | ", patnum, row)
	for ch := 0; ch < channelsPerRow; ch++ {
		slot := &m.Patterns[patnum].Rows[row].Slots[ch]

		if slot.NotePeriod != 0 {
			fmt.Fprintf(&sb, "%-2s%d  ", slot.Note, slot.Octave)
		} else {
			sb.WriteString("---  ")
		}
		if slot.SampleNumber != 0 {
			fmt.Fprintf(&sb, "%2d  ", slot.SampleNumber)
		} else {
			sb.WriteString("--  ")
		}
		if slot.Effect != 0 || slot.EffectArg != 0 {
			fmt.Fprintf(&sb, "%1X%02X", slot.Effect, slot.EffectArg)
		} else {
			sb.WriteString("---")
		}

		if ch != channelsPerRow-1 {
			sb.WriteString(" | ")
		} else {
			sb.WriteString(" |")
		}
	}
	return sb.String()
}
