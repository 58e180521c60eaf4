// Package comb implements a simple comb-filter reverb over the player's
// mono unsigned 8-bit stream. Samples are centered on 128; the filter adds
// a decayed copy of the signal delayOffset samples later and clamps back
// into byte range.
package comb

// Reverber is the post-processing stage the drivers push tick buffers
// through before the audio reaches the device or file.
type Reverber interface {
	// InputSamples feeds audio into the filter. Returns the number of
	// samples still required before reverb output is available.
	InputSamples(in []byte) int
	// GetAudio copies processed audio into out, returning how many samples
	// were produced.
	GetAudio(out []byte) int
}

// Comb applies reverb to one fixed block of sample data at construction
// time. It cannot be fed any more data afterwards.
type Comb struct {
	delayOffset int
	readPos     int
	audio       []byte
}

func NewComb(in []byte, decay float32, delayMs, sampleRate int) *Comb {
	c := &Comb{
		delayOffset: (delayMs * sampleRate) / 1000,
		audio:       make([]byte, len(in)),
	}

	copy(c.audio, in)
	for i := 0; i < len(in)-c.delayOffset; i++ {
		c.audio[i+c.delayOffset] = mixDecayed(c.audio[i+c.delayOffset], c.audio[i], decay)
	}

	return c
}

func (c *Comb) GetAudio(out []byte) int {
	n := len(out)
	if c.readPos+n > len(c.audio) {
		n = len(c.audio) - c.readPos
	}
	copy(out, c.audio[c.readPos:c.readPos+n])
	c.readPos += n
	return n
}

// CombAdd is a comb filter that can be fed audio data incrementally. It
// does not discard used samples and has no upper bound on memory used.
type CombAdd struct {
	Comb
	readPos  int
	writePos int
	decay    float32
}

func NewCombAdd(initialSize int, decay float32, delayMs, sampleRate int) *CombAdd {
	c := &CombAdd{
		Comb: Comb{
			delayOffset: (delayMs * sampleRate) / 1000,
			audio:       make([]byte, 0, initialSize),
		},
		decay: decay,
	}

	return c
}

// InputSamples feeds the filter with new sample data. Once more samples
// than the delay have accumulated the filter starts mixing the decayed
// early signal into the tail. Returns the number of samples still needed
// before reverb can be applied. The function takes a copy of the audio.
func (c *CombAdd) InputSamples(in []byte) int {
	c.audio = append(c.audio, in...)
	if len(c.audio) > c.delayOffset {
		ns := len(c.audio) - (c.delayOffset + c.writePos)
		for i := 0; i < ns; i++ {
			at := i + c.delayOffset + c.writePos
			c.audio[at] = mixDecayed(c.audio[at], c.audio[i+c.writePos], c.decay)
		}
		c.writePos += ns
	}
	rem := c.delayOffset - len(c.audio)
	if rem < 0 {
		rem = 0
	}
	return rem
}

// GetAudio puts processed audio data into the out slice. It returns the
// number of samples put into out.
func (c *CombAdd) GetAudio(out []byte) int {
	wanted := len(out)
	have := len(c.audio) - c.readPos
	if wanted > have {
		wanted = have
	}
	if wanted > 0 {
		copy(out, c.audio[c.readPos:c.readPos+wanted])
		c.readPos += wanted
	}
	return wanted
}

// mixDecayed adds the decayed, re-centered early sample into a later one,
// clamped back into byte range.
func mixDecayed(dst, src byte, decay float32) byte {
	v := int(dst) + int(float32(int(src)-128)*decay)
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	return byte(v)
}
