package modplay

// MaxAudioBuffers is how many tick buffers the engine keeps in flight. The
// player primes this many buffers when playback begins and rotates ownership
// between them, so a Sink may retain a submitted buffer without copying
// until its completion callback has fired.
const MaxAudioBuffers = 4

// Sink is the audio output contract the engine plays into. Implementations
// wrap a real device (PortAudio), a file writer, or a test collector.
//
// Open configures the device for mono unsigned 8-bit PCM at sfreq Hz and
// registers onDone, which the sink must invoke once each time a previously
// submitted buffer has finished playing. onDone invocations must be
// delivered in submission order and must never overlap; it is safe to call
// Submit once from within onDone.
//
// Submit enqueues one tick buffer. The sink either copies the bytes before
// returning or retains the slice until the matching onDone.
//
// Close drains pending buffers, silences the device and releases its
// resources. Close may be called more than once.
type Sink interface {
	Open(sfreq int, onDone func()) error
	Submit(buf []byte) error
	Close() error
}
