// Renders a Protracker MOD to a WAV file (8-bit, mono) without an audio
// device, pumping the engine synchronously.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mcleod-ideafix/modplay"
	"github.com/mcleod-ideafix/modplay/cmd/internal/config"
	"github.com/mcleod-ideafix/modplay/internal/comb"
	"github.com/mcleod-ideafix/modplay/wav"
)

var (
	flagOut    = flag.String("wav", "", "output WAVE file")
	flagHz     = flag.Int("hz", 44100, "output sampling rate")
	flagNTSC   = flag.Bool("ntsc", false, "use the NTSC Amiga clock instead of PAL")
	flagReverb = flag.String("reverb", "none", "reverb level: none, light, medium, silly")
)

// wavSink writes every submitted tick buffer straight through the reverb
// stage into the WAV file. There is no device, so onDone is never fired;
// the driver pumps PlayTick itself.
type wavSink struct {
	w       *wav.Writer
	reverb  comb.Reverber
	scratch []byte
	err     error
}

func (s *wavSink) Open(sfreq int, onDone func()) error { return nil }

func (s *wavSink) Submit(buf []byte) error {
	s.reverb.InputSamples(buf)
	if cap(s.scratch) < len(buf) {
		s.scratch = make([]byte, len(buf))
	}
	n := s.reverb.GetAudio(s.scratch[:len(buf)])
	if err := s.w.WriteFrame(s.scratch[:n]); err != nil {
		s.err = err
		return err
	}
	return nil
}

func (s *wavSink) Close() error { return nil }

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "modwav"})
	flag.Parse()

	if len(flag.Args()) == 0 {
		logger.Fatal("missing MOD filename")
	}
	if *flagOut == "" {
		logger.Fatal("no -wav option provided")
	}

	fname := flag.Arg(0)
	if !strings.HasSuffix(strings.ToLower(fname), ".mod") {
		fname += ".MOD"
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		logger.Fatal("could not read module", "file", fname, "err", err)
	}
	mod, err := modplay.NewModuleFromBytes(data)
	if err != nil {
		logger.Fatal("could not load module", "file", fname, "err", err)
	}

	format := modplay.PAL
	if *flagNTSC {
		format = modplay.NTSC
	}
	player, err := modplay.NewPlayer(mod, *flagHz, format)
	if err != nil {
		logger.Fatal("could not create player", "err", err)
	}

	reverb, err := config.ReverbFromFlag(*flagReverb, *flagHz)
	if err != nil {
		logger.Fatal(err)
	}

	wavF, err := os.Create(*flagOut)
	if err != nil {
		logger.Fatal("could not create output", "file", *flagOut, "err", err)
	}
	defer wavF.Close()

	wavW, err := wav.NewWriter(wavF, *flagHz)
	if err != nil {
		logger.Fatal("could not write WAV header", "err", err)
	}

	sink := &wavSink{w: wavW, reverb: reverb}
	if err := player.Begin(sink); err != nil {
		logger.Fatal("could not begin playback", "err", err)
	}

	lastPos := -1
	for player.IsPlaying() {
		player.PlayTick()

		if st := player.State(); st.SongPos != lastPos && !st.Finished {
			fmt.Printf("%d/%d\n", st.SongPos+1, mod.SongLength)
			lastPos = st.SongPos
		}
	}
	player.End()
	if sink.err != nil {
		logger.Fatal("write failed", "err", sink.err)
	}

	if _, err := wavW.Finish(); err != nil {
		logger.Fatal("could not finish WAV", "err", err)
	}
}
