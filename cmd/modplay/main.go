// Protracker MOD player.
// Uses portaudio for audio output; mono unsigned 8-bit, the way the
// original Amiga-to-DAC pipeline produced it.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"
	"github.com/mcleod-ideafix/modplay"
	"github.com/mcleod-ideafix/modplay/cmd/internal/config"
)

var (
	flagHz     = flag.Int("hz", 44100, "output sampling rate, >=32000 recommended")
	flagNTSC   = flag.Bool("ntsc", false, "use the NTSC Amiga clock instead of PAL")
	flagReverb = flag.String("reverb", "none", "reverb level: none, light, medium, silly")
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"
)

var (
	white   = color.New(color.FgWhite).SprintfFunc()
	cyan    = color.New(color.FgCyan).SprintfFunc()
	magenta = color.New(color.FgMagenta).SprintfFunc()
	yellow  = color.New(color.FgYellow).SprintfFunc()
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "modplay"})
	flag.Parse()

	if len(flag.Args()) == 0 {
		logger.Fatal("missing MOD filename")
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

	printInfo(mod)

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

	if err := portaudio.Initialize(); err != nil {
		logger.Fatal("audio device unavailable", "err", err)
	}
	defer portaudio.Terminate()

	sink := newPASink(reverb)
	if err := player.Begin(sink); err != nil {
		logger.Fatal("could not open audio stream", "err", err)
	}
	defer player.End()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	go func() {
		<-sigch
		player.End()
		fmt.Print(showCursor)
		os.Exit(0)
	}()

	// ESC/q quit, 'a' skips to the next song position.
	quit := make(chan struct{})
	go keyboard.Listen(func(key keys.Key) (bool, error) {
		switch {
		case key.Code == keys.Escape || key.Code == keys.CtrlC:
			close(quit)
			return true, nil
		case key.Code == keys.RuneKey && len(key.Runes) > 0:
			switch key.Runes[0] {
			case 'q':
				close(quit)
				return true, nil
			case 'a':
				player.SkipToNext()
			}
		}
		return false, nil
	})

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)

	for player.IsPlaying() {
		select {
		case <-quit:
			return
		default:
		}

		if player.ConsumeNewRow() {
			st := player.State()
			printRow(mod, st.Pattern, st.PatRow)
		}
	}
}

// printInfo mirrors the original player's module summary.
func printInfo(m *modplay.Module) {
	fmt.Printf("Module name              : %s\n", m.SongName)
	fmt.Printf("Module length            : %d patterns\n", m.SongLength)
	fmt.Printf("Number of unique patterns: %d\n", m.NumPatterns)
	fmt.Print("Pattern sequence         : ")
	for i := 0; i < m.SongLength; i++ {
		fmt.Printf("%02d ", m.SongPositions[i])
	}
	fmt.Println()

	fmt.Println("Samples:")
	for i := range m.Samples {
		s := &m.Samples[i]
		if s.Name == "" && s.Length == 0 {
			continue
		}
		fmt.Printf("%-22.22s  V:%2d  L:%5d   R:%5d %5d  F:%+d\n",
			s.Name, s.Volume, s.Length, s.RepeatPoint, s.RepeatLength, s.SignedFinetune())
	}
	fmt.Println()
}

// printRow renders one division in the Protracker layout with the note,
// instrument, and effect columns colored.
func printRow(m *modplay.Module, patnum, row int) {
	fmt.Printf("%2d.%02d: | ", patnum, row)
	for ch := 0; ch < 4; ch++ {
		slot := &m.Patterns[patnum].Rows[row].Slots[ch]

		if slot.NotePeriod != 0 {
			fmt.Print(white("%-2s%d  ", slot.Note, slot.Octave))
		} else {
			fmt.Print("---  ")
		}
		if slot.SampleNumber != 0 {
			fmt.Print(cyan("%2d  ", slot.SampleNumber))
		} else {
			fmt.Print("--  ")
		}
		if slot.Effect != 0 || slot.EffectArg != 0 {
			fmt.Print(magenta("%1X", slot.Effect), yellow("%02X", slot.EffectArg))
		} else {
			fmt.Print("---")
		}

		if ch != 3 {
			fmt.Print(" | ")
		} else {
			fmt.Println(" |")
		}
	}
}
