package modplay

import (
	"testing"

	clone "github.com/huandu/go-clone/generic"
	"pgregory.net/rapid"
)

// Randomized effect streams must never drive a channel outside its legal
// state: volume stays in 0..64, an active note period stays inside the
// finetune table's range, playback never runs past the sample end, and
// every emitted buffer is exactly one tick long.
func TestPlaybackInvariants(t *testing.T) {
	effects := []uint8{0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x9, 0xA, 0xB, 0xC, 0xD, 0xE, 0xF}

	rapid.Check(t, func(rt *rapid.T) {
		mod := clone.Clone(testModule)
		rows := rapid.IntRange(1, 16).Draw(rt, "rows")
		for r := 0; r < rows; r++ {
			for c := 0; c < channelsPerRow; c++ {
				slot := &mod.Patterns[0].Rows[r].Slots[c]
				if rapid.Bool().Draw(rt, "hasNote") {
					ni := rapid.IntRange(0, 35).Draw(rt, "note")
					slot.NotePeriod = finetuneTable[0][ni]
				}
				slot.SampleNumber = uint8(rapid.IntRange(0, 2).Draw(rt, "sample"))
				slot.Effect = rapid.SampledFrom(effects).Draw(rt, "effect")
				slot.EffectArg = uint8(rapid.IntRange(0, 255).Draw(rt, "arg"))
				slot.decorate()
			}
		}

		player, err := NewPlayer(&mod, 44100, PAL)
		if err != nil {
			rt.Fatal(err)
		}
		player.SeedWaveformRNG(1)
		sink := &collectSink{}
		if err := player.Begin(sink); err != nil {
			rt.Fatal(err)
		}

		for i := 0; i < 1000 && player.IsPlaying(); i++ {
			player.PlayTick()

			for ch := range player.channels {
				c := &player.channels[ch]
				if c.volume < 0 || c.volume > 64 {
					rt.Fatalf("Channel %d volume out of range: %d", ch, c.volume)
				}
				if c.period != 0 && (c.period < int(finetuneTable[7][35]) || c.period > int(finetuneTable[8][0])) {
					rt.Fatalf("Channel %d period out of range: %d", ch, c.period)
				}
				if c.sample != nil && c.position > c.end {
					rt.Fatalf("Channel %d position %d past end %d", ch, c.position, c.end)
				}
			}

			if n := len(sink.buffers); n > 0 {
				if got := len(sink.buffers[n-1]); got != player.samplesPerTick {
					rt.Fatalf("Buffer length %d, expected %d", got, player.samplesPerTick)
				}
			}
		}
	})
}
