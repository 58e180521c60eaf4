// Prints the contents of a Protracker module: song summary, sample table
// and, optionally, full pattern listings.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mcleod-ideafix/modplay"
)

var (
	flagPatterns = flag.Bool("pat", false, "dump all pattern rows")
	flagRepack   = flag.String("repack", "", "re-serialize the module to this file")
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "moddump"})
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

	fmt.Printf("Module name              : %s\n", mod.SongName)
	fmt.Printf("Module length            : %d patterns\n", mod.SongLength)
	fmt.Printf("Number of unique patterns: %d\n", mod.NumPatterns)
	fmt.Print("Pattern sequence         : ")
	for i := 0; i < mod.SongLength; i++ {
		fmt.Printf("%02d ", mod.SongPositions[i])
	}
	fmt.Println()

	fmt.Println("Samples:")
	for i := range mod.Samples {
		s := &mod.Samples[i]
		if s.Name == "" && s.Length == 0 {
			continue
		}
		fmt.Printf("%-22.22s  V:%2d  L:%5d   R:%5d %5d  F:%+d\n",
			s.Name, s.Volume, s.Length, s.RepeatPoint, s.RepeatLength, s.SignedFinetune())
	}

	if *flagPatterns {
		for i := 0; i < mod.NumPatterns; i++ {
			fmt.Println()
			for row := 0; row < 64; row++ {
				fmt.Println(mod.RowString(i, row))
			}
		}
	}

	if *flagRepack != "" {
		out, err := mod.MarshalBinary()
		if err != nil {
			logger.Fatal("could not serialize module", "err", err)
		}
		if err := os.WriteFile(*flagRepack, out, 0o644); err != nil {
			logger.Fatal("could not write repacked module", "file", *flagRepack, "err", err)
		}
		fmt.Printf("\nRepacked %d bytes to %s\n", len(out), *flagRepack)
	}
}
