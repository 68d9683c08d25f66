// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/ezrec/y86/emulator"
	"github.com/ezrec/y86/io"
)

func main() {
	var compile string
	var input string
	var output string
	var save bool
	var memory uint
	var limit int
	var verbose bool
	var trace bool
	var pretty bool

	flag.StringVar(&compile, "c", "", ".ys file to assemble")
	flag.StringVar(&input, "i", "", "Hex image to load")
	flag.StringVar(&output, "o", "", "Hex image to write")
	flag.BoolVar(&save, "s", false, "Save image only, do not execute")
	flag.UintVar(&memory, "m", emulator.MEMORY_SIZE, "Memory size in bytes")
	flag.IntVar(&limit, "n", 0, "Instruction limit, 0 for none")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&trace, "t", false, "Trace each instruction and state")
	flag.BoolVar(&pretty, "p", false, "Pretty print the final state")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 && len(input) == 0 {
		log.Fatalf("%v: one of -c or -i is required", os.Args[0])
	}

	emu := emulator.NewEmulatorSize(uint32(memory))
	emu.Verbose = verbose
	emu.Limit = limit

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		image := &io.Image{Capacity: int(memory)}
		if input == "-" {
			_, err := image.ReadFrom(os.Stdin)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
		} else {
			inf, err := os.Open(input)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
			defer inf.Close()
			_, err = image.ReadFrom(inf)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
		}

		err := emu.LoadImage(image.Data)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
	}

	if len(output) != 0 {
		image := &io.Image{Data: emu.Image()}
		if output == "-" {
			_, err := image.WriteTo(os.Stdout)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
		} else {
			ouf, err := os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			_, err = image.WriteTo(ouf)
			if err == nil {
				err = ouf.Close()
			}
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
		}
	}

	if save {
		return
	}

	if trace {
		emu.Cpu.Observer = &emulator.Tracer{Output: os.Stdout, State: true}
	}

	final, err := emu.Run()

	if pretty {
		printer := pp.New()
		printer.SetColoringEnabled(term.IsTerminal(int(os.Stdout.Fd())))
		printer.Println(final)
	} else {
		perr := emulator.PrintFinal(os.Stdout, final)
		if perr != nil {
			log.Fatal(perr)
		}
	}

	if err != nil {
		log.Fatal(err)
	}
}
