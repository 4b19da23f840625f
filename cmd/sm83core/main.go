// Command sm83core is the headless driver: it loads a ROM, steps the core
// until a sentinel PC or a critical log fires, and optionally writes a
// per-step register trace.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/lucasmora/sm83core/gbcore"
	"github.com/lucasmora/sm83core/gbcore/logger"
	"github.com/lucasmora/sm83core/trace"
)

func main() {
	app := cli.NewApp()
	app.Name = "sm83core"
	app.Usage = "sm83core --rom <path> [--trace <path>] [--max-steps N] [--sentinel 0xNNNN]"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM image"},
		cli.StringFlag{Name: "trace", Usage: "path to write a per-step register trace"},
		cli.IntFlag{Name: "max-steps", Value: 10_000_000, Usage: "abort after this many steps"},
		cli.StringFlag{Name: "sentinel", Value: "0xC8B0", Usage: "terminate successfully when PC reaches this address"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "sm83core:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}
	if romPath == "" {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	var sentinel uint64
	if _, err := fmt.Sscanf(c.String("sentinel"), "0x%x", &sentinel); err != nil {
		return fmt.Errorf("invalid --sentinel %q: %w", c.String("sentinel"), err)
	}

	var tw *trace.Writer
	if tracePath := c.String("trace"); tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}
		defer f.Close()
		tw = trace.New(f)
		defer tw.Flush()
	}

	log := logger.New()
	var critical bool
	log.SetSink(logger.Critical, func(message string) {
		critical = true
		fmt.Fprintln(os.Stderr, "CRITICAL:", message)
	})

	machine := gbcore.New(log)
	machine.Bus.SetSerialOutput(func(b byte) { fmt.Fprint(os.Stdout, string(rune(b))) })
	machine.Bus.SetCartData(data)
	machine.Reset()

	maxSteps := c.Int("max-steps")
	for steps := 0; steps < maxSteps; steps++ {
		if uint64(machine.PC()) == sentinel {
			return nil
		}
		if critical {
			return errors.New("execution aborted: critical log raised")
		}
		if tw != nil {
			if err := tw.WriteState(machine.CPU.GetState()); err != nil {
				return fmt.Errorf("writing trace: %w", err)
			}
		}
		machine.Step()
	}

	return fmt.Errorf("exceeded max-steps (%d) without reaching sentinel 0x%04X", maxSteps, sentinel)
}
