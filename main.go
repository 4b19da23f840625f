// Command sm83core-monitor is an interactive terminal front-end: it shows
// live register/flag state and the last few trace lines, stepping on
// keypress or free-running at a throttled rate. There is no framebuffer —
// the PPU is a stub in this core.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/lucasmora/sm83core/gbcore"
	"github.com/lucasmora/sm83core/gbcore/cpu"
	"github.com/lucasmora/sm83core/gbcore/logger"
)

const (
	freeRunStepsPerTick = 200
	freeRunTickInterval = 16 * time.Millisecond
	historySize         = 20
)

// monitor renders live CPU state to a tcell screen, stepping the core
// either one instruction per keypress or continuously while free-running.
type monitor struct {
	screen  tcell.Screen
	machine *gbcore.Machine

	running bool
	freeRun bool
	history []cpu.State
}

func newMonitor(machine *gbcore.Machine) (*monitor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	return &monitor{screen: screen, machine: machine, running: true}, nil
}

func (m *monitor) Run() error {
	defer m.screen.Fini()

	m.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	m.screen.Clear()

	events := make(chan tcell.Event, 16)
	go func() {
		for m.running {
			events <- m.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(freeRunTickInterval)
	defer ticker.Stop()

	for m.running {
		select {
		case ev := <-events:
			m.handleEvent(ev)
		case <-ticker.C:
			if m.freeRun {
				for i := 0; i < freeRunStepsPerTick && m.running; i++ {
					m.step()
				}
			}
		}
		m.render()
		m.screen.Show()
	}

	return nil
}

func (m *monitor) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			m.running = false
		case tcell.KeyEnter:
			m.step()
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				m.freeRun = !m.freeRun
			case 'r':
				m.machine.Reset()
				m.history = nil
			}
		}
	case *tcell.EventResize:
		m.screen.Sync()
	}
}

func (m *monitor) step() {
	state := m.machine.CPU.GetState()
	m.history = append(m.history, state)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
	m.machine.Step()
}

func (m *monitor) render() {
	m.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	state := m.machine.CPU.GetState()
	header := fmt.Sprintf("sm83core monitor  [ENTER] step  [SPACE] free-run  [r] reset  [ESC] quit")
	drawLine(m.screen, 0, 0, header, style)

	reg := fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X",
		state.AF, state.BC, state.DE, state.HL, state.SP, state.PC)
	drawLine(m.screen, 0, 2, reg, style)

	mode := "stepping"
	if m.freeRun {
		mode = "free-running"
	}
	drawLine(m.screen, 0, 3, "mode: "+mode, style)

	drawLine(m.screen, 0, 5, "recent trace:", style)
	for i, s := range m.history {
		line := fmt.Sprintf("BC=%04X DE=%04X HL=%04X AF=%04X SP=%04X PC=%04X",
			s.BC, s.DE, s.HL, s.AF, s.SP, s.PC)
		drawLine(m.screen, 0, 6+i, line, style)
	}
}

func drawLine(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "sm83core-monitor"
	app.Usage = "sm83core-monitor --rom <path>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM image"},
	}
	app.Action = runMonitor

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "sm83core-monitor:", err)
		os.Exit(1)
	}
}

func runMonitor(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return err
	}

	log := logger.New()
	machine := gbcore.New(log)
	machine.Bus.SetSerialOutput(func(b byte) { fmt.Fprint(os.Stdout, string(rune(b))) })
	machine.Bus.SetCartData(data)
	machine.Reset()

	mon, err := newMonitor(machine)
	if err != nil {
		return err
	}

	return mon.Run()
}
