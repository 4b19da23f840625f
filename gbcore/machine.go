package gbcore

import (
	"github.com/lucasmora/sm83core/gbcore/cpu"
	"github.com/lucasmora/sm83core/gbcore/logger"
	"github.com/lucasmora/sm83core/gbcore/scheduler"
)

// Machine composes the scheduler, bus, and CPU into a single runnable core.
type Machine struct {
	Scheduler *scheduler.Scheduler
	Bus       *Bus
	CPU       *cpu.CPU

	log *logger.Logger
}

// New wires a fresh scheduler, bus, and CPU together. A nil log is
// replaced with a default logger shared by all three.
func New(log *logger.Logger) *Machine {
	if log == nil {
		log = logger.New()
	}
	sched := scheduler.New(log)
	bus := NewBus(sched, log)
	c := cpu.New(bus, sched, log)

	return &Machine{
		Scheduler: sched,
		Bus:       bus,
		CPU:       c,
		log:       log,
	}
}

// Reset restores scheduler, bus (and its timer), and CPU to their
// post-boot-ROM state, in that order so the CPU's first fetch sees a
// clean bus and scheduler.
func (m *Machine) Reset() {
	m.Scheduler.Reset()
	m.Bus.Reset()
	m.CPU.Reset()
}

// Step executes exactly one CPU instruction and returns its cycle cost.
func (m *Machine) Step() int {
	return m.CPU.Step()
}

// PC returns the CPU's current program counter.
func (m *Machine) PC() uint16 {
	return m.CPU.PC()
}
