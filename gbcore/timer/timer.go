// Package timer models the DMG timer unit: TIMA/TMA/TAC, scheduled
// through the event scheduler rather than polled every CPU cycle.
package timer

import (
	"github.com/lucasmora/sm83core/gbcore/bit"
	"github.com/lucasmora/sm83core/gbcore/logger"
	"github.com/lucasmora/sm83core/gbcore/scheduler"
)

// periods maps TAC's low two bits to the number of CPU cycles per TIMA
// tick.
var periods = [4]uint64{1024, 256, 16, 8}

const enableBit = 2

// Timer holds TIMA, TMA and TAC and schedules its own increment/overflow
// events through a Scheduler.
type Timer struct {
	TIMA, TMA, TAC byte

	sched            *scheduler.Scheduler
	requestInterrupt func()
	log              *logger.Logger
}

// New returns a Timer wired to sched. requestInterrupt is called to raise
// the timer interrupt bit (IF bit 2) on overflow; it is supplied by the
// bus rather than imported, so the timer package never depends on bus.
func New(sched *scheduler.Scheduler, requestInterrupt func(), log *logger.Logger) *Timer {
	if log == nil {
		log = logger.New()
	}
	return &Timer{sched: sched, requestInterrupt: requestInterrupt, log: log}
}

// Reset restores post-boot-ROM register values: TIMA=0, TMA=0, TAC=0xF8
// (the unused top 5 bits of TAC set). Any pending timer events are
// dropped.
func (t *Timer) Reset() {
	t.TIMA = 0
	t.TMA = 0
	t.TAC = 0xF8
	t.sched.DeleteGroup(scheduler.GroupTimer)
}

func (t *Timer) enabled() bool {
	return bit.IsSet(enableBit, t.TAC)
}

func (t *Timer) period() uint64 {
	return periods[t.TAC&0x03]
}

// ticksToOverflow returns how many TIMA increments remain before v wraps
// from 0xFF to 0x00 (256 at v=0x00, 1 at v=0xFF).
func ticksToOverflow(v byte) uint64 {
	return uint64(0x100 - uint16(v))
}

// WriteTIMA stores v. If the timer is running, the pending overflow
// event's deadline is retargeted to ticksToOverflow(v)*period cycles from now, so a
// manual write to TIMA while the timer is counting doesn't leave a stale
// overflow scheduled against the old value.
func (t *Timer) WriteTIMA(v byte) {
	t.TIMA = v
	if !t.enabled() {
		return
	}

	t.sched.DeleteType(scheduler.TimaOverflow)
	deadline := t.sched.Now() + ticksToOverflow(v)*t.period()
	t.sched.Insert(scheduler.Event{
		Timestamp: deadline,
		Type:      scheduler.TimaOverflow,
		Group:     scheduler.GroupTimer,
		Callback:  t.onOverflow,
	})
}

// WriteTMA stores v.
func (t *Timer) WriteTMA(v byte) {
	t.TMA = v
}

// WriteTAC stores v. A 0->1 transition of the enable bit schedules the
// increment and overflow events; a 1->0 transition deletes every pending
// timer event. Otherwise only the low three bits change.
func (t *Timer) WriteTAC(v byte) {
	wasEnabled := t.enabled()
	old := t.TAC
	t.TAC = v
	nowEnabled := t.enabled()

	if !wasEnabled && nowEnabled {
		period := t.period()
		t.sched.Insert(scheduler.Event{
			Timestamp: t.sched.Now() + period,
			Type:      scheduler.TimaIncrement,
			Group:     scheduler.GroupTimer,
			Callback:  t.onIncrement,
		})
		t.sched.Insert(scheduler.Event{
			Timestamp: t.sched.Now() + ticksToOverflow(t.TIMA)*period,
			Type:      scheduler.TimaOverflow,
			Group:     scheduler.GroupTimer,
			Callback:  t.onOverflow,
		})
		t.log.Log(logger.Info, "timer enabled, period=%d", period)
	} else if wasEnabled && !nowEnabled {
		t.sched.DeleteGroup(scheduler.GroupTimer)
		t.log.Log(logger.Info, "timer disabled")
	} else {
		t.TAC = old&^0x07 | v&0x07
	}
}

func (t *Timer) onIncrement() {
	t.TIMA++
	if t.enabled() {
		t.sched.Insert(scheduler.Event{
			Timestamp: t.sched.Now() + t.period(),
			Type:      scheduler.TimaIncrement,
			Group:     scheduler.GroupTimer,
			Callback:  t.onIncrement,
		})
	}
}

func (t *Timer) onOverflow() {
	t.TIMA = t.TMA
	if t.requestInterrupt != nil {
		t.requestInterrupt()
	}
	if t.enabled() {
		t.sched.Insert(scheduler.Event{
			Timestamp: t.sched.Now() + ticksToOverflow(t.TIMA)*t.period(),
			Type:      scheduler.TimaOverflow,
			Group:     scheduler.GroupTimer,
			Callback:  t.onOverflow,
		})
	}
}
