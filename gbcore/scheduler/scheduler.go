// Package scheduler implements the core's time-ordered event queue: a
// bounded array-backed min-heap keyed by absolute CPU-cycle deadline,
// advanced by cycle grants from the CPU.
//
// Events are a closed tag set (EventType) carrying a zero-argument
// callback. Each callback decides for itself whether to reinsert, and the
// heap itself never inspects the callback beyond invoking it.
package scheduler

import (
	"fmt"

	"github.com/lucasmora/sm83core/gbcore/logger"
)

// MaxEvents bounds the heap. The core only ever has a handful of
// hardware events in flight (timer increment/overflow); 10 slots leaves
// generous headroom without the indirection of an unbounded structure.
const MaxEvents = 10

// EventType tags what kind of hardware event fired, without the fire
// loop needing to inspect the Callback.
type EventType int

const (
	TimaIncrement EventType = iota
	TimaOverflow
)

func (t EventType) String() string {
	switch t {
	case TimaIncrement:
		return "TIMA_INCREMENT"
	case TimaOverflow:
		return "TIMA_OVERFLOW"
	default:
		return "UNKNOWN"
	}
}

// Group lets a family of related events be deleted together, e.g. every
// timer event when TAC's enable bit clears.
type Group int

const (
	GroupNone Group = iota
	GroupTimer
)

// Event is a single scheduled callback, keyed by absolute deadline.
type Event struct {
	Timestamp uint64
	Type      EventType
	Group     Group
	Callback  func()
}

// Scheduler is a bounded min-heap of events ordered by Timestamp, plus a
// monotonically non-decreasing "now" cursor in CPU cycles.
type Scheduler struct {
	heap     [MaxEvents]Event
	heapSize int
	now      uint64
	log      *logger.Logger
}

// New returns a Scheduler that logs through l. A nil l is replaced with a
// fresh default logger so the zero value is never silently inert.
func New(l *logger.Logger) *Scheduler {
	if l == nil {
		l = logger.New()
	}
	return &Scheduler{log: l}
}

// Reset zeroes the entire structure.
func (s *Scheduler) Reset() {
	s.heap = [MaxEvents]Event{}
	s.heapSize = 0
	s.now = 0
	s.log.Log(logger.Info, "scheduler reset")
}

// Now returns the current virtual time in CPU cycles.
func (s *Scheduler) Now() uint64 {
	return s.now
}

// Size returns the number of pending events.
func (s *Scheduler) Size() int {
	return s.heapSize
}

// Insert copies event into the heap and restores the min-heap invariant.
//
// Insertion at capacity is a fatal invariant violation: the scheduler
// never grows or silently drops an event.
func (s *Scheduler) Insert(event Event) {
	if s.heapSize >= MaxEvents {
		panic(fmt.Sprintf("scheduler: heap full, cannot insert event %s at %d", event.Type, event.Timestamp))
	}

	s.heap[s.heapSize] = event
	s.siftUp(s.heapSize)
	s.heapSize++
}

// Find returns a pointer to the first event whose Type matches, or nil.
func (s *Scheduler) Find(t EventType) *Event {
	for i := 0; i < s.heapSize; i++ {
		if s.heap[i].Type == t {
			return &s.heap[i]
		}
	}
	return nil
}

// DeleteGroup removes every event whose Group matches, restoring the
// heap invariant after each removal.
func (s *Scheduler) DeleteGroup(group Group) {
	for {
		idx := -1
		for i := 0; i < s.heapSize; i++ {
			if s.heap[i].Group == group {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		s.removeAt(idx)
	}
}

// DeleteType removes every event whose Type matches, restoring the heap
// invariant after each removal. Used by the timer to retarget a single
// pending event (e.g. TIMA_OVERFLOW) without disturbing its siblings.
func (s *Scheduler) DeleteType(t EventType) {
	for {
		idx := -1
		for i := 0; i < s.heapSize; i++ {
			if s.heap[i].Type == t {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		s.removeAt(idx)
	}
}

// AddCycles is the time-advance primitive. It computes the target
// timestamp now+n, then fires every event whose deadline has been
// crossed in heap order, advancing now to each fired deadline as it
// goes. Once no more events are due, now jumps to the full target.
//
// A fired callback may reinsert itself or other events; if their
// deadline falls within the remaining grant, they fire within this same
// call.
func (s *Scheduler) AddCycles(n uint64) {
	target := s.now + n

	for s.heapSize > 0 && s.heap[0].Timestamp <= target {
		event := s.heap[0]
		s.now = event.Timestamp
		s.removeAt(0)
		if event.Callback != nil {
			event.Callback()
		}
	}

	s.now = target
}

func (s *Scheduler) removeAt(i int) {
	last := s.heapSize - 1
	s.heap[i] = s.heap[last]
	s.heap[last] = Event{}
	s.heapSize--

	if i < s.heapSize {
		s.siftDown(i)
		s.siftUp(i)
	}
}

// less orders by deadline first; events tied on the same cycle are
// ordered by Type so that, e.g., a TIMA_INCREMENT scheduled for the same
// cycle as a TIMA_OVERFLOW (which happens by construction when the timer
// is enabled and after each overflow, since both are then scheduled from
// the same cycle) fires
// before it rather than in whatever order the heap happens to hold them.
func less(a, b Event) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	return a.Type < b.Type
}

func (s *Scheduler) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(s.heap[i], s.heap[parent]) {
			break
		}
		s.heap[parent], s.heap[i] = s.heap[i], s.heap[parent]
		i = parent
	}
}

func (s *Scheduler) siftDown(i int) {
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i

		if left < s.heapSize && less(s.heap[left], s.heap[smallest]) {
			smallest = left
		}
		if right < s.heapSize && less(s.heap[right], s.heap[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}
		s.heap[i], s.heap[smallest] = s.heap[smallest], s.heap[i]
		i = smallest
	}
}
