package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertHeapInvariant(t *testing.T, s *Scheduler) {
	t.Helper()
	for i := 0; i < s.heapSize; i++ {
		left := 2*i + 1
		right := 2*i + 2
		if left < s.heapSize {
			assert.LessOrEqual(t, s.heap[i].Timestamp, s.heap[left].Timestamp)
		}
		if right < s.heapSize {
			assert.LessOrEqual(t, s.heap[i].Timestamp, s.heap[right].Timestamp)
		}
	}
}

func TestInsertMaintainsHeapInvariant(t *testing.T) {
	s := New(nil)
	deadlines := []uint64{500, 10, 300, 1, 999, 42, 7, 256}

	for _, d := range deadlines {
		s.Insert(Event{Timestamp: d})
		assertHeapInvariant(t, s)
	}
	assert.Equal(t, len(deadlines), s.Size())
}

func TestInsertAtCapacityPanics(t *testing.T) {
	s := New(nil)
	for i := 0; i < MaxEvents; i++ {
		s.Insert(Event{Timestamp: uint64(i)})
	}
	assert.Panics(t, func() {
		s.Insert(Event{Timestamp: 1000})
	})
}

func TestFindReturnsFirstMatch(t *testing.T) {
	s := New(nil)
	s.Insert(Event{Timestamp: 10, Type: TimaIncrement})
	s.Insert(Event{Timestamp: 20, Type: TimaOverflow})

	found := s.Find(TimaOverflow)
	require.NotNil(t, found)
	assert.Equal(t, uint64(20), found.Timestamp)

	assert.Nil(t, s.Find(EventType(99)))
}

func TestDeleteGroupRemovesAllMatching(t *testing.T) {
	s := New(nil)
	s.Insert(Event{Timestamp: 10, Group: GroupTimer})
	s.Insert(Event{Timestamp: 20, Group: GroupNone})
	s.Insert(Event{Timestamp: 30, Group: GroupTimer})
	s.Insert(Event{Timestamp: 40, Group: GroupTimer})

	s.DeleteGroup(GroupTimer)
	assertHeapInvariant(t, s)

	require.Equal(t, 1, s.Size())
	assert.Equal(t, GroupNone, s.heap[0].Group)
}

func TestAddCyclesFiresInTimestampOrder(t *testing.T) {
	s := New(nil)
	var order []int

	s.Insert(Event{Timestamp: 30, Callback: func() { order = append(order, 30) }})
	s.Insert(Event{Timestamp: 10, Callback: func() { order = append(order, 10) }})
	s.Insert(Event{Timestamp: 20, Callback: func() { order = append(order, 20) }})

	s.AddCycles(100)

	assert.Equal(t, []int{10, 20, 30}, order)
	assert.Equal(t, uint64(100), s.Now())
	assert.Equal(t, 0, s.Size())
}

func TestAddCyclesAdvancesNowMonotonically(t *testing.T) {
	s := New(nil)
	s.AddCycles(50)
	assert.Equal(t, uint64(50), s.Now())
	s.AddCycles(0)
	assert.Equal(t, uint64(50), s.Now())
	s.AddCycles(25)
	assert.Equal(t, uint64(75), s.Now())
}

func TestCallbackCanReinsertWithinSameGrant(t *testing.T) {
	s := New(nil)
	fired := 0

	var tick func()
	tick = func() {
		fired++
		if fired < 3 {
			s.Insert(Event{Timestamp: s.Now() + 10, Callback: tick})
		}
	}

	s.Insert(Event{Timestamp: 10, Callback: tick})
	s.AddCycles(100)

	assert.Equal(t, 3, fired)
}

func TestTiedTimestampsBreakTieByAscendingType(t *testing.T) {
	s := New(nil)
	var order []EventType

	// Insert in the "wrong" order (higher Type first) to confirm the tie
	// is broken by Type, not by insertion order.
	s.Insert(Event{Timestamp: 100, Type: TimaOverflow, Callback: func() { order = append(order, TimaOverflow) }})
	s.Insert(Event{Timestamp: 100, Type: TimaIncrement, Callback: func() { order = append(order, TimaIncrement) }})

	s.AddCycles(100)

	assert.Equal(t, []EventType{TimaIncrement, TimaOverflow}, order)
}

func TestResetZeroesState(t *testing.T) {
	s := New(nil)
	s.Insert(Event{Timestamp: 5})
	s.AddCycles(5)
	s.Insert(Event{Timestamp: 100})

	s.Reset()

	assert.Equal(t, 0, s.Size())
	assert.Equal(t, uint64(0), s.Now())
}
