package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCommitsLastValue(t *testing.T) {
	clock := NewFakeScheduler()
	var got []string
	d := NewDebouncer(clock, 300*time.Millisecond, func(v string) { got = append(got, v) })

	d.Push("p")
	clock.Advance(200 * time.Millisecond)
	d.Push("ph")
	clock.Advance(200 * time.Millisecond)
	d.Push("pho")
	assert.Empty(t, got, "nothing should commit while typing")

	clock.Advance(299 * time.Millisecond)
	assert.Empty(t, got)
	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"pho"}, got)

	clock.Advance(time.Second)
	assert.Equal(t, []string{"pho"}, got, "commit must fire only once")
}

func TestDebouncerCloseCancelsPending(t *testing.T) {
	clock := NewFakeScheduler()
	calls := 0
	d := NewDebouncer(clock, 100*time.Millisecond, func(int) { calls++ })
	d.Push(1)
	d.Close()
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, clock.Pending())

	d.Push(2)
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls, "closed debouncer ignores pushes")
}

func TestDebouncerCancel(t *testing.T) {
	clock := NewFakeScheduler()
	var got []int
	d := NewDebouncer(clock, 100*time.Millisecond, func(v int) { got = append(got, v) })

	d.Push(1)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []int{1}, got)

	d.Push(2)
	assert.True(t, d.HasPending())
	d.Cancel()
	assert.False(t, d.HasPending())
	clock.Advance(time.Second)
	assert.Equal(t, []int{1}, got)
}

func TestTextInputResetMirrorsImmediately(t *testing.T) {
	clock := NewFakeScheduler()
	var committed []string
	in := NewTextInput(clock, SearchDelay, "", func(v string) { committed = append(committed, v) })

	in.Type("phone")
	assert.Equal(t, "phone", in.Draft())
	assert.True(t, in.Pending())

	in.Sync("")
	assert.Equal(t, "", in.Draft())
	assert.False(t, in.Pending())

	clock.Advance(time.Second)
	assert.Empty(t, committed, "reset must cancel the pending commit")
}

func TestTextInputCommit(t *testing.T) {
	clock := NewFakeScheduler()
	var committed []string
	in := NewTextInput(clock, SearchDelay, "", func(v string) { committed = append(committed, v) })
	in.Type("lap")
	in.Type("laptop")
	clock.Advance(SearchDelay)
	require.Equal(t, []string{"laptop"}, committed)
	assert.False(t, in.Pending())

	in.Sync("tablet")
	assert.Equal(t, "tablet", in.Draft(), "external value adopted when idle")
}

func TestRangeInputClampsHandles(t *testing.T) {
	clock := NewFakeScheduler()
	var got []Range
	r := NewRangeInput(clock, PriceDelay, 0, 1000, Range{Min: 100, Max: 500}, func(v Range) { got = append(got, v) })

	v := r.DragMin(800)
	assert.Equal(t, Range{Min: 499, Max: 500}, v)

	v = r.DragMax(10)
	assert.Equal(t, Range{Min: 499, Max: 500}, v, "upper handle stops at lower+1")

	v = r.DragMin(-50)
	assert.Equal(t, 0.0, v.Min)
	v = r.DragMax(5000)
	assert.Equal(t, 1000.0, v.Max)

	clock.Advance(PriceDelay)
	require.Len(t, got, 1)
	assert.Equal(t, Range{Min: 0, Max: 1000}, got[0])
}

func TestRangeInputEnterAllowsEqualBounds(t *testing.T) {
	r := NewRangeInput(NewFakeScheduler(), PriceDelay, 0, 1000, Range{Min: 100, Max: 500}, func(Range) {})
	assert.Equal(t, Range{Min: 500, Max: 500}, r.EnterMin(900))
	assert.Equal(t, Range{Min: 500, Max: 500}, r.EnterMax(100))
}

func TestRangeInputDisabledWithoutCeiling(t *testing.T) {
	clock := NewFakeScheduler()
	calls := 0
	r := NewRangeInput(clock, PriceDelay, 0, 0, Range{}, func(Range) { calls++ })
	assert.True(t, r.Disabled())
	r.DragMax(10)
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls)

	r.SetBounds(0, 999)
	r.Sync(Range{Min: 0, Max: 999})
	assert.False(t, r.Disabled())
	assert.Equal(t, Range{Min: 0, Max: 999}, r.Value())
}

func TestRangeInputResetCancelsDraft(t *testing.T) {
	clock := NewFakeScheduler()
	calls := 0
	r := NewRangeInput(clock, PriceDelay, 0, 1000, Range{Min: 0, Max: 1000}, func(Range) { calls++ })
	r.DragMin(300)
	assert.True(t, r.Pending())

	r.Sync(Range{Min: 0, Max: 1000})
	assert.Equal(t, Range{Min: 0, Max: 1000}, r.Value())
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls)
}

func TestRangeInputKeepsDraftWhilePending(t *testing.T) {
	r := NewRangeInput(NewFakeScheduler(), PriceDelay, 0, 1000, Range{Min: 0, Max: 1000}, func(Range) {})
	r.DragMax(600)
	r.Sync(Range{Min: 100, Max: 900})
	assert.Equal(t, Range{Min: 0, Max: 600}, r.Value())
}

func TestDateRangeInput(t *testing.T) {
	clock := NewFakeScheduler()
	var got []DateRange
	d := NewDateRangeInput(clock, DateDelay, DateRange{}, func(v DateRange) { got = append(got, v) })
	d.SetStart("2024-01-01")
	d.SetEnd("2024-02-01")
	clock.Advance(DateDelay)
	require.Len(t, got, 1)
	assert.Equal(t, DateRange{Start: "2024-01-01", End: "2024-02-01"}, got[0])

	d.SetEnd("2024-03-01")
	d.Sync(DateRange{})
	assert.Equal(t, DateRange{}, d.Value())
	clock.Advance(time.Second)
	assert.Len(t, got, 1)

	d.Close()
	d.SetStart("2025-01-01")
	clock.Advance(time.Second)
	assert.Len(t, got, 1)
}

func TestTextInputReset(t *testing.T) {
	clock := NewFakeScheduler()
	calls := 0
	in := NewTextInput(clock, SearchDelay, "", func(string) { calls++ })
	in.Type("desk")
	in.Reset()
	assert.Equal(t, "", in.Draft())
	assert.False(t, in.Pending())
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls)
}

func TestRangeInputUnboundedMaxSyncsToCeiling(t *testing.T) {
	clock := NewFakeScheduler()
	var got []Range
	r := NewRangeInput(clock, PriceDelay, 0, 1000, Range{Min: 0, Max: 1000}, func(v Range) { got = append(got, v) })
	r.Sync(Range{Min: 0, Max: 0})
	assert.Equal(t, Range{Min: 0, Max: 1000}, r.Value())

	assert.Equal(t, Range{Min: 50, Max: 1000}, r.DragMin(50))
	clock.Advance(PriceDelay)
	require.Len(t, got, 1)
	assert.Equal(t, Range{Min: 50, Max: 1000}, got[0])
}

func TestRangeInputLowerHandleStaysOnFloor(t *testing.T) {
	r := NewRangeInput(NewFakeScheduler(), PriceDelay, 0, 1000, Range{Min: 0, Max: 0.5}, func(Range) {})
	assert.Equal(t, 0.0, r.DragMin(50).Min)
	assert.Equal(t, 0.0, r.EnterMin(-10).Min)
}

func TestRangeInputReset(t *testing.T) {
	clock := NewFakeScheduler()
	calls := 0
	r := NewRangeInput(clock, PriceDelay, 0, 1000, Range{Min: 200, Max: 800}, func(Range) { calls++ })
	r.DragMax(700)
	r.Reset()
	assert.Equal(t, Range{Min: 0, Max: 1000}, r.Value())
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls)
}

func TestDateRangeInputKeepsPendingBound(t *testing.T) {
	clock := NewFakeScheduler()
	var got []DateRange
	d := NewDateRangeInput(clock, DateDelay, DateRange{}, func(v DateRange) { got = append(got, v) })
	d.SetStart("2024-01-01")
	clock.Advance(DateDelay)
	d.SetEnd("2024-02-01")
	d.Sync(DateRange{Start: "2024-01-01"})
	assert.Equal(t, DateRange{Start: "2024-01-01", End: "2024-02-01"}, d.Value())

	clock.Advance(DateDelay)
	require.Len(t, got, 2)
	assert.Equal(t, DateRange{Start: "2024-01-01", End: "2024-02-01"}, got[1])

	d.SetStart("2023-06-01")
	d.Reset()
	assert.Equal(t, DateRange{}, d.Value())
	clock.Advance(time.Second)
	assert.Len(t, got, 2)
}

func TestFakeSchedulerOrdersCallbacks(t *testing.T) {
	clock := NewFakeScheduler()
	var order []int
	clock.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
	clock.AfterFunc(10*time.Millisecond, func() {
		order = append(order, 1)
		clock.AfterFunc(10*time.Millisecond, func() { order = append(order, 2) })
	})
	stopped := clock.AfterFunc(15*time.Millisecond, func() { order = append(order, 99) })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 50*time.Millisecond, clock.Now())
}
