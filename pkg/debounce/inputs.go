package debounce

import (
	"sync"
	"time"
)

const (
	SearchDelay = 300 * time.Millisecond
	PriceDelay  = 100 * time.Millisecond
	DateDelay   = 100 * time.Millisecond
)

// TextInput keeps the search box draft separate from the committed value.
type TextInput struct {
	mu        sync.Mutex
	draft     string
	committed string
	debouncer *Debouncer[string]
}

func NewTextInput(scheduler Scheduler, delay time.Duration, initial string, commit func(string)) *TextInput {
	t := &TextInput{draft: initial, committed: initial}
	t.debouncer = NewDebouncer(scheduler, delay, func(value string) {
		t.mu.Lock()
		t.committed = value
		t.mu.Unlock()
		commit(value)
	})
	return t
}

func (t *TextInput) Type(value string) {
	t.mu.Lock()
	t.draft = value
	t.mu.Unlock()
	t.debouncer.Push(value)
}

func (t *TextInput) Draft() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

// Pending is true while the draft has not been committed yet.
func (t *TextInput) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft != t.committed
}

// Sync mirrors a changed committed value. A reset to the empty default always
// wins over the local draft; other values are adopted when no commit is
// pending.
func (t *TextInput) Sync(committed string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.committed = committed
	if committed == "" {
		t.debouncer.Cancel()
		t.draft = ""
		return
	}
	if !t.debouncer.HasPending() {
		t.draft = committed
	}
}

// Reset drops the draft and any pending commit.
func (t *TextInput) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.debouncer.Cancel()
	t.draft = ""
	t.committed = ""
}

func (t *TextInput) Close() {
	t.debouncer.Close()
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func clamp(value, lo, hi float64) float64 {
	return min(max(value, lo), hi)
}

// RangeInput is the two handle price slider. The handles can never cross.
type RangeInput struct {
	mu        sync.Mutex
	floor     float64
	ceiling   float64
	low       float64
	high      float64
	debouncer *Debouncer[Range]
}

func NewRangeInput(scheduler Scheduler, delay time.Duration, floor, ceiling float64, value Range, commit func(Range)) *RangeInput {
	r := &RangeInput{floor: floor, ceiling: ceiling, low: value.Min, high: value.Max}
	r.debouncer = NewDebouncer(scheduler, delay, commit)
	return r
}

// Disabled is true until a usable ceiling is known.
func (r *RangeInput) Disabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ceiling <= r.floor
}

func (r *RangeInput) safeCeiling() float64 {
	if r.ceiling <= r.floor {
		return r.floor + 1
	}
	return r.ceiling
}

func (r *RangeInput) SetBounds(floor, ceiling float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floor = floor
	r.ceiling = ceiling
}

func (r *RangeInput) Bounds() Range {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Range{Min: r.floor, Max: r.ceiling}
}

func (r *RangeInput) Value() Range {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Range{Min: r.low, Max: r.high}
}

// DragMin moves the lower handle, which stops one unit below the upper one
// and never goes below the floor.
func (r *RangeInput) DragMin(value float64) Range {
	return r.update(func() {
		r.low = max(min(value, r.high-1), r.floor)
	})
}

// DragMax moves the upper handle, which stops one unit above the lower one.
func (r *RangeInput) DragMax(value float64) Range {
	return r.update(func() {
		r.high = clamp(value, r.low+1, r.safeCeiling())
	})
}

// EnterMin is the typed number variant, allowed to meet the upper value.
func (r *RangeInput) EnterMin(value float64) Range {
	return r.update(func() {
		r.low = max(min(value, r.high), r.floor)
	})
}

func (r *RangeInput) EnterMax(value float64) Range {
	return r.update(func() {
		r.high = clamp(value, r.low, r.safeCeiling())
	})
}

func (r *RangeInput) update(fn func()) Range {
	r.mu.Lock()
	if r.ceiling <= r.floor {
		v := Range{Min: r.low, Max: r.high}
		r.mu.Unlock()
		return v
	}
	fn()
	v := Range{Min: r.low, Max: r.high}
	r.mu.Unlock()
	r.debouncer.Push(v)
	return v
}

// Sync mirrors a changed committed range. A reset to the full range cancels
// any pending commit so the stale draft cannot come back. An upper value of
// 0 means no bound and puts the handle at the ceiling.
func (r *RangeInput) Sync(committed Range) {
	r.mu.Lock()
	defer r.mu.Unlock()
	isReset := committed.Min <= r.floor && (committed.Max == 0 || committed.Max >= r.ceiling)
	if isReset {
		r.debouncer.Cancel()
	} else if r.debouncer.HasPending() {
		return
	}
	r.low = max(committed.Min, r.floor)
	r.high = committed.Max
	if r.high <= 0 && r.ceiling > r.floor {
		r.high = r.ceiling
	}
}

// Reset puts both handles back on the bounds and drops any pending commit.
func (r *RangeInput) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debouncer.Cancel()
	r.low = r.floor
	r.high = r.ceiling
}

func (r *RangeInput) Pending() bool {
	return r.debouncer.HasPending()
}

func (r *RangeInput) Close() {
	r.debouncer.Close()
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DateRangeInput holds the review date range draft.
type DateRangeInput struct {
	mu        sync.Mutex
	start     string
	end       string
	debouncer *Debouncer[DateRange]
}

func NewDateRangeInput(scheduler Scheduler, delay time.Duration, value DateRange, commit func(DateRange)) *DateRangeInput {
	d := &DateRangeInput{start: value.Start, end: value.End}
	d.debouncer = NewDebouncer(scheduler, delay, commit)
	return d
}

func (d *DateRangeInput) SetStart(value string) DateRange {
	d.mu.Lock()
	d.start = value
	v := DateRange{Start: d.start, End: d.end}
	d.mu.Unlock()
	d.debouncer.Push(v)
	return v
}

func (d *DateRangeInput) SetEnd(value string) DateRange {
	d.mu.Lock()
	d.end = value
	v := DateRange{Start: d.start, End: d.end}
	d.mu.Unlock()
	d.debouncer.Push(v)
	return v
}

func (d *DateRangeInput) Value() DateRange {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DateRange{Start: d.start, End: d.end}
}

// Sync mirrors a changed committed range. Clearing both bounds always wins
// over the draft; anything else is adopted when no commit is pending.
func (d *DateRangeInput) Sync(committed DateRange) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if committed.Start == "" && committed.End == "" {
		d.debouncer.Cancel()
	} else if d.debouncer.HasPending() {
		return
	}
	d.start = committed.Start
	d.end = committed.End
}

func (d *DateRangeInput) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.debouncer.Cancel()
	d.start = ""
	d.end = ""
}

func (d *DateRangeInput) Close() {
	d.debouncer.Close()
}
