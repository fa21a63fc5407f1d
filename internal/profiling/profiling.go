package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Frame is a lightweight per-frame CPU profiler.
// Each render pass records its time under its own name; the overlay shows the slowest.
type Frame struct {
	mu     sync.Mutex
	totals map[string]time.Duration
	order  []string
	now    func() time.Time
}

// NewFrame returns an empty profiler using the wall clock
func NewFrame() *Frame {
	return &Frame{totals: make(map[string]time.Duration), now: time.Now}
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer prof.Track("renderer.Bloom")()
func (f *Frame) Track(name string) func() {
	start := f.now()
	return func() {
		d := f.now().Sub(start)
		f.mu.Lock()
		if _, ok := f.totals[name]; !ok {
			f.order = append(f.order, name)
		}
		f.totals[name] += d
		f.mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func (f *Frame) ResetFrame() {
	f.mu.Lock()
	clear(f.totals)
	f.order = f.order[:0]
	f.mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func (f *Frame) Snapshot() map[string]time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]time.Duration, len(f.totals))
	for k, v := range f.totals {
		out[k] = v
	}
	return out
}

// Names returns the tracked names in the order they were first recorded this frame
func (f *Frame) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

// SumWithPrefix adds up every total whose name starts with prefix
func (f *Frame) SumWithPrefix(prefix string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum time.Duration
	for k, v := range f.totals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats top N durations from the current frame totals.
// Example: "renderer.Bloom:1.2ms, renderer.Main:0.8ms"
func (f *Frame) TopN(n int) string {
	ss := f.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+FormatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// FormatMs renders d in milliseconds with one decimal, dropping ".0"
func FormatMs(d time.Duration) string {
	tenths := d.Microseconds() / 100
	s := strconv.FormatInt(tenths/10, 10)
	if frac := tenths % 10; frac != 0 {
		s += "." + strconv.FormatInt(frac, 10)
	}
	return s + "ms"
}
