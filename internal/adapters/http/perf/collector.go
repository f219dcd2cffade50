package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize holds roughly a Sunday's worth of kiosk and admin traffic.
const DefaultRingSize = 10000

// EntryKind tells an HTTP request from a store statement.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is one timed request or statement.
type Entry struct {
	Kind    EntryKind
	Route   string // "GET /api/attendance/{date}" or "INSERT attendances"
	Status  int    // response status; zero for statements
	Elapsed time.Duration
	At      time.Time
}

func (e Entry) ms() float64 {
	return float64(e.Elapsed.Microseconds()) / 1000
}

// Collector keeps the newest entries in a fixed ring and aggregates on read.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total atomic.Int64
}

// NewCollector creates a collector holding up to size entries.
// PRE: none; a non-positive size means DefaultRingSize
// POST: ring storage is allocated up front
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry once the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.ring[c.next] = e
	c.next++
	if c.next == len(c.ring) {
		c.next = 0
	}
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded counts every entry ever recorded, including overwritten ones.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// Snapshot is the admin perf report.
type Snapshot struct {
	Since          time.Time   `json:"since"`
	TotalRecorded  int64       `json:"total_recorded"`
	RequestCount   int         `json:"request_count"`
	QueryCount     int         `json:"query_count"`
	ServerErrors   int         `json:"server_errors"`
	RequestP50Ms   float64     `json:"request_p50_ms"`
	RequestP95Ms   float64     `json:"request_p95_ms"`
	RequestP99Ms   float64     `json:"request_p99_ms"`
	SlowestPaths   []RouteStat `json:"slowest_paths"`
	SlowestQueries []RouteStat `json:"slowest_queries"`
}

// RouteStat aggregates one route or statement label.
type RouteStat struct {
	Route   string  `json:"route"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	TotalMs float64 `json:"total_ms"`
}

type tally map[string]*RouteStat

func (t tally) add(e Entry) {
	s := t[e.Route]
	if s == nil {
		s = &RouteStat{Route: e.Route}
		t[e.Route] = s
	}
	ms := e.ms()
	s.Count++
	s.TotalMs += ms
	s.MaxMs = max(s.MaxMs, ms)
}

// top returns at most n stats, slowest average first, ties by route.
func (t tally) top(n int) []RouteStat {
	out := make([]RouteStat, 0, len(t))
	for _, s := range t {
		s.AvgMs = s.TotalMs / float64(s.Count)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b RouteStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Route, b.Route)
	})
	return out[:min(max(n, 0), len(out))]
}

// Snapshot aggregates entries recorded at or after since.
// It sorts, so only the admin perf endpoint calls it.
// PRE: topN >= 0
// POST: percentiles are zero when no request falls in the window
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	filled := min(int(c.total.Load()), len(c.ring))
	entries := slices.Clone(c.ring[:filled])
	c.mu.Unlock()

	requests, queries := tally{}, tally{}
	var elapsed []float64
	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}
	for _, e := range entries {
		if e.At.Before(since) {
			continue
		}
		if e.Kind == KindQuery {
			snap.QueryCount++
			queries.add(e)
			continue
		}
		snap.RequestCount++
		if e.Status >= 500 {
			snap.ServerErrors++
		}
		elapsed = append(elapsed, e.ms())
		requests.add(e)
	}

	slices.Sort(elapsed)
	snap.RequestP50Ms = nearestRank(elapsed, 50)
	snap.RequestP95Ms = nearestRank(elapsed, 95)
	snap.RequestP99Ms = nearestRank(elapsed, 99)
	snap.SlowestPaths = requests.top(topN)
	snap.SlowestQueries = queries.top(topN)
	return snap
}

// nearestRank returns the p-th percentile of sorted, or zero when empty.
func nearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	return sorted[max(rank, 1)-1]
}
