package perf

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCollector_SnapshotSplitsRequestsAndQueries(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Route: "POST /api/import/attendance", Status: 200, Elapsed: ms(10), At: now})
	c.Record(Entry{Kind: KindRequest, Route: "POST /api/import/attendance", Status: 200, Elapsed: ms(30), At: now})
	c.Record(Entry{Kind: KindQuery, Route: "ExecContext", Elapsed: ms(5), At: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 3 {
		t.Errorf("TotalRecorded = %d, want 3", snap.TotalRecorded)
	}
	if snap.RequestCount != 2 || snap.QueryCount != 1 {
		t.Errorf("counts = %d requests / %d queries, want 2/1", snap.RequestCount, snap.QueryCount)
	}
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths len = %d, want 1", len(snap.SlowestPaths))
	}
	if got := snap.SlowestPaths[0]; got.AvgMs != 20 || got.MaxMs != 30 {
		t.Errorf("stat = %+v, want avg 20 max 30", got)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Fatalf("SlowestQueries len = %d, want 1", len(snap.SlowestQueries))
	}
}

func ms[N int | float64](n N) time.Duration {
	return time.Duration(float64(n) * float64(time.Millisecond))
}

func TestCollector_CountsServerErrors(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	for _, status := range []int{200, 400, 500, 503} {
		c.Record(Entry{Kind: KindRequest, Route: "POST /api/checkin", Status: status, Elapsed: ms(1), At: now})
	}
	c.Record(Entry{Kind: KindQuery, Route: "INSERT attendances", Elapsed: ms(1), At: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.ServerErrors != 2 {
		t.Errorf("ServerErrors = %d, want 2", snap.ServerErrors)
	}
	if snap.RequestCount != 4 || snap.QueryCount != 1 {
		t.Errorf("counts = %d/%d, want 4/1", snap.RequestCount, snap.QueryCount)
	}
}

func TestCollector_EmptyWindow(t *testing.T) {
	c := NewCollector(10)
	snap := c.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.RequestP99Ms != 0 || len(snap.SlowestPaths) != 0 || snap.SlowestPaths == nil {
		t.Errorf("snap = %+v, want zero percentiles and an empty list", snap)
	}
}

func TestCollector_RingBufferKeepsNewest(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Route: "GET /api/members", Elapsed: ms(i), At: now})
	}

	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths len = %d, want 1", len(snap.SlowestPaths))
	}
	// entries 2,3,4 survive
	if got := snap.SlowestPaths[0]; got.Count != 3 || got.AvgMs != 3 {
		t.Errorf("stat = %+v, want count 3 avg 3", got)
	}
}

func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()

	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Route: "GET /api/kiosk/lookup", Elapsed: ms(i), At: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 49 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 94 || snap.RequestP95Ms > 96 {
		t.Errorf("P95 = %v, want ~95", snap.RequestP95Ms)
	}
	if snap.RequestP99Ms < 98 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
}

func TestCollector_SnapshotFiltersBySince(t *testing.T) {
	c := NewCollector(100)
	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now()

	c.Record(Entry{Kind: KindRequest, Route: "GET /api/attendance", Elapsed: ms(100), At: old})
	c.Record(Entry{Kind: KindRequest, Route: "GET /api/members", Elapsed: ms(10), At: recent})

	snap := c.Snapshot(time.Now().Add(-time.Hour), 10)
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths len = %d, want 1", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Route != "GET /api/members" {
		t.Errorf("Route = %q, want GET /api/members", snap.SlowestPaths[0].Route)
	}
}

func TestCollector_TopNOrdersByAverageThenRoute(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Route: "GET /b", Elapsed: ms(5), At: now})
	c.Record(Entry{Kind: KindRequest, Route: "GET /a", Elapsed: ms(5), At: now})
	c.Record(Entry{Kind: KindRequest, Route: "GET /c", Elapsed: ms(9), At: now})

	snap := c.Snapshot(now.Add(-time.Minute), 2)
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("SlowestPaths len = %d, want 2", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Route != "GET /c" || snap.SlowestPaths[1].Route != "GET /a" {
		t.Errorf("order = %q, %q; want GET /c, GET /a", snap.SlowestPaths[0].Route, snap.SlowestPaths[1].Route)
	}
}

func TestSnapshot_JSONFieldNames(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Route: "GET /healthz", Elapsed: ms(1), At: now})

	raw, err := json.Marshal(c.Snapshot(now.Add(-time.Minute), 5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"request_p95_ms"`, `"slowest_paths"`, `"avg_ms"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("snapshot JSON missing %s: %s", key, raw)
		}
	}
}

func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c.Record(Entry{Kind: KindRequest, Route: "GET /c", Elapsed: ms(n), At: now})
			}
		}(i)
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}

func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Route: "GET /bench", Status: 200, Elapsed: ms(1.5), At: time.Now()}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}

func BenchmarkCollectorSnapshot(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	now := time.Now()
	for i := 0; i < DefaultRingSize; i++ {
		c.Record(Entry{Kind: KindRequest, Route: "GET /bench", Status: 200, Elapsed: ms(i % 100), At: now})
	}
	since := now.Add(-time.Hour)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Snapshot(since, 10)
	}
}
