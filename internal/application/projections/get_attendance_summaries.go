package projections

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
)

// GetAttendanceSummariesQuery carries query parameters.
type GetAttendanceSummariesQuery struct {
	Year int
}

// DateSummary is one worship day on the attendance list.
type DateSummary struct {
	Date         string   `json:"date"`
	Members      []string `json:"members"`
	MemberCount  int      `json:"member_count"`
	VisitorCount int      `json:"visitor_count"`
}

// GetAttendanceSummariesResult carries the query result.
type GetAttendanceSummariesResult struct {
	Year      int           `json:"year"`
	Years     []int         `json:"years"`
	Summaries []DateSummary `json:"summaries"`
}

// GetAttendanceSummariesDeps holds dependencies for GetAttendanceSummaries.
type GetAttendanceSummariesDeps struct {
	AttendanceStore AttendanceStore
	VisitorStore    VisitorStore
	MemberStore     MemberStore
}

// QueryGetAttendanceSummaries groups attendances and visitors by date for one year.
// PRE: Year > 0
// POST: Summaries are sorted by date descending; Years is descending and always contains Year
// INVARIANT: a member checked in twice on one day is named once
func QueryGetAttendanceSummaries(ctx context.Context, query GetAttendanceSummariesQuery, deps GetAttendanceSummariesDeps) (GetAttendanceSummariesResult, error) {
	entries, err := deps.AttendanceStore.List(ctx, attendanceStore.ListFilter{})
	if err != nil {
		return GetAttendanceSummariesResult{}, fmt.Errorf("list attendances: %w", err)
	}
	visitors, err := deps.VisitorStore.List(ctx, "", "")
	if err != nil {
		return GetAttendanceSummariesResult{}, fmt.Errorf("list visitors: %w", err)
	}
	members, err := deps.MemberStore.List(ctx, memberStore.ListFilter{})
	if err != nil {
		return GetAttendanceSummariesResult{}, fmt.Errorf("list members: %w", err)
	}
	names := rosterNames(members)

	byDate := make(map[string]*DateSummary)
	seen := make(map[string]map[string]bool)
	summary := func(date string) *DateSummary {
		s, ok := byDate[date]
		if !ok {
			s = &DateSummary{Date: date, Members: []string{}}
			byDate[date] = s
			seen[date] = make(map[string]bool)
		}
		return s
	}
	for _, a := range entries {
		s := summary(a.Date)
		name := nameOf(names, a.MemberID)
		if !seen[a.Date][name] {
			seen[a.Date][name] = true
			s.Members = append(s.Members, name)
			s.MemberCount = len(s.Members)
		}
	}
	for _, v := range visitors {
		summary(v.Date).VisitorCount++
	}

	yearSet := map[int]bool{query.Year: true}
	prefix := strconv.Itoa(query.Year) + "-"
	result := GetAttendanceSummariesResult{Year: query.Year, Summaries: []DateSummary{}}
	for date, s := range byDate {
		if y, ok := yearOf(date); ok {
			yearSet[y] = true
		}
		if strings.HasPrefix(date, prefix) {
			result.Summaries = append(result.Summaries, *s)
		}
	}
	sort.Slice(result.Summaries, func(i, j int) bool { return result.Summaries[i].Date > result.Summaries[j].Date })
	for y := range yearSet {
		result.Years = append(result.Years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(result.Years)))
	return result, nil
}

func yearOf(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(date[:4])
	return y, err == nil
}
