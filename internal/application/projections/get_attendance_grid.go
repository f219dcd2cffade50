package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	domainAttendance "yople/internal/domain/attendance"
	domainMember "yople/internal/domain/member"
)

// GetAttendanceGridQuery carries query parameters.
type GetAttendanceGridQuery struct {
	Year  int
	Month time.Month
}

// GridRow is one member's line on the monthly Sunday grid.
type GridRow struct {
	MemberID    string          `json:"member_id"`
	Name        string          `json:"name"`
	Cohort      string          `json:"cohort"`
	IsNewMember bool            `json:"is_new_member"`
	Attended    map[string]bool `json:"attended"`
	Count       int             `json:"count"`
}

// GetAttendanceGridResult carries the query result.
type GetAttendanceGridResult struct {
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Sundays []string  `json:"sundays"`
	Rows    []GridRow `json:"rows"`
}

// GetAttendanceGridDeps holds dependencies for GetAttendanceGrid.
type GetAttendanceGridDeps struct {
	AttendanceStore AttendanceStore
	MemberStore     MemberStore
}

// QueryGetAttendanceGrid builds the member-by-Sunday attendance grid of a month.
// PRE: 1 <= Month <= 12
// POST: one row per roster member, ordered by birth date (unknown last) then name; only Sundays are columns
func QueryGetAttendanceGrid(ctx context.Context, query GetAttendanceGridQuery, deps GetAttendanceGridDeps) (GetAttendanceGridResult, error) {
	if query.Month < time.January || query.Month > time.December {
		return GetAttendanceGridResult{}, fmt.Errorf("month %d out of range", query.Month)
	}
	sundays := domainAttendance.SundaysInMonth(query.Year, query.Month)
	from, to := domainAttendance.MonthRange(query.Year, query.Month)

	entries, err := deps.AttendanceStore.List(ctx, attendanceStore.ListFilter{From: from, To: to})
	if err != nil {
		return GetAttendanceGridResult{}, fmt.Errorf("list attendances: %w", err)
	}
	members, err := deps.MemberStore.List(ctx, memberStore.ListFilter{})
	if err != nil {
		return GetAttendanceGridResult{}, fmt.Errorf("list members: %w", err)
	}

	isSunday := make(map[string]bool, len(sundays))
	for _, d := range sundays {
		isSunday[d] = true
	}
	attended := make(map[string]map[string]bool)
	for _, a := range entries {
		if !isSunday[a.Date] {
			continue
		}
		if attended[a.MemberID] == nil {
			attended[a.MemberID] = make(map[string]bool)
		}
		attended[a.MemberID][a.Date] = true
	}

	sort.SliceStable(members, func(i, j int) bool { return domainMember.LessByBirthDate(members[i], members[j]) })
	result := GetAttendanceGridResult{
		Year:    query.Year,
		Month:   int(query.Month),
		Sundays: sundays,
		Rows:    make([]GridRow, 0, len(members)),
	}
	for _, m := range members {
		cells := attended[m.ID]
		if cells == nil {
			cells = map[string]bool{}
		}
		result.Rows = append(result.Rows, GridRow{
			MemberID:    m.ID,
			Name:        m.Name,
			Cohort:      m.Cohort(),
			IsNewMember: m.IsNewMember,
			Attended:    cells,
			Count:       len(cells),
		})
	}
	return result, nil
}
