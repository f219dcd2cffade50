package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	domainMember "yople/internal/domain/member"
)

// GetAttendanceDetailQuery carries query parameters.
type GetAttendanceDetailQuery struct {
	Date string
}

// Attendee is one check-in on the detail page.
type Attendee struct {
	AttendanceID string    `json:"attendance_id"`
	MemberID     string    `json:"member_id"`
	Name         string    `json:"name"`
	CheckInTime  time.Time `json:"check_in_time"`
}

// Absentee is a roster member who did not check in.
type Absentee struct {
	MemberID  string `json:"member_id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty"`
}

// GetAttendanceDetailResult carries the query result.
type GetAttendanceDetailResult struct {
	Date         string     `json:"date"`
	Attendees    []Attendee `json:"attendees"`
	Absentees    []Absentee `json:"absentees"`
	VisitorCount int        `json:"visitor_count"`
}

// GetAttendanceDetailDeps holds dependencies for GetAttendanceDetail.
type GetAttendanceDetailDeps struct {
	AttendanceStore AttendanceStore
	VisitorStore    VisitorStore
	MemberStore     MemberStore
}

// QueryGetAttendanceDetail lists who came on a date, who did not, and how many visitors came.
// PRE: Date is YYYY-MM-DD
// POST: Attendees ordered by check-in time; Absentees are the roster minus attendees, ordered by birth date (unknown last) then name
func QueryGetAttendanceDetail(ctx context.Context, query GetAttendanceDetailQuery, deps GetAttendanceDetailDeps) (GetAttendanceDetailResult, error) {
	entries, err := deps.AttendanceStore.List(ctx, attendanceStore.OnDate(query.Date))
	if err != nil {
		return GetAttendanceDetailResult{}, fmt.Errorf("list attendances: %w", err)
	}
	visitors, err := deps.VisitorStore.List(ctx, query.Date, query.Date)
	if err != nil {
		return GetAttendanceDetailResult{}, fmt.Errorf("list visitors: %w", err)
	}
	members, err := deps.MemberStore.List(ctx, memberStore.ListFilter{})
	if err != nil {
		return GetAttendanceDetailResult{}, fmt.Errorf("list members: %w", err)
	}
	names := rosterNames(members)

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	result := GetAttendanceDetailResult{
		Date:         query.Date,
		Attendees:    make([]Attendee, 0, len(entries)),
		Absentees:    []Absentee{},
		VisitorCount: len(visitors),
	}
	present := make(map[string]bool, len(entries))
	for _, a := range entries {
		present[a.MemberID] = true
		result.Attendees = append(result.Attendees, Attendee{
			AttendanceID: a.ID,
			MemberID:     a.MemberID,
			Name:         nameOf(names, a.MemberID),
			CheckInTime:  a.CreatedAt,
		})
	}

	sort.SliceStable(members, func(i, j int) bool { return domainMember.LessByBirthDate(members[i], members[j]) })
	for _, m := range members {
		if present[m.ID] {
			continue
		}
		result.Absentees = append(result.Absentees, Absentee{MemberID: m.ID, Name: m.Name, BirthDate: m.BirthDate})
	}
	return result, nil
}
