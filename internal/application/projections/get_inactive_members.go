package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	domainAttendance "yople/internal/domain/attendance"
)

// DefaultInactiveWeeks is the absence window used when none is given.
const DefaultInactiveWeeks = 4

// GetInactiveMembersQuery carries input for the absence follow-up list.
type GetInactiveMembersQuery struct {
	Weeks int    // members absent for at least this many weeks
	Today string // YYYY-MM-DD in the configured zone
}

// GetInactiveMembersDeps holds dependencies for the absence follow-up list.
type GetInactiveMembersDeps struct {
	MemberStore     MemberStore
	AttendanceStore AttendanceStore
}

// InactiveMember is one roster member due a follow-up.
type InactiveMember struct {
	MemberID     string `json:"member_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	IsNewMember  bool   `json:"is_new_member"`
	LastAttended string `json:"last_attended"` // YYYY-MM-DD, empty when never
	DaysAbsent   int    `json:"days_absent"`   // -1 when never
}

// GetInactiveMembersResult carries the query result.
type GetInactiveMembersResult struct {
	Weeks   int              `json:"weeks"`
	Cutoff  string           `json:"cutoff"`
	Members []InactiveMember `json:"members"`
}

// QueryGetInactiveMembers lists roster members with no attendance since Weeks before Today.
// PRE: Today is YYYY-MM-DD
// POST: never-attended members first, then oldest last attendance first; ties by name
func QueryGetInactiveMembers(ctx context.Context, query GetInactiveMembersQuery, deps GetInactiveMembersDeps) (GetInactiveMembersResult, error) {
	if query.Weeks <= 0 {
		query.Weeks = DefaultInactiveWeeks
	}
	today, err := time.Parse(domainAttendance.DateLayout, query.Today)
	if err != nil {
		return GetInactiveMembersResult{}, fmt.Errorf("parse today: %w", err)
	}
	cutoff := today.AddDate(0, 0, -7*query.Weeks).Format(domainAttendance.DateLayout)

	members, err := deps.MemberStore.List(ctx, memberStore.ListFilter{})
	if err != nil {
		return GetInactiveMembersResult{}, fmt.Errorf("list members: %w", err)
	}
	entries, err := deps.AttendanceStore.List(ctx, attendanceStore.ListFilter{To: query.Today})
	if err != nil {
		return GetInactiveMembersResult{}, fmt.Errorf("list attendances: %w", err)
	}

	// Entries are date-ordered, so the last one seen per member is the latest.
	last := make(map[string]string, len(members))
	for _, e := range entries {
		last[e.MemberID] = e.Date
	}

	result := GetInactiveMembersResult{Weeks: query.Weeks, Cutoff: cutoff, Members: []InactiveMember{}}
	for _, m := range members {
		date, seen := last[m.ID]
		if seen && date > cutoff {
			continue
		}
		row := InactiveMember{
			MemberID:     m.ID,
			Name:         m.Name,
			Phone:        m.Phone,
			IsNewMember:  m.IsNewMember,
			LastAttended: date,
			DaysAbsent:   -1,
		}
		if seen {
			d, _ := time.Parse(domainAttendance.DateLayout, date)
			row.DaysAbsent = int(today.Sub(d).Hours() / 24)
		}
		result.Members = append(result.Members, row)
	}

	sort.SliceStable(result.Members, func(i, j int) bool {
		a, b := result.Members[i], result.Members[j]
		if a.LastAttended != b.LastAttended {
			return a.LastAttended < b.LastAttended
		}
		return a.Name < b.Name
	})
	return result, nil
}
