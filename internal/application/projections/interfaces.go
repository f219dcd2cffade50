package projections

import (
	"context"

	accountStore "yople/internal/adapters/storage/account"
	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	domainAccount "yople/internal/domain/account"
	domainAttendance "yople/internal/domain/attendance"
	domainMember "yople/internal/domain/member"
	domainVisitor "yople/internal/domain/visitor"
)

// MemberStore interface for member queries.
type MemberStore interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]domainMember.Member, error)
	Count(ctx context.Context, filter memberStore.ListFilter) (int, error)
}

// AttendanceStore interface for attendance queries.
type AttendanceStore interface {
	List(ctx context.Context, filter attendanceStore.ListFilter) ([]domainAttendance.Attendance, error)
}

// VisitorStore interface for visitor queries.
type VisitorStore interface {
	List(ctx context.Context, from, to string) ([]domainVisitor.Visitor, error)
}

// AccountStore interface for account queries.
type AccountStore interface {
	List(ctx context.Context, filter accountStore.ListFilter) ([]domainAccount.Account, error)
}

// UnknownMemberName labels an attendance whose member is no longer on the roster.
const UnknownMemberName = "(이름 없음)"

// rosterNames indexes member names by ID.
func rosterNames(members []domainMember.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names
}

func nameOf(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return UnknownMemberName
}
