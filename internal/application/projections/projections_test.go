package projections

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"time"

	"yople/internal/adapters/storage"
	accountStore "yople/internal/adapters/storage/account"
	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	visitorStore "yople/internal/adapters/storage/visitor"
	"yople/internal/application/listutil"
	domainAccount "yople/internal/domain/account"
	domainAttendance "yople/internal/domain/attendance"
	domainMember "yople/internal/domain/member"
	domainVisitor "yople/internal/domain/visitor"
)

type fixture struct {
	members     *memberStore.SQLiteStore
	attendances *attendanceStore.SQLiteStore
	visitors    *visitorStore.SQLiteStore
	accounts    *accountStore.SQLiteStore
}

func at(date string, hh, mm int) time.Time {
	d, _ := time.Parse(domainAttendance.DateLayout, date)
	return d.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

// seed builds a small roster with a month of history in an in-memory database.
func seed(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db, err := storage.OpenAndMigrate(ctx, storage.MemoryPath)
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	f := newFixture(db)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, m := range []domainMember.Member{
		{ID: "m1", Name: "홍길동", Phone: "0101", BirthDate: "1995-03-02", CreatedAt: created},
		{ID: "m2", Name: "김영희", Phone: "0102", BirthDate: "1990-01-01", IsNewMember: true, CreatedAt: created},
		{ID: "m3", Name: "박철수", Phone: "0103", CreatedAt: created},
		{ID: "m4", Name: "이민수", Phone: "0104", BirthDate: "1995-03-02", CreatedAt: created},
	} {
		if err := f.members.Insert(ctx, m); err != nil {
			t.Fatalf("insert member %s: %v", m.ID, err)
		}
	}
	for _, a := range []domainAttendance.Attendance{
		{ID: "a1", MemberID: "m1", Date: "2025-01-05", CreatedAt: at("2025-01-05", 10, 5)},
		{ID: "a2", MemberID: "m2", Date: "2025-01-05", CreatedAt: at("2025-01-05", 9, 50)},
		{ID: "a3", MemberID: "m1", Date: "2025-01-12", CreatedAt: at("2025-01-12", 10, 0)},
		{ID: "a4", MemberID: "m4", Date: "2025-01-08", CreatedAt: at("2025-01-08", 19, 0)},
		{ID: "a5", MemberID: "m3", Date: "2024-12-29", CreatedAt: at("2024-12-29", 10, 0)},
	} {
		if err := f.attendances.Insert(ctx, a); err != nil {
			t.Fatalf("insert attendance %s: %v", a.ID, err)
		}
	}
	for _, v := range []domainVisitor.Visitor{
		{ID: "v1", Date: "2025-01-05", CreatedAt: at("2025-01-05", 10, 0)},
		{ID: "v2", Date: "2025-01-05", CreatedAt: at("2025-01-05", 10, 1)},
		{ID: "v3", Date: "2024-06-02", CreatedAt: at("2024-06-02", 10, 0)},
	} {
		if err := f.visitors.Insert(ctx, v); err != nil {
			t.Fatalf("insert visitor %s: %v", v.ID, err)
		}
	}
	return f
}

func newFixture(db *sql.DB) fixture {
	return fixture{
		members:     memberStore.NewSQLiteStore(db),
		attendances: attendanceStore.NewSQLiteStore(db),
		visitors:    visitorStore.NewSQLiteStore(db),
		accounts:    accountStore.NewSQLiteStore(db),
	}
}

func TestQueryGetAttendanceSummaries(t *testing.T) {
	f := seed(t)
	deps := GetAttendanceSummariesDeps{AttendanceStore: f.attendances, VisitorStore: f.visitors, MemberStore: f.members}

	got, err := QueryGetAttendanceSummaries(context.Background(), GetAttendanceSummariesQuery{Year: 2025}, deps)
	if err != nil {
		t.Fatalf("QueryGetAttendanceSummaries: %v", err)
	}
	want := []DateSummary{
		{Date: "2025-01-12", Members: []string{"홍길동"}, MemberCount: 1},
		{Date: "2025-01-08", Members: []string{"이민수"}, MemberCount: 1},
		{Date: "2025-01-05", Members: []string{"김영희", "홍길동"}, MemberCount: 2, VisitorCount: 2},
	}
	if !reflect.DeepEqual(got.Summaries, want) {
		t.Errorf("Summaries = %+v\nwant %+v", got.Summaries, want)
	}
	if !reflect.DeepEqual(got.Years, []int{2025, 2024}) {
		t.Errorf("Years = %v", got.Years)
	}

	empty, err := QueryGetAttendanceSummaries(context.Background(), GetAttendanceSummariesQuery{Year: 2023}, deps)
	if err != nil {
		t.Fatalf("QueryGetAttendanceSummaries(2023): %v", err)
	}
	if len(empty.Summaries) != 0 || !reflect.DeepEqual(empty.Years, []int{2025, 2024, 2023}) {
		t.Errorf("2023 = %+v", empty)
	}

	y2024, err := QueryGetAttendanceSummaries(context.Background(), GetAttendanceSummariesQuery{Year: 2024}, deps)
	if err != nil {
		t.Fatalf("QueryGetAttendanceSummaries(2024): %v", err)
	}
	if len(y2024.Summaries) != 2 || y2024.Summaries[1].Date != "2024-06-02" || y2024.Summaries[1].MemberCount != 0 || y2024.Summaries[1].VisitorCount != 1 {
		t.Errorf("2024 = %+v", y2024.Summaries)
	}
}

func TestQueryGetAttendanceDetail(t *testing.T) {
	f := seed(t)
	got, err := QueryGetAttendanceDetail(context.Background(), GetAttendanceDetailQuery{Date: "2025-01-05"}, GetAttendanceDetailDeps{
		AttendanceStore: f.attendances, VisitorStore: f.visitors, MemberStore: f.members,
	})
	if err != nil {
		t.Fatalf("QueryGetAttendanceDetail: %v", err)
	}
	var attendees, absentees []string
	for _, a := range got.Attendees {
		attendees = append(attendees, a.Name)
	}
	for _, a := range got.Absentees {
		absentees = append(absentees, a.Name)
	}
	if !reflect.DeepEqual(attendees, []string{"김영희", "홍길동"}) {
		t.Errorf("attendees = %v", attendees)
	}
	if !reflect.DeepEqual(absentees, []string{"이민수", "박철수"}) {
		t.Errorf("absentees = %v", absentees)
	}
	if got.VisitorCount != 2 {
		t.Errorf("VisitorCount = %d", got.VisitorCount)
	}
	if got.Attendees[0].AttendanceID != "a2" || !got.Attendees[0].CheckInTime.Equal(at("2025-01-05", 9, 50)) {
		t.Errorf("first attendee = %+v", got.Attendees[0])
	}
}

func TestQueryGetAttendanceGrid(t *testing.T) {
	f := seed(t)
	got, err := QueryGetAttendanceGrid(context.Background(), GetAttendanceGridQuery{Year: 2025, Month: time.January}, GetAttendanceGridDeps{
		AttendanceStore: f.attendances, MemberStore: f.members,
	})
	if err != nil {
		t.Fatalf("QueryGetAttendanceGrid: %v", err)
	}
	if !reflect.DeepEqual(got.Sundays, []string{"2025-01-05", "2025-01-12", "2025-01-19", "2025-01-26"}) {
		t.Errorf("Sundays = %v", got.Sundays)
	}
	var order, cohorts []string
	counts := map[string]int{}
	for _, r := range got.Rows {
		order = append(order, r.Name)
		cohorts = append(cohorts, r.Cohort)
		counts[r.Name] = r.Count
	}
	if !reflect.DeepEqual(order, []string{"김영희", "이민수", "홍길동", "박철수"}) {
		t.Errorf("order = %v", order)
	}
	if !reflect.DeepEqual(cohorts, []string{"90", "95", "95", "-"}) {
		t.Errorf("cohorts = %v", cohorts)
	}
	if counts["홍길동"] != 2 || counts["이민수"] != 0 || counts["김영희"] != 1 || counts["박철수"] != 0 {
		t.Errorf("counts = %v", counts)
	}
	if !got.Rows[2].Attended["2025-01-12"] {
		t.Errorf("홍길동 row = %+v", got.Rows[2])
	}

	if _, err := QueryGetAttendanceGrid(context.Background(), GetAttendanceGridQuery{Year: 2025, Month: 13}, GetAttendanceGridDeps{
		AttendanceStore: f.attendances, MemberStore: f.members,
	}); err == nil {
		t.Error("month 13 accepted")
	}
}

func TestQueryGetMemberList(t *testing.T) {
	f := seed(t)
	deps := GetMemberListDeps{MemberStore: f.members}

	all, err := QueryGetMemberList(context.Background(), GetMemberListQuery{ListParams: listutil.ListParams{Page: 1, PerPage: 20}}, deps)
	if err != nil {
		t.Fatalf("QueryGetMemberList: %v", err)
	}
	var names []string
	for _, m := range all.Members {
		names = append(names, m.Name)
	}
	if !reflect.DeepEqual(names, []string{"김영희", "박철수", "이민수", "홍길동"}) {
		t.Errorf("names = %v", names)
	}
	if all.Page.Total != 4 || all.Page.HasNext {
		t.Errorf("page = %+v", all.Page)
	}

	found, err := QueryGetMemberList(context.Background(), GetMemberListQuery{ListParams: listutil.ListParams{Page: 1, PerPage: 20, Search: "홍"}}, deps)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if found.Page.Total != 1 || len(found.Members) != 1 || found.Members[0].Cohort != "95" {
		t.Errorf("search = %+v", found)
	}
}

func TestQueryGetPendingApprovals(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	for _, a := range []domainAccount.Account{
		{ID: "u1", Email: "owner@church.kr", Role: domainAccount.RoleOwner, Approved: true, CreatedAt: at("2024-01-01", 0, 0)},
		{ID: "u2", Email: "s1@church.kr", Name: "김간사", Role: domainAccount.RoleStaff, CreatedAt: at("2024-02-01", 0, 0)},
	} {
		if err := f.accounts.Insert(ctx, a); err != nil {
			t.Fatalf("insert account: %v", err)
		}
	}
	got, err := QueryGetPendingApprovals(ctx, GetPendingApprovalsDeps{AccountStore: f.accounts})
	if err != nil {
		t.Fatalf("QueryGetPendingApprovals: %v", err)
	}
	if len(got) != 1 || got[0].ID != "u2" || got[0].Name != "김간사" {
		t.Errorf("pending = %+v", got)
	}
}

func TestQueryGetInactiveMembers(t *testing.T) {
	f := seed(t)
	deps := GetInactiveMembersDeps{MemberStore: f.members, AttendanceStore: f.attendances}

	got, err := QueryGetInactiveMembers(context.Background(), GetInactiveMembersQuery{Weeks: 1, Today: "2025-01-12"}, deps)
	if err != nil {
		t.Fatalf("QueryGetInactiveMembers: %v", err)
	}
	if got.Cutoff != "2025-01-05" {
		t.Errorf("Cutoff = %q", got.Cutoff)
	}
	want := []InactiveMember{
		{MemberID: "m3", Name: "박철수", Phone: "0103", LastAttended: "2024-12-29", DaysAbsent: 14},
		{MemberID: "m2", Name: "김영희", Phone: "0102", IsNewMember: true, LastAttended: "2025-01-05", DaysAbsent: 7},
	}
	if !reflect.DeepEqual(got.Members, want) {
		t.Errorf("Members = %+v\nwant %+v", got.Members, want)
	}

	// Attendance after Today is ignored; a member with none before it never attended.
	early, err := QueryGetInactiveMembers(context.Background(), GetInactiveMembersQuery{Today: "2025-01-06"}, deps)
	if err != nil {
		t.Fatalf("QueryGetInactiveMembers(default weeks): %v", err)
	}
	if early.Weeks != DefaultInactiveWeeks || len(early.Members) != 1 || early.Members[0].Name != "이민수" || early.Members[0].DaysAbsent != -1 || early.Members[0].LastAttended != "" {
		t.Errorf("early = %+v", early)
	}

	if _, err := QueryGetInactiveMembers(context.Background(), GetInactiveMembersQuery{Today: "bad"}, deps); err == nil {
		t.Error("bad Today accepted")
	}
}
