package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yople/internal/adapters/storage"
	memberStore "yople/internal/adapters/storage/member"
	"yople/internal/domain/attendance"
	"yople/internal/domain/member"
)

// KioskDigits is how many trailing phone digits the kiosk keypad collects.
const KioskDigits = 4

// Check-in statuses returned to the kiosk.
const (
	StatusNotFound         = "not_found"
	StatusCheckedIn        = "checked_in"
	StatusAlreadyCheckedIn = "already_checked_in"
	StatusChoose           = "choose"
)

// Kiosk messages
const (
	MsgNotFound         = "등록된 번호가 없습니다. 방문자로 등록할까요?"
	MsgAlreadyCheckedIn = "이미 오늘 출석 처리되었습니다."
	MsgChoose           = "해당하는 이름을 선택하세요."
)

var (
	ErrInvalidDigits = errors.New("전화번호 뒷자리 4자리를 입력하세요.")
	ErrCheckInFailed = errors.New("출석 처리에 실패했습니다.")
	ErrLookupFailed  = errors.New("조회에 실패했습니다.")
)

// CheckInRosterStore is the member store surface used by the kiosk.
type CheckInRosterStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	List(ctx context.Context, filter memberStore.ListFilter) ([]member.Member, error)
}

// Candidate is a member offered on the kiosk when several phones share the digits.
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CheckInResult is what the kiosk shows after a lookup or a check-in.
type CheckInResult struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Member     *Candidate  `json:"member,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// CheckInDeps holds dependencies for the kiosk check-in orchestrators.
type CheckInDeps struct {
	MemberStore     CheckInRosterStore
	AttendanceStore AttendanceInserter
	Location        *time.Location // "today" is computed here; nil means UTC
	GenerateID      func() string
	Now             func() time.Time
}

// KioskLookupInput carries the digits typed on the keypad.
type KioskLookupInput struct {
	Digits string
}

// ExecuteKioskLookup finds members whose phone ends with the digits and checks in a unique match.
// PRE: Digits holds exactly four ASCII digits
// POST: no match returns not_found; one match is checked in for today; several return choose with candidates ordered by name
func ExecuteKioskLookup(ctx context.Context, input KioskLookupInput, deps CheckInDeps) (CheckInResult, error) {
	digits := input.Digits
	if len(digits) != KioskDigits || member.Digits(digits) != digits {
		return CheckInResult{}, ErrInvalidDigits
	}

	roster, err := deps.MemberStore.List(ctx, memberStore.ListFilter{})
	if err != nil {
		slog.Error("checkin_event", "event", "lookup_failed", "error", err)
		return CheckInResult{}, ErrLookupFailed
	}
	var matches []member.Member
	for _, m := range roster {
		if m.PhoneEndsWith(digits) {
			matches = append(matches, m)
		}
	}

	switch len(matches) {
	case 0:
		slog.Info("checkin_event", "event", "lookup_not_found")
		return CheckInResult{Status: StatusNotFound, Message: MsgNotFound}, nil
	case 1:
		return checkIn(ctx, matches[0], deps)
	}
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, toCandidate(m))
	}
	slog.Info("checkin_event", "event", "lookup_ambiguous", "matches", len(matches))
	return CheckInResult{Status: StatusChoose, Message: MsgChoose, Candidates: candidates}, nil
}

// CheckInMemberInput carries the member chosen on the kiosk.
type CheckInMemberInput struct {
	MemberID string
}

// ExecuteCheckInMember records today's attendance for a chosen member.
// PRE: MemberID names an existing member
// POST: one attendance exists for (MemberID, today); a repeat reports already_checked_in
func ExecuteCheckInMember(ctx context.Context, input CheckInMemberInput, deps CheckInDeps) (CheckInResult, error) {
	if input.MemberID == "" {
		return CheckInResult{}, ErrCheckInFailed
	}
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CheckInResult{}, fmt.Errorf("member %s: %w", input.MemberID, storage.ErrNotFound)
		}
		return CheckInResult{}, fmt.Errorf("get member: %w", err)
	}
	return checkIn(ctx, m, deps)
}

func checkIn(ctx context.Context, m member.Member, deps CheckInDeps) (CheckInResult, error) {
	now := nowFrom(deps.Now)
	a := attendance.Attendance{
		ID:        newID(deps.GenerateID),
		MemberID:  m.ID,
		Date:      attendance.Today(now, deps.Location),
		CreatedAt: now,
	}
	c := toCandidate(m)

	err := deps.AttendanceStore.Insert(ctx, a)
	switch {
	case err == nil:
		slog.Info("checkin_event", "event", "checked_in", "member_id", m.ID, "date", a.Date)
		return CheckInResult{Status: StatusCheckedIn, Message: m.Name + "님 출석 완료", Member: &c}, nil
	case errors.Is(err, storage.ErrDuplicate):
		slog.Info("checkin_event", "event", "already_checked_in", "member_id", m.ID, "date", a.Date)
		return CheckInResult{Status: StatusAlreadyCheckedIn, Message: MsgAlreadyCheckedIn, Member: &c}, nil
	default:
		slog.Error("checkin_event", "event", "checkin_failed", "member_id", m.ID, "error", err)
		return CheckInResult{}, ErrCheckInFailed
	}
}

func toCandidate(m member.Member) Candidate {
	return Candidate{ID: m.ID, Name: m.Name, Phone: m.Phone}
}
