package attendance

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format of Attendance.Date.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrNoMember  = errors.New("청년을 선택하세요.")
	ErrBadDate   = errors.New("날짜는 YYYY-MM-DD 형식이어야 합니다.")
	ErrBadTime   = errors.New("출석 시간은 HH:MM 형식이어야 합니다.")
	ErrDuplicate = errors.New("이미 이 날 출석 처리된 청년입니다.")
)

// Attendance records that a member attended on a given date.
// At most one Attendance exists per (MemberID, Date).
type Attendance struct {
	ID        string
	MemberID  string
	Date      string    // YYYY-MM-DD
	CreatedAt time.Time // check-in time
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MemberID must not be empty, Date must be a calendar date
func (a *Attendance) Validate() error {
	if a.MemberID == "" {
		return ErrNoMember
	}
	if !IsDate(a.Date) {
		return ErrBadDate
	}
	return nil
}

// SetCheckInTime replaces the check-in time with HH:MM on the attendance date (UTC).
// PRE: Date is valid
// POST: CreatedAt is <Date>T<HH:MM>:00Z
func (a *Attendance) SetCheckInTime(hhmm string) error {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return err
	}
	day, err := time.Parse(DateLayout, a.Date)
	if err != nil {
		return ErrBadDate
	}
	a.CreatedAt = time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
	return nil
}

// ParseClock parses "HH:MM" with 0 <= HH <= 23 and 0 <= MM <= 59.
func ParseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, ErrBadTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, ErrBadTime
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, ErrBadTime
	}
	return h, m, nil
}

// IsDate reports whether s is a YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns the current calendar date in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// SundaysInMonth returns the Sundays of the given month as YYYY-MM-DD strings.
func SundaysInMonth(year int, month time.Month) []string {
	var dates []string
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Month() == month {
		if d.Weekday() == time.Sunday {
			dates = append(dates, d.Format(DateLayout))
		}
		d = d.AddDate(0, 0, 1)
	}
	return dates
}

// MonthRange returns the first and last day of the month as YYYY-MM-DD.
func MonthRange(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}
