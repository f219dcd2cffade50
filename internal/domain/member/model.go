package member

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 50
	MaxMemoLength = 500
)

// DateLayout is the canonical calendar-date format used across the roster.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrRequiredFields = errors.New("이름과 전화번호는 필수입니다.")
	ErrNameTooLong    = errors.New("이름은 50자를 넘을 수 없습니다.")
	ErrMemoTooLong    = errors.New("비고는 500자를 넘을 수 없습니다.")
	ErrBadBirthDate   = errors.New("생년월일은 YYYY-MM-DD 형식이어야 합니다.")
	ErrPhoneTaken     = errors.New("이미 등록된 전화번호입니다.")
)

// Member is one youth on the roster.
type Member struct {
	ID          string
	Name        string
	Phone       string
	BirthDate   string // YYYY-MM-DD, empty when unknown
	IsNewMember bool
	Memo        string // empty when absent
	CreatedAt   time.Time
}

// Normalize trims free-text fields in place.
// POST: Name, Phone, Memo and BirthDate carry no surrounding whitespace
func (m *Member) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Memo = strings.TrimSpace(m.Memo)
	m.BirthDate = strings.TrimSpace(m.BirthDate)
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name and Phone must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Phone) == "" {
		return ErrRequiredFields
	}
	if len([]rune(m.Name)) > MaxNameLength {
		return ErrNameTooLong
	}
	if len([]rune(m.Memo)) > MaxMemoLength {
		return ErrMemoTooLong
	}
	if m.BirthDate != "" {
		if _, err := time.Parse(DateLayout, m.BirthDate); err != nil {
			return ErrBadBirthDate
		}
	}
	return nil
}

// PhoneDigits returns only the digits of the phone number.
func (m *Member) PhoneDigits() string {
	return Digits(m.Phone)
}

// PhoneEndsWith reports whether the phone number's digits end with suffix.
// INVARIANT: Member fields are not mutated
func (m *Member) PhoneEndsWith(suffix string) bool {
	if suffix == "" {
		return false
	}
	return strings.HasSuffix(m.PhoneDigits(), suffix)
}

// Cohort returns the two-digit birth year ("95") or "-" when the birth date is unknown.
func (m *Member) Cohort() string {
	if m.BirthDate == "" {
		return "-"
	}
	t, err := time.Parse(DateLayout, m.BirthDate)
	if err != nil {
		return "-"
	}
	y := t.Year() % 100
	return string([]byte{byte('0' + y/10), byte('0' + y%10)})
}

// Digits strips everything except ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LessByBirthDate orders members by birth date ascending with unknown dates last, then by name.
func LessByBirthDate(a, b Member) bool {
	switch {
	case a.BirthDate == "" && b.BirthDate != "":
		return false
	case a.BirthDate != "" && b.BirthDate == "":
		return true
	case a.BirthDate != b.BirthDate:
		return a.BirthDate < b.BirthDate
	}
	return a.Name < b.Name
}
