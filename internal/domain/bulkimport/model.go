package bulkimport

import "errors"

// Column headers of the two upload templates.
const (
	HeaderDate      = "날짜"
	HeaderName      = "이름"
	HeaderPhone     = "전화번호"
	HeaderBirthDate = "생년월일"
	HeaderNewMember = "새가족"
	HeaderMemo      = "비고"
)

// Row numbering: the header occupies spreadsheet row 1.
const FirstDataRow = 2

// Display caps for the row-level error list.
const (
	AttendanceErrorCap = 5
	MemberErrorCap     = 10
)

// Run-level errors.
var (
	ErrNoAttendanceRows = errors.New("유효한 출석 행이 없습니다. 양식을 확인해 주세요.")
	ErrNoMemberRows     = errors.New("유효한 청년 행이 없습니다. 양식을 확인해 주세요.")
)

// RawRow maps a header cell to the cell value of one data row.
// Values are float64 for numeric cells and string otherwise.
type RawRow map[string]any

// AttendanceRecord is one normalized attendance history row.
// INVARIANT: Date is YYYY-MM-DD and MemberName is non-empty.
type AttendanceRecord struct {
	Row        int
	Date       string
	MemberName string
}

// MemberRecord is one normalized roster row.
// INVARIANT: Name and Phone are non-empty. Empty BirthDate and Memo mean absent.
type MemberRecord struct {
	Row         int
	Name        string
	Phone       string
	BirthDate   string
	IsNewMember bool
	Memo        string
}

// Kind selects which import flow a Summary belongs to.
type Kind string

// Import kinds
const (
	KindAttendance Kind = "attendance"
	KindMembers    Kind = "members"
)

// OutcomeKind classifies what happened to one record.
type OutcomeKind int

// Outcome kinds
const (
	Inserted OutcomeKind = iota
	DuplicateSkipped
	UnresolvedReference
	Failed
)

// String returns the snake_case name used in logs.
func (k OutcomeKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case DuplicateSkipped:
		return "duplicate_skipped"
	case UnresolvedReference:
		return "unresolved_reference"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the classification of a single record. Reason is set for Failed.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}
