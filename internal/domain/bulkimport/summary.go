package bulkimport

import (
	"fmt"
	"strings"
)

// Summary folds per-record outcomes and row-level errors of one import run.
type Summary struct {
	Kind                Kind     `json:"kind"`
	Total               int      `json:"total"`
	Inserted            int      `json:"inserted"`
	DuplicateSkipped    int      `json:"duplicate_skipped"`
	UnresolvedReference int      `json:"unresolved_reference"`
	Failed              int      `json:"failed"`
	ParseErrors         int      `json:"parse_errors"`
	Errors              []string `json:"-"`
}

// NewSummary starts an empty summary for kind, seeded with the normalizer's errors.
func NewSummary(kind Kind, parseErrors []string) *Summary {
	s := &Summary{Kind: kind, ParseErrors: len(parseErrors)}
	s.Errors = append(s.Errors, parseErrors...)
	return s
}

// Tally counts one record outcome.
// POST: exactly one counter grows by one
func (s *Summary) Tally(o Outcome) {
	s.Total++
	switch o.Kind {
	case Inserted:
		s.Inserted++
	case DuplicateSkipped:
		s.DuplicateSkipped++
	case UnresolvedReference:
		s.UnresolvedReference++
	default:
		s.Failed++
	}
}

// AddError appends a row-level error message after the parse errors.
func (s *Summary) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// ErrorCap returns the display cap for the summary's kind.
func (s *Summary) ErrorCap() int {
	if s.Kind == KindMembers {
		return MemberErrorCap
	}
	return AttendanceErrorCap
}

// DisplayErrors returns the first limit messages, followed by "외 N건" when more were recorded.
func (s *Summary) DisplayErrors(limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if len(s.Errors) <= limit {
		return append([]string(nil), s.Errors...)
	}
	out := append([]string(nil), s.Errors[:limit]...)
	return append(out, fmt.Sprintf("외 %d건", len(s.Errors)-limit))
}

// Message renders the one-line status text.
func (s *Summary) Message() string {
	var b strings.Builder
	if s.Kind == KindMembers {
		fmt.Fprintf(&b, "등록: %d건", s.Inserted)
		if n := len(s.Errors); n > 0 {
			fmt.Fprintf(&b, ", 오류 %d건", n)
		}
		return b.String()
	}
	fmt.Fprintf(&b, "반영: %d건, 이미 있음 제외: %d건, 명단에 없음: %d건", s.Inserted, s.DuplicateSkipped, s.UnresolvedReference)
	if s.Failed > 0 {
		fmt.Fprintf(&b, ", 실패: %d건", s.Failed)
	}
	if s.ParseErrors > 0 {
		fmt.Fprintf(&b, ", 파싱 경고 %d건", s.ParseErrors)
	}
	return b.String()
}

// Result is the JSON view returned to callers.
type Result struct {
	*Summary
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// View renders the summary with capped errors for its kind.
func (s *Summary) View() Result {
	errs := s.DisplayErrors(s.ErrorCap())
	if errs == nil {
		errs = []string{}
	}
	return Result{Summary: s, Message: s.Message(), Errors: errs}
}
