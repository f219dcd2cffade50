package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"yople/internal/adapters/spreadsheet"
	"yople/internal/adapters/storage"
	"yople/internal/domain/attendance"
	"yople/internal/domain/bulkimport"
	"yople/internal/domain/member"
)

// ImportAttendanceInput carries the uploaded workbook.
// PRE: Reader yields the whole file; Filename carries its extension; AccountID is the authenticated uploader.
type ImportAttendanceInput struct {
	Reader    io.Reader
	Filename  string
	AccountID string
}

// MemberReferenceStore lists the roster in created_at, id order.
type MemberReferenceStore interface {
	ListByCreation(ctx context.Context) ([]member.Member, error)
}

// AttendanceInserter inserts one attendance entry and reports storage.ErrDuplicate for a repeat.
type AttendanceInserter interface {
	Insert(ctx context.Context, a attendance.Attendance) error
}

// ImportAttendanceDeps holds dependencies for ImportAttendance.
type ImportAttendanceDeps struct {
	MemberStore     MemberReferenceStore
	AttendanceStore AttendanceInserter
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteImportAttendance reconciles an attendance history workbook against the roster.
// PRE: stores are non-nil; GenerateID and Now default to uuid and the wall clock
// POST: every normalized record was classified exactly once, in sheet order, one insert at a time;
// a *spreadsheet.DecodeError, bulkimport.ErrNoAttendanceRows or a reference fetch failure aborts before any insert
// INVARIANT: a row failure never stops the run and nothing is rolled back
func ExecuteImportAttendance(ctx context.Context, input ImportAttendanceInput, deps ImportAttendanceDeps) (*bulkimport.Summary, error) {
	sheet, err := spreadsheet.Decode(input.Reader, input.Filename)
	if err != nil {
		slog.Info("import_event", "event", "attendance_import_rejected", "account_id", input.AccountID, "file", input.Filename, "error", err)
		return nil, err
	}

	records, parseErrs := bulkimport.NormalizeAttendanceRows(sheet.Rows)
	if len(records) == 0 && len(parseErrs) == 0 {
		return nil, bulkimport.ErrNoAttendanceRows
	}

	ref, err := loadMemberReference(ctx, deps.MemberStore)
	if err != nil {
		return nil, err
	}

	summary := bulkimport.NewSummary(bulkimport.KindAttendance, parseErrs)
	for _, rec := range records {
		outcome := reconcileAttendance(ctx, rec, ref, deps)
		summary.Tally(outcome)
		if outcome.Kind == bulkimport.Failed {
			summary.AddError(fmt.Sprintf("%d행: %s 출석 반영 실패: %s", rec.Row, rec.MemberName, outcome.Reason))
		}
	}

	slog.Info("import_event",
		"event", "attendance_imported",
		"account_id", input.AccountID,
		"file", input.Filename,
		"records", len(records),
		"inserted", summary.Inserted,
		"duplicate_skipped", summary.DuplicateSkipped,
		"unresolved", summary.UnresolvedReference,
		"failed", summary.Failed,
		"parse_errors", summary.ParseErrors,
	)
	return summary, nil
}

func reconcileAttendance(ctx context.Context, rec bulkimport.AttendanceRecord, ref bulkimport.MemberReference, deps ImportAttendanceDeps) bulkimport.Outcome {
	memberID, ok := ref.Resolve(rec.MemberName)
	if !ok {
		return bulkimport.Outcome{Kind: bulkimport.UnresolvedReference}
	}
	a := attendance.Attendance{
		ID:        newID(deps.GenerateID),
		MemberID:  memberID,
		Date:      rec.Date,
		CreatedAt: nowFrom(deps.Now),
	}
	err := deps.AttendanceStore.Insert(ctx, a)
	switch {
	case err == nil:
		return bulkimport.Outcome{Kind: bulkimport.Inserted}
	case errors.Is(err, storage.ErrDuplicate):
		return bulkimport.Outcome{Kind: bulkimport.DuplicateSkipped}
	default:
		slog.Warn("import_event", "event", "attendance_row_failed", "row", rec.Row, "member_id", memberID, "date", rec.Date, "error", err)
		return bulkimport.Outcome{Kind: bulkimport.Failed, Reason: err.Error()}
	}
}

// loadMemberReference fetches the roster once and indexes it by name.
func loadMemberReference(ctx context.Context, store MemberReferenceStore) (bulkimport.MemberReference, error) {
	members, err := store.ListByCreation(ctx)
	if err != nil {
		return bulkimport.MemberReference{}, fmt.Errorf("fetch member reference: %w", err)
	}
	entries := make([]bulkimport.ReferenceEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, bulkimport.ReferenceEntry{ID: m.ID, Name: m.Name})
	}
	ref, ambiguous := bulkimport.NewMemberReference(entries)
	if len(ambiguous) > 0 {
		slog.Warn("import_event", "event", "ambiguous_member_names", "names", ambiguous)
	}
	return ref, nil
}
