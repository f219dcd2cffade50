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
	"yople/internal/domain/bulkimport"
	"yople/internal/domain/member"
)

// ImportMembersInput carries the uploaded roster workbook.
// PRE: Reader yields the whole file; Filename carries its extension; AccountID is the authenticated uploader.
type ImportMembersInput struct {
	Reader    io.Reader
	Filename  string
	AccountID string
}

// MemberInserter inserts one member and reports storage.ErrDuplicate for a taken phone.
type MemberInserter interface {
	Insert(ctx context.Context, m member.Member) error
}

// ImportMembersDeps holds dependencies for ImportMembers.
type ImportMembersDeps struct {
	MemberStore MemberInserter
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteImportMembers inserts every valid roster row of a workbook.
// PRE: stores are non-nil; GenerateID and Now default to uuid and the wall clock
// POST: one insert per normalized record, in sheet order; each failure adds one row error and no tally
// other than Failed; a *spreadsheet.DecodeError or bulkimport.ErrNoMemberRows aborts before any insert
// INVARIANT: existing members are never modified
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (*bulkimport.Summary, error) {
	sheet, err := spreadsheet.Decode(input.Reader, input.Filename)
	if err != nil {
		slog.Info("import_event", "event", "members_import_rejected", "account_id", input.AccountID, "file", input.Filename, "error", err)
		return nil, err
	}

	records, parseErrs := bulkimport.NormalizeMemberRows(sheet.Rows)
	if len(records) == 0 && len(parseErrs) == 0 {
		return nil, bulkimport.ErrNoMemberRows
	}

	summary := bulkimport.NewSummary(bulkimport.KindMembers, parseErrs)
	for _, rec := range records {
		msg := insertImportedMember(ctx, rec, deps)
		if msg == "" {
			summary.Tally(bulkimport.Outcome{Kind: bulkimport.Inserted})
			continue
		}
		summary.Tally(bulkimport.Outcome{Kind: bulkimport.Failed, Reason: msg})
		summary.AddError(msg)
	}

	slog.Info("import_event",
		"event", "members_imported",
		"account_id", input.AccountID,
		"file", input.Filename,
		"records", len(records),
		"inserted", summary.Inserted,
		"errors", len(summary.Errors),
	)
	return summary, nil
}

// insertImportedMember returns the row error message, or "" on success.
func insertImportedMember(ctx context.Context, rec bulkimport.MemberRecord, deps ImportMembersDeps) string {
	m := member.Member{
		ID:          newID(deps.GenerateID),
		Name:        rec.Name,
		Phone:       rec.Phone,
		BirthDate:   rec.BirthDate,
		IsNewMember: rec.IsNewMember,
		Memo:        rec.Memo,
		CreatedAt:   nowFrom(deps.Now),
	}
	if err := m.Validate(); err != nil {
		return fmt.Sprintf("%d행: %s 등록 실패: %s", rec.Row, rec.Name, err.Error())
	}
	err := deps.MemberStore.Insert(ctx, m)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, storage.ErrDuplicate):
		return fmt.Sprintf("%d행: %s (%s) 이미 등록된 전화번호입니다.", rec.Row, rec.Name, rec.Phone)
	default:
		slog.Warn("import_event", "event", "member_row_failed", "row", rec.Row, "error", err)
		return fmt.Sprintf("%d행: %s 등록 실패: %s", rec.Row, rec.Name, err.Error())
	}
}
