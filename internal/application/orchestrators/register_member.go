package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yople/internal/adapters/storage"
	"yople/internal/domain/member"
)

// MemberWriter is the member store surface used by roster edits.
type MemberWriter interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Insert(ctx context.Context, m member.Member) error
	Update(ctx context.Context, m member.Member) error
	Delete(ctx context.Context, id string) error
}

// MemberFields is the editable part of a roster entry.
type MemberFields struct {
	Name        string
	Phone       string
	BirthDate   string
	IsNewMember bool
	Memo        string
}

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	MemberFields
	AccountID string
}

// RegisterMemberDeps holds dependencies for the roster orchestrators.
type RegisterMemberDeps struct {
	MemberStore MemberWriter
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteRegisterMember adds one youth to the roster.
// PRE: Name and Phone are non-empty
// POST: Member created with a fresh ID; member.ErrPhoneTaken when the phone is already registered
// INVARIANT: Phone is unique (enforced by store)
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	m := input.apply(member.Member{
		ID:        newID(deps.GenerateID),
		CreatedAt: nowFrom(deps.Now),
	})
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	if err := deps.MemberStore.Insert(ctx, m); err != nil {
		return member.Member{}, mapMemberWriteError(err)
	}
	slog.Info("member_event", "event", "member_registered", "member_id", m.ID, "account_id", input.AccountID)
	return m, nil
}

// UpdateMemberInput carries the new field values for an existing member.
type UpdateMemberInput struct {
	MemberID string
	MemberFields
	AccountID string
}

// ExecuteUpdateMember overwrites the editable fields of a member.
// PRE: MemberID names an existing member; Name and Phone are non-empty
// POST: ID and CreatedAt are unchanged
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	existing, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, fmt.Errorf("get member: %w", err)
	}
	m := RegisterMemberInput{MemberFields: input.MemberFields}.apply(existing)
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}
	if err := deps.MemberStore.Update(ctx, m); err != nil {
		return member.Member{}, mapMemberWriteError(err)
	}
	slog.Info("member_event", "event", "member_updated", "member_id", m.ID, "account_id", input.AccountID)
	return m, nil
}

// DeleteMemberInput names the member to remove.
type DeleteMemberInput struct {
	MemberID  string
	AccountID string
}

// ExecuteDeleteMember removes a member and, through the store, their attendance history.
func ExecuteDeleteMember(ctx context.Context, input DeleteMemberInput, deps RegisterMemberDeps) error {
	if input.MemberID == "" {
		return errors.New("member ID is required")
	}
	if err := deps.MemberStore.Delete(ctx, input.MemberID); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	slog.Info("member_event", "event", "member_deleted", "member_id", input.MemberID, "account_id", input.AccountID)
	return nil
}

func (in RegisterMemberInput) apply(m member.Member) member.Member {
	m.Name = in.Name
	m.Phone = in.Phone
	m.BirthDate = in.BirthDate
	m.IsNewMember = in.IsNewMember
	m.Memo = in.Memo
	m.Normalize()
	return m
}

func mapMemberWriteError(err error) error {
	if errors.Is(err, storage.ErrDuplicate) {
		return member.ErrPhoneTaken
	}
	return fmt.Errorf("save member: %w", err)
}
