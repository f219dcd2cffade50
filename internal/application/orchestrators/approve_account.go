package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"yople/internal/adapters/email"
	"yople/internal/domain/account"
)

// AccountStoreForApproval defines the store interface needed by ApproveAccount.
type AccountStoreForApproval interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Update(ctx context.Context, a account.Account) error
}

// ApproveAccountInput names the approver and the pending account.
type ApproveAccountInput struct {
	ApproverID string
	AccountID  string
}

// ApproveAccountDeps holds dependencies for ApproveAccount.
type ApproveAccountDeps struct {
	AccountStore AccountStoreForApproval
	Sender       email.Sender // optional: nil skips the notice
}

// ExecuteApproveAccount approves a pending sign-up and notifies its owner by email.
// PRE: ApproverID is an owner or admin
// POST: the account is approved; a failed notice is logged and does not undo the approval
func ExecuteApproveAccount(ctx context.Context, input ApproveAccountInput, deps ApproveAccountDeps) (account.Account, error) {
	approver, err := deps.AccountStore.GetByID(ctx, input.ApproverID)
	if err != nil {
		return account.Account{}, fmt.Errorf("get approver: %w", err)
	}
	if !approver.CanApprove() {
		slog.Info("auth_event", "event", "approve_denied", "approver_id", approver.ID, "role", approver.Role)
		return account.Account{}, account.ErrCannotApprove
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return account.Account{}, fmt.Errorf("get account: %w", err)
	}
	if err := acct.Approve(); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Update(ctx, acct); err != nil {
		return account.Account{}, fmt.Errorf("approve account: %w", err)
	}
	slog.Info("auth_event", "event", "account_approved", "account_id", acct.ID, "approver_id", approver.ID)

	if deps.Sender != nil {
		notifyApproved(ctx, deps.Sender, acct)
	}
	return acct, nil
}

func notifyApproved(ctx context.Context, sender email.Sender, acct account.Account) {
	req, err := email.ApprovalNotice(acct.Email, acct.Name)
	if err != nil {
		slog.Error("email_event", "event", "approval_notice_render_failed", "account_id", acct.ID, "error", err)
		return
	}
	res, err := sender.Send(ctx, req)
	if err != nil {
		slog.Warn("email_event", "event", "approval_notice_failed", "account_id", acct.ID, "error", err)
		return
	}
	slog.Info("email_event", "event", "approval_notice_sent", "account_id", acct.ID, "message_id", res.MessageID)
}
