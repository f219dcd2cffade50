package projections

import (
	"context"
	"fmt"
	"time"

	accountStore "yople/internal/adapters/storage/account"
)

// PendingAccount is a sign-up waiting for approval.
type PendingAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GetPendingApprovalsDeps holds dependencies for GetPendingApprovals.
type GetPendingApprovalsDeps struct {
	AccountStore AccountStore
}

// QueryGetPendingApprovals lists unapproved accounts, oldest request first.
func QueryGetPendingApprovals(ctx context.Context, deps GetPendingApprovalsDeps) ([]PendingAccount, error) {
	accounts, err := deps.AccountStore.List(ctx, accountStore.ListFilter{PendingOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list pending accounts: %w", err)
	}
	out := make([]PendingAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, PendingAccount{ID: a.ID, Email: a.Email, Name: a.Name, CreatedAt: a.CreatedAt})
	}
	return out, nil
}
