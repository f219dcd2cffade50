package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yople/internal/adapters/storage"
	"yople/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by SignUp and SeedOwner.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Insert(ctx context.Context, a account.Account) error
}

// SignUpInput carries input for the orchestrator.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// CreateAccountDeps holds dependencies for SignUp and SeedOwner.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

var ErrEmailAlreadyExists = errors.New("이미 가입된 이메일입니다.")

// ExecuteSignUp registers a staff account that waits for owner or admin approval.
// PRE: Valid email, password >= 8 chars
// POST: Account created with Role=staff, Approved=false and a hashed password
// INVARIANT: Email must be unique
func ExecuteSignUp(ctx context.Context, input SignUpInput, deps CreateAccountDeps) (account.Account, error) {
	acct, err := createAccount(ctx, input, account.RoleStaff, false, deps)
	if err != nil {
		return account.Account{}, err
	}
	slog.Info("auth_event", "event", "signup", "email", acct.Email, "account_id", acct.ID)
	return acct, nil
}

// SeedOwnerInput carries the configured owner credentials.
type SeedOwnerInput struct {
	Email    string
	Password string
}

// ExecuteSeedOwner creates the approved owner account if it does not exist yet.
// PRE: Database is migrated
// POST: an account with Email exists; an existing account is left untouched
func ExecuteSeedOwner(ctx context.Context, input SeedOwnerInput, deps CreateAccountDeps) error {
	if input.Email == "" {
		return nil
	}
	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("look up owner: %w", err)
	}
	if input.Password == "" {
		slog.Warn("auth_event", "event", "owner_seed_skipped", "email", input.Email, "reason", "no_password")
		return nil
	}

	acct, err := createAccount(ctx, SignUpInput{Email: input.Email, Password: input.Password, Name: "목사님"}, account.RoleOwner, true, deps)
	if err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}
	slog.Info("auth_event", "event", "owner_seeded", "email", acct.Email)
	return nil
}

func createAccount(ctx context.Context, input SignUpInput, role string, approved bool, deps CreateAccountDeps) (account.Account, error) {
	acct := account.Account{
		ID:        newID(deps.GenerateID),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Name:      strings.TrimSpace(input.Name),
		Role:      role,
		Approved:  approved,
		CreatedAt: nowFrom(deps.Now),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}

	if err := deps.AccountStore.Insert(ctx, acct); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return account.Account{}, ErrEmailAlreadyExists
		}
		return account.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return acct, nil
}
