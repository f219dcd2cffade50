package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
)

// Role constants
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleOwner, RoleAdmin, RoleStaff}

// Domain errors
var (
	ErrInvalidEmail     = errors.New("올바른 이메일 주소를 입력하세요.")
	ErrEmptyEmail       = errors.New("이메일을 입력하세요.")
	ErrEmailTooLong     = errors.New("이메일은 254자를 넘을 수 없습니다.")
	ErrInvalidRole      = errors.New("역할은 owner, admin, staff 중 하나여야 합니다.")
	ErrEmptyPassword    = errors.New("비밀번호를 입력하세요.")
	ErrPasswordTooShort = errors.New("비밀번호는 8자 이상이어야 합니다.")
	ErrWrongPassword    = errors.New("비밀번호가 올바르지 않습니다.")
	ErrAlreadyApproved  = errors.New("이미 승인된 계정입니다.")
	ErrNotApproved      = errors.New("승인 대기 중입니다. 목사님의 수락 후 대시보드를 이용할 수 있습니다.")
	ErrCannotApprove    = errors.New("이 메뉴는 관리자(owner, admin)만 이용할 수 있습니다.")
)

// Account is a dashboard user (the `users` collection).
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Approved     bool
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if !isValidRole(a.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is non-empty and >= MinPasswordLength characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked() bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return time.Now().Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account after 5 failures.
// PRE: Account exists
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (a *Account) RecordFailedLogin() {
	a.FailedLogins++
	if a.FailedLogins >= 5 {
		a.LockedUntil = time.Now().Add(15 * time.Minute)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// PRE: Account exists
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// CanUseDashboard reports whether the account may see the dashboard.
// Owners and admins always can; staff only once approved.
func (a *Account) CanUseDashboard() bool {
	if a.Role == RoleStaff {
		return a.Approved
	}
	return isValidRole(a.Role)
}

// CanApprove reports whether the account may approve sign-up requests.
func (a *Account) CanApprove() bool {
	return CanApproveRole(a.Role)
}

// Approve marks a pending account as approved.
// PRE: Account is not yet approved
// POST: Approved is true
func (a *Account) Approve() error {
	if a.Approved {
		return ErrAlreadyApproved
	}
	a.Approved = true
	return nil
}

// CanApproveRole reports whether role grants the approval menu.
func CanApproveRole(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
