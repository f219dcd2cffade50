package orchestrators

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"yople/internal/adapters/storage"
	accountStore "yople/internal/adapters/storage/account"
	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	"yople/internal/domain/account"
	"yople/internal/domain/attendance"
	"yople/internal/domain/member"
	"yople/internal/domain/visitor"
)

var (
	_ memberStore.Store     = (*memRoster)(nil)
	_ attendanceStore.Store = (*memAttendance)(nil)
	_ accountStore.Store    = (*memAccounts)(nil)
)

// memRoster is an in-memory members collection with a unique phone.
type memRoster struct {
	members   []member.Member
	insertErr error
}

func (m *memRoster) ListByCreation(_ context.Context) ([]member.Member, error) {
	return append([]member.Member(nil), m.members...), nil
}

func (m *memRoster) Insert(_ context.Context, v member.Member) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, existing := range m.members {
		if existing.Phone == v.Phone {
			return fmt.Errorf("insert member: %w", storage.ErrDuplicate)
		}
	}
	m.members = append(m.members, v)
	return nil
}

func (m *memRoster) GetByID(_ context.Context, id string) (member.Member, error) {
	for _, v := range m.members {
		if v.ID == id {
			return v, nil
		}
	}
	return member.Member{}, storage.ErrNotFound
}

func (m *memRoster) Update(_ context.Context, v member.Member) error {
	for _, existing := range m.members {
		if existing.ID != v.ID && existing.Phone == v.Phone {
			return storage.ErrDuplicate
		}
	}
	for i := range m.members {
		if m.members[i].ID == v.ID {
			m.members[i] = v
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memRoster) Delete(_ context.Context, id string) error {
	for i, v := range m.members {
		if v.ID == id {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memRoster) List(_ context.Context, f memberStore.ListFilter) ([]member.Member, error) {
	var out []member.Member
	for _, v := range m.members {
		if f.Search == "" || strings.Contains(v.Name, f.Search) || strings.Contains(v.Phone, f.Search) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRoster) Count(ctx context.Context, f memberStore.ListFilter) (int, error) {
	out, _ := m.List(ctx, f)
	return len(out), nil
}

// memAttendance is an in-memory attendances collection unique on (member, date).
type memAttendance struct {
	entries []attendance.Attendance
	failFor map[string]error
}

func (m *memAttendance) Insert(_ context.Context, a attendance.Attendance) error {
	if err, ok := m.failFor[a.MemberID]; ok {
		return err
	}
	for _, e := range m.entries {
		if e.MemberID == a.MemberID && e.Date == a.Date {
			return fmt.Errorf("insert attendance: %w", storage.ErrDuplicate)
		}
	}
	m.entries = append(m.entries, a)
	return nil
}

func (m *memAttendance) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return attendance.Attendance{}, storage.ErrNotFound
}

func (m *memAttendance) Update(_ context.Context, a attendance.Attendance) error {
	for i := range m.entries {
		if m.entries[i].ID == a.ID {
			m.entries[i] = a
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memAttendance) Delete(_ context.Context, id string) error {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memAttendance) List(_ context.Context, f attendanceStore.ListFilter) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, e := range m.entries {
		if (f.From == "" || e.Date >= f.From) && (f.To == "" || e.Date <= f.To) && (f.MemberID == "" || e.MemberID == f.MemberID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// memVisitors is an in-memory visitors collection.
type memVisitors struct {
	entries []visitor.Visitor
}

func (m *memVisitors) Insert(_ context.Context, v visitor.Visitor) error {
	m.entries = append(m.entries, v)
	return nil
}

func (m *memVisitors) List(_ context.Context, from, to string) ([]visitor.Visitor, error) {
	var out []visitor.Visitor
	for _, v := range m.entries {
		if v.Date >= from && v.Date <= to {
			out = append(out, v)
		}
	}
	return out, nil
}

// memAccounts is an in-memory users collection unique on email.
type memAccounts struct {
	accounts []account.Account
	updates  int
}

func (m *memAccounts) GetByID(_ context.Context, id string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, storage.ErrNotFound
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (account.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, storage.ErrNotFound
}

func (m *memAccounts) Insert(_ context.Context, a account.Account) error {
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return storage.ErrDuplicate
		}
	}
	m.accounts = append(m.accounts, a)
	return nil
}

func (m *memAccounts) Update(_ context.Context, a account.Account) error {
	for i := range m.accounts {
		if m.accounts[i].ID == a.ID {
			m.accounts[i] = a
			m.updates++
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memAccounts) List(_ context.Context, f accountStore.ListFilter) ([]account.Account, error) {
	var out []account.Account
	for _, a := range m.accounts {
		if !f.PendingOnly || !a.Approved {
			out = append(out, a)
		}
	}
	return out, nil
}

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
