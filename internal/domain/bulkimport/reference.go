package bulkimport

import "strings"

// ReferenceEntry is one roster row as seen by the reference snapshot.
type ReferenceEntry struct {
	ID   string
	Name string
}

// MemberReference maps a trimmed member name to a member ID for one import run.
type MemberReference struct {
	byName map[string]string
}

// NewMemberReference builds the snapshot from entries in fetch order.
// Later entries overwrite earlier ones with the same name; those names are returned as ambiguous.
// POST: entries with a blank name are ignored
func NewMemberReference(entries []ReferenceEntry) (MemberReference, []string) {
	ref := MemberReference{byName: make(map[string]string, len(entries))}
	seen := make(map[string]bool)
	var ambiguous []string
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		if _, dup := ref.byName[name]; dup && !seen[name] {
			seen[name] = true
			ambiguous = append(ambiguous, name)
		}
		ref.byName[name] = e.ID
	}
	return ref, ambiguous
}

// Resolve returns the member ID for name.
func (r MemberReference) Resolve(name string) (string, bool) {
	id, ok := r.byName[strings.TrimSpace(name)]
	return id, ok
}

// Len returns the number of distinct names.
func (r MemberReference) Len() int {
	return len(r.byName)
}
