package domain

import "sync"

// ImportantUsers is the append-only set of logins whose pulls are always shown.
// It's shared by concurrent team fetches, so access is guarded.
type ImportantUsers struct {
	mu     sync.RWMutex
	logins []string
	index  map[string]struct{}
}

// NewImportantUsers creates a set seeded with logins.
func NewImportantUsers(logins ...string) *ImportantUsers {
	u := &ImportantUsers{index: make(map[string]struct{})}
	u.Add(logins...)
	return u
}

// Add appends logins that aren't already present.
func (u *ImportantUsers) Add(logins ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, login := range logins {
		if login == "" {
			continue
		}
		if _, ok := u.index[login]; ok {
			continue
		}
		u.index[login] = struct{}{}
		u.logins = append(u.logins, login)
	}
}

// Contains reports whether login is in the set.
func (u *ImportantUsers) Contains(login string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.index[login]
	return ok
}

// Len returns the number of logins.
func (u *ImportantUsers) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.logins)
}

// List returns a copy of the logins in insertion order.
func (u *ImportantUsers) List() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]string, len(u.logins))
	copy(out, u.logins)
	return out
}
