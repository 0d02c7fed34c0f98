package service

import (
	"reflect"
	"sync"
	"time"

	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// Field names a part of the snapshot that changed.
type Field string

const (
	FieldRepos      Field = "repos"
	FieldItems      Field = "items"
	FieldStylesheet Field = "stylesheet"
)

// Snapshot is an immutable view of the dashboard state. Callers must not modify its slices.
type Snapshot struct {
	Repos      []domain.Repository `json:"repos"`
	Items      []domain.ListItem   `json:"items"`
	Stylesheet string              `json:"-"`
	RepoListAt time.Time           `json:"repoListAt"`
	StatusAt   time.Time           `json:"statusAt"`
	Cycle      string              `json:"cycle,omitempty"`
}

// Change is published to subscribers after every update that changed something.
type Change struct {
	Snapshot Snapshot
	Fields   []Field
}

// Has reports whether f is among the changed fields.
func (c Change) Has(f Field) bool {
	for _, field := range c.Fields {
		if field == f {
			return true
		}
	}
	return false
}

// Store holds the current snapshot and notifies subscribers of changes.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
	subs    map[int]chan Change
	nextID  int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan Change)}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetRepos replaces the merged repository set.
func (s *Store) SetRepos(repos []domain.Repository, cycle string, at time.Time) Change {
	repos = append([]domain.Repository(nil), repos...)
	return s.update(func(snap *Snapshot) []Field {
		var changed []Field
		if !reflect.DeepEqual(snap.Repos, repos) {
			changed = append(changed, FieldRepos)
		}
		snap.Repos = repos
		snap.RepoListAt = at
		snap.Cycle = cycle
		return changed
	})
}

// SetItems replaces the ordered list of displayed items.
func (s *Store) SetItems(items []domain.ListItem, cycle string, at time.Time) Change {
	items = append([]domain.ListItem(nil), items...)
	return s.update(func(snap *Snapshot) []Field {
		var changed []Field
		if !reflect.DeepEqual(snap.Items, items) {
			changed = append(changed, FieldItems)
		}
		snap.Items = items
		snap.StatusAt = at
		snap.Cycle = cycle
		return changed
	})
}

// SetStylesheet stores custom CSS for the rendered page.
func (s *Store) SetStylesheet(css string) {
	s.update(func(snap *Snapshot) []Field {
		if snap.Stylesheet == css {
			return nil
		}
		snap.Stylesheet = css
		return []Field{FieldStylesheet}
	})
}

// Subscribe returns a channel receiving changes and a function that cancels the
// subscription. Changes are dropped for a subscriber whose buffer is full.
func (s *Store) Subscribe(buffer int) (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Change, buffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Store) update(apply func(*Snapshot) []Field) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fields := apply(&next)
	s.current = next

	change := Change{Snapshot: next, Fields: fields}
	if len(fields) == 0 {
		return change
	}
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
	return change
}
