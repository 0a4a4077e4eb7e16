// Package store is the in-memory task container the presentation layer renders
// from. Every mutation goes through one of the Store methods and is applied
// under a single lock, so callers may run network I/O on any goroutine and
// feed the results back here.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Snapshot is a deep copy of the store state at one point in time.
type Snapshot struct {
	Tasks            []model.Task
	Pending          []PendingTask
	Categories       []model.Category
	SelectedCategory string
	UserData         *model.UserData
}

// PendingTask is a task created locally that the server has not confirmed
// yet. It never appears in the authoritative task list.
type PendingTask struct {
	TempID string
	Task   model.Task
}

// Listener receives the state after each mutation that changed it.
type Listener func(Snapshot)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for debug output.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Store holds tasks, categories, the selection filter and the cached profile.
type Store struct {
	mu         sync.Mutex
	tasks      []model.Task
	pending    []PendingTask
	categories []model.Category
	selected   string
	userData   *model.UserData

	listeners  map[int]Listener
	nextListen int
	seq        uint64

	notifyMu  sync.Mutex
	delivered uint64

	now func() time.Time
	log zerolog.Logger
}

// New returns an empty store filtered on AllCategories.
func New(opts ...Option) *Store {
	s := &Store{
		selected:  model.AllCategories,
		listeners: make(map[int]Listener),
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn and returns a function that removes it. Listeners
// run after the state lock is released, on the goroutine that made the
// change. Deliveries never go backwards: a snapshot older than one already
// delivered is dropped, so the last snapshot a listener sees is the current
// state. A listener may read the store but must not mutate it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// mutate applies fn under the lock and notifies listeners when fn reports a
// change.
func (s *Store) mutate(op string, fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if !changed {
		s.mu.Unlock()
		s.log.Debug().Str("op", op).Msg("store: no-op")
		return false
	}
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq < s.delivered {
		s.log.Debug().Str("op", op).Uint64("seq", seq).Msg("store: superseded")
		return true
	}
	s.delivered = seq

	s.log.Debug().Str("op", op).Int("tasks", len(snap.Tasks)).Msg("store: changed")
	for _, l := range listeners {
		l(snap)
	}
	return true
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Tasks:            model.CloneTasks(s.tasks),
		Categories:       append([]model.Category(nil), s.categories...),
		SelectedCategory: s.selected,
	}
	if len(s.pending) > 0 {
		snap.Pending = make([]PendingTask, len(s.pending))
		for i, p := range s.pending {
			snap.Pending[i] = PendingTask{TempID: p.TempID, Task: p.Task.Clone()}
		}
	}
	if s.userData != nil {
		u := *s.userData
		snap.UserData = &u
	}
	return snap
}

// SetTasks replaces the whole task collection.
func (s *Store) SetTasks(tasks []model.Task) {
	s.mutate("setTasks", func() bool {
		next := make([]model.Task, len(tasks))
		for i, t := range tasks {
			next[i] = s.normalize(t.Clone())
		}
		s.tasks = next
		return true
	})
}

// AddTask appends a server-confirmed task.
func (s *Store) AddTask(task model.Task) {
	s.mutate("addTask", func() bool {
		s.tasks = append(s.tasks, s.normalize(task.Clone()))
		return true
	})
}

// UpdateTask replaces the task with the same ID and applies the completion
// rule. It reports false and changes nothing when no task matches.
func (s *Store) UpdateTask(task model.Task) bool {
	return s.mutate("updateTask", func() bool {
		i := s.indexOf(task.ID)
		if i < 0 {
			return false
		}
		s.tasks[i] = s.transition(s.tasks[i], task.Clone())
		return true
	})
}

// DeleteTask removes the task with the given ID. It reports false when there
// is none.
func (s *Store) DeleteTask(id string) bool {
	return s.mutate("deleteTask", func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		return true
	})
}

// Task returns a copy of the task with the given ID.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Tasks returns every task in stored order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneTasks(s.tasks)
}

// SetSelectedCategory sets the filter. Names are not checked against the
// category list; an unknown name yields an empty view.
func (s *Store) SetSelectedCategory(name string) {
	s.mutate("setSelectedCategory", func() bool {
		if s.selected == name {
			return false
		}
		s.selected = name
		return true
	})
}

// SelectedCategory returns the active filter.
func (s *Store) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// VisibleTasks returns the tasks that pass the active filter, in stored
// order.
func (s *Store) VisibleTasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Filter(s.tasks, s.selected)
}

// Filter returns the tasks whose category equals category, or all of them
// for AllCategories. Order is preserved and the result is a copy.
func Filter(tasks []model.Task, category string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if category == model.AllCategories || t.Category == category {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SetUserData replaces the cached profile. Nil clears it.
func (s *Store) SetUserData(u *model.UserData) {
	s.mutate("setUserData", func() bool {
		if u == nil {
			if s.userData == nil {
				return false
			}
			s.userData = nil
			return true
		}
		v := *u
		s.userData = &v
		return true
	})
}

// UserData returns a copy of the cached profile, or nil.
func (s *Store) UserData() *model.UserData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userData == nil {
		return nil
	}
	u := *s.userData
	return &u
}

// SetCategories replaces the category list.
func (s *Store) SetCategories(categories []model.Category) {
	s.mutate("setCategories", func() bool {
		s.categories = append([]model.Category(nil), categories...)
		return true
	})
}

// AddCategory appends a category.
func (s *Store) AddCategory(c model.Category) {
	s.mutate("addCategory", func() bool {
		s.categories = append(s.categories, c)
		return true
	})
}

// ReplaceCategory swaps in c for the category with the same ID.
func (s *Store) ReplaceCategory(c model.Category) bool {
	return s.mutate("replaceCategory", func() bool {
		for i := range s.categories {
			if s.categories[i].ID == c.ID {
				s.categories[i] = c
				return true
			}
		}
		return false
	})
}

// RemoveCategory drops the category with the given ID.
func (s *Store) RemoveCategory(id string) bool {
	return s.mutate("removeCategory", func() bool {
		for i := range s.categories {
			if s.categories[i].ID == id {
				s.categories = append(s.categories[:i:i], s.categories[i+1:]...)
				return true
			}
		}
		return false
	})
}

// Categories returns the category list.
func (s *Store) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.categories...)
}

// AddPending records a task the server has not confirmed and returns its
// temporary key.
func (s *Store) AddPending(task model.Task) string {
	tempID := "pending-" + uuid.NewString()
	s.mutate("addPending", func() bool {
		t := task.Clone()
		t.ID = tempID
		s.pending = append(s.pending, PendingTask{TempID: tempID, Task: t})
		return true
	})
	return tempID
}

// ConfirmPending drops the pending entry and puts the server's task at the
// front of the list, where the server orders its newest task.
func (s *Store) ConfirmPending(tempID string, confirmed model.Task) error {
	if confirmed.ID == "" {
		return fmt.Errorf("confirm %s: server task has no id", tempID)
	}
	var found bool
	s.mutate("confirmPending", func() bool {
		found = s.dropPending(tempID)
		if !found {
			return false
		}
		s.tasks = append([]model.Task{s.normalize(confirmed.Clone())}, s.tasks...)
		return true
	})
	if !found {
		return fmt.Errorf("confirm %s: no such pending task", tempID)
	}
	return nil
}

// DiscardPending drops a pending entry.
func (s *Store) DiscardPending(tempID string) bool {
	return s.mutate("discardPending", func() bool {
		return s.dropPending(tempID)
	})
}

// PendingTasks lists the unconfirmed tasks.
func (s *Store) PendingTasks() []PendingTask {
	return s.Snapshot().Pending
}

func (s *Store) dropPending(tempID string) bool {
	for i := range s.pending {
		if s.pending[i].TempID == tempID {
			s.pending = append(s.pending[:i:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// transition applies the completion rule to next given the stored prev.
func (s *Store) transition(prev, next model.Task) model.Task {
	switch {
	case !prev.Completed && next.Completed:
		stamp := s.now()
		if next.CompletedAt != nil {
			stamp = *next.CompletedAt
		}
		if stamp.Before(prev.UpdatedAt) {
			stamp = prev.UpdatedAt
		}
		next.CompletedAt = &stamp
	case prev.Completed && next.Completed:
		if prev.CompletedAt != nil {
			v := *prev.CompletedAt
			next.CompletedAt = &v
		} else if next.CompletedAt == nil {
			stamp := s.now()
			next.CompletedAt = &stamp
		}
	default:
		next.CompletedAt = nil
	}
	if next.UpdatedAt.Before(next.CreatedAt) {
		next.UpdatedAt = next.CreatedAt
	}
	return next
}

// normalize makes completed and completedAt agree on an incoming record.
func (s *Store) normalize(t model.Task) model.Task {
	if !t.Completed {
		t.CompletedAt = nil
	} else if t.CompletedAt == nil {
		stamp := t.UpdatedAt
		if stamp.IsZero() {
			stamp = s.now()
		}
		t.CompletedAt = &stamp
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
	return t
}
