// Package store owns the in-memory board collection for the active session
// and coordinates every mutation with the remote API. The collection is the
// sole source of truth for the view: it is replaced wholesale on refresh and
// spliced by identifier after each confirmed mutation. Mutations are
// synchronous-confirm, not optimistic: local state changes only after the
// server answers.
package store

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/hubhiv/taskboard/client"
	"github.com/hubhiv/taskboard/domain"
	"github.com/hubhiv/taskboard/viewmodel"
)

// TaskAPI is the slice of the task client the store consumes. *client.Client
// satisfies it.
type TaskAPI interface {
	ListTasks(ctx context.Context, userID string, opts client.ListOptions) ([]domain.Task, error)
	CreateTask(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	MoveTask(ctx context.Context, id string, req domain.MoveTaskRequest) (domain.Task, error)
	UpdateRating(ctx context.Context, id string, rating int) (domain.Task, error)
	ArchiveTask(ctx context.Context, id string) (domain.Task, error)
	UnarchiveTask(ctx context.Context, id string) (domain.Task, error)
}

// Store holds the board view-model collection for one user session.
//
// The mutex protects the collection from torn reads; it does not serialize
// the HTTP calls. Two mutations in flight for the same identifier race
// against the server and the last response to arrive wins the splice,
// regardless of issue order.
type Store struct {
	api    TaskAPI
	logger *log.Logger

	mu           sync.Mutex
	tasks        []viewmodel.BoardTask
	loading      bool
	err          error
	selectedID   string
	showArchived bool

	// refreshGen invalidates refreshes superseded by a newer one, so a slow
	// stale response cannot overwrite fresher state.
	refreshGen uint64
}

// New creates a Store over the given API. A nil logger falls back to the
// logrus standard logger.
func New(api TaskAPI, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Store{api: api, logger: logger}
}

// Refresh replaces the whole collection from the server. On failure the
// previous collection stays visible and the error is recorded. A refresh
// that finishes after a newer one started is discarded.
//
// Every operation on the store both records its error and returns it, so a
// caller may either inspect the return or poll Err.
func (s *Store) Refresh(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.refreshGen++
	gen := s.refreshGen
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	remote, err := s.api.ListTasks(ctx, userID, client.ListOptions{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.refreshGen {
		s.logger.WithFields(log.Fields{"user": userID, "gen": gen}).Debug("store: superseded refresh discarded")
		return nil
	}
	s.loading = false
	if err != nil {
		s.err = err
		s.logger.WithFields(log.Fields{"user": userID, "error": err.Error()}).Warn("store: refresh failed")
		return err
	}
	s.tasks = viewmodel.ToBoardTasks(remote)
	return nil
}

// Move changes a task's column. Local state is touched only after the server
// confirms; a failed move leaves the collection exactly as it was.
func (s *Store) Move(ctx context.Context, id, status string) error {
	updated, err := s.api.MoveTask(ctx, id, domain.MoveTaskRequest{Status: status})
	if err != nil {
		return s.record("move", id, err)
	}
	s.splice(updated)
	return nil
}

// Rate sets a task's rating and splices the confirmed record in place.
func (s *Store) Rate(ctx context.Context, id string, rating int) error {
	updated, err := s.api.UpdateRating(ctx, id, rating)
	if err != nil {
		return s.record("rate", id, err)
	}
	s.splice(updated)
	return nil
}

// Delete removes a task from the server and then from the collection. If the
// deleted task was selected, the selection is cleared.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return s.record("delete", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	if s.selectedID == id {
		s.selectedID = ""
	}
	return nil
}

// Archive flags a task archived. The row stays in the collection; filtering
// archived rows out of the display is the view's job, gated on ShowArchived.
func (s *Store) Archive(ctx context.Context, id string) error {
	updated, err := s.api.ArchiveTask(ctx, id)
	if err != nil {
		return s.record("archive", id, err)
	}
	s.splice(updated)
	return nil
}

// Unarchive clears the archived flag.
func (s *Store) Unarchive(ctx context.Context, id string) error {
	updated, err := s.api.UnarchiveTask(ctx, id)
	if err != nil {
		return s.record("unarchive", id, err)
	}
	s.splice(updated)
	return nil
}

// Create sends the payload and appends the created record to the collection.
func (s *Store) Create(ctx context.Context, req domain.CreateTaskRequest) error {
	created, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return s.record("create", "", err)
	}
	s.mu.Lock()
	s.tasks = append(s.tasks, viewmodel.ToBoardTask(created))
	s.mu.Unlock()
	return nil
}

// splice replaces the one collection element matching the record's
// identifier, leaving every other element untouched. Records the collection
// has never seen are ignored; the next refresh picks them up.
func (s *Store) splice(remote domain.Task) {
	vm := viewmodel.ToBoardTask(remote)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == vm.ID {
			s.tasks[i] = vm
			return
		}
	}
}

func (s *Store) record(op, id string, err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.logger.WithFields(log.Fields{"op": op, "task": id, "error": err.Error()}).Warn("store: operation failed")
	return err
}

// Tasks returns a copy of the current collection.
func (s *Store) Tasks() []viewmodel.BoardTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]viewmodel.BoardTask, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the most recent operation error, nil after a clean refresh.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Select marks a task as the open detail view.
func (s *Store) Select(id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
}

// Selected returns the currently selected task, if it is still in the
// collection. Splices refresh it implicitly, since the detail row and the
// board row are the same element.
func (s *Store) Selected() (viewmodel.BoardTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return viewmodel.BoardTask{}, false
	}
	for _, t := range s.tasks {
		if t.ID == s.selectedID {
			return t, true
		}
	}
	return viewmodel.BoardTask{}, false
}

// SetShowArchived toggles the display flag. The store never filters on it.
func (s *Store) SetShowArchived(show bool) {
	s.mu.Lock()
	s.showArchived = show
	s.mu.Unlock()
}

// ShowArchived reports the display flag for the view.
func (s *Store) ShowArchived() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showArchived
}
