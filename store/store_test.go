package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hubhiv/taskboard/client"
	"github.com/hubhiv/taskboard/domain"
)

type mockAPI struct {
	listFn      func(ctx context.Context, userID string, opts client.ListOptions) ([]domain.Task, error)
	createFn    func(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error)
	deleteFn    func(ctx context.Context, id string) error
	moveFn      func(ctx context.Context, id string, req domain.MoveTaskRequest) (domain.Task, error)
	rateFn      func(ctx context.Context, id string, rating int) (domain.Task, error)
	archiveFn   func(ctx context.Context, id string) (domain.Task, error)
	unarchiveFn func(ctx context.Context, id string) (domain.Task, error)
}

func (m *mockAPI) ListTasks(ctx context.Context, userID string, opts client.ListOptions) ([]domain.Task, error) {
	if m.listFn == nil {
		return nil, errors.New("unexpected ListTasks call")
	}
	return m.listFn(ctx, userID, opts)
}

func (m *mockAPI) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error) {
	if m.createFn == nil {
		return domain.Task{}, errors.New("unexpected CreateTask call")
	}
	return m.createFn(ctx, req)
}

func (m *mockAPI) DeleteTask(ctx context.Context, id string) error {
	if m.deleteFn == nil {
		return errors.New("unexpected DeleteTask call")
	}
	return m.deleteFn(ctx, id)
}

func (m *mockAPI) MoveTask(ctx context.Context, id string, req domain.MoveTaskRequest) (domain.Task, error) {
	if m.moveFn == nil {
		return domain.Task{}, errors.New("unexpected MoveTask call")
	}
	return m.moveFn(ctx, id, req)
}

func (m *mockAPI) UpdateRating(ctx context.Context, id string, rating int) (domain.Task, error) {
	if m.rateFn == nil {
		return domain.Task{}, errors.New("unexpected UpdateRating call")
	}
	return m.rateFn(ctx, id, rating)
}

func (m *mockAPI) ArchiveTask(ctx context.Context, id string) (domain.Task, error) {
	if m.archiveFn == nil {
		return domain.Task{}, errors.New("unexpected ArchiveTask call")
	}
	return m.archiveFn(ctx, id)
}

func (m *mockAPI) UnarchiveTask(ctx context.Context, id string) (domain.Task, error) {
	if m.unarchiveFn == nil {
		return domain.Task{}, errors.New("unexpected UnarchiveTask call")
	}
	return m.unarchiveFn(ctx, id)
}

func seededStore(t *testing.T, api *mockAPI, tasks []domain.Task) *Store {
	t.Helper()
	orig := api.listFn
	api.listFn = func(context.Context, string, client.ListOptions) ([]domain.Task, error) {
		return tasks, nil
	}
	s := New(api, nil)
	if err := s.Refresh(context.Background(), "2"); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	api.listFn = orig
	return s
}

func TestRefreshReplacesCollection(t *testing.T) {
	remote := []domain.Task{
		{ID: "1", Status: domain.StatusTodo},
		{ID: "2", Status: domain.StatusBooked},
		{ID: "3", Status: domain.StatusComplete},
	}
	api := &mockAPI{listFn: func(context.Context, string, client.ListOptions) ([]domain.Task, error) {
		return remote, nil
	}}
	s := New(api, nil)
	if err := s.Refresh(context.Background(), "2"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got := s.Tasks()
	if len(got) != len(remote) {
		t.Fatalf("collection length %d, want %d", len(got), len(remote))
	}
	for i := range remote {
		if got[i].ID != remote[i].ID {
			t.Fatalf("index %d: id %q, want %q", i, got[i].ID, remote[i].ID)
		}
	}
	if s.Loading() {
		t.Fatal("loading must be false after refresh")
	}
	if s.Err() != nil {
		t.Fatalf("err must be nil after clean refresh, got %v", s.Err())
	}
}

func TestRefreshFailureKeepsStaleCollection(t *testing.T) {
	api := &mockAPI{}
	s := seededStore(t, api, []domain.Task{{ID: "1"}, {ID: "2"}})

	boom := &client.HTTPError{Status: 500, Message: "backend down"}
	api.listFn = func(context.Context, string, client.ListOptions) ([]domain.Task, error) {
		return nil, boom
	}
	if err := s.Refresh(context.Background(), "2"); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := s.Tasks(); len(got) != 2 {
		t.Fatalf("stale collection must survive a failed refresh, got %d tasks", len(got))
	}
	if s.Err() == nil {
		t.Fatal("error must be recorded")
	}
	if s.Loading() {
		t.Fatal("loading must clear on failure")
	}
}

func TestSupersededRefreshIsDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	api := &mockAPI{}
	api.listFn = func(context.Context, string, client.ListOptions) ([]domain.Task, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(firstStarted)
			<-release
			return []domain.Task{{ID: "stale"}}, nil
		}
		return []domain.Task{{ID: "fresh"}}, nil
	}
	s := New(api, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Refresh(context.Background(), "2")
	}()
	<-firstStarted
	// The second refresh supersedes the first, which is still blocked.
	if err := s.Refresh(context.Background(), "2"); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	close(release)
	wg.Wait()

	got := s.Tasks()
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Fatalf("stale refresh must be discarded, got %#v", got)
	}
}

func TestMoveSplicesConfirmedRecord(t *testing.T) {
	api := &mockAPI{}
	s := seededStore(t, api, []domain.Task{
		{ID: "1", Status: domain.StatusTodo, Rating: 2},
		{ID: "2", Status: domain.StatusTodo},
	})
	api.moveFn = func(_ context.Context, id string, req domain.MoveTaskRequest) (domain.Task, error) {
		return domain.Task{ID: id, Status: req.Status, Rating: 2}, nil
	}
	if err := s.Move(context.Background(), "1", domain.StatusBooked); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got := s.Tasks()
	if got[0].Status != domain.StatusBooked {
		t.Fatalf("task 1 status = %q, want booked", got[0].Status)
	}
	if got[1].Status != domain.StatusTodo {
		t.Fatalf("task 2 must be untouched, got %q", got[1].Status)
	}
}

func TestFailedMoveLeavesCollectionUntouched(t *testing.T) {
	api := &mockAPI{}
	s := seededStore(t, api, []domain.Task{{ID: "1", Status: domain.StatusTodo}})
	before := s.Tasks()

	api.moveFn = func(context.Context, string, domain.MoveTaskRequest) (domain.Task, error) {
		return domain.Task{}, &client.HTTPError{Status: 400, Message: "invalid status"}
	}
	if err := s.Move(context.Background(), "1", "bogus"); err == nil {
		t.Fatal("expected move error")
	}
	after := s.Tasks()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("collection changed after failed move: %#v", after)
	}
	if s.Err() == nil {
		t.Fatal("error must be non-nil after failed move")
	}
}

func TestRateUpdatesOnlyRating(t *testing.T) {
	api := &mockAPI{}
	original := domain.Task{ID: "7", Title: "Flush heater", Status: domain.StatusScheduled, Priority: domain.PriorityMedium, Position: 3, Rating: 1}
	s := seededStore(t, api, []domain.Task{original})

	api.rateFn = func(_ context.Context, id string, rating int) (domain.Task, error) {
		patched := original
		patched.Rating = rating
		return patched, nil
	}
	if err := s.Rate(context.Background(), "7", 4); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	got := s.Tasks()[0]
	if got.Rating != 4 {
		t.Fatalf("rating = %d, want 4", got.Rating)
	}
	if got.Title != original.Title || got.Status != original.Status || got.Position != original.Position {
		t.Fatalf("fields other than rating changed: %#v", got)
	}
}

func TestDeleteFiltersAndClearsSelection(t *testing.T) {
	api := &mockAPI{}
	s := seededStore(t, api, []domain.Task{{ID: "1"}, {ID: "2"}})
	s.Select("1")

	api.deleteFn = func(context.Context, string) error { return nil }
	if err := s.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got := s.Tasks()
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("unexpected collection after delete: %#v", got)
	}
	if _, ok := s.Selected(); ok {
		t.Fatal("selection must clear when the selected task is deleted")
	}
}

func TestArchiveKeepsRowInCollection(t *testing.T) {
	api := &mockAPI{}
	s := seededStore(t, api, []domain.Task{{ID: "1", Status: domain.StatusComplete}})
	api.archiveFn = func(_ context.Context, id string) (domain.Task, error) {
		return domain.Task{ID: id, Status: domain.StatusComplete, Archived: true}, nil
	}
	if err := s.Archive(context.Background(), "1"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	got := s.Tasks()
	if len(got) != 1 || !got[0].Archived {
		t.Fatalf("archived row must stay in the collection: %#v", got)
	}
}

func TestCreateAppendsAndErrorsAreBothRecordedAndReturned(t *testing.T) {
	api := &mockAPI{}
	s := seededStore(t, api, []domain.Task{{ID: "1"}})

	api.createFn = func(_ context.Context, req domain.CreateTaskRequest) (domain.Task, error) {
		return domain.Task{ID: "new", Title: req.Title, Status: req.Status}, nil
	}
	if err := s.Create(context.Background(), domain.CreateTaskRequest{Title: "Clean gutters", Status: domain.StatusTodo}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got := s.Tasks()
	if len(got) != 2 || got[1].ID != "new" {
		t.Fatalf("created task not appended: %#v", got)
	}

	boom := &client.HTTPError{Status: 422, Message: "validation failed"}
	api.createFn = func(context.Context, domain.CreateTaskRequest) (domain.Task, error) {
		return domain.Task{}, boom
	}
	err := s.Create(context.Background(), domain.CreateTaskRequest{})
	if !errors.Is(err, boom) {
		t.Fatalf("create must return the client error, got %v", err)
	}
	if s.Err() != err {
		t.Fatal("create must also record the error, same as every other mutation")
	}
}

// Two moves for the same task race against the server with no client-side
// serialization; whichever response resolves last wins the splice. The mock
// pins the resolution order so the nondeterminism is exercised both ways.
func TestConcurrentMovesLastResponseWins(t *testing.T) {
	run := func(t *testing.T, winner, loser string) {
		api := &mockAPI{}
		s := seededStore(t, api, []domain.Task{{ID: "1", Status: domain.StatusTodo}})

		gates := map[string]chan struct{}{
			winner: make(chan struct{}),
			loser:  make(chan struct{}),
		}
		done := map[string]chan struct{}{
			winner: make(chan struct{}),
			loser:  make(chan struct{}),
		}
		started := make(chan string, 2)
		api.moveFn = func(_ context.Context, id string, req domain.MoveTaskRequest) (domain.Task, error) {
			started <- req.Status
			<-gates[req.Status]
			return domain.Task{ID: id, Status: req.Status}, nil
		}

		for _, status := range []string{loser, winner} {
			go func(st string) {
				defer close(done[st])
				_ = s.Move(context.Background(), "1", st)
			}(status)
		}
		<-started
		<-started
		// Resolve the loser first and wait for its splice, then the winner.
		close(gates[loser])
		<-done[loser]
		close(gates[winner])
		<-done[winner]

		if got := s.Tasks()[0].Status; got != winner {
			t.Fatalf("final status = %q, want last-resolved %q", got, winner)
		}
	}

	t.Run("booked resolves last", func(t *testing.T) { run(t, domain.StatusBooked, domain.StatusScheduled) })
	t.Run("scheduled resolves last", func(t *testing.T) { run(t, domain.StatusScheduled, domain.StatusBooked) })
}
