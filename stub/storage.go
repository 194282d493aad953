// Package stub is a local stand-in for the hosted task backend. It serves
// the same HTTP surface the real platform exposes, backed by Redis, so the
// client, store and probe tooling can run without the hosted service.
package stub

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hubhiv/taskboard/domain"
)

// ErrNotFound is returned when a task or user has no record.
var ErrNotFound = errors.New("not found")

// Storage persists stub tasks in Redis: one JSON blob per task, a membership
// set per user, and one sorted set per (user, status) column scored by
// position. The column zsets are the ordering source of truth.
type Storage struct {
	rdb *redis.Client
}

// NewStorage wraps the given Redis client.
func NewStorage(rdb *redis.Client) *Storage {
	return &Storage{rdb: rdb}
}

// taskEntity is the stored shape: the wire record plus the owning user.
type taskEntity struct {
	domain.Task
	UserID string `json:"user_id"`
}

func taskKey(id string) string            { return "task:" + id }
func userKey(userID string) string        { return "user:" + userID + ":tasks" }
func colKey(userID, status string) string { return "col:" + userID + ":" + status }

func (s *Storage) load(ctx context.Context, id string) (taskEntity, error) {
	data, err := s.rdb.Get(ctx, taskKey(id)).Bytes()
	if err == redis.Nil {
		return taskEntity{}, ErrNotFound
	}
	if err != nil {
		return taskEntity{}, err
	}
	var ent taskEntity
	if err := sonic.Unmarshal(data, &ent); err != nil {
		return taskEntity{}, err
	}
	return ent, nil
}

func (s *Storage) save(ctx context.Context, ent taskEntity) error {
	data, err := sonic.Marshal(ent)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, taskKey(ent.ID), data, 0).Err()
}

// CreateTask stores a new task at the end of its status column. The server
// owns identifier and position assignment; clients never synthesize either.
func (s *Storage) CreateTask(ctx context.Context, userID string, req domain.CreateTaskRequest) (domain.Task, error) {
	pos, err := s.rdb.ZCard(ctx, colKey(userID, req.Status)).Result()
	if err != nil {
		return domain.Task{}, err
	}
	ent := taskEntity{
		Task: domain.Task{
			ID:           uuid.NewString(),
			Title:        req.Title,
			Description:  req.Description,
			Status:       req.Status,
			Priority:     req.Priority,
			AssigneeID:   req.AssigneeID,
			CreatedAt:    time.Now().UnixMilli(),
			DueDate:      req.DueDate,
			Position:     int(pos) + 1,
			Provider:     req.Provider,
			ProviderType: req.ProviderType,
		},
		UserID: userID,
	}
	if err := s.save(ctx, ent); err != nil {
		return domain.Task{}, err
	}
	if err := s.rdb.SAdd(ctx, userKey(userID), ent.ID).Err(); err != nil {
		return domain.Task{}, err
	}
	if err := s.rdb.ZAdd(ctx, colKey(userID, ent.Status), redis.Z{Score: float64(ent.Position), Member: ent.ID}).Err(); err != nil {
		return domain.Task{}, err
	}
	return ent.Task, nil
}

// GetTask returns one record by identifier.
func (s *Storage) GetTask(ctx context.Context, id string) (domain.Task, error) {
	ent, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return ent.Task, nil
}

// ListTasks returns every task for a user, optionally filtered by assignee,
// ordered by status column then position. ErrNotFound when the user has no
// records at all.
func (s *Storage) ListTasks(ctx context.Context, userID, assigneeID string) ([]domain.Task, error) {
	ids, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	tasks := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		ent, err := s.load(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if assigneeID != "" && ent.AssigneeID != assigneeID {
			continue
		}
		tasks = append(tasks, ent.Task)
	}
	statusRank := map[string]int{}
	for i, st := range domain.Statuses {
		statusRank[st] = i
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Status != tasks[j].Status {
			return statusRank[tasks[i].Status] < statusRank[tasks[j].Status]
		}
		return tasks[i].Position < tasks[j].Position
	})
	return tasks, nil
}

// UpdateTask applies a partial update to a record. Status is not updated
// here; column changes go through MoveTask so the zsets stay consistent.
func (s *Storage) UpdateTask(ctx context.Context, id string, req domain.UpdateTaskRequest) (domain.Task, error) {
	ent, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if req.Title != nil {
		ent.Title = *req.Title
	}
	if req.Description != nil {
		ent.Description = *req.Description
	}
	if req.Priority != nil {
		ent.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		ent.AssigneeID = *req.AssigneeID
	}
	if req.DueDate != nil {
		ent.DueDate = *req.DueDate
	}
	if req.Provider != nil {
		ent.Provider = *req.Provider
	}
	if err := s.save(ctx, ent); err != nil {
		return domain.Task{}, err
	}
	return ent.Task, nil
}

// MoveTask moves a record to another status column. Without an explicit
// position the task is appended at the end of the target column.
func (s *Storage) MoveTask(ctx context.Context, id, status string, position *int) (domain.Task, error) {
	ent, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.rdb.ZRem(ctx, colKey(ent.UserID, ent.Status), id).Err(); err != nil {
		return domain.Task{}, err
	}
	pos := 0
	if position != nil {
		pos = *position
	} else {
		n, err := s.rdb.ZCard(ctx, colKey(ent.UserID, status)).Result()
		if err != nil {
			return domain.Task{}, err
		}
		pos = int(n) + 1
	}
	if err := s.rdb.ZAdd(ctx, colKey(ent.UserID, status), redis.Z{Score: float64(pos), Member: id}).Err(); err != nil {
		return domain.Task{}, err
	}
	ent.Status = status
	ent.Position = pos
	if err := s.save(ctx, ent); err != nil {
		return domain.Task{}, err
	}
	return ent.Task, nil
}

// ReorderTasks assigns new positions within each task's current column and
// returns the updated records in input order. Unknown identifiers fail the
// whole batch.
func (s *Storage) ReorderTasks(ctx context.Context, pairs []domain.ReorderPair) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(pairs))
	for _, p := range pairs {
		ent, err := s.load(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if err := s.rdb.ZAdd(ctx, colKey(ent.UserID, ent.Status), redis.Z{Score: float64(p.Position), Member: p.ID}).Err(); err != nil {
			return nil, err
		}
		ent.Position = p.Position
		if err := s.save(ctx, ent); err != nil {
			return nil, err
		}
		out = append(out, ent.Task)
	}
	return out, nil
}

// SetRating updates a record's rating. Range checks belong to the handler.
func (s *Storage) SetRating(ctx context.Context, id string, rating int) (domain.Task, error) {
	ent, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	ent.Rating = rating
	if err := s.save(ctx, ent); err != nil {
		return domain.Task{}, err
	}
	return ent.Task, nil
}

// SetArchived flips the archived flag. Archived tasks keep their column slot.
func (s *Storage) SetArchived(ctx context.Context, id string, archived bool) (domain.Task, error) {
	ent, err := s.load(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	ent.Archived = archived
	if err := s.save(ctx, ent); err != nil {
		return domain.Task{}, err
	}
	return ent.Task, nil
}

// DeleteTask removes a record and its column membership.
func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ent, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.rdb.ZRem(ctx, colKey(ent.UserID, ent.Status), id).Err(); err != nil {
		return err
	}
	if err := s.rdb.SRem(ctx, userKey(ent.UserID), id).Err(); err != nil {
		return err
	}
	return s.rdb.Del(ctx, taskKey(id)).Err()
}

// Counts reports the column cardinalities for a user. ErrNotFound when the
// user has no records.
func (s *Storage) Counts(ctx context.Context, userID string) ([]domain.StatusCount, error) {
	n, err := s.rdb.SCard(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	out := make([]domain.StatusCount, 0, len(domain.Statuses))
	for _, st := range domain.Statuses {
		c, err := s.rdb.ZCard(ctx, colKey(userID, st)).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.StatusCount{Status: st, Count: int(c)})
	}
	return out, nil
}
