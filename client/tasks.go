package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hubhiv/taskboard/domain"
)

// ListOptions narrows ListTasks. The zero value lists everything for the
// user.
type ListOptions struct {
	AssigneeID string
}

// tasksEnvelope is the wrapper the list endpoint uses: {"task":[...]}.
type tasksEnvelope struct {
	Task []domain.Task `json:"task"`
}

// ListTasks fetches every task for a user, optionally filtered by assignee.
func (c *Client) ListTasks(ctx context.Context, userID string, opts ListOptions) ([]domain.Task, error) {
	path := "/tasks/" + url.PathEscape(userID)
	if opts.AssigneeID != "" {
		path += "?assignee_id=" + url.QueryEscape(opts.AssigneeID)
	}
	var env tasksEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Task, nil
}

// GetTask fetches one task by identifier.
func (c *Client) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return domain.Task{}, err
	}
	if err := checkTask(t.ID); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// CreateTask creates a task; the server assigns identifier and position.
// Validation failures come back as HTTPError{422} with the field map.
func (c *Client) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPost, "/task", req, &t); err != nil {
		return domain.Task{}, err
	}
	if err := checkTask(t.ID); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id string, req domain.UpdateTaskRequest) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPatch, "/task/"+url.PathEscape(id), req, &t); err != nil {
		return domain.Task{}, err
	}
	if err := checkTask(t.ID); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// DeleteTask removes a task. The endpoint answers 200 with no useful body.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/task/"+url.PathEscape(id), nil, nil)
}

// MoveTask changes a task's column and optionally its position within it.
// An invalid status is the server's call and comes back as HTTPError{400}.
func (c *Client) MoveTask(ctx context.Context, id string, req domain.MoveTaskRequest) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPatch, "/task/"+url.PathEscape(id), req, &t); err != nil {
		return domain.Task{}, err
	}
	if err := checkTask(t.ID); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// ReorderTasks assigns new positions to the given tasks in one call and
// returns the updated records.
func (c *Client) ReorderTasks(ctx context.Context, pairs []domain.ReorderPair) ([]domain.Task, error) {
	body := struct {
		Tasks []domain.ReorderPair `json:"tasks"`
	}{Tasks: pairs}
	var out []domain.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/reorder", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRating sets a task's rating. The server enforces the 0-5 range.
func (c *Client) UpdateRating(ctx context.Context, id string, rating int) (domain.Task, error) {
	body := struct {
		Rating int `json:"rating"`
	}{Rating: rating}
	var t domain.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%s/rating", url.PathEscape(id)), body, &t); err != nil {
		return domain.Task{}, err
	}
	if err := checkTask(t.ID); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// ArchiveTask flags a task archived; it stays in the board collection.
func (c *Client) ArchiveTask(ctx context.Context, id string) (domain.Task, error) {
	return c.archive(ctx, id, "archive")
}

// UnarchiveTask clears the archived flag.
func (c *Client) UnarchiveTask(ctx context.Context, id string) (domain.Task, error) {
	return c.archive(ctx, id, "unarchive")
}

func (c *Client) archive(ctx context.Context, id, action string) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%s/%s", url.PathEscape(id), action), nil, &t); err != nil {
		return domain.Task{}, err
	}
	if err := checkTask(t.ID); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// TaskCounts fetches the per-status counts for a user.
func (c *Client) TaskCounts(ctx context.Context, userID string) ([]domain.StatusCount, error) {
	var out []domain.StatusCount
	if err := c.do(ctx, http.MethodGet, "/task/count/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
