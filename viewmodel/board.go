// Package viewmodel holds the pure projections between remote task records
// and the shapes the board and maintenance views render. These functions are
// the only place the status and provider taxonomies live.
package viewmodel

import "github.com/hubhiv/taskboard/domain"

// BoardTask is the Kanban board projection of a remote task record. It is
// rebuilt wholesale on every fetch and spliced in place after mutations,
// never persisted.
type BoardTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee,omitempty"`
	Avatar      string `json:"avatar"`
	DueDate     string `json:"dueDate"`
	CreatedAt   string `json:"createdAt"`
	Comments    int    `json:"comments"`
	Attachments int    `json:"attachments"`
	Rating      int    `json:"rating"`
	Position    int    `json:"position"`
	Archived    bool   `json:"archived,omitempty"`
}

// ToBoardTask projects a remote record onto the board shape. An absent
// avatar becomes the empty string rather than a null.
func ToBoardTask(t domain.Task) BoardTask {
	return BoardTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Assignee:    t.AssigneeName,
		Avatar:      t.AvatarURL,
		DueDate:     FormatDate(t.DueDate),
		CreatedAt:   FormatDate(t.CreatedAt),
		Comments:    t.Comments,
		Attachments: t.Attachments,
		Rating:      t.Rating,
		Position:    t.Position,
		Archived:    t.Archived,
	}
}

// ToBoardTasks maps a fetched collection in order.
func ToBoardTasks(ts []domain.Task) []BoardTask {
	out := make([]BoardTask, len(ts))
	for i, t := range ts {
		out[i] = ToBoardTask(t)
	}
	return out
}
