package domain

// Status values the remote API uses for a task. The client passes unknown
// values through rather than rejecting them; the server owns validation.
const (
	StatusTodo      = "todo"
	StatusScheduled = "scheduled"
	StatusBooked    = "booked"
	StatusComplete  = "complete"
)

// Priority values the remote API uses for a task.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Provider is the enumerated service category on a task. ProviderType is the
// free-form fallback used when a record predates the enumeration.
const (
	ProviderPlumbing   = "Plumbing"
	ProviderHVAC       = "HVAC"
	ProviderPainting   = "Painting"
	ProviderElectrical = "Electrical"
)

// Statuses lists every remote status in column order.
var Statuses = []string{StatusTodo, StatusScheduled, StatusBooked, StatusComplete}

// Task is a single task record as the remote API serves it. Timestamps are
// epoch milliseconds; zero means the field was never set.
type Task struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	AssigneeID   string `json:"assignee_id,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	CreatedAt    int64  `json:"created_at,omitempty"`
	DueDate      int64  `json:"due_date,omitempty"`
	Comments     int    `json:"comments,omitempty"`
	Attachments  int    `json:"attachments,omitempty"`
	Rating       int    `json:"rating,omitempty"`
	Position     int    `json:"position"`
	Provider     string `json:"provider,omitempty"`
	ProviderType string `json:"provider_type,omitempty"`
	Archived     bool   `json:"archived,omitempty"`
}

// CreateTaskRequest is the payload for creating a task. The server assigns
// the identifier and the position within the target column.
type CreateTaskRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status" validate:"required,oneof=todo scheduled booked complete"`
	Priority     string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID   string `json:"assignee_id,omitempty"`
	DueDate      int64  `json:"due_date,omitempty"`
	Provider     string `json:"provider,omitempty"`
	ProviderType string `json:"provider_type,omitempty"`
}

// UpdateTaskRequest is a partial update; nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	DueDate     *int64  `json:"due_date,omitempty"`
	Provider    *string `json:"provider,omitempty"`
}

// MoveTaskRequest changes a task's column and, optionally, its position
// within that column.
type MoveTaskRequest struct {
	Status   string `json:"status"`
	Position *int   `json:"position,omitempty"`
}

// ReorderPair assigns one task a new position inside its current column.
type ReorderPair struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// StatusCount is one row of the per-status count report.
type StatusCount struct {
	Status string `json:"task_status"`
	Count  int    `json:"count"`
}
