package viewmodel

import (
	"strings"
	"time"

	"github.com/hubhiv/taskboard/domain"
)

// Maintenance view statuses derived from the remote status and due date.
const (
	MaintenanceUpcoming  = "upcoming"
	MaintenanceOverdue   = "overdue"
	MaintenanceOnTrack   = "on-track"
	MaintenanceCompleted = "completed"
)

// defaultFrequency is a placeholder; the remote record carries no cadence.
const defaultFrequency = "Quarterly"

// MaintenanceTask is the home-maintenance list projection of a remote record.
type MaintenanceTask struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	System    string `json:"system"`
	Frequency string `json:"frequency"`
	LastDone  string `json:"lastDone"`
	NextDue   string `json:"nextDue"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	Provider  string `json:"provider,omitempty"`
}

// ToMaintenanceTask projects a remote record onto the maintenance shape.
// now anchors the overdue/upcoming split for open tasks.
func ToMaintenanceTask(t domain.Task, now time.Time) MaintenanceTask {
	return MaintenanceTask{
		ID:        t.ID,
		Name:      t.Title,
		System:    ProviderToSystem(t.Provider, t.ProviderType),
		Frequency: defaultFrequency,
		LastDone:  FormatDate(t.CreatedAt),
		NextDue:   FormatDate(t.DueDate),
		Status:    maintenanceStatus(t.Status, t.DueDate, now),
		Priority:  t.Priority,
		Provider:  t.Provider,
	}
}

// ProviderToSystem derives the display system from the enumerated provider,
// falling back to the free-form provider_type. Unknown non-empty values pass
// through untouched; "General" is returned only when both inputs are absent.
func ProviderToSystem(provider, providerType string) string {
	raw := provider
	if raw == "" {
		raw = providerType
	}
	if raw == "" {
		return "General"
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hvac":
		return "HVAC"
	case "plumbing":
		return "Plumbing"
	case "electrical":
		return "Electrical"
	case "exterior", "painting":
		return "Exterior"
	}
	return raw
}

// SystemToProvider is the inverse lookup used when writing back. Anything
// unrecognized defaults to HVAC, so system -> provider -> system is not a
// round trip for passthrough values.
func SystemToProvider(system string) string {
	switch strings.ToLower(strings.TrimSpace(system)) {
	case "plumbing":
		return domain.ProviderPlumbing
	case "electrical":
		return domain.ProviderElectrical
	case "exterior", "painting":
		return domain.ProviderPainting
	default:
		return domain.ProviderHVAC
	}
}

func maintenanceStatus(status string, dueMillis int64, now time.Time) string {
	switch status {
	case domain.StatusComplete:
		return MaintenanceCompleted
	case domain.StatusBooked:
		return MaintenanceOnTrack
	case domain.StatusTodo, domain.StatusScheduled:
		if dueMillis != 0 && time.UnixMilli(dueMillis).Before(now) {
			return MaintenanceOverdue
		}
		return MaintenanceUpcoming
	}
	// Unknown remote statuses fall back silently rather than erroring.
	return MaintenanceUpcoming
}

// MaintenanceStatusToRemote is the inverse status table for writes. It does
// not round-trip: overdue maps to todo, but todo may have been projected as
// either upcoming or overdue depending on the due date.
func MaintenanceStatusToRemote(status string) string {
	switch status {
	case MaintenanceCompleted:
		return domain.StatusComplete
	case MaintenanceOnTrack:
		return domain.StatusBooked
	case MaintenanceUpcoming:
		return domain.StatusScheduled
	case MaintenanceOverdue:
		return domain.StatusTodo
	default:
		return domain.StatusTodo
	}
}

// MaintenanceDraft is what the maintenance view collects when creating a
// task; ToCreateRequest translates it into the remote write payload.
type MaintenanceDraft struct {
	Name     string
	System   string
	Status   string
	Priority string
	DueDate  int64
}

// ToCreateRequest maps a maintenance draft onto the remote create payload.
func (d MaintenanceDraft) ToCreateRequest() domain.CreateTaskRequest {
	return domain.CreateTaskRequest{
		Title:    d.Name,
		Status:   MaintenanceStatusToRemote(d.Status),
		Priority: d.Priority,
		DueDate:  d.DueDate,
		Provider: SystemToProvider(d.System),
	}
}
