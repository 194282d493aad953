package stub

import (
	"context"

	"github.com/hubhiv/taskboard/domain"
)

// Seed loads a small set of home-maintenance tasks for a user so a fresh
// stub has something to serve.
func Seed(ctx context.Context, st *Storage, userID string) error {
	reqs := []domain.CreateTaskRequest{
		{Title: "Flush water heater", Status: domain.StatusTodo, Priority: domain.PriorityMedium, Provider: domain.ProviderPlumbing},
		{Title: "Replace furnace filter", Status: domain.StatusScheduled, Priority: domain.PriorityHigh, Provider: domain.ProviderHVAC},
		{Title: "Touch up exterior trim", Status: domain.StatusBooked, Priority: domain.PriorityLow, Provider: domain.ProviderPainting},
		{Title: "Test GFCI outlets", Status: domain.StatusComplete, Priority: domain.PriorityMedium, Provider: domain.ProviderElectrical},
		{Title: "Clean gutters", Status: domain.StatusTodo, Priority: domain.PriorityUrgent, ProviderType: "exterior"},
	}
	for _, req := range reqs {
		if _, err := st.CreateTask(ctx, userID, req); err != nil {
			return err
		}
	}
	return nil
}
