package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubhiv/taskboard/client"
	"github.com/hubhiv/taskboard/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and cache the bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := viper.GetString("email")
		password := viper.GetString("password")
		if email == "" || password == "" {
			return errors.New("set TASKBOARD_EMAIL and TASKBOARD_PASSWORD")
		}
		c := newClient()
		userID, err := c.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if err := os.WriteFile(tokenPath(), []byte(c.Session.Token()), 0o600); err != nil {
			return err
		}
		fmt.Printf("logged in as user %s\n", userID)
		return nil
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks <userID>",
	Short: "List tasks for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assignee, _ := cmd.Flags().GetString("assignee")
		tasks, err := newClient().ListTasks(cmd.Context(), args[0], client.ListOptions{AssigneeID: assignee})
		if err != nil {
			return err
		}
		return emit(tasks)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <taskID>",
	Short: "Fetch one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newClient().GetTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return emit(t)
	},
}

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		provider, _ := cmd.Flags().GetString("provider")
		t, err := newClient().CreateTask(cmd.Context(), domain.CreateTaskRequest{
			Title:    args[0],
			Status:   status,
			Priority: priority,
			Provider: provider,
		})
		if err != nil {
			var httpErr *client.HTTPError
			if errors.As(err, &httpErr) && httpErr.Status == 422 {
				fmt.Fprintf(os.Stderr, "validation failed: %v\n", httpErr.FieldErrors)
			}
			return err
		}
		return emit(t)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <taskID> <status>",
	Short: "Move a task to another column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newClient().MoveTask(cmd.Context(), args[0], domain.MoveTaskRequest{Status: args[1]})
		if err != nil {
			return err
		}
		return emit(t)
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate <taskID> <rating>",
	Short: "Rate a task (0-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("rating must be an integer: %w", err)
		}
		// Guard here like the old scripts did; the server checks too.
		if rating < 0 || rating > 5 {
			return errors.New("rating must be between 0 and 5")
		}
		t, err := newClient().UpdateRating(cmd.Context(), args[0], rating)
		if err != nil {
			return err
		}
		return emit(t)
	},
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <id=pos> [id=pos...]",
	Short: "Bulk reorder tasks within their columns",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs := make([]domain.ReorderPair, 0, len(args))
		for _, arg := range args {
			id, posStr, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("bad pair %q, want id=pos", arg)
			}
			pos, err := strconv.Atoi(posStr)
			if err != nil {
				return fmt.Errorf("bad position in %q: %w", arg, err)
			}
			pairs = append(pairs, domain.ReorderPair{ID: id, Position: pos})
		}
		out, err := newClient().ReorderTasks(cmd.Context(), pairs)
		if err != nil {
			return err
		}
		return emit(out)
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <taskID>",
	Short: "Archive a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newClient().ArchiveTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return emit(t)
	},
}

var unarchiveCmd = &cobra.Command{
	Use:   "unarchive <taskID>",
	Short: "Unarchive a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newClient().UnarchiveTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return emit(t)
	},
}

var countsCmd = &cobra.Command{
	Use:   "counts <userID>",
	Short: "Per-status task counts for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := newClient().TaskCounts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return emit(counts)
	},
}

func init() {
	tasksCmd.Flags().String("assignee", "", "filter by assignee id")
	createCmd.Flags().String("status", "todo", "initial status")
	createCmd.Flags().String("priority", "", "priority")
	createCmd.Flags().String("provider", "", "service provider")

	rootCmd.AddCommand(loginCmd, tasksCmd, getCmd, createCmd, moveCmd,
		rateCmd, reorderCmd, archiveCmd, unarchiveCmd, countsCmd)
}
