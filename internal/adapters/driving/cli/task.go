package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

var (
	taskSubject     string
	taskDescription string
	taskPriority    string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Delegated CRM task commands",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a CRM task on a user's behalf",
	Long: `Creates a task in the user's linked CRM, subject to the CRM's own
role configuration. The user must have a personal access grant stored
(see "crmbridge grant set") and a linked, synchronized CRM account.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskCreate,
}

func init() {
	taskCreateCmd.Flags().StringVarP(&taskSubject, "subject", "s", "", "platform user id (required)")
	taskCreateCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "task description")
	taskCreateCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "task priority (default Medium)")
	_ = taskCreateCmd.MarkFlagRequired("subject")

	taskCmd.AddCommand(taskCreateCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	task := domain.Task{
		Name:        args[0],
		Description: taskDescription,
		Priority:    taskPriority,
	}

	err := taskService.Create(context.Background(), taskSubject, task)
	switch {
	case err == nil:
		cmd.Printf("Task %q created.\n", task.Name)
		return nil
	case errors.Is(err, domain.ErrNoGrant):
		return fmt.Errorf("no access grant stored for %s - run \"crmbridge grant set --subject %s\" first", taskSubject, taskSubject)
	case errors.Is(err, domain.ErrNotLinked):
		return fmt.Errorf("user %s has no linked CRM account", taskSubject)
	case errors.Is(err, domain.ErrNotSynced):
		return fmt.Errorf("credential for %s is still synchronizing, try again shortly", taskSubject)
	default:
		return fmt.Errorf("task create failed: %w", err)
	}
}
