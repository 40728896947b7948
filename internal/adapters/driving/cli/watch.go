package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/crmbridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/crmbridge/internal/core/services"
	"github.com/custodia-labs/crmbridge/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the identity store and reconcile credential lookups",
	Long: `Connects to the identity database's change feed and keeps the
fast-access lookup copy of each user's delegated CRM credential up to date.

Runs until interrupted. The connection target comes from the [connection]
table of the config file; the file is watched and hot-reloaded, though a
changed connection target takes effect on the next start.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, changes, disconnect, err := connectIdentity(ctx)
	if err != nil {
		return fmt.Errorf("connecting to identity store: %w", err)
	}
	defer disconnect()

	watcher, err := file.NewWatcher(configStore, nil)
	if err != nil {
		logger.Warn("config watch unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	cmd.Println("Watching identity store for credential changes. Ctrl+C to stop.")

	err = services.NewReconciler(changes, store).Run(ctx)
	if errors.Is(err, context.Canceled) {
		cmd.Println("Stopped.")
		return nil
	}
	return err
}
