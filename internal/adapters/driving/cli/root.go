// Package cli implements the command-line interface for crmbridge.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/crmbridge/internal/adapters/driven/auth"
	"github.com/custodia-labs/crmbridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/crmbridge/internal/adapters/driven/crm"
	"github.com/custodia-labs/crmbridge/internal/adapters/driven/identity"
	mongostore "github.com/custodia-labs/crmbridge/internal/adapters/driven/storage/mongo"
	"github.com/custodia-labs/crmbridge/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driving"
	"github.com/custodia-labs/crmbridge/internal/core/services"
	"github.com/custodia-labs/crmbridge/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// verbose enables debug logging.
var verbose bool

// Services wired by initServices. Commands nil-check the ones they need so
// a partially configured environment still runs the commands it can.
var (
	configStore       *file.ConfigStore
	metaStore         *sqlite.Store
	grantService      driving.GrantService
	taskService       driving.TaskService
	credentialService driving.CredentialService
)

var rootCmd = &cobra.Command{
	Use:   "crmbridge",
	Short: "Bridge between a chat platform's identity store and CRM OAuth credentials",
	Long: `crmbridge keeps delegated CRM OAuth credentials in sync with a chat
platform's identity store and performs delegated CRM actions.

It watches the identity store for credential changes, maintains the
fast-access lookup copy, refreshes expired tokens against the remote CRM,
and creates CRM tasks on a user's behalf guarded by the CRM's role model.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initServices wires the local services. The identity database is dialled
// separately by the commands that need it.
func initServices() error {
	var err error
	configStore, err = file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	metaStore, err = sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising metadata store: %w", err)
	}

	grants := metaStore.GrantStore()
	grantService = services.NewGrantService(grants)

	platformURL := configStore.GetString("platform.url")
	if platformURL == "" {
		platformURL = "http://127.0.0.1:3000/api/v1"
	}

	source := identity.NewClient(platformURL)
	crmClient := crm.NewClient()
	taskService = services.NewTaskService(grants, auth.NewProviderFactory(source, crmClient), crmClient)

	return nil
}

// connectIdentity dials the identity database per the configured connection
// profile and wires the store-backed credential service. Returns the
// identity store adapters plus a disconnect function.
func connectIdentity(ctx context.Context) (*mongostore.IdentityStore, *mongostore.ChangeSource, func(), error) {
	if configStore == nil {
		return nil, nil, nil, fmt.Errorf("config store not configured")
	}

	desc, err := configStore.Connection().Resolve()
	if err != nil {
		return nil, nil, nil, err
	}

	client, store, err := mongostore.Connect(ctx, desc)
	if err != nil {
		return nil, nil, nil, err
	}

	credentialService = services.NewCredentialService(store)
	changeSource := mongostore.NewChangeSource(client.Database(desc.Database))
	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("disconnecting identity database: %v", err)
		}
	}
	return store, changeSource, disconnect, nil
}

// Execute runs the root command.
func Execute() {
	if err := initServices(); err != nil {
		logger.Warn("service initialisation: %v", err)
	}
	defer func() {
		if metaStore != nil {
			if err := metaStore.Close(); err != nil {
				logger.Warn("closing metadata store: %v", err)
			}
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
