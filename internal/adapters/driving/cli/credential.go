package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

var credentialSubject string

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Inspect delegated CRM credentials",
}

var credentialShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the lookup copy of a user's CRM credential",
	RunE:  runCredentialShow,
}

func init() {
	credentialShowCmd.Flags().StringVarP(&credentialSubject, "subject", "s", "", "platform user id (required)")
	_ = credentialShowCmd.MarkFlagRequired("subject")

	credentialCmd.AddCommand(credentialShowCmd)
	rootCmd.AddCommand(credentialCmd)
}

func runCredentialShow(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, _, disconnect, err := connectIdentity(ctx)
	if err != nil {
		return fmt.Errorf("connecting to identity store: %w", err)
	}
	defer disconnect()

	lookup, err := credentialService.Lookup(ctx, credentialSubject)
	switch {
	case err == nil:
		expiry := time.UnixMilli(lookup.ExpiresAt)
		state := "valid"
		if time.Now().After(expiry) {
			state = "expired"
		}
		cmd.Printf("Service ID:   %s\n", lookup.ServiceID)
		cmd.Printf("Access token: %s\n", maskToken(lookup.AccessToken))
		cmd.Printf("Expires:      %s (%s)\n", expiry.Format("2006-01-02 15:04:05"), state)
		return nil
	case errors.Is(err, domain.ErrNotSynced):
		cmd.Println("CRM account linked; credential is still synchronizing.")
		return nil
	case errors.Is(err, domain.ErrNotLinked):
		cmd.Println("No linked CRM account.")
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("unknown user %s", credentialSubject)
	default:
		return fmt.Errorf("credential lookup failed: %w", err)
	}
}
