package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

var (
	grantSubject string
	grantToken   string
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Manage personal access grants",
	Long: `Personal access grants authenticate crmbridge's calls back into the
identity platform's API on a user's behalf. They are stored locally and
never refreshed automatically.`,
}

var grantSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a platform access token for a user",
	RunE:  runGrantSet,
}

var grantShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored grant for a user",
	RunE:  runGrantShow,
}

var grantResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the stored grant for a user",
	RunE:  runGrantReset,
}

func init() {
	for _, c := range []*cobra.Command{grantSetCmd, grantShowCmd, grantResetCmd} {
		c.Flags().StringVarP(&grantSubject, "subject", "s", "", "platform user id (required)")
		_ = c.MarkFlagRequired("subject")
	}
	grantSetCmd.Flags().StringVarP(&grantToken, "token", "t", "", "access token (prompted if omitted)")

	grantCmd.AddCommand(grantSetCmd)
	grantCmd.AddCommand(grantShowCmd)
	grantCmd.AddCommand(grantResetCmd)
	rootCmd.AddCommand(grantCmd)
}

func runGrantSet(cmd *cobra.Command, _ []string) error {
	if grantService == nil {
		return errors.New("grant service not configured")
	}

	token := grantToken
	if token == "" {
		var err error
		token, err = promptToken(cmd)
		if err != nil {
			return err
		}
	}

	grant, err := grantService.Set(context.Background(), grantSubject, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return errors.New("subject and token must be non-empty")
		}
		return fmt.Errorf("storing grant: %w", err)
	}

	cmd.Printf("Grant stored for %s (id %s).\n", grant.SubjectID, grant.ID)
	return nil
}

func runGrantShow(cmd *cobra.Command, _ []string) error {
	if grantService == nil {
		return errors.New("grant service not configured")
	}

	grant, err := grantService.Get(context.Background(), grantSubject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no grant stored for %s", grantSubject)
		}
		return fmt.Errorf("reading grant: %w", err)
	}

	cmd.Printf("Subject:  %s\n", grant.SubjectID)
	cmd.Printf("Grant ID: %s\n", grant.ID)
	cmd.Printf("Token:    %s\n", maskToken(grant.Token))
	cmd.Printf("Created:  %s\n", grant.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runGrantReset(cmd *cobra.Command, _ []string) error {
	if grantService == nil {
		return errors.New("grant service not configured")
	}

	if err := grantService.Reset(context.Background(), grantSubject); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no grant stored for %s", grantSubject)
		}
		return fmt.Errorf("removing grant: %w", err)
	}

	cmd.Printf("Grant removed for %s.\n", grantSubject)
	return nil
}

// promptToken reads the token without echo when attached to a terminal,
// falling back to a plain line read otherwise (pipes, tests).
func promptToken(cmd *cobra.Command) (string, error) {
	cmd.Print("Access token: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// maskToken keeps only a short prefix visible.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}
