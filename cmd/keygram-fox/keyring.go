package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const keyringService = "keygram"

// resolveToken returns the configured credential, or the one stored in the
// OS keyring under the transport name.
func resolveToken(cmd *cobra.Command, transport string) (string, error) {
	if token := strings.TrimSpace(flagOrViperString(cmd, "token", "token")); token != "" {
		return token, nil
	}
	token, err := keyring.Get(keyringService, transport)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("no token: pass --token, set %s_TOKEN or run `keygram-fox keyring set %s`", envPrefix, transport)
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return token, nil
}

func newKeyringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage bot credentials in the OS keyring",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <transport> <token>",
		Short: "Store a credential",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keyring.Set(keyringService, args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored %s token\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <transport>",
		Short: "Remove a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return keyring.Delete(keyringService, args[0])
		},
	})

	return cmd
}
