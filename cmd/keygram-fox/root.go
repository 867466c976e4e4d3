package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "KEYGRAM"

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "keygram-fox",
		Short:        "Fox picture bot",
		SilenceUsage: true,
		RunE:         runBot,
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	cmd.Flags().String("token", "", "Bot credential. Falls back to the OS keyring.")
	cmd.Flags().String("transport", "telegram", "Remote API: telegram or max.")
	cmd.Flags().Int64("bot-id", 0, "Bot id, required for credentials without an id prefix.")
	cmd.Flags().String("secret", "", "Callback signing secret. Defaults to the credential.")
	cmd.Flags().Int("sign-length", 4, "Signature length in characters.")
	cmd.Flags().String("digest", "sha256", "Signature digest: sha256 or sha3.")
	cmd.Flags().Int("poll-timeout", 30, "Long-poll timeout in seconds.")
	cmd.Flags().String("redis-url", "", "Persist the polling cursor in Redis (optional).")
	cmd.Flags().String("log-level", "info", "Log level.")
	cmd.Flags().Int64Slice("allow", nil, "Only answer these user ids (repeatable).")

	cmd.AddCommand(newKeyringCmd())

	return cmd
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	cfgFile := strings.TrimSpace(viper.GetString("config"))
	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
	}
}
