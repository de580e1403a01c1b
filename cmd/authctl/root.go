package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
)

// Exit codes for login outcomes.
const (
	exitDenied      = 1
	exitUnavailable = 2
)

// exitError carries a process exit code for an outcome that has already
// been reported on stdout.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return 1
}

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for authctl.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultStoreOpener)
}

func newRootCmd(open storeOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authctl",
		Short: "Campus identity service tooling",
		Long: `authctl hashes passwords for seeding the credential tables and runs
logins against the configured database without going through HTTP.

Settings come from the environment, then the --config YAML file, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (YAML)")
	flags.String("database-url", "", "PostgreSQL connection string (overrides DB_CONNECTION_STRING)")
	flags.String("hash-scheme", "", "password hash scheme: sha256, argon2id or bcrypt")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(NewHashCmd())
	cmd.AddCommand(NewLoginCmd(open))

	return cmd
}

// loadConfig resolves settings for a subcommand.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadLayered(configFile, cmd.Flags())
}
