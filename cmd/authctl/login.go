package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"time"

	_ "github.com/lib/pq"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/handler"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/hashing"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/repository"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/services"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/logging"
)

const defaultLoginTimeout = 10 * time.Second

// storeOpener builds the credential store for a validated config.
type storeOpener func(cfg *config.Config) (ports.CredentialStore, io.Closer, error)

func defaultStoreOpener(cfg *config.Config) (ports.CredentialStore, io.Closer, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, oops.Code("DB_CONNECT_FAILED").With("operation", "open database").Wrap(err)
	}
	db.SetMaxOpenConns(1)
	return repository.NewSQLRepository(db, cfg.DBQueryTimeout), db, nil
}

type loginOptions struct {
	role     string
	id       string
	password string
	year     string
	timeout  time.Duration
}

// NewLoginCmd creates the login subcommand.
func NewLoginCmd(open storeOpener) *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate a student or teacher against the database",
		Long: `Runs one authentication attempt and prints the same JSON body the HTTP
API returns. Exits 1 when access is denied and 2 when the credential store
is unavailable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, opts, open)
		},
	}

	cmd.Flags().StringVar(&opts.role, "role", "", "principal role: student or teacher")
	cmd.Flags().StringVar(&opts.id, "id", "", "student or teacher id")
	cmd.Flags().StringVar(&opts.password, "password", "", "plaintext password")
	cmd.Flags().StringVar(&opts.year, "year", "", "academic year (students only)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultLoginTimeout, "timeout for the attempt (e.g., 10s)")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *loginOptions, open storeOpener) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	scheme, err := hashing.ParseScheme(cfg.HashScheme)
	if err != nil {
		return err
	}
	hasher, err := hashing.NewSchemeHasher(scheme)
	if err != nil {
		return err
	}

	store, closer, err := open(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger := logging.New("authctl", version, cfg.LogLevel, cmd.ErrOrStderr())
	svc := services.NewAuthService(store, hasher, logger)

	ctx, cancel := contextWithTimeout(cmd, opts.timeout)
	defer cancel()

	outcome, err := svc.Authenticate(ctx, domain.Credentials{
		Role:     opts.role,
		UserID:   opts.id,
		Password: opts.password,
		Year:     opts.year,
	})

	resp, code := loginResponse(outcome, err)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(resp); encErr != nil {
		return oops.Code("OUTPUT_FAILED").Wrap(encErr)
	}

	switch code {
	case exitUnavailable:
		return &exitError{code: code, err: err}
	case exitDenied:
		return &exitError{code: code, err: errors.New("access denied")}
	}
	return nil
}

func loginResponse(outcome domain.Outcome, err error) (handler.LoginResponse, int) {
	if err != nil {
		return handler.LoginResponse{Message: handler.MessageUnavailable}, exitUnavailable
	}
	if !outcome.Granted() {
		return handler.LoginResponse{Message: handler.MessageInvalidCredentials}, exitDenied
	}
	return handler.LoginResponse{
		Success: true,
		Message: handler.MessageLoginSuccessful,
		Teacher: outcome.Teacher,
	}, 0
}

// contextWithTimeout derives from the command context so SIGINT cancels
// in-flight work.
func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}
