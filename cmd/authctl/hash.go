package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/hashing"
)

// NewHashCmd creates the hash subcommand.
func NewHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [plaintext]",
		Short: "Print the digest of a password",
		Long: `Prints the digest of a password in the configured hash scheme, for seeding
the students and teachers tables. The password is read from stdin when no
argument is given, so it stays out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHash,
	}
}

func runHash(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	scheme, err := hashing.ParseScheme(cfg.HashScheme)
	if err != nil {
		return err
	}
	hasher, err := hashing.NewSchemeHasher(scheme)
	if err != nil {
		return err
	}

	var plaintext string
	if len(args) == 1 {
		plaintext = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return oops.Code("HASH_INPUT_MISSING").Errorf("no password given on stdin")
		}
		plaintext = strings.TrimRight(line, "\r\n")
	}

	digest, err := hasher.Hash(plaintext)
	if err != nil {
		return oops.Code("HASH_FAILED").With("scheme", scheme).Wrap(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), digest)
	return nil
}
