package main

import (
	"errors"
	"fmt"

	"github.com/opd-ai/argon2"
	"github.com/opd-ai/argon2/secmem"
	"github.com/spf13/cobra"
)

// errMismatch is returned when the password does not match.
var errMismatch = errors.New("the password does not match the supplied hash")

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify encoded-hash",
		Short: "Verify the password read from stdin against an encoded hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := argon2.Decode(args[0]); err != nil {
				return err
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			defer secmem.ZeroBytes(password)

			ok, err := argon2.VerifyContext(cmd.Context(), args[0], password, nil)
			if err != nil {
				return err
			}
			if !ok {
				return errMismatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Verification ok")
			return nil
		},
	}
}
