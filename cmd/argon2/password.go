package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// maxPasswordLength bounds what is read from standard input.
const maxPasswordLength = 1 << 20

// readPassword reads the password from the command's input. A terminal is
// prompted without echo; otherwise input is read to EOF and one trailing
// newline is removed.
func readPassword(cmd *cobra.Command) ([]byte, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		pwd, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return pwd, nil
	}

	pwd, err := io.ReadAll(io.LimitReader(in, maxPasswordLength+1))
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if len(pwd) > maxPasswordLength {
		return nil, errors.New("provided password longer than supported")
	}
	pwd = bytes.TrimSuffix(pwd, []byte("\n"))
	if len(pwd) == 0 {
		return nil, errors.New("no password read")
	}
	return pwd, nil
}
