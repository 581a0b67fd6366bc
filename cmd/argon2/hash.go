package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/opd-ai/argon2"
	"github.com/opd-ai/argon2/core"
	"github.com/opd-ai/argon2/limits"
	"github.com/opd-ai/argon2/secmem"
	"github.com/spf13/cobra"
)

const (
	defaultTime    = 3
	defaultLogM    = 12
	defaultLanes   = 1
	defaultKeyLen  = 32
	defaultVersion = 13
)

// costFlags are the derivation parameters shared by hash and bench.
type costFlags struct {
	time      uint32
	logMemory uint32
	memoryKiB uint32
	lanes     uint32
	threads   uint32
	keyLength uint32
	variant   string
	argon2d   bool
	argon2id  bool
	version   uint32
}

func (f *costFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Uint32VarP(&f.time, "iterations", "t", defaultTime, "Number of passes over memory")
	flags.Uint32VarP(&f.logMemory, "memory-log", "m", defaultLogM, "Memory usage of 2^N KiB")
	flags.Uint32VarP(&f.memoryKiB, "memory", "k", 0, "Memory usage in KiB (overrides -m)")
	flags.Uint32VarP(&f.lanes, "parallelism", "p", defaultLanes, "Degree of parallelism (lanes)")
	flags.Uint32VarP(&f.threads, "threads", "n", 0, "Worker goroutines (default one per lane)")
	flags.Uint32VarP(&f.keyLength, "length", "l", defaultKeyLen, "Hash output length in bytes")
	flags.StringVar(&f.variant, "type", "i", "Argon2 variant: d, i or id")
	flags.BoolVarP(&f.argon2d, "argon2d", "d", false, "Use Argon2d (same as --type d)")
	flags.BoolVar(&f.argon2id, "id", false, "Use Argon2id (same as --type id)")
	flags.Uint32VarP(&f.version, "version", "v", defaultVersion, "Argon2 version: 10 or 13")
}

// memory returns the memory cost in KiB.
func (f *costFlags) memory() (uint32, error) {
	if f.memoryKiB != 0 {
		return f.memoryKiB, nil
	}
	if f.logMemory == 0 || f.logMemory > 32 {
		return 0, fmt.Errorf("bad numeric input for -m: %d", f.logMemory)
	}
	if f.logMemory == 32 {
		return limits.MaxMemory, nil
	}
	return 1 << f.logMemory, nil
}

func (f *costFlags) resolveVariant() (core.Variant, error) {
	if f.argon2d && f.argon2id {
		return 0, errors.New("cannot combine -d and --id")
	}
	switch {
	case f.argon2d:
		return argon2.Argon2d, nil
	case f.argon2id:
		return argon2.Argon2id, nil
	}
	return core.ParseVariant(f.variant)
}

func (f *costFlags) resolveVersion() (core.Version, error) {
	switch f.version {
	case 10:
		return argon2.Version10, nil
	case 13:
		return argon2.Version13, nil
	}
	return 0, fmt.Errorf("%w: %d (use 10 or 13)", limits.ErrIncorrectVersion, f.version)
}

// context builds a Context from the flags for password and salt.
func (f *costFlags) context(password, salt []byte) (*argon2.Context, error) {
	memory, err := f.memory()
	if err != nil {
		return nil, err
	}
	variant, err := f.resolveVariant()
	if err != nil {
		return nil, err
	}
	version, err := f.resolveVersion()
	if err != nil {
		return nil, err
	}
	return &argon2.Context{
		Password:  password,
		Salt:      salt,
		KeyLength: f.keyLength,
		Memory:    memory,
		Time:      f.time,
		Lanes:     f.lanes,
		Threads:   f.threads,
		Variant:   variant,
		Version:   version,
	}, nil
}

func newHashCmd() *cobra.Command {
	var (
		costs       costFlags
		encodedOnly bool
		rawOnly     bool
	)

	cmd := &cobra.Command{
		Use:   "hash salt",
		Short: "Hash the password read from stdin",
		Long: `Hash the password read from standard input with the given salt (at
least 8 bytes) and print the parameters, the raw hash, the encoded hash, the
elapsed time and the result of verifying the encoded hash.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if encodedOnly && rawOnly {
				return errors.New("cannot provide both -e and -r")
			}
			c, err := costs.context(nil, []byte(args[0]))
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			defer secmem.ZeroBytes(password)
			c.Password = password

			return runHash(cmd, c, encodedOnly, rawOnly)
		},
	}
	costs.register(cmd)
	cmd.Flags().BoolVarP(&encodedOnly, "encoded", "e", false, "Output only the encoded hash")
	cmd.Flags().BoolVarP(&rawOnly, "raw", "r", false, "Output only the raw bytes of the hash in hex")
	return cmd
}

func runHash(cmd *cobra.Command, c *argon2.Context, encodedOnly, rawOnly bool) error {
	out := cmd.OutOrStdout()
	if !encodedOnly && !rawOnly {
		fmt.Fprintf(out, "Type:\t\t%s\n", c.Variant.Name())
		fmt.Fprintf(out, "Iterations:\t%d\n", c.Time)
		fmt.Fprintf(out, "Memory:\t\t%d KiB\n", c.Memory)
		fmt.Fprintf(out, "Parallelism:\t%d\n", c.Lanes)
	}

	start := time.Now()
	key, err := argon2.HashRawContext(cmd.Context(), c)
	if err != nil {
		return err
	}
	defer secmem.ZeroBytes(key)
	encoded, err := argon2.Encode(c, key)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if encodedOnly {
		fmt.Fprintln(out, encoded)
		return nil
	}
	if rawOnly {
		fmt.Fprintln(out, hex.EncodeToString(key))
		return nil
	}

	fmt.Fprintf(out, "Hash:\t\t%s\n", hex.EncodeToString(key))
	fmt.Fprintf(out, "Encoded:\t%s\n", encoded)
	fmt.Fprintf(out, "%2.3f seconds\n", elapsed.Seconds())

	ok, err := argon2.VerifyContext(cmd.Context(), encoded, c.Password, c.Secret)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("verification failed")
	}
	fmt.Fprintln(out, "Verification ok")
	return nil
}
