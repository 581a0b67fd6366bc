package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/opd-ai/argon2"
	"github.com/opd-ai/argon2/monitor"
	"github.com/spf13/cobra"
)

type benchFlags struct {
	minLog  uint32
	maxLog  uint32
	threads []int
	passes  uint32
	json    bool
}

func newBenchCmd() *cobra.Command {
	var f benchFlags

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark Argon2d and Argon2i over a grid of memory and thread counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.minLog == 0 || f.maxLog > 31 || f.minLog > f.maxLog {
				return fmt.Errorf("bad memory range 2^%d..2^%d KiB", f.minLog, f.maxLog)
			}
			return runBench(cmd, f)
		},
	}
	cmd.Flags().Uint32Var(&f.minLog, "min-log", 10, "Smallest memory cost as 2^N KiB")
	cmd.Flags().Uint32Var(&f.maxLog, "max-log", 16, "Largest memory cost as 2^N KiB")
	cmd.Flags().IntSliceVar(&f.threads, "threads", []int{1, 2, 4, 6, 8, 16}, "Lane and thread counts to try")
	cmd.Flags().Uint32VarP(&f.passes, "iterations", "t", 1, "Number of passes over memory")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the collected metrics as JSON afterwards")
	return cmd
}

func runBench(cmd *cobra.Command, f benchFlags) error {
	out := cmd.OutOrStdout()
	mon := monitor.New()
	password := bytes.Repeat([]byte{0}, 16)
	salt := bytes.Repeat([]byte{1}, 16)
	variants := []argon2.Variant{argon2.Argon2d, argon2.Argon2i}

	for logM := f.minLog; logM <= f.maxLog; logM++ {
		memory := uint32(1) << logM
		for _, n := range f.threads {
			if n < 1 || uint64(n)*8 > uint64(memory) {
				continue
			}
			for _, variant := range variants {
				c := &argon2.Context{
					Password:  password,
					Salt:      salt,
					KeyLength: 16,
					Memory:    memory,
					Time:      f.passes,
					Lanes:     uint32(n),
					Threads:   uint32(n),
					Variant:   variant,
					Version:   argon2.DefaultVersion,
				}
				start := mon.Start()
				_, err := argon2.HashRawContext(cmd.Context(), c)
				mon.RecordDerivation(c, start, err)
				if err != nil {
					return err
				}
				elapsed := time.Since(start)
				mib := float64(memory) / 1024
				fmt.Fprintf(out, "%s %d iterations  %d KiB %d threads:  %2.3f s  %2.2f ms/MiB\n",
					variant.Name(), f.passes, memory, n, elapsed.Seconds(),
					float64(elapsed.Microseconds())/1000/mib)
			}
		}
	}

	if !f.json {
		return nil
	}
	data, err := mon.Report().ExportJSON()
	if err != nil {
		return fmt.Errorf("export metrics: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
