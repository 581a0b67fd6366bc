package main

import (
	"github.com/opd-ai/argon2/kat"
	"github.com/spf13/cobra"
)

func newKATCmd() *cobra.Command {
	var costs costFlags

	cmd := &cobra.Command{
		Use:   "kat",
		Short: "Write the known-answer log of the reference inputs",
		Long: `Derive the reference inputs (32-byte password of 0x01, 16-byte salt of
0x02, 8-byte secret of 0x03, 12 bytes of associated data of 0x04, 32 KiB,
three passes, four lanes, 32-byte tag) and write every intermediate value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := costs.resolveVariant()
			if err != nil {
				return err
			}
			version, err := costs.resolveVersion()
			if err != nil {
				return err
			}
			_, err = kat.Generate(cmd.Context(), cmd.OutOrStdout(), kat.ReferenceContext(variant, version))
			return err
		},
	}
	cmd.Flags().StringVar(&costs.variant, "type", "i", "Argon2 variant: d, i or id")
	cmd.Flags().BoolVarP(&costs.argon2d, "argon2d", "d", false, "Use Argon2d (same as --type d)")
	cmd.Flags().BoolVar(&costs.argon2id, "id", false, "Use Argon2id (same as --type id)")
	cmd.Flags().Uint32VarP(&costs.version, "version", "v", defaultVersion, "Argon2 version: 10 or 13")
	return cmd
}
