package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voteRelay/internal/clarity"
)

func runDecode(cmd *cobra.Command, args []string) error {
	asCount, _ := cmd.Flags().GetBool("count")
	out := cmd.OutOrStdout()

	for _, arg := range args {
		if asCount {
			n, err := clarity.DecodeCount(arg)
			if err != nil {
				return fmt.Errorf("decode %s: %w", arg, err)
			}
			fmt.Fprintln(out, n)
			continue
		}

		v, err := clarity.DecodeHex(arg)
		if err != nil {
			return fmt.Errorf("decode %s: %w", arg, err)
		}
		fmt.Fprintln(out, v.String())
	}
	return nil
}
