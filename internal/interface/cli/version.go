package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/kindred/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := buildinfo.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "kindred %s\n", info.Version)
			if info.Commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  commit:   %s\n", info.Commit)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  go:       %s\n", info.GoVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "  platform: %s\n", info.Platform)
		},
	}
}
