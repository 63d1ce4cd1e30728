package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCheckCmd = &cobra.Command{
	Use:   "config-check",
	Short: "Validate the configuration and print a summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, e.cfg.String())
		fmt.Fprintf(out, "graphql: %s\nrest: %s\nfetch size: %d\n",
			e.cfg.Upstream.GraphQLURL, e.cfg.Upstream.RESTURL, e.cfg.Upstream.FetchSize)
		fmt.Fprintln(out, "configuration OK")

		return nil
	},
}
