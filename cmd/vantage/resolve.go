package main

import (
	"os"

	"github.com/aretw0/vantage/internal/cli"
	"github.com/aretw0/vantage/internal/dto"
	"github.com/spf13/cobra"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [reference...]",
	Short: "Resolve entity transforms relative to a reference entity",
	Long: `Builds the transform cache for each reference (default: the root) and prints
every reachable entity with its translation, plus the unreachable ones and why.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		resolver, err := env.NewResolver()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			args = []string{"/"}
		}
		tty := cli.IsTerminal(os.Stdout)
		for _, reference := range args {
			ref, query, err := parseQuery(cmd, env, reference)
			if err != nil {
				return err
			}
			cache, err := resolver.Resolve(cmd.Context(), ref, query)
			if err != nil {
				return err
			}
			if err := cli.WriteReport(os.Stdout, dto.NewCacheReport(cache, query), env.Config.Output, tty); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("at", "", "Time or sequence number to query (default: latest)")
	resolveCmd.Flags().StringP("output", "o", "", "Output format: text, json or markdown")
}
