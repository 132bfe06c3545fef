package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/vantage/internal/presentation/graph"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [reference]",
	Short: "Export the entity tree visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the entity tree, styled with what the reference can reach.`,
	Args:  cobra.MaximumNArgs(1),
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

		reference := "/"
		if len(args) > 0 {
			reference = args[0]
		}
		ref, query, err := parseQuery(cmd, env, reference)
		if err != nil {
			return err
		}

		root, ok := resolver.Tree().Subtree(domain.RootPath)
		if !ok {
			return errors.New("entity tree has no root")
		}
		cache, err := resolver.Resolve(cmd.Context(), ref, query)
		if err != nil {
			return err
		}

		kinds := func(p domain.EntityPath) (domain.TransformKind, bool) {
			return resolver.KindAt(p, query)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(root, kinds, graph.OverlayFromCache(cache)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("at", "", "Time or sequence number to query (default: latest)")
}
