package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/aretw0/vantage/internal/cli"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vantage",
	Short: "Vantage resolves scene transforms relative to a reference entity",
	Long: `Vantage walks an entity tree and places every entity it can reach in the
frame of a reference entity, explaining why the others cannot be placed.

Recordings come from a YAML scene file or from a Redis store.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := cli.NewSignalContext(context.Background())
	defer ctx.Cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if sig := ctx.Signal(); sig != nil {
			fmt.Fprintf(os.Stderr, "interrupted by %v\n", sig)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "vantage.yaml", "Config file (ignored when missing)")
	flags.String("scene", "", "Scene file to read")
	flags.String("timeline", "", "Timeline to query (defaults to the only one)")
	flags.String("redis", "", "Redis address of the recording store")
	flags.String("source", "", "Force the source: scene or redis")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
}

// setupEnv builds the CLI environment from persistent flags.
func setupEnv(cmd *cobra.Command) (*cli.Env, error) {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.ScenePath, _ = flags.GetString("scene")
	opts.Timeline, _ = flags.GetString("timeline")
	opts.RedisAddr, _ = flags.GetString("redis")
	opts.Source, _ = flags.GetString("source")
	opts.LogLevel, _ = flags.GetString("log-level")
	if flags.Lookup("output") != nil {
		opts.Output, _ = flags.GetString("output")
	}
	return cli.Setup(cmd.Context(), opts)
}

// parseQuery reads the reference argument and the --at flag.
func parseQuery(cmd *cobra.Command, env *cli.Env, reference string) (domain.EntityPath, domain.LatestAtQuery, error) {
	ref, err := domain.ParseEntityPath(reference)
	if err != nil {
		return "", domain.LatestAtQuery{}, err
	}
	timeline, err := env.Timeline("")
	if err != nil {
		return "", domain.LatestAtQuery{}, err
	}

	at, _ := cmd.Flags().GetString("at")
	if at == "" {
		return ref, domain.LatestAtEnd(timeline), nil
	}
	value, err := strconv.ParseInt(at, 10, 64)
	if err != nil {
		return "", domain.LatestAtQuery{}, fmt.Errorf("--at must be an integer: %w", err)
	}
	return ref, domain.NewLatestAtQuery(timeline, domain.TimeInt(value)), nil
}
