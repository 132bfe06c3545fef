package main

import (
	"errors"

	"github.com/aretw0/vantage/internal/cli"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Import a scene file into the Redis recording store",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Scene == nil {
			return errors.New("record needs --scene")
		}
		if err := env.Record(cmd.Context(), env.Scene); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Recorded %d entries from %s", len(env.Scene.Entries), env.Config.Scene)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
}
