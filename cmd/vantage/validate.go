package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/vantage/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the scene for consistency",
	Long:  `Crawls the scene from the root and reports entities that cannot be placed and properties that have no effect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Scene == nil {
			return errors.New("validate needs --scene")
		}
		if err := validator.ValidateScene(cmd.Context(), env.Scene); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Scene is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
