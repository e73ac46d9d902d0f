package main

import (
	"fmt"

	"github.com/harunnryd/pace/internal/apispec/formatter"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools [name]",
	Short: "List the tools exposed to the model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadedCfg, err := loadConfigForCommand(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		format, err := formatter.ParseOutputFormat(output)
		if err != nil {
			return err
		}
		f, err := formatter.New(format)
		if err != nil {
			return err
		}

		specs, _, err := buildToolRegistry(loadedCfg)
		if err != nil {
			return err
		}

		var out string
		if len(args) == 1 {
			spec, ok := specs.Get(args[0])
			if !ok {
				return fmt.Errorf("tool %s not found", args[0])
			}
			out, err = f.FormatSpec(&spec)
		} else {
			out, err = f.FormatSpecs(specs.Specs())
		}
		if err != nil {
			return fmt.Errorf("failed to format tools: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	toolsCmd.Flags().StringP("output", "o", string(formatter.OutputFormatTable), "output format (table, json, yaml)")
	rootCmd.AddCommand(toolsCmd)
}
