package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mercator-hq/relay/pkg/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file, apply defaults and RELAY_* environment
overrides, validate the result and print the effective settings.

A missing configuration file is not an error; the defaults are printed.

Examples:
  relay validate
  relay validate --config /etc/relay/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "# configuration valid")
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
