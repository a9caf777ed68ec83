package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wdm0006/intakegate/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Rules prints the effective rule set as YAML",
	Example: `
	intakegate rules
	intakegate rules --rules rules.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := rules.Load(viper.GetString("rules"))
		if err != nil {
			return err
		}
		b, err := r.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}
