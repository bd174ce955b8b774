package main

import (
	"github.com/spf13/cobra"

	"github.com/valen-cli/valen/internal/config"
	"github.com/valen-cli/valen/internal/messages"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ConfigUse,
		Short: messages.ConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
