package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valen-cli/valen/internal/config"
	"github.com/valen-cli/valen/internal/messages"
	"github.com/valen-cli/valen/internal/prompt"
)

func newKeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.KeysUse,
		Short: messages.KeysShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			var names []string
			byName := make(map[string]config.ProviderConfig)
			for _, p := range s.cfg.Providers {
				if !p.IsEnabled() || p.CredentialEnv == "" {
					continue
				}
				names = append(names, p.Name)
				byName[p.Name] = p
			}
			if len(names) == 0 {
				return fmt.Errorf(messages.KeysNoProviders)
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			} else {
				name, err = prompt.Choose(s.ui, messages.KeysSelectProvider, names)
				if err != nil {
					return err
				}
			}
			provider, ok := byName[name]
			if !ok {
				return fmt.Errorf(messages.KeysUnknownProviderFmt, name, strings.Join(names, ", "))
			}

			var value string
			if err := s.ui.SecretInput(fmt.Sprintf(messages.KeysSecretTitleFmt, provider.Name, provider.CredentialEnv), &value); err != nil {
				return err
			}
			value = strings.TrimSpace(value)
			if value == "" {
				return fmt.Errorf(messages.KeysEmptyValue)
			}
			if err := config.SaveCredential(s.paths.EnvPath, provider.CredentialEnv, value); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(s.out, messages.KeysSavedFmt, provider.CredentialEnv, s.paths.EnvPath)
			return nil
		},
	}
}
