// ABOUTME: CLI commands for saved settings (API key, model, language, token budget)
// ABOUTME: Saved values override environment defaults on every command
package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/i18n"
	"github.com/harper/microdoser/internal/llm"
	"github.com/harper/microdoser/internal/storage/sqlite"
)

var settingKeys = []string{
	sqlite.SettingAPIKey,
	sqlite.SettingModel,
	sqlite.SettingLanguage,
	sqlite.SettingMaxTokens,
}

// NewSettingsCmd creates the settings command group
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Get and set saved settings",
		Long: `Saved settings override environment variables and .env values.

Keys:
  api_key     OpenRouter API key
  model       OpenRouter model id
  language    reply and label language: ru or en
  max_tokens  output token budget (clamped to 128..2000)

Examples:
  microdoser settings set api_key sk-or-...
  microdoser settings set language en
  microdoser settings list
  microdoser settings unset model`,
	}

	cmd.AddCommand(newSettingsGetCmd(), newSettingsSetCmd(), newSettingsUnsetCmd(), newSettingsListCmd())
	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one saved setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := validateSettingKey(key); err != nil {
				return err
			}

			a, err := openSettingsApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			value, err := a.store.Settings().Get(key, "")
			if err != nil {
				return fmt.Errorf("reading setting: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), displaySetting(key, value))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Save a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], strings.TrimSpace(args[1])
			normalized, err := normalizeSetting(key, value)
			if err != nil {
				return err
			}

			a, err := openSettingsApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Settings().Set(key, normalized); err != nil {
				return fmt.Errorf("saving setting: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s\n", key, displaySetting(key, normalized))
			}
			return nil
		},
	}
}

func newSettingsUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a saved setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := validateSettingKey(key); err != nil {
				return err
			}

			a, err := openSettingsApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Settings().Delete(key); err != nil {
				return fmt.Errorf("removing setting: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", key)
			}
			return nil
		},
	}
}

func newSettingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openSettingsApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			all, err := a.store.Settings().All()
			if err != nil {
				return fmt.Errorf("reading settings: %w", err)
			}

			saved := make(map[string]string)
			for _, key := range settingKeys {
				if v, ok := all[key]; ok {
					saved[key] = displaySetting(key, v)
				}
			}

			if jsonOutput() {
				data, err := json.MarshalIndent(saved, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
				return nil
			}

			if len(saved) == 0 {
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "No saved settings\n")
				}
				return nil
			}

			keys := make([]string, 0, len(saved))
			for k := range saved {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\n", k, saved[k])
			}
			_ = w.Flush()
			return nil
		},
	}
}

func validateSettingKey(key string) error {
	if !containsString(settingKeys, key) {
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(settingKeys, ", "))
	}
	return nil
}

// normalizeSetting validates value for key and returns the form to store
func normalizeSetting(key, value string) (string, error) {
	if err := validateSettingKey(key); err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("value for %s must not be empty (use settings unset)", key)
	}

	switch key {
	case sqlite.SettingLanguage:
		lang := strings.ToLower(value)
		if lang != i18n.Russian && lang != i18n.English {
			return "", fmt.Errorf("language must be ru or en, got %q", value)
		}
		return lang, nil
	case sqlite.SettingMaxTokens:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("max_tokens must be an integer, got %q", value)
		}
		return strconv.Itoa(llm.ClampMaxTokens(n)), nil
	}
	return value, nil
}

func displaySetting(key, value string) string {
	if key == sqlite.SettingAPIKey && value != "" {
		return maskSecret(value)
	}
	return value
}

// containsString checks if a slice contains a string
func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
