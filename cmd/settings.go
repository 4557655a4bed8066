package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/cedolino/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the contract settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting, e.g. travel.policy hourly or contract.daily_rate 112.40",
	Long: `Change one setting by its dotted YAML path, for example:

  cedolino settings set travel.policy multi_shift_optimized
  cedolino settings set contract.overtime.night_after_22 1.35
  cedolino settings set standby.saturday_as_rest true
  cedolino settings set holidays 2025-04-21,2025-06-29

The file is validated before it is written; an invalid value changes nothing.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.settings.Load()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n%s", a.settings.Path(), data)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	key, value := args[0], args[1]
	if _, err := a.settings.Update(func(s *settings.Settings) error {
		return setPath(s, key, value)
	}); err != nil {
		return err
	}
	a.log.Info("setting changed", zap.String("key", key), zap.String("value", value))
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

// setPath assigns value to the dotted YAML key of s. The value is decoded
// as YAML, so it reaches each field through the field's own unmarshalling;
// list keys take comma-separated values.
func setPath(s *settings.Settings, key, value string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}

	parts := strings.Split(key, ".")
	node := tree
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			return fmt.Errorf("unknown setting %q", key)
		}
		node = child
	}
	last := parts[len(parts)-1]
	current, ok := node[last]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	switch current.(type) {
	case map[string]any:
		return fmt.Errorf("%q is a section; set one of its keys", key)
	case []any:
		var items []any
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				items = append(items, v)
			}
		}
		node[last] = items
	default:
		var v any
		if err := yaml.Unmarshal([]byte(value), &v); err != nil {
			return fmt.Errorf("invalid value %q: %w", value, err)
		}
		node[last] = v
	}

	data, err = yaml.Marshal(tree)
	if err != nil {
		return err
	}
	var next settings.Settings
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*s = next
	return nil
}
