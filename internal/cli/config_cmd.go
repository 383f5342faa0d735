package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/maps"
	"github.com/spf13/cobra"

	"github.com/scribe-cli/scribe/internal/config"
	clierrors "github.com/scribe-cli/scribe/internal/errors"
	"github.com/scribe-cli/scribe/internal/git"
	"github.com/scribe-cli/scribe/internal/merge"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage scribe configuration",
	Long: `Manage scribe configuration.

Configuration is resolved with the following priority (highest to lowest):
  1. --set overrides on the command line
  2. Project config (.scribe/config)
  3. User config (e.g. ~/.config/scribe/config)
  4. Environment variables (SCRIBE_*)
  5. Built-in defaults

'config set' and 'config unset' edit the project config file, or the file
named by --config.`,
	Example: `  # Show the fully resolved configuration
  scribe config list

  # Read one value
  scribe config get api.model

  # Point this project at a hosted endpoint
  scribe config set api.url https://api.openai.com/v1/chat/completions`,
}

var configListCmd = &cobra.Command{
	Use:          "list",
	Short:        "Show the resolved configuration",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, _, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		showOrigins, _ := cmd.Flags().GetBool("origins")
		out := cmd.OutOrStdout()
		for _, key := range resolved.Keys() {
			if showOrigins {
				origin, _ := resolved.Origin(key)
				fmt.Fprintf(out, "%s=%s\t(%s)\n", key, resolved.Get(key), origin)
			} else {
				fmt.Fprintf(out, "%s=%s\n", key, resolved.Get(key))
			}
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:          "get <key>",
	Short:        "Read one configuration value",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, _, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		key := config.NormalizeKey(args[0])
		if !resolved.Has(key) {
			return clierrors.NewArgumentError(
				fmt.Sprintf("unknown configuration key %q", key),
				"Run 'scribe config list' to see all keys")
		}
		fmt.Fprintln(cmd.OutOrStdout(), resolved.Get(key))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:          "set <key> <value>",
	Short:        "Write a value to the project config file",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := config.NormalizeKey(args[0])
		if key == "" {
			return clierrors.NewArgumentError("configuration key must not be empty")
		}

		path := projectConfigTarget()
		if err := updateConfigFile(path, map[string]string{key: args[1]}, nil); err != nil {
			return clierrors.Wrap(err, clierrors.Configuration)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:          "unset <key>",
	Short:        "Remove a key from the project config file",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := config.NormalizeKey(args[0])

		path := projectConfigTarget()
		if err := updateConfigFile(path, nil, []string{key}); err != nil {
			return clierrors.Wrap(err, clierrors.Configuration)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unset %s in %s\n", key, path)
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd, configUnsetCmd)

	configListCmd.Flags().Bool("origins", false, "Show which source supplied each value")
}

// projectConfigTarget is the file edited by config set/unset: the --config
// flag when given, the project config otherwise.
func projectConfigTarget() string {
	if configFlag != "" {
		return configFlag
	}
	root, err := git.RepositoryRoot("")
	if err != nil {
		root = "."
	}
	return config.ProjectConfigPath(root)
}

// updateConfigFile applies sets and removals to a key=value config file,
// creating it when absent. The write is atomic.
func updateConfigFile(path string, set map[string]string, unset []string) error {
	parser := config.NewKVParser()

	nested := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		nested, err = parser.Unmarshal(data)
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	flat, _ := maps.Flatten(nested, nil, config.Delim)
	for key, value := range set {
		flat[key] = value
	}
	for _, key := range unset {
		delete(flat, key)
	}

	data, err := parser.Marshal(maps.Unflatten(flat, config.Delim))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return merge.WriteFileAtomic(path, data, 0o644)
}
