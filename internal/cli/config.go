package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/camai/camai/internal/config"
	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configInitForce  bool
	configInitGlobal bool
	configInitURL    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, show and edit the camai config",
	Long: `camai reads .camai.yaml from the current directory or a parent, then
~/.config/camai/config.yaml. Environment variables prefixed CAMAI_ override
any key (CAMAI_API_BASE_URL, CAMAI_DASHBOARD_POLL_INTERVAL, ...) and a .env
file in the working directory is loaded first.`,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a config file with the defaults",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInit(cmd)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Long:  `Print the config after defaults, the config file, .env and CAMAI_ variables are merged.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShow(cmd)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one key in the config file",
	Long: `Change one key in the config file, keeping comments and key order.
The change is rolled back if the result does not validate.

Examples:
  camai config set api.base_url http://10.0.0.5:5000
  camai config set dashboard.poll_interval 10s`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSet(cmd, args[0], args[1])
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write ~/.config/camai/config.yaml instead of ./.camai.yaml")
	configInitCmd.Flags().StringVar(&configInitURL, "url", "", "backend base URL to write")

	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// initTarget is where `config init` writes.
func initTarget() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	if !configInitGlobal {
		return config.ConfigFileName, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig, "Can't find your home directory", "Pass --config with the path to write")
	}
	return filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), nil
}

func configInit(cmd *cobra.Command) error {
	path, err := initTarget()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s already exists", path),
			"Pass --force to overwrite it, or edit it with 'camai config set'")
	}

	cfg := config.DefaultConfig()
	if configInitURL != "" {
		cfg.API.BaseURL = configInitURL
	} else if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Can't create "+filepath.Dir(path), "Check the directory permissions")
	}
	if err := config.Write(path, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Can't write "+path, "Check the directory permissions")
	}

	if machineMode {
		return WriteJSONSuccess(cmd.OutOrStdout(), map[string]string{"path": path})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), path)
	fmt.Fprintln(cmd.OutOrStdout(), ui.MutedStyle().Render("  Next: camai doctor"))
	return nil
}

// ConfigShowOutput is the --json form of `config show`.
type ConfigShowOutput struct {
	Path   string                 `json:"path,omitempty"`
	Config map[string]interface{} `json:"config"`
}

func configShow(cmd *cobra.Command) error {
	data, err := config.Marshal(current.cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if machineMode {
		var tree map[string]interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return err
		}
		return WriteJSONSuccess(out, ConfigShowOutput{Path: current.cfgPath, Config: tree})
	}

	source := current.cfgPath
	if source == "" {
		source = "defaults (no config file found)"
	}
	fmt.Fprintln(out, ui.MutedStyle().Render("# source: "+source))
	fmt.Fprint(out, string(data))
	return nil
}

func configSet(cmd *cobra.Command, key, value string) error {
	path, err := config.Find(cfgFile)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Config file not found",
			"Run 'camai config init' first")
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Can't read "+path, "Check the file permissions")
	}
	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't set %s", key),
			"Keys are dotted paths such as api.base_url; run 'camai config show' to list them")
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		_ = os.WriteFile(path, original, 0o644)
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("%s=%s is not valid; the file was left unchanged", key, value),
			"Run 'camai config show' for the current values")
	}

	if machineMode {
		return WriteJSONSuccess(cmd.OutOrStdout(), map[string]string{"path": path, "key": key, "value": value})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s in %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), key, value, path)
	return nil
}
