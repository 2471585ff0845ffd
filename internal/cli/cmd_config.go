package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/tudu/internal/model"
)

func newConfigCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	cmd.AddCommand(
		newConfigInitCommand(deps),
		newConfigShowCommand(deps),
	)
	return cmd
}

func newConfigInitCommand(deps *commandDeps) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the effective settings",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := resolveConfig(deps.globals)
			if err != nil {
				return mapCommandError(err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return usageErrorf("config file %s already exists; pass --force to overwrite", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return mapCommandError(err)
			}
			if err := model.SaveConfig(path, cfg); err != nil {
				return mapCommandError(err)
			}
			_, err = fmt.Fprintf(deps.out, "wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func newConfigShowCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := resolveConfig(deps.globals)
			if err != nil {
				return mapCommandError(err)
			}
			fmt.Fprintf(deps.out, "# %s\n", path)
			enc := yaml.NewEncoder(deps.out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
