package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type globalOptions struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	Prompt     string
}

type commandDeps struct {
	out     io.Writer
	globals *globalOptions

	// confirm asks a yes/no question before destructive commands.
	confirm func(title, description string) (bool, error)
	// workdir is where .tudu lookups start.
	workdir func() (string, error)
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	return newRootCommand(&commandDeps{
		out:     out,
		confirm: huhConfirm,
		workdir: os.Getwd,
	}, build)
}

func newRootCommand(deps *commandDeps, build BuildInfo) *cobra.Command {
	globals := &globalOptions{}
	deps.globals = globals

	cmd := &cobra.Command{
		Use:   "tudu",
		Short: "Track todos grouped into projects from the command line",
		Long: "tudu keeps projects and their todos in a local SQLite database.\n" +
			"Pin a default project for a directory with `tudu pin`.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if globals.Prompt != "" {
				return errors.New("the --prompt assistant is not available in this build")
			}
			return nil
		},
	}
	cmd.SetOut(deps.out)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&globals.ConfigPath, "config", "", "Config file (default ~/.config/tudu/config.yaml)")
	flags.StringVar(&globals.DBPath, "db", "", "SQLite database path (overrides config and TUDU_DATABASE_URL)")
	flags.StringVar(&globals.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&globals.Prompt, "prompt", "", "Describe a change in plain words (not available)")

	cmd.AddCommand(
		newMigrationsCommand(deps),
		newNewCommand(deps),
		newListCommand(deps),
		newViewCommand(deps),
		newUpdateCommand(deps),
		newCloseCommand(deps),
		newDeleteCommand(deps),
		newPinCommand(deps),
		newConfigCommand(deps),
		newVersionCommand(deps.out, build),
	)
	return cmd
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(build)
			}

			_, err := fmt.Fprintf(out, "version=%s commit=%s build_time=%s\n", build.Version, build.Commit, build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}
