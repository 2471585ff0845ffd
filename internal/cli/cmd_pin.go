package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/model"
)

func newPinCommand(deps *commandDeps) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "pin <ID|NAME>",
		Short: "Pin a default project for the current directory",
		Long: "Pin a default project by writing PROJECT_ID to a .tudu file. Commands run in\n" +
			"that directory or below use it when no project is given.",
		Args: exactArgs(1, "a project ID or NAME"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				p, err := resolveProject(ctx, rt, args[0])
				if err != nil {
					return err
				}
				target := rt.workdir
				if strings.TrimSpace(dir) != "" {
					target = dir
				}
				path, err := model.WriteWorkspaceFile(target, p.ID)
				if err != nil {
					return err
				}
				rt.printer.Success("Pinned", "project #%d %s in %s", p.ID, p.Name, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to pin (default: current directory)")
	return cmd
}
