package main

import (
	"os"

	"github.com/nhle/tudu/internal/cli"
	"github.com/nhle/tudu/internal/version"
)

func main() {
	cmd := cli.NewRootCommand(os.Stdout, cli.BuildInfo{
		Version:   version.Version,
		Commit:    version.Commit,
		BuildTime: version.BuildTime,
	})
	if err := cmd.Execute(); err != nil {
		cli.RenderError(os.Stderr, err)
		os.Exit(cli.ExitCodeFor(err))
	}
}
