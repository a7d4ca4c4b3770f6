package version

import (
	"github.com/mitchellh/cli"

	"github.com/realforge/kvcore-go/internal/version"
)

type Command struct {
	UI cli.Ui
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: kvcore-proxy version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
