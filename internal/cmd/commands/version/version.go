package version

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/docrepo/internal/version"
)

type Command struct {
	UI cli.Ui
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: docrepo version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
