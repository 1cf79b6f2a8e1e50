package cmd

import (
	"bufio"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/docrepo/internal/cmd/commands/server"
	verscmd "github.com/hashicorp-forge/docrepo/internal/cmd/commands/version"
	"github.com/hashicorp-forge/docrepo/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name: cliName,
	})

	if len(args) == 2 &&
		(args[1] == "-version" || args[1] == "-v") {
		args = []string{cliName, "version"}
	}

	// Default to 'server' when no subcommand is provided.
	if len(args) == 1 {
		args = append(args, "server")
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := &cli.CLI{
		Name:    cliName,
		Args:    args[1:],
		Version: version.Version,
		Commands: map[string]cli.CommandFactory{
			"server": func() (cli.Command, error) {
				return &server.Command{UI: ui, Log: log}, nil
			},
			"version": func() (cli.Command, error) {
				return &verscmd.Command{UI: ui}, nil
			},
		},
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}
