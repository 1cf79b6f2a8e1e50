package main

import (
	"os"

	"github.com/hashicorp-forge/docrepo/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
