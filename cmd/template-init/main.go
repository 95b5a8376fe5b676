package main

import (
	"os"

	"github.com/seaguntech/template-init/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
