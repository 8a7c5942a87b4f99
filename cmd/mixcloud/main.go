package main

import (
	"os"

	"github.com/jaki95/mixcloud/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
