package main

import (
	"os"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
