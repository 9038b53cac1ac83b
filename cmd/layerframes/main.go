package main

import (
	"os"

	"github.com/ddvk/layerframes/internal/cli"
	"github.com/ddvk/layerframes/internal/logging"
	log "github.com/sirupsen/logrus"
)

func main() {
	logging.Setup(os.Stderr, false)
	err := cli.RootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
