package main

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.WithError(err).Fatal("Dawini API failed to start")
	}

	// Blocks until SIGINT or SIGTERM, then drains the server and closes resources.
	app.Run()
}
