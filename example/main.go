package main

import (
	"log"
	"os"

	workgraphManager "github.com/workgraphui/manager"
	"github.com/workgraphui/manager/helper"
)

// main is the entry point of the manager service. It parses the process
// settings, initializes the manager handler, sets up routes, and starts
// the Echo server.
func main() {
	settings, err := helper.LoadSettings(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	workgraphManager.ManagerServer(settings)
}
