// main is the entry point for the alloctrack CLI.
package main

import (
	"github.com/dannybechar/allocation-tracker/cmd"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/internal/iostore"
)

func main() {
	defer iostore.CloseStores()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
