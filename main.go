// main is the entry point for the locgraph CLI.
package main

import (
	"github.com/huangsam/locgraph/cmd"
	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("locgraph failed", err)
	}
}
