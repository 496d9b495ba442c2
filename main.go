package main

import (
	"os"

	"github.com/alantheprice/outreach/cmd"
	"github.com/alantheprice/outreach/pkg/utils"
)

func main() {
	logger := utils.GetLogger()
	defer func() {
		if err := logger.Close(); err != nil {
			// The logger itself may be the problem, so report on stderr
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.Logf("Application error: %v", err)
		logger.Close()
		os.Exit(1)
	}
}
