package main

import (
	"os"

	"github.com/Shobhakumari0502/VirtualClient/cmd/virtualclient/cmd"
	"github.com/Shobhakumari0502/VirtualClient/internal/common"
)

func main() {
	common.ConfigureLogging()
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
