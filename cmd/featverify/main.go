package main

import (
	"fmt"
	"os"

	"github.com/harrison/featverify/internal/cmd"
)

// version is set with -ldflags "-X main.version=..." for release builds
var version = ""

func main() {
	if version != "" {
		cmd.Version = version
	}
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
