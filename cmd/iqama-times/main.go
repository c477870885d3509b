package main

import (
	"fmt"
	"os"

	// Embedded zone data so --timezone works on hosts without tzdata.
	_ "time/tzdata"

	"github.com/smokyabdulrahman/iqama-times/internal/cli"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
