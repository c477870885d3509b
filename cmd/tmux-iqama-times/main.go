// Command tmux-iqama-times prints the next Athan or Iqama on one line for
// tmux status bars. It takes the same flags as `iqama-times next`.
package main

import (
	"fmt"
	"os"
	"strings"

	_ "time/tzdata"

	"github.com/smokyabdulrahman/iqama-times/internal/cli"
	"github.com/smokyabdulrahman/iqama-times/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	rootCmd.SetArgs(statusArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// statusArgs maps the command line onto the next subcommand. --version and
// --list-methods are kept for compatibility with older status bar configs.
func statusArgs(args []string) []string {
	for _, a := range args {
		switch a {
		case "--version", "-version":
			return []string{"--version"}
		case "--list-methods", "-list-methods":
			return []string{"methods"}
		}
	}

	out := []string{"next"}
	if !hasFlag(args, "format") {
		out = append(out, "--format", prayer.FormatNameAndTime)
	}
	return append(out, args...)
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		a = strings.TrimLeft(a, "-")
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}
