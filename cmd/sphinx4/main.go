// Package main provides the sphinx4 CLI tool.
//
// Usage:
//
//	sphinx4 [flags] <command> [args]
//
// Commands:
//
//	devices     - List audio input devices
//	record      - Capture audio from a device into the archive
//	recordings  - List, inspect, export and delete recordings
//	stream      - Serve live capture audio over WebSocket
//	config      - Configuration management
//
// Configuration is stored in ~/.sphinx4/config.yaml.
package main

import (
	"fmt"
	"os"

	"github.com/presentformyfriends/sphinx4/cmd/sphinx4/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
