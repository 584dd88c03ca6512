// Package main is the entry point for the vocal CLI.
//
// Usage:
//
//	vocal [flags] <command> [subcommand] [args]
//
// Commands:
//
//	diarize    - Diarize session chunks into labeled speaker turns
//	enroll     - Build the voice reference from clean recordings
//	identify   - Tell the enrolled voice apart from other speakers
//	profile    - Manage enrollment profiles (list, deactivate, delete)
//	monitor    - Replay a recording through the capture pipeline with a live level feed
//	config     - Manage pipeline tuning
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/vocalapp/vocal/cmd/vocal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
