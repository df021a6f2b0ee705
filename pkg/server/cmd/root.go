/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cmd provides the commands of notesync-server
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/notesync/notesync/pkg/server/buildinfo"
	"github.com/pkg/errors"
)

func rootCmd() {
	fmt.Printf(`notesync-server - a self-hosted notes API for notesync

Usage:
  notesync-server [command] [flags]

Available commands:
  start: Start the server (use 'notesync-server start --help' for flags)
  user: Manage users (use 'notesync-server user' for subcommands)
  version: Print the version
`)
}

func versionCmd() {
	fmt.Printf("notesync-server-%s\n", buildinfo.Version)
}

func exitOnError(err error) {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return
	}

	fmt.Printf("Error: %s\n", err)
	os.Exit(1)
}

// Execute is the main entry point for the CLI
func Execute() {
	if len(os.Args) < 2 {
		rootCmd()
		return
	}

	cmd := os.Args[1]

	switch cmd {
	case "start":
		exitOnError(startCmd(os.Args[2:]))
	case "user":
		exitOnError(userCmd(os.Args[2:]))
	case "version":
		versionCmd()
	default:
		fmt.Printf("Unknown command %s\n", cmd)
		rootCmd()
		os.Exit(1)
	}
}
