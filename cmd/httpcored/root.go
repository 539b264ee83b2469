// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/packetd/httpcore/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "httpcored",
	Short: "HTTP/1.1 and HTTP/2 protocol core",
	// PersistentPreRunE tunes GOMAXPROCS to the container's CPU quota
	// before any subcommand runs, the way every production Go server
	// wrapping automaxprocs does.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := maxprocs.Set(maxprocs.Logger(logger.Infof))
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "httpcored.yaml", "Configuration file path")
}

// Execute runs the command tree; main's sole responsibility.
func Execute() error {
	return rootCmd.Execute()
}
