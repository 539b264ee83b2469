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
	"fmt"
	"net"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/packetd/httpcore/adminserver"
	"github.com/packetd/httpcore/confengine"
	"github.com/packetd/httpcore/internal/pool"
	"github.com/packetd/httpcore/internal/sigs"
	"github.com/packetd/httpcore/logger"
	"github.com/packetd/httpcore/metrics"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the HTTP/1.1 and HTTP/2 protocol core",
	RunE:    runServe,
	Example: "# httpcored serve --config httpcored.yaml",
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := confengine.LoadConfigPath(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logCfg, err := cfg.UnpackLog(); err == nil {
		logger.SetOptions(logger.Options{
			Stdout:     logCfg.Stdout,
			Level:      logCfg.Level,
			Filename:   logCfg.Filename,
			MaxSize:    logCfg.MaxSize,
			MaxAge:     logCfg.MaxAge,
			MaxBackups: logCfg.MaxBackups,
		})
	}

	listenerConfigs, err := cfg.UnpackListeners()
	if err != nil {
		return fmt.Errorf("failed to unpack listeners: %w", err)
	}

	promReg := prometheus.NewRegistry()
	registry := metrics.NewRegistry(promReg)
	bufPool := pool.NewBufferPool()
	httpPool := pool.NewHTTPObjectPool()

	admin, err := adminserver.New(cfg, promReg, registry, hostname())
	if err != nil {
		return fmt.Errorf("failed to create admin server: %w", err)
	}
	if admin != nil {
		go func() {
			if err := admin.ListenAndServe(); err != nil {
				logger.Errorf("admin server stopped: %v", err)
			}
		}()
	}

	listeners := make([]*listener, 0, len(listenerConfigs))
	for _, lc := range listenerConfigs {
		ln, err := net.Listen("tcp", lc.Address)
		if err != nil {
			return fmt.Errorf("failed to listen on %s (%s): %w", lc.Address, lc.Name, err)
		}
		logger.Infof("listener %s listening on %s", lc.Name, lc.Address)

		connCfg := connConfigFor(lc)
		l := newListener(lc.Name, ln, connCfg, bufPool, httpPool, registry)
		listeners = append(listeners, l)
		go func() {
			if err := l.serve(); err != nil {
				logger.Errorf("listener %s stopped: %v", l.name, err)
			}
		}()
	}

	terminate := sigs.Terminate()
	reload := sigs.Reload()
	for {
		select {
		case <-terminate:
			return shutdown(listeners)

		case <-reload:
			logger.Infof("received reload signal; listener topology changes require a restart, refreshing log options only")
			newCfg, err := confengine.LoadConfigPath(configPath)
			if err != nil {
				logger.Errorf("failed to reload config: %v", err)
				continue
			}
			cfg = newCfg
			if logCfg, err := cfg.UnpackLog(); err == nil {
				logger.SetOptions(logger.Options{
					Stdout:     logCfg.Stdout,
					Level:      logCfg.Level,
					Filename:   logCfg.Filename,
					MaxSize:    logCfg.MaxSize,
					MaxAge:     logCfg.MaxAge,
					MaxBackups: logCfg.MaxBackups,
				})
			}
		}
	}
}

func shutdown(listeners []*listener) error {
	var result *multierror.Error
	for _, l := range listeners {
		if err := l.ln.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("listener %s: %w", l.name, err))
		}
	}
	return result.ErrorOrNil()
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "httpcored"
	}
	return h
}
