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

// Package adminserver is the process's operability surface: a gorilla/mux
// routed HTTP server, separate from any listener the protocol core itself
// owns, exposing /metrics, /metrics/remote-write, /status and (optionally)
// net/http/pprof.
package adminserver

import (
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/packetd/httpcore/confengine"
	"github.com/packetd/httpcore/internal/rescue"
	"github.com/packetd/httpcore/logger"
	"github.com/packetd/httpcore/metrics"
)

// Config controls whether the admin server runs at all and how it binds.
type Config struct {
	Enabled bool          `config:"enabled"`
	Address string        `config:"address"`
	Pprof   bool          `config:"pprof"`
	Timeout time.Duration `config:"timeout"`
}

// Server is the admin/metrics HTTP surface.
type Server struct {
	config   Config
	router   *mux.Router
	server   *http.Server
	registry *metrics.Registry
	instance string
}

// New builds a Server from the "admin" section of conf. It returns a nil
// Server, nil error when the section is absent or disabled -- callers must
// check for nil before calling ListenAndServe.
func New(conf *confengine.Config, gatherer prometheus.Gatherer, registry *metrics.Registry, instance string) (*Server, error) {
	if !conf.Has("admin") {
		return nil, nil
	}
	var config Config
	if err := conf.UnpackChild("admin", &config); err != nil {
		return nil, err
	}
	if !config.Enabled {
		return nil, nil
	}

	router := mux.NewRouter()
	s := &Server{
		config:   config,
		router:   router,
		registry: registry,
		instance: instance,
		server: &http.Server{
			Handler:      router,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
		},
	}

	s.RegisterGetRoute("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	s.RegisterGetRoute("/metrics/remote-write", s.handleRemoteWrite)
	s.RegisterGetRoute("/status", s.handleStatus)
	if config.Pprof {
		s.registerPprofRoutes()
	}
	return s, nil
}

// ListenAndServe binds config.Address and serves until the listener errs
// or the process shuts the server down.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	logger.Infof("admin server listening on %s", s.config.Address)
	return s.server.Serve(l)
}

func (s *Server) RegisterGetRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodGet).Path(path).HandlerFunc(f)
}

func (s *Server) RegisterPostRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodPost).Path(path).HandlerFunc(f)
}

func (s *Server) registerPprofRoutes() {
	s.RegisterGetRoute("/debug/pprof/cmdline", pprof.Cmdline)
	s.RegisterGetRoute("/debug/pprof/profile", pprof.Profile)
	s.RegisterGetRoute("/debug/pprof/symbol", pprof.Symbol)
	s.RegisterGetRoute("/debug/pprof/trace", pprof.Trace)
	s.RegisterGetRoute("/debug/pprof/{other}", pprof.Index)
}

// handleRemoteWrite renders the current metrics snapshot as a
// snappy-compressed, gogo-protobuf-marshaled Prometheus remote-write
// WriteRequest, the same wire format a push to a real remote-write
// endpoint would use.
func (s *Server) handleRemoteWrite(w http.ResponseWriter, r *http.Request) {
	snap := s.registry.Snapshot(float64(rescue.Count()))
	wr := metrics.BuildWriteRequest(snap, s.instance, time.Now())

	marshaled, err := metrics.Marshal(wr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-protobuf")
	w.Header().Set("Content-Encoding", "snappy")
	w.Header().Set("X-Prometheus-Remote-Write-Version", "0.1.0")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(metrics.Compress(marshaled))
}

// handleStatus renders the current metrics snapshot as JSON, for humans
// and dashboards that would rather not decode protobuf.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.registry.Snapshot(float64(rescue.Count()))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
